package errors

// Wire error codes. These are the strings clients branch on, both in
// websocket acknowledgements and in HTTP error envelopes.
const (
	CodeInvalidUserID    = "invalid_user_id"
	CodeUsernameRequired = "username_required"
	CodeUsernameTaken    = "username_taken"
	CodeNotRegistered    = "not_registered"
	CodeBadRequest       = "bad_request"
	CodeNameRequired     = "name_required"
	CodeInvalidUserIDs   = "invalid_user_ids"
	CodeUserRequired     = "user_required"
	CodeUserNotFound     = "user_not_found"
	CodeRoomNotFound     = "room_not_found"

	// Per-operation fallback codes for unexpected failures.
	CodeRegisterFailed  = "register_failed"
	CodeJoinFailed      = "join_failed"
	CodeSwitchFailed    = "switch_failed"
	CodeLeaveRoomFailed = "leave_room_failed"
	CodeSendFailed      = "send_failed"
	CodeCreateFailed    = "create_failed"
	CodeDirectFailed    = "direct_failed"
	CodeListFailed      = "list_failed"
	CodeInviteFailed    = "invite_failed"
)
