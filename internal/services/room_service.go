package services

import (
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/thereayou/parley/internal/database"
	"github.com/thereayou/parley/internal/handlers/dto"
	"github.com/thereayou/parley/internal/models"
	apperrors "github.com/thereayou/parley/pkg/errors"
)

type RoomService struct {
	db       *database.Database
	messages *MessageService
}

func NewRoomService(db *database.Database, messages *MessageService) *RoomService {
	return &RoomService{db: db, messages: messages}
}

// CreateGroup creates a named group room. The creator, when given,
// becomes a member immediately.
func (s *RoomService) CreateGroup(name string, creatorID *uuid.UUID) (*models.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation(apperrors.CodeNameRequired, "room name is required")
	}

	room := &models.Room{Name: name, IsGroup: true}
	if err := s.db.CreateRoom(room); err != nil {
		return nil, err
	}

	if creatorID != nil {
		if err := s.db.AddMembership(*creatorID, room.ID); err != nil {
			return nil, err
		}
	}

	if err := s.db.TouchRoom(room.ID); err != nil {
		return nil, err
	}
	return room, nil
}

// EnsureDirectRoom finds or creates the single direct room between two
// users and makes sure both hold membership. Safe to call repeatedly or
// concurrently: the synthetic name is deterministic and membership
// inserts are find-or-create.
func (s *RoomService) EnsureDirectRoom(userA, userB uuid.UUID) (*models.Room, error) {
	if userA == uuid.Nil || userB == uuid.Nil || userA == userB {
		return nil, apperrors.Validation(apperrors.CodeInvalidUserIDs, "two distinct user ids are required")
	}

	name := models.DirectRoomName(userA, userB)
	room, err := s.db.FindDirectRoom(name)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			return nil, err
		}
		room = &models.Room{Name: name, IsGroup: false}
		if err := s.db.CreateRoom(room); err != nil {
			return nil, err
		}
	}

	if err := s.db.AddMembership(userA, room.ID); err != nil {
		return nil, err
	}
	if err := s.db.AddMembership(userB, room.ID); err != nil {
		return nil, err
	}
	return room, nil
}

// AddMember is an idempotent membership insert.
func (s *RoomService) AddMember(userID, roomID uuid.UUID) error {
	return s.db.AddMembership(userID, roomID)
}

// RemoveMember removes the membership and applies the empty-room policy
// in one store transaction.
func (s *RoomService) RemoveMember(userID, roomID uuid.UUID, opts database.RemoveOptions) (*database.RemovalResult, error) {
	return s.db.RemoveUserFromRoom(userID, roomID, opts)
}

// ListForUser returns the user's rooms, most recently active first, each
// enriched with its member count and last message. Enrichment failures
// degrade that room's fields to null instead of failing the listing.
func (s *RoomService) ListForUser(userID uuid.UUID) ([]dto.RoomSummary, error) {
	rooms, err := s.db.GetUserRooms(userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.RoomSummary, len(rooms))
	for i := range rooms {
		summary := dto.RoomSummary{RoomView: dto.NewRoomView(&rooms[i])}

		if count, err := s.db.CountMembers(rooms[i].ID); err != nil {
			log.Printf("Failed to count members of room %s: %v", rooms[i].ID, err)
		} else {
			summary.Members = &count
		}

		if last, err := s.db.LastMessage(rooms[i].ID); err != nil {
			log.Printf("Failed to load last message of room %s: %v", rooms[i].ID, err)
		} else if last != nil {
			view := dto.NewMessageView(last)
			summary.LastMessage = &view
		}

		summaries[i] = summary
	}
	return summaries, nil
}

// Invite resolves the target by id or username, grants membership,
// records a system "joined" message, and bumps room activity. The caller
// is responsible for broadcasting and force-joining live connections.
func (s *RoomService) Invite(roomID uuid.UUID, targetUserID, targetUsername string) (*models.User, error) {
	if targetUserID == "" && targetUsername == "" {
		return nil, apperrors.Validation(apperrors.CodeUserRequired, "a user id or username is required")
	}

	if _, err := s.db.GetRoom(roomID.String()); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperrors.NotFound(apperrors.CodeRoomNotFound, "room not found")
		}
		return nil, err
	}

	var user *models.User
	var err error
	if targetUserID != "" {
		user, err = s.db.GetUser(targetUserID)
	} else {
		user, err = s.db.FindUserByUsername(targetUsername)
	}
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperrors.NotFound(apperrors.CodeUserNotFound, "user not found")
		}
		return nil, err
	}

	if err := s.db.AddMembership(user.ID, roomID); err != nil {
		return nil, err
	}
	if _, err := s.messages.SystemMessage(roomID, models.KindInviteJoin, user); err != nil {
		return nil, err
	}
	if err := s.db.TouchRoom(roomID); err != nil {
		return nil, err
	}
	return user, nil
}
