package services

import (
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/thereayou/parley/internal/database"
	"github.com/thereayou/parley/internal/models"
	apperrors "github.com/thereayou/parley/pkg/errors"
)

// IdentityService resolves or creates user identities. Identity is
// self-asserted: a returning client presents its saved user id, a new
// client proposes a username.
type IdentityService struct {
	db *database.Database
}

func NewIdentityService(db *database.Database) *IdentityService {
	return &IdentityService{db: db}
}

const minUsernameLen = 3
const maxUsernameLen = 50

// ResolveOrRegister returns the existing user for a claimed id, or
// creates a new user from the proposed username. A claimed id that
// resolves to nothing is an error, never an implicit new account —
// that would silently fork the client's identity.
func (s *IdentityService) ResolveOrRegister(claimedID, username string) (*models.User, error) {
	if claimedID != "" {
		id, err := uuid.Parse(claimedID)
		if err != nil {
			return nil, apperrors.Conflict(apperrors.CodeInvalidUserID, "invalid user id")
		}

		user, err := s.db.GetUser(id.String())
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return nil, apperrors.Conflict(apperrors.CodeInvalidUserID, "unknown user id")
			}
			return nil, err
		}
		return user, nil
	}

	name := strings.TrimSpace(username)
	if len(name) < minUsernameLen || len(name) > maxUsernameLen {
		return nil, apperrors.Validation(apperrors.CodeUsernameRequired, "username must be 3-50 characters")
	}

	if _, err := s.db.FindUserByUsername(name); err == nil {
		return nil, apperrors.Conflict(apperrors.CodeUsernameTaken, "username is already taken")
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	user := &models.User{Username: name}
	if err := s.db.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetOnline is a best-effort presence update; a failure is logged and
// never fails the caller's flow.
func (s *IdentityService) SetOnline(userID uuid.UUID, online bool) {
	if err := s.db.SetOnline(userID.String(), online); err != nil {
		log.Printf("Failed to set online=%v for user %s: %v", online, userID, err)
	}
}
