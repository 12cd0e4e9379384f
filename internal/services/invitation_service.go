package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ad/go-telegram-helpdesk/internal/db"
	"github.com/ad/go-telegram-helpdesk/internal/logger"
	"github.com/ad/go-telegram-helpdesk/internal/models"
	"github.com/google/uuid"
)

var (
	ErrInvitationUnknown = errors.New("unknown invitation code")
	ErrInvitationUsed    = errors.New("invitation code already used")
)

type InvitationStore interface {
	Create(inv models.Invitation) error
	Redeem(code string, userID int64, at time.Time) error
	IsMember(userID int64) (bool, error)
}

type InvitationService struct {
	store InvitationStore
	log   *logger.Logger
	now   func() time.Time
}

func NewInvitationService(store InvitationStore, log *logger.Logger) *InvitationService {
	return &InvitationService{
		store: store,
		log:   log.With("component", "invitation_service"),
		now:   time.Now,
	}
}

// Create issues a fresh single-use code on behalf of createdBy.
func (s *InvitationService) Create(createdBy int64) (models.Invitation, error) {
	inv := models.Invitation{
		Code:      uuid.NewString(),
		CreatedBy: createdBy,
		CreatedAt: s.now(),
	}
	if err := s.store.Create(inv); err != nil {
		return models.Invitation{}, fmt.Errorf("failed to create invitation: %w", err)
	}
	s.log.Info("invitation created", "created_by", createdBy)
	return inv, nil
}

func (s *InvitationService) Redeem(code string, userID int64) error {
	if _, err := uuid.Parse(code); err != nil {
		return ErrInvitationUnknown
	}
	err := s.store.Redeem(code, userID, s.now())
	switch {
	case err == nil:
		s.log.Info("invitation redeemed", "user_id", userID)
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return ErrInvitationUnknown
	case errors.Is(err, db.ErrInvitationUsed):
		return ErrInvitationUsed
	default:
		return fmt.Errorf("failed to redeem invitation: %w", err)
	}
}

// IsMember reports whether userID redeemed an invitation earlier.
func (s *InvitationService) IsMember(userID int64) (bool, error) {
	ok, err := s.store.IsMember(userID)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return ok, nil
}
