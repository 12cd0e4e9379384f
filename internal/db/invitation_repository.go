package db

import (
	"database/sql"
	"errors"
	"time"

	"github.com/ad/go-telegram-helpdesk/internal/models"
)

var ErrInvitationUsed = errors.New("invitation already used")

type InvitationRepository struct {
	queue *DBQueue
}

func NewInvitationRepository(queue *DBQueue) *InvitationRepository {
	return &InvitationRepository{queue: queue}
}

func (r *InvitationRepository) Create(inv models.Invitation) error {
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`
			INSERT INTO invitations (code, created_by, created_at)
			VALUES (?, ?, ?)
		`, inv.Code, inv.CreatedBy, inv.CreatedAt)
		return nil, err
	})
	return err
}

func (r *InvitationRepository) Get(code string) (*models.Invitation, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		row := db.QueryRow(`
			SELECT code, created_by, created_at, used_by, used_at
			FROM invitations WHERE code = ?
		`, code)

		var inv models.Invitation
		var usedBy sql.NullInt64
		var usedAt sql.NullTime
		if err := row.Scan(&inv.Code, &inv.CreatedBy, &inv.CreatedAt, &usedBy, &usedAt); err != nil {
			return nil, err
		}
		if usedBy.Valid {
			inv.UsedBy = &usedBy.Int64
		}
		if usedAt.Valid {
			inv.UsedAt = &usedAt.Time
		}
		return &inv, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.Invitation), nil
}

// Redeem marks an unused invitation as used by userID. It returns
// sql.ErrNoRows for unknown codes and ErrInvitationUsed for spent ones.
func (r *InvitationRepository) Redeem(code string, userID int64, at time.Time) error {
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		res, err := db.Exec(`
			UPDATE invitations SET used_by = ?, used_at = ?
			WHERE code = ? AND used_by IS NULL
		`, userID, at, code)
		if err != nil {
			return nil, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, nil
		}

		var exists int
		if err := db.QueryRow(`SELECT COUNT(*) FROM invitations WHERE code = ?`, code).Scan(&exists); err != nil {
			return nil, err
		}
		if exists == 0 {
			return nil, sql.ErrNoRows
		}
		return nil, ErrInvitationUsed
	})
	return err
}

// IsMember reports whether userID has redeemed any invitation.
func (r *InvitationRepository) IsMember(userID int64) (bool, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		var count int
		err := db.QueryRow(`SELECT COUNT(*) FROM invitations WHERE used_by = ?`, userID).Scan(&count)
		return count > 0, err
	})
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}
