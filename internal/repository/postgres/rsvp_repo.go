package postgres

import (
	"context"
	"database/sql"
	"errors"

	"rsvptracker/internal/domain"
)

type rsvpRepository struct {
	DB DBTX
}

func NewRSVPRepository(db DBTX) domain.RSVPRepository {
	return &rsvpRepository{
		DB: db,
	}
}

// Upsert relies on the (event_id, guest_email) unique constraint so concurrent submissions
// for the same guest resolve to a single row; the last writer's status wins.
func (r *rsvpRepository) Upsert(ctx context.Context, rsvp *domain.RSVP) (bool, error) {
	query := `
		INSERT INTO rsvps (event_id, guest_email, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (event_id, guest_email)
		DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at, (xmax = 0) AS inserted
	`
	var inserted bool
	err := r.DB.QueryRowContext(ctx, query, rsvp.EventID, rsvp.GuestEmail, rsvp.Status, rsvp.CreatedAt, rsvp.UpdatedAt).
		Scan(&rsvp.ID, &rsvp.CreatedAt, &rsvp.UpdatedAt, &inserted)
	if err != nil {
		if isPQCode(err, codeForeignKeyViolation) {
			return false, domain.ErrNotFound
		}
		return false, err
	}
	return inserted, nil
}

func (r *rsvpRepository) GetByEventAndGuest(ctx context.Context, eventID int64, guestEmail string) (*domain.RSVP, error) {
	query := `
		SELECT id, event_id, guest_email, status, created_at, updated_at
		FROM rsvps
		WHERE event_id = $1 AND guest_email = $2
	`
	rsvp := &domain.RSVP{}
	err := r.DB.QueryRowContext(ctx, query, eventID, guestEmail).
		Scan(&rsvp.ID, &rsvp.EventID, &rsvp.GuestEmail, &rsvp.Status, &rsvp.CreatedAt, &rsvp.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rsvp, nil
}

func (r *rsvpRepository) ListByEventID(ctx context.Context, eventID int64) ([]*domain.RSVP, error) {
	query := `
		SELECT id, event_id, guest_email, status, created_at, updated_at
		FROM rsvps
		WHERE event_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rsvps []*domain.RSVP
	for rows.Next() {
		rsvp := &domain.RSVP{}
		if err := rows.Scan(&rsvp.ID, &rsvp.EventID, &rsvp.GuestEmail, &rsvp.Status, &rsvp.CreatedAt, &rsvp.UpdatedAt); err != nil {
			return nil, err
		}
		rsvps = append(rsvps, rsvp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if rsvps == nil {
		rsvps = []*domain.RSVP{}
	}
	return rsvps, nil
}
