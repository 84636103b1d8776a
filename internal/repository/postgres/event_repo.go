package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"rsvptracker/internal/domain"
)

const eventColumns = `id, title, date, start_time, end_time, all_day, description, location, organizer_email, guest_emails, created_at, updated_at`

type eventRepository struct {
	DB DBTX
}

func NewEventRepository(db DBTX) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, date, start_time, end_time, all_day, description, location, organizer_email, guest_emails, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`
	guests := e.GuestEmails
	if guests == nil {
		guests = []string{}
	}
	return r.DB.QueryRowContext(ctx, query,
		e.Title, e.Date, e.StartTime, e.EndTime, e.AllDay, e.Description, e.Location,
		e.OrganizerEmail, pq.Array(guests), e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY created_at DESC, id DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var startNull, endNull, descNull, locNull sql.NullString
	var guests pq.StringArray
	err := row.Scan(
		&e.ID, &e.Title, &e.Date, &startNull, &endNull, &e.AllDay,
		&descNull, &locNull, &e.OrganizerEmail, &guests, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.StartTime = nullableString(startNull)
	e.EndTime = nullableString(endNull)
	e.Description = nullableString(descNull)
	e.Location = nullableString(locNull)
	e.GuestEmails = []string(guests)
	if e.GuestEmails == nil {
		e.GuestEmails = []string{}
	}
	return e, nil
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
