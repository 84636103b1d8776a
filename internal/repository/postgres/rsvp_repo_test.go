package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"rsvptracker/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestRSVPRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		mock        func(mock sqlmock.Sqlmock)
		wantCreated bool
		wantID      int64
		wantCreatAt time.Time
		wantErr     bool
		errIs       error
	}{
		{
			name: "inserted",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO rsvps .* ON CONFLICT \(event_id, guest_email\)`).
					WithArgs(int64(1), "g@x.com", "yes", ts, ts).
					WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at", "inserted"}).AddRow(int64(10), ts, ts, true))
			},
			wantCreated: true,
			wantID:      10,
			wantCreatAt: ts,
		},
		{
			name: "updated keeps original created_at",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO rsvps`).
					WithArgs(int64(1), "g@x.com", "yes", ts, ts).
					WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at", "inserted"}).AddRow(int64(10), created, ts, false))
			},
			wantCreated: false,
			wantID:      10,
			wantCreatAt: created,
		},
		{
			name: "foreign key violation maps to not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO rsvps`).
					WillReturnError(&pq.Error{Code: "23503"})
			},
			wantErr: true,
			errIs:   domain.ErrNotFound,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO rsvps`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			rsvp := &domain.RSVP{EventID: 1, GuestEmail: "g@x.com", Status: "yes", CreatedAt: ts, UpdatedAt: ts}
			created, err := NewRSVPRepository(db).Upsert(ctx, rsvp)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantCreated, created)
			require.Equal(t, tt.wantID, rsvp.ID)
			require.Equal(t, tt.wantCreatAt, rsvp.CreatedAt)
			require.Equal(t, ts, rsvp.UpdatedAt)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRSVPRepository_GetByEventAndGuest(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, event_id, guest_email, status, created_at, updated_at\s+FROM rsvps\s+WHERE event_id = \$1 AND guest_email = \$2`).
			WithArgs(int64(1), "g@x.com").
			WillReturnRows(sqlmock.NewRows([]string{"id", "event_id", "guest_email", "status", "created_at", "updated_at"}).
				AddRow(int64(3), int64(1), "g@x.com", "maybe", ts, ts))

		got, err := NewRSVPRepository(db).GetByEventAndGuest(ctx, 1, "g@x.com")
		require.NoError(t, err)
		require.Equal(t, &domain.RSVP{ID: 3, EventID: 1, GuestEmail: "g@x.com", Status: "maybe", CreatedAt: ts, UpdatedAt: ts}, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, event_id`).
			WithArgs(int64(1), "nobody@x.com").
			WillReturnError(sql.ErrNoRows)

		got, err := NewRSVPRepository(db).GetByEventAndGuest(ctx, 1, "nobody@x.com")
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.Nil(t, got)
	})
}

func TestRSVPRepository_ListByEventID(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)
	cols := []string{"id", "event_id", "guest_email", "status", "created_at", "updated_at"}

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantLen int
		wantErr bool
	}{
		{
			name: "two rows",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, event_id, guest_email, status`).
					WithArgs(int64(1)).
					WillReturnRows(sqlmock.NewRows(cols).
						AddRow(int64(1), int64(1), "a@x.com", "yes", ts, ts).
						AddRow(int64(2), int64(1), "b@x.com", "Declined", ts, ts))
			},
			wantLen: 2,
		},
		{
			name: "empty returns non-nil slice",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, event_id`).
					WithArgs(int64(1)).
					WillReturnRows(sqlmock.NewRows(cols))
			},
			wantLen: 0,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, event_id`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			got, err := NewRSVPRepository(db).ListByEventID(ctx, 1)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, got)
			require.Len(t, got, tt.wantLen)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
