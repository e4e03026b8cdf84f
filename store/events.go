// File: store/events.go
package store

import (
	"context"
	"database/sql"

	"church-site/models"
)

// EventStore persists events.
type EventStore interface {
	Create(ctx context.Context, e *models.Event) error
	MarkReady(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	DeleteByPoster(ctx context.Context, posterFilename string) (int64, error)
	List(ctx context.Context) ([]models.Event, error)
	ListPending(ctx context.Context) ([]models.Event, error)
}

// SQLiteEventStore implements EventStore using SQLite.
type SQLiteEventStore struct {
	db *sql.DB
}

// NewSQLiteEventStore creates a new SQLiteEventStore.
func NewSQLiteEventStore(db *sql.DB) *SQLiteEventStore {
	return &SQLiteEventStore{db: db}
}

const eventColumns = `id, title, description, category, poster_filename, start_date, end_date, pending`

// Create inserts e as pending and sets its ID.
func (s *SQLiteEventStore) Create(ctx context.Context, e *models.Event) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO event (title, description, category, poster_filename, start_date, end_date, pending)
		 VALUES (?, ?, ?, ?, ?, ?, 1)`,
		e.Title, e.Description, e.Category, e.PosterFilename,
		models.CivilDate(e.StartDate), models.CivilDate(e.EndDate))
	if err != nil {
		return storageErr("create event", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return storageErr("create event", err)
	}
	e.ID = id
	e.Pending = true
	return nil
}

// MarkReady clears the pending marker once the poster is on disk.
func (s *SQLiteEventStore) MarkReady(ctx context.Context, id int64) error {
	return execOne(ctx, s.db, "mark event ready", `UPDATE event SET pending = 0 WHERE id = ?`, id)
}

// Delete removes one event.
func (s *SQLiteEventStore) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, s.db, "delete event", `DELETE FROM event WHERE id = ?`, id)
}

// DeleteByPoster removes every event that references posterFilename and
// returns how many were removed.
func (s *SQLiteEventStore) DeleteByPoster(ctx context.Context, posterFilename string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM event WHERE poster_filename = ?`, posterFilename)
	if err != nil {
		return 0, storageErr("delete events by poster", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storageErr("delete events by poster", err)
	}
	return n, nil
}

// List returns ready events ordered by start date.
func (s *SQLiteEventStore) List(ctx context.Context) ([]models.Event, error) {
	return s.query(ctx, "list events",
		`SELECT `+eventColumns+` FROM event WHERE pending = 0 ORDER BY start_date, id`)
}

// ListPending returns events whose poster has not been confirmed.
func (s *SQLiteEventStore) ListPending(ctx context.Context) ([]models.Event, error) {
	return s.query(ctx, "list pending events",
		`SELECT `+eventColumns+` FROM event WHERE pending = 1 ORDER BY id`)
}

func (s *SQLiteEventStore) query(ctx context.Context, op, q string, args ...any) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var e models.Event
		var start, end string
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Category, &e.PosterFilename,
			&start, &end, &e.Pending); err != nil {
			return nil, storageErr(op, err)
		}
		if e.StartDate, err = models.ParseDate(start); err != nil {
			return nil, storageErr(op, err)
		}
		if e.EndDate, err = models.ParseDate(end); err != nil {
			return nil, storageErr(op, err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return events, nil
}
