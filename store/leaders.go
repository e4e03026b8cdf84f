// File: store/leaders.go
package store

import (
	"context"
	"database/sql"

	"church-site/models"
)

// LeaderStore persists staff profiles.
type LeaderStore interface {
	Create(ctx context.Context, l *models.Leader) error
	MarkReady(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (models.Leader, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]models.Leader, error)
	ListPending(ctx context.Context) ([]models.Leader, error)
}

// SQLiteLeaderStore implements LeaderStore using SQLite.
type SQLiteLeaderStore struct {
	db *sql.DB
}

// NewSQLiteLeaderStore creates a new SQLiteLeaderStore.
func NewSQLiteLeaderStore(db *sql.DB) *SQLiteLeaderStore {
	return &SQLiteLeaderStore{db: db}
}

const leaderColumns = `id, name, position, motto, phone, email, image_filename, pending`

// Create inserts l as pending and sets its ID.
func (s *SQLiteLeaderStore) Create(ctx context.Context, l *models.Leader) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO leader (name, position, motto, phone, email, image_filename, pending)
		 VALUES (?, ?, ?, ?, ?, ?, 1)`,
		l.Name, l.Position, l.Motto, l.Phone, l.Email, l.ImageFilename)
	if err != nil {
		return storageErr("create leader", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return storageErr("create leader", err)
	}
	l.ID = id
	l.Pending = true
	return nil
}

// MarkReady clears the pending marker once the image is on disk.
func (s *SQLiteLeaderStore) MarkReady(ctx context.Context, id int64) error {
	return execOne(ctx, s.db, "mark leader ready", `UPDATE leader SET pending = 0 WHERE id = ?`, id)
}

// Get returns models.ErrNotFound for an unknown id.
func (s *SQLiteLeaderStore) Get(ctx context.Context, id int64) (models.Leader, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+leaderColumns+` FROM leader WHERE id = ?`, id)
	l, err := scanLeader(row)
	if err != nil {
		return models.Leader{}, lookupErr("get leader", err)
	}
	return l, nil
}

// Delete removes one leader row.
func (s *SQLiteLeaderStore) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, s.db, "delete leader", `DELETE FROM leader WHERE id = ?`, id)
}

// List returns ready leaders in insertion order.
func (s *SQLiteLeaderStore) List(ctx context.Context) ([]models.Leader, error) {
	return s.query(ctx, "list leaders", `SELECT `+leaderColumns+` FROM leader WHERE pending = 0 ORDER BY id`)
}

// ListPending returns leaders whose image has not been confirmed.
func (s *SQLiteLeaderStore) ListPending(ctx context.Context) ([]models.Leader, error) {
	return s.query(ctx, "list pending leaders", `SELECT `+leaderColumns+` FROM leader WHERE pending = 1 ORDER BY id`)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLeader(row scanner) (models.Leader, error) {
	var l models.Leader
	err := row.Scan(&l.ID, &l.Name, &l.Position, &l.Motto, &l.Phone, &l.Email, &l.ImageFilename, &l.Pending)
	return l, err
}

func (s *SQLiteLeaderStore) query(ctx context.Context, op, q string) ([]models.Leader, error) {
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	var leaders []models.Leader
	for rows.Next() {
		l, err := scanLeader(rows)
		if err != nil {
			return nil, storageErr(op, err)
		}
		leaders = append(leaders, l)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return leaders, nil
}
