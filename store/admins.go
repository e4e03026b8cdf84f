// File: store/admins.go
package store

import (
	"context"
	"database/sql"

	"church-site/models"
)

// AdminStore persists the admin account.
type AdminStore interface {
	GetByUsername(ctx context.Context, username string) (models.Admin, error)
	Create(ctx context.Context, admin *models.Admin) error
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
	Count(ctx context.Context) (int, error)
}

// SQLiteAdminStore implements AdminStore using SQLite.
type SQLiteAdminStore struct {
	db *sql.DB
}

// NewSQLiteAdminStore creates a new SQLiteAdminStore.
func NewSQLiteAdminStore(db *sql.DB) *SQLiteAdminStore {
	return &SQLiteAdminStore{db: db}
}

// GetByUsername returns models.ErrNotFound when no admin has that username.
func (s *SQLiteAdminStore) GetByUsername(ctx context.Context, username string) (models.Admin, error) {
	var a models.Admin
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash FROM admin WHERE username = ?`, username).
		Scan(&a.ID, &a.Username, &a.PasswordHash)
	if err != nil {
		return models.Admin{}, lookupErr("get admin", err)
	}
	return a, nil
}

// Create inserts the admin and sets its ID.
func (s *SQLiteAdminStore) Create(ctx context.Context, admin *models.Admin) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO admin (username, password_hash) VALUES (?, ?)`,
		admin.Username, admin.PasswordHash)
	if err != nil {
		return storageErr("create admin", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return storageErr("create admin", err)
	}
	admin.ID = id
	return nil
}

// UpdatePasswordHash rewrites the stored hash for the admin with id.
func (s *SQLiteAdminStore) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	return execOne(ctx, s.db, "update admin password",
		`UPDATE admin SET password_hash = ? WHERE id = ?`, hash, id)
}

// Count returns the number of admin rows.
func (s *SQLiteAdminStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admin`).Scan(&n); err != nil {
		return 0, storageErr("count admins", err)
	}
	return n, nil
}
