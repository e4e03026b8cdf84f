// File: store/messages.go
package store

import (
	"context"
	"database/sql"
	"time"

	"church-site/models"
)

// MessageStore persists contact messages.
type MessageStore interface {
	Create(ctx context.Context, m *models.Message) error
	Get(ctx context.Context, id int64) (models.Message, error)
	List(ctx context.Context) ([]models.Message, error)
	Archive(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

// SQLiteMessageStore implements MessageStore using SQLite.
type SQLiteMessageStore struct {
	db *sql.DB
}

// NewSQLiteMessageStore creates a new SQLiteMessageStore.
func NewSQLiteMessageStore(db *sql.DB) *SQLiteMessageStore {
	return &SQLiteMessageStore{db: db}
}

const messageColumns = `id, name, email, subject, content, urgency, timestamp, is_archived`

// Create inserts m and sets its ID. A zero Timestamp is stamped with the
// current time; the stored value is never changed afterwards.
func (s *SQLiteMessageStore) Create(ctx context.Context, m *models.Message) error {
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	m.Timestamp = m.Timestamp.UTC()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO message (name, email, subject, content, urgency, timestamp, is_archived)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.Name, m.Email, m.Subject, m.Content, string(m.Urgency),
		m.Timestamp.Format(timestampLayout), m.IsArchived)
	if err != nil {
		return storageErr("create message", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return storageErr("create message", err)
	}
	m.ID = id
	return nil
}

// Get returns models.ErrNotFound for an unknown id.
func (s *SQLiteMessageStore) Get(ctx context.Context, id int64) (models.Message, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+messageColumns+` FROM message WHERE id = ?`, id)
	m, err := scanMessage(row)
	if err != nil {
		return models.Message{}, lookupErr("get message", err)
	}
	return m, nil
}

// List returns all messages, newest first.
func (s *SQLiteMessageStore) List(ctx context.Context) ([]models.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+messageColumns+` FROM message ORDER BY timestamp DESC, id DESC`)
	if err != nil {
		return nil, storageErr("list messages", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, storageErr("list messages", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list messages", err)
	}
	return messages, nil
}

// Archive sets is_archived. Archiving an archived message is a no-op.
func (s *SQLiteMessageStore) Archive(ctx context.Context, id int64) error {
	return execOne(ctx, s.db, "archive message", `UPDATE message SET is_archived = 1 WHERE id = ?`, id)
}

// Delete removes one message.
func (s *SQLiteMessageStore) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, s.db, "delete message", `DELETE FROM message WHERE id = ?`, id)
}

func scanMessage(row scanner) (models.Message, error) {
	var m models.Message
	var urgency, ts string
	if err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Content, &urgency, &ts, &m.IsArchived); err != nil {
		return models.Message{}, err
	}
	m.Urgency = models.Urgency(urgency)
	t, err := time.Parse(timestampLayout, ts)
	if err != nil {
		return models.Message{}, err
	}
	m.Timestamp = t
	return m, nil
}
