package postgres

import (
	"context"
	"fmt"

	"github.com/mukesh2644009/darshan-style-hub-sub000/internal/domain"
	"github.com/mukesh2644009/darshan-style-hub-sub000/pkg/database"
	apperrors "github.com/mukesh2644009/darshan-style-hub-sub000/pkg/errors"
	"github.com/mukesh2644009/darshan-style-hub-sub000/pkg/pagination"
)

// MessageRepository implements repository.MessageRepository using PostgreSQL.
type MessageRepository struct {
	db database.DBTX
}

// NewMessageRepository creates a new PostgreSQL-backed message repository.
func NewMessageRepository(db database.DBTX) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a contact message.
func (r *MessageRepository) Create(ctx context.Context, m *domain.Message) error {
	query := `
		INSERT INTO messages (name, email, phone, body)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query, m.Name, m.Email, m.Phone, m.Body).
		Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}

	return nil
}

// List returns messages, newest first.
func (r *MessageRepository) List(ctx context.Context, unreadOnly bool, params pagination.Params) ([]domain.Message, int, error) {
	where := ""
	if unreadOnly {
		where = " WHERE NOT read"
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM messages`+where).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count messages: %w", err)
	}

	query := `
		SELECT id, name, email, phone, body, read, created_at
		FROM messages` + where + `
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, params.PerPage, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Body, &m.Read, &m.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan message row: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate message rows: %w", err)
	}

	return messages, total, nil
}

// MarkRead flags a message as read.
func (r *MessageRepository) MarkRead(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `UPDATE messages SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("message", id)
	}
	return nil
}

// Delete removes a message.
func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("message", id)
	}
	return nil
}
