package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ItsNotGoodName/portfolio-os/internal/core"
)

const feedbackColumns = `id, name, email, message, created_at`

func scanFeedbackMessage(row scanner) (FeedbackMessage, error) {
	var (
		m         FeedbackMessage
		email     sql.Null[string]
		createdAt int64
	)
	if err := row.Scan(&m.ID, &m.Name, &email, &m.Message, &createdAt); err != nil {
		return FeedbackMessage{}, err
	}
	m.Email = core.SQLNullToNull(email)
	m.CreatedAt = core.UnixMilli(createdAt)
	return m, nil
}

func (s *Store) CreateFeedbackMessage(ctx context.Context, arg CreateFeedbackMessage) (FeedbackMessage, error) {
	if err := requireText("name", arg.Name); err != nil {
		return FeedbackMessage{}, err
	}
	if err := requireText("message", arg.Message); err != nil {
		return FeedbackMessage{}, err
	}

	m, err := scanFeedbackMessage(s.db.QueryRowContext(ctx, `
		INSERT INTO feedback_messages (name, email, message, created_at) VALUES (?, ?, ?, ?)
		RETURNING `+feedbackColumns,
		arg.Name, core.NullToSQLNull(core.BlankToNull(arg.Email)), arg.Message, s.timestamp()))
	if err != nil {
		return FeedbackMessage{}, fmt.Errorf("failed to create feedback message: %w", err)
	}
	return m, nil
}

// ListFeedbackMessages returns every feedback message, newest first.
func (s *Store) ListFeedbackMessages(ctx context.Context) ([]FeedbackMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+feedbackColumns+` FROM feedback_messages ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback messages: %w", err)
	}
	defer rows.Close()

	messages := []FeedbackMessage{}
	for rows.Next() {
		m, err := scanFeedbackMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

const contactColumns = `id, name, email, subject, message, is_read, created_at`

func scanContactMessage(row scanner) (ContactMessage, error) {
	var (
		m         ContactMessage
		email     sql.Null[string]
		createdAt int64
	)
	if err := row.Scan(&m.ID, &m.Name, &email, &m.Subject, &m.Message, &m.IsRead, &createdAt); err != nil {
		return ContactMessage{}, err
	}
	m.Email = core.SQLNullToNull(email)
	m.CreatedAt = core.UnixMilli(createdAt)
	return m, nil
}

// CreateContactMessage stores an unread contact message.
func (s *Store) CreateContactMessage(ctx context.Context, arg CreateContactMessage) (ContactMessage, error) {
	for _, field := range []struct{ name, value string }{
		{"name", arg.Name},
		{"subject", arg.Subject},
		{"message", arg.Message},
	} {
		if err := requireText(field.name, field.value); err != nil {
			return ContactMessage{}, err
		}
	}

	m, err := scanContactMessage(s.db.QueryRowContext(ctx, `
		INSERT INTO contact_messages (name, email, subject, message, is_read, created_at) VALUES (?, ?, ?, ?, 0, ?)
		RETURNING `+contactColumns,
		arg.Name, core.NullToSQLNull(core.BlankToNull(arg.Email)), arg.Subject, arg.Message, s.timestamp()))
	if err != nil {
		return ContactMessage{}, fmt.Errorf("failed to create contact message: %w", err)
	}
	return m, nil
}

// ListContactMessages returns every contact message, newest first.
func (s *Store) ListContactMessages(ctx context.Context) ([]ContactMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+contactColumns+` FROM contact_messages ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	defer rows.Close()

	messages := []ContactMessage{}
	for rows.Next() {
		m, err := scanContactMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
