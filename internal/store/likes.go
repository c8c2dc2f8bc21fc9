package store

import (
	"context"
	"fmt"

	"github.com/ItsNotGoodName/portfolio-os/internal/core"
)

const likesColumns = `id, count, created_at, updated_at`

func scanLikes(row scanner) (Likes, error) {
	var (
		l                    Likes
		createdAt, updatedAt int64
	)
	if err := row.Scan(&l.ID, &l.Count, &createdAt, &updatedAt); err != nil {
		return Likes{}, err
	}
	l.CreatedAt = core.UnixMilli(createdAt)
	l.UpdatedAt = core.UnixMilli(updatedAt)
	return l, nil
}

// GetLikes returns the like counter, creating it with a zero count on first use.
func (s *Store) GetLikes(ctx context.Context) (Likes, error) {
	now := s.timestamp()
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO likes (id, count, created_at, updated_at) VALUES (?, 0, ?, ?)
	`, singletonID, now, now)
	if err != nil {
		return Likes{}, fmt.Errorf("failed to create likes: %w", err)
	}

	likes, err := scanLikes(s.db.QueryRowContext(ctx, `SELECT `+likesColumns+` FROM likes WHERE id = ?`, singletonID))
	if err != nil {
		return Likes{}, fmt.Errorf("failed to get likes: %w", err)
	}
	return likes, nil
}

// IncrementLikes adds increment to the like counter in a single statement so concurrent
// increments accumulate.
func (s *Store) IncrementLikes(ctx context.Context, increment int64) (Likes, error) {
	if increment < 1 {
		return Likes{}, fmt.Errorf("%w: increment must be positive", ErrInvalid)
	}

	now := s.timestamp()
	likes, err := scanLikes(s.db.QueryRowContext(ctx, `
		INSERT INTO likes (id, count, created_at, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			count = likes.count + excluded.count,
			updated_at = excluded.updated_at
		RETURNING `+likesColumns, singletonID, increment, now, now))
	if err != nil {
		return Likes{}, fmt.Errorf("failed to increment likes: %w", err)
	}
	return likes, nil
}
