package store

import (
	"context"
	"fmt"

	"github.com/ItsNotGoodName/portfolio-os/internal/core"
)

func (s *Store) ensureStats(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO portfolio_stats (id, updated_at) VALUES (?, ?)
	`, singletonID, s.timestamp())
	if err != nil {
		return fmt.Errorf("failed to create stats: %w", err)
	}
	return nil
}

// GetStats returns the stored counters together with the project and like totals
// computed at read time.
func (s *Store) GetStats(ctx context.Context) (Stats, error) {
	if err := s.ensureStats(ctx); err != nil {
		return Stats{}, err
	}

	var (
		st        Stats
		updatedAt int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT
			id,
			(SELECT COUNT(*) FROM projects WHERE is_active = 1),
			years_experience,
			(SELECT COALESCE(SUM(count), 0) FROM likes),
			visitor_count,
			updated_at
		FROM portfolio_stats WHERE id = ?
	`, singletonID).Scan(&st.ID, &st.TotalProjects, &st.YearsExperience, &st.TotalLikes, &st.VisitorCount, &updatedAt)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to get stats: %w", err)
	}
	st.UpdatedAt = core.UnixMilli(updatedAt)
	return st, nil
}

func (s *Store) IncrementVisitorCount(ctx context.Context) (Stats, error) {
	now := s.timestamp()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO portfolio_stats (id, visitor_count, updated_at) VALUES (?, 1, ?)
		ON CONFLICT (id) DO UPDATE SET
			visitor_count = portfolio_stats.visitor_count + 1,
			updated_at = excluded.updated_at
	`, singletonID, now)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to increment visitor count: %w", err)
	}
	return s.GetStats(ctx)
}

// SetYearsExperience stores the configured years of experience.
func (s *Store) SetYearsExperience(ctx context.Context, years int) error {
	if years < 0 {
		return fmt.Errorf("%w: years of experience must not be negative", ErrInvalid)
	}

	now := s.timestamp()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO portfolio_stats (id, years_experience, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			years_experience = excluded.years_experience,
			updated_at = excluded.updated_at
	`, singletonID, int64(years), now)
	if err != nil {
		return fmt.Errorf("failed to set years of experience: %w", err)
	}
	return nil
}
