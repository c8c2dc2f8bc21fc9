package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ItsNotGoodName/portfolio-os/internal/core"
)

const settingsColumns = `id, sound_enabled, theme, animation_speed, show_visitor_count, updated_at`

func scanSettings(row scanner) (Settings, error) {
	var (
		st        Settings
		updatedAt int64
	)
	if err := row.Scan(&st.ID, &st.SoundEnabled, &st.Theme, &st.AnimationSpeed, &st.ShowVisitorCount, &updatedAt); err != nil {
		return Settings{}, err
	}
	st.UpdatedAt = core.UnixMilli(updatedAt)
	return st, nil
}

func (s *Store) ensureSettings(ctx context.Context, q querier) error {
	_, err := q.ExecContext(ctx, `
		INSERT OR IGNORE INTO portfolio_settings (id, updated_at) VALUES (?, ?)
	`, singletonID, s.timestamp())
	if err != nil {
		return fmt.Errorf("failed to create settings: %w", err)
	}
	return nil
}

// GetSettings returns the settings, creating the default row on first use.
func (s *Store) GetSettings(ctx context.Context) (Settings, error) {
	if err := s.ensureSettings(ctx, s.db); err != nil {
		return Settings{}, err
	}

	st, err := scanSettings(s.db.QueryRowContext(ctx, `SELECT `+settingsColumns+` FROM portfolio_settings WHERE id = ?`, singletonID))
	if err != nil {
		return Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	return st, nil
}

// UpdateSettings patches the settings row, inserting the defaults first when it does not exist.
func (s *Store) UpdateSettings(ctx context.Context, patch SettingsPatch) (Settings, error) {
	if err := patch.validate(); err != nil {
		return Settings{}, err
	}

	var theme, animationSpeed *string
	if patch.Theme != nil {
		theme = core.Pointer(string(*patch.Theme))
	}
	if patch.AnimationSpeed != nil {
		animationSpeed = core.Pointer(string(*patch.AnimationSpeed))
	}

	var st Settings
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.ensureSettings(ctx, tx); err != nil {
			return err
		}

		var err error
		st, err = scanSettings(tx.QueryRowContext(ctx, `
			UPDATE portfolio_settings SET
				sound_enabled = COALESCE(?, sound_enabled),
				theme = COALESCE(?, theme),
				animation_speed = COALESCE(?, animation_speed),
				show_visitor_count = COALESCE(?, show_visitor_count),
				updated_at = ?
			WHERE id = ?
			RETURNING `+settingsColumns,
			core.NullToSQLNull(patch.SoundEnabled),
			core.NullToSQLNull(theme),
			core.NullToSQLNull(animationSpeed),
			core.NullToSQLNull(patch.ShowVisitorCount),
			s.timestamp(),
			singletonID,
		))
		return err
	})
	if err != nil {
		return Settings{}, fmt.Errorf("failed to update settings: %w", err)
	}
	return st, nil
}
