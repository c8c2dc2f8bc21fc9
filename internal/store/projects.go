package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ItsNotGoodName/portfolio-os/internal/core"
)

const projectColumns = `id, title, description, tags, demo_link, image_url, display_order, is_active, created_at, updated_at`

func scanProject(row scanner) (Project, error) {
	var (
		p                    Project
		tags                 string
		demoLink, imageURL   sql.Null[string]
		createdAt, updatedAt int64
	)
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &tags, &demoLink, &imageURL, &p.DisplayOrder, &p.IsActive, &createdAt, &updatedAt); err != nil {
		return Project{}, err
	}
	if err := json.Unmarshal([]byte(tags), &p.Tags); err != nil {
		return Project{}, fmt.Errorf("failed to decode tags of project %d: %w", p.ID, err)
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	p.DemoLink = core.SQLNullToNull(demoLink)
	p.ImageURL = core.SQLNullToNull(imageURL)
	p.CreatedAt = core.UnixMilli(createdAt)
	p.UpdatedAt = core.UnixMilli(updatedAt)
	return p, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *Store) CreateProject(ctx context.Context, arg CreateProject) (Project, error) {
	return s.createProject(ctx, s.db, arg)
}

func (s *Store) createProject(ctx context.Context, q querier, arg CreateProject) (Project, error) {
	if err := requireText("title", arg.Title); err != nil {
		return Project{}, err
	}
	if err := requireText("description", arg.Description); err != nil {
		return Project{}, err
	}
	if err := optionalURL("demo_link", arg.DemoLink); err != nil {
		return Project{}, err
	}
	if err := optionalURL("image_url", arg.ImageURL); err != nil {
		return Project{}, err
	}
	if arg.DisplayOrder < 0 {
		return Project{}, fmt.Errorf("%w: display order must not be negative", ErrInvalid)
	}
	tags, err := encodeTags(arg.Tags)
	if err != nil {
		return Project{}, err
	}

	now := s.timestamp()
	p, err := scanProject(q.QueryRowContext(ctx, `
		INSERT INTO projects (title, description, tags, demo_link, image_url, display_order, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+projectColumns,
		arg.Title,
		arg.Description,
		tags,
		core.NullToSQLNull(core.BlankToNull(arg.DemoLink)),
		core.NullToSQLNull(core.BlankToNull(arg.ImageURL)),
		int64(arg.DisplayOrder),
		arg.IsActive,
		now,
		now,
	))
	if err != nil {
		return Project{}, fmt.Errorf("failed to create project: %w", err)
	}
	return p, nil
}

// ListProjects returns active projects by display order, then newest first.
func (s *Store) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+projectColumns+` FROM projects
		WHERE is_active = 1
		ORDER BY display_order ASC, created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// GetProject returns a project whether or not it is active.
func (s *Store) GetProject(ctx context.Context, id int64) (Project, error) {
	p, err := scanProject(s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id))
	if err != nil {
		return Project{}, notFound(err, "project %d", id)
	}
	return p, nil
}

func (s *Store) UpdateProject(ctx context.Context, id int64, patch ProjectPatch) (Project, error) {
	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if patch.Title != nil {
		if err := requireText("title", *patch.Title); err != nil {
			return Project{}, err
		}
		set("title", *patch.Title)
	}
	if patch.Description != nil {
		if err := requireText("description", *patch.Description); err != nil {
			return Project{}, err
		}
		set("description", *patch.Description)
	}
	if patch.Tags != nil {
		tags, err := encodeTags(patch.Tags)
		if err != nil {
			return Project{}, err
		}
		set("tags", tags)
	}
	if patch.DemoLink != nil {
		if err := optionalURL("demo_link", patch.DemoLink); err != nil {
			return Project{}, err
		}
		set("demo_link", core.NullToSQLNull(core.BlankToNull(patch.DemoLink)))
	}
	if patch.ImageURL != nil {
		if err := optionalURL("image_url", patch.ImageURL); err != nil {
			return Project{}, err
		}
		set("image_url", core.NullToSQLNull(core.BlankToNull(patch.ImageURL)))
	}
	if patch.DisplayOrder != nil {
		if *patch.DisplayOrder < 0 {
			return Project{}, fmt.Errorf("%w: display order must not be negative", ErrInvalid)
		}
		set("display_order", int64(*patch.DisplayOrder))
	}
	if patch.IsActive != nil {
		set("is_active", *patch.IsActive)
	}
	set("updated_at", s.timestamp())
	args = append(args, id)

	p, err := scanProject(s.db.QueryRowContext(ctx, `
		UPDATE projects SET `+strings.Join(sets, ", ")+` WHERE id = ?
		RETURNING `+projectColumns, args...))
	if err != nil {
		return Project{}, notFound(err, "project %d", id)
	}
	return p, nil
}

// ImportProjects creates every project in one transaction and returns how many were created.
func (s *Store) ImportProjects(ctx context.Context, args []CreateProject) (int, error) {
	count := 0
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for i, arg := range args {
			if _, err := s.createProject(ctx, tx, arg); err != nil {
				return fmt.Errorf("project %d: %w", i, err)
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
