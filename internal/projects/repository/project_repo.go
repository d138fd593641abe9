package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/commhub/community-settings/internal/settings/domain"
)

// ProjectRepository provides persistence operations for projects
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `id, name, disabled, notes, team, platform_token, assistant_token, variables, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var (
		p        domain.Project
		disabled sql.NullBool
	)
	if err := row.Scan(&p.ID, &p.Name, &disabled, &p.Notes, &p.Team, &p.PlatformToken,
		&p.AssistantToken, &p.Variables, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if disabled.Valid {
		p.Disabled = &disabled.Bool
	}
	return &p, nil
}

// Create inserts a project with only a name; every other attribute starts blank.
func (r *ProjectRepository) Create(ctx context.Context, name string) (*domain.Project, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("create project: name required: %w", domain.ErrInvalidInput)
	}

	q := `
INSERT INTO projects (name)
VALUES ($1)
RETURNING ` + projectColumns + `;
`
	p, err := scanProject(r.db.QueryRowContext(ctx, q, strings.TrimSpace(name)))
	if err != nil {
		return nil, mapError("create project", err)
	}
	return p, nil
}

// Get returns one project by id.
func (r *ProjectRepository) Get(ctx context.Context, id string) (*domain.Project, error) {
	q := `
SELECT ` + projectColumns + `
FROM projects
WHERE id = $1;
`
	p, err := scanProject(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, mapError("get project", err)
	}
	return p, nil
}

// Update replaces every editable attribute of the project.
func (r *ProjectRepository) Update(ctx context.Context, id string, u domain.ProjectUpdate) (*domain.Project, error) {
	q := `
UPDATE projects
SET name = $2, disabled = $3, notes = $4, team = $5,
    platform_token = $6, assistant_token = $7, variables = $8,
    updated_at = now()
WHERE id = $1
RETURNING ` + projectColumns + `;
`
	p, err := scanProject(r.db.QueryRowContext(ctx, q, id, u.Name, u.Disabled, u.Notes, u.Team,
		u.PlatformToken, u.AssistantToken, u.Variables))
	if err != nil {
		return nil, mapError("update project", err)
	}
	return p, nil
}
