package repository

import (
	"context"
	"database/sql"

	"github.com/commhub/community-settings/internal/settings/domain"
)

// TagRepository stores the keyword tags of a project.
type TagRepository struct {
	db *sql.DB
}

func NewTagRepository(db *sql.DB) *TagRepository {
	return &TagRepository{db: db}
}

func scanTag(row rowScanner) (domain.Tag, error) {
	var (
		t    domain.Tag
		id   string
		note sql.NullString
	)
	if err := row.Scan(&id, &t.ProjectID, &t.Name, &t.Keyword, &note, &t.Color); err != nil {
		return domain.Tag{}, err
	}
	t.ID = domain.Persisted(id)
	t.Note = stringPtr(note)
	return t, nil
}

// List returns the project's tags in creation order.
func (r *TagRepository) List(ctx context.Context, projectID string) ([]domain.Tag, error) {
	const q = `
SELECT id, project_id, name, keyword, note, color
FROM tags
WHERE project_id = $1
ORDER BY created_at, id;
`
	rows, err := r.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, mapError("list tags", err)
	}
	defer rows.Close()

	out := make([]domain.Tag, 0, 16)
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, mapError("list tags", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list tags", err)
	}
	return out, nil
}

func (r *TagRepository) Create(ctx context.Context, projectID string, t domain.Tag) (domain.Tag, error) {
	const q = `
INSERT INTO tags (project_id, name, keyword, note, color)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, project_id, name, keyword, note, color;
`
	created, err := scanTag(r.db.QueryRowContext(ctx, q, projectID, t.Name, t.Keyword, nullString(t.Note), t.Color))
	if err != nil {
		return domain.Tag{}, mapError("create tag", err)
	}
	return created, nil
}

func (r *TagRepository) Update(ctx context.Context, id string, t domain.Tag) error {
	const q = `
UPDATE tags
SET name = $2, keyword = $3, note = $4, color = $5
WHERE id = $1;
`
	res, err := r.db.ExecContext(ctx, q, id, t.Name, t.Keyword, nullString(t.Note), t.Color)
	if err != nil {
		return mapError("update tag", err)
	}
	return expectOne("update tag", res)
}

func (r *TagRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE id = $1;`, id)
	if err != nil {
		return mapError("delete tag", err)
	}
	return expectOne("delete tag", res)
}
