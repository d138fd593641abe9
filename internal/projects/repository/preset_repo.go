package repository

import (
	"context"
	"database/sql"

	"github.com/commhub/community-settings/internal/settings/domain"
)

// PresetRepository stores the named AI prompts of a project.
type PresetRepository struct {
	db *sql.DB
}

func NewPresetRepository(db *sql.DB) *PresetRepository {
	return &PresetRepository{db: db}
}

func scanPreset(row rowScanner) (domain.AiPreset, error) {
	var (
		p  domain.AiPreset
		id string
	)
	if err := row.Scan(&id, &p.ProjectID, &p.Name, &p.Prompt); err != nil {
		return domain.AiPreset{}, err
	}
	p.ID = domain.Persisted(id)
	return p, nil
}

func (r *PresetRepository) List(ctx context.Context, projectID string) ([]domain.AiPreset, error) {
	const q = `
SELECT id, project_id, name, prompt
FROM ai_presets
WHERE project_id = $1
ORDER BY created_at, id;
`
	rows, err := r.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, mapError("list ai presets", err)
	}
	defer rows.Close()

	out := make([]domain.AiPreset, 0, 8)
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, mapError("list ai presets", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list ai presets", err)
	}
	return out, nil
}

func (r *PresetRepository) Create(ctx context.Context, projectID string, p domain.AiPreset) (domain.AiPreset, error) {
	const q = `
INSERT INTO ai_presets (project_id, name, prompt)
VALUES ($1, $2, $3)
RETURNING id, project_id, name, prompt;
`
	created, err := scanPreset(r.db.QueryRowContext(ctx, q, projectID, p.Name, p.Prompt))
	if err != nil {
		return domain.AiPreset{}, mapError("create ai preset", err)
	}
	return created, nil
}

func (r *PresetRepository) Update(ctx context.Context, id string, p domain.AiPreset) error {
	res, err := r.db.ExecContext(ctx, `UPDATE ai_presets SET name = $2, prompt = $3 WHERE id = $1;`, id, p.Name, p.Prompt)
	if err != nil {
		return mapError("update ai preset", err)
	}
	return expectOne("update ai preset", res)
}

func (r *PresetRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM ai_presets WHERE id = $1;`, id)
	if err != nil {
		return mapError("delete ai preset", err)
	}
	return expectOne("delete ai preset", res)
}
