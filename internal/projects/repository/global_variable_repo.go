package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/commhub/community-settings/internal/settings/domain"
)

// GlobalVariableRepository stores the definition catalog and the
// per-project values.
type GlobalVariableRepository struct {
	db *sql.DB
}

func NewGlobalVariableRepository(db *sql.DB) *GlobalVariableRepository {
	return &GlobalVariableRepository{db: db}
}

func scanDefinition(row rowScanner) (domain.GlobalVariableDefinition, error) {
	var (
		d    domain.GlobalVariableDefinition
		id   string
		note sql.NullString
	)
	if err := row.Scan(&id, &d.ProjectID, &d.Name, &d.PlaceholderKey, &note); err != nil {
		return domain.GlobalVariableDefinition{}, err
	}
	d.ID = domain.Persisted(id)
	d.Note = stringPtr(note)
	return d, nil
}

// List returns the catalog in its stored order and the values that still
// reference a live definition.
func (r *GlobalVariableRepository) List(ctx context.Context, projectID string) (domain.GlobalVariables, error) {
	out := domain.GlobalVariables{
		Definitions: []domain.GlobalVariableDefinition{},
		Values:      []domain.GlobalVariableValue{},
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT id, project_id, name, placeholder_key, note
FROM global_variable_definitions
WHERE project_id = $1
ORDER BY position, id;
`, projectID)
	if err != nil {
		return out, mapError("list global variable definitions", err)
	}
	for rows.Next() {
		d, err := scanDefinition(rows)
		if err != nil {
			rows.Close()
			return out, mapError("list global variable definitions", err)
		}
		out.Definitions = append(out.Definitions, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return out, mapError("list global variable definitions", err)
	}

	rows, err = r.db.QueryContext(ctx, `
SELECT v.id, v.project_id, v.definition_id, v.value
FROM project_global_variable_values v
JOIN global_variable_definitions d ON d.id = v.definition_id AND d.project_id = v.project_id
WHERE v.project_id = $1
ORDER BY d.position, v.id;
`, projectID)
	if err != nil {
		return out, mapError("list global variable values", err)
	}
	defer rows.Close()
	for rows.Next() {
		var v domain.GlobalVariableValue
		var id, defID string
		if err := rows.Scan(&id, &v.ProjectID, &defID, &v.Value); err != nil {
			return out, mapError("list global variable values", err)
		}
		v.ID = domain.Persisted(id)
		v.DefinitionID = domain.Persisted(defID)
		out.Values = append(out.Values, v)
	}
	if err := rows.Err(); err != nil {
		return out, mapError("list global variable values", err)
	}
	return out, nil
}

// ReplaceDefinitions makes defs the project's whole catalog in one
// transaction. Definitions with an empty id are created; persisted ids
// missing from defs are deleted. The result follows the order of defs.
func (r *GlobalVariableRepository) ReplaceDefinitions(ctx context.Context, projectID string, defs []domain.GlobalVariableDefinition) ([]domain.GlobalVariableDefinition, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, mapError("replace definitions", err)
	}
	defer func() { _ = tx.Rollback() }()

	var locked string
	if err := tx.QueryRowContext(ctx, `SELECT id FROM projects WHERE id = $1 FOR UPDATE;`, projectID).Scan(&locked); err != nil {
		return nil, mapError("replace definitions", err)
	}

	keep := make([]string, 0, len(defs))
	for _, d := range defs {
		if !d.ID.IsZero() {
			keep = append(keep, d.ID.Value())
		}
	}

	if _, err := tx.ExecContext(ctx, `
DELETE FROM global_variable_definitions
WHERE project_id = $1 AND NOT (id = ANY($2::uuid[]));
`, projectID, pq.Array(keep)); err != nil {
		return nil, mapError("replace definitions", err)
	}

	// Park the surviving keys so a reorder or swap cannot trip the unique index.
	if _, err := tx.ExecContext(ctx, `
UPDATE global_variable_definitions
SET placeholder_key = id::text
WHERE project_id = $1;
`, projectID); err != nil {
		return nil, mapError("replace definitions", err)
	}

	out := make([]domain.GlobalVariableDefinition, 0, len(defs))
	for i, d := range defs {
		var stored domain.GlobalVariableDefinition
		if d.ID.IsZero() {
			stored, err = scanDefinition(tx.QueryRowContext(ctx, `
INSERT INTO global_variable_definitions (project_id, name, placeholder_key, note, position)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, project_id, name, placeholder_key, note;
`, projectID, d.Name, d.PlaceholderKey, nullString(d.Note), i))
		} else {
			stored, err = scanDefinition(tx.QueryRowContext(ctx, `
UPDATE global_variable_definitions
SET name = $3, placeholder_key = $4, note = $5, position = $6
WHERE id = $1 AND project_id = $2
RETURNING id, project_id, name, placeholder_key, note;
`, d.ID.Value(), projectID, d.Name, d.PlaceholderKey, nullString(d.Note), i))
		}
		if err != nil {
			return nil, mapError(fmt.Sprintf("replace definitions: item %d", i), err)
		}
		out = append(out, stored)
	}

	if err := tx.Commit(); err != nil {
		return nil, mapError("replace definitions", err)
	}
	return out, nil
}

// UpsertValues writes every value keyed by (project, definition). A value
// whose definition is not in the project's catalog fails the whole batch.
func (r *GlobalVariableRepository) UpsertValues(ctx context.Context, projectID string, values []domain.GlobalVariableValue) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapError("upsert values", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, v := range values {
		res, err := tx.ExecContext(ctx, `
INSERT INTO project_global_variable_values (project_id, definition_id, value)
SELECT $1, d.id, $3
FROM global_variable_definitions d
WHERE d.id = $2 AND d.project_id = $1
ON CONFLICT (project_id, definition_id)
DO UPDATE SET value = EXCLUDED.value, updated_at = now();
`, projectID, v.DefinitionID.Value(), v.Value)
		if err != nil {
			return mapError("upsert values", err)
		}
		if err := expectOne(fmt.Sprintf("upsert values: definition %s", v.DefinitionID), res); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return mapError("upsert values", err)
	}
	return nil
}

// DeleteOrphanValues removes values whose definition no longer exists.
func (r *GlobalVariableRepository) DeleteOrphanValues(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM project_global_variable_values v
WHERE NOT EXISTS (
  SELECT 1 FROM global_variable_definitions d
  WHERE d.id = v.definition_id AND d.project_id = v.project_id
);
`)
	if err != nil {
		return 0, mapError("delete orphan values", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, mapError("delete orphan values", err)
	}
	return n, nil
}
