// Package projectstest provides an in-memory backend for the settings
// service, for tests that exercise the HTTP API end to end.
package projectstest

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/commhub/community-settings/internal/projects/service"
	"github.com/commhub/community-settings/internal/settings/domain"
)

// Store implements every store interface of the service package.
type Store struct {
	mu       sync.Mutex
	projects map[string]domain.Project
	tags     []domain.Tag
	presets  []domain.AiPreset
	defs     []domain.GlobalVariableDefinition
	values   []domain.GlobalVariableValue
}

func NewStore() *Store {
	return &Store{projects: map[string]domain.Project{}}
}

// Deps wires the store into service.Deps.
func (s *Store) Deps() service.Deps {
	return service.Deps{
		Projects: projectStore{s},
		Tags:     tagStore{s},
		Presets:  presetStore{s},
		Globals:  globalStore{s},
	}
}

func notFound(what, id string) error {
	return fmt.Errorf("%s %s: %w", what, id, domain.ErrNotFound)
}

// Seed inserts a project as is.
func (s *Store) Seed(p domain.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[p.ID] = p
}

func (s *Store) SeedTag(t domain.Tag) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tags = append(s.tags, t)
}

func (s *Store) SeedDefinition(d domain.GlobalVariableDefinition, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defs = append(s.defs, d)
	if value != "" {
		s.values = append(s.values, domain.GlobalVariableValue{
			ID: domain.Persisted(uuid.NewString()), ProjectID: d.ProjectID, DefinitionID: d.ID, Value: value,
		})
	}
}

func (s *Store) hasProject(id string) bool {
	_, ok := s.projects[id]
	return ok
}

type projectStore struct{ s *Store }

func (p projectStore) Create(ctx context.Context, name string) (*domain.Project, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	now := time.Now().UTC()
	proj := domain.Project{ID: uuid.NewString(), Name: strings.TrimSpace(name), CreatedAt: now, UpdatedAt: now}
	p.s.projects[proj.ID] = proj
	return &proj, nil
}

func (p projectStore) Get(ctx context.Context, id string) (*domain.Project, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	proj, ok := p.s.projects[id]
	if !ok {
		return nil, notFound("project", id)
	}
	return &proj, nil
}

func (p projectStore) Update(ctx context.Context, id string, u domain.ProjectUpdate) (*domain.Project, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	proj, ok := p.s.projects[id]
	if !ok {
		return nil, notFound("project", id)
	}
	disabled := u.Disabled
	proj.Name, proj.Disabled, proj.Notes, proj.Team = u.Name, &disabled, u.Notes, u.Team
	proj.PlatformToken, proj.AssistantToken, proj.Variables = u.PlatformToken, u.AssistantToken, u.Variables
	proj.UpdatedAt = time.Now().UTC()
	p.s.projects[id] = proj
	return &proj, nil
}

type tagStore struct{ s *Store }

func (t tagStore) List(ctx context.Context, projectID string) ([]domain.Tag, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	out := []domain.Tag{}
	for _, tag := range t.s.tags {
		if tag.ProjectID == projectID {
			out = append(out, tag)
		}
	}
	return out, nil
}

func (t tagStore) Create(ctx context.Context, projectID string, tag domain.Tag) (domain.Tag, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if !t.s.hasProject(projectID) {
		return domain.Tag{}, notFound("project", projectID)
	}
	tag.ID = domain.Persisted(uuid.NewString())
	tag.ProjectID = projectID
	t.s.tags = append(t.s.tags, tag)
	return tag, nil
}

func (t tagStore) Update(ctx context.Context, id string, tag domain.Tag) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for i := range t.s.tags {
		if t.s.tags[i].ID.Value() == id {
			tag.ID, tag.ProjectID = t.s.tags[i].ID, t.s.tags[i].ProjectID
			t.s.tags[i] = tag
			return nil
		}
	}
	return notFound("tag", id)
}

func (t tagStore) Delete(ctx context.Context, id string) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	n := len(t.s.tags)
	t.s.tags = slices.DeleteFunc(t.s.tags, func(tag domain.Tag) bool { return tag.ID.Value() == id })
	if len(t.s.tags) == n {
		return notFound("tag", id)
	}
	return nil
}

type presetStore struct{ s *Store }

func (p presetStore) List(ctx context.Context, projectID string) ([]domain.AiPreset, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	out := []domain.AiPreset{}
	for _, preset := range p.s.presets {
		if preset.ProjectID == projectID {
			out = append(out, preset)
		}
	}
	return out, nil
}

func (p presetStore) Create(ctx context.Context, projectID string, preset domain.AiPreset) (domain.AiPreset, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if !p.s.hasProject(projectID) {
		return domain.AiPreset{}, notFound("project", projectID)
	}
	preset.ID = domain.Persisted(uuid.NewString())
	preset.ProjectID = projectID
	p.s.presets = append(p.s.presets, preset)
	return preset, nil
}

func (p presetStore) Update(ctx context.Context, id string, preset domain.AiPreset) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	for i := range p.s.presets {
		if p.s.presets[i].ID.Value() == id {
			preset.ID, preset.ProjectID = p.s.presets[i].ID, p.s.presets[i].ProjectID
			p.s.presets[i] = preset
			return nil
		}
	}
	return notFound("ai preset", id)
}

func (p presetStore) Delete(ctx context.Context, id string) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	n := len(p.s.presets)
	p.s.presets = slices.DeleteFunc(p.s.presets, func(preset domain.AiPreset) bool { return preset.ID.Value() == id })
	if len(p.s.presets) == n {
		return notFound("ai preset", id)
	}
	return nil
}

type globalStore struct{ s *Store }

func (g globalStore) List(ctx context.Context, projectID string) (domain.GlobalVariables, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	out := domain.GlobalVariables{Definitions: []domain.GlobalVariableDefinition{}, Values: []domain.GlobalVariableValue{}}
	live := map[domain.ID]bool{}
	for _, d := range g.s.defs {
		if d.ProjectID == projectID {
			out.Definitions = append(out.Definitions, d)
			live[d.ID] = true
		}
	}
	for _, v := range g.s.values {
		if v.ProjectID == projectID && live[v.DefinitionID] {
			out.Values = append(out.Values, v)
		}
	}
	return out, nil
}

func (g globalStore) ReplaceDefinitions(ctx context.Context, projectID string, defs []domain.GlobalVariableDefinition) ([]domain.GlobalVariableDefinition, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	if !g.s.hasProject(projectID) {
		return nil, notFound("project", projectID)
	}

	existing := map[domain.ID]bool{}
	for _, d := range g.s.defs {
		if d.ProjectID == projectID {
			existing[d.ID] = true
		}
	}

	out := make([]domain.GlobalVariableDefinition, 0, len(defs))
	for _, d := range defs {
		if d.ID.IsZero() {
			d.ID = domain.Persisted(uuid.NewString())
		} else if !existing[d.ID] {
			return nil, notFound("definition", d.ID.Value())
		}
		d.ProjectID = projectID
		out = append(out, d)
	}

	g.s.defs = slices.DeleteFunc(g.s.defs, func(d domain.GlobalVariableDefinition) bool { return d.ProjectID == projectID })
	g.s.defs = append(g.s.defs, out...)
	return slices.Clone(out), nil
}

func (g globalStore) UpsertValues(ctx context.Context, projectID string, values []domain.GlobalVariableValue) error {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()

	live := map[domain.ID]bool{}
	for _, d := range g.s.defs {
		if d.ProjectID == projectID {
			live[d.ID] = true
		}
	}
	for _, v := range values {
		if !live[v.DefinitionID] {
			return notFound("definition", v.DefinitionID.Value())
		}
	}

	for _, v := range values {
		i := slices.IndexFunc(g.s.values, func(e domain.GlobalVariableValue) bool {
			return e.ProjectID == projectID && e.DefinitionID == v.DefinitionID
		})
		if i >= 0 {
			g.s.values[i].Value = v.Value
			continue
		}
		g.s.values = append(g.s.values, domain.GlobalVariableValue{
			ID: domain.Persisted(uuid.NewString()), ProjectID: projectID, DefinitionID: v.DefinitionID, Value: v.Value,
		})
	}
	return nil
}
