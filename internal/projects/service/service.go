package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/commhub/community-settings/internal/logging"
	"github.com/commhub/community-settings/internal/settings/domain"
	"github.com/commhub/community-settings/internal/settings/store"
	"github.com/commhub/community-settings/internal/settings/validation"
	"github.com/commhub/community-settings/internal/settings/varcodec"
)

type ProjectStore interface {
	Create(ctx context.Context, name string) (*domain.Project, error)
	Get(ctx context.Context, id string) (*domain.Project, error)
	Update(ctx context.Context, id string, u domain.ProjectUpdate) (*domain.Project, error)
}

type TagStore interface {
	List(ctx context.Context, projectID string) ([]domain.Tag, error)
	Create(ctx context.Context, projectID string, t domain.Tag) (domain.Tag, error)
	Update(ctx context.Context, id string, t domain.Tag) error
	Delete(ctx context.Context, id string) error
}

type PresetStore interface {
	List(ctx context.Context, projectID string) ([]domain.AiPreset, error)
	Create(ctx context.Context, projectID string, p domain.AiPreset) (domain.AiPreset, error)
	Update(ctx context.Context, id string, p domain.AiPreset) error
	Delete(ctx context.Context, id string) error
}

type GlobalVariableStore interface {
	List(ctx context.Context, projectID string) (domain.GlobalVariables, error)
	ReplaceDefinitions(ctx context.Context, projectID string, defs []domain.GlobalVariableDefinition) ([]domain.GlobalVariableDefinition, error)
	UpsertValues(ctx context.Context, projectID string, values []domain.GlobalVariableValue) error
}

// Filler suggests values for empty variables.
type Filler interface {
	Fill(ctx context.Context, project domain.Project, known, empty []domain.NamedValue) (domain.AiFillResult, error)
	Forget(ctx context.Context, projectID string)
}

// SettingsService validates requests and forwards them to the stores.
type SettingsService struct {
	projects ProjectStore
	tags     TagStore
	presets  PresetStore
	globals  GlobalVariableStore
	filler   Filler
}

type Deps struct {
	Projects ProjectStore
	Tags     TagStore
	Presets  PresetStore
	Globals  GlobalVariableStore
	// Filler is optional; without it AI fill answers ErrUnavailable.
	Filler Filler
}

func NewSettingsService(d Deps) *SettingsService {
	return &SettingsService{
		projects: d.Projects,
		tags:     d.Tags,
		presets:  d.Presets,
		globals:  d.Globals,
		filler:   d.Filler,
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), domain.ErrInvalidInput)
}

func (s *SettingsService) CreateProject(ctx context.Context, name string) (*domain.Project, error) {
	return s.projects.Create(ctx, name)
}

func (s *SettingsService) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.Get(ctx, id)
}

func (s *SettingsService) UpdateProject(ctx context.Context, id string, u domain.ProjectUpdate) (*domain.Project, error) {
	u.Name = strings.TrimSpace(u.Name)
	if u.Name == "" {
		return nil, invalid("project name required")
	}
	p, err := s.projects.Update(ctx, id, u)
	if err != nil {
		return nil, err
	}
	if s.filler != nil {
		s.filler.Forget(ctx, id)
	}
	return p, nil
}

func normalizeTag(t domain.Tag) (domain.Tag, error) {
	t.Name = strings.TrimSpace(t.Name)
	t.Keyword = strings.TrimSpace(t.Keyword)
	t.Color = strings.TrimSpace(t.Color)
	t.Note = domain.NormalizeNote(t.Note)
	if t.Name == "" || t.Keyword == "" {
		return t, invalid("tag name and keyword required")
	}
	if t.Color == "" {
		t.Color = store.DefaultTagColor
	}
	return t, nil
}

func (s *SettingsService) ListTags(ctx context.Context, projectID string) ([]domain.Tag, error) {
	return s.tags.List(ctx, projectID)
}

func (s *SettingsService) CreateTag(ctx context.Context, projectID string, t domain.Tag) (domain.Tag, error) {
	t, err := normalizeTag(t)
	if err != nil {
		return domain.Tag{}, err
	}
	return s.tags.Create(ctx, projectID, t)
}

func (s *SettingsService) UpdateTag(ctx context.Context, id string, t domain.Tag) error {
	t, err := normalizeTag(t)
	if err != nil {
		return err
	}
	return s.tags.Update(ctx, id, t)
}

func (s *SettingsService) DeleteTag(ctx context.Context, id string) error {
	return s.tags.Delete(ctx, id)
}

func normalizePreset(p domain.AiPreset) (domain.AiPreset, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Prompt = strings.TrimSpace(p.Prompt)
	if p.Name == "" || p.Prompt == "" {
		return p, invalid("preset name and prompt required")
	}
	return p, nil
}

func (s *SettingsService) ListAiPresets(ctx context.Context, projectID string) ([]domain.AiPreset, error) {
	return s.presets.List(ctx, projectID)
}

func (s *SettingsService) CreateAiPreset(ctx context.Context, projectID string, p domain.AiPreset) (domain.AiPreset, error) {
	p, err := normalizePreset(p)
	if err != nil {
		return domain.AiPreset{}, err
	}
	return s.presets.Create(ctx, projectID, p)
}

func (s *SettingsService) UpdateAiPreset(ctx context.Context, id string, p domain.AiPreset) error {
	p, err := normalizePreset(p)
	if err != nil {
		return err
	}
	return s.presets.Update(ctx, id, p)
}

func (s *SettingsService) DeleteAiPreset(ctx context.Context, id string) error {
	return s.presets.Delete(ctx, id)
}

func (s *SettingsService) ListGlobalVariables(ctx context.Context, projectID string) (domain.GlobalVariables, error) {
	return s.globals.List(ctx, projectID)
}

// ReplaceGlobalVariableDefinitions rejects blank fields and duplicate
// names or keys before touching the catalog.
func (s *SettingsService) ReplaceGlobalVariableDefinitions(ctx context.Context, projectID string, defs []domain.GlobalVariableDefinition) ([]domain.GlobalVariableDefinition, error) {
	for i := range defs {
		defs[i].Name = strings.TrimSpace(defs[i].Name)
		defs[i].PlaceholderKey = strings.TrimSpace(defs[i].PlaceholderKey)
		defs[i].Note = domain.NormalizeNote(defs[i].Note)
		if defs[i].Name == "" || defs[i].PlaceholderKey == "" {
			return nil, invalid("definition %d: name and placeholder key required", i)
		}
	}
	if errs := validation.Definitions(defs); errs.Any() {
		return nil, invalid("definitions contain duplicate names or keys")
	}

	stored, err := s.globals.ReplaceDefinitions(ctx, projectID, defs)
	if err != nil {
		return nil, err
	}
	logging.New(ctx).LogInfof("replace_definitions", "project_id=%s count=%d", projectID, len(stored))
	return stored, nil
}

func (s *SettingsService) UpdateGlobalVariableValues(ctx context.Context, projectID string, values []domain.GlobalVariableValue) error {
	for i, v := range values {
		if v.DefinitionID.IsZero() {
			return invalid("value %d: definition id required", i)
		}
	}
	if len(values) == 0 {
		return nil
	}
	return s.globals.UpsertValues(ctx, projectID, values)
}

// RequestAiVariableFill looks up the project so the model sees its name,
// notes and the variables that already have a value.
func (s *SettingsService) RequestAiVariableFill(ctx context.Context, projectID string, empty []domain.NamedValue) (domain.AiFillResult, error) {
	if s.filler == nil {
		return domain.AiFillResult{}, fmt.Errorf("ai fill not configured: %w", domain.ErrUnavailable)
	}

	p, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return domain.AiFillResult{}, err
	}

	var known []domain.NamedValue
	for _, item := range varcodec.Parse(p.Variables) {
		if item.Name != "" && item.Value != "" {
			known = append(known, domain.NamedValue{Name: item.Name, Value: item.Value})
		}
	}

	return s.filler.Fill(ctx, *p, known, empty)
}
