// Package service runs a project settings editing session: it loads the
// project and its dependent collections, accepts local edits, validates them
// and reconciles them back to the server on submit.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/commhub/community-settings/internal/logging"
	"github.com/commhub/community-settings/internal/settings/domain"
	"github.com/commhub/community-settings/internal/settings/form"
	"github.com/commhub/community-settings/internal/settings/store"
	"github.com/commhub/community-settings/internal/settings/validation"
	"github.com/commhub/community-settings/internal/settings/varcodec"
)

// DefaultTemplates are the variable names suggested for every project.
var DefaultTemplates = []string{
	"Phone number",
	"Address",
	"Business hours",
	"Website",
	"Email",
	"Delivery terms",
	"Payment methods",
}

type Options struct {
	Gateway  Gateway
	Reporter Reporter
	// Templates overrides DefaultTemplates when non-nil.
	Templates []string
}

// Session is one editing session. All methods are safe for concurrent use;
// network calls run without holding the lock while the state machine keeps
// local edits out.
type Session struct {
	gw        Gateway
	rep       Reporter
	templates []string

	mu      sync.Mutex
	state   State
	lastErr error
	seeded  map[string]bool
	// unloaded holds the sections whose fetch failed on the last load.
	unloaded  map[Section]bool
	projectID string
	project   domain.Project
	form      form.ProjectForm

	variables   []domain.VariableItem
	aiSuggested map[string]bool

	tags        *store.Collection[domain.Tag]
	presets     *store.Collection[domain.AiPreset]
	definitions *store.Collection[domain.GlobalVariableDefinition]
	values      *store.Collection[domain.GlobalVariableValue]
	errs        validation.Errors
}

func NewSession(opts Options) *Session {
	templates := opts.Templates
	if templates == nil {
		templates = DefaultTemplates
	}
	return &Session{
		gw:        opts.Gateway,
		rep:       opts.Reporter,
		templates: templates,
		seeded:    make(map[string]bool),
		errs:      validation.Errors{},
	}
}

// Load fetches the project and its collections concurrently. A failed fetch
// is reported and leaves its section empty without blocking the others; the
// joined fetch errors are returned while the session still becomes Ready.
func (s *Session) Load(ctx context.Context, projectID string) error {
	s.mu.Lock()
	if !s.state.canLoad() {
		s.mu.Unlock()
		return domain.ErrSessionBusy
	}
	s.state = StateLoading
	s.mu.Unlock()

	logger := logging.New(ctx).With("project_id", projectID)
	logger.LogInfo("settings_load", "loading project settings")

	var (
		project            domain.Project
		tags               []domain.Tag
		presets            []domain.AiPreset
		globals            domain.GlobalVariables
		projErr, tagErr    error
		presetErr, globErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		project, projErr = s.gw.FetchProject(ctx, projectID)
		return nil
	})
	g.Go(func() error {
		tags, tagErr = s.gw.ListTags(ctx, projectID)
		return nil
	})
	g.Go(func() error {
		presets, presetErr = s.gw.ListAiPresets(ctx, projectID)
		return nil
	})
	g.Go(func() error {
		globals, globErr = s.gw.ListGlobalVariables(ctx, projectID)
		return nil
	})
	_ = g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.projectID = projectID
	s.lastErr = nil
	s.unloaded = make(map[Section]bool)
	s.aiSuggested = make(map[string]bool)
	s.tags = store.NewCollection(store.TagKind(projectID))
	s.presets = store.NewCollection(store.PresetKind(projectID))
	s.definitions = store.NewCollection(store.DefinitionKind(projectID))
	s.values = store.NewCollection(store.ValueKind(projectID))

	var failures []error
	if projErr != nil {
		s.unloaded[SectionProject] = true
		s.warnFetch(logger, "project", projErr)
		failures = append(failures, fmt.Errorf("fetch project: %w", projErr))
		project = domain.Project{ID: projectID}
	}
	s.project = project
	s.form = form.FromProject(project)
	s.variables = varcodec.Parse(project.Variables)
	if projErr == nil {
		s.seedTemplates()
	}

	if tagErr != nil {
		s.unloaded[SectionTags] = true
		s.warnFetch(logger, "tags", tagErr)
		failures = append(failures, fmt.Errorf("fetch tags: %w", tagErr))
		tags = nil
	}
	s.tags.Reset(tags)

	if presetErr != nil {
		s.unloaded[SectionAiPresets] = true
		s.warnFetch(logger, "AI presets", presetErr)
		failures = append(failures, fmt.Errorf("fetch ai presets: %w", presetErr))
		presets = nil
	}
	s.presets.Reset(presets)

	if globErr != nil {
		s.unloaded[SectionGlobalVariables] = true
		s.warnFetch(logger, "global variables", globErr)
		failures = append(failures, fmt.Errorf("fetch global variables: %w", globErr))
		globals = domain.GlobalVariables{}
	}
	s.definitions.Reset(globals.Definitions)
	s.values.Reset(globals.Values)
	s.revalidate()

	s.state = StateReady
	return errors.Join(failures...)
}

// Refresh discards local edits and loads the current project again.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	projectID := s.projectID
	state := s.state
	s.mu.Unlock()

	switch state {
	case StateIdle:
		return domain.ErrNotLoaded
	case StateClosed:
		return domain.ErrClosed
	case StateReady:
		return s.Load(ctx, projectID)
	}
	return domain.ErrSessionBusy
}

func (s *Session) warnFetch(logger *logging.Logger, what string, err error) {
	logger.LogError("settings_load_"+strings.ReplaceAll(strings.ToLower(what), " ", "_"), err)
	s.rep.Warn(fmt.Sprintf("Could not load %s: %v", what, err))
}

// seedTemplates appends every template name missing from the variables, the
// first time this session loads the project.
func (s *Session) seedTemplates() {
	if s.seeded[s.projectID] {
		return
	}
	s.seeded[s.projectID] = true

	present := make(map[string]bool, len(s.variables))
	for _, v := range s.variables {
		present[strings.ToLower(strings.TrimSpace(v.Name))] = true
	}
	for _, name := range s.templates {
		key := strings.ToLower(strings.TrimSpace(name))
		if present[key] {
			continue
		}
		present[key] = true
		s.variables = append(s.variables, newVariable(name, ""))
	}
}

func (s *Session) revalidate() {
	s.errs = validation.Definitions(s.definitions.Items())
}

// mutate runs fn under the lock when the session accepts edits.
func (s *Session) mutate(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.state.mutationError(); err != nil {
		return err
	}
	return fn()
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastError is the error of the most recent failed submit, cleared by Load.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Unloaded lists the sections that failed to load, in form order.
func (s *Session) Unloaded() []Section {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Section
	for _, sec := range []Section{SectionProject, SectionTags, SectionAiPresets, SectionGlobalVariables} {
		if s.unloaded[sec] {
			out = append(out, sec)
		}
	}
	return out
}

func (s *Session) ProjectID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projectID
}

func (s *Session) Form() form.ProjectForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

func (s *Session) SetProjectField(field, value string) error {
	return s.mutate(func() error { return s.form.Set(field, value) })
}

// Tags

func (s *Session) Tags() []domain.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tags == nil {
		return nil
	}
	return s.tags.Items()
}

func (s *Session) AddTag() (domain.Tag, error) {
	var t domain.Tag
	err := s.mutate(func() error {
		t = s.tags.Add()
		return nil
	})
	return t, err
}

func (s *Session) EditTag(id domain.ID, field store.Field[domain.Tag], value string) error {
	return s.mutate(func() error {
		if !s.tags.Edit(id, field, value) {
			return fmt.Errorf("tag %s: %w", id, domain.ErrNotFound)
		}
		return nil
	})
}

func (s *Session) RemoveTag(id domain.ID) error {
	return s.mutate(func() error {
		if !s.tags.Remove(id) {
			return fmt.Errorf("tag %s: %w", id, domain.ErrNotFound)
		}
		return nil
	})
}

// AI presets

func (s *Session) Presets() []domain.AiPreset {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.presets == nil {
		return nil
	}
	return s.presets.Items()
}

func (s *Session) AddPreset() (domain.AiPreset, error) {
	var p domain.AiPreset
	err := s.mutate(func() error {
		p = s.presets.Add()
		return nil
	})
	return p, err
}

func (s *Session) EditPreset(id domain.ID, field store.Field[domain.AiPreset], value string) error {
	return s.mutate(func() error {
		if !s.presets.Edit(id, field, value) {
			return fmt.Errorf("ai preset %s: %w", id, domain.ErrNotFound)
		}
		return nil
	})
}

func (s *Session) RemovePreset(id domain.ID) error {
	return s.mutate(func() error {
		if !s.presets.Remove(id) {
			return fmt.Errorf("ai preset %s: %w", id, domain.ErrNotFound)
		}
		return nil
	})
}

// Global variables

func (s *Session) Definitions() []domain.GlobalVariableDefinition {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.definitions == nil {
		return nil
	}
	return s.definitions.Items()
}

func (s *Session) Values() []domain.GlobalVariableValue {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		return nil
	}
	return s.values.Items()
}

// ValidationErrors returns the current duplicate name/key errors by definition id.
func (s *Session) ValidationErrors() validation.Errors {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(validation.Errors, len(s.errs))
	for k, v := range s.errs {
		out[k] = v
	}
	return out
}

func (s *Session) AddDefinition() (domain.GlobalVariableDefinition, error) {
	var d domain.GlobalVariableDefinition
	err := s.mutate(func() error {
		d = s.definitions.Add()
		s.revalidate()
		return nil
	})
	return d, err
}

func (s *Session) EditDefinition(id domain.ID, field store.Field[domain.GlobalVariableDefinition], value string) error {
	return s.mutate(func() error {
		if !s.definitions.Edit(id, field, value) {
			return fmt.Errorf("global variable %s: %w", id, domain.ErrNotFound)
		}
		s.revalidate()
		return nil
	})
}

func (s *Session) RemoveDefinition(id domain.ID) error {
	return s.mutate(func() error {
		if !s.definitions.Remove(id) {
			return fmt.Errorf("global variable %s: %w", id, domain.ErrNotFound)
		}
		s.revalidate()
		return nil
	})
}

// GlobalValue returns the project's value for a definition.
func (s *Session) GlobalValue(definitionID domain.ID) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.valueFor(definitionID); ok {
		return v.Value, true
	}
	return "", false
}

// SetGlobalValue edits the value for a definition, creating the value row the
// first time one is typed.
func (s *Session) SetGlobalValue(definitionID domain.ID, value string) error {
	return s.mutate(func() error {
		if _, ok := s.definitions.Get(definitionID); !ok {
			return fmt.Errorf("global variable %s: %w", definitionID, domain.ErrNotFound)
		}
		if v, ok := s.valueFor(definitionID); ok {
			s.values.Edit(v.ID, store.ValueText, value)
			return nil
		}
		v := s.values.Kind().New()
		v.DefinitionID = definitionID
		v.Value = value
		s.values.Append(v)
		return nil
	})
}

func (s *Session) valueFor(definitionID domain.ID) (domain.GlobalVariableValue, bool) {
	if s.values == nil {
		return domain.GlobalVariableValue{}, false
	}
	for _, v := range s.values.Items() {
		if v.DefinitionID == definitionID {
			return v, true
		}
	}
	return domain.GlobalVariableValue{}, false
}
