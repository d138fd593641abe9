package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/commhub/community-settings/internal/settings/domain"
)

var errBoom = errors.New("boom")

// fakeGateway serves canned data and records every call by name.
type fakeGateway struct {
	mu    sync.Mutex
	calls []string

	project domain.Project
	tags    []domain.Tag
	presets []domain.AiPreset
	globals domain.GlobalVariables
	fill    domain.AiFillResult

	// fail maps a call name to the error it returns.
	fail map[string]error
	// hold, when set, blocks UpdateProject until closed.
	hold chan struct{}
	// fillHold, when set, blocks RequestAiVariableFill until closed.
	fillHold chan struct{}
	// dropStored makes ReplaceGlobalVariableDefinitions answer with that
	// many fewer definitions than it was sent.
	dropStored int

	projectUpdates []domain.ProjectUpdate
	createdTags    []domain.Tag
	updatedTags    []domain.Tag
	createdPresets []domain.AiPreset
	replaced       [][]domain.GlobalVariableDefinition
	valueBatches   [][]domain.GlobalVariableValue
	fillRequests   [][]domain.NamedValue
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		project: domain.Project{ID: "p1", Name: "Bakery", Notes: "fresh bread", Variables: "(Phone||123)"},
		tags: []domain.Tag{
			{ID: domain.Persisted("t1"), ProjectID: "p1", Name: "Sale", Keyword: "sale", Color: "#f00"},
			{ID: domain.Persisted("t2"), ProjectID: "p1", Name: "Support", Keyword: "help", Color: "#0f0"},
		},
		presets: []domain.AiPreset{
			{ID: domain.Persisted("a1"), ProjectID: "p1", Name: "Polite", Prompt: "Be polite"},
		},
		globals: domain.GlobalVariables{
			Definitions: []domain.GlobalVariableDefinition{
				{ID: domain.Persisted("d1"), ProjectID: "p1", Name: "City", PlaceholderKey: "city"},
			},
			Values: []domain.GlobalVariableValue{
				{ID: domain.Persisted("v1"), ProjectID: "p1", DefinitionID: domain.Persisted("d1"), Value: "Berlin"},
			},
		},
		fail: map[string]error{},
	}
}

func (f *fakeGateway) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	return f.fail[name]
}

func (f *fakeGateway) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeGateway) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func (f *fakeGateway) FetchProject(ctx context.Context, id string) (domain.Project, error) {
	if err := f.record("FetchProject"); err != nil {
		return domain.Project{}, err
	}
	return f.project, nil
}

func (f *fakeGateway) UpdateProject(ctx context.Context, id string, u domain.ProjectUpdate) error {
	if f.hold != nil {
		<-f.hold
	}
	if err := f.record("UpdateProject"); err != nil {
		return err
	}
	f.mu.Lock()
	f.projectUpdates = append(f.projectUpdates, u)
	f.mu.Unlock()
	return nil
}

func (f *fakeGateway) ListTags(ctx context.Context, projectID string) ([]domain.Tag, error) {
	if err := f.record("ListTags"); err != nil {
		return nil, err
	}
	return append([]domain.Tag(nil), f.tags...), nil
}

func (f *fakeGateway) CreateTag(ctx context.Context, projectID string, t domain.Tag) (domain.Tag, error) {
	if err := f.record("CreateTag"); err != nil {
		return domain.Tag{}, err
	}
	f.mu.Lock()
	f.createdTags = append(f.createdTags, t)
	f.mu.Unlock()
	t.ID = domain.Persisted("new-tag")
	return t, nil
}

func (f *fakeGateway) UpdateTag(ctx context.Context, id string, t domain.Tag) error {
	if err := f.record("UpdateTag"); err != nil {
		return err
	}
	f.mu.Lock()
	f.updatedTags = append(f.updatedTags, t)
	f.mu.Unlock()
	return nil
}

func (f *fakeGateway) DeleteTag(ctx context.Context, id string) error {
	return f.record("DeleteTag:" + id)
}

func (f *fakeGateway) ListAiPresets(ctx context.Context, projectID string) ([]domain.AiPreset, error) {
	if err := f.record("ListAiPresets"); err != nil {
		return nil, err
	}
	return append([]domain.AiPreset(nil), f.presets...), nil
}

func (f *fakeGateway) CreateAiPreset(ctx context.Context, projectID string, p domain.AiPreset) (domain.AiPreset, error) {
	if err := f.record("CreateAiPreset"); err != nil {
		return domain.AiPreset{}, err
	}
	f.mu.Lock()
	f.createdPresets = append(f.createdPresets, p)
	f.mu.Unlock()
	p.ID = domain.Persisted("new-preset")
	return p, nil
}

func (f *fakeGateway) UpdateAiPreset(ctx context.Context, id string, p domain.AiPreset) error {
	return f.record("UpdateAiPreset")
}

func (f *fakeGateway) DeleteAiPreset(ctx context.Context, id string) error {
	return f.record("DeleteAiPreset:" + id)
}

func (f *fakeGateway) ListGlobalVariables(ctx context.Context, projectID string) (domain.GlobalVariables, error) {
	if err := f.record("ListGlobalVariables"); err != nil {
		return domain.GlobalVariables{}, err
	}
	return domain.GlobalVariables{
		Definitions: append([]domain.GlobalVariableDefinition(nil), f.globals.Definitions...),
		Values:      append([]domain.GlobalVariableValue(nil), f.globals.Values...),
	}, nil
}

func (f *fakeGateway) ReplaceGlobalVariableDefinitions(ctx context.Context, projectID string, defs []domain.GlobalVariableDefinition) ([]domain.GlobalVariableDefinition, error) {
	if err := f.record("ReplaceGlobalVariableDefinitions"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.replaced = append(f.replaced, defs)
	f.mu.Unlock()
	out := make([]domain.GlobalVariableDefinition, len(defs))
	for i, d := range defs {
		if d.ID.IsPending() {
			d.ID = domain.Persisted(fmt.Sprintf("stored-%d", i))
		}
		out[i] = d
	}
	return out[:max(len(out)-f.dropStored, 0)], nil
}

func (f *fakeGateway) UpdateGlobalVariableValues(ctx context.Context, projectID string, values []domain.GlobalVariableValue) error {
	if err := f.record("UpdateGlobalVariableValues"); err != nil {
		return err
	}
	f.mu.Lock()
	f.valueBatches = append(f.valueBatches, values)
	f.mu.Unlock()
	return nil
}

func (f *fakeGateway) RequestAiVariableFill(ctx context.Context, projectID string, empty []domain.NamedValue) (domain.AiFillResult, error) {
	if f.fillHold != nil {
		<-f.fillHold
	}
	if err := f.record("RequestAiVariableFill"); err != nil {
		return domain.AiFillResult{}, err
	}
	f.mu.Lock()
	f.fillRequests = append(f.fillRequests, empty)
	f.mu.Unlock()
	return f.fill, nil
}

// recordingReporter keeps every notification.
type recordingReporter struct {
	mu       sync.Mutex
	warnings []string
	errors   []string
	success  []string
	focused  []Section
}

func (r *recordingReporter) Warn(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, msg)
}

func (r *recordingReporter) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, msg)
}

func (r *recordingReporter) Success(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.success = append(r.success, msg)
}

func (r *recordingReporter) Focus(section Section) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.focused = append(r.focused, section)
}
