package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/commhub/community-settings/internal/logging"
	"github.com/commhub/community-settings/internal/settings/domain"
	"github.com/commhub/community-settings/internal/settings/store"
	"github.com/commhub/community-settings/internal/settings/varcodec"
)

// Plan is every write a submit issues.
type Plan struct {
	ProjectID string
	Project   domain.ProjectUpdate
	Tags      store.Plan[domain.Tag]
	Presets   store.Plan[domain.AiPreset]
	// Definitions is the full catalog to store; nil when the catalog is unchanged.
	Definitions []domain.GlobalVariableDefinition
	// Values are the changed global variable values, sent as one batch.
	Values []domain.GlobalVariableValue
}

// Calls counts the network calls the plan makes.
func (p Plan) Calls() int {
	n := 1 + p.Tags.Len() + p.Presets.Len()
	if p.Definitions != nil {
		n++
	}
	if len(p.Values) > 0 {
		n++
	}
	return n
}

// Plan returns the writes a submit would issue right now.
func (s *Session) Plan() (Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateIdle {
		return Plan{}, domain.ErrNotLoaded
	}
	return s.buildPlan(), nil
}

func (s *Session) buildPlan() Plan {
	plan := Plan{
		ProjectID: s.projectID,
		Project:   s.form.Update(varcodec.Serialize(s.variables)),
		Tags:      s.tags.Diff(),
		Presets:   s.presets.Diff(),
	}

	// The catalog is replaced as a whole, but only when something in it
	// changed and it was loaded; a replace built on a failed fetch would drop
	// every stored definition.
	sent := make(map[domain.ID]bool)
	if s.definitions.Dirty() && !s.unloaded[SectionGlobalVariables] {
		kind := s.definitions.Kind()
		plan.Definitions = make([]domain.GlobalVariableDefinition, 0, len(s.definitions.Items()))
		for _, d := range s.definitions.Items() {
			if d.ID.IsPending() && !kind.Valid(d) {
				continue
			}
			plan.Definitions = append(plan.Definitions, d)
			sent[d.ID] = true
		}
	}

	vp := s.values.Diff()
	for _, v := range append(vp.Create, vp.Update...) {
		if _, ok := s.definitions.Get(v.DefinitionID); !ok {
			continue
		}
		if v.DefinitionID.IsPending() && !sent[v.DefinitionID] {
			continue
		}
		plan.Values = append(plan.Values, v)
	}
	return plan
}

// Submit validates the local state and, when valid, writes every change
// concurrently. On success the session closes; on any failure it returns to
// Ready with all edits intact. Writes that succeeded before a failure are not
// rolled back.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	if err := s.state.mutationError(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.unloaded[SectionGlobalVariables] && s.definitions.Dirty() {
		s.mu.Unlock()
		s.rep.Warn("Global variables could not be loaded; refresh before changing them")
		s.rep.Focus(SectionGlobalVariables)
		return fmt.Errorf("global variables: %w", domain.ErrNotLoaded)
	}
	s.revalidate()
	if s.errs.Any() {
		s.mu.Unlock()
		s.rep.Warn("Global variables have duplicate names or keys")
		s.rep.Focus(SectionGlobalVariables)
		return domain.ErrValidation
	}
	plan := s.buildPlan()
	s.state = StateSaving
	s.lastErr = nil
	s.mu.Unlock()

	logger := logging.New(ctx).With("project_id", plan.ProjectID)
	logger.LogInfof("settings_submit", "calls=%d", plan.Calls())

	err := s.execute(ctx, plan)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		logger.LogError("settings_submit", err)
		s.state = StateReady
		s.lastErr = err
		s.rep.Error("Failed to save settings")
		return fmt.Errorf("%w: %w", domain.ErrSubmitFailed, err)
	}
	s.state = StateClosed
	s.rep.Success("Settings saved")
	return nil
}

func (s *Session) execute(ctx context.Context, plan Plan) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	run := func(op string, fn func() error) {
		g.Go(func() error {
			if err := fn(); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", op, err))
				mu.Unlock()
				return err
			}
			return nil
		})
	}

	pid := plan.ProjectID

	run("update project", func() error { return s.gw.UpdateProject(ctx, pid, plan.Project) })

	for _, id := range plan.Tags.DeleteID {
		run("delete tag "+id.String(), func() error { return s.gw.DeleteTag(ctx, id.Value()) })
	}
	for _, t := range plan.Tags.Create {
		run("create tag "+t.Name, func() error {
			_, err := s.gw.CreateTag(ctx, pid, t)
			return err
		})
	}
	for _, t := range plan.Tags.Update {
		run("update tag "+t.ID.String(), func() error { return s.gw.UpdateTag(ctx, t.ID.Value(), t) })
	}

	for _, id := range plan.Presets.DeleteID {
		run("delete ai preset "+id.String(), func() error { return s.gw.DeleteAiPreset(ctx, id.Value()) })
	}
	for _, p := range plan.Presets.Create {
		run("create ai preset "+p.Name, func() error {
			_, err := s.gw.CreateAiPreset(ctx, pid, p)
			return err
		})
	}
	for _, p := range plan.Presets.Update {
		run("update ai preset "+p.ID.String(), func() error { return s.gw.UpdateAiPreset(ctx, p.ID.Value(), p) })
	}

	// Values typed for a new definition can only be sent once the catalog
	// write has assigned that definition an id.
	waitForCatalog := false
	for _, v := range plan.Values {
		if v.DefinitionID.IsPending() {
			waitForCatalog = true
			break
		}
	}

	if plan.Definitions != nil {
		run("replace global variables", func() error {
			stored, err := s.gw.ReplaceGlobalVariableDefinitions(ctx, pid, plan.Definitions)
			if err != nil || !waitForCatalog {
				return err
			}
			values, err := resolveDefinitionIDs(plan.Values, plan.Definitions, stored)
			if err != nil {
				return err
			}
			if err := s.gw.UpdateGlobalVariableValues(ctx, pid, values); err != nil {
				return fmt.Errorf("update global variable values: %w", err)
			}
			return nil
		})
	}
	if len(plan.Values) > 0 && !waitForCatalog {
		run("update global variable values", func() error {
			return s.gw.UpdateGlobalVariableValues(ctx, pid, plan.Values)
		})
	}

	_ = g.Wait()
	return errors.Join(errs...)
}

// resolveDefinitionIDs rewrites pending definition ids on values to the ids
// the server assigned. stored must be in the order definitions were sent.
func resolveDefinitionIDs(values []domain.GlobalVariableValue, sent, stored []domain.GlobalVariableDefinition) ([]domain.GlobalVariableValue, error) {
	if len(sent) != len(stored) {
		return nil, fmt.Errorf("replace returned %d definitions for %d sent", len(stored), len(sent))
	}
	ids := make(map[domain.ID]domain.ID, len(sent))
	for i, d := range sent {
		ids[d.ID] = stored[i].ID
	}
	out := make([]domain.GlobalVariableValue, 0, len(values))
	for _, v := range values {
		if v.DefinitionID.IsPending() {
			v.DefinitionID = ids[v.DefinitionID]
		}
		out = append(out, v)
	}
	return out, nil
}
