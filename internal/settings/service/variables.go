package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/commhub/community-settings/internal/logging"
	"github.com/commhub/community-settings/internal/settings/domain"
)

func newVariable(name, value string) domain.VariableItem {
	return domain.VariableItem{ID: uuid.NewString(), Name: name, Value: value}
}

func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func (s *Session) Variables() []domain.VariableItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.variables)
}

// AISuggested reports whether the variable's value came from the last AI fill.
func (s *Session) AISuggested(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aiSuggested[id]
}

func (s *Session) AddVariable(name, value string) (domain.VariableItem, error) {
	var v domain.VariableItem
	err := s.mutate(func() error {
		v = newVariable(name, value)
		s.variables = append(s.variables, v)
		return nil
	})
	return v, err
}

func (s *Session) SetVariableName(id, name string) error {
	return s.editVariable(id, func(v *domain.VariableItem) { v.Name = name })
}

func (s *Session) SetVariableValue(id, value string) error {
	return s.editVariable(id, func(v *domain.VariableItem) { v.Value = value })
}

func (s *Session) RemoveVariable(id string) error {
	return s.mutate(func() error {
		i := s.variableIndex(id)
		if i < 0 {
			return fmt.Errorf("variable %s: %w", id, domain.ErrNotFound)
		}
		s.variables = slices.Delete(s.variables, i, i+1)
		delete(s.aiSuggested, id)
		return nil
	})
}

func (s *Session) editVariable(id string, fn func(*domain.VariableItem)) error {
	return s.mutate(func() error {
		i := s.variableIndex(id)
		if i < 0 {
			return fmt.Errorf("variable %s: %w", id, domain.ErrNotFound)
		}
		fn(&s.variables[i])
		return nil
	})
}

func (s *Session) variableIndex(id string) int {
	return slices.IndexFunc(s.variables, func(v domain.VariableItem) bool { return v.ID == id })
}

// FillVariablesWithAI asks the AI collaborator for values of every named
// variable that is still empty. Matching variables get the suggested value,
// unknown suggested names are appended; both are marked as AI suggested.
// On failure the variables are left untouched.
func (s *Session) FillVariablesWithAI(ctx context.Context) error {
	s.mu.Lock()
	if err := s.state.mutationError(); err != nil {
		s.mu.Unlock()
		return err
	}
	var empty []domain.NamedValue
	for _, v := range s.variables {
		if strings.TrimSpace(v.Value) == "" && strings.TrimSpace(v.Name) != "" {
			empty = append(empty, domain.NamedValue{Name: strings.TrimSpace(v.Name)})
		}
	}
	if len(empty) == 0 {
		s.mu.Unlock()
		s.rep.Warn("Every variable already has a value")
		return nil
	}
	projectID := s.projectID
	s.state = StateFilling
	s.mu.Unlock()

	logger := logging.New(ctx).With("project_id", projectID)
	res, err := s.gw.RequestAiVariableFill(ctx, projectID, empty)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateReady
	if err != nil {
		logger.LogError("settings_ai_fill", err)
		s.rep.Error(fmt.Sprintf("AI could not fill the variables: %v", err))
		return fmt.Errorf("ai fill: %w", err)
	}

	filled, added := s.applyFill(res)
	logger.LogInfof("settings_ai_fill", "filled=%d added=%d", filled, added)
	s.rep.Success(fmt.Sprintf("AI filled %d variables and suggested %d new ones", filled, added))
	return nil
}

func (s *Session) applyFill(res domain.AiFillResult) (filled, added int) {
	for _, f := range res.Filled {
		for i := range s.variables {
			if sameName(s.variables[i].Name, f.Name) {
				s.variables[i].Value = f.Value
				s.aiSuggested[s.variables[i].ID] = true
				filled++
			}
		}
	}
	for _, n := range res.New {
		if strings.TrimSpace(n.Name) == "" {
			continue
		}
		exists := slices.ContainsFunc(s.variables, func(v domain.VariableItem) bool { return sameName(v.Name, n.Name) })
		if exists {
			continue
		}
		v := newVariable(strings.TrimSpace(n.Name), n.Value)
		s.variables = append(s.variables, v)
		s.aiSuggested[v.ID] = true
		added++
	}
	return filled, added
}
