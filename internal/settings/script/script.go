// Package script applies YAML edit scripts to an editing session.
//
//	project:
//	  notes: Open daily
//	  disabled: "false"
//	variables:
//	  set:
//	    - {name: Website, value: https://bakery.example}
//	  remove: [Fax]
//	ai_fill: true
//	tags:
//	  add:
//	    - {name: VIP, keyword: vip, color: "#111827"}
//	  edit:
//	    - {id: 6c1f..., keyword: gold}
//	  remove: [9a2e...]
//	ai_presets:
//	  add:
//	    - {name: Polite, prompt: Answer politely}
//	global_variables:
//	  add:
//	    - {name: Manager, placeholder_key: manager, value: Anna}
//	global_values:
//	  city: Berlin
package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/commhub/community-settings/internal/settings/domain"
	"github.com/commhub/community-settings/internal/settings/service"
	"github.com/commhub/community-settings/internal/settings/store"
)

type Script struct {
	Project     map[string]string `yaml:"project"`
	Variables   VariableOps       `yaml:"variables"`
	AIFill      bool              `yaml:"ai_fill"`
	Tags        EntityOps         `yaml:"tags"`
	Presets     EntityOps         `yaml:"ai_presets"`
	Definitions EntityOps         `yaml:"global_variables"`
	// Values maps a definition id or placeholder key to its new value.
	Values map[string]string `yaml:"global_values"`
}

type NamedValue struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

type VariableOps struct {
	// Set updates the first variable with the name or appends a new one.
	Set    []NamedValue `yaml:"set"`
	Remove []string     `yaml:"remove"`
}

type EntityOps struct {
	Add []map[string]string `yaml:"add"`
	// Edit entries name their row with "id".
	Edit   []map[string]string `yaml:"edit"`
	Remove []string            `yaml:"remove"`
}

// Parse rejects unknown keys so typos do not silently do nothing.
func Parse(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var sc Script
	if err := dec.Decode(&sc); err != nil {
		if errors.Is(err, io.EOF) {
			return &sc, nil
		}
		return nil, fmt.Errorf("failed to parse edit script: %w", err)
	}
	return &sc, nil
}

// Apply runs the script against a loaded session in a fixed order:
// project fields, variables, AI fill, tags, presets, definitions, values.
func Apply(ctx context.Context, s *service.Session, sc *Script) error {
	for field, value := range sc.Project {
		if err := s.SetProjectField(field, value); err != nil {
			return fmt.Errorf("project.%s: %w", field, err)
		}
	}

	if err := applyVariables(s, sc.Variables); err != nil {
		return err
	}

	if sc.AIFill {
		if err := s.FillVariablesWithAI(ctx); err != nil {
			return fmt.Errorf("ai_fill: %w", err)
		}
	}

	if err := applyEntityOps("tags", sc.Tags, store.TagFields, entityOps[domain.Tag]{
		add: s.AddTag, edit: s.EditTag, remove: s.RemoveTag, id: func(t domain.Tag) domain.ID { return t.ID },
	}); err != nil {
		return err
	}

	if err := applyEntityOps("ai_presets", sc.Presets, store.PresetFields, entityOps[domain.AiPreset]{
		add: s.AddPreset, edit: s.EditPreset, remove: s.RemovePreset, id: func(p domain.AiPreset) domain.ID { return p.ID },
	}); err != nil {
		return err
	}

	if err := applyEntityOps("global_variables", sc.Definitions, store.DefinitionFields, entityOps[domain.GlobalVariableDefinition]{
		add: s.AddDefinition, edit: s.EditDefinition, remove: s.RemoveDefinition, id: func(d domain.GlobalVariableDefinition) domain.ID { return d.ID },
		// "value" on a definition row sets its global value.
		extra: map[string]func(domain.ID, string) error{"value": s.SetGlobalValue},
	}); err != nil {
		return err
	}

	for ref, value := range sc.Values {
		id, ok := resolveDefinition(s, ref)
		if !ok {
			return fmt.Errorf("global_values.%s: %w", ref, domain.ErrNotFound)
		}
		if err := s.SetGlobalValue(id, value); err != nil {
			return fmt.Errorf("global_values.%s: %w", ref, err)
		}
	}
	return nil
}

type entityOps[T any] struct {
	add    func() (T, error)
	edit   func(domain.ID, store.Field[T], string) error
	remove func(domain.ID) error
	id     func(T) domain.ID
	extra  map[string]func(domain.ID, string) error
}

func applyEntityOps[T any](section string, ops EntityOps, fields map[string]store.Field[T], fn entityOps[T]) error {
	set := func(where string, id domain.ID, item map[string]string) error {
		for key, value := range item {
			if key == "id" {
				continue
			}
			if f, ok := fields[key]; ok {
				if err := fn.edit(id, f, value); err != nil {
					return fmt.Errorf("%s.%s: %w", where, key, err)
				}
				continue
			}
			if x, ok := fn.extra[key]; ok {
				if err := x(id, value); err != nil {
					return fmt.Errorf("%s.%s: %w", where, key, err)
				}
				continue
			}
			return fmt.Errorf("%s: unknown field %q: %w", where, key, domain.ErrInvalidInput)
		}
		return nil
	}

	for _, raw := range ops.Remove {
		if err := fn.remove(domain.Persisted(raw)); err != nil {
			return fmt.Errorf("%s.remove %s: %w", section, raw, err)
		}
	}

	for i, item := range ops.Edit {
		raw := strings.TrimSpace(item["id"])
		if raw == "" {
			return fmt.Errorf("%s.edit[%d]: id required: %w", section, i, domain.ErrInvalidInput)
		}
		if err := set(fmt.Sprintf("%s.edit[%d]", section, i), domain.Persisted(raw), item); err != nil {
			return err
		}
	}

	for i, item := range ops.Add {
		row, err := fn.add()
		if err != nil {
			return fmt.Errorf("%s.add[%d]: %w", section, i, err)
		}
		if err := set(fmt.Sprintf("%s.add[%d]", section, i), fn.id(row), item); err != nil {
			return err
		}
	}
	return nil
}

func applyVariables(s *service.Session, ops VariableOps) error {
	for _, name := range ops.Remove {
		for _, item := range s.Variables() {
			if sameName(item.Name, name) {
				if err := s.RemoveVariable(item.ID); err != nil {
					return fmt.Errorf("variables.remove %s: %w", name, err)
				}
			}
		}
	}

	for _, nv := range ops.Set {
		if strings.TrimSpace(nv.Name) == "" {
			return fmt.Errorf("variables.set: name required: %w", domain.ErrInvalidInput)
		}
		found := false
		for _, item := range s.Variables() {
			if sameName(item.Name, nv.Name) {
				if err := s.SetVariableValue(item.ID, nv.Value); err != nil {
					return fmt.Errorf("variables.set %s: %w", nv.Name, err)
				}
				found = true
				break
			}
		}
		if !found {
			if _, err := s.AddVariable(nv.Name, nv.Value); err != nil {
				return fmt.Errorf("variables.set %s: %w", nv.Name, err)
			}
		}
	}
	return nil
}

// resolveDefinition accepts a definition id or its placeholder key.
func resolveDefinition(s *service.Session, ref string) (domain.ID, bool) {
	for _, d := range s.Definitions() {
		if !d.ID.IsPending() && d.ID.Value() == ref {
			return d.ID, true
		}
	}
	for _, d := range s.Definitions() {
		if sameName(d.PlaceholderKey, ref) {
			return d.ID, true
		}
	}
	return domain.ID{}, false
}

func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
