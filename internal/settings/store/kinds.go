package store

import (
	"strings"

	"github.com/commhub/community-settings/internal/settings/domain"
)

const DefaultTagColor = "#3b82f6"

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func TagKind(projectID string) Kind[domain.Tag] {
	return Kind[domain.Tag]{
		Name: "tag",
		ID:   func(t domain.Tag) domain.ID { return t.ID },
		New: func() domain.Tag {
			return domain.Tag{ID: domain.NewPending(), ProjectID: projectID, Color: DefaultTagColor}
		},
		Valid: func(t domain.Tag) bool { return !blank(t.Name) && !blank(t.Keyword) },
		Changed: func(a, b domain.Tag) bool {
			return a.Name != b.Name ||
				a.Keyword != b.Keyword ||
				a.Color != b.Color ||
				!domain.SameNote(a.Note, b.Note)
		},
	}
}

var (
	TagName    = Field[domain.Tag]{Name: "name", Set: func(t *domain.Tag, v string) { t.Name = v }}
	TagKeyword = Field[domain.Tag]{Name: "keyword", Set: func(t *domain.Tag, v string) { t.Keyword = v }}
	TagNote    = Field[domain.Tag]{Name: "note", Set: func(t *domain.Tag, v string) { t.Note = &v }}
	TagColor   = Field[domain.Tag]{Name: "color", Set: func(t *domain.Tag, v string) { t.Color = v }}
)

func PresetKind(projectID string) Kind[domain.AiPreset] {
	return Kind[domain.AiPreset]{
		Name: "ai preset",
		ID:   func(p domain.AiPreset) domain.ID { return p.ID },
		New: func() domain.AiPreset {
			return domain.AiPreset{ID: domain.NewPending(), ProjectID: projectID}
		},
		Valid: func(p domain.AiPreset) bool { return !blank(p.Name) && !blank(p.Prompt) },
		Changed: func(a, b domain.AiPreset) bool {
			return a.Name != b.Name || a.Prompt != b.Prompt
		},
	}
}

var (
	PresetName   = Field[domain.AiPreset]{Name: "name", Set: func(p *domain.AiPreset, v string) { p.Name = v }}
	PresetPrompt = Field[domain.AiPreset]{Name: "prompt", Set: func(p *domain.AiPreset, v string) { p.Prompt = v }}
)

func DefinitionKind(projectID string) Kind[domain.GlobalVariableDefinition] {
	return Kind[domain.GlobalVariableDefinition]{
		Name: "global variable",
		ID:   func(d domain.GlobalVariableDefinition) domain.ID { return d.ID },
		New: func() domain.GlobalVariableDefinition {
			return domain.GlobalVariableDefinition{ID: domain.NewPending(), ProjectID: projectID}
		},
		Valid: func(d domain.GlobalVariableDefinition) bool {
			return !blank(d.Name) && !blank(d.PlaceholderKey)
		},
		Changed: func(a, b domain.GlobalVariableDefinition) bool {
			return a.Name != b.Name ||
				a.PlaceholderKey != b.PlaceholderKey ||
				!domain.SameNote(a.Note, b.Note)
		},
	}
}

var (
	DefinitionName = Field[domain.GlobalVariableDefinition]{Name: "name", Set: func(d *domain.GlobalVariableDefinition, v string) { d.Name = v }}
	DefinitionKey  = Field[domain.GlobalVariableDefinition]{Name: "placeholder_key", Set: func(d *domain.GlobalVariableDefinition, v string) { d.PlaceholderKey = v }}
	DefinitionNote = Field[domain.GlobalVariableDefinition]{Name: "note", Set: func(d *domain.GlobalVariableDefinition, v string) { d.Note = &v }}
)

// ValueKind tracks per-project global variable values. A pending value only
// counts as a write once something non-blank was typed into it.
func ValueKind(projectID string) Kind[domain.GlobalVariableValue] {
	return Kind[domain.GlobalVariableValue]{
		Name: "global variable value",
		ID:   func(v domain.GlobalVariableValue) domain.ID { return v.ID },
		New: func() domain.GlobalVariableValue {
			return domain.GlobalVariableValue{ID: domain.NewPending(), ProjectID: projectID}
		},
		Valid: func(v domain.GlobalVariableValue) bool { return !blank(v.Value) },
		Changed: func(a, b domain.GlobalVariableValue) bool {
			return strings.TrimSpace(a.Value) != strings.TrimSpace(b.Value)
		},
	}
}

var ValueText = Field[domain.GlobalVariableValue]{Name: "value", Set: func(g *domain.GlobalVariableValue, v string) { g.Value = v }}

// TagFields and friends resolve field names coming from edit scripts.
var (
	TagFields        = fieldIndex(TagName, TagKeyword, TagNote, TagColor)
	PresetFields     = fieldIndex(PresetName, PresetPrompt)
	DefinitionFields = fieldIndex(DefinitionName, DefinitionKey, DefinitionNote)
)

func fieldIndex[T any](fields ...Field[T]) map[string]Field[T] {
	m := make(map[string]Field[T], len(fields))
	for _, f := range fields {
		m[f.Name] = f
	}
	return m
}
