// Package validation checks cross-item invariants of global variable
// definitions: names and placeholder keys must be unique per project.
package validation

import (
	"strings"

	"github.com/commhub/community-settings/internal/settings/domain"
)

const (
	DuplicateName = "A global variable with this name already exists"
	DuplicateKey  = "A global variable with this key already exists"
)

// FieldErrors holds the messages attached to one definition.
type FieldErrors struct {
	Name string `json:"name,omitempty"`
	Key  string `json:"key,omitempty"`
}

// Errors maps definition ids to their field errors. Only definitions with at
// least one error are present.
type Errors map[domain.ID]FieldErrors

func (e Errors) Any() bool { return len(e) > 0 }

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Definitions flags every definition whose normalized name or placeholder key
// is shared with another definition. Blank names and keys never collide.
func Definitions(defs []domain.GlobalVariableDefinition) Errors {
	names := make(map[string]int, len(defs))
	keys := make(map[string]int, len(defs))
	for _, d := range defs {
		if n := normalize(d.Name); n != "" {
			names[n]++
		}
		if k := normalize(d.PlaceholderKey); k != "" {
			keys[k]++
		}
	}

	out := Errors{}
	for _, d := range defs {
		var fe FieldErrors
		if n := normalize(d.Name); n != "" && names[n] > 1 {
			fe.Name = DuplicateName
		}
		if k := normalize(d.PlaceholderKey); k != "" && keys[k] > 1 {
			fe.Key = DuplicateKey
		}
		if fe != (FieldErrors{}) {
			out[d.ID] = fe
		}
	}
	return out
}
