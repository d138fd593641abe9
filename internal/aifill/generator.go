// Package aifill suggests values for a project's empty free-form variables.
package aifill

import (
	"context"
	"strings"

	"github.com/commhub/community-settings/internal/settings/domain"
)

// Request carries what the model may use to guess values.
type Request struct {
	ProjectName string
	Notes       string
	Known       []domain.NamedValue
	Empty       []string
}

// Generator produces raw suggestions; Service filters and caches them.
type Generator interface {
	Generate(ctx context.Context, req Request) (domain.AiFillResult, error)
}

// clean drops entries with a blank name or value and trims the rest.
// Filled entries must name one of the requested variables.
func clean(res domain.AiFillResult, empty []string) domain.AiFillResult {
	requested := make(map[string]bool, len(empty))
	for _, n := range empty {
		requested[key(n)] = true
	}

	out := domain.AiFillResult{Filled: []domain.NamedValue{}, New: []domain.NamedValue{}}
	seen := map[string]bool{}
	for _, nv := range res.Filled {
		name, value := strings.TrimSpace(nv.Name), strings.TrimSpace(nv.Value)
		if name == "" || value == "" || !requested[key(name)] || seen[key(name)] {
			continue
		}
		seen[key(name)] = true
		out.Filled = append(out.Filled, domain.NamedValue{Name: name, Value: value})
	}
	for _, nv := range res.New {
		name, value := strings.TrimSpace(nv.Name), strings.TrimSpace(nv.Value)
		if name == "" || value == "" || seen[key(name)] {
			continue
		}
		seen[key(name)] = true
		out.New = append(out.New, domain.NamedValue{Name: name, Value: value})
	}
	return out
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
