// Package varcodec reads and writes the compact variable string stored on a
// project: "(name||value), (name||value)".
package varcodec

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/commhub/community-settings/internal/settings/domain"
)

const (
	Delimiter = "||"
	separator = ", "
)

var segmentSplit = regexp.MustCompile(`\)\s*,\s*\(`)

// Parse decodes a variable string. Segments that do not split into exactly
// a name and a value are dropped. Every item gets a fresh local id.
func Parse(text string) []domain.VariableItem {
	text = strings.TrimSpace(text)
	if text == "" {
		return []domain.VariableItem{}
	}
	text = strings.TrimPrefix(text, "(")
	text = strings.TrimSuffix(text, ")")

	out := make([]domain.VariableItem, 0, 8)
	for _, seg := range segmentSplit.Split(text, -1) {
		parts := strings.Split(seg, Delimiter)
		if len(parts) != 2 {
			continue
		}
		out = append(out, domain.VariableItem{
			ID:    uuid.NewString(),
			Name:  strings.TrimSpace(parts[0]),
			Value: strings.TrimSpace(parts[1]),
		})
	}
	return out
}

// Serialize encodes items, skipping those whose name and value are both blank.
func Serialize(items []domain.VariableItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		name := strings.TrimSpace(it.Name)
		value := strings.TrimSpace(it.Value)
		if name == "" && value == "" {
			continue
		}
		parts = append(parts, "("+name+Delimiter+value+")")
	}
	return strings.Join(parts, separator)
}
