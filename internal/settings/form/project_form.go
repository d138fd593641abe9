// Package form holds the editable scalar attributes of a project.
package form

import (
	"fmt"
	"strconv"

	"github.com/commhub/community-settings/internal/settings/domain"
)

// Field names accepted by Set.
const (
	FieldName           = "name"
	FieldDisabled       = "disabled"
	FieldNotes          = "notes"
	FieldTeam           = "team"
	FieldPlatformToken  = "platform_token"
	FieldAssistantToken = "assistant_token"
)

type ProjectForm struct {
	Name           string
	Disabled       bool
	Notes          string
	Team           string
	PlatformToken  string
	AssistantToken string
}

// FromProject builds form state from a fetched project. A missing disabled
// flag means the project is enabled.
func FromProject(p domain.Project) ProjectForm {
	return ProjectForm{
		Name:           p.Name,
		Disabled:       p.Disabled != nil && *p.Disabled,
		Notes:          p.Notes,
		Team:           p.Team,
		PlatformToken:  p.PlatformToken,
		AssistantToken: p.AssistantToken,
	}
}

// Set assigns a field by name.
func (f *ProjectForm) Set(field, value string) error {
	switch field {
	case FieldName:
		f.Name = value
	case FieldDisabled:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: disabled must be true or false", domain.ErrInvalidInput)
		}
		f.Disabled = b
	case FieldNotes:
		f.Notes = value
	case FieldTeam:
		f.Team = value
	case FieldPlatformToken:
		f.PlatformToken = value
	case FieldAssistantToken:
		f.AssistantToken = value
	default:
		return fmt.Errorf("%w: unknown project field %q", domain.ErrInvalidInput, field)
	}
	return nil
}

// Update builds the project update for a submit, carrying the serialized variables.
func (f ProjectForm) Update(variables string) domain.ProjectUpdate {
	return domain.ProjectUpdate{
		Name:           f.Name,
		Disabled:       f.Disabled,
		Notes:          f.Notes,
		Team:           f.Team,
		PlatformToken:  f.PlatformToken,
		AssistantToken: f.AssistantToken,
		Variables:      variables,
	}
}
