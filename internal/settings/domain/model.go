package domain

import (
	"strings"
	"time"
)

// Project is a managed community together with its scalar settings.
// Variables holds the legacy "(name||value), (name||value)" string.
type Project struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Disabled       *bool     `json:"disabled"`
	Notes          string    `json:"notes"`
	Team           string    `json:"team"`
	PlatformToken  string    `json:"platform_token"`
	AssistantToken string    `json:"assistant_token"`
	Variables      string    `json:"variables"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ProjectUpdate replaces every editable attribute of a project.
type ProjectUpdate struct {
	Name           string `json:"name"`
	Disabled       bool   `json:"disabled"`
	Notes          string `json:"notes"`
	Team           string `json:"team"`
	PlatformToken  string `json:"platform_token"`
	AssistantToken string `json:"assistant_token"`
	Variables      string `json:"variables"`
}

// VariableItem is one free-form variable. Its ID only lives in the editing session.
type VariableItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Tag struct {
	ID        ID      `json:"id"`
	ProjectID string  `json:"project_id"`
	Name      string  `json:"name"`
	Keyword   string  `json:"keyword"`
	Note      *string `json:"note"`
	Color     string  `json:"color"`
}

type AiPreset struct {
	ID        ID     `json:"id"`
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
	Prompt    string `json:"prompt"`
}

// GlobalVariableDefinition is a project-scoped catalog entry. Name and
// PlaceholderKey are unique per project, compared trimmed and case-insensitively.
type GlobalVariableDefinition struct {
	ID             ID      `json:"id"`
	ProjectID      string  `json:"project_id"`
	Name           string  `json:"name"`
	PlaceholderKey string  `json:"placeholder_key"`
	Note           *string `json:"note"`
}

// GlobalVariableValue is the project's value for one definition.
type GlobalVariableValue struct {
	ID           ID     `json:"id"`
	ProjectID    string `json:"project_id"`
	DefinitionID ID     `json:"definition_id"`
	Value        string `json:"value"`
}

type GlobalVariables struct {
	Definitions []GlobalVariableDefinition `json:"definitions"`
	Values      []GlobalVariableValue      `json:"values"`
}

type NamedValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// AiFillResult is the answer of the AI collaborator: values for existing
// variables and suggestions for variables that do not exist yet.
type AiFillResult struct {
	Filled []NamedValue `json:"filled"`
	New    []NamedValue `json:"new"`
}

// NormalizeNote maps a blank optional text to nil.
func NormalizeNote(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// SameNote compares optional texts with nil and blank treated as equal.
func SameNote(a, b *string) bool {
	na, nb := NormalizeNote(a), NormalizeNote(b)
	if na == nil || nb == nil {
		return na == nil && nb == nil
	}
	return *na == *nb
}

func StringPtr(s string) *string { return &s }
