package service

import (
	"context"

	"github.com/commhub/community-settings/internal/logging"
	"github.com/commhub/community-settings/internal/settings/domain"
)

// Gateway is the per-resource CRUD contract the session reconciles against.
// internal/settings/client implements it over HTTP.
type Gateway interface {
	FetchProject(ctx context.Context, id string) (domain.Project, error)
	UpdateProject(ctx context.Context, id string, update domain.ProjectUpdate) error

	ListTags(ctx context.Context, projectID string) ([]domain.Tag, error)
	CreateTag(ctx context.Context, projectID string, tag domain.Tag) (domain.Tag, error)
	UpdateTag(ctx context.Context, id string, tag domain.Tag) error
	DeleteTag(ctx context.Context, id string) error

	ListAiPresets(ctx context.Context, projectID string) ([]domain.AiPreset, error)
	CreateAiPreset(ctx context.Context, projectID string, preset domain.AiPreset) (domain.AiPreset, error)
	UpdateAiPreset(ctx context.Context, id string, preset domain.AiPreset) error
	DeleteAiPreset(ctx context.Context, id string) error

	ListGlobalVariables(ctx context.Context, projectID string) (domain.GlobalVariables, error)
	// ReplaceGlobalVariableDefinitions stores defs as the complete catalog and
	// returns the stored definitions in request order.
	ReplaceGlobalVariableDefinitions(ctx context.Context, projectID string, defs []domain.GlobalVariableDefinition) ([]domain.GlobalVariableDefinition, error)
	UpdateGlobalVariableValues(ctx context.Context, projectID string, values []domain.GlobalVariableValue) error

	RequestAiVariableFill(ctx context.Context, projectID string, empty []domain.NamedValue) (domain.AiFillResult, error)
}

// Section names a part of the settings form.
type Section string

const (
	SectionProject         Section = "project"
	SectionVariables       Section = "variables"
	SectionTags            Section = "tags"
	SectionAiPresets       Section = "ai_presets"
	SectionGlobalVariables Section = "global_variables"
)

// Reporter surfaces user-facing notifications.
type Reporter interface {
	Warn(msg string)
	Error(msg string)
	Success(msg string)
	// Focus asks the presentation layer to bring a section into view.
	Focus(section Section)
}

// LogReporter writes notifications to the service log.
type LogReporter struct {
	logger *logging.Logger
}

func NewLogReporter(ctx context.Context) *LogReporter {
	return &LogReporter{logger: logging.New(ctx)}
}

func (r *LogReporter) Warn(msg string)    { r.logger.Notice("warn", msg) }
func (r *LogReporter) Error(msg string)   { r.logger.Notice("error", msg) }
func (r *LogReporter) Success(msg string) { r.logger.Notice("success", msg) }
func (r *LogReporter) Focus(section Section) {
	r.logger.Notice("focus", string(section))
}
