package http

import "github.com/commhub/community-settings/internal/projects/service"

// Handler bundles the dependencies for the settings HTTP endpoints.
type Handler struct {
	svc *service.SettingsService
}

func New(svc *service.SettingsService) *Handler {
	return &Handler{svc: svc}
}
