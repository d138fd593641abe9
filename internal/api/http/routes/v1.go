package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/commhub/community-settings/internal/api/http/middleware"
	projectshttp "github.com/commhub/community-settings/internal/projects/http"
	"github.com/commhub/community-settings/internal/projects/service"
)

type V1Deps struct {
	Settings *service.SettingsService
	// AIFillPerMinute bounds AI fill calls per client IP; the service
	// applies its own per-project limit behind it.
	AIFillPerMinute int
}

func RegisterV1(r *gin.Engine, dep V1Deps) {
	api := r.Group("/api/v1")
	api.Use(middleware.RequestIDMiddleware())

	h := projectshttp.New(dep.Settings)
	h.Register(api)

	perMinute := dep.AIFillPerMinute
	if perMinute <= 0 {
		perMinute = 6
	}
	h.RegisterAIFill(api, middleware.RateLimitMiddleware(perMinute*4, perMinute*2))
}
