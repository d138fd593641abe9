package bootstrap

import (
	"database/sql"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/commhub/community-settings/internal/api/http"
	"github.com/commhub/community-settings/internal/api/http/routes"
	"github.com/commhub/community-settings/internal/projects/repository"
	"github.com/commhub/community-settings/internal/projects/service"
)

type RouterDeps struct {
	ServiceName     string
	Version         string
	CORSOrigins     []string
	DB              *sql.DB
	Redis           *redis.Client
	Settings        *service.SettingsService
	AIFillPerMinute int
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		ExposeHeaders: []string{"X-Request-Id"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// BuildSettings wires the Postgres repositories into the settings service.
func BuildSettings(db *sql.DB, filler service.Filler) *service.SettingsService {
	return service.NewSettingsService(service.Deps{
		Projects: repository.NewProjectRepository(db),
		Tags:     repository.NewTagRepository(db),
		Presets:  repository.NewPresetRepository(db),
		Globals:  repository.NewGlobalVariableRepository(db),
		Filler:   filler,
	})
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(corsConfig(dep.CORSOrigins)))

	var db httpapi.Pinger
	if dep.DB != nil {
		db = dep.DB
	}
	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, db, dep.Redis)
	healthHandler.RegisterRoutes(r)

	routes.RegisterV1(r, routes.V1Deps{
		Settings:        dep.Settings,
		AIFillPerMinute: dep.AIFillPerMinute,
	})

	return r
}
