package http

import "github.com/gin-gonic/gin"

// Register attaches every settings route to the /api/v1 group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	projects := rg.Group("/projects")
	projects.POST("", h.createProject)
	projects.GET("/:id", h.getProject)
	projects.PATCH("/:id", h.updateProject)

	projects.GET("/:id/tags", h.listTags)
	projects.POST("/:id/tags", h.createTag)
	rg.PATCH("/tags/:id", h.updateTag)
	rg.DELETE("/tags/:id", h.deleteTag)

	projects.GET("/:id/ai-presets", h.listPresets)
	projects.POST("/:id/ai-presets", h.createPreset)
	rg.PATCH("/ai-presets/:id", h.updatePreset)
	rg.DELETE("/ai-presets/:id", h.deletePreset)

	projects.GET("/:id/global-variables", h.listGlobalVariables)
	projects.PUT("/:id/global-variables/definitions", h.replaceDefinitions)
	projects.PATCH("/:id/global-variables/values", h.updateValues)
}

// RegisterAIFill is split out so the router can put a rate limiter in front.
func (h *Handler) RegisterAIFill(rg *gin.RouterGroup, mw ...gin.HandlerFunc) {
	handlers := append(mw, h.aiFill)
	rg.POST("/projects/:id/variables/ai-fill", handlers...)
}
