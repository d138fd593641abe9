package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/commhub/community-settings/internal/settings/domain"
)

type createReq struct {
	Name string `json:"name"`
}

func (h *Handler) createProject(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		badBody(c)
		return
	}

	p, err := h.svc.CreateProject(c.Request.Context(), req.Name)
	if err != nil {
		writeError(c, "create_project", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p})
}

func (h *Handler) getProject(c *gin.Context) {
	p, err := h.svc.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "get_project", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) updateProject(c *gin.Context) {
	var req domain.ProjectUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	p, err := h.svc.UpdateProject(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, "update_project", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) listTags(c *gin.Context) {
	items, err := h.svc.ListTags(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "list_tags", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "tags": items})
}

func (h *Handler) createTag(c *gin.Context) {
	var req domain.Tag
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	t, err := h.svc.CreateTag(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, "create_tag", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "tag": t})
}

func (h *Handler) updateTag(c *gin.Context) {
	var req domain.Tag
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	if err := h.svc.UpdateTag(c.Request.Context(), c.Param("id"), req); err != nil {
		writeError(c, "update_tag", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) deleteTag(c *gin.Context) {
	if err := h.svc.DeleteTag(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, "delete_tag", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) listPresets(c *gin.Context) {
	items, err := h.svc.ListAiPresets(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "list_ai_presets", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "ai_presets": items})
}

func (h *Handler) createPreset(c *gin.Context) {
	var req domain.AiPreset
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	p, err := h.svc.CreateAiPreset(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, "create_ai_preset", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "ai_preset": p})
}

func (h *Handler) updatePreset(c *gin.Context) {
	var req domain.AiPreset
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	if err := h.svc.UpdateAiPreset(c.Request.Context(), c.Param("id"), req); err != nil {
		writeError(c, "update_ai_preset", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) deletePreset(c *gin.Context) {
	if err := h.svc.DeleteAiPreset(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, "delete_ai_preset", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
