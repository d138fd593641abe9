package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/commhub/community-settings/internal/settings/domain"
)

func (h *Handler) listGlobalVariables(c *gin.Context) {
	gv, err := h.svc.ListGlobalVariables(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "list_global_variables", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "definitions": gv.Definitions, "values": gv.Values})
}

type replaceDefinitionsReq struct {
	Definitions []domain.GlobalVariableDefinition `json:"definitions"`
}

func (h *Handler) replaceDefinitions(c *gin.Context) {
	var req replaceDefinitionsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	stored, err := h.svc.ReplaceGlobalVariableDefinitions(c.Request.Context(), c.Param("id"), req.Definitions)
	if err != nil {
		writeError(c, "replace_definitions", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "definitions": stored})
}

type updateValuesReq struct {
	Values []domain.GlobalVariableValue `json:"values"`
}

func (h *Handler) updateValues(c *gin.Context) {
	var req updateValuesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	if err := h.svc.UpdateGlobalVariableValues(c.Request.Context(), c.Param("id"), req.Values); err != nil {
		writeError(c, "update_global_variable_values", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type aiFillReq struct {
	Variables []domain.NamedValue `json:"variables"`
}

func (h *Handler) aiFill(c *gin.Context) {
	var req aiFillReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	res, err := h.svc.RequestAiVariableFill(c.Request.Context(), c.Param("id"), req.Variables)
	if err != nil {
		writeError(c, "ai_fill", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "filled": res.Filled, "new": res.New})
}
