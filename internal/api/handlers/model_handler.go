package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/convoxai/convoxai/internal/services"
	"github.com/convoxai/convoxai/internal/utils"
)

type ModelHandler struct {
	prefs services.ModelPrefService
}

func NewModelHandler(prefs services.ModelPrefService) *ModelHandler {
	return &ModelHandler{prefs: prefs}
}

type setModelReq struct {
	Choice string `json:"choice" binding:"required"`
}

// Set handles POST /models: pick the chat backend for subsequent requests.
func (h *ModelHandler) Set(c *gin.Context) {
	const op = "ModelHandler.Set"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req setModelReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return
	}

	name, err := h.prefs.Set(c.Request.Context(), userID, req.Choice)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"model": name})
}

// List handles GET /models.
func (h *ModelHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"models":   h.prefs.Available(),
		"selected": h.prefs.Get(c.Request.Context(), userID),
	})
}
