package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/convoxai/convoxai/internal/models"
	"github.com/convoxai/convoxai/internal/services"
	"github.com/convoxai/convoxai/internal/utils"
)

type ConversationHandler struct {
	svc services.ConversationService
}

func NewConversationHandler(svc services.ConversationService) *ConversationHandler {
	return &ConversationHandler{svc: svc}
}

type saveConversationReq struct {
	ConversationID string            `json:"conversation_id"`
	Title          string            `json:"title"`
	Messages       []models.ChatTurn `json:"messages" binding:"required,min=1,dive"`
	AudioFileID    *string           `json:"audio_file_id"`
}

// Save handles POST /chat/save.
func (h *ConversationHandler) Save(c *gin.Context) {
	const op = "ConversationHandler.Save"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req saveConversationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return
	}

	convo, err := h.svc.Save(c.Request.Context(), userID, req.ConversationID, req.Title, req.Messages, req.AudioFileID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, convo)
}

// History handles GET /chat/history.
func (h *ConversationHandler) History(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit > 200 {
		limit = 200
	}

	rows, err := h.svc.History(c.Request.Context(), userID, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": rows})
}

// Get handles GET /chat/:conversation_id.
func (h *ConversationHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	out, err := h.svc.Get(c.Request.Context(), userID, c.Param("conversation_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Delete handles DELETE /chat/:conversation_id.
func (h *ConversationHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, c.Param("conversation_id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
