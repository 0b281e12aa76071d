package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/convoxai/convoxai/internal/models"
	"github.com/convoxai/convoxai/internal/services"
	"github.com/convoxai/convoxai/internal/utils"
)

type ChatHandler struct {
	chat  services.ChatService
	prefs services.ModelPrefService
}

func NewChatHandler(chat services.ChatService, prefs services.ModelPrefService) *ChatHandler {
	return &ChatHandler{chat: chat, prefs: prefs}
}

type chatQueryReq struct {
	Question string            `json:"question" binding:"required"`
	History  []models.ChatTurn `json:"history" binding:"omitempty,dive"`
	Model    string            `json:"model"`
	TopK     int               `json:"top_k" binding:"omitempty,gte=1,lte=20"`
}

// Query handles POST /chat/query.
func (h *ChatHandler) Query(c *gin.Context) {
	const op = "ChatHandler.Query"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req chatQueryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return
	}
	if req.Model == "" {
		req.Model = h.prefs.Get(c.Request.Context(), userID)
	}

	ans, err := h.chat.Answer(c.Request.Context(), req.Question, req.History, req.Model, req.TopK)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ans)
}
