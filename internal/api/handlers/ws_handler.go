package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/convoxai/convoxai/internal/models"
	"github.com/convoxai/convoxai/internal/services"
)

type WSHandler struct {
	chat     services.ChatService
	prefs    services.ModelPrefService
	upgrader websocket.Upgrader
}

func NewWSHandler(chat services.ChatService, prefs services.ModelPrefService) *WSHandler {
	return &WSHandler{
		chat:  chat,
		prefs: prefs,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origin in prod
		},
	}
}

type wsClientMsg struct {
	Type     string            `json:"type"` // "query"
	Question string            `json:"question"`
	History  []models.ChatTurn `json:"history"`
	Model    string            `json:"model"`
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) writeJSON(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.c.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return w.c.WriteMessage(websocket.TextMessage, b)
}

// ChatWS handles GET /ws/chat: each "query" message streams the answer back
// as source, chunk, and done frames.
func (h *WSHandler) ChatWS(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote response in most cases
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}
	ctx := c.Request.Context()

	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, data, rerr := conn.ReadMessage()
		if rerr != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		var msg wsClientMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			_ = wc.writeJSON(gin.H{"type": "error", "code": "INVALID_ARGUMENT", "message": "invalid json"})
			continue
		}
		if msg.Type != "query" {
			_ = wc.writeJSON(gin.H{"type": "error", "code": "INVALID_ARGUMENT", "message": "unknown message type"})
			continue
		}

		modelChoice := msg.Model
		if modelChoice == "" {
			modelChoice = h.prefs.Get(ctx, userID)
		}

		sources, chunks, errs, err := h.chat.AnswerStream(ctx, msg.Question, msg.History, modelChoice)
		if err != nil {
			_ = wc.writeJSON(gin.H{"type": "error", "message": err.Error()})
			continue
		}

		_ = wc.writeJSON(gin.H{"type": "sources", "sources": sources})

		seq := 0
		for chunk := range chunks {
			seq++
			if err := wc.writeJSON(gin.H{"type": "chunk", "seq": seq, "text": chunk}); err != nil {
				return
			}
		}

		var streamErr error
		select {
		case streamErr = <-errs:
		default:
		}
		if streamErr != nil {
			_ = wc.writeJSON(gin.H{"type": "error", "message": "generation failed"})
			continue
		}
		_ = wc.writeJSON(gin.H{"type": "done", "chunks": seq})
	}
}
