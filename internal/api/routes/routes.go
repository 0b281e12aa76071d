package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/convoxai/convoxai/internal/api/handlers"
	"github.com/convoxai/convoxai/internal/api/middleware"
	"github.com/convoxai/convoxai/internal/services"
)

type Deps struct {
	Summarize    *handlers.SummarizeHandler
	Chat         *handlers.ChatHandler
	Model        *handlers.ModelHandler
	Conversation *handlers.ConversationHandler
	File         *handlers.FileHandler
	WS           *handlers.WSHandler

	Ingest services.IngestService
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"service": "convoxai", "status": "running"})
	})
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Protected routes (JWT)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuth())

	auth.POST("/summarize", d.Summarize.Summarize)
	auth.POST("/transcript", d.Summarize.Transcript)
	auth.GET("/jobs", d.Summarize.Jobs)
	auth.GET("/jobs/:job_id", d.Summarize.Job)

	auth.POST("/chat/query", d.Chat.Query)
	auth.POST("/chat/save", d.Conversation.Save)
	auth.GET("/chat/history", d.Conversation.History)
	auth.GET("/chat/:conversation_id", d.Conversation.Get)
	auth.DELETE("/chat/:conversation_id", d.Conversation.Delete)

	auth.POST("/models", d.Model.Set)
	auth.GET("/models", d.Model.List)

	auth.POST("/storage/upload", d.File.Upload)
	auth.GET("/storage/files", d.File.List)
	auth.DELETE("/storage/files/:file_id", d.File.Delete)

	// WebSocket
	auth.GET("/ws/chat", d.WS.ChatWS)

	// Admin
	admin := auth.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	admin.DELETE("/index", func(c *gin.Context) {
		if err := d.Ingest.Clear(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to clear index"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cleared": true})
	})
}
