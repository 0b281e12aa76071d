package main

import (
	"context"
	"log"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/convoxai/convoxai/config"
	"github.com/convoxai/convoxai/internal/api/handlers"
	"github.com/convoxai/convoxai/internal/api/middleware"
	"github.com/convoxai/convoxai/internal/api/routes"
	"github.com/convoxai/convoxai/internal/audio"
	"github.com/convoxai/convoxai/internal/cache"
	"github.com/convoxai/convoxai/internal/chunker"
	applog "github.com/convoxai/convoxai/internal/logger"
	"github.com/convoxai/convoxai/internal/models"
	"github.com/convoxai/convoxai/internal/providers/embeddings"
	"github.com/convoxai/convoxai/internal/providers/llm"
	"github.com/convoxai/convoxai/internal/providers/stt"
	mongorepo "github.com/convoxai/convoxai/internal/repositories/mongo"
	pgrepo "github.com/convoxai/convoxai/internal/repositories/postgres"
	"github.com/convoxai/convoxai/internal/services"
	"github.com/convoxai/convoxai/internal/storage"
	"github.com/convoxai/convoxai/internal/vectorindex"
	"github.com/convoxai/convoxai/internal/workers"
)

func main() {
	_ = godotenv.Load()

	l := applog.New()
	ctx := context.Background()

	// Datastores
	if err := config.InitPostgres(); err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	l.Info("PostgreSQL connected")

	if err := config.InitMongo(); err != nil {
		log.Fatalf("MongoDB init error: %v", err)
	}
	if err := config.EnsureMongoIndexes(); err != nil {
		log.Fatalf("MongoDB index error: %v", err)
	}
	l.Info("MongoDB connected")

	if err := config.InitRedis(); err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	l.Info("Redis connected")

	db := config.PostgresDB
	if err := db.AutoMigrate(
		&models.ChatConversation{},
		&models.ChatMessage{},
		&models.AudioFile{},
		&models.SummaryRecord{},
	); err != nil {
		log.Fatalf("Postgres migration error: %v", err)
	}

	// Embeddings + vector index
	embedder, err := buildEmbedder(ctx)
	if err != nil {
		log.Fatalf("Embeddings init error: %v", err)
	}
	defer embedder.Close()

	topK, _ := strconv.Atoi(os.Getenv("RETRIEVAL_TOP_K"))
	index := vectorindex.New(db, embedder, topK)
	if err := index.EnsureSchema(ctx); err != nil {
		log.Fatalf("Vector index init error: %v", err)
	}

	// LLM backends: Gemini default, Groq secondary
	gemini, err := llm.NewVertexGemini(ctx,
		os.Getenv("GCP_PROJECT_ID"),
		envOr("GCP_LOCATION", "us-central1"),
		os.Getenv("GEMINI_MODEL"),
		0.7,
	)
	if err != nil {
		log.Fatalf("Gemini init error: %v", err)
	}
	registry := llm.NewRegistry(gemini, llm.NewGroq(os.Getenv("GROQ_API_KEY"), os.Getenv("GROQ_MODEL"), 0.6))
	defer registry.Close()

	// Speech-to-text
	engine := stt.NewEngine(buildSTTLoader(), audio.NewNormalizer())

	// Object storage
	store, err := storage.NewGCSStore(ctx, os.Getenv("GCS_BUCKET"))
	if err != nil {
		log.Fatalf("GCS init error: %v", err)
	}
	defer store.Close()

	// Repositories
	rdb := config.RedisClient
	appCache := cache.NewRedisCache(rdb, "convox")
	summaryRepo := pgrepo.NewSummaryRepo(db)
	convoRepo := pgrepo.NewConversationRepo(db)
	fileRepo := pgrepo.NewAudioFileRepo(db)
	jobRepo := mongorepo.NewTranscriptionRepo(config.MongoDatabase())

	// Services
	splitter := chunker.New(chunker.DefaultChunkSize, chunker.DefaultOverlap)
	ingestSvc := services.NewIngestService(splitter, index)
	summarySvc := services.NewSummaryService(engine, registry, summaryRepo, appCache)
	chatSvc := services.NewChatService(index, registry)
	convoSvc := services.NewConversationService(convoRepo)
	fileSvc := services.NewAudioFileService(fileRepo, store, store)
	prefSvc := services.NewModelPrefService(registry, appCache)

	// Background indexing
	pool := &workers.IngestWorkerPool{
		Redis:  rdb,
		Ingest: ingestSvc,
		Jobs:   jobRepo,
		Logger: l,
		Stream: "ingest:stream",
		Group:  "ingest-workers",
	}
	if err := pool.Start(ctx); err != nil {
		log.Fatalf("Ingest worker error: %v", err)
	}

	// HTTP server
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(l))

	routes.RegisterRoutes(r, routes.Deps{
		Summarize:    handlers.NewSummarizeHandler(summarySvc, jobRepo, pool, prefSvc),
		Chat:         handlers.NewChatHandler(chatSvc, prefSvc),
		Model:        handlers.NewModelHandler(prefSvc),
		Conversation: handlers.NewConversationHandler(convoSvc),
		File:         handlers.NewFileHandler(fileSvc),
		WS:           handlers.NewWSHandler(chatSvc, prefSvc),
		Ingest:       ingestSvc,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// buildEmbedder picks the embeddings backend: Gemini text-embedding-004 by
// default, or any OpenAI-compatible endpoint.
func buildEmbedder(ctx context.Context) (embeddings.Provider, error) {
	if os.Getenv("EMBEDDINGS_PROVIDER") == "openai" {
		dim, _ := strconv.Atoi(os.Getenv("EMBEDDINGS_DIM"))
		return embeddings.NewOpenAI(
			os.Getenv("OPENAI_API_KEY"),
			os.Getenv("OPENAI_BASE_URL"),
			os.Getenv("EMBEDDINGS_MODEL"),
			dim,
		), nil
	}
	return embeddings.NewGemini(ctx, os.Getenv("GEMINI_API_KEY"), os.Getenv("EMBEDDINGS_MODEL"))
}

// buildSTTLoader picks the transcription backend: a whisper server by
// default, or Google Cloud Speech-to-Text.
func buildSTTLoader() stt.Loader {
	if os.Getenv("STT_PROVIDER") == "google" {
		return stt.GoogleSpeechLoader(envOr("STT_LANGUAGE", "en-US"))
	}
	return stt.WhisperLoader(os.Getenv("WHISPER_BASE_URL"), os.Getenv("WHISPER_API_KEY"))
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
