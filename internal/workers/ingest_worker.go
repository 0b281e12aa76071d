package workers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/convoxai/convoxai/internal/models"
	mongorepo "github.com/convoxai/convoxai/internal/repositories/mongo"
	"github.com/convoxai/convoxai/internal/services"
)

// IngestWorkerPool consumes transcripts from a Redis stream and indexes them
// into the vector store. Indexing happens off the request path so summarize
// responses do not wait on embedding calls.
type IngestWorkerPool struct {
	Redis      *redis.Client
	Ingest     services.IngestService
	Jobs       mongorepo.TranscriptionRepo
	NumWorkers int

	Logger *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string
}

// Enqueue publishes a transcript for background indexing.
func (p *IngestWorkerPool) Enqueue(ctx context.Context, jobID, userID, fileName, text string) error {
	return p.Redis.XAdd(ctx, &redis.XAddArgs{
		Stream: p.Stream,
		Values: map[string]any{
			"job_id":    jobID,
			"user_id":   userID,
			"file_name": fileName,
			"text":      text,
		},
	}).Err()
}

func (p *IngestWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Ingest == nil || p.Jobs == nil {
		return errors.New("IngestWorkerPool missing dependency: Redis/Ingest/Jobs must be set")
	}
	if p.Stream == "" {
		p.Stream = "ingest:stream"
	}
	if p.Group == "" {
		p.Group = "ingest-workers"
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "c"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 3
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}

	_ = p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err() // ignore BUSYGROUP

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	return nil
}

func (p *IngestWorkerPool) runConsumer(ctx context.Context, consumer string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()

		if err != nil {
			if err == redis.Nil {
				continue
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				p.handleMsg(ctx, msg)
				_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
			}
		}
	}
}

func (p *IngestWorkerPool) handleMsg(ctx context.Context, msg redis.XMessage) {
	getStr := func(k string) string {
		v, ok := msg.Values[k]
		if !ok || v == nil {
			return ""
		}
		s, _ := v.(string)
		return s
	}

	jobID := getStr("job_id")
	userID := getStr("user_id")
	text := getStr("text")
	if jobID == "" || text == "" {
		return
	}

	log := p.Logger.WithFields(logrus.Fields{
		"redis_id": msg.ID,
		"job_id":   jobID,
		"user_id":  userID,
	})

	_ = p.Jobs.SetIndexState(ctx, jobID, models.IndexStatusIndexing)

	meta := map[string]any{
		"job_id":  jobID,
		"user_id": userID,
	}
	if fn := getStr("file_name"); fn != "" {
		meta["file_name"] = fn
	}

	n, err := p.Ingest.Ingest(ctx, text, meta)
	if err != nil {
		log.WithError(err).Error("transcript indexing failed")
		_ = p.Jobs.SetIndexState(ctx, jobID, models.IndexStatusFailed)
		return
	}

	_ = p.Jobs.SetIndexState(ctx, jobID, models.IndexStatusIndexed)
	log.WithField("chunks", n).Info("transcript indexed")
}
