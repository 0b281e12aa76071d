package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/convoxai/convoxai/internal/models"
	"github.com/convoxai/convoxai/internal/utils"
)

const jobTTL = 24 * time.Hour

type TranscriptionRepo interface {
	Insert(ctx context.Context, job *models.TranscriptionJob) error
	SetStatus(ctx context.Context, jobID, status string) error
	SetTranscript(ctx context.Context, jobID, transcript string) error
	SetIndexState(ctx context.Context, jobID, state string) error
	SetError(ctx context.Context, jobID, errMsg string) error
	GetByJobID(ctx context.Context, userID, jobID string) (*models.TranscriptionJob, error)
	ListByUser(ctx context.Context, userID string, limit int64) ([]models.TranscriptionJob, error)
}

type transcriptionRepo struct {
	col *mongo.Collection
}

func NewTranscriptionRepo(db *mongo.Database) TranscriptionRepo {
	return &transcriptionRepo{col: db.Collection("transcription_jobs")}
}

func (r *transcriptionRepo) Insert(ctx context.Context, job *models.TranscriptionJob) error {
	now := time.Now().UTC()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = now
	if job.ExpiresAt.IsZero() {
		job.ExpiresAt = now.Add(jobTTL)
	}
	_, err := r.col.InsertOne(ctx, job)
	return err
}

func (r *transcriptionRepo) SetStatus(ctx context.Context, jobID, status string) error {
	return r.set(ctx, jobID, bson.M{"status": status})
}

func (r *transcriptionRepo) SetTranscript(ctx context.Context, jobID, transcript string) error {
	return r.set(ctx, jobID, bson.M{"transcript": transcript})
}

func (r *transcriptionRepo) SetIndexState(ctx context.Context, jobID, state string) error {
	return r.set(ctx, jobID, bson.M{"index_status": state})
}

func (r *transcriptionRepo) SetError(ctx context.Context, jobID, errMsg string) error {
	return r.set(ctx, jobID, bson.M{"status": models.JobStatusFailed, "error": errMsg})
}

func (r *transcriptionRepo) set(ctx context.Context, jobID string, fields bson.M) error {
	fields["updated_at"] = time.Now().UTC()
	_, err := r.col.UpdateOne(ctx,
		bson.M{"job_id": jobID},
		bson.M{"$set": fields},
	)
	return err
}

func (r *transcriptionRepo) GetByJobID(ctx context.Context, userID, jobID string) (*models.TranscriptionJob, error) {
	var job models.TranscriptionJob
	err := r.col.FindOne(ctx, bson.M{"job_id": jobID, "user_id": userID}).Decode(&job)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *transcriptionRepo) ListByUser(ctx context.Context, userID string, limit int64) ([]models.TranscriptionJob, error) {
	if limit <= 0 {
		limit = 50
	}

	cur, err := r.col.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.TranscriptionJob
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
