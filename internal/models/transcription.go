package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	JobStatusPending      = "pending"
	JobStatusTranscribing = "transcribing"
	JobStatusSummarizing  = "summarizing"
	JobStatusDone         = "done"
	JobStatusFailed       = "failed"

	IndexStatusPending  = "pending"
	IndexStatusIndexing = "indexing"
	IndexStatusIndexed  = "indexed"
	IndexStatusFailed   = "failed"
)

// TranscriptionJob tracks one summarize/transcribe request through the
// pipeline. Documents are TTL-bounded; long-term artifacts live in Postgres
// and the vector index, not here.
type TranscriptionJob struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	JobID  string             `bson:"job_id" json:"job_id"` // uuid v4
	UserID string             `bson:"user_id" json:"user_id"`

	FileName  string `bson:"file_name" json:"file_name"`
	ModelSize string `bson:"model_size" json:"model_size"`

	Status     string `bson:"status" json:"status"`             // pending|transcribing|summarizing|done|failed
	IndexState string `bson:"index_status" json:"index_status"` // pending|indexing|indexed|failed
	Transcript string `bson:"transcript,omitempty" json:"transcript,omitempty"`
	Error      string `bson:"error,omitempty" json:"error,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"` // for TTL index
}
