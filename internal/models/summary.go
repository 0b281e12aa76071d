package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNegative Sentiment = "Negative"
	SentimentNeutral  Sentiment = "Neutral"
)

// SummaryResult is the structured output contract for the summarization
// engine. The LLM response is decoded into this shape and validated before it
// is ever returned; a result that fails validation is discarded whole.
type SummaryResult struct {
	Summary          string    `json:"summary" validate:"required,min=1"`
	DurationMinutes  int       `json:"duration_minutes" validate:"gte=0"`
	ParticipantCount int       `json:"participant_count" validate:"required,gte=1"`
	KeyAspects       []string  `json:"key_aspects" validate:"required,min=3,max=7,dive,required,min=1"`
	Sentiment        Sentiment `json:"sentiment" validate:"required,oneof=Positive Negative Neutral"`
}

// SummaryRecord is the persisted form of a validated SummaryResult, scoped to
// the user that submitted the audio.
type SummaryRecord struct {
	ID               string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID           string         `gorm:"column:user_id;type:uuid;index" json:"user_id"`
	AudioFileID      string         `gorm:"column:audio_file_id;type:uuid;index" json:"audio_file_id"`
	Summary          string         `gorm:"column:summary;type:text" json:"summary"`
	DurationMinutes  int            `gorm:"column:duration_minutes;type:integer" json:"duration_minutes"`
	ParticipantCount int            `gorm:"column:participant_count;type:integer" json:"participant_count"`
	KeyAspects       pq.StringArray `gorm:"column:key_aspects;type:text[]" json:"key_aspects"`
	Sentiment        string         `gorm:"column:sentiment;type:text" json:"sentiment"`
	Metadata         datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata"`
	CreatedAt        time.Time      `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (SummaryRecord) TableName() string { return "summaries" }
