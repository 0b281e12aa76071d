package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/convoxai/convoxai/internal/cache"
	"github.com/convoxai/convoxai/internal/models"
	"github.com/convoxai/convoxai/internal/prompts"
	"github.com/convoxai/convoxai/internal/providers/llm"
	"github.com/convoxai/convoxai/internal/providers/stt"
	pgrepo "github.com/convoxai/convoxai/internal/repositories/postgres"
	"github.com/convoxai/convoxai/internal/utils"
)

const (
	transcriptCacheTTL = 6 * time.Hour

	// hard deadline on one summary generation call
	generationTimeout = 2 * time.Minute
)

// SummarizeOutput carries the validated summary plus the transcript it was
// built from.
type SummarizeOutput struct {
	Result     models.SummaryResult `json:"result"`
	Transcript string               `json:"transcript"`
	ModelUsed  string               `json:"model_used"`
	SummaryID  string               `json:"summary_id,omitempty"`
}

type SummaryService interface {
	Transcribe(ctx context.Context, audioPath string, size stt.ModelSize) (string, error)
	Summarize(ctx context.Context, userID, audioPath, fileName string, size stt.ModelSize, modelChoice string) (*SummarizeOutput, error)
	// SummarizeTranscript summarizes already-transcribed text, letting callers
	// that track per-phase progress run transcription separately.
	SummarizeTranscript(ctx context.Context, userID, transcript, fileName string, size stt.ModelSize, modelChoice string) (*SummarizeOutput, error)
}

type summaryService struct {
	engine    *stt.Engine
	registry  *llm.Registry
	summaries pgrepo.SummaryRepo
	cache     cache.Cache
	validate  *validator.Validate
}

func NewSummaryService(engine *stt.Engine, registry *llm.Registry, summaries pgrepo.SummaryRepo, c cache.Cache) SummaryService {
	return &summaryService{
		engine:    engine,
		registry:  registry,
		summaries: summaries,
		cache:     c,
		validate:  validator.New(),
	}
}

// Transcribe runs speech-to-text on the audio file, serving repeated requests
// for the same content from the cache. The cache key is the digest of the
// file bytes plus the model size, so re-uploads of identical audio skip the
// model entirely.
func (s *summaryService) Transcribe(ctx context.Context, audioPath string, size stt.ModelSize) (string, error) {
	const op = "SummaryService.Transcribe"

	if audioPath == "" {
		return "", utils.E(utils.CodeInvalidArgument, op, "audio path is required", nil)
	}
	if _, err := os.Stat(audioPath); err != nil {
		return "", utils.E(utils.CodeInvalidArgument, op, "audio file not found", err)
	}

	key := ""
	if digest, err := fileDigest(audioPath); err == nil {
		key = "transcript:" + string(size) + ":" + digest
		var cached string
		if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit && cached != "" {
			return cached, nil
		}
	}

	text, err := s.engine.Transcribe(ctx, audioPath, size)
	if err != nil {
		return "", err
	}

	if key != "" {
		_ = s.cache.SetJSON(ctx, key, text, transcriptCacheTTL)
	}
	return text, nil
}

// Summarize transcribes the audio and produces a schema-validated structured
// summary.
func (s *summaryService) Summarize(ctx context.Context, userID, audioPath, fileName string, size stt.ModelSize, modelChoice string) (*SummarizeOutput, error) {
	transcript, err := s.Transcribe(ctx, audioPath, size)
	if err != nil {
		return nil, err
	}
	return s.SummarizeTranscript(ctx, userID, transcript, fileName, size, modelChoice)
}

// SummarizeTranscript produces a schema-validated structured summary from a
// transcript. A response that cannot be decoded into the expected shape, or
// that decodes but fails validation, is rejected whole rather than partially
// returned.
func (s *summaryService) SummarizeTranscript(ctx context.Context, userID, transcript, fileName string, size stt.ModelSize, modelChoice string) (*SummarizeOutput, error) {
	const op = "SummaryService.SummarizeTranscript"

	if strings.TrimSpace(transcript) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "transcript is required", nil)
	}

	provider := s.registry.Pick(modelChoice)
	genCtx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()
	raw, err := provider.CompleteJSON(genCtx, prompts.SummaryPrompt(transcript))
	if err != nil {
		return nil, utils.E(utils.CodeGenerationFailed, op, "summary generation failed", err)
	}

	var result models.SummaryResult
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &result); err != nil {
		return nil, utils.E(utils.CodeSchemaValidation, op, "model response is not valid summary JSON", err)
	}
	if err := s.validate.Struct(&result); err != nil {
		return nil, utils.E(utils.CodeSchemaValidation, op, "summary failed schema validation", err)
	}

	out := &SummarizeOutput{
		Result:     result,
		Transcript: transcript,
		ModelUsed:  provider.Name(),
	}

	if s.summaries != nil && userID != "" {
		record := &models.SummaryRecord{
			ID:               uuid.NewString(),
			UserID:           userID,
			Summary:          result.Summary,
			DurationMinutes:  result.DurationMinutes,
			ParticipantCount: result.ParticipantCount,
			KeyAspects:       result.KeyAspects,
			Sentiment:        string(result.Sentiment),
			CreatedAt:        time.Now().UTC(),
		}
		if meta, err := json.Marshal(map[string]string{
			"file_name":  fileName,
			"model_used": provider.Name(),
			"model_size": string(size),
		}); err == nil {
			record.Metadata = datatypes.JSON(meta)
		}
		if err := s.summaries.Insert(ctx, record); err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to persist summary", err)
		}
		out.SummaryID = record.ID
	}
	return out, nil
}

// stripCodeFences removes a markdown fence wrapper some models insist on
// emitting around JSON.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func fileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
