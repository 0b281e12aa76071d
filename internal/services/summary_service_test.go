package services

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convoxai/convoxai/internal/audio"
	"github.com/convoxai/convoxai/internal/providers/llm"
	"github.com/convoxai/convoxai/internal/providers/stt"
	"github.com/convoxai/convoxai/internal/utils"
)

type fixedModel struct {
	text  string
	calls *int32
}

func (m *fixedModel) Transcribe(ctx context.Context, wavPath string) ([]stt.Segment, error) {
	if m.calls != nil {
		atomic.AddInt32(m.calls, 1)
	}
	return []stt.Segment{{Start: 0, End: 1, Text: m.text}}, nil
}

func testEngine(text string, calls *int32) *stt.Engine {
	return stt.NewEngine(func(ctx context.Context, size stt.ModelSize) (stt.Model, error) {
		return &fixedModel{text: text, calls: calls}, nil
	}, audio.NewNormalizer())
}

func audioFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "call.wav")
	require.NoError(t, os.WriteFile(path, []byte("riff-data"), 0o644))
	return path
}

const validSummaryJSON = `{
	"summary": "The customer called about a delayed refund and the agent resolved it.",
	"duration_minutes": 4,
	"participant_count": 2,
	"key_aspects": ["Refund of $150 delayed", "Agent issued the refund", "Confirmation email promised"],
	"sentiment": "Positive"
}`

func newSummaryService(provider *fakeLLM, repo *memSummaryRepo, calls *int32) SummaryService {
	return NewSummaryService(
		testEngine("hello this is a call transcript", calls),
		llm.NewRegistry(provider),
		repo,
		newMemCache(),
	)
}

func TestSummarizeHappyPath(t *testing.T) {
	provider := &fakeLLM{name: "gemini", response: validSummaryJSON}
	repo := &memSummaryRepo{}
	svc := newSummaryService(provider, repo, nil)

	out, err := svc.Summarize(context.Background(), "user-1", audioFixture(t), "call.wav", stt.ModelBase, "")
	require.NoError(t, err)

	assert.Equal(t, 2, out.Result.ParticipantCount)
	assert.Equal(t, 4, out.Result.DurationMinutes)
	assert.Len(t, out.Result.KeyAspects, 3)
	assert.Equal(t, "Positive", string(out.Result.Sentiment))
	assert.Equal(t, "gemini", out.ModelUsed)
	assert.Equal(t, "hello this is a call transcript", out.Transcript)
	assert.Contains(t, provider.lastPrompt(), "hello this is a call transcript")

	require.Len(t, repo.rows, 1)
	assert.Equal(t, "user-1", repo.rows[0].UserID)
	assert.Equal(t, out.SummaryID, repo.rows[0].ID)
}

func TestSummarizeStripsCodeFences(t *testing.T) {
	provider := &fakeLLM{name: "gemini", response: "```json\n" + validSummaryJSON + "\n```"}
	svc := newSummaryService(provider, &memSummaryRepo{}, nil)

	out, err := svc.Summarize(context.Background(), "user-1", audioFixture(t), "call.wav", stt.ModelBase, "")
	require.NoError(t, err)
	assert.Equal(t, 2, out.Result.ParticipantCount)
}

func TestSummarizeRejectsMalformedJSON(t *testing.T) {
	provider := &fakeLLM{name: "gemini", response: "I could not produce JSON, sorry."}
	svc := newSummaryService(provider, &memSummaryRepo{}, nil)

	_, err := svc.Summarize(context.Background(), "user-1", audioFixture(t), "call.wav", stt.ModelBase, "")
	assert.True(t, utils.IsCode(err, utils.CodeSchemaValidation))
}

func TestSummarizeRejectsSchemaViolations(t *testing.T) {
	cases := map[string]string{
		"too few key aspects": `{
			"summary": "s", "duration_minutes": 1, "participant_count": 2,
			"key_aspects": ["one", "two"], "sentiment": "Neutral"
		}`,
		"too many key aspects": `{
			"summary": "s", "duration_minutes": 1, "participant_count": 2,
			"key_aspects": ["1","2","3","4","5","6","7","8"], "sentiment": "Neutral"
		}`,
		"bad sentiment": `{
			"summary": "s", "duration_minutes": 1, "participant_count": 2,
			"key_aspects": ["one", "two", "three"], "sentiment": "happy"
		}`,
		"zero participants": `{
			"summary": "s", "duration_minutes": 1, "participant_count": 0,
			"key_aspects": ["one", "two", "three"], "sentiment": "Neutral"
		}`,
		"empty summary": `{
			"summary": "", "duration_minutes": 1, "participant_count": 2,
			"key_aspects": ["one", "two", "three"], "sentiment": "Neutral"
		}`,
		"negative duration": `{
			"summary": "s", "duration_minutes": -3, "participant_count": 2,
			"key_aspects": ["one", "two", "three"], "sentiment": "Neutral"
		}`,
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			provider := &fakeLLM{name: "gemini", response: payload}
			repo := &memSummaryRepo{}
			svc := newSummaryService(provider, repo, nil)

			_, err := svc.Summarize(context.Background(), "user-1", audioFixture(t), "call.wav", stt.ModelBase, "")
			assert.True(t, utils.IsCode(err, utils.CodeSchemaValidation))
			assert.Empty(t, repo.rows, "rejected summary must not be persisted")
		})
	}
}

func TestSummarizeTranscriptSkipsSpeechModel(t *testing.T) {
	calls := int32(0)
	provider := &fakeLLM{name: "gemini", response: validSummaryJSON}
	repo := &memSummaryRepo{}
	svc := newSummaryService(provider, repo, &calls)

	out, err := svc.SummarizeTranscript(context.Background(), "user-1", "agent and customer discussed the refund", "call.wav", stt.ModelBase, "")
	require.NoError(t, err)

	assert.Equal(t, "agent and customer discussed the refund", out.Transcript)
	assert.Contains(t, provider.lastPrompt(), "agent and customer discussed the refund")
	assert.Zero(t, atomic.LoadInt32(&calls), "a provided transcript must not be re-transcribed")
	require.Len(t, repo.rows, 1)
}

func TestSummarizeTranscriptRejectsEmpty(t *testing.T) {
	svc := newSummaryService(&fakeLLM{name: "gemini", response: validSummaryJSON}, &memSummaryRepo{}, nil)

	_, err := svc.SummarizeTranscript(context.Background(), "user-1", "   ", "call.wav", stt.ModelBase, "")
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestSummarizeInvalidModelSize(t *testing.T) {
	svc := newSummaryService(&fakeLLM{name: "gemini", response: validSummaryJSON}, &memSummaryRepo{}, nil)

	_, err := svc.Summarize(context.Background(), "user-1", audioFixture(t), "call.wav", "huge", "")
	assert.True(t, utils.IsCode(err, utils.CodeInvalidConfiguration))
}

func TestTranscribeMissingFile(t *testing.T) {
	svc := newSummaryService(&fakeLLM{name: "gemini"}, &memSummaryRepo{}, nil)

	_, err := svc.Transcribe(context.Background(), "/nonexistent/call.wav", stt.ModelBase)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestTranscribeCachesByContent(t *testing.T) {
	calls := int32(0)
	svc := newSummaryService(&fakeLLM{name: "gemini"}, &memSummaryRepo{}, &calls)
	path := audioFixture(t)

	first, err := svc.Transcribe(context.Background(), path, stt.ModelBase)
	require.NoError(t, err)
	second, err := svc.Transcribe(context.Background(), path, stt.ModelBase)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "second call must hit the cache")
}
