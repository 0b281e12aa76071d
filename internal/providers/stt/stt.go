package stt

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/convoxai/convoxai/internal/audio"
	"github.com/convoxai/convoxai/internal/utils"
)

// ModelSize selects the speech model variant. Only the whisper family sizes
// are valid; anything else is rejected before a model is touched.
type ModelSize string

const (
	ModelTiny   ModelSize = "tiny"
	ModelBase   ModelSize = "base"
	ModelSmall  ModelSize = "small"
	ModelMedium ModelSize = "medium"
	ModelLarge  ModelSize = "large"
)

func ParseModelSize(s string) (ModelSize, error) {
	switch ModelSize(strings.ToLower(strings.TrimSpace(s))) {
	case ModelTiny:
		return ModelTiny, nil
	case ModelBase:
		return ModelBase, nil
	case ModelSmall:
		return ModelSmall, nil
	case ModelMedium:
		return ModelMedium, nil
	case ModelLarge:
		return ModelLarge, nil
	default:
		return "", utils.E(utils.CodeInvalidConfiguration, "stt.ParseModelSize",
			"invalid model size "+strings.TrimSpace(s)+" (want tiny|base|small|medium|large)", nil)
	}
}

// Segment is one recognized span of speech.
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// Model is a loaded speech-recognition model instance.
type Model interface {
	Transcribe(ctx context.Context, wavPath string) ([]Segment, error)
}

// Loader materializes a model for a given size. Loading is the dominant
// latency cost, which is why the Engine caches the result per size.
type Loader func(ctx context.Context, size ModelSize) (Model, error)

type modelEntry struct {
	once  sync.Once
	model Model
	err   error
}

// Engine is the speech-to-text front door. It validates the requested model
// size, normalizes the audio container, and dispatches to a cached model.
// One Engine is shared process-wide; the only synchronization is around the
// first load per model size, so concurrent cold starts load each model once
// and no lock is held across a model call.
type Engine struct {
	load       Loader
	normalizer *audio.Normalizer

	mu     sync.Mutex
	models map[ModelSize]*modelEntry
}

func NewEngine(load Loader, normalizer *audio.Normalizer) *Engine {
	return &Engine{
		load:       load,
		normalizer: normalizer,
		models:     make(map[ModelSize]*modelEntry),
	}
}

func (e *Engine) entry(size ModelSize) *modelEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	ent, ok := e.models[size]
	if !ok {
		ent = &modelEntry{}
		e.models[size] = ent
	}
	return ent
}

func (e *Engine) model(ctx context.Context, size ModelSize) (Model, error) {
	ent := e.entry(size)
	ent.once.Do(func() {
		ent.model, ent.err = e.load(ctx, size)
	})
	if ent.err != nil {
		// Only successful loads stay cached. Dropping the entry lets the
		// next call retry a load that failed transiently.
		e.mu.Lock()
		if e.models[size] == ent {
			delete(e.models, size)
		}
		e.mu.Unlock()
		return nil, utils.E(utils.CodeTranscriptionFailed, "Engine.model", "failed to load speech model "+string(size), ent.err)
	}
	return ent.model, nil
}

// Transcribe converts the audio at audioPath to text using the model of the
// given size. The result is the space-joined text of all recognized segments
// in chronological order.
func (e *Engine) Transcribe(ctx context.Context, audioPath string, size ModelSize) (string, error) {
	const op = "Engine.Transcribe"

	size, err := ParseModelSize(string(size))
	if err != nil {
		return "", err
	}
	if audioPath == "" {
		return "", utils.E(utils.CodeInvalidArgument, op, "audio path is required", nil)
	}

	wavPath, err := e.normalizer.Normalize(ctx, audioPath)
	if err != nil {
		return "", err
	}

	m, err := e.model(ctx, size)
	if err != nil {
		return "", err
	}

	segs, err := m.Transcribe(ctx, wavPath)
	if err != nil {
		return "", utils.E(utils.CodeTranscriptionFailed, op, "speech model invocation failed", err)
	}

	sort.SliceStable(segs, func(i, j int) bool { return segs[i].Start < segs[j].Start })

	parts := make([]string, 0, len(segs))
	for _, s := range segs {
		if t := strings.TrimSpace(s.Text); t != "" {
			parts = append(parts, t)
		}
	}
	text := strings.Join(parts, " ")
	if text == "" {
		return "", utils.E(utils.CodeTranscriptionFailed, op, "empty transcription result", nil)
	}
	return text, nil
}
