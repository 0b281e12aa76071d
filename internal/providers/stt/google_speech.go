package stt

import (
	"context"
	"os"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
)

// googleSpeechModel recognizes audio with Google Cloud Speech-to-Text. The
// cloud API has no notion of whisper sizes; every size maps onto the same
// recognizer, but the engine cache still deduplicates client construction.
type googleSpeechModel struct {
	c *speech.Client

	encoding     speechpb.RecognitionConfig_AudioEncoding
	sampleRateHz int32
	language     string
}

// GoogleSpeechLoader returns a Loader backed by Google Cloud Speech.
// language example: "en-US", "id-ID".
func GoogleSpeechLoader(language string) Loader {
	if language == "" {
		language = "en-US"
	}
	return func(ctx context.Context, _ ModelSize) (Model, error) {
		c, err := speech.NewClient(ctx)
		if err != nil {
			return nil, err
		}
		return &googleSpeechModel{
			c:            c,
			encoding:     speechpb.RecognitionConfig_LINEAR16,
			sampleRateHz: 16000,
			language:     language,
		}, nil
	}
}

func (g *googleSpeechModel) Transcribe(ctx context.Context, wavPath string) ([]Segment, error) {
	data, err := os.ReadFile(wavPath)
	if err != nil {
		return nil, err
	}

	resp, err := g.c.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   g.encoding,
			SampleRateHertz:            g.sampleRateHz,
			LanguageCode:               g.language,
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: data},
		},
	})
	if err != nil {
		return nil, err
	}

	var segs []Segment
	for i, r := range resp.Results {
		if len(r.Alternatives) == 0 {
			continue
		}
		best := r.Alternatives[0]
		for _, alt := range r.Alternatives {
			if alt.Confidence > best.Confidence {
				best = alt
			}
		}
		if best.Transcript != "" {
			segs = append(segs, Segment{Start: float64(i), End: float64(i + 1), Text: best.Transcript})
		}
	}
	return segs, nil
}
