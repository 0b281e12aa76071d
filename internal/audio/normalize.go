// Package audio converts arbitrary input containers to the canonical
// decodable format (16 kHz mono WAV) before transcription.
package audio

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/convoxai/convoxai/internal/utils"
)

var supportedExtensions = map[string]struct{}{
	".wav":  {},
	".mp3":  {},
	".m4a":  {},
	".flac": {},
	".ogg":  {},
}

// SupportedExtension reports whether ext (".mp3", case-insensitive) is a
// container this service accepts.
func SupportedExtension(ext string) bool {
	_, ok := supportedExtensions[strings.ToLower(ext)]
	return ok
}

// Normalizer re-encodes audio through ffmpeg. The zero value is not usable;
// use NewNormalizer.
type Normalizer struct {
	ffmpegPath string
}

func NewNormalizer() *Normalizer {
	path := os.Getenv("FFMPEG_PATH")
	if path == "" {
		path = "ffmpeg"
	}
	return &Normalizer{ffmpegPath: path}
}

// Normalize returns a path to a canonical WAV rendition of inputPath.
//
// A .wav input is returned as-is. Otherwise the WAV lands next to the input
// with the extension swapped; if that file already exists it is reused, so
// repeated calls are idempotent and re-encode at most once.
func (n *Normalizer) Normalize(ctx context.Context, inputPath string) (string, error) {
	const op = "Normalizer.Normalize"

	if inputPath == "" {
		return "", utils.E(utils.CodeInvalidArgument, op, "input path is required", nil)
	}

	ext := strings.ToLower(filepath.Ext(inputPath))
	if !SupportedExtension(ext) {
		return "", utils.E(utils.CodeUnsupportedFormat, op, "unsupported audio format "+ext, nil)
	}
	if ext == ".wav" {
		return inputPath, nil
	}

	wavPath := strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".wav"
	if _, err := os.Stat(wavPath); err == nil {
		return wavPath, nil
	}

	// -y is safe: we only reach here when the target does not exist.
	cmd := exec.CommandContext(ctx, n.ffmpegPath,
		"-v", "error",
		"-i", inputPath,
		"-ar", "16000",
		"-ac", "1",
		"-y", wavPath,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		// leave no partial output behind
		_ = os.Remove(wavPath)
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			msg = "audio conversion failed"
		}
		return "", utils.E(utils.CodeConversionFailed, op, msg, err)
	}

	return wavPath, nil
}
