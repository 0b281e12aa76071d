package audio

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convoxai/convoxai/internal/utils"
)

func TestSupportedExtension(t *testing.T) {
	for _, ext := range []string{".wav", ".mp3", ".m4a", ".flac", ".ogg", ".MP3", ".WAV"} {
		assert.True(t, SupportedExtension(ext), ext)
	}
	for _, ext := range []string{".txt", ".pdf", ".mp4", "", "wav"} {
		assert.False(t, SupportedExtension(ext), ext)
	}
}

func TestNormalizeEmptyPath(t *testing.T) {
	n := NewNormalizer()
	_, err := n.Normalize(context.Background(), "")
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestNormalizeUnsupportedFormat(t *testing.T) {
	n := NewNormalizer()
	_, err := n.Normalize(context.Background(), "/tmp/call.txt")
	assert.True(t, utils.IsCode(err, utils.CodeUnsupportedFormat))
}

func TestNormalizeWavPassthrough(t *testing.T) {
	n := NewNormalizer()
	out, err := n.Normalize(context.Background(), "/tmp/call.wav")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/call.wav", out)
}

func TestNormalizeReusesExistingOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "call.mp3")
	existing := filepath.Join(dir, "call.wav")
	require.NoError(t, os.WriteFile(input, []byte("not really audio"), 0o644))
	require.NoError(t, os.WriteFile(existing, []byte("previous conversion"), 0o644))

	n := NewNormalizer()
	out, err := n.Normalize(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, existing, out)
}

func TestNormalizeConversionFailure(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "call.mp3")
	require.NoError(t, os.WriteFile(input, []byte("garbage"), 0o644))

	t.Setenv("FFMPEG_PATH", "/nonexistent/ffmpeg")
	n := NewNormalizer()
	_, err := n.Normalize(context.Background(), input)
	assert.True(t, utils.IsCode(err, utils.CodeConversionFailed))

	// no partial output left behind
	_, statErr := os.Stat(filepath.Join(dir, "call.wav"))
	assert.True(t, os.IsNotExist(statErr))
}
