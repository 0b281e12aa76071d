package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummaryPromptEmbedsTranscript(t *testing.T) {
	p := SummaryPrompt("agent: hello\ncustomer: hi, I have a billing question")

	assert.Contains(t, p, "customer: hi, I have a billing question")
	assert.Contains(t, p, "participant_count")
	assert.Contains(t, p, "key_aspects")
	assert.Contains(t, p, `"Positive", "Negative", "Neutral"`)
	// duration heuristic must survive template edits
	assert.Contains(t, p, "total_words / 135")
}

func TestChatPromptSections(t *testing.T) {
	p := ChatPrompt(
		[]string{"passage one", "passage two"},
		[]string{"user: earlier question", "assistant: earlier answer"},
		"what happened?",
	)

	assert.Contains(t, p, "passage one\n\n---\n\npassage two")
	assert.Contains(t, p, "user: earlier question")
	assert.Contains(t, p, "User Question: what happened?")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(p), "Answer:"))
}

func TestChatPromptEmptyContextAndHistory(t *testing.T) {
	p := ChatPrompt(nil, nil, "anything indexed yet?")

	assert.Contains(t, p, "(no matching documents)")
	assert.Contains(t, p, "(none)")
}
