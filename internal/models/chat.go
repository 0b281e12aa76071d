package models

// ChatTurn is one prior turn of a conversation, supplied by the caller per
// query. The chat engine itself is stateless across calls.
type ChatTurn struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required"`
}

// SourceDocument is a retrieved passage cited as evidence for an answer.
type SourceDocument struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ChatAnswer is the result of one retrieval-augmented query.
type ChatAnswer struct {
	Answer    string           `json:"answer"`
	Sources   []SourceDocument `json:"sources"`
	ModelUsed string           `json:"model_used"`
}
