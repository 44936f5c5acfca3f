// Package llm wraps the Gemini API behind a small client interface and builds
// the career assistant on top of it.
package llm

import "time"

// ModelTier selects between a fast model and the conversational one.
type ModelTier string

const (
	TierLite     ModelTier = "lite"
	TierStandard ModelTier = "standard"
)

// Config holds the Gemini model settings.
type Config struct {
	ChatModel string
	LiteModel string

	Temperature     float32
	MaxOutputTokens int32
	// Timeout bounds a single generation call. Zero leaves it to the caller's context.
	Timeout time.Duration
}

// DefaultConfig returns the settings used by the career assistant.
func DefaultConfig() Config {
	return Config{
		ChatModel:       "gemini-2.5-flash",
		LiteModel:       "gemini-2.5-flash-lite",
		Temperature:     0.4,
		MaxOutputTokens: 1024,
		Timeout:         30 * time.Second,
	}
}

// Model returns the model name for tier, falling back to whichever model is set.
func (c Config) Model(tier ModelTier) string {
	first, second := c.ChatModel, c.LiteModel
	if tier == TierLite {
		first, second = second, first
	}
	if first != "" {
		return first
	}
	return second
}
