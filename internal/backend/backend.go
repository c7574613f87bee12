// Package backend sends assembled prompts to the language model and
// classifies the failures that come back.
package backend

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Request is one generation call. The ID correlates journal lines, logs,
// and persisted metadata for a single run.
type Request struct {
	ID        uuid.UUID
	Protocol  string
	Citation  string
	System    string
	User      string
	MaxTokens int
}

// Result is the model's completed study body.
type Result struct {
	Content   string
	WordCount int
	Model     string
	Duration  time.Duration
}

// Generator produces study text from a request. Implementations must honor
// context cancellation.
type Generator interface {
	Generate(ctx context.Context, req Request) (Result, error)
}

// CountWords counts whitespace-separated words, the same measure used for
// length validation.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
