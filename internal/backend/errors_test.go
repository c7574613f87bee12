package backend

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassifyContextErrors(t *testing.T) {
	if got := KindOf(Classify(context.DeadlineExceeded)); got != KindTimeout {
		t.Errorf("expected timeout, got %s", got)
	}
	if got := KindOf(Classify(context.Canceled)); got != KindCanceled {
		t.Errorf("expected canceled, got %s", got)
	}
}

func TestClassifyStatusCodes(t *testing.T) {
	cases := map[int]Kind{
		401: KindAuth,
		403: KindAuth,
		429: KindRateLimited,
		400: KindRejected,
		504: KindTimeout,
		503: KindUnavailable,
	}
	for status, want := range cases {
		if got := classifyStatus(status); got != want {
			t.Errorf("status %d: expected %s, got %s", status, want, got)
		}
	}
}

func TestClassifyPassesThroughClassified(t *testing.T) {
	original := &BackendError{Kind: KindRejected, Message: "blank completion"}
	wrapped := fmt.Errorf("generate: %w", original)
	classified := Classify(wrapped)

	var backendErr *BackendError
	if !errors.As(classified, &backendErr) {
		t.Fatal("expected a BackendError in the chain")
	}
	if backendErr.Kind != KindRejected {
		t.Errorf("expected rejected, got %s", backendErr.Kind)
	}
}

func TestClassifyTransportError(t *testing.T) {
	err := Classify(errors.New("dial tcp: connection refused"))
	if KindOf(err) != KindUnavailable {
		t.Errorf("expected unavailable, got %s", KindOf(err))
	}
}

func TestNewOpenAIGeneratorRequiresKey(t *testing.T) {
	_, err := NewOpenAIGenerator(Settings{Model: "gpt-4o"})
	if KindOf(err) != KindAuth {
		t.Errorf("expected auth error, got %v", err)
	}
	if _, err := NewOpenAIGenerator(Settings{APIKey: "sk-test"}); err == nil {
		t.Error("expected error for missing model")
	}
}

func TestCountWords(t *testing.T) {
	if got := CountWords("  one two\nthree   four "); got != 4 {
		t.Errorf("expected 4, got %d", got)
	}
	if got := CountWords(""); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}
