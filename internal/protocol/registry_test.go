package protocol

import (
	"errors"
	"testing"
)

func TestBuiltinsAreWellFormed(t *testing.T) {
	registry := NewRegistry()
	for _, id := range []string{Threshold, Palimpsest, Collision} {
		proto, err := registry.Get(id)
		if err != nil {
			t.Fatalf("Get(%s): %v", id, err)
		}
		if err := proto.Validate(); err != nil {
			t.Errorf("%s: %v", id, err)
		}
		if len(proto.Sections) != 5 {
			t.Errorf("%s: expected 5 sections, got %d", id, len(proto.Sections))
		}
	}
}

func TestBuiltinWordRanges(t *testing.T) {
	registry := NewRegistry()
	ranges := map[string]WordRange{
		Threshold:  {Min: 2500, Max: 3500},
		Palimpsest: {Min: 3000, Max: 4000},
		Collision:  {Min: 3000, Max: 5000},
	}
	for id, want := range ranges {
		proto, err := registry.Get(id)
		if err != nil {
			t.Fatalf("Get(%s): %v", id, err)
		}
		if proto.Words != want {
			t.Errorf("%s: expected %d-%d words, got %d-%d",
				id, want.Min, want.Max, proto.Words.Min, proto.Words.Max)
		}
	}
}

func TestGetUnknownProtocol(t *testing.T) {
	registry := NewRegistry()
	_, err := registry.Get("oracular")
	if !errors.Is(err, ErrUnknownProtocol) {
		t.Errorf("expected ErrUnknownProtocol, got %v", err)
	}
}

func TestGetIsCaseInsensitive(t *testing.T) {
	registry := NewRegistry()
	proto, err := registry.Get("Threshold")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if proto.ID != Threshold {
		t.Errorf("expected %s, got %s", Threshold, proto.ID)
	}
}

func TestRegisterRejectsBuiltinShadow(t *testing.T) {
	registry := NewRegistry()
	custom := Protocol{
		ID:           Threshold,
		Title:        "Other",
		Words:        WordRange{Min: 100, Max: 200},
		MaxTokens:    1000,
		Sections:     []string{"One"},
		SystemPrompt: "prompt",
	}
	if err := registry.Register(custom); err == nil {
		t.Error("expected error when shadowing a built-in id")
	}
}

func TestRegisterCustomProtocol(t *testing.T) {
	registry := NewRegistry()
	custom := Protocol{
		ID:           "Midrash",
		Title:        "Midrash",
		Words:        WordRange{Min: 1000, Max: 2000},
		MaxTokens:    4000,
		Sections:     []string{"Question", "Story", "Return"},
		SystemPrompt: "You are a midrashic engine.",
	}
	if err := registry.Register(custom); err != nil {
		t.Fatalf("Register: %v", err)
	}
	proto, err := registry.Get("midrash")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if proto.Title != "Midrash" {
		t.Errorf("unexpected title %q", proto.Title)
	}
	if err := registry.Register(custom); err == nil {
		t.Error("expected error on duplicate registration")
	}
}
