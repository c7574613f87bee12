package protocol

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"lectio/internal/reference"
)

func testRefs() []reference.ScriptureReference {
	return []reference.ScriptureReference{{
		Citation:    "John 3:16",
		Text:        "For God so loved the world",
		Translation: "NRSVue",
		Source:      "fetched",
	}}
}

func TestRenderIsDeterministic(t *testing.T) {
	registry := NewRegistry()
	proto, err := registry.Get(Threshold)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	opts := RenderOptions{Preferences: &Preferences{Length: LengthShort, ToneLevel: 7}}

	first, err := Render(proto, testRefs(), opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	second, err := Render(proto, testRefs(), opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if first != second {
		t.Error("identical inputs must produce identical prompts")
	}
}

func TestRenderInjectsPreferences(t *testing.T) {
	registry := NewRegistry()
	proto, _ := registry.Get(Threshold)

	prompt, err := Render(proto, testRefs(), RenderOptions{
		Preferences: &Preferences{Length: LengthLong, ToneLevel: 1, FocusAreas: "exile and homecoming"},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(prompt.System, "READER CUSTOMIZATION") {
		t.Error("expected customization block in system prompt")
	}
	if !strings.Contains(prompt.System, "5000-7000 words") {
		t.Error("expected long length guidance")
	}
	if !strings.Contains(prompt.System, "exile and homecoming") {
		t.Error("expected focus areas in system prompt")
	}
	if prompt.Words != (WordRange{Min: 5000, Max: 7000}) {
		t.Errorf("expected long word range, got %d-%d", prompt.Words.Min, prompt.Words.Max)
	}
	if prompt.MaxTokens != 16000 {
		t.Errorf("expected 16000 max tokens, got %d", prompt.MaxTokens)
	}
}

func TestRenderWithoutPreferencesKeepsPromptUntouched(t *testing.T) {
	registry := NewRegistry()
	proto, _ := registry.Get(Palimpsest)

	prompt, err := Render(proto, testRefs(), RenderOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if prompt.System != proto.SystemPrompt {
		t.Error("system prompt must pass through untouched without preferences")
	}
	if prompt.Words != proto.Words {
		t.Error("word range must pass through untouched without preferences")
	}
}

func TestRenderMultipleTextsLabelled(t *testing.T) {
	registry := NewRegistry()
	proto, _ := registry.Get(Threshold)
	refs := []reference.ScriptureReference{
		{Citation: "Psalm 5", Text: "Give ear to my words, O Lord", Label: "Daily Reading"},
		{Citation: "Matthew 3", Text: "In those days John the Baptist appeared"},
	}

	prompt, err := Render(proto, refs, RenderOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(prompt.User, "Daily Reading (Psalm 5):") {
		t.Errorf("expected labelled heading in user prompt:\n%s", prompt.User)
	}
	if !strings.Contains(prompt.User, "Daily Reading: Psalm 5 | Matthew 3") {
		t.Errorf("expected combined citation in user prompt:\n%s", prompt.User)
	}
}

func TestRenderCollisionRequiresVectors(t *testing.T) {
	registry := NewRegistry()
	proto, _ := registry.Get(Collision)

	_, err := Render(proto, testRefs(), RenderOptions{})
	if !errors.Is(err, ErrTemplate) {
		t.Fatalf("expected ErrTemplate, got %v", err)
	}

	vectors := DrawVectors(rand.New(rand.NewSource(1)))
	prompt, err := Render(proto, testRefs(), RenderOptions{Vectors: &vectors})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, vector := range []string{vectors.Scientific, vectors.Cultural, vectors.Philosophical, vectors.Technological, vectors.Personal} {
		if !strings.Contains(prompt.User, vector) {
			t.Errorf("expected vector %q in user prompt", vector)
		}
	}
}

func TestRenderRejectsEmptyText(t *testing.T) {
	registry := NewRegistry()
	proto, _ := registry.Get(Threshold)

	_, err := Render(proto, []reference.ScriptureReference{{Citation: "John 3:16"}}, RenderOptions{})
	if !errors.Is(err, ErrTemplate) {
		t.Errorf("expected ErrTemplate, got %v", err)
	}
	_, err = Render(proto, nil, RenderOptions{})
	if !errors.Is(err, ErrTemplate) {
		t.Errorf("expected ErrTemplate for no references, got %v", err)
	}
}

func TestDrawVectorsDeterministicWithSeed(t *testing.T) {
	a := DrawVectors(rand.New(rand.NewSource(42)))
	b := DrawVectors(rand.New(rand.NewSource(42)))
	if a != b {
		t.Error("same seed must draw the same vectors")
	}
	for _, vector := range []string{a.Scientific, a.Cultural, a.Philosophical, a.Technological, a.Personal} {
		if vector == "" {
			t.Error("drawn vector is empty")
		}
	}
}
