package main

import (
	"testing"

	"lectio/internal/config"
)

// resetPrefFlags restores the preference flag globals after a test mutates
// them.
func resetPrefFlags(t *testing.T) {
	t.Helper()
	origLength, origTone := prefLength, prefTone
	origComplexity, origFocus := prefComplexity, prefFocus
	t.Cleanup(func() {
		prefLength, prefTone = origLength, origTone
		prefComplexity, prefFocus = origComplexity, origFocus
	})
	prefLength, prefTone, prefComplexity, prefFocus = "", -1, "", ""
}

func TestMergePreferencesNoneSet(t *testing.T) {
	resetPrefFlags(t)

	prefs, err := mergePreferences(config.Preferences{})
	if err != nil {
		t.Fatalf("mergePreferences: %v", err)
	}
	if prefs != nil {
		t.Errorf("expected nil preferences, got %+v", *prefs)
	}
}

func TestMergePreferencesToneZeroFlag(t *testing.T) {
	resetPrefFlags(t)
	prefTone = 0

	prefs, err := mergePreferences(config.Preferences{})
	if err != nil {
		t.Fatalf("mergePreferences: %v", err)
	}
	if prefs == nil {
		t.Fatal("tone 0 flag was dropped")
	}
	if prefs.ToneLevel != 0 {
		t.Errorf("got tone level %d, want 0", prefs.ToneLevel)
	}
}

func TestMergePreferencesFlagsOverrideConfig(t *testing.T) {
	resetPrefFlags(t)
	prefLength = "Long"
	prefTone = 7

	prefs, err := mergePreferences(config.Preferences{
		Length:    "short",
		ToneLevel: 2,
	})
	if err != nil {
		t.Fatalf("mergePreferences: %v", err)
	}
	if prefs == nil {
		t.Fatal("expected preferences")
	}
	if prefs.Length != "long" || prefs.ToneLevel != 7 {
		t.Errorf("flags did not win: %+v", *prefs)
	}
}

func TestMergePreferencesInvalidLength(t *testing.T) {
	resetPrefFlags(t)
	prefLength = "epic"

	if _, err := mergePreferences(config.Preferences{}); err == nil {
		t.Error("expected validation error for unknown length")
	}
}

func TestCitationHint(t *testing.T) {
	if hint := citationHint("John 3:16-21"); hint != "" {
		t.Errorf("unexpected hint for valid citation: %q", hint)
	}
	if hint := citationHint("not a reference at all"); hint == "" {
		t.Error("expected a hint for a malformed citation")
	}
}
