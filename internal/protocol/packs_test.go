package protocol

import (
	"os"
	"path/filepath"
	"testing"
)

const packYAML = `id: Midrash
title: Midrash
tone: narrative-questioning
words:
  min_words: 1500
  max_words: 2500
max_tokens: 6000
sections:
  - Question
  - Story
  - Return
system_prompt: You are a midrashic engine. Answer questions with stories.
`

func TestLoadPackDirYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "midrash.yaml"), []byte(packYAML), 0o644); err != nil {
		t.Fatalf("write pack: %v", err)
	}

	packs, err := LoadPackDir(dir)
	if err != nil {
		t.Fatalf("LoadPackDir: %v", err)
	}
	if len(packs) != 1 {
		t.Fatalf("expected 1 pack, got %d", len(packs))
	}
	if packs[0].Protocol.ID != "midrash" {
		t.Errorf("expected normalized id midrash, got %q", packs[0].Protocol.ID)
	}
	if len(packs[0].Protocol.Sections) != 3 {
		t.Errorf("expected 3 sections, got %d", len(packs[0].Protocol.Sections))
	}
}

func TestLoadPackDirMissingDirectory(t *testing.T) {
	packs, err := LoadPackDir(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("LoadPackDir: %v", err)
	}
	if packs != nil {
		t.Errorf("expected no packs, got %d", len(packs))
	}
}

func TestLoadPackDirRejectsInvalidPack(t *testing.T) {
	dir := t.TempDir()
	bad := "id: broken\ntitle: Broken\n" // no sections, prompt, or words
	if err := os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte(bad), 0o644); err != nil {
		t.Fatalf("write pack: %v", err)
	}
	if _, err := LoadPackDir(dir); err == nil {
		t.Error("expected error for invalid pack definition")
	}
}

func TestLoadGoPack(t *testing.T) {
	dir := t.TempDir()
	source := `package main

func ProtocolDefinitions() ([]map[string]any, error) {
	return []map[string]any{{
		"id":    "lectio-divina",
		"title": "Lectio Divina",
		"words": map[string]any{"min_words": 800, "max_words": 1200},
		"max_tokens": 3000,
		"sections": []string{"Lectio", "Meditatio", "Oratio", "Contemplatio"},
		"system_prompt": "You are a lectio divina guide.",
	}}, nil
}
`
	if err := os.WriteFile(filepath.Join(dir, "lectio_divina.go"), []byte(source), 0o644); err != nil {
		t.Fatalf("write pack: %v", err)
	}

	packs, err := LoadPackDir(dir)
	if err != nil {
		t.Fatalf("LoadPackDir: %v", err)
	}
	if len(packs) != 1 {
		t.Fatalf("expected 1 pack, got %d", len(packs))
	}
	if packs[0].Protocol.ID != "lectio-divina" {
		t.Errorf("unexpected id %q", packs[0].Protocol.ID)
	}
	if packs[0].Protocol.Words.Max != 1200 {
		t.Errorf("unexpected max words %d", packs[0].Protocol.Words.Max)
	}
}

func TestInstallPacksRejectsBuiltinShadow(t *testing.T) {
	dir := t.TempDir()
	shadow := `id: threshold
title: Shadow
words:
  min_words: 100
  max_words: 200
max_tokens: 1000
sections:
  - Only
system_prompt: shadowing attempt
`
	if err := os.WriteFile(filepath.Join(dir, "shadow.yaml"), []byte(shadow), 0o644); err != nil {
		t.Fatalf("write pack: %v", err)
	}
	if _, err := InstallPacks(NewRegistry(), dir); err == nil {
		t.Error("expected error when a pack shadows a built-in")
	}
}
