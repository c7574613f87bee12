package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitLectioDirCreatesStructure(t *testing.T) {
	projectDir := t.TempDir()
	if err := InitLectioDir(projectDir); err != nil {
		t.Fatalf("InitLectioDir returned error: %v", err)
	}
	for _, rel := range []string{
		"outputs",
		filepath.Join("outputs", ".metadata"),
		"logs",
		"protocols",
	} {
		path := filepath.Join(projectDir, LectioDir, rel)
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("expected %s to exist: %v", rel, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %s to be a directory", rel)
		}
	}
	if _, err := os.Stat(filepath.Join(projectDir, LectioDir, "config.yaml")); err != nil {
		t.Fatalf("expected default config.yaml: %v", err)
	}
}

func TestLoadSettingsDefaultsWhenMissing(t *testing.T) {
	projectDir := t.TempDir()
	lectioDir := filepath.Join(projectDir, LectioDir)
	if err := os.MkdirAll(lectioDir, 0o755); err != nil {
		t.Fatal(err)
	}
	c := &Config{ProjectDir: projectDir, LectioProjectDir: lectioDir, Settings: defaultSettings()}
	if err := c.loadSettings(); err != nil {
		t.Fatalf("loadSettings returned error: %v", err)
	}
	if c.DefaultEngine() != defaultEngine {
		t.Fatalf("expected default engine %q, got %q", defaultEngine, c.DefaultEngine())
	}
	if c.DefaultTranslation() != defaultTranslation {
		t.Fatalf("expected default translation %q, got %q", defaultTranslation, c.DefaultTranslation())
	}
}

func TestLoadSettingsParsesYaml(t *testing.T) {
	projectDir := t.TempDir()
	lectioDir := filepath.Join(projectDir, LectioDir)
	if err := os.MkdirAll(lectioDir, 0o755); err != nil {
		t.Fatal(err)
	}
	settingsYAML := strings.TrimSpace(`
version: 1
defaults:
  engine: Palimpsest
  translation: NIV
backend:
  model: gpt-4o-mini
  timeout_seconds: 60
preferences:
  length: long
  tone_level: 7
output_directory: studies
`)
	if err := os.WriteFile(filepath.Join(lectioDir, "config.yaml"), []byte(settingsYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	c := &Config{ProjectDir: projectDir, LectioProjectDir: lectioDir, Settings: defaultSettings()}
	if err := c.loadSettings(); err != nil {
		t.Fatalf("loadSettings returned error: %v", err)
	}
	if c.DefaultEngine() != "palimpsest" {
		t.Fatalf("expected engine normalized to lowercase, got %q", c.DefaultEngine())
	}
	if c.Settings.Backend.Model != "gpt-4o-mini" {
		t.Fatalf("wrong model: %s", c.Settings.Backend.Model)
	}
	if got := c.OutputDir(); got != filepath.Join(projectDir, "studies") {
		t.Fatalf("expected relative output dir resolved against project, got %s", got)
	}
	if c.Settings.Preferences.ToneLevel != 7 {
		t.Fatalf("wrong tone level: %d", c.Settings.Preferences.ToneLevel)
	}
}

func TestLoadSettingsValidation(t *testing.T) {
	projectDir := t.TempDir()
	lectioDir := filepath.Join(projectDir, LectioDir)
	if err := os.MkdirAll(lectioDir, 0o755); err != nil {
		t.Fatal(err)
	}
	bad := "version: 1\npreferences:\n  length: epic\n"
	if err := os.WriteFile(filepath.Join(lectioDir, "config.yaml"), []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}
	c := &Config{ProjectDir: projectDir, LectioProjectDir: lectioDir, Settings: defaultSettings()}
	if err := c.loadSettings(); err == nil {
		t.Fatal("expected validation error for bad preferences.length")
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	projectDir := t.TempDir()
	t.Setenv("LECTIO_API_KEY", "sk-test")
	t.Setenv("DEFAULT_TRANSLATION", "MSG")
	t.Setenv("LECTIO_MODEL", "gpt-4o-mini")
	cfg, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if !cfg.HasAPIKey() || cfg.APIKey != "sk-test" {
		t.Fatalf("expected API key from environment, got %q", cfg.APIKey)
	}
	if cfg.DefaultTranslation() != "MSG" {
		t.Fatalf("expected translation override, got %q", cfg.DefaultTranslation())
	}
	if cfg.Settings.Backend.Model != "gpt-4o-mini" {
		t.Fatalf("expected model override, got %q", cfg.Settings.Backend.Model)
	}
}
