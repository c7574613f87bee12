// internal/config/config.go
//
// This package handles configuration and the .lectio directory structure.
// Every project that uses lectio gets a .lectio/ folder created in its root.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// LectioDir is the name of the directory we create in each project
	LectioDir = ".lectio"

	defaultEngine      = "threshold"
	defaultTranslation = "NRSVue"
	defaultModel       = "gpt-4o"
	defaultTimeoutSecs = 180
)

const defaultSettingsYAML = `# lectio project configuration
version: 1

defaults:
  engine: threshold
  translation: NRSVue

backend:
  # Model served by an OpenAI-compatible endpoint. The API key is read from
  # OPENAI_API_KEY (or LECTIO_API_KEY), never stored in this file.
  model: gpt-4o
  timeout_seconds: 180

server:
  host: 127.0.0.1
  port: 7317
`

// Defaults captures the per-project default engine and translation.
type Defaults struct {
	Engine      string `yaml:"engine"`
	Translation string `yaml:"translation"`
}

// Backend configures the text-generation endpoint.
type Backend struct {
	Model          string `yaml:"model"`
	BaseURL        string `yaml:"base_url,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the per-request backend timeout.
func (b Backend) Timeout() time.Duration {
	secs := b.TimeoutSeconds
	if secs <= 0 {
		secs = defaultTimeoutSecs
	}
	return time.Duration(secs) * time.Second
}

// Server configures the optional HTTP service.
type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Preferences shape the rendered prompt without changing engine methodology.
type Preferences struct {
	Length     string `yaml:"length,omitempty"`      // short, medium, long
	ToneLevel  int    `yaml:"tone_level,omitempty"`  // 0 academic .. 8 devotional
	Complexity string `yaml:"complexity,omitempty"`  // accessible, standard, advanced
	FocusAreas string `yaml:"focus_areas,omitempty"` // free text
}

// Settings models .lectio/config.yaml.
type Settings struct {
	Version     int         `yaml:"version"`
	Defaults    Defaults    `yaml:"defaults"`
	Backend     Backend     `yaml:"backend"`
	Server      Server      `yaml:"server"`
	Preferences Preferences `yaml:"preferences,omitempty"`
	OutputDir   string      `yaml:"output_directory,omitempty"`
}

// Config holds the runtime configuration for lectio. It is loaded once at
// process start and read-only afterward.
type Config struct {
	// ProjectDir is the directory where the user ran `lectio` from
	ProjectDir string

	// LectioProjectDir is ProjectDir/.lectio
	LectioProjectDir string

	// APIKey is the generation backend credential, sourced from the
	// environment only.
	APIKey string

	Settings Settings
}

// InitLectioDir creates the .lectio directory structure in the given project
// directory.
//
// Structure created:
// .lectio/
// ├── outputs/           <- Generated studies (markdown)
// │   └── .metadata/     <- Parallel JSON metadata records
// ├── logs/              <- Pipeline logs and the run journal
// └── protocols/         <- Optional protocol packs (yaml or go definitions)
func InitLectioDir(projectDir string) error {
	lectioDir := filepath.Join(projectDir, LectioDir)

	dirs := []string{
		filepath.Join(lectioDir, "outputs"),
		filepath.Join(lectioDir, "outputs", ".metadata"),
		filepath.Join(lectioDir, "logs"),
		filepath.Join(lectioDir, "protocols"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	return ensureSettingsFile(filepath.Join(lectioDir, "config.yaml"))
}

// NewConfig creates a Config populated from .lectio/config.yaml plus the
// environment. A .env file in the project directory is honored when present.
func NewConfig(projectDir string) (*Config, error) {
	// Optional .env in the project root; absence is not an error.
	_ = godotenv.Load(filepath.Join(projectDir, ".env"))

	cfg := &Config{
		ProjectDir:       projectDir,
		LectioProjectDir: filepath.Join(projectDir, LectioDir),
		Settings:         defaultSettings(),
	}

	if err := cfg.loadSettings(); err != nil {
		return nil, err
	}
	cfg.applyEnvironment()

	return cfg, nil
}

// OutputDir returns the directory holding generated study documents.
func (c *Config) OutputDir() string {
	if c.Settings.OutputDir != "" {
		return resolvePath(c.ProjectDir, c.Settings.OutputDir)
	}
	return filepath.Join(c.LectioProjectDir, "outputs")
}

// MetadataDir returns the directory holding parallel metadata records.
func (c *Config) MetadataDir() string {
	return filepath.Join(c.OutputDir(), ".metadata")
}

// LogsDir returns the path to the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.LectioProjectDir, "logs")
}

// JournalPath returns the run journal location.
func (c *Config) JournalPath() string {
	return filepath.Join(c.LogsDir(), "journal.log")
}

// ProtocolPackDir returns the directory scanned for protocol packs.
func (c *Config) ProtocolPackDir() string {
	return filepath.Join(c.LectioProjectDir, "protocols")
}

// SettingsPath returns the on-disk location for the settings file.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.LectioProjectDir, "config.yaml")
}

// DefaultEngine returns the configured default engine identifier.
func (c *Config) DefaultEngine() string {
	return c.Settings.Defaults.Engine
}

// DefaultTranslation returns the configured default Bible translation.
func (c *Config) DefaultTranslation() string {
	return c.Settings.Defaults.Translation
}

// HasAPIKey reports whether a backend credential is available.
func (c *Config) HasAPIKey() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

func (c *Config) loadSettings() error {
	path := c.SettingsPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed Settings
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Settings = parsed
	return nil
}

// applyEnvironment layers environment variables over the file settings.
// Environment always wins so deployments can override per-project files.
func (c *Config) applyEnvironment() {
	if key := firstEnv("LECTIO_API_KEY", "OPENAI_API_KEY"); key != "" {
		c.APIKey = key
	}
	if v := os.Getenv("LECTIO_MODEL"); v != "" {
		c.Settings.Backend.Model = strings.TrimSpace(v)
	}
	if v := os.Getenv("LECTIO_BASE_URL"); v != "" {
		c.Settings.Backend.BaseURL = strings.TrimSpace(v)
	}
	if v := os.Getenv("DEFAULT_TRANSLATION"); v != "" {
		c.Settings.Defaults.Translation = strings.TrimSpace(v)
	}
	if v := os.Getenv("DEFAULT_ENGINE"); v != "" {
		c.Settings.Defaults.Engine = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("OUTPUT_DIRECTORY"); v != "" {
		c.Settings.OutputDir = strings.TrimSpace(v)
	}
}

func defaultSettings() Settings {
	return Settings{
		Version: 1,
		Defaults: Defaults{
			Engine:      defaultEngine,
			Translation: defaultTranslation,
		},
		Backend: Backend{
			Model:          defaultModel,
			TimeoutSeconds: defaultTimeoutSecs,
		},
		Server: Server{
			Host: "127.0.0.1",
			Port: 7317,
		},
	}
}

func (s *Settings) applyDefaults() {
	if s.Version == 0 {
		s.Version = 1
	}
	if s.Backend.Model == "" {
		s.Backend.Model = defaultModel
	}
	if s.Backend.TimeoutSeconds == 0 {
		s.Backend.TimeoutSeconds = defaultTimeoutSecs
	}
	if s.Server.Host == "" {
		s.Server.Host = "127.0.0.1"
	}
	if s.Server.Port == 0 {
		s.Server.Port = 7317
	}
}

func (s *Settings) normalize() {
	s.Defaults.Engine = strings.ToLower(strings.TrimSpace(s.Defaults.Engine))
	if s.Defaults.Engine == "" {
		s.Defaults.Engine = defaultEngine
	}
	s.Defaults.Translation = strings.TrimSpace(s.Defaults.Translation)
	if s.Defaults.Translation == "" {
		s.Defaults.Translation = defaultTranslation
	}
	s.Backend.Model = strings.TrimSpace(s.Backend.Model)
	s.Backend.BaseURL = strings.TrimSpace(s.Backend.BaseURL)
	s.OutputDir = strings.TrimSpace(s.OutputDir)
	s.Preferences.Length = strings.ToLower(strings.TrimSpace(s.Preferences.Length))
	s.Preferences.Complexity = strings.ToLower(strings.TrimSpace(s.Preferences.Complexity))
	s.Preferences.FocusAreas = strings.TrimSpace(s.Preferences.FocusAreas)
}

func (s *Settings) validate() error {
	if s.Version < 1 {
		return fmt.Errorf("version must be >= 1")
	}
	if s.Backend.TimeoutSeconds < 0 {
		return fmt.Errorf("backend.timeout_seconds must be >= 0")
	}
	if s.Server.Port < 0 || s.Server.Port > 65535 {
		return fmt.Errorf("server.port must be a valid port number")
	}
	switch s.Preferences.Length {
	case "", "short", "medium", "long":
	default:
		return fmt.Errorf("preferences.length must be short, medium, or long")
	}
	if s.Preferences.ToneLevel < 0 || s.Preferences.ToneLevel > 8 {
		return fmt.Errorf("preferences.tone_level must be between 0 and 8")
	}
	switch s.Preferences.Complexity {
	case "", "accessible", "standard", "advanced":
	default:
		return fmt.Errorf("preferences.complexity must be accessible, standard, or advanced")
	}
	return nil
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return ""
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureSettingsFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultSettingsYAML), 0o644)
}
