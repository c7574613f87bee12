// cmd/lectio/main.go
//
// Entry point for the lectio CLI. Every command initializes the .lectio
// directory for the current project, loads configuration, and wires the
// reference resolver, protocol registry, backend, and study store together.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"lectio/internal/backend"
	"lectio/internal/config"
	"lectio/internal/journal"
	"lectio/internal/logging"
	"lectio/internal/pipeline"
	"lectio/internal/protocol"
	"lectio/internal/reference"
	"lectio/internal/study"
)

var (
	// Global flags
	projectDir  string
	translation string

	// Per-run preference flags
	prefLength     string
	prefTone       int
	prefComplexity string
	prefFocus      string
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

var rootCmd = &cobra.Command{
	Use:   "lectio",
	Short: "Lectionary engines for structured scripture study",
	Long: `lectio resolves scripture references, renders one of three
interpretation protocols, and generates a complete study through an
OpenAI-compatible backend.

Engines:
  threshold   Four progressive thresholds of engagement
  palimpsest  Five hermeneutical layers (PaRDeS framework)
  collision   Five-step collision with randomized vectors`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&projectDir, "project", "", "project directory (defaults to the working directory)")

	for _, cmd := range []*cobra.Command{runCmd, moravianCmd, rclCmd, pasteCmd} {
		cmd.Flags().StringVar(&prefLength, "length", "", "study length: short, medium, or long")
		cmd.Flags().IntVar(&prefTone, "tone", -1, "tone level 0 (academic) through 8 (devotional)")
		cmd.Flags().StringVar(&prefComplexity, "complexity", "", "language complexity: accessible, standard, or advanced")
		cmd.Flags().StringVar(&prefFocus, "focus", "", "themes to emphasize, free text")
	}
	for _, cmd := range []*cobra.Command{runCmd, moravianCmd, rclCmd} {
		cmd.Flags().StringVarP(&translation, "translation", "t", "", "Bible translation (NRSVue, NIV, CEB, NLT, MSG)")
	}
	rclCmd.Flags().StringVarP(&rclReading, "reading", "r", "gospel", "lectionary reading: ot, psalm, epistle, or gospel")
	pasteCmd.Flags().StringVarP(&pasteCitation, "citation", "c", "", "citation for the pasted text (prompted for when omitted)")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (defaults to configuration)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (defaults to configuration)")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "show at most this many studies (0 shows all)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(moravianCmd)
	rootCmd.AddCommand(rclCmd)
	rootCmd.AddCommand(pasteCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printRunError(err)
		os.Exit(1)
	}
}

// appEnv bundles everything a command needs after wiring.
type appEnv struct {
	cfg      *config.Config
	logger   *logging.Logger
	journal  *journal.Journal
	registry *protocol.Registry
	resolver *reference.Resolver
	store    *study.Store
}

// newAppEnv initializes the .lectio directory and wires the non-backend
// components. Commands that only read the store never touch the API key.
func newAppEnv() (*appEnv, error) {
	dir := projectDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("lectio: working directory: %w", err)
		}
		dir = cwd
	}

	if err := config.InitLectioDir(dir); err != nil {
		return nil, fmt.Errorf("lectio: init project directory: %w", err)
	}

	cfg, err := config.NewConfig(dir)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(dir)
	if err != nil {
		return nil, err
	}

	jnl, err := journal.New(cfg.JournalPath())
	if err != nil {
		logger.Close()
		return nil, err
	}

	registry := protocol.NewRegistry()
	packs, err := protocol.InstallPacks(registry, cfg.ProtocolPackDir())
	if err != nil {
		logger.Close()
		return nil, err
	}
	for _, pack := range packs {
		logger.Printf("loaded protocol pack %s (%s)", pack.Protocol.ID, pack.Path)
	}

	source := reference.NewGatewaySource(cfg.DefaultTranslation())
	resolver, err := reference.NewResolver(source, cfg.DefaultTranslation())
	if err != nil {
		logger.Close()
		return nil, err
	}

	return &appEnv{
		cfg:      cfg,
		logger:   logger,
		journal:  jnl,
		registry: registry,
		resolver: resolver,
		store:    study.NewStore(cfg.OutputDir()),
	}, nil
}

func (env *appEnv) Close() {
	if env.logger != nil {
		env.logger.Close()
	}
}

// newPipeline wires the generation backend on top of the environment. It
// fails fast when no API key is available rather than failing mid-run.
func (env *appEnv) newPipeline() (*pipeline.Pipeline, error) {
	if !env.cfg.HasAPIKey() {
		return nil, fmt.Errorf("lectio: no API key found; set LECTIO_API_KEY or OPENAI_API_KEY in the environment or a .env file")
	}

	generator, err := backend.NewOpenAIGenerator(backend.Settings{
		APIKey:  env.cfg.APIKey,
		Model:   env.cfg.Settings.Backend.Model,
		BaseURL: env.cfg.Settings.Backend.BaseURL,
		Timeout: env.cfg.Settings.Backend.Timeout(),
	})
	if err != nil {
		return nil, err
	}

	return pipeline.New(env.resolver, env.registry, generator, env.store,
		pipeline.WithJournal(env.journal)), nil
}

// printRunError reports a failure, naming the pipeline stage when one is
// attached.
func printRunError(err error) {
	var stageErr *pipeline.StageError
	if errors.As(err, &stageErr) {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("✗ %s stage failed: %v", stageErr.Stage, stageErr.Err)))
		return
	}
	fmt.Fprintln(os.Stderr, errorStyle.Render("✗ "+err.Error()))
}
