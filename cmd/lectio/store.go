// cmd/lectio/store.go
//
// Commands that read the study store: list, show, browse, and config.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lectio/internal/tui"
)

var listLimit int

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved studies, newest first",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var showCmd = &cobra.Command{
	Use:   "show SLUG|PATH",
	Short: "Render a saved study to the terminal",
	Long: `Renders the markdown body of a saved study. Accepts either the slug
shown by 'lectio list' (e.g. threshold_john-3-16-21_20250603) or the path of
the study's markdown file.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse saved studies interactively",
	Args:  cobra.NoArgs,
	RunE:  runBrowse,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func runList(cmd *cobra.Command, args []string) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	studies, err := env.store.List()
	if err != nil {
		return err
	}
	if len(studies) == 0 {
		fmt.Println(dimStyle.Render("No studies yet. Generate one with 'lectio run ENGINE REFERENCE'."))
		return nil
	}
	if listLimit > 0 && len(studies) > listLimit {
		studies = studies[:listLimit]
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("Saved studies (%d)", len(studies))))
	for _, meta := range studies {
		line := fmt.Sprintf("  %s  %s · %s · %d words",
			meta.Timestamp.Format("2006-01-02"), meta.Engine, meta.Reference, meta.WordCount)
		if meta.LengthFlag != "" {
			line += "  " + warnStyle.Render("["+meta.LengthFlag+"]")
		}
		fmt.Println(line)
		fmt.Println(dimStyle.Render("    " + meta.Slug))
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	artifact, err := env.store.Get(strings.TrimSpace(args[0]))
	if err != nil {
		return err
	}

	rendered, err := tui.RenderMarkdown(artifact.Body, 100)
	if err != nil {
		// Raw markdown beats no output.
		fmt.Println(artifact.Body)
		return nil
	}
	fmt.Println(rendered)
	return nil
}

func runBrowse(cmd *cobra.Command, args []string) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	return tui.Run(env.store)
}

func runConfig(cmd *cobra.Command, args []string) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	cfg := env.cfg
	keyStatus := errorStyle.Render("✗ not set")
	if cfg.HasAPIKey() {
		keyStatus = successStyle.Render("✓ set")
	}

	fmt.Println(headerStyle.Render("Current configuration"))
	fmt.Printf("  API key:             %s\n", keyStatus)
	fmt.Printf("  Default engine:      %s\n", cfg.DefaultEngine())
	fmt.Printf("  Default translation: %s\n", cfg.DefaultTranslation())
	fmt.Printf("  Model:               %s\n", cfg.Settings.Backend.Model)
	if cfg.Settings.Backend.BaseURL != "" {
		fmt.Printf("  Base URL:            %s\n", cfg.Settings.Backend.BaseURL)
	}
	fmt.Printf("  Output directory:    %s\n", cfg.OutputDir())
	fmt.Printf("  Settings file:       %s\n", cfg.SettingsPath())
	fmt.Printf("  Protocols:           %s\n", strings.Join(env.registry.IDs(), ", "))
	return nil
}
