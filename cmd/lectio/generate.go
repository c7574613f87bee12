// cmd/lectio/generate.go
//
// Study generation commands: run, moravian, rcl, and paste. All four feed
// the same pipeline; they differ only in how the scripture reference is
// resolved.

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"lectio/internal/config"
	"lectio/internal/pipeline"
	"lectio/internal/protocol"
	"lectio/internal/reference"
)

var (
	rclReading    string
	pasteCitation string
)

var runCmd = &cobra.Command{
	Use:   "run ENGINE REFERENCE",
	Short: "Generate a study for an explicit scripture citation",
	Long: `Fetches the cited passage, renders the engine's protocol, and
generates a complete study.

Examples:
  lectio run threshold "John 3:16-21"
  lectio run palimpsest "Genesis 1:1-5" --translation NIV
  lectio run collision "Mark 4:35-41" --length long`,
	Args: cobra.ExactArgs(2),
	RunE: runStudy,
}

var moravianCmd = &cobra.Command{
	Use:   "moravian ENGINE",
	Short: "Generate a study from today's Moravian Daily Texts",
	Long: `Fetches today's Moravian watchword and doctrinal text and runs the
engine against both readings.

Example:
  lectio moravian threshold`,
	Args: cobra.ExactArgs(1),
	RunE: runMoravian,
}

var rclCmd = &cobra.Command{
	Use:   "rcl ENGINE",
	Short: "Generate a study from today's Revised Common Lectionary",
	Long: `Fetches today's lectionary reading and runs the engine against it.
The gospel reading is used unless --reading selects another slot.

Examples:
  lectio rcl palimpsest
  lectio rcl threshold --reading psalm`,
	Args: cobra.ExactArgs(1),
	RunE: runRCL,
}

var pasteCmd = &cobra.Command{
	Use:   "paste ENGINE",
	Short: "Generate a study from manually pasted text",
	Long: `Reads the biblical text from standard input and runs the engine
against it. End the text with EOF (Ctrl+D).

Example:
  lectio paste collision --citation "John 3:16-21" < passage.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runPaste,
}

func runStudy(cmd *cobra.Command, args []string) error {
	if hint := citationHint(args[1]); hint != "" {
		fmt.Println(warnStyle.Render("⚠ " + hint))
		fmt.Println(dimStyle.Render("Expected format: 'Book Chapter:Verse' or 'Book Chapter:Verse-Verse', e.g. 'John 3:16-21'."))
	}
	return executeStudy(args[0], reference.Query{
		Kind:        reference.QueryPassage,
		Citation:    args[1],
		Translation: translation,
	})
}

// citationHint returns an advisory warning for citations that do not look
// like biblical references. The fetch still proceeds; the text source is
// the final arbiter.
func citationHint(citation string) string {
	if reference.ValidCitation(citation) {
		return ""
	}
	return fmt.Sprintf("Reference format may be invalid: %q", citation)
}

func runMoravian(cmd *cobra.Command, args []string) error {
	return executeStudy(args[0], reference.Query{
		Kind:        reference.QueryMoravian,
		Translation: translation,
	})
}

func runRCL(cmd *cobra.Command, args []string) error {
	return executeStudy(args[0], reference.Query{
		Kind:        reference.QueryRCL,
		RCLReading:  rclReading,
		Translation: translation,
	})
}

func runPaste(cmd *cobra.Command, args []string) error {
	citation := strings.TrimSpace(pasteCitation)
	reader := bufio.NewReader(os.Stdin)

	if citation == "" {
		fmt.Print("Biblical reference (e.g. 'John 3:16-21'): ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("lectio: read citation: %w", err)
		}
		citation = strings.TrimSpace(line)
	}

	fmt.Println(dimStyle.Render("Paste the biblical text below; end with Ctrl+D."))
	var text strings.Builder
	for {
		line, err := reader.ReadString('\n')
		text.WriteString(line)
		if err != nil {
			break
		}
	}

	return executeStudy(args[0], reference.Query{
		Kind:     reference.QueryPaste,
		Citation: citation,
		Text:     text.String(),
	})
}

// executeStudy wires the environment, runs the pipeline once, and prints a
// summary of the persisted study.
func executeStudy(engine string, query reference.Query) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	prefs, err := buildPreferences(env)
	if err != nil {
		return err
	}

	pipe, err := env.newPipeline()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(headerStyle.Render(fmt.Sprintf("═══ Lectionary Engines: %s ═══", strings.ToUpper(engine))))
	fmt.Println(dimStyle.Render("Generating study; this can take a minute..."))

	result, err := pipe.Run(ctx, pipeline.RunRequest{
		Protocol:    engine,
		Query:       query,
		Preferences: prefs,
	})
	if err != nil {
		return err
	}

	printRunSummary(result)
	return nil
}

// buildPreferences starts from the configured preferences and layers any
// per-run flags over them.
func buildPreferences(env *appEnv) (*protocol.Preferences, error) {
	return mergePreferences(env.cfg.Settings.Preferences)
}

// mergePreferences returns nil only when neither the configuration nor any
// flag asked for a customization. An explicit --tone 0 counts as set; the
// flag's unset sentinel is -1.
func mergePreferences(base config.Preferences) (*protocol.Preferences, error) {
	prefs := protocol.Preferences{
		Length:     base.Length,
		ToneLevel:  base.ToneLevel,
		Complexity: base.Complexity,
		FocusAreas: base.FocusAreas,
	}
	set := base != (config.Preferences{})

	if prefLength != "" {
		prefs.Length = strings.ToLower(strings.TrimSpace(prefLength))
		set = true
	}
	if prefTone >= 0 {
		prefs.ToneLevel = prefTone
		set = true
	}
	if prefComplexity != "" {
		prefs.Complexity = strings.ToLower(strings.TrimSpace(prefComplexity))
		set = true
	}
	if prefFocus != "" {
		prefs.FocusAreas = strings.TrimSpace(prefFocus)
		set = true
	}

	if err := prefs.Validate(); err != nil {
		return nil, err
	}
	if !set {
		return nil, nil
	}
	return &prefs, nil
}

func printRunSummary(result pipeline.RunResult) {
	meta := result.Artifact.Metadata

	fmt.Println()
	fmt.Println(successStyle.Render("✓ Study saved to " + meta.Filepath))
	fmt.Printf("  %s · %s · %d words · %s\n",
		meta.Engine, meta.Reference, meta.WordCount, result.Duration.Round(time.Second))

	if result.Vectors != nil {
		v := result.Vectors
		fmt.Println()
		fmt.Println(headerStyle.Render("Collision vectors:"))
		fmt.Printf("  Scientific: %s\n", v.Scientific)
		fmt.Printf("  Cultural: %s\n", v.Cultural)
		fmt.Printf("  Philosophical: %s\n", v.Philosophical)
		fmt.Printf("  Technological: %s\n", v.Technological)
		fmt.Printf("  Personal: %s\n", v.Personal)
	}

	if result.Report.LengthFlag != "" {
		fmt.Println()
		fmt.Println(warnStyle.Render(fmt.Sprintf(
			"⚠ Study is %s: %d words against a %d-%d target (flag recorded in metadata)",
			result.Report.LengthFlag, meta.WordCount,
			meta.Constraints.MinWords, meta.Constraints.MaxWords)))
	}
}
