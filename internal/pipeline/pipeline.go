// Package pipeline runs the full study flow: resolve scripture, render the
// protocol prompt, call the backend, validate the result, persist it.
package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"lectio/internal/backend"
	"lectio/internal/journal"
	"lectio/internal/protocol"
	"lectio/internal/reference"
	"lectio/internal/study"
)

// Stage names a pipeline phase for error reporting.
type Stage string

const (
	StageResolve  Stage = "resolve"
	StageRender   Stage = "render"
	StageGenerate Stage = "generate"
	StageValidate Stage = "validate"
	StagePersist  Stage = "persist"
)

// StageError wraps a failure with the stage it happened in, so the CLI can
// tell the user exactly where a run died.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline: %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Pipeline owns the collaborators for one study run.
type Pipeline struct {
	resolver  *reference.Resolver
	registry  *protocol.Registry
	generator backend.Generator
	store     *study.Store
	journal   *journal.Journal
	rng       *rand.Rand
}

// Option customizes a Pipeline during construction.
type Option func(*Pipeline)

// WithJournal attaches a run journal. Without one, runs are silent.
func WithJournal(j *journal.Journal) Option {
	return func(p *Pipeline) {
		p.journal = j
	}
}

// WithVectorSource overrides the randomness used for collision vector
// draws. Tests pass a seeded source.
func WithVectorSource(rng *rand.Rand) Option {
	return func(p *Pipeline) {
		if rng != nil {
			p.rng = rng
		}
	}
}

// New wires a pipeline.
func New(resolver *reference.Resolver, registry *protocol.Registry, generator backend.Generator, store *study.Store, opts ...Option) *Pipeline {
	p := &Pipeline{
		resolver:  resolver,
		registry:  registry,
		generator: generator,
		store:     store,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RunRequest describes one study run.
type RunRequest struct {
	Protocol    string
	Query       reference.Query
	Preferences *protocol.Preferences
}

// RunResult is a completed run: the persisted artifact plus the validation
// report and, for collision runs, the drawn vectors.
type RunResult struct {
	Artifact study.Artifact
	Report   study.Report
	Vectors  *protocol.VectorSet
	Duration time.Duration
}

// Run executes the full flow. Every failure names its stage. A length flag
// does not fail the run; the study persists with the flag in its metadata.
func (p *Pipeline) Run(ctx context.Context, req RunRequest) (RunResult, error) {
	runID := uuid.New()
	start := time.Now()

	proto, err := p.registry.Get(req.Protocol)
	if err != nil {
		return p.fail(runID, StageRender, err)
	}

	p.info(runID, StageResolve, "resolving %s query", req.Query.Kind)
	refs, err := p.resolver.Resolve(ctx, req.Query)
	if err != nil {
		return p.fail(runID, StageResolve, err)
	}
	citation := reference.CombinedCitation(refs)
	p.info(runID, StageResolve, "resolved %s", citation)

	var vectors *protocol.VectorSet
	if proto.RequiresVectors {
		drawn := protocol.DrawVectors(p.rng)
		vectors = &drawn
	}
	prompt, err := protocol.Render(proto, refs, protocol.RenderOptions{
		Preferences: req.Preferences,
		Vectors:     vectors,
	})
	if err != nil {
		return p.fail(runID, StageRender, err)
	}

	p.info(runID, StageGenerate, "generating %s study for %s", proto.ID, citation)
	result, err := p.generator.Generate(ctx, backend.Request{
		ID:        runID,
		Protocol:  proto.ID,
		Citation:  citation,
		System:    prompt.System,
		User:      prompt.User,
		MaxTokens: prompt.MaxTokens,
	})
	if err != nil {
		return p.fail(runID, StageGenerate, err)
	}
	p.info(runID, StageGenerate, "generated %d words in %s", result.WordCount, result.Duration.Round(time.Millisecond))

	// Validate against the budget the prompt was rendered with, which
	// reflects any length preference.
	checkProto := proto
	checkProto.Words = prompt.Words
	report, err := study.Validate(result.Content, checkProto)
	if err != nil {
		return p.fail(runID, StageValidate, err)
	}
	if report.LengthOutOfRange() {
		p.warn(runID, StageValidate, "word count %d outside %d-%d budget (%s)",
			report.WordCount, prompt.Words.Min, prompt.Words.Max, report.LengthFlag)
	}

	artifact, err := p.store.Save(study.SaveRequest{
		Engine:      proto.ID,
		Reference:   citation,
		Translation: refs[0].Translation,
		Source:      refs[0].Source,
		Body:        result.Content,
		WordCount:   report.WordCount,
		Model:       result.Model,
		LengthFlag:  report.LengthFlag,
		Constraints: study.Constraints{
			MinWords:  prompt.Words.Min,
			MaxWords:  prompt.Words.Max,
			MaxTokens: prompt.MaxTokens,
		},
	})
	if err != nil {
		return p.fail(runID, StagePersist, err)
	}
	p.info(runID, StagePersist, "saved %s", artifact.Metadata.Slug)

	return RunResult{
		Artifact: artifact,
		Report:   report,
		Vectors:  vectors,
		Duration: time.Since(start),
	}, nil
}

func (p *Pipeline) fail(runID uuid.UUID, stage Stage, err error) (RunResult, error) {
	stageErr := &StageError{Stage: stage, Err: err}
	if p.journal != nil {
		p.journal.Stagef(journal.LevelError, string(stage), "run %s: %v", shortID(runID), stageErr.Err)
	}
	return RunResult{}, stageErr
}

func (p *Pipeline) info(runID uuid.UUID, stage Stage, format string, args ...any) {
	if p.journal != nil {
		p.journal.Stagef(journal.LevelInfo, string(stage), "run %s: %s", shortID(runID), fmt.Sprintf(format, args...))
	}
}

func (p *Pipeline) warn(runID uuid.UUID, stage Stage, format string, args ...any) {
	if p.journal != nil {
		p.journal.Stagef(journal.LevelWarn, string(stage), "run %s: %s", shortID(runID), fmt.Sprintf(format, args...))
	}
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
