package validation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/dsvalidate-cli/internal/dataset"
	"github.com/KaramelBytes/dsvalidate-cli/internal/logger"
)

// Stage names, used in logs and StageError.
const (
	StageSchema    = "schema"
	StageValue     = "value"
	StageLeakage   = "leakage"
	StageNarrative = "narrative"
)

// FallbackNarrative replaces the narrative when the summarizer fails and
// Options.Fallback is set.
const FallbackNarrative = "analysis unavailable"

// Summarizer turns the rendered validation context into prose.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

// SummarizerFunc adapts a plain function to Summarizer.
type SummarizerFunc func(ctx context.Context, prompt string) (string, error)

func (f SummarizerFunc) Summarize(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// StageError reports a check that could not complete.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// NarrativeError wraps a summarizer failure.
type NarrativeError struct {
	Err error
}

func (e *NarrativeError) Error() string { return "narrative generation failed: " + e.Err.Error() }
func (e *NarrativeError) Unwrap() error { return e.Err }

// Options tune a Pipeline. The zero value runs stages sequentially with no
// narrative deadline and no fallback.
type Options struct {
	// NarrativeTimeout bounds the summarizer call when > 0.
	NarrativeTimeout time.Duration
	// Fallback keeps the stage reports when the summarizer fails.
	Fallback bool
	// Parallel runs the three checks concurrently.
	Parallel bool
}

// Pipeline runs schema, value and leakage checks, then the summarizer.
type Pipeline struct {
	summarizer Summarizer
	opts       Options
	log        *logger.Logger
}

// New returns a Pipeline. A nil log discards output.
func New(s Summarizer, opts Options, log *logger.Logger) *Pipeline {
	if log == nil {
		log = logger.NewNop()
	}
	return &Pipeline{summarizer: s, opts: opts, log: log}
}

// Run validates ds against target. Target problems return *dataset.InputError
// before any stage runs.
func (p *Pipeline) Run(ctx context.Context, ds *dataset.Dataset, target dataset.TargetSpec) (*FinalReport, error) {
	if ds == nil {
		return nil, &dataset.InputError{Msg: "dataset is required"}
	}
	if err := ds.CheckTarget(target); err != nil {
		return nil, err
	}
	if p.summarizer == nil {
		return nil, errors.New("validation: summarizer is required")
	}

	var (
		schema  SchemaReport
		value   ValueReport
		leakage LeakageReport
	)
	stages := []struct {
		name string
		fn   func()
	}{
		{StageSchema, func() { schema = CheckSchema(ds, target) }},
		{StageValue, func() { value = CheckValues(ds, target) }},
		{StageLeakage, func() { leakage = CheckLeakage(ds, target) }},
	}

	if p.opts.Parallel {
		g, gctx := errgroup.WithContext(ctx)
		for _, st := range stages {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				return p.runStage(st.name, st.fn)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for _, st := range stages {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := p.runStage(st.name, st.fn); err != nil {
				return nil, err
			}
		}
	}
	p.log.Debugw("checks complete",
		"mixed_type_columns", len(schema.ColumnTypes),
		"missing_columns", len(value.MissingValues),
		"outlier_columns", len(value.Outliers),
		"duplicate_rows", leakage.DuplicateRows.Count)

	info := Info(ds, target)
	res := Results{SchemaValidation: schema, ValueValidation: value, DuplicationLeakage: leakage}
	narrative, warn, err := p.narrate(ctx, RenderContext(info, res))
	if err != nil {
		return nil, err
	}
	report := Assemble(info, schema, value, leakage, narrative)
	if warn != "" {
		report.Warnings = append(report.Warnings, warn)
	}
	return &report, nil
}

// runStage times fn and converts a panic into a StageError.
func (p *Pipeline) runStage(name string, fn func()) (err error) {
	log := p.log.WithStage(name)
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = &StageError{Stage: name, Err: fmt.Errorf("%v", r)}
			log.Errorw("stage panicked", "error", r)
			return
		}
		log.Debugw("stage done", "elapsed", time.Since(start))
	}()
	fn()
	return nil
}

func (p *Pipeline) narrate(ctx context.Context, prompt string) (string, string, error) {
	log := p.log.WithStage(StageNarrative)
	if p.opts.NarrativeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.NarrativeTimeout)
		defer cancel()
	}
	start := time.Now()
	text, err := p.summarizer.Summarize(ctx, prompt)
	if err == nil {
		log.Debugw("narrative done", "elapsed", time.Since(start), "chars", len(text))
		return text, "", nil
	}
	nerr := &NarrativeError{Err: err}
	if !p.opts.Fallback {
		log.Errorw("narrative failed", "error", err)
		return "", "", nerr
	}
	log.Warnw("narrative failed, using fallback", "error", err)
	return FallbackNarrative, nerr.Error(), nil
}
