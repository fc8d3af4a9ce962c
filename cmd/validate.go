package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dsvalidate-cli/internal/ai"
	cfgpkg "github.com/KaramelBytes/dsvalidate-cli/internal/config"
	"github.com/KaramelBytes/dsvalidate-cli/internal/dataset"
	"github.com/KaramelBytes/dsvalidate-cli/internal/loader"
	"github.com/KaramelBytes/dsvalidate-cli/internal/utils"
	"github.com/KaramelBytes/dsvalidate-cli/internal/validation"
)

// skippedNarrative is the ai_analysis text when --skip-ai is set.
const skippedNarrative = "AI analysis skipped (--skip-ai)"

var (
	valTarget     string
	valTargetType string
	valOutput     string
	valFormat     string
	valSheet      string
	valDelimiter  string
	valSkipAI     bool
	valParallel   bool
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a tabular dataset against a target column",
	Long: `Validate loads a .csv, .tsv, .xlsx or .html file and runs the fixed checks:

  - schema: string columns mixing numeric and non-numeric values
  - value: nulls, placeholder strings and IQR outliers
  - leakage: exact duplicate rows

The findings are then summarized by the configured model.

Example:
  dsvalidate validate data.csv --target churn --target-type categorical
  dsvalidate validate sales.xlsx --target revenue --target-type numeric --format markdown --skip-ai`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	f := validateCmd.Flags()
	f.StringVarP(&valTarget, "target", "t", "", "target column name (required)")
	f.StringVar(&valTargetType, "target-type", "", "target type: categorical|numeric (required)")
	f.StringVarP(&valOutput, "output", "o", "", "write the report to this file instead of stdout")
	f.StringVar(&valFormat, "format", "json", "report format: json|markdown")
	f.StringVar(&valSheet, "sheet", "", "worksheet name for .xlsx files (default first sheet)")
	f.StringVar(&valDelimiter, "delimiter", "", "delimiter for delimited text: ',', ';', '|' or 'tab' (default by extension/sniffing)")
	f.BoolVar(&valSkipAI, "skip-ai", false, "skip the model narrative")
	f.BoolVar(&valParallel, "parallel", false, "run the checks concurrently (overrides config parallel_checks)")
	_ = validateCmd.MarkFlagRequired("target")
	_ = validateCmd.MarkFlagRequired("target-type")
}

func runValidate(cmd *cobra.Command, args []string) error {
	conf, err := requireConfig()
	if err != nil {
		return err
	}
	kind, err := dataset.ParseTargetKind(valTargetType)
	if err != nil {
		return err
	}
	format := strings.ToLower(strings.TrimSpace(valFormat))
	if format != "json" && format != "markdown" && format != "md" {
		return fmt.Errorf("invalid --format %q (use json or markdown)", valFormat)
	}
	delim, err := parseDelimiter(valDelimiter)
	if err != nil {
		return err
	}

	path := args[0]
	ds, err := loader.LoadFile(path, loader.Options{Sheet: valSheet, Delimiter: delim})
	if err != nil {
		return err
	}
	status := cmd.ErrOrStderr()
	fmt.Fprintf(status, "%s Loaded %s (%d rows × %d columns)\n", color.Green.Sprint("✓"), filepath.Base(path), ds.Rows(), ds.NumColumns())

	var summarizer validation.Summarizer
	if valSkipAI {
		summarizer = validation.SummarizerFunc(func(context.Context, string) (string, error) {
			return skippedNarrative, nil
		})
	} else {
		summarizer, err = newNarrator(conf)
		if err != nil {
			return err
		}
	}

	p := validation.New(summarizer, pipelineOptions(conf, valParallel), log)
	report, err := p.Run(cmd.Context(), ds, dataset.TargetSpec{Column: valTarget, Kind: kind})
	if err != nil {
		return friendlyError(err, conf)
	}
	printFindings(status, report)

	var out []byte
	if format == "json" {
		if out, err = utils.PrettyJSON(report); err != nil {
			return err
		}
		out = append(out, '\n')
	} else {
		out = []byte(report.Markdown())
	}
	if valOutput == "" {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	if err := utils.SafeWriteFile(valOutput, out); err != nil {
		return err
	}
	fmt.Fprintf(status, "%s Report written to %s\n", color.Green.Sprint("✓"), valOutput)
	return nil
}

func pipelineOptions(conf *cfgpkg.Global, parallel bool) validation.Options {
	return validation.Options{
		NarrativeTimeout: time.Duration(conf.NarrativeTimeoutSec) * time.Second,
		Fallback:         conf.NarrativeFallback,
		Parallel:         parallel || conf.ParallelChecks,
	}
}

// newNarrator builds the configured LLM runtime and wraps it as a Summarizer.
func newNarrator(conf *cfgpkg.Global) (validation.Summarizer, error) {
	provider := strings.ToLower(strings.TrimSpace(conf.Provider))
	if provider == "" {
		provider = ai.ProviderOpenRouter
	}
	if provider == ai.ProviderOpenRouter && conf.APIKey == "" {
		return nil, errors.New("OPENROUTER_API_KEY is missing: set it, add api_key to the config, use provider ollama, or pass --skip-ai")
	}
	rt, err := ai.NewRuntime(provider, ai.RuntimeConfig{
		HTTPTimeout: time.Duration(conf.HTTPTimeoutSec) * time.Second,
		RetryMax:    conf.RetryMaxAttempts,
		BaseDelay:   time.Duration(conf.RetryBaseDelayMs) * time.Millisecond,
		MaxDelay:    time.Duration(conf.RetryMaxDelayMs) * time.Millisecond,
		APIKey:      conf.APIKey,
		Host:        conf.OllamaHost,
	})
	if err != nil {
		return nil, err
	}
	return ai.NewNarrator(rt, ai.NarratorConfig{
		Model:       conf.Model,
		MaxTokens:   conf.MaxTokens,
		Temperature: conf.Temperature,
		System:      validation.SystemPrompt,
	}, log.WithStage(validation.StageNarrative)), nil
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case "tab", `\t`, "\t":
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || r == '"' || r == '\n' || r == '\r' || r == utf8.RuneError {
		return 0, fmt.Errorf("invalid --delimiter %q (use a single character or 'tab')", s)
	}
	return r, nil
}

func printFindings(w io.Writer, r *validation.FinalReport) {
	res := r.ValidationResults
	warn := color.Yellow.Sprint("⚠")
	ok := color.Green.Sprint("✓")
	line := func(n int, what string) {
		if n == 0 {
			fmt.Fprintf(w, "%s No %s\n", ok, what)
			return
		}
		fmt.Fprintf(w, "%s %d %s\n", warn, n, what)
	}
	line(len(res.SchemaValidation.ColumnTypes), "mixed-type columns")
	line(len(res.ValueValidation.MissingValues), "columns with missing values")
	line(len(res.ValueValidation.Outliers), "columns with outliers")
	line(res.DuplicationLeakage.DuplicateRows.Count, "duplicate rows")
	for _, msg := range r.Warnings {
		fmt.Fprintf(w, "%s %s\n", warn, msg)
	}
}

// friendlyError adds actionable hints for the common LLM failure classes.
func friendlyError(err error, conf *cfgpkg.Global) error {
	var (
		authErr *ai.AuthError
		rlErr   *ai.RateLimitError
		nfErr   *ai.ModelNotFoundError
		brErr   *ai.BadRequestError
		qErr    *ai.QuotaExceededError
		sErr    *ai.ServerError
		unreach *ai.UnreachableError
	)
	ollama := strings.EqualFold(conf.Provider, ai.ProviderOllama)
	switch {
	case errors.As(err, &unreach):
		if ollama {
			return fmt.Errorf("Ollama not reachable at %s. Ensure Ollama is running and the host is correct (DSVALIDATE_OLLAMA_HOST or config 'ollama_host'): %w", unreach.Host, err)
		}
		return fmt.Errorf("endpoint unreachable. Check your network and provider settings: %w", err)
	case errors.As(err, &authErr):
		return fmt.Errorf("authentication failed: set OPENROUTER_API_KEY or add api_key in config (~/.dsvalidate/config.yaml): %w", err)
	case errors.As(err, &rlErr):
		if rlErr.RetryAfter > 0 {
			return fmt.Errorf("rate limited, try again in ~%ds: %w", int(rlErr.RetryAfter.Seconds()), err)
		}
		return fmt.Errorf("rate limited by provider, please retry: %w", err)
	case errors.As(err, &nfErr):
		if ollama {
			return fmt.Errorf("local model not available (%s). Install it with 'ollama pull %s' or choose another model: %w", conf.Model, conf.Model, err)
		}
		return fmt.Errorf("model not found (%s). Verify the model name: %w", conf.Model, err)
	case errors.As(err, &brErr):
		return fmt.Errorf("request invalid. Try reducing max_tokens or choose another model: %w", err)
	case errors.As(err, &qErr):
		return fmt.Errorf("quota/billing issue. Check your provider account: %w", err)
	case errors.As(err, &sErr):
		return fmt.Errorf("provider appears unavailable (server error). Retry later or set narrative_fallback: %w", err)
	}
	return err
}
