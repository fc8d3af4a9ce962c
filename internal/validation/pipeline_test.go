package validation

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ds "github.com/KaramelBytes/dsvalidate-cli/internal/dataset"
)

func sampleDataset(t *testing.T) *ds.Dataset {
	t.Helper()
	amount := append(clustered(), 10000, 10)
	mixed := make([]ds.Value, len(amount))
	label := make([]ds.Value, len(amount))
	for i := range amount {
		switch {
		case i%10 == 0:
			mixed[i] = ds.String("abc")
		case i%7 == 0:
			mixed[i] = ds.String("unknown")
		default:
			mixed[i] = ds.String("42")
		}
		label[i] = ds.String("yes")
	}
	d, err := ds.New(
		ds.Column{Name: "amount", Values: ds.Numbers(amount...)},
		ds.Column{Name: "code", Values: mixed},
		ds.Column{Name: "label", Values: label},
	)
	require.NoError(t, err)
	return d
}

func stub(text string) (Summarizer, *int32) {
	var calls int32
	return SummarizerFunc(func(ctx context.Context, prompt string) (string, error) {
		atomic.AddInt32(&calls, 1)
		return text, nil
	}), &calls
}

func TestRunMissingTargetFailsBeforeChecks(t *testing.T) {
	s, calls := stub("ok")
	p := New(s, Options{}, nil)
	d := sampleDataset(t)

	rep, err := p.Run(context.Background(), d, ds.TargetSpec{Column: "nope", Kind: ds.TargetCategorical})
	require.Error(t, err)
	assert.Nil(t, rep)
	var ie *ds.InputError
	require.ErrorAs(t, err, &ie)
	assert.Contains(t, ie.Error(), "Target column 'nope' not found")
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestRunAssemblesReport(t *testing.T) {
	var seen string
	s := SummarizerFunc(func(ctx context.Context, prompt string) (string, error) {
		seen = prompt
		return "looks fine", nil
	})
	d := sampleDataset(t)
	target := ds.TargetSpec{Column: "label", Kind: ds.TargetCategorical}

	rep, err := New(s, Options{}, nil).Run(context.Background(), d, target)
	require.NoError(t, err)

	assert.Equal(t, DatasetInfo{Rows: d.Rows(), Columns: d.NumColumns(), TargetColumn: "label", TargetType: ds.TargetCategorical}, rep.DatasetInfo)
	assert.Equal(t, "looks fine", rep.AIAnalysis)
	assert.Empty(t, rep.Warnings)
	assert.Contains(t, rep.ValidationResults.SchemaValidation.ColumnTypes, "code")
	assert.Contains(t, rep.ValidationResults.ValueValidation.MissingValues, "code")
	assert.Contains(t, rep.ValidationResults.ValueValidation.Outliers, "amount")
	assert.NotContains(t, rep.ValidationResults.ValueValidation.MissingValues, "label")

	// sections in fixed order
	iSchema := strings.Index(seen, "Schema Issues")
	iValue := strings.Index(seen, "Value Issues")
	iLeak := strings.Index(seen, "Duplication/Leakage")
	assert.True(t, iSchema >= 0 && iSchema < iValue && iValue < iLeak)
	assert.Contains(t, seen, "Dataset: 32 rows, 3 columns")
	assert.Contains(t, seen, "Target: label (categorical)")
	assert.Contains(t, seen, "max 300 words")
}

func TestRunJSONContract(t *testing.T) {
	s, _ := stub("n")
	d := ds.MustNew(
		ds.Column{Name: "a", Values: ds.Strings("x", "y")},
		ds.Column{Name: "t", Values: ds.Numbers(1, 2)},
	)
	rep, err := New(s, Options{}, nil).Run(context.Background(), d, ds.TargetSpec{Column: "t", Kind: ds.TargetNumeric})
	require.NoError(t, err)

	b, err := json.Marshal(rep)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, map[string]any{"rows": 2.0, "columns": 2.0, "target_column": "t", "target_type": "numeric"}, m["dataset_info"])
	vr := m["validation_results"].(map[string]any)
	assert.Equal(t, map[string]any{"column_types": map[string]any{}}, vr["schema_validation"])
	assert.Equal(t, map[string]any{"missing_values": map[string]any{}, "outliers": map[string]any{}}, vr["value_validation"])
	assert.Equal(t, map[string]any{"duplicate_rows": map[string]any{}}, vr["duplication_leakage"])
	assert.Equal(t, "n", m["ai_analysis"])
	assert.NotContains(t, m, "warnings")
}

func TestRunIsIdempotent(t *testing.T) {
	s, _ := stub("same")
	d := sampleDataset(t)
	target := ds.TargetSpec{Column: "label", Kind: ds.TargetCategorical}
	p := New(s, Options{}, nil)

	r1, err := p.Run(context.Background(), d, target)
	require.NoError(t, err)
	r2, err := p.Run(context.Background(), d, target)
	require.NoError(t, err)

	b1, _ := json.Marshal(r1.ValidationResults)
	b2, _ := json.Marshal(r2.ValidationResults)
	assert.Equal(t, string(b1), string(b2))
}

func TestRunParallelMatchesSequential(t *testing.T) {
	s, _ := stub("x")
	d := sampleDataset(t)
	target := ds.TargetSpec{Column: "label", Kind: ds.TargetCategorical}

	seq, err := New(s, Options{}, nil).Run(context.Background(), d, target)
	require.NoError(t, err)
	par, err := New(s, Options{Parallel: true}, nil).Run(context.Background(), d, target)
	require.NoError(t, err)
	assert.Equal(t, seq, par)
}

func TestRunNarrativeErrorPropagates(t *testing.T) {
	boom := errors.New("upstream down")
	s := SummarizerFunc(func(ctx context.Context, prompt string) (string, error) { return "", boom })
	d := sampleDataset(t)

	rep, err := New(s, Options{}, nil).Run(context.Background(), d, ds.TargetSpec{Column: "label", Kind: ds.TargetCategorical})
	require.Error(t, err)
	assert.Nil(t, rep)
	var ne *NarrativeError
	require.ErrorAs(t, err, &ne)
	assert.ErrorIs(t, err, boom)
}

func TestRunNarrativeFallback(t *testing.T) {
	s := SummarizerFunc(func(ctx context.Context, prompt string) (string, error) { return "", errors.New("quota") })
	d := sampleDataset(t)

	rep, err := New(s, Options{Fallback: true}, nil).Run(context.Background(), d, ds.TargetSpec{Column: "label", Kind: ds.TargetCategorical})
	require.NoError(t, err)
	assert.Equal(t, FallbackNarrative, rep.AIAnalysis)
	require.Len(t, rep.Warnings, 1)
	assert.Contains(t, rep.Warnings[0], "quota")
	assert.Contains(t, rep.ValidationResults.ValueValidation.Outliers, "amount")
}

func TestRunNarrativeTimeout(t *testing.T) {
	s := SummarizerFunc(func(ctx context.Context, prompt string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	d := sampleDataset(t)

	_, err := New(s, Options{NarrativeTimeout: 20 * time.Millisecond}, nil).Run(context.Background(), d, ds.TargetSpec{Column: "label", Kind: ds.TargetCategorical})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunStageRecoversPanic(t *testing.T) {
	p := New(nil, Options{}, nil)
	err := p.runStage(StageValue, func() { panic("bad shape") })
	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageValue, se.Stage)
	assert.Contains(t, se.Error(), "bad shape")
}

func TestRunCancelledContext(t *testing.T) {
	s, calls := stub("x")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(s, Options{}, nil).Run(ctx, sampleDataset(t), ds.TargetSpec{Column: "label", Kind: ds.TargetCategorical})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestMarkdown(t *testing.T) {
	s, _ := stub("Fix the code column.")
	rep, err := New(s, Options{}, nil).Run(context.Background(), sampleDataset(t), ds.TargetSpec{Column: "label", Kind: ds.TargetCategorical})
	require.NoError(t, err)

	md := rep.Markdown()
	for _, sec := range []string{"[DATASET SUMMARY]", "[SCHEMA]", "[MISSING VALUES]", "[OUTLIERS]", "[DUPLICATES]", "[AI ANALYSIS]"} {
		assert.Contains(t, md, sec)
	}
	assert.Contains(t, md, "Target: label (categorical)")
	assert.Contains(t, md, "- code: mixed_types")
	assert.Contains(t, md, "Fix the code column.")
	assert.NotContains(t, md, "[WARNINGS]")
}

func TestSafeNameTruncatesWide(t *testing.T) {
	long := strings.Repeat("列", 30)
	got := safeName(long)
	assert.LessOrEqual(t, len([]rune(got)), 21)
	assert.True(t, strings.HasSuffix(got, "…"))
}
