package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
)

const maxNameWidth = 40

// Markdown renders the report as plain sections for terminals and docs.
func (r *FinalReport) Markdown() string {
	var b strings.Builder
	info := r.DatasetInfo
	b.WriteString("[DATASET SUMMARY]\n")
	b.WriteString(fmt.Sprintf("Rows: %d\nColumns: %d\n", info.Rows, info.Columns))
	b.WriteString(fmt.Sprintf("Target: %s (%s)\n\n", safeName(info.TargetColumn), info.TargetType))

	res := r.ValidationResults
	b.WriteString("[SCHEMA]\n")
	if len(res.SchemaValidation.ColumnTypes) == 0 {
		b.WriteString("- no mixed-type columns\n")
	}
	for _, name := range sortedKeys(res.SchemaValidation.ColumnTypes) {
		ti := res.SchemaValidation.ColumnTypes[name]
		b.WriteString(fmt.Sprintf("- %s: %s (numeric %d, string %d)\n", safeName(name), ti.Issue, ti.Counts.Numeric, ti.Counts.String))
	}

	b.WriteString("\n[MISSING VALUES]\n")
	if len(res.ValueValidation.MissingValues) == 0 {
		b.WriteString("- none\n")
	}
	for _, name := range sortedKeys(res.ValueValidation.MissingValues) {
		m := res.ValueValidation.MissingValues[name]
		b.WriteString(fmt.Sprintf("- %s: %d missing (%.2f%%; null %d, placeholder %d)\n",
			safeName(name), m.TotalMissing, m.MissingPercentage, m.NullValues, m.PlaceholderValues))
	}

	b.WriteString("\n[OUTLIERS]\n")
	if len(res.ValueValidation.Outliers) == 0 {
		b.WriteString("- none\n")
	}
	for _, name := range sortedKeys(res.ValueValidation.Outliers) {
		o := res.ValueValidation.Outliers[name]
		ex := make([]string, len(o.ExtremeValues))
		for i, v := range o.ExtremeValues {
			ex[i] = fmt.Sprintf("%g", v)
		}
		b.WriteString(fmt.Sprintf("- %s: %d outliers (%.2f%%) outside [%g, %g]; e.g. %s\n",
			safeName(name), o.Count, o.Percentage, o.Bounds.Lower, o.Bounds.Upper, strings.Join(ex, ", ")))
	}

	b.WriteString("\n[DUPLICATES]\n")
	d := res.DuplicationLeakage.DuplicateRows
	if d.Count == 0 {
		b.WriteString("- none\n")
	} else {
		b.WriteString(fmt.Sprintf("- %d duplicate rows (%.2f%%)\n", d.Count, d.Percentage))
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n[WARNINGS]\n")
		for _, w := range r.Warnings {
			b.WriteString("- " + w + "\n")
		}
	}

	b.WriteString("\n[AI ANALYSIS]\n")
	b.WriteString(strings.TrimSpace(r.AIAnalysis))
	b.WriteString("\n")
	return b.String()
}

func safeName(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return runewidth.Truncate(s, maxNameWidth, "…")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
