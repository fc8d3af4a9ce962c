// Package validation runs the fixed dataset checks (schema, value, leakage),
// asks a Summarizer for a narrative and assembles the final report.
package validation

import "github.com/KaramelBytes/dsvalidate-cli/internal/dataset"

// TypeIssue flags a string column holding both numeric and non-numeric values.
type TypeIssue struct {
	Issue  string     `json:"issue"`
	Counts TypeCounts `json:"counts"`
}

type TypeCounts struct {
	Numeric int `json:"numeric"`
	String  int `json:"string"`
}

// MissingStat counts structural nulls and placeholder tokens in one column.
type MissingStat struct {
	NullValues        int     `json:"null_values"`
	PlaceholderValues int     `json:"placeholder_values"`
	TotalMissing      int     `json:"total_missing"`
	MissingPercentage float64 `json:"missing_percentage"`
}

// OutlierStat describes IQR fence violations in one numeric column.
type OutlierStat struct {
	Count         int       `json:"count"`
	Percentage    float64   `json:"percentage"`
	Bounds        Bounds    `json:"bounds"`
	ExtremeValues []float64 `json:"extreme_values"`
}

type Bounds struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// DuplicateStat summarizes exact duplicate rows. The zero value encodes as {}.
type DuplicateStat struct {
	Count      int     `json:"duplicate_count,omitempty"`
	Percentage float64 `json:"duplicate_percentage,omitempty"`
	Indices    []int   `json:"duplicate_indices,omitempty"`
}

// SchemaReport is the output of the schema stage.
type SchemaReport struct {
	ColumnTypes map[string]TypeIssue `json:"column_types"`
}

// ValueReport is the output of the value stage.
type ValueReport struct {
	MissingValues map[string]MissingStat `json:"missing_values"`
	Outliers      map[string]OutlierStat `json:"outliers"`
}

// LeakageReport is the output of the leakage stage. Only exact duplicate rows
// are computed.
type LeakageReport struct {
	DuplicateRows DuplicateStat `json:"duplicate_rows"`
}

// DatasetInfo echoes the shape of the input and the chosen target.
type DatasetInfo struct {
	Rows         int                `json:"rows"`
	Columns      int                `json:"columns"`
	TargetColumn string             `json:"target_column"`
	TargetType   dataset.TargetKind `json:"target_type"`
}

// Results groups the three stage reports.
type Results struct {
	SchemaValidation   SchemaReport  `json:"schema_validation"`
	ValueValidation    ValueReport   `json:"value_validation"`
	DuplicationLeakage LeakageReport `json:"duplication_leakage"`
}

// FinalReport is what a validation call returns.
type FinalReport struct {
	DatasetInfo       DatasetInfo `json:"dataset_info"`
	ValidationResults Results     `json:"validation_results"`
	AIAnalysis        string      `json:"ai_analysis"`
	// Warnings is set only when the narrative fell back to a placeholder.
	Warnings []string `json:"warnings,omitempty"`
}

// Info describes ds and the target for the report header.
func Info(ds *dataset.Dataset, t dataset.TargetSpec) DatasetInfo {
	return DatasetInfo{
		Rows:         ds.Rows(),
		Columns:      ds.NumColumns(),
		TargetColumn: t.Column,
		TargetType:   t.Kind,
	}
}

// Assemble merges metadata, the stage reports and the narrative.
func Assemble(info DatasetInfo, schema SchemaReport, value ValueReport, leakage LeakageReport, narrative string) FinalReport {
	return FinalReport{
		DatasetInfo: info,
		ValidationResults: Results{
			SchemaValidation:   schema,
			ValueValidation:    value,
			DuplicationLeakage: leakage,
		},
		AIAnalysis: narrative,
	}
}
