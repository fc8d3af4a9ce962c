package validation

import (
	"math"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/KaramelBytes/dsvalidate-cli/internal/dataset"
)

const (
	// MinOutlierSample is the smallest non-null count the IQR rule runs on.
	MinOutlierSample = 30
	iqrFence         = 1.5
	maxExtremeValues = 5
)

// placeholders are compared after trimming and lowercasing.
var placeholders = map[string]struct{}{
	"unknown": {}, "n/a": {}, "na": {}, "null": {}, "none": {}, "missing": {}, "": {},
}

// IsPlaceholder reports whether s is a conventional stand-in for missing data.
func IsPlaceholder(s string) bool {
	_, ok := placeholders[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// CheckValues runs the value stage.
func CheckValues(ds *dataset.Dataset, t dataset.TargetSpec) ValueReport {
	return ValueReport{
		MissingValues: DetectMissingValues(ds, t.Column),
		Outliers:      DetectOutliers(ds, t.Column),
	}
}

// DetectMissingValues counts nulls in every non-target column and, for
// string-typed columns, placeholder strings as well.
func DetectMissingValues(ds *dataset.Dataset, target string) map[string]MissingStat {
	out := map[string]MissingStat{}
	for _, col := range ds.Columns() {
		if col.Name == target {
			continue
		}
		var nulls, ph int
		for _, v := range col.Values {
			switch {
			case v.IsNull():
				nulls++
			case v.IsString() && IsPlaceholder(v.Str):
				ph++
			}
		}
		total := nulls + ph
		if total == 0 {
			continue
		}
		out[col.Name] = MissingStat{
			NullValues:        nulls,
			PlaceholderValues: ph,
			TotalMissing:      total,
			MissingPercentage: percent(total, len(col.Values)),
		}
	}
	return out
}

// DetectOutliers applies the 1.5·IQR fence to numeric non-target columns with
// at least MinOutlierSample non-null values and a non-zero IQR.
func DetectOutliers(ds *dataset.Dataset, target string) map[string]OutlierStat {
	out := map[string]OutlierStat{}
	for _, col := range ds.Columns() {
		if col.Name == target || !col.IsNumeric() {
			continue
		}
		vals := make([]float64, 0, len(col.Values))
		for _, v := range col.Values {
			if v.IsNumber() {
				vals = append(vals, v.Num)
			}
		}
		if len(vals) < MinOutlierSample {
			continue
		}
		sorted := make([]float64, len(vals))
		copy(sorted, vals)
		sort.Float64s(sorted)
		q1 := quantile(sorted, 0.25)
		q3 := quantile(sorted, 0.75)
		iqr := q3 - q1
		if iqr == 0 {
			continue
		}
		// fences near the float64 range overflow to ±Inf, which JSON cannot carry
		lower := math.Max(q1-iqrFence*iqr, -math.MaxFloat64)
		upper := math.Min(q3+iqrFence*iqr, math.MaxFloat64)

		var count int
		var extremes []float64
		for _, x := range vals {
			if x < lower || x > upper {
				count++
				if len(extremes) < maxExtremeValues {
					extremes = append(extremes, x)
				}
			}
		}
		if count == 0 {
			continue
		}
		out[col.Name] = OutlierStat{
			Count:         count,
			Percentage:    percent(count, len(vals)),
			Bounds:        Bounds{Lower: lower, Upper: upper},
			ExtremeValues: extremes,
		}
	}
	return out
}

// quantile interpolates linearly between the order statistics around
// q·(n−1). sorted must be ascending.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// percent returns part/whole as a percentage rounded to two decimals.
func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	r, err := stats.Round(float64(part)*100/float64(whole), 2)
	if err != nil {
		return 0
	}
	return r
}
