package loader

import (
	"fmt"
	"strconv"

	"github.com/KaramelBytes/dsvalidate-cli/internal/dataset"
)

// naTokens load as null, matching the conventional dataframe default NA set.
// Matching is exact: " N/A " with padding stays a string.
var naTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// IsNA reports whether a raw token loads as null.
func IsNA(s string) bool {
	_, ok := naTokens[s]
	return ok
}

// Build converts header + data records into a Dataset. Blank header cells
// become "Unnamed: i" and repeated names get ".1", ".2" suffixes. A column
// whose non-null tokens all parse as numbers is numeric; any other column
// keeps every non-null token as a string.
func Build(records [][]string) (*dataset.Dataset, error) {
	if len(records) == 0 {
		return nil, &dataset.InputError{Msg: "No columns to parse from file"}
	}
	header := headerNames(records[0])
	rows := records[1:]
	for i, r := range rows {
		if len(r) > len(header) {
			return nil, &dataset.InputError{Msg: fmt.Sprintf("row %d has %d fields, header has %d", i+1, len(r), len(header))}
		}
	}

	cols := make([]dataset.Column, len(header))
	for j, name := range header {
		raw := make([]string, len(rows))
		for i, r := range rows {
			if j < len(r) {
				raw[i] = r[j]
			}
		}
		cols[j] = dataset.Column{Name: name, Values: typedColumn(raw)}
	}
	return dataset.New(cols...)
}

func typedColumn(raw []string) []dataset.Value {
	vals := make([]dataset.Value, len(raw))
	nums := make([]float64, len(raw))
	numeric := true
	for i, s := range raw {
		if IsNA(s) {
			continue
		}
		f, ok := dataset.ParseNumber(s)
		if !ok {
			numeric = false
			break
		}
		nums[i] = f
	}
	for i, s := range raw {
		switch {
		case IsNA(s):
			vals[i] = dataset.Null()
		case numeric:
			vals[i] = dataset.Number(nums[i])
		default:
			vals[i] = dataset.String(s)
		}
	}
	return vals
}

func headerNames(raw []string) []string {
	out := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, name := range raw {
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		base := name
		for n := seen[base]; ; n++ {
			if _, taken := seen[name]; !taken {
				break
			}
			name = base + "." + strconv.Itoa(n)
		}
		seen[base]++
		if name != base {
			seen[name] = 1
		}
		out[i] = name
	}
	return out
}
