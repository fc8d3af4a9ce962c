package validation

import "github.com/KaramelBytes/dsvalidate-cli/internal/dataset"

const issueMixedTypes = "mixed_types"

// CheckSchema runs the schema stage.
func CheckSchema(ds *dataset.Dataset, t dataset.TargetSpec) SchemaReport {
	return SchemaReport{ColumnTypes: CheckColumnTypes(ds, t.Column)}
}

// CheckColumnTypes reports string-typed columns (target excluded) whose
// non-null values are partly numeric and partly not. Number cells and strings
// that parse as numeric literals both count as numeric.
func CheckColumnTypes(ds *dataset.Dataset, target string) map[string]TypeIssue {
	issues := map[string]TypeIssue{}
	for _, col := range ds.Columns() {
		if col.Name == target || !col.IsStringTyped() {
			continue
		}
		var numeric, other int
		for _, v := range col.Values {
			switch {
			case v.IsNull():
			case v.IsNumber():
				numeric++
			default:
				if _, ok := dataset.ParseNumber(v.Str); ok {
					numeric++
				} else {
					other++
				}
			}
		}
		if numeric > 0 && other > 0 {
			issues[col.Name] = TypeIssue{
				Issue:  issueMixedTypes,
				Counts: TypeCounts{Numeric: numeric, String: other},
			}
		}
	}
	return issues
}
