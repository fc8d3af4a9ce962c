package validation

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SystemPrompt is sent as the system message of every narrative request.
const SystemPrompt = "You are a data quality expert analyzing dataset validation results."

// RenderContext builds the user prompt for the summarizer. Sections appear in
// a fixed order: size, target, schema, value, leakage.
func RenderContext(info DatasetInfo, res Results) string {
	var b strings.Builder
	b.WriteString("You are a data quality expert. Analyze the following dataset validation results and provide:\n")
	b.WriteString("1. Summary of critical issues\n")
	b.WriteString("2. Potential impact on ML models\n")
	b.WriteString("3. Recommended next steps\n\n")
	b.WriteString(fmt.Sprintf("Dataset: %d rows, %d columns\n", info.Rows, info.Columns))
	b.WriteString(fmt.Sprintf("Target: %s (%s)\n\n", info.TargetColumn, info.TargetType))
	b.WriteString("Validation Results:\n")
	b.WriteString("- Schema Issues: " + compact(res.SchemaValidation) + "\n")
	b.WriteString("- Value Issues: " + compact(res.ValueValidation) + "\n")
	b.WriteString("- Duplication/Leakage: " + compact(res.DuplicationLeakage) + "\n\n")
	b.WriteString("Provide a concise analysis (max 300 words).")
	return b.String()
}

func compact(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(b)
}
