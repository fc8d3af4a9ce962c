package dataset

import (
	"fmt"
	"strings"
)

// TargetKind is the declared kind of the prediction target.
type TargetKind string

const (
	TargetCategorical TargetKind = "categorical"
	TargetNumeric     TargetKind = "numeric"
)

// ParseTargetKind accepts exactly "categorical" or "numeric" (surrounding
// whitespace is ignored, case is not).
func ParseTargetKind(s string) (TargetKind, error) {
	switch TargetKind(strings.TrimSpace(s)) {
	case TargetCategorical:
		return TargetCategorical, nil
	case TargetNumeric:
		return TargetNumeric, nil
	}
	return "", &InputError{Msg: fmt.Sprintf("invalid target type %q (use categorical or numeric)", s)}
}

// TargetSpec names the target column and its declared kind.
type TargetSpec struct {
	Column string
	Kind   TargetKind
}

// InputError is a caller mistake: bad target, unsupported or unreadable file.
type InputError struct {
	Msg string
	Err error
}

func (e *InputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *InputError) Unwrap() error { return e.Err }
