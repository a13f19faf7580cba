package dataprocessing

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInsufficientData means the text held a header only, or nothing.
	ErrInsufficientData = errors.New("insufficient data: no data rows")

	// ErrNoMatchingRows is returned together with an empty, non-nil Chart so
	// the caller can clear whatever it displayed before.
	ErrNoMatchingRows = errors.New("no matching data")
)

// MissingColumnsError reports the required columns a mode could not resolve.
type MissingColumnsError struct {
	Type     DatasetType
	Required []string
	Missing  []string
}

func (e *MissingColumnsError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("missing columns %s (required: %s)",
			strings.Join(e.Missing, ", "), strings.Join(e.Required, ", "))
	}
	return fmt.Sprintf("%s mode requires columns %s (missing: %s)",
		e.Type, strings.Join(e.Required, ", "), strings.Join(e.Missing, ", "))
}

// SelectionKind names the user selection a pivot was missing.
type SelectionKind string

const (
	SelectionYear     SelectionKind = "year"
	SelectionYears    SelectionKind = "years"
	SelectionDiseases SelectionKind = "diseases"
)

// EmptySelectionError means a pivot was asked to run without a selection it
// requires.
type EmptySelectionError struct {
	Mode Mode
	Kind SelectionKind
}

func (e *EmptySelectionError) Error() string {
	switch e.Kind {
	case SelectionYear:
		return fmt.Sprintf("%s: select a year", e.Mode)
	case SelectionYears:
		return fmt.Sprintf("%s: select one or more years", e.Mode)
	default:
		return fmt.Sprintf("%s: select one or more diseases", e.Mode)
	}
}

// IsMissingColumns reports whether err is a *MissingColumnsError.
func IsMissingColumns(err error) bool {
	var mc *MissingColumnsError
	return errors.As(err, &mc)
}

// IsEmptySelection reports whether err is an *EmptySelectionError.
func IsEmptySelection(err error) bool {
	var es *EmptySelectionError
	return errors.As(err, &es)
}
