package dataprocessing

import (
	"fmt"
)

// Request is one draw as a viewer submits it: the selection lists straight
// from the UI, before each mode narrows them.
type Request struct {
	Mode     Mode
	Diseases []string
	Year     *int
	Years    []int
}

// Result is a computed chart plus how the request was narrowed to reach it.
type Result struct {
	Chart *Chart
	// TruncatedDiseases lists diseases dropped because the mode plots one.
	TruncatedDiseases []string
}

// Valid reports whether m names a known pivot.
func (m Mode) Valid() bool {
	_, ok := chartMeta[m]
	return ok
}

// DatasetType returns the schema a mode resolves against.
func (m Mode) DatasetType() DatasetType {
	if m == ModeYearly {
		return Yearly
	}
	return Weekly
}

// Draw dispatches req to its pivot. byYear and tandem plot only the first
// selected disease; the others are reported in Result.TruncatedDiseases.
//
// On ErrNoMatchingRows the Result still carries the empty chart.
func (d *Dataset) Draw(req Request) (*Result, error) {
	diseases := uniqueStrings(req.Diseases)

	var (
		chart     *Chart
		truncated []string
		err       error
	)
	switch req.Mode {
	case ModeByDisease:
		if req.Year == nil {
			if _, rerr := d.Resolve(Weekly); rerr != nil {
				return nil, rerr
			}
			return nil, &EmptySelectionError{Mode: ModeByDisease, Kind: SelectionYear}
		}
		chart, err = d.ByDisease(*req.Year, diseases)
	case ModeByYear, ModeTandem:
		var first string
		if len(diseases) > 0 {
			first = diseases[0]
			truncated = diseases[1:]
		}
		if req.Mode == ModeByYear {
			chart, err = d.ByYear(first, req.Years)
		} else {
			chart, err = d.Tandem(first, req.Years)
		}
	case ModeYearly:
		chart, err = d.Yearly(diseases, req.Years)
	default:
		return nil, fmt.Errorf("unknown mode %q", req.Mode)
	}

	if chart == nil {
		return nil, err
	}
	if len(truncated) == 0 {
		truncated = nil
	}
	return &Result{Chart: chart, TruncatedDiseases: truncated}, err
}
