package dataprocessing

import (
	"sort"
)

// DomainIndex lists the distinct raw year and disease values of a Dataset.
// Years sort numerically ascending, diseases lexicographically.
type DomainIndex struct {
	Years    []string `json:"years"`
	Diseases []string `json:"diseases"`
}

// IndexDomain scans rows once. Empty cells contribute nothing; otherwise the
// raw text is kept as the set member without a numeric validity check.
func IndexDomain(rows [][]string, yearIdx, diseaseIdx int) DomainIndex {
	years := make(map[string]struct{})
	diseases := make(map[string]struct{})

	for _, row := range rows {
		if y := cell(row, yearIdx); y != "" {
			years[y] = struct{}{}
		}
		if d := cell(row, diseaseIdx); d != "" {
			diseases[d] = struct{}{}
		}
	}

	out := DomainIndex{
		Years:    keys(years),
		Diseases: keys(diseases),
	}
	sortYears(out.Years)
	sort.Strings(out.Diseases)
	return out
}

// NumericYears converts the year domain to numbers, dropping entries that do
// not coerce. Order is preserved.
func (d DomainIndex) NumericYears() []float64 {
	out := make([]float64, 0, len(d.Years))
	for _, y := range d.Years {
		if v, ok := coerceNumber(y); ok {
			out = append(out, v)
		}
	}
	return out
}

// sortYears orders numeric years ascending, then any non-numeric text
// lexicographically after them.
func sortYears(years []string) {
	sort.SliceStable(years, func(i, j int) bool {
		a, aok := coerceNumber(years[i])
		b, bok := coerceNumber(years[j])
		switch {
		case aok && bok:
			if a != b {
				return a < b
			}
			return years[i] < years[j]
		case aok != bok:
			return aok
		default:
			return years[i] < years[j]
		}
	})
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
