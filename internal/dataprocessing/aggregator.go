package dataprocessing

import (
	"fmt"
	"math"
	"strings"
)

// ByDisease compares several diseases within one year, on a shared week axis.
//
// The axis is every week present among the matching rows, even where cases
// do not parse. Per disease, a repeated week keeps the last row's value; a row
// whose week or cases does not parse leaves no value.
func (d *Dataset) ByDisease(year int, diseases []string) (*Chart, error) {
	cols, err := d.Resolve(Weekly)
	if err != nil {
		return nil, err
	}
	diseases = uniqueStrings(diseases)
	if len(diseases) == 0 {
		return nil, &EmptySelectionError{Mode: ModeByDisease, Kind: SelectionDiseases}
	}

	target := float64(year)
	selected := stringSet(diseases)
	filtered := d.filter(func(row []string) bool {
		y, ok := coerceNumber(cell(row, cols.Year))
		_, hit := selected[cell(row, cols.Disease)]
		return ok && y == target && hit
	})
	if len(filtered) == 0 {
		return emptyChart(ModeByDisease), ErrNoMatchingRows
	}

	axis := weekAxis(filtered, cols.Week)
	perDisease := make(map[string]map[float64]float64, len(diseases))
	for _, name := range diseases {
		perDisease[name] = make(map[float64]float64)
	}
	for _, row := range filtered {
		w, c, ok := weekAndCases(row, cols)
		if !ok {
			continue
		}
		perDisease[cell(row, cols.Disease)][w] = c
	}

	datasets := make([]Series, 0, len(diseases))
	for _, name := range diseases {
		datasets = append(datasets, Series{
			Label: fmt.Sprintf("%d %s", year, name),
			Data:  alignTo(axis, perDisease[name]),
		})
	}
	return newChart(ModeByDisease, formatLabels(axis), datasets), nil
}

// ByYear compares several years of one disease on a shared week axis. The
// axis and duplicate rules are those of ByDisease.
func (d *Dataset) ByYear(disease string, years []int) (*Chart, error) {
	cols, err := d.Resolve(Weekly)
	if err != nil {
		return nil, err
	}
	if disease == "" {
		return nil, &EmptySelectionError{Mode: ModeByYear, Kind: SelectionDiseases}
	}
	if len(years) == 0 {
		return nil, &EmptySelectionError{Mode: ModeByYear, Kind: SelectionYears}
	}

	axisYears := sortedUnique(yearsToFloat(years))
	filtered := d.filterDiseaseYears(cols, disease, axisYears)
	if len(filtered) == 0 {
		return emptyChart(ModeByYear), ErrNoMatchingRows
	}

	axis := weekAxis(filtered, cols.Week)
	perYear := make(map[float64]map[float64]float64, len(axisYears))
	for _, y := range axisYears {
		perYear[y] = make(map[float64]float64)
	}
	for _, row := range filtered {
		w, c, ok := weekAndCases(row, cols)
		if !ok {
			continue
		}
		y, _ := coerceNumber(cell(row, cols.Year))
		perYear[y][w] = c
	}

	datasets := make([]Series, 0, len(axisYears))
	for _, y := range axisYears {
		datasets = append(datasets, Series{
			Label: fmt.Sprintf("%s %s", formatNumber(y), disease),
			Data:  alignTo(axis, perYear[y]),
		})
	}
	return newChart(ModeByYear, formatLabels(axis), datasets), nil
}

// Tandem lays several years of one disease end to end. Each year keeps its own
// sorted week domain, built from rows whose week and cases both parse; the axis is the concatenation of "{year}-{week}" blocks in
// ascending year order, and one series follows that order.
func (d *Dataset) Tandem(disease string, years []int) (*Chart, error) {
	cols, err := d.Resolve(Weekly)
	if err != nil {
		return nil, err
	}
	if disease == "" {
		return nil, &EmptySelectionError{Mode: ModeTandem, Kind: SelectionDiseases}
	}
	if len(years) == 0 {
		return nil, &EmptySelectionError{Mode: ModeTandem, Kind: SelectionYears}
	}

	axisYears := sortedUnique(yearsToFloat(years))
	filtered := d.filterDiseaseYears(cols, disease, axisYears)
	if len(filtered) == 0 {
		return emptyChart(ModeTandem), ErrNoMatchingRows
	}

	rowsByYear := make(map[float64][][]string, len(axisYears))
	for _, row := range filtered {
		y, _ := coerceNumber(cell(row, cols.Year))
		rowsByYear[y] = append(rowsByYear[y], row)
	}

	var (
		labels []string
		data   []*float64
	)
	for _, y := range axisYears {
		// Only weeks with a usable cases value enter a year's block.
		values := make(map[float64]float64)
		var present []float64
		for _, row := range rowsByYear[y] {
			if w, c, ok := weekAndCases(row, cols); ok {
				values[w] = c
				present = append(present, w)
			}
		}
		weeks := sortedUnique(present)
		for _, w := range weeks {
			labels = append(labels, formatNumber(y)+"-"+formatNumber(w))
		}
		data = append(data, alignTo(weeks, values)...)
	}

	series := Series{
		Label: fmt.Sprintf("%s (%s)", disease, strings.Join(formatLabels(axisYears), "~")),
		Data:  data,
	}
	if data == nil {
		series.Data = []*float64{}
	}
	return newChart(ModeTandem, labels, []Series{series}), nil
}

// Yearly compares diseases across years. The axis is the selected years
// ascending, or every available year when none are selected.
//
// For each (disease, year) the first matching row in file order wins, unlike
// the weekly pivots. An unparsable cases value is kept as NaN rather than a
// gap; no matching row is a gap.
func (d *Dataset) Yearly(diseases []string, years []int) (*Chart, error) {
	cols, err := d.Resolve(Yearly)
	if err != nil {
		return nil, err
	}
	diseases = uniqueStrings(diseases)
	if len(diseases) == 0 {
		return nil, &EmptySelectionError{Mode: ModeYearly, Kind: SelectionDiseases}
	}

	var axis []float64
	if len(years) == 0 {
		axis = sortedUnique(d.domain.NumericYears())
	} else {
		axis = sortedUnique(yearsToFloat(years))
	}

	datasets := make([]Series, 0, len(diseases))
	for _, name := range diseases {
		data := make([]*float64, len(axis))
		for i, y := range axis {
			row := d.firstRow(func(row []string) bool {
				ry, ok := coerceNumber(cell(row, cols.Year))
				return ok && ry == y && cell(row, cols.Disease) == name
			})
			if row == nil {
				continue
			}
			v, ok := coerceNumber(cell(row, cols.Cases))
			if !ok {
				v = math.NaN()
			}
			data[i] = &v
		}
		datasets = append(datasets, Series{Label: name, Data: data})
	}
	return newChart(ModeYearly, formatLabels(axis), datasets), nil
}

func (d *Dataset) filter(keep func(row []string) bool) [][]string {
	var out [][]string
	for _, row := range d.rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	return out
}

func (d *Dataset) firstRow(match func(row []string) bool) []string {
	for _, row := range d.rows {
		if match(row) {
			return row
		}
	}
	return nil
}

func (d *Dataset) filterDiseaseYears(cols Columns, disease string, years []float64) [][]string {
	wanted := make(map[float64]struct{}, len(years))
	for _, y := range years {
		wanted[y] = struct{}{}
	}
	return d.filter(func(row []string) bool {
		if cell(row, cols.Disease) != disease {
			return false
		}
		y, ok := coerceNumber(cell(row, cols.Year))
		if !ok {
			return false
		}
		_, hit := wanted[y]
		return hit
	})
}

// weekAndCases coerces both fields; ok is false if either fails.
func weekAndCases(row []string, cols Columns) (week, cases float64, ok bool) {
	week, wok := coerceNumber(cell(row, cols.Week))
	cases, cok := coerceNumber(cell(row, cols.Cases))
	return week, cases, wok && cok
}

func stringSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
