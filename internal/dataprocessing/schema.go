package dataprocessing

// Logical column names recognized in the header.
const (
	ColumnYear     = "year"
	ColumnWeek     = "week"
	ColumnDisease  = "disease"
	ColumnCases    = "cases"
	ColumnPathogen = "pathogen"
)

// DatasetType selects between week-granular and year-granular analysis.
type DatasetType string

const (
	Weekly DatasetType = "weekly"
	Yearly DatasetType = "yearly"
)

// RequiredColumns returns the logical columns a dataset type needs, in
// reporting order.
func (t DatasetType) RequiredColumns() []string {
	if t == Weekly {
		return []string{ColumnYear, ColumnWeek, ColumnDisease, ColumnCases}
	}
	return []string{ColumnYear, ColumnDisease, ColumnCases}
}

// Valid reports whether t is a known dataset type.
func (t DatasetType) Valid() bool {
	return t == Weekly || t == Yearly
}

// Columns holds resolved zero-based positions. Week is -1 for yearly data.
type Columns struct {
	Year    int
	Week    int
	Disease int
	Cases   int
}

// ApplyAlias returns a copy of header with the first "pathogen" renamed to
// "disease", but only when no "disease" column exists.
func ApplyAlias(header []string) []string {
	out := append([]string(nil), header...)
	if indexOf(out, ColumnDisease) != -1 {
		return out
	}
	if i := indexOf(out, ColumnPathogen); i != -1 {
		out[i] = ColumnDisease
	}
	return out
}

// ResolveColumns maps each required name to its first position in header.
// Names that are absent are returned in missing, in the order requested.
func ResolveColumns(header []string, required []string) (map[string]int, []string) {
	idx := make(map[string]int, len(required))
	var missing []string
	for _, name := range required {
		if i := indexOf(header, name); i != -1 {
			idx[name] = i
		} else {
			missing = append(missing, name)
		}
	}
	return idx, missing
}

// Resolve validates the Dataset's header against t and returns the column
// positions. Columns present for another type do not make t valid.
func (d *Dataset) Resolve(t DatasetType) (Columns, error) {
	required := t.RequiredColumns()
	idx, missing := ResolveColumns(d.header, required)
	if len(missing) > 0 {
		return Columns{}, &MissingColumnsError{Type: t, Required: required, Missing: missing}
	}

	cols := Columns{
		Year:    idx[ColumnYear],
		Week:    -1,
		Disease: idx[ColumnDisease],
		Cases:   idx[ColumnCases],
	}
	if t == Weekly {
		cols.Week = idx[ColumnWeek]
	}
	return cols, nil
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}
