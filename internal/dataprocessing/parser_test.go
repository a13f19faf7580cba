package dataprocessing

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitCells(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{name: "plain", line: "2023,1,Flu,10", want: []string{"2023", "1", "Flu", "10"}},
		{name: "quoted comma", line: `"Flu, type A",10`, want: []string{"Flu, type A", "10"}},
		{name: "doubled quote toggles twice", line: `"say ""hi""",1`, want: []string{"say hi", "1"}},
		{name: "unbalanced quote swallows rest", line: `"open,1,2`, want: []string{"open,1,2"}},
		{name: "trailing delimiter", line: "a,", want: []string{"a", ""}},
		{name: "empty line", line: "", want: []string{""}},
		{name: "no trimming", line: " a , b ", want: []string{" a ", " b "}},
		{name: "multibyte", line: "2023,インフルエンザ,5", want: []string{"2023", "インフルエンザ", "5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitCells(tt.line))
		})
	}
}

func TestSplitCellsRoundTrip(t *testing.T) {
	lines := []string{
		"year,week,disease,cases",
		"2023,1,Flu,10",
		",,,",
		"x",
	}
	for _, line := range lines {
		assert.Equal(t, line, strings.Join(SplitCells(line), ","), "line %q", line)
	}
}

func TestParseTable(t *testing.T) {
	t.Run("crlf and trailing blank lines", func(t *testing.T) {
		rows := ParseTable("a,b\r\n1,2\r\n\r\n\n")
		assert.Equal(t, [][]string{{"a", "b"}, {"1", "2"}}, rows)
	})

	t.Run("byte order mark removed", func(t *testing.T) {
		rows := ParseTable("\uFEFFyear,disease\n2023,Flu")
		require.Len(t, rows, 2)
		assert.Equal(t, "year", rows[0][0])
	})

	t.Run("interior blank line kept", func(t *testing.T) {
		rows := ParseTable("a\n\nb")
		assert.Equal(t, [][]string{{"a"}, {""}, {"b"}}, rows)
	})

	t.Run("whitespace only", func(t *testing.T) {
		assert.Nil(t, ParseTable(" \n\t\n"))
	})
}

func TestParse_InsufficientData(t *testing.T) {
	for _, text := range []string{"", "\n\n", "year,week,disease,cases", "year,week,disease,cases\n"} {
		ds, err := Parse(text)
		assert.Nil(t, ds)
		assert.True(t, errors.Is(err, ErrInsufficientData), "text %q", text)
	}
}

func TestParse_Domain(t *testing.T) {
	text := strings.Join([]string{
		"year,week,disease,cases",
		"2010,1,Measles,1",
		"9,1,Flu,2",
		"2010,2,Flu,3",
		",3,,4",
		"unknown,1,Cholera,5",
	}, "\n")

	ds, err := Parse(text)
	require.NoError(t, err)
	require.NoError(t, ds.DomainErr())

	assert.Equal(t, 5, ds.RowCount())
	assert.Equal(t, []string{"year", "week", "disease", "cases"}, ds.Header())

	domain := ds.Domain()
	assert.Equal(t, []string{"9", "2010", "unknown"}, domain.Years)
	assert.Equal(t, []string{"Cholera", "Flu", "Measles"}, domain.Diseases)
	assert.Equal(t, []float64{9, 2010}, domain.NumericYears())
}

func TestParse_DomainUnresolved(t *testing.T) {
	ds, err := Parse("year,week,cases\n2023,1,5")
	require.NoError(t, err)

	var mc *MissingColumnsError
	require.True(t, errors.As(ds.DomainErr(), &mc))
	assert.Equal(t, []string{ColumnDisease}, mc.Missing)
	assert.Empty(t, ds.Domain().Years)
	assert.Empty(t, ds.Domain().Diseases)
}

func TestApplyAlias(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   []string
	}{
		{
			name:   "pathogen becomes disease",
			header: []string{"year", "pathogen", "cases"},
			want:   []string{"year", "disease", "cases"},
		},
		{
			name:   "disease present wins",
			header: []string{"year", "pathogen", "disease", "cases"},
			want:   []string{"year", "pathogen", "disease", "cases"},
		},
		{
			name:   "only first pathogen renamed",
			header: []string{"pathogen", "pathogen"},
			want:   []string{"disease", "pathogen"},
		},
		{
			name:   "no alias needed",
			header: []string{"year", "cases"},
			want:   []string{"year", "cases"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := append([]string(nil), tt.header...)
			assert.Equal(t, tt.want, ApplyAlias(tt.header))
			assert.Equal(t, original, tt.header, "input must not be modified")
		})
	}
}

func TestResolve(t *testing.T) {
	ds, err := Parse("year,pathogen,cases\n2021,Flu,1")
	require.NoError(t, err)

	cols, err := ds.Resolve(Yearly)
	require.NoError(t, err)
	assert.Equal(t, Columns{Year: 0, Week: -1, Disease: 1, Cases: 2}, cols)

	_, err = ds.Resolve(Weekly)
	var mc *MissingColumnsError
	require.True(t, errors.As(err, &mc))
	assert.Equal(t, Weekly, mc.Type)
	assert.Equal(t, []string{ColumnWeek}, mc.Missing)
	assert.Equal(t, Weekly.RequiredColumns(), mc.Required)
	assert.Contains(t, err.Error(), "weekly mode requires columns")
}

func TestResolve_FirstOccurrence(t *testing.T) {
	ds, err := Parse("cases,year,week,disease,cases\n1,2023,1,Flu,2")
	require.NoError(t, err)

	cols, err := ds.Resolve(Weekly)
	require.NoError(t, err)
	assert.Equal(t, 0, cols.Cases)
}
