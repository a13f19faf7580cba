package dataprocessing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestDraw(t *testing.T) {
	weekly := mustParse(t, weeklyCSV)

	tests := []struct {
		name          string
		req           Request
		wantMode      Mode
		wantSeries    []string
		wantTruncated []string
	}{
		{
			name:       "byDisease",
			req:        Request{Mode: ModeByDisease, Year: intPtr(2023), Diseases: []string{"Flu"}},
			wantMode:   ModeByDisease,
			wantSeries: []string{"2023 Flu"},
		},
		{
			name:          "byYear keeps first disease",
			req:           Request{Mode: ModeByYear, Diseases: []string{"Flu", "Measles"}, Years: []int{2023}},
			wantMode:      ModeByYear,
			wantSeries:    []string{"2023 Flu"},
			wantTruncated: []string{"Measles"},
		},
		{
			name:          "tandem keeps first disease",
			req:           Request{Mode: ModeTandem, Diseases: []string{"Flu", "Flu", "Measles"}, Years: []int{2023, 2024}},
			wantMode:      ModeTandem,
			wantSeries:    []string{"Flu (2023~2024)"},
			wantTruncated: []string{"Measles"},
		},
		{
			name:       "yearly over weekly data",
			req:        Request{Mode: ModeYearly, Diseases: []string{"Flu", "Measles"}},
			wantMode:   ModeYearly,
			wantSeries: []string{"Flu", "Measles"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := weekly.Draw(tt.req)
			require.NoError(t, err)
			require.NotNil(t, result.Chart)
			assert.Equal(t, tt.wantMode, result.Chart.Mode)
			assert.Equal(t, tt.wantSeries, labelsOf(result.Chart))
			assert.Equal(t, tt.wantTruncated, result.TruncatedDiseases)
		})
	}
}

func TestDraw_MissingYear(t *testing.T) {
	weekly := mustParse(t, weeklyCSV)

	result, err := weekly.Draw(Request{Mode: ModeByDisease, Diseases: []string{"Flu"}})
	assert.Nil(t, result)
	var es *EmptySelectionError
	require.True(t, errors.As(err, &es))
	assert.Equal(t, SelectionYear, es.Kind)

	yearly := mustParse(t, yearlyCSV)
	_, err = yearly.Draw(Request{Mode: ModeByDisease, Diseases: []string{"Flu"}})
	assert.True(t, IsMissingColumns(err))
}

func TestDraw_NoMatchingRowsKeepsChart(t *testing.T) {
	weekly := mustParse(t, weeklyCSV)

	result, err := weekly.Draw(Request{Mode: ModeByYear, Diseases: []string{"Flu"}, Years: []int{1999}})
	assert.True(t, errors.Is(err, ErrNoMatchingRows))
	require.NotNil(t, result)
	assert.True(t, result.Chart.Empty())
}

func TestDraw_UnknownMode(t *testing.T) {
	weekly := mustParse(t, weeklyCSV)

	_, err := weekly.Draw(Request{Mode: "pie"})
	assert.Error(t, err)
	assert.False(t, Mode("pie").Valid())
	assert.True(t, ModeTandem.Valid())
}

func TestModeDatasetType(t *testing.T) {
	assert.Equal(t, Yearly, ModeYearly.DatasetType())
	assert.Equal(t, Weekly, ModeByDisease.DatasetType())
	assert.Equal(t, Weekly, ModeTandem.DatasetType())
}
