package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewNetworkError("fetch sample", cause).WithContext("name", "yearly.csv")

	assert.Equal(t, "[NETWORK] fetch sample: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "yearly.csv", err.Context["name"])

	wrapped := fmt.Errorf("load: %w", err)
	var appErr *AppError
	require.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, ErrTypeNetwork, appErr.Type)

	assert.Equal(t, "[NOT_FOUND] sample x not found", NewNotFoundError("sample x").Error())
}

func TestErrorType_HTTPStatus(t *testing.T) {
	tests := []struct {
		typ  ErrorType
		want int
	}{
		{ErrTypeValidation, http.StatusBadRequest},
		{ErrTypeNotFound, http.StatusNotFound},
		{ErrTypePermission, http.StatusForbidden},
		{ErrTypeParsing, http.StatusUnprocessableEntity},
		{ErrTypeNetwork, http.StatusBadGateway},
		{ErrTypeStorage, http.StatusInternalServerError},
		{ErrTypeConfig, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.HTTPStatus())
		})
	}
}

func TestChartErrors(t *testing.T) {
	mc := MissingColumnsError("weekly", []string{"year", "week", "disease", "cases"}, []string{"week"})
	assert.Equal(t, http.StatusUnprocessableEntity, mc.StatusCode)
	assert.Equal(t, CodeMissingColumns, mc.ErrorCode)
	assert.Equal(t, []string{"week"}, mc.Details.(ColumnDetails).Missing)

	es := EmptySelectionError("yearly", "diseases")
	assert.Equal(t, http.StatusBadRequest, es.StatusCode)
	assert.Equal(t, "diseases", es.Details.(SelectionDetails).Kind)

	v := ErrValidation("format", "format must be one of: csv, xlsx")
	assert.Equal(t, CodeValidationFailed, v.ErrorCode)
	assert.Len(t, v.Details.(ValidationErrors).Errors, 1)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrRateLimitExceeded)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, CodeRateLimitExceeded, resp.Error.ErrorCode)
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	p := NewProblemDetails(http.StatusConflict, TypeNoDataset, "Conflict", "", "/api/chart/draw").
		WithExtension("error_code", CodeNoDataset).
		WithExtension("status", "overridden")

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, float64(http.StatusConflict), body["status"])
	assert.Equal(t, CodeNoDataset, body["error_code"])
	assert.NotContains(t, body, "detail")
}
