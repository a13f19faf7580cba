package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "idwrcli/internal/errors"
	api "idwrcli/pkg/contracts/api/v1"
)

func TestValidator_DecodeJSON(t *testing.T) {
	v := NewValidator(1024, nil)

	tests := []struct {
		name       string
		body       string
		wantCode   string
		wantStatus int
		wantField  string
	}{
		{name: "valid", body: `{"mode":"byDisease","year":2023,"diseases":["Flu"]}`},
		{name: "empty body", body: "", wantCode: apierrors.CodeInvalidRequest, wantStatus: http.StatusBadRequest},
		{name: "malformed", body: `{"mode":`, wantCode: apierrors.CodeInvalidRequest, wantStatus: http.StatusBadRequest},
		{name: "bad mode", body: `{"mode":"pie"}`, wantCode: apierrors.CodeValidationFailed, wantStatus: http.StatusBadRequest, wantField: "mode"},
		{name: "blank disease", body: `{"mode":"yearly","diseases":["Flu",""]}`, wantCode: apierrors.CodeValidationFailed, wantStatus: http.StatusBadRequest, wantField: "diseases[1]"},
		{name: "too large", body: `{"mode":"yearly","diseases":["` + strings.Repeat("a", 2048) + `"]}`, wantCode: apierrors.CodePayloadTooLarge, wantStatus: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/chart/draw", strings.NewReader(tt.body))
			var dst api.DrawRequest
			err := v.DecodeJSON(req, &dst)

			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.Equal(t, api.ModeByDisease, dst.Mode)
				return
			}

			var apiErr *apierrors.APIError
			require.True(t, errors.As(err, &apiErr), "got %v", err)
			assert.Equal(t, tt.wantCode, apiErr.ErrorCode)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			if tt.wantField != "" {
				details := apiErr.Details.(apierrors.ValidationErrors)
				require.NotEmpty(t, details.Errors)
				assert.Equal(t, tt.wantField, details.Errors[0].Field)
			}
		})
	}
}

func TestValidator_RequiredIfMessage(t *testing.T) {
	v := NewValidator(1024, nil)
	err := v.Struct(api.LoadRequest{Source: api.SourceSample})

	var apiErr *apierrors.APIError
	require.True(t, errors.As(err, &apiErr))
	details := apiErr.Details.(apierrors.ValidationErrors)
	require.Len(t, details.Errors, 1)
	assert.Equal(t, "sample", details.Errors[0].Field)
	assert.Equal(t, "sample is required when Source is sample", details.Errors[0].Message)
}

func TestContentTypeValidator(t *testing.T) {
	handler := ContentTypeValidator(apierrors.NewErrorHandler(nil, false), "application/json", "multipart/form-data")(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodPost, "/api/dataset", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/dataset", strings.NewReader("a,b"))
	req.Header.Set("Content-Type", "text/csv")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Equal(t, apierrors.CodeUnsupportedFormat, decodeBody(t, rec)["error_code"])

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dataset", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
