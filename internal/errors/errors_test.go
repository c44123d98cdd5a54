package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *APIError
		wantStatus int
		wantCode   string
	}{
		{"invalid request", InvalidRequestWithError(errors.New("bad json")), http.StatusBadRequest, "INVALID_REQUEST"},
		{"calculator not found", CalculatorNotFound("lp"), http.StatusNotFound, "CALCULATOR_NOT_FOUND"},
		{"export failed", ExportFailed(errors.New("disk full")), http.StatusInternalServerError, "EXPORT_FAILED"},
		{"panic", ErrPanic("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
			assert.Equal(t, tt.wantCode, tt.err.ErrorCode)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestProblemDetailsMarshalJSON(t *testing.T) {
	pd := NewProblemDetails(http.StatusUnprocessableEntity, TypeAlignment, "Criteria Misaligned", "row 2", "/api/calculators/saw").
		WithExtension("row", 2)

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, TypeAlignment, got["type"])
	assert.Equal(t, float64(422), got["status"])
	assert.Equal(t, float64(2), got["row"])
	assert.Equal(t, "/api/calculators/saw", got["instance"])
}

func TestProblemDetailsExtensionsCannotShadowMembers(t *testing.T) {
	pd := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Bad Request", "", "").
		WithExtension("status", 999)

	data, err := json.Marshal(pd)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status":400`)
	assert.NotContains(t, string(data), "detail")
}
