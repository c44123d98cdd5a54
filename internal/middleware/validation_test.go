package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "erpcalc/internal/errors"
	"erpcalc/internal/shared/testutil"
)

type sampleRequest struct {
	Calculator string `json:"calculator" validate:"required"`
	Weights    string `json:"weights" validate:"weights"`
	Format     string `json:"format" validate:"omitempty,export_format"`
	Window     int    `json:"window" validate:"gte=0,lte=100"`
}

func TestValidateStruct(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name   string
		req    sampleRequest
		fields []string
	}{
		{name: "valid", req: sampleRequest{Calculator: "saw", Weights: "0.6, 0.4", Format: "xlsx"}},
		{name: "blank weight slot", req: sampleRequest{Calculator: "saw", Weights: "1,,0.5"}},
		{name: "bad weights", req: sampleRequest{Calculator: "saw", Weights: "0.6,abc"}, fields: []string{"weights"}},
		{name: "several", req: sampleRequest{Format: "pdf", Window: -1}, fields: []string{"calculator", "format", "window"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(v, tt.req)
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}

			var apiErr *apierrors.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
			assert.Equal(t, "VALIDATION_FAILED", apiErr.ErrorCode)

			details, ok := apiErr.Details.([]apierrors.ValidationError)
			require.True(t, ok)
			got := make([]string, 0, len(details))
			for _, d := range details {
				got = append(got, d.Field)
				assert.NotEmpty(t, d.Message)
			}
			assert.ElementsMatch(t, tt.fields, got)
		})
	}
}

func TestFormatValidationMessages(t *testing.T) {
	err := ValidateStruct(NewValidator(), sampleRequest{Calculator: "saw", Weights: "0.5,x"})
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	details := apiErr.Details.([]apierrors.ValidationError)
	require.Len(t, details, 1)
	assert.Equal(t, "weights", details[0].Field)
	assert.Contains(t, details[0].Message, "comma-separated list of numbers")
}

func TestValidateRequest(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	m := NewValidationMiddleware(logger, apierrors.NewErrorHandler(logger, false), 64)

	var body string
	h := m.ValidateRequest(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name     string
		method   string
		body     string
		wantCode int
	}{
		{name: "valid json passes through", method: http.MethodPost, body: `{"calculator":"bom"}`, wantCode: http.StatusOK},
		{name: "get skipped", method: http.MethodGet, wantCode: http.StatusOK},
		{name: "invalid json", method: http.MethodPost, body: `{"calculator":`, wantCode: http.StatusBadRequest},
		{name: "too large", method: http.MethodPost, body: `{"input":"` + strings.Repeat("x", 100) + `"}`, wantCode: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body = ""
			var rd io.Reader
			if tt.body != "" {
				rd = strings.NewReader(tt.body)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, "/api/v1/calculate/bom", rd))

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, tt.body, body)
				return
			}
			var problem map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
			assert.EqualValues(t, tt.wantCode, problem["status"])
		})
	}
}
