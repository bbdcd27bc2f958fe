package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ja-alumni/erp/internal/access"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestJSONWrapsData(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, map[string]string{"id": "1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	resp := decode(t, rec)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
}

func TestDeniedMapsDecisions(t *testing.T) {
	tests := []struct {
		name     string
		decision access.Decision
		status   int
		code     string
	}{
		{"region", access.Decision{Outcome: access.OutcomeDenied, Reason: access.ReasonRegionMismatch}, http.StatusForbidden, "FORBIDDEN"},
		{"missing", access.Decision{Outcome: access.OutcomeDenied, Reason: access.ReasonNotFound}, http.StatusNotFound, "NOT_FOUND"},
		{"invalid", access.Decision{Outcome: access.OutcomeInvalidTarget, Reason: access.ReasonInvalidTarget}, http.StatusUnprocessableEntity, "INVALID_TARGET"},
		{"unknown role", access.Decision{Outcome: access.OutcomeUnknownRole, Reason: access.ReasonInsufficientRole}, http.StatusForbidden, "UNKNOWN_ROLE"},
		{"fallback", access.Decision{Outcome: access.OutcomeDenied, Reason: access.Reason("other")}, http.StatusForbidden, "FORBIDDEN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Denied(rec, tt.decision)

			assert.Equal(t, tt.status, rec.Code)
			resp := decode(t, rec)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.Message)
		})
	}
}
