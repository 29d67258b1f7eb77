package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/straye-as/staffing-api/internal/domain"
	"github.com/straye-as/staffing-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"module not found", fmt.Errorf("%w: abc", service.ErrModuleNotFound), http.StatusNotFound, domain.ErrorTypeNotFound},
		{"project not found", service.ErrProjectNotFound, http.StatusNotFound, domain.ErrorTypeNotFound},
		{"invalid calendar", service.ErrInvalidWorkCalendar, http.StatusBadRequest, domain.ErrorTypeBadRequest},
		{"unknown position", service.ErrPositionNotFound, http.StatusBadRequest, domain.ErrorTypeBadRequest},
		{"conflict", fmt.Errorf("%w: deadlock detected", service.ErrTransactionConflict), http.StatusConflict, domain.ErrorTypeConflict},
		{"not implemented", service.ErrNotImplemented, http.StatusNotImplemented, domain.ErrorTypeNotImplemented},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, domain.ErrorTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			respondServiceError(w, tt.err, "Failed to get labor estimate")

			assert.Equal(t, tt.wantStatus, w.Code)
			var body domain.APIError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Equal(t, tt.wantType, body.Type)
		})
	}

	t.Run("internal errors are not leaked", func(t *testing.T) {
		w := httptest.NewRecorder()
		respondServiceError(w, errors.New("pq: password authentication failed"), "Failed to get labor estimate")

		assert.NotContains(t, w.Body.String(), "password")
		assert.Contains(t, w.Body.String(), "Failed to get labor estimate")
	})
}

func TestToJSONFieldPath(t *testing.T) {
	assert.Equal(t, "positions[0].workersCount", toJSONFieldPath("UpdateSavedLaborEstimateRequest.Positions[0].WorkersCount"))
}
