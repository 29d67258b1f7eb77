package cmd

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/straye-as/staffing-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	kind, err := parseKind("Saved-Minus-Requested")
	require.NoError(t, err)
	assert.Equal(t, domain.LaborEstimateSavedMinusRequested, kind)

	kind, err = parseKind("expected")
	require.NoError(t, err)
	assert.Equal(t, domain.LaborEstimateExpected, kind)

	_, err = parseKind("planned")
	assert.Error(t, err)
}

func TestParseID(t *testing.T) {
	id := uuid.New()
	parsed, err := parseID("module", id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = parseID("module", "abc")
	assert.ErrorContains(t, err, "--module")
}

func TestWriteEstimate(t *testing.T) {
	estimate := &domain.LaborEstimate{
		Kind: domain.LaborEstimateExpected,
		Positions: []domain.PositionLaborEstimate{
			{PositionID: uuid.New(), PositionName: "Backend Developer", Hours: decimal.NewNullDecimal(decimal.RequireFromString("12.5")), Workers: 2},
		},
	}

	t.Run("table", func(t *testing.T) {
		outputFormat = "table"
		var buf bytes.Buffer
		require.NoError(t, writeEstimate(&buf, estimate))

		assert.Contains(t, buf.String(), "POSITION")
		assert.Contains(t, buf.String(), "12.50")
		assert.Contains(t, buf.String(), "Backend Developer")
	})

	t.Run("headcount table", func(t *testing.T) {
		outputFormat = "table"
		var buf bytes.Buffer
		require.NoError(t, writeEstimate(&buf, &domain.LaborEstimate{Kind: domain.LaborEstimateRequested}))

		assert.NotContains(t, buf.String(), "HOURS")
		assert.Contains(t, buf.String(), "(no positions)")
	})

	t.Run("json", func(t *testing.T) {
		outputFormat = "json"
		t.Cleanup(func() { outputFormat = "table" })
		var buf bytes.Buffer
		require.NoError(t, writeEstimate(&buf, estimate))

		assert.Contains(t, buf.String(), `"hoursCount": 12.5`)
		assert.Contains(t, buf.String(), `"kind": "expected"`)
	})
}
