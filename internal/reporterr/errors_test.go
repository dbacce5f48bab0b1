package reporterr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/pnl-forecast/internal/reporterr"
)

func TestMissingHeaderError(t *testing.T) {
	err := &reporterr.MissingHeaderError{Field: "StartPeriod"}
	assert.Equal(t, "report header is missing required field 'StartPeriod'", err.Error())

	wrapped := fmt.Errorf("normalizing report: %w", err)
	var target *reporterr.MissingHeaderError
	require.ErrorAs(t, wrapped, &target)
	assert.Equal(t, "StartPeriod", target.Field)
}

func TestInvalidShapeError(t *testing.T) {
	err := &reporterr.InvalidShapeError{Section: "header", Reason: "unparseable StartPeriod"}
	assert.Equal(t, "invalid report shape in header: unparseable StartPeriod", err.Error())
}

func TestNoActivityError(t *testing.T) {
	err := &reporterr.NoActivityError{Months: 3}
	assert.Contains(t, err.Error(), "no material line items")
	assert.Contains(t, err.Error(), "3 months")
}

func TestValueParseErrorUnwrap(t *testing.T) {
	cause := errors.New("invalid syntax")
	err := &reporterr.ValueParseError{
		Line:  "Office Rent",
		Month: "Jan 2024",
		Raw:   "abc",
		Err:   cause,
	}

	assert.Contains(t, err.Error(), "Office Rent")
	assert.Contains(t, err.Error(), "abc")
	assert.ErrorIs(t, err, cause)
}
