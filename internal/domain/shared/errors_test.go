package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_Is(t *testing.T) {
	err := NotFound("customer C-1 not found")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrInvalidInput))

	wrapped := fmt.Errorf("loading customer: %w", err)
	assert.True(t, errors.Is(wrapped, ErrNotFound))

	var de *DomainError
	require.True(t, errors.As(wrapped, &de))
	assert.Equal(t, CodeNotFound, de.Code)
	assert.Equal(t, "customer C-1 not found", de.Message)
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Upstream("query kpi_summary", cause)

	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, ErrUpstream))
	assert.Equal(t, "query kpi_summary: connection reset", err.Error())
}
