package logging

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRateLimit(t *testing.T) {
	assert.False(t, IsRateLimit(nil))
	assert.False(t, IsRateLimit(errors.New("connection refused")))
	assert.True(t, IsRateLimit(errors.New("pubmed esearch: status 429")))
	assert.True(t, IsRateLimit(fmt.Errorf("upstream: %w", errors.New("rate limit exceeded"))))
}

func TestIsNotFound(t *testing.T) {
	assert.False(t, IsNotFound(nil))
	assert.False(t, IsNotFound(errors.New("timeout")))
	assert.True(t, IsNotFound(errors.New("user not found")))
	assert.True(t, IsNotFound(errors.New("timeline: status 404")))
}
