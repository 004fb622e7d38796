package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffDelayGrowsAndCaps(t *testing.T) {
	assert.Equal(t, 2*time.Second, backoffDelay(1))
	assert.Equal(t, 4*time.Second, backoffDelay(2))
	assert.Equal(t, 8*time.Second, backoffDelay(3))
	assert.Equal(t, 16*time.Second, backoffDelay(4))
	// capped from here on
	assert.Equal(t, 16*time.Second, backoffDelay(5))
	assert.Equal(t, 16*time.Second, backoffDelay(10))
}
