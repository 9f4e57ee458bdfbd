package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// This test requires a running memcached instance
// If memcached is not available, the test will be skipped
func TestMemcacheService(t *testing.T) {
	mc := NewMemcacheService("localhost:11211", 200*time.Millisecond)

	if err := mc.Ping(); err != nil {
		t.Skip("Memcached is not available, skipping test")
	}

	err := mc.Set("test_key", []byte("test_value"), 1*time.Second)
	assert.NoError(t, err)

	value, err := mc.Get("test_key")
	assert.NoError(t, err)
	assert.Equal(t, "test_value", string(value))

	err = mc.Delete("test_key")
	assert.NoError(t, err)

	// Try to get the deleted value
	_, err = mc.Get("test_key")
	assert.ErrorIs(t, err, ErrMiss)

	// Deleting twice is fine
	assert.NoError(t, mc.Delete("test_key"))
}

func TestMemcacheCooldown(t *testing.T) {
	mc := NewMemcacheService("localhost:11211", 200*time.Millisecond)
	if err := mc.Ping(); err != nil {
		t.Skip("Memcached is not available, skipping test")
	}

	cooldown := NewCooldown(mc, "https://www.yogonet.com/international/", 2*time.Second)
	defer mc.Delete(cooldown.Key())

	assert.NoError(t, cooldown.Start())
	assert.True(t, cooldown.Active())
}
