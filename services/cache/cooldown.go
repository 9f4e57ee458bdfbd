package cache

import (
	"errors"
	"net/url"
	"time"

	"sjsage522/newsworker/logger"
)

// Cooldown pauses harvesting of a site after it rate-limited us. The pause
// lives in the cache so it survives process restarts.
type Cooldown struct {
	cache    CacheService
	key      string
	duration time.Duration
	log      *logger.Logger
}

// NewCooldown creates a cooldown keyed by the host of pageURL
func NewCooldown(c CacheService, pageURL string, duration time.Duration) *Cooldown {
	host := pageURL
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		host = u.Host
	}
	key := "newsworker:cooldown:" + host
	return &Cooldown{
		cache:    c,
		key:      key,
		duration: duration,
		log:      logger.ForCache().WithField("key", key),
	}
}

// Active reports whether a cooldown is in effect. A cache that cannot be
// reached counts as no cooldown.
func (c *Cooldown) Active() bool {
	value, err := c.cache.Get(c.key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			c.log.Warn().Err(err).Msg("Failed to read cooldown")
		}
		return false
	}
	c.log.Info().Str("until", string(value)).Msg("Cooldown active")
	return true
}

// Start begins a cooldown of the configured duration
func (c *Cooldown) Start() error {
	until := time.Now().Add(c.duration).UTC().Format(time.RFC3339)
	if err := c.cache.Set(c.key, []byte(until), c.duration); err != nil {
		c.log.Error().Err(err).Msg("Failed to start cooldown")
		return err
	}
	c.log.Warn().Str("until", until).Msg("Cooldown started")
	return nil
}

// Key returns the cache key
func (c *Cooldown) Key() string {
	return c.key
}
