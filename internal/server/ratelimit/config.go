// Defines rate limit tiers and routing rules.

package ratelimit

import (
	"net/http"
	"time"
)

// Tier defines a named rate limit tier.
type Tier struct {
	Name    string
	Limiter *Limiter
}

// Config holds the rate limiters applied per client IP. A tier without a
// limiter is disabled.
type Config struct {
	Write Tier
	Read  Tier
}

// NewConfig creates the write and read tiers from per-minute rates. A zero or
// negative rate disables that tier. Burst capacity is a sixth of the rate so
// short spikes pass while sustained abuse is held to the configured rate.
func NewConfig(writePerMin, readPerMin int) *Config {
	c := &Config{
		Write: Tier{Name: "write"},
		Read:  Tier{Name: "read"},
	}
	if writePerMin > 0 {
		c.Write.Limiter = NewLimiter(writePerMin, time.Minute, max(writePerMin/6, 1))
	}
	if readPerMin > 0 {
		c.Read.Limiter = NewLimiter(readPerMin, time.Minute, max(readPerMin/6, 1))
	}
	return c
}

// Match returns the tier for a request, or nil for requests that are not
// rate limited. Health checks are always exempt.
func (c *Config) Match(method, path string) *Tier {
	if path == "/api/health" {
		return nil
	}
	switch method {
	case http.MethodGet, http.MethodHead:
		if c.Read.Limiter == nil {
			return nil
		}
		return &c.Read
	case http.MethodPost, http.MethodPut, http.MethodDelete:
		if c.Write.Limiter == nil {
			return nil
		}
		return &c.Write
	}
	return nil
}

// Close stops all limiter cleanup goroutines.
func (c *Config) Close() {
	if c.Write.Limiter != nil {
		c.Write.Limiter.Close()
	}
	if c.Read.Limiter != nil {
		c.Read.Limiter.Close()
	}
}
