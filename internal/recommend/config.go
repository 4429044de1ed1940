// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package recommend

import "fmt"

// Config contains configuration for the recommendation engine.
type Config struct {
	// DefaultN is the number of recommendations returned when the caller
	// does not ask for a specific count.
	DefaultN int `json:"default_n"`

	// MaxN is the largest count a caller may request.
	MaxN int `json:"max_n"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() *Config {
	return &Config{
		DefaultN: 10,
		MaxN:     50,
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.DefaultN < 1 {
		return fmt.Errorf("default_n must be positive, got %d", c.DefaultN)
	}
	if c.MaxN < c.DefaultN {
		return fmt.Errorf("max_n (%d) must be >= default_n (%d)", c.MaxN, c.DefaultN)
	}
	return nil
}
