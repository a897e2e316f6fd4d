// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

// Package config loads the settings of cmd/phe. Values come from, in order of
// increasing precedence, built-in defaults, a JSON file named by -config and
// command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Config holds the settings shared by all cmd/phe operations.
type Config struct {
	// ServiceURL is the base URL of the crypto service.
	ServiceURL string
	AppToken   string

	// Key strings "SK.<v>.<b64>", "PK.<v>.<b64>" and "UT.<v>.<b64>".
	AppSecretKey     string
	ServicePublicKey string
	UpdateToken      string

	// Timeout bounds a single request to the service.
	Timeout time.Duration
	// RateLimit is the maximum number of requests per second to the
	// service. Zero means no limit.
	RateLimit float64
	LogLevel  string
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.ServiceURL = "https://api.passw0rd.io/"
	c.Timeout = 10 * time.Second
	c.LogLevel = "info"
}

// Validate checks that the settings needed to talk to the service are
// present.
func (c *Config) Validate() error {
	var missing []string
	if c.ServiceURL == "" {
		missing = append(missing, "service url")
	}
	if c.AppToken == "" {
		missing = append(missing, "app token")
	}
	if c.AppSecretKey == "" {
		missing = append(missing, "app secret key")
	}
	if c.ServicePublicKey == "" {
		missing = append(missing, "service public key")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: missing %s", strings.Join(missing, ", "))
	}
	if c.Timeout <= 0 {
		return errors.New("config: timeout must be positive")
	}
	if c.RateLimit < 0 {
		return errors.New("config: rate limit must not be negative")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns LogLevel as a slog.Level.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: invalid log level %q", c.LogLevel)
	}
	return l, nil
}

// Load builds a Config from defaults, the JSON file named by -config in args
// (if any) and the flags in args. fs must not have been parsed; Load defines
// its flags on it and parses args with it, so callers can add flags of their
// own before calling Load.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	path, err := jsonConfigPath(args)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := parseJSON(cfg, path); err != nil {
			return nil, err
		}
	}
	if err := parseFlags(fs, cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
