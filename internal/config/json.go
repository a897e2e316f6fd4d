// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// duration accepts "10s" style strings or integer nanoseconds.
type duration time.Duration

func (d *duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch v := v.(type) {
	case float64:
		*d = duration(v)
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*d = duration(parsed)
	default:
		return fmt.Errorf("invalid duration %s", b)
	}
	return nil
}

// jsonConfig is the file format. Absent fields keep their earlier value.
type jsonConfig struct {
	ServiceURL       *string   `json:"service_url"`
	AppToken         *string   `json:"app_token"`
	AppSecretKey     *string   `json:"app_secret_key"`
	ServicePublicKey *string   `json:"service_public_key"`
	UpdateToken      *string   `json:"update_token"`
	Timeout          *duration `json:"timeout"`
	RateLimit        *float64  `json:"rate_limit"`
	LogLevel         *string   `json:"log_level"`
}

func parseJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("config: %s: %w", path, err)
	}
	for _, f := range []struct {
		src *string
		dst *string
	}{
		{jc.ServiceURL, &cfg.ServiceURL},
		{jc.AppToken, &cfg.AppToken},
		{jc.AppSecretKey, &cfg.AppSecretKey},
		{jc.ServicePublicKey, &cfg.ServicePublicKey},
		{jc.UpdateToken, &cfg.UpdateToken},
		{jc.LogLevel, &cfg.LogLevel},
	} {
		if f.src != nil {
			*f.dst = *f.src
		}
	}
	if jc.Timeout != nil {
		cfg.Timeout = time.Duration(*jc.Timeout)
	}
	if jc.RateLimit != nil {
		cfg.RateLimit = *jc.RateLimit
	}
	return nil
}
