// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package config

import (
	"errors"
	"flag"
	"strings"
)

var errMissingConfigPath = errors.New("config: -config requires a file name")

// configFlag names the JSON file. It's parsed on its own before the other
// flags so that flags can override the file.
const configFlag = "config"

// jsonConfigPath returns the value of -config or --config in args.
func jsonConfigPath(args []string) (string, error) {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		name := strings.TrimLeft(arg, "-")
		if name == arg || len(arg)-len(name) > 2 {
			continue
		}
		if name == configFlag {
			if i+1 < len(args) {
				return args[i+1], nil
			}
			return "", errMissingConfigPath
		}
		if v, ok := strings.CutPrefix(name, configFlag+"="); ok {
			return v, nil
		}
	}
	return "", nil
}

func parseFlags(fs *flag.FlagSet, cfg *Config, args []string) error {
	fs.String(configFlag, "", "JSON configuration `file`")
	fs.StringVar(&cfg.ServiceURL, "url", cfg.ServiceURL, "base `url` of the crypto service")
	fs.StringVar(&cfg.AppToken, "app-token", cfg.AppToken, "application `token` for the crypto service")
	fs.StringVar(&cfg.AppSecretKey, "sk", cfg.AppSecretKey, "application secret `key` (SK.<version>.<base64>)")
	fs.StringVar(&cfg.ServicePublicKey, "pk", cfg.ServicePublicKey, "service public `key` (PK.<version>.<base64>)")
	fs.StringVar(&cfg.UpdateToken, "ut", cfg.UpdateToken, "update `token` (UT.<version>.<base64>)")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "timeout of a request to the service")
	fs.Float64Var(&cfg.RateLimit, "rate", cfg.RateLimit, "maximum requests per second to the service, 0 for no limit")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log `level`: debug, info, warn or error")
	return fs.Parse(args)
}
