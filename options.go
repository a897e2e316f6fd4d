// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package phe

import (
	"io"
	"log/slog"
)

type options struct {
	log  *slog.Logger
	rand io.Reader
}

// Option configures a Context, Protocol or RecordUpdater.
type Option func(*options)

// WithLogger makes the component log to l. By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithRandom replaces crypto/rand.Reader as the source of randomness. It's
// meant for tests that need deterministic output.
func WithRandom(r io.Reader) Option {
	return func(o *options) {
		o.rand = r
	}
}

func newOptions(opts []Option) options {
	o := options{
		log:  slog.New(slog.DiscardHandler),
		rand: randr,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
