// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

// Command phe is a command line client of the phe package. It enrolls and
// verifies passwords against a PHE crypto service and rotates stored records
// with update tokens.
package main

import (
	"context"
	"crypto/rand"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/frekui/phe"
	"github.com/frekui/phe/client"
	"github.com/frekui/phe/internal/config"
	"github.com/frekui/phe/internal/pkg/util"
)

type options struct {
	enroll, verify, update bool
	record                 string
	seal, open             string
}

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "%s is a command line client of the phe package.\nUsage:\n", os.Args[0])
		fmt.Fprintf(fs.Output(), "  %s -enroll -record file [-seal text]\n", os.Args[0])
		fmt.Fprintf(fs.Output(), "  %s -verify -record file [-seal text | -open ciphertext]\n", os.Args[0])
		fmt.Fprintf(fs.Output(), "  %s -update -ut token file...\n", os.Args[0])
		fs.PrintDefaults()
	}

	var opts options
	fs.BoolVar(&opts.enroll, "enroll", false, "Enroll a password and write the record.")
	fs.BoolVar(&opts.verify, "verify", false, "Verify a password against the record.")
	fs.BoolVar(&opts.update, "update", false, "Update records to the version of -ut.")
	fs.StringVar(&opts.record, "record", "", "Record `file`.")
	fs.StringVar(&opts.seal, "seal", "", "Encrypt `text` with the key recovered by -enroll or -verify.")
	fs.StringVar(&opts.open, "open", "", "Decrypt `ciphertext` with the key recovered by -verify.")

	cfg, err := config.Load(fs, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(2)
	}
	if n := countTrue(opts.enroll, opts.verify, opts.update); n != 1 {
		fmt.Fprintf(os.Stderr, "Exactly one of -enroll, -verify and -update must be given.\n")
		fs.Usage()
		os.Exit(2)
	}
	level, err := cfg.Level()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(2)
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx := context.Background()
	switch {
	case opts.update:
		files := fs.Args()
		if opts.record != "" {
			files = append(files, opts.record)
		}
		err = doUpdate(ctx, log, cfg.UpdateToken, files)
	case opts.enroll:
		err = withProtocol(cfg, log, func(p *phe.Protocol) error {
			return doEnroll(ctx, p, opts)
		})
	case opts.verify:
		err = withProtocol(cfg, log, func(p *phe.Protocol) error {
			return doVerify(ctx, p, opts)
		})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func countTrue(bs ...bool) int {
	n := 0
	for _, b := range bs {
		if b {
			n++
		}
	}
	return n
}

func withProtocol(cfg *config.Config, log *slog.Logger, f func(*phe.Protocol) error) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	var tokens []string
	if cfg.UpdateToken != "" {
		tokens = append(tokens, cfg.UpdateToken)
	}
	keys, err := phe.NewContext(cfg.AppSecretKey, cfg.ServicePublicKey, tokens, phe.WithLogger(log))
	if err != nil {
		return err
	}
	copts := []client.Option{
		client.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		client.WithLogger(log),
	}
	if cfg.RateLimit > 0 {
		copts = append(copts, client.WithRateLimit(cfg.RateLimit, 1))
	}
	c, err := client.New(cfg.ServiceURL, cfg.AppToken, copts...)
	if err != nil {
		return err
	}
	p, err := phe.NewProtocol(keys, c, phe.WithLogger(log))
	if err != nil {
		return err
	}
	return f(p)
}

func doEnroll(ctx context.Context, p *phe.Protocol, opts options) error {
	if opts.record == "" {
		return errors.New("enroll: -record is required")
	}
	if opts.open != "" {
		return errors.New("enroll: -open can't be used with -enroll")
	}
	password, err := util.ReadPassword(os.Stdin, os.Stderr, "Password: ")
	if err != nil {
		return err
	}
	res, err := p.EnrollAccount(ctx, password)
	if err != nil {
		return err
	}
	if err := util.WriteRecord(opts.record, res.Record); err != nil {
		return err
	}
	fmt.Printf("Wrote record to %s\n", opts.record)
	if opts.seal != "" {
		sealed, err := util.Seal(rand.Reader, res.Key, opts.seal)
		if err != nil {
			return err
		}
		fmt.Println(sealed)
	}
	return nil
}

func doVerify(ctx context.Context, p *phe.Protocol, opts options) error {
	if opts.record == "" {
		return errors.New("verify: -record is required")
	}
	record, err := util.ReadRecord(opts.record)
	if err != nil {
		return err
	}
	password, err := util.ReadPassword(os.Stdin, os.Stderr, "Password: ")
	if err != nil {
		return err
	}
	res, err := p.VerifyPassword(ctx, password, record)
	if err != nil {
		return err
	}
	if !res.Success {
		return errors.New("wrong password")
	}
	fmt.Println("Password verified")
	if opts.seal != "" {
		sealed, err := util.Seal(rand.Reader, res.Key, opts.seal)
		if err != nil {
			return err
		}
		fmt.Println(sealed)
	}
	if opts.open != "" {
		plaintext, err := util.Open(res.Key, opts.open)
		if err != nil {
			return err
		}
		fmt.Printf("Received '%s'\n", plaintext)
	}
	return nil
}

func doUpdate(ctx context.Context, log *slog.Logger, token string, files []string) error {
	if token == "" {
		return errors.New("update: -ut is required")
	}
	if len(files) == 0 {
		return errors.New("update: no record files given")
	}
	u, err := phe.NewRecordUpdater(token, phe.WithLogger(log))
	if err != nil {
		return err
	}
	records := make([][]byte, len(files))
	for i, f := range files {
		if records[i], err = util.ReadRecord(f); err != nil {
			return err
		}
	}
	updated, err := u.UpdateAll(ctx, records, 0)
	if err != nil {
		return err
	}
	for i, f := range files {
		if err := util.WriteRecord(f, updated[i]); err != nil {
			return err
		}
	}
	fmt.Printf("Updated %d records to version %d\n", len(files), u.Version())
	return nil
}
