// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package phe

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// RecordUpdater moves stored records to the version of an update token. It
// needs neither passwords nor keys, and it's safe for concurrent use.
type RecordUpdater struct {
	token  *UpdateToken
	crypto *Crypto
	log    *slog.Logger
}

// NewRecordUpdater returns an updater for the token "UT.<version>.<base64>".
func NewRecordUpdater(updateToken string, opts ...Option) (*RecordUpdater, error) {
	token, err := ParseUpdateToken(updateToken)
	if err != nil {
		return nil, err
	}
	o := newOptions(opts)
	return &RecordUpdater{token: token, crypto: NewCrypto(o.rand), log: o.log}, nil
}

// Version returns the version records have after Update.
func (u *RecordUpdater) Version() uint32 {
	return u.token.Version
}

// Update returns a copy of record moved to the token's version. The record
// must be exactly one version behind the token; a record that is already
// up to date, or more than one version behind, gives a *VersionError.
func (u *RecordUpdater) Update(record []byte) ([]byte, error) {
	dbr, rec, err := parseDatabaseRecord(record)
	if err != nil {
		return nil, err
	}
	if dbr.Version+1 != u.token.Version {
		return nil, &VersionError{Op: "update record", Have: dbr.Version, Want: u.token.Version - 1}
	}
	t0, t1, err := u.crypto.UpdateT(rec.NS, rec.T0, rec.T1, u.token)
	if err != nil {
		return nil, err
	}
	data, err := (&EnrollmentRecord{NC: rec.NC, NS: rec.NS, T0: t0, T1: t1}).MarshalBinary()
	if err != nil {
		return nil, err
	}
	return (&DatabaseRecord{Version: u.token.Version, Record: data}).MarshalBinary()
}

// UpdateAll updates records concurrently, running at most limit updates at
// a time (no limit if limit <= 0). The result has the same order as
// records. If any record fails nothing is returned.
func (u *RecordUpdater) UpdateAll(ctx context.Context, records [][]byte, limit int) ([][]byte, error) {
	out := make([][]byte, len(records))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, rec := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			updated, err := u.Update(rec)
			if err != nil {
				return fmt.Errorf("record %d: %w", i, err)
			}
			out[i] = updated
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	u.log.InfoContext(ctx, "updated records", "count", len(records), "version", u.token.Version)
	return out, nil
}
