// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package phe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Client sends requests to the crypto server. The client package contains
// an implementation over HTTP. Retries and timeouts are the Client's
// responsibility.
type Client interface {
	GetEnrollment(ctx context.Context, req *EnrollmentRequest) (*EnrollmentResponse, error)
	VerifyPassword(ctx context.Context, req *VerifyPasswordRequest) (*VerifyPasswordResponse, error)
}

// Protocol runs enrollment and verification against a crypto server.
type Protocol struct {
	keys   *Context
	client Client
	crypto *Crypto
	log    *slog.Logger
}

func NewProtocol(keys *Context, client Client, opts ...Option) (*Protocol, error) {
	if keys == nil {
		return nil, errors.New("phe: nil context")
	}
	if client == nil {
		return nil, errors.New("phe: nil client")
	}
	o := newOptions(opts)
	return &Protocol{
		keys:   keys,
		client: client,
		crypto: NewCrypto(o.rand),
		log:    o.log,
	}, nil
}

// EnrollResult is the outcome of a successful enrollment. Record is the
// serialized DatabaseRecord to store for the user and Key is the 32 byte
// secret that VerifyPassword returns for the right password.
type EnrollResult struct {
	Record []byte
	Key    []byte
}

// VerifyResult is the outcome of a verification that completed without a
// protocol error. If Success is false the password was wrong and Key is nil.
type VerifyResult struct {
	Success bool
	Key     []byte
}

// EnrollAccount enrolls a new user with the current key version.
//
// If the server's proof of success doesn't validate ErrProofOfSuccessInvalid
// is returned; that's a problem with the server, not with the password.
func (p *Protocol) EnrollAccount(ctx context.Context, password []byte) (*EnrollResult, error) {
	if len(password) == 0 {
		return nil, ErrEmptyPassword
	}
	kp := p.keys.Current()

	resp, err := p.client.GetEnrollment(ctx, &EnrollmentRequest{Version: kp.Version})
	if err != nil {
		return nil, fmt.Errorf("enroll: %w", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("enroll: %w", ErrInvalidResponse)
	}
	if err := p.crypto.ValidateProofOfSuccess(resp.Proof, kp.PublicKey, resp.NS, resp.C0, resp.C1); err != nil {
		return nil, fmt.Errorf("enroll: %w", err)
	}

	nc, err := p.crypto.GenerateNonce()
	if err != nil {
		return nil, err
	}
	t0, t1, key, err := p.crypto.ComputeT(kp.SecretKey, password, nc, resp.C0, resp.C1)
	if err != nil {
		return nil, fmt.Errorf("enroll: %w", err)
	}

	rec, err := (&EnrollmentRecord{NC: nc, NS: resp.NS, T0: t0, T1: t1}).MarshalBinary()
	if err != nil {
		return nil, err
	}
	record, err := (&DatabaseRecord{Version: kp.Version, Record: rec}).MarshalBinary()
	if err != nil {
		return nil, err
	}
	p.log.InfoContext(ctx, "enrolled account", "version", kp.Version)
	return &EnrollResult{Record: record, Key: key}, nil
}

// VerifyPassword checks password against a record returned by EnrollAccount
// or RecordUpdater.Update.
//
// A wrong password is not an error: the result has Success set to false.
// Errors are returned for malformed records, for records whose version the
// context has no keys for (*VersionError), for transport failures and for
// server responses whose proof doesn't validate. No key is returned unless
// the server's proof of success validates.
func (p *Protocol) VerifyPassword(ctx context.Context, password, record []byte) (*VerifyResult, error) {
	if len(password) == 0 {
		return nil, ErrEmptyPassword
	}
	dbr, rec, err := parseDatabaseRecord(record)
	if err != nil {
		return nil, err
	}
	kp, ok := p.keys.KeyPair(dbr.Version)
	if !ok {
		return nil, &VersionError{Op: "verify", Have: dbr.Version, Want: p.keys.CurrentVersion()}
	}

	c0, err := p.crypto.ComputeC0(kp.SecretKey, password, rec.NC, rec.T0)
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}
	resp, err := p.client.VerifyPassword(ctx, &VerifyPasswordRequest{Version: dbr.Version, NS: rec.NS, C0: c0})
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("verify: %w", ErrInvalidResponse)
	}

	if !resp.Res {
		if resp.Fail == nil {
			return nil, fmt.Errorf("verify: %w", ErrProofNotProvided)
		}
		if err := p.crypto.ValidateProofOfFail(resp.Fail, kp.PublicKey, rec.NS, c0, resp.C1); err != nil {
			return nil, fmt.Errorf("verify: %w", err)
		}
		p.log.InfoContext(ctx, "password verification failed", "version", dbr.Version)
		return &VerifyResult{Success: false}, nil
	}

	if resp.Success == nil {
		return nil, fmt.Errorf("verify: %w", ErrProofNotProvided)
	}
	if err := p.crypto.ValidateProofOfSuccess(resp.Success, kp.PublicKey, rec.NS, c0, resp.C1); err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}
	key, err := p.crypto.DecryptM(kp.SecretKey, password, rec.NC, rec.T1, resp.C1)
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}
	p.log.InfoContext(ctx, "password verified", "version", dbr.Version)
	return &VerifyResult{Success: true, Key: key}, nil
}

// UpdateEnrollmentRecord moves a record to the context's current version
// using the last update token the context was given.
func (p *Protocol) UpdateEnrollmentRecord(record []byte) ([]byte, error) {
	token := p.keys.UpdateToken()
	if token == nil {
		return nil, fmt.Errorf("%w: context has no update token", ErrInvalidUpdateToken)
	}
	u := &RecordUpdater{token: token, crypto: p.crypto, log: p.log}
	return u.Update(record)
}
