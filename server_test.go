// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package phe

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/frekui/phe/internal/pkg/ec"
)

// testServer is an in-process crypto server. It keeps one secret key per
// version and answers requests the way the real service does.
type testServer struct {
	mu     sync.Mutex
	crypto *Crypto
	keys   map[uint32]*SecretKey

	// Hooks for simulating broken or malicious servers.
	modifyEnroll func(*EnrollmentResponse)
	modifyVerify func(*VerifyPasswordResponse)
	err          error

	requests int
}

func newTestServer(sk *SecretKey) *testServer {
	return &testServer{
		crypto: NewCrypto(nil),
		keys:   map[uint32]*SecretKey{1: sk},
	}
}

// rotate moves the server to the next version: sk' = a*sk + b.
func (s *testServer) rotate(token *UpdateToken) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.keys[token.Version-1]
	d := ec.Add(ec.Mul(prev.d, token.a, ec.N), token.b, ec.N)
	s.keys[token.Version] = &SecretKey{d: d}
}

func (s *testServer) key(version uint32) (*SecretKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests++
	if s.err != nil {
		return nil, s.err
	}
	sk, ok := s.keys[version]
	if !ok {
		return nil, fmt.Errorf("unknown version %d", version)
	}
	return sk, nil
}

func (s *testServer) GetEnrollment(ctx context.Context, req *EnrollmentRequest) (*EnrollmentResponse, error) {
	sk, err := s.key(req.Version)
	if err != nil {
		return nil, err
	}
	ns, err := s.crypto.GenerateNonce()
	if err != nil {
		return nil, err
	}
	c0, c1, err := s.crypto.ComputeC(sk, ns)
	if err != nil {
		return nil, err
	}
	proof, err := s.crypto.ProveSuccess(sk, ns, c0, c1)
	if err != nil {
		return nil, err
	}
	resp := &EnrollmentResponse{NS: ns, C0: c0, C1: c1, Proof: proof}
	if s.modifyEnroll != nil {
		s.modifyEnroll(resp)
	}
	return resp, nil
}

func (s *testServer) VerifyPassword(ctx context.Context, req *VerifyPasswordRequest) (*VerifyPasswordResponse, error) {
	sk, err := s.key(req.Version)
	if err != nil {
		return nil, err
	}
	ok, err := s.crypto.VerifyC0(sk, req.NS, req.C0)
	if err != nil {
		return nil, err
	}
	var resp *VerifyPasswordResponse
	if ok {
		_, c1, err := s.crypto.ComputeC(sk, req.NS)
		if err != nil {
			return nil, err
		}
		proof, err := s.crypto.ProveSuccess(sk, req.NS, req.C0, c1)
		if err != nil {
			return nil, err
		}
		resp = &VerifyPasswordResponse{Res: true, C1: c1, Success: proof}
	} else {
		c1, proof, err := s.crypto.ProveFailure(sk, req.NS, req.C0)
		if err != nil {
			return nil, err
		}
		resp = &VerifyPasswordResponse{Res: false, C1: c1, Fail: proof}
	}
	if s.modifyVerify != nil {
		s.modifyVerify(resp)
	}
	return resp, nil
}

var errServerDown = errors.New("server down")
