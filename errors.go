// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package phe

import (
	"errors"
	"fmt"
)

// Input validation errors. These are detected before any cryptographic work
// is done.
var (
	ErrInvalidKeyString   = errors.New("phe: invalid key string")
	ErrInvalidKeyLength   = errors.New("phe: invalid key length")
	ErrInvalidSecretKey   = errors.New("phe: secret key is not in [1, N)")
	ErrInvalidUpdateToken = errors.New("phe: invalid update token")
	ErrInvalidRecord      = errors.New("phe: invalid record")
	ErrInvalidNonce       = errors.New("phe: invalid nonce")
	ErrEmptyPassword      = errors.New("phe: empty password")
)

// Protocol violations. These mean that the crypto server is misconfigured or
// malicious and must never be ignored.
var (
	ErrProofOfSuccessInvalid = errors.New("phe: server proof of success is invalid")
	ErrProofOfFailInvalid    = errors.New("phe: server proof of fail is invalid")
	ErrProofNotProvided      = errors.New("phe: server response does not contain a proof")
	ErrInvalidResponse       = errors.New("phe: invalid server response")
)

// ErrVersionMismatch matches every *VersionError.
var ErrVersionMismatch = errors.New("phe: version mismatch")

// VersionError is returned when a record, key or update token has a version
// other than the one the operation requires. The operation has no side
// effects when it fails with a VersionError.
type VersionError struct {
	Op   string
	Have uint32
	Want uint32
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("phe: %s: version mismatch: have %d, want %d", e.Op, e.Have, e.Want)
}

func (e *VersionError) Is(target error) bool {
	return target == ErrVersionMismatch
}
