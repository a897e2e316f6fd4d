// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package phe

import (
	"fmt"
	"math/big"

	"github.com/frekui/phe/internal/pkg/ec"
	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// UpdateToken moves keys and records from version Version-1 to Version. It
// holds the scalars a and b of the affine map
//
//	sk' = a*sk,  pk' = a*pk + b*G,  T' = a*T + b*hs
//
// A token is only meaningful for that single step.
type UpdateToken struct {
	Version uint32
	a, b    *big.Int
}

// NewUpdateToken returns the token for the step to version from the
// big-endian scalars a and b. a must be in [1, N) and b in [0, N).
func NewUpdateToken(version uint32, a, b []byte) (*UpdateToken, error) {
	if version < 1 {
		return nil, fmt.Errorf("%w: version must be at least 1", ErrInvalidUpdateToken)
	}
	if len(a) == 0 || len(a) > ec.ScalarLen || len(b) == 0 || len(b) > ec.ScalarLen {
		return nil, fmt.Errorf("%w: invalid scalar length", ErrInvalidUpdateToken)
	}
	ai := new(big.Int).SetBytes(a)
	bi := new(big.Int).SetBytes(b)
	if !ec.IsValidScalar(ai) || bi.Cmp(ec.N) >= 0 {
		return nil, fmt.Errorf("%w: scalar out of range", ErrInvalidUpdateToken)
	}
	return &UpdateToken{Version: version, a: ai, b: bi}, nil
}

// ParseUpdateToken parses a token of the form "UT.<version>.<base64>". The
// payload is the protobuf message {a, b}; payloads written by earlier
// clients are a DER SEQUENCE of two OCTET STRINGs and are accepted too.
func ParseUpdateToken(s string) (*UpdateToken, error) {
	version, data, err := parseKeyString(s, updateTokenPrefix)
	if err != nil {
		return nil, err
	}
	var a, b []byte
	if len(data) > 0 && data[0] == 0x30 {
		a, b, err = parseDERTokenPayload(data)
	} else {
		a, b, err = parseTokenPayload(data)
	}
	if err != nil {
		return nil, err
	}
	return NewUpdateToken(version, a, b)
}

func parseTokenPayload(data []byte) ([]byte, []byte, error) {
	fs, err := parseWire(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidUpdateToken, err)
	}
	a, err := fs.bytes(1)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidUpdateToken, err)
	}
	b, err := fs.bytes(2)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidUpdateToken, err)
	}
	return a, b, nil
}

func parseDERTokenPayload(data []byte) ([]byte, []byte, error) {
	input := cryptobyte.String(data)
	var seq cryptobyte.String
	var a, b []byte
	if !input.ReadASN1(&seq, cbasn1.SEQUENCE) || !input.Empty() ||
		!readOctetString(&seq, &a) || !readOctetString(&seq, &b) || !seq.Empty() {
		return nil, nil, fmt.Errorf("%w: malformed DER payload", ErrInvalidUpdateToken)
	}
	return a, b, nil
}

// MarshalBinary returns the protobuf payload {a, b}.
func (t *UpdateToken) MarshalBinary() ([]byte, error) {
	var b []byte
	b = appendBytes(b, 1, ec.ScalarBytes(t.a))
	b = appendBytes(b, 2, ec.ScalarBytes(t.b))
	return b, nil
}

// String returns the token in the form accepted by ParseUpdateToken.
func (t *UpdateToken) String() string {
	payload, _ := t.MarshalBinary()
	return formatKeyString(updateTokenPrefix, t.Version, payload)
}
