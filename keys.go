// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package phe

import (
	"encoding/base64"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/frekui/phe/internal/pkg/ec"
)

// SecretKey is a scalar in [1, N). It's immutable.
type SecretKey struct {
	d *big.Int
}

// PublicKey is the point d*G for a secret key d. It's immutable.
type PublicKey struct {
	p *ec.Point
}

// GenerateSecretKey returns a new random secret key.
func GenerateSecretKey() (*SecretKey, error) {
	d, err := ec.RandomScalar(randr)
	if err != nil {
		return nil, err
	}
	return &SecretKey{d: d}, nil
}

func newSecretKey(d *big.Int) (*SecretKey, error) {
	if !ec.IsValidScalar(d) {
		return nil, ErrInvalidSecretKey
	}
	return &SecretKey{d: new(big.Int).Set(d)}, nil
}

// DecodeSecretKey parses a 32 byte big-endian scalar.
func DecodeSecretKey(data []byte) (*SecretKey, error) {
	if len(data) != ec.ScalarLen {
		return nil, ErrInvalidKeyLength
	}
	return newSecretKey(new(big.Int).SetBytes(data))
}

// Encode returns the 32 byte big-endian encoding of k.
func (k *SecretKey) Encode() []byte {
	return ec.ScalarBytes(k.d)
}

func (k *SecretKey) PublicKey() *PublicKey {
	return &PublicKey{p: ec.ScalarBaseMult(k.d)}
}

func (k *SecretKey) Equal(o *SecretKey) bool {
	return k.d.Cmp(o.d) == 0
}

// DecodePublicKey parses an uncompressed 65 byte point.
func DecodePublicKey(data []byte) (*PublicKey, error) {
	if len(data) != ec.PointLen {
		return nil, ErrInvalidKeyLength
	}
	p, err := ec.Decode(data)
	if err != nil {
		return nil, err
	}
	return &PublicKey{p: p}, nil
}

// Encode returns the uncompressed 65 byte encoding of k.
func (k *PublicKey) Encode() []byte {
	return k.p.Encode()
}

func (k *PublicKey) Equal(o *PublicKey) bool {
	return k.p.Equal(o.p)
}

// KeyPair is the client secret key and the crypto server public key that
// belong to one version.
type KeyPair struct {
	Version   uint32
	SecretKey *SecretKey
	PublicKey *PublicKey
}

const (
	secretKeyPrefix   = "SK"
	publicKeyPrefix   = "PK"
	updateTokenPrefix = "UT"
)

// parseKeyString splits strings of the form "<prefix>.<version>.<base64>".
// The prefix is matched case-insensitively.
func parseKeyString(s, prefix string) (uint32, []byte, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return 0, nil, fmt.Errorf("%w: expected 3 parts, got %d", ErrInvalidKeyString, len(parts))
	}
	if !strings.EqualFold(parts[0], prefix) {
		return 0, nil, fmt.Errorf("%w: expected prefix %s", ErrInvalidKeyString, prefix)
	}
	version, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: invalid version %q", ErrInvalidKeyString, parts[1])
	}
	data, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrInvalidKeyString, err)
	}
	return uint32(version), data, nil
}

func formatKeyString(prefix string, version uint32, data []byte) string {
	return prefix + "." + strconv.FormatUint(uint64(version), 10) + "." + base64.StdEncoding.EncodeToString(data)
}

// ParseSecretKey parses an application secret key of the form
// "SK.<version>.<base64 of 32 bytes>".
func ParseSecretKey(s string) (uint32, *SecretKey, error) {
	version, data, err := parseKeyString(s, secretKeyPrefix)
	if err != nil {
		return 0, nil, err
	}
	k, err := DecodeSecretKey(data)
	if err != nil {
		return 0, nil, err
	}
	return version, k, nil
}

// ParsePublicKey parses a service public key of the form
// "PK.<version>.<base64 of 65 bytes>".
func ParsePublicKey(s string) (uint32, *PublicKey, error) {
	version, data, err := parseKeyString(s, publicKeyPrefix)
	if err != nil {
		return 0, nil, err
	}
	k, err := DecodePublicKey(data)
	if err != nil {
		return 0, nil, err
	}
	return version, k, nil
}

func FormatSecretKey(version uint32, k *SecretKey) string {
	return formatKeyString(secretKeyPrefix, version, k.Encode())
}

func FormatPublicKey(version uint32, k *PublicKey) string {
	return formatKeyString(publicKeyPrefix, version, k.Encode())
}
