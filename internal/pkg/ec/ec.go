// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.
//
// This file contains the NIST P-256 group used by the PHE protocol. Points are
// immutable; every operation returns a new point.

package ec

import (
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"io"
	"math/big"
)

// PointLen is the length of an uncompressed SEC 1 encoded point.
const PointLen = 65

// ScalarLen is the length of an encoded scalar.
const ScalarLen = 32

var curve = elliptic.P256()

var (
	// P is the prime of the underlying field.
	P *big.Int

	// N is the order of the group.
	N *big.Int

	// A and B are the coefficients of y^2 = x^3 + ax + b. A is -3 mod P.
	A *big.Int
	B *big.Int
)

func init() {
	params := curve.Params()
	P = new(big.Int).Set(params.P)
	N = new(big.Int).Set(params.N)
	A = new(big.Int).Sub(P, big.NewInt(3))
	B = new(big.Int).Set(params.B)
}

// ErrInvalidPoint is returned by Decode if the input isn't the encoding of a
// point on the curve other than the point at infinity.
var ErrInvalidPoint = errors.New("ec: invalid point")

// Point is an affine point on P-256. The point at infinity is represented by
// x = y = 0.
type Point struct {
	x, y *big.Int
}

var (
	generator = &Point{x: curve.Params().Gx, y: curve.Params().Gy}
	infinity  = &Point{x: new(big.Int), y: new(big.Int)}
)

// Generator returns the base point G.
func Generator() *Point {
	return generator
}

// NewPoint returns the point (x, y) or ErrInvalidPoint if it isn't on the
// curve.
func NewPoint(x, y *big.Int) (*Point, error) {
	if x.Sign() < 0 || y.Sign() < 0 || x.Cmp(P) >= 0 || y.Cmp(P) >= 0 {
		return nil, ErrInvalidPoint
	}
	if !curve.IsOnCurve(x, y) {
		return nil, ErrInvalidPoint
	}
	return &Point{x: new(big.Int).Set(x), y: new(big.Int).Set(y)}, nil
}

// Decode parses an uncompressed point. The point at infinity and points not
// on the curve are rejected with ErrInvalidPoint.
func Decode(data []byte) (*Point, error) {
	if len(data) != PointLen || data[0] != 4 {
		return nil, ErrInvalidPoint
	}
	x, y := elliptic.Unmarshal(curve, data)
	if x == nil {
		return nil, ErrInvalidPoint
	}
	return &Point{x: x, y: y}, nil
}

// Encode returns the uncompressed encoding 0x04 || x || y.
func (p *Point) Encode() []byte {
	return elliptic.Marshal(curve, p.x, p.y)
}

func (p *Point) X() *big.Int { return new(big.Int).Set(p.x) }
func (p *Point) Y() *big.Int { return new(big.Int).Set(p.y) }

func (p *Point) IsInfinity() bool {
	return p.x.Sign() == 0 && p.y.Sign() == 0
}

func (p *Point) IsOnCurve() bool {
	return !p.IsInfinity() && curve.IsOnCurve(p.x, p.y)
}

func (p *Point) Equal(q *Point) bool {
	return p.x.Cmp(q.x) == 0 && p.y.Cmp(q.y) == 0
}

// Add returns p + q.
func (p *Point) Add(q *Point) *Point {
	x, y := curve.Add(p.x, p.y, q.x, q.y)
	return &Point{x: x, y: y}
}

// Neg returns -p.
func (p *Point) Neg() *Point {
	if p.IsInfinity() {
		return infinity
	}
	return &Point{x: new(big.Int).Set(p.x), y: Neg(p.y, P)}
}

// Sub returns p - q.
func (p *Point) Sub(q *Point) *Point {
	return p.Add(q.Neg())
}

// ScalarMult returns k*p. k is reduced mod N first, so it may be negative or
// wider than the group order.
func (p *Point) ScalarMult(k *big.Int) *Point {
	x, y := curve.ScalarMult(p.x, p.y, ScalarBytes(k))
	return &Point{x: x, y: y}
}

// ScalarBaseMult returns k*G.
func ScalarBaseMult(k *big.Int) *Point {
	x, y := curve.ScalarBaseMult(ScalarBytes(k))
	return &Point{x: x, y: y}
}

// ScalarBytes returns k mod N as a 32 byte big-endian string.
func ScalarBytes(k *big.Int) []byte {
	z := new(big.Int).Mod(k, N)
	res := make([]byte, ScalarLen)
	return z.FillBytes(res)
}

// IsValidScalar returns true if k is in [1, N).
func IsValidScalar(k *big.Int) bool {
	return k.Sign() > 0 && k.Cmp(N) < 0
}

// RandomScalar returns a uniformly random scalar in [1, N) read from r.
func RandomScalar(r io.Reader) (*big.Int, error) {
	for {
		k, err := rand.Int(r, N)
		if err != nil {
			return nil, err
		}
		if k.Sign() != 0 {
			return k, nil
		}
	}
}
