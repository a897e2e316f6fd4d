// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package ec

import "math/big"

var (
	one = big.NewInt(1)

	// mba is -b/a mod p.
	mba *big.Int

	// p34 is (p-3)/4 and p14 is (p+1)/4. Both are integers since p = 3 mod 4.
	p34 *big.Int
	p14 *big.Int
)

func init() {
	mba = Neg(Div(B, A, P), P)
	p34 = new(big.Int).Rsh(new(big.Int).Sub(P, big.NewInt(3)), 2)
	p14 = new(big.Int).Rsh(new(big.Int).Add(P, one), 2)
}

// rhs returns x^3 + ax + b mod p.
func rhs(x *big.Int) *big.Int {
	return Add(Add(Cube(x, P), Mul(A, x, P), P), B, P)
}

// SWU maps a hash (interpreted as a big-endian unsigned integer) to a point
// on the curve using the Shallue-van de Woestijne-Ulas mapping. Exactly one
// of the two candidate x-coordinates gives a quadratic residue, so the
// result is always a valid point.
//
// The field formulas below define every hashed point the protocol uses and
// must not be rearranged.
func SWU(hash []byte) *Point {
	t := new(big.Int).SetBytes(hash)
	t.Mod(t, P)

	alpha := Neg(Square(t, P), P)
	tmp := Add(Square(alpha, P), alpha, P)
	x2 := Mul(mba, Add(one, Inv(tmp, P), P), P)
	x3 := Mul(alpha, x2, P)
	h2 := rhs(x2)
	h3 := rhs(x3)

	tmp = Pow(h2, p34, P)
	if Mul(Square(tmp, P), h2, P).Cmp(one) == 0 {
		return &Point{x: x2, y: Mul(tmp, h2, P)}
	}
	return &Point{x: x3, y: Pow(h3, p14, P)}
}
