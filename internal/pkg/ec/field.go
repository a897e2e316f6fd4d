// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.
//
// This file contains modular arithmetic on big integers. Every function takes
// the modulus explicitly and returns a freshly allocated value in [0, m).

package ec

import "math/big"

// Neg returns -x mod m.
func Neg(x, m *big.Int) *big.Int {
	r := new(big.Int).Neg(x)
	return r.Mod(r, m)
}

// Add returns x + y mod m.
func Add(x, y, m *big.Int) *big.Int {
	r := new(big.Int).Add(x, y)
	return r.Mod(r, m)
}

// Sub returns x - y mod m.
func Sub(x, y, m *big.Int) *big.Int {
	r := new(big.Int).Sub(x, y)
	return r.Mod(r, m)
}

// Mul returns x * y mod m.
func Mul(x, y, m *big.Int) *big.Int {
	r := new(big.Int).Mul(x, y)
	return r.Mod(r, m)
}

// Square returns x^2 mod m.
func Square(x, m *big.Int) *big.Int {
	return Mul(x, x, m)
}

// Cube returns x^3 mod m.
func Cube(x, m *big.Int) *big.Int {
	return Mul(Square(x, m), x, m)
}

// Inv returns the multiplicative inverse of x mod m. The result is 0 if x has
// no inverse, which for a prime modulus only happens when x = 0 mod m.
func Inv(x, m *big.Int) *big.Int {
	r := new(big.Int).Mod(x, m)
	if r.ModInverse(r, m) == nil {
		return new(big.Int)
	}
	return r
}

// Pow returns x^e mod m for e >= 0.
func Pow(x, e, m *big.Int) *big.Int {
	r := new(big.Int).Mod(x, m)
	return r.Exp(r, e, m)
}

// Div returns x * Inv(y) mod m.
func Div(x, y, m *big.Int) *big.Int {
	return Mul(x, Inv(y, m), m)
}
