// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package phe

import (
	"io"
	"math/big"

	"github.com/frekui/phe/internal/pkg/ec"
	"golang.org/x/crypto/hkdf"
)

// hashZ hashes data to a scalar in [0, N). The domain is not part of the
// hashed data, it is used as the HKDF salt. Candidates are read from the HKDF
// stream until one is smaller than N, which avoids modular bias.
func hashZ(domain []byte, data ...[]byte) *big.Int {
	h := hasher()
	for _, d := range data {
		h.Write(d)
	}
	kdf := hkdf.New(hasher, h.Sum(nil), domain, kdfInfoZ)

	buf := make([]byte, ec.ScalarLen)
	z := new(big.Int)
	for {
		if _, err := io.ReadFull(kdf, buf); err != nil {
			// HKDF-SHA512 can produce 16320 bytes. Running out means 510
			// consecutive candidates were >= N, which doesn't happen.
			panic(err)
		}
		z.SetBytes(buf)
		if z.Cmp(ec.N) < 0 {
			return z
		}
	}
}

// hashToPoint hashes domain || data to a point on the curve. domain may be
// nil.
func hashToPoint(domain []byte, data ...[]byte) *ec.Point {
	h := hasher()
	h.Write(domain)
	for _, d := range data {
		h.Write(d)
	}
	return ec.SWU(h.Sum(nil)[:32])
}
