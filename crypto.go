// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package phe

import (
	"crypto/rand"
	"crypto/sha512"
	"hash"
)

var randr = rand.Reader

// This is the wide hash used by hashZ, hashToPoint and every HKDF
// invocation in the protocol.
func hasher() hash.Hash {
	return sha512.New()
}

// domainPrefix is shared by all domain separation constants.
var domainPrefix = []byte("VRGLPHE")

func domain(trailer byte) []byte {
	d := make([]byte, len(domainPrefix)+1)
	copy(d, domainPrefix)
	d[len(domainPrefix)] = trailer
	return d
}

// Domain separation constants. The exact bytes are part of the protocol and
// are shared with every existing deployment.
var (
	dhc0             = domain(0x31)
	dhc1             = domain(0x32)
	dhs0             = domain(0x33)
	dhs1             = domain(0x34)
	proofOK          = domain(0x35)
	proofErr         = domain(0x36)
	// 0x37 is authenc.Domain.
	kdfInfoZ         = domain(0x38)
	kdfInfoClientKey = domain(0x39)
)

const (
	// NonceLen is the length of the client and server nonces.
	NonceLen = 32

	// KeyLen is the length of the key recovered by the protocol.
	KeyLen = 32
)
