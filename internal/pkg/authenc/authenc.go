// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

// Package authenc implements the authenticated encryption used to protect
// data with a key recovered by the PHE protocol.
package authenc

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha512"
	"errors"
	"fmt"
	"hash"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	KeyLen   = 32
	SaltLen  = 32
	NonceLen = 12
	TagLen   = 16
)

// Domain is the HKDF info string used to derive the one-time AES key and
// nonce from the long-term key and the salt.
var Domain = []byte{0x56, 0x52, 0x47, 0x4c, 0x50, 0x48, 0x45, 0x37}

func hasher() hash.Hash {
	return sha512.New()
}

// AuthtagMismatch is returned by AuthDec if authentication of the ciphertext
// failed, either because the key is wrong or the ciphertext was modified.
var AuthtagMismatch = errors.New("authenc: authtag mismatch")

// ErrCiphertextTooShort is returned by AuthDec if the input can't hold a salt
// and an authentication tag.
var ErrCiphertextTooShort = errors.New("authenc: ciphertext too short")

func newAEAD(key, salt []byte) (cipher.AEAD, []byte, error) {
	if len(key) != KeyLen {
		return nil, nil, fmt.Errorf("authenc: got key length %d, expected %d", len(key), KeyLen)
	}
	kdfr := hkdf.New(hasher, key, salt, Domain)
	keyNonce := make([]byte, KeyLen+NonceLen)
	if _, err := io.ReadFull(kdfr, keyNonce); err != nil {
		return nil, nil, err
	}
	ciph, err := aes.NewCipher(keyNonce[:KeyLen])
	if err != nil {
		panic("aes.NewCipher failed")
	}
	aead, err := cipher.NewGCMWithTagSize(ciph, TagLen)
	if err != nil {
		return nil, nil, err
	}
	return aead, keyNonce[KeyLen:], nil
}

// AuthEnc performs authenticated encryption of plaintext using a 32 byte key.
// A fresh salt is read from randr and fed together with the key through
// HKDF-SHA512 to derive a one-time AES-256 key and GCM nonce. The output is
// salt || ciphertext || tag.
//
// See also AuthDec.
func AuthEnc(randr io.Reader, key []byte, plaintext []byte) ([]byte, error) {
	salt := make([]byte, SaltLen)
	if _, err := io.ReadFull(randr, salt); err != nil {
		return nil, err
	}
	aead, nonce, err := newAEAD(key, salt)
	if err != nil {
		return nil, err
	}
	res := make([]byte, SaltLen, SaltLen+len(plaintext)+TagLen)
	copy(res, salt)
	return aead.Seal(res, nonce, plaintext, nil), nil
}

// AuthDec performs authenticated decryption of the output of AuthEnc.
//
// On success the plaintext is returned together with a nil error. If the
// key is wrong or the input has been tampered with AuthtagMismatch is
// returned.
func AuthDec(key []byte, input []byte) ([]byte, error) {
	if len(input) < SaltLen+TagLen {
		return nil, ErrCiphertextTooShort
	}
	aead, nonce, err := newAEAD(key, input[:SaltLen])
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, nonce, input[SaltLen:], nil)
	if err != nil {
		return nil, AuthtagMismatch
	}
	if plaintext == nil {
		plaintext = []byte{}
	}
	return plaintext, nil
}
