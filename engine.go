// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package phe

import (
	"fmt"
	"io"
	"math/big"

	"github.com/frekui/phe/internal/pkg/authenc"
	"github.com/frekui/phe/internal/pkg/ec"
	"golang.org/x/crypto/hkdf"
)

// Crypto implements the cryptographic operations of the PHE protocol. Its
// only state is the source of randomness, all methods are safe for
// concurrent use if the reader is.
//
// Points and scalars are passed as their byte encodings: points as 65 byte
// uncompressed points and nonces as 32 byte strings.
type Crypto struct {
	rand io.Reader
}

// NewCrypto returns a Crypto reading randomness from r. If r is nil
// crypto/rand.Reader is used.
func NewCrypto(r io.Reader) *Crypto {
	if r == nil {
		r = randr
	}
	return &Crypto{rand: r}
}

// GenerateNonce returns NonceLen random bytes.
func (c *Crypto) GenerateNonce() ([]byte, error) {
	n := make([]byte, NonceLen)
	if _, err := io.ReadFull(c.rand, n); err != nil {
		return nil, err
	}
	return n, nil
}

func decodePoints(encoded ...[]byte) ([]*ec.Point, error) {
	res := make([]*ec.Point, len(encoded))
	for i, e := range encoded {
		p, err := ec.Decode(e)
		if err != nil {
			return nil, err
		}
		res[i] = p
	}
	return res, nil
}

func checkNonce(n []byte) error {
	if len(n) != NonceLen {
		return fmt.Errorf("%w: got %d bytes, expected %d", ErrInvalidNonce, len(n), NonceLen)
	}
	return nil
}

// deriveKey derives the user's key from the point M.
func deriveKey(m *ec.Point) []byte {
	kdf := hkdf.New(hasher, m.Encode(), nil, kdfInfoClientKey)
	key := make([]byte, KeyLen)
	if _, err := io.ReadFull(kdf, key); err != nil {
		panic(err)
	}
	return key
}

// ComputeT computes the enrollment record (t0, t1) for password from the
// server's points c0 and c1, together with the key the record protects:
//
//	t0 = c0 + hc0*sk
//	t1 = c1 + (hc1 + M)*sk
//
// where M is a fresh random point and key = HKDF(M).
func (c *Crypto) ComputeT(sk *SecretKey, password, nc, c0, c1 []byte) (t0, t1, key []byte, err error) {
	if err := checkNonce(nc); err != nil {
		return nil, nil, nil, err
	}
	points, err := decodePoints(c0, c1)
	if err != nil {
		return nil, nil, nil, err
	}
	seed := make([]byte, 32)
	if _, err := io.ReadFull(c.rand, seed); err != nil {
		return nil, nil, nil, err
	}
	m := hashToPoint(nil, seed)

	hc0 := hashToPoint(dhc0, nc, password)
	hc1 := hashToPoint(dhc1, nc, password)

	t0p := points[0].Add(hc0.ScalarMult(sk.d))
	t1p := points[1].Add(hc1.Add(m).ScalarMult(sk.d))
	return t0p.Encode(), t1p.Encode(), deriveKey(m), nil
}

// ComputeC computes the server's points c0 = hs0*sk and c1 = hs1*sk for the
// server nonce ns.
func (c *Crypto) ComputeC(sk *SecretKey, ns []byte) (c0, c1 []byte, err error) {
	if err := checkNonce(ns); err != nil {
		return nil, nil, err
	}
	hs0 := hashToPoint(dhs0, ns)
	hs1 := hashToPoint(dhs1, ns)
	return hs0.ScalarMult(sk.d).Encode(), hs1.ScalarMult(sk.d).Encode(), nil
}

// ComputeC0 recomputes c0 = t0 - hc0*sk from a record and a password. The
// result equals the server's c0 only if the password is correct.
func (c *Crypto) ComputeC0(sk *SecretKey, password, nc, t0 []byte) ([]byte, error) {
	if err := checkNonce(nc); err != nil {
		return nil, err
	}
	t0p, err := ec.Decode(t0)
	if err != nil {
		return nil, err
	}
	hc0 := hashToPoint(dhc0, nc, password)
	return t0p.Sub(hc0.ScalarMult(sk.d)).Encode(), nil
}

// DecryptM recovers M = (t1 - c1 - hc1*sk) * sk^-1 and returns the key
// derived from it.
func (c *Crypto) DecryptM(sk *SecretKey, password, nc, t1, c1 []byte) ([]byte, error) {
	if err := checkNonce(nc); err != nil {
		return nil, err
	}
	points, err := decodePoints(t1, c1)
	if err != nil {
		return nil, err
	}
	hc1 := hashToPoint(dhc1, nc, password)
	minusSk := ec.Neg(sk.d, ec.N)
	skInv := ec.Inv(sk.d, ec.N)

	m := points[0].Sub(points[1]).Add(hc1.ScalarMult(minusSk)).ScalarMult(skInv)
	return deriveKey(m), nil
}

// UpdateT moves a record to the next version:
//
//	t0' = a*t0 + b*hs0
//	t1' = a*t1 + b*hs1
//
// Neither a password nor a secret key is needed.
func (c *Crypto) UpdateT(ns, t0, t1 []byte, token *UpdateToken) (newT0, newT1 []byte, err error) {
	if err := checkNonce(ns); err != nil {
		return nil, nil, err
	}
	points, err := decodePoints(t0, t1)
	if err != nil {
		return nil, nil, err
	}
	hs0 := hashToPoint(dhs0, ns)
	hs1 := hashToPoint(dhs1, ns)

	t0p := points[0].ScalarMult(token.a).Add(hs0.ScalarMult(token.b))
	t1p := points[1].ScalarMult(token.a).Add(hs1.ScalarMult(token.b))
	return t0p.Encode(), t1p.Encode(), nil
}

// RotateSecretKey returns a*sk.
func (c *Crypto) RotateSecretKey(sk *SecretKey, token *UpdateToken) *SecretKey {
	return &SecretKey{d: ec.Mul(sk.d, token.a, ec.N)}
}

// RotatePublicKey returns a*pk + b*G.
func (c *Crypto) RotatePublicKey(pk *PublicKey, token *UpdateToken) *PublicKey {
	return &PublicKey{p: pk.p.ScalarMult(token.a).Add(ec.ScalarBaseMult(token.b))}
}

// ProveSuccess proves that c0 = hs0*sk and c1 = hs1*sk where sk is the
// secret key of the public key the verifier holds.
//
// BlindX is not reduced modulo N. Existing servers and clients encode it
// this way, so it is kept for compatibility.
func (c *Crypto) ProveSuccess(sk *SecretKey, ns, c0, c1 []byte) (*ProofOfSuccess, error) {
	if err := checkNonce(ns); err != nil {
		return nil, err
	}
	if _, err := decodePoints(c0, c1); err != nil {
		return nil, err
	}
	x, err := ec.RandomScalar(c.rand)
	if err != nil {
		return nil, err
	}
	hs0 := hashToPoint(dhs0, ns)
	hs1 := hashToPoint(dhs1, ns)

	term1 := hs0.ScalarMult(x).Encode()
	term2 := hs1.ScalarMult(x).Encode()
	term3 := ec.ScalarBaseMult(x).Encode()

	pub := sk.PublicKey().Encode()
	e := hashZ(proofOK, pub, ec.Generator().Encode(), c0, c1, term1, term2, term3)

	blindX := new(big.Int).Mul(sk.d, e)
	blindX.Add(blindX, x)

	return &ProofOfSuccess{
		Term1:  term1,
		Term2:  term2,
		Term3:  term3,
		BlindX: blindX.Bytes(),
	}, nil
}

// ValidateProofOfSuccess checks the server's proof that c0 and c1 were
// computed with the secret key belonging to pk. It returns nil if all three
// equations
//
//	term1 + e*c0 = blindX*hs0
//	term2 + e*c1 = blindX*hs1
//	term3 + e*pk = blindX*G
//
// hold, ErrProofOfSuccessInvalid if any of them doesn't, and
// ec.ErrInvalidPoint if an input isn't a point.
func (c *Crypto) ValidateProofOfSuccess(proof *ProofOfSuccess, pk *PublicKey, ns, c0, c1 []byte) error {
	if proof == nil {
		return ErrProofNotProvided
	}
	if err := checkNonce(ns); err != nil {
		return err
	}
	points, err := decodePoints(c0, c1, proof.Term1, proof.Term2, proof.Term3)
	if err != nil {
		return err
	}
	if len(proof.BlindX) == 0 {
		return ErrProofOfSuccessInvalid
	}
	c0p, c1p, term1, term2, term3 := points[0], points[1], points[2], points[3], points[4]
	blindX := new(big.Int).SetBytes(proof.BlindX)

	hs0 := hashToPoint(dhs0, ns)
	hs1 := hashToPoint(dhs1, ns)

	e := hashZ(proofOK, pk.Encode(), ec.Generator().Encode(), c0, c1, proof.Term1, proof.Term2, proof.Term3)

	if !term1.Add(c0p.ScalarMult(e)).Equal(hs0.ScalarMult(blindX)) {
		return ErrProofOfSuccessInvalid
	}
	if !term2.Add(c1p.ScalarMult(e)).Equal(hs1.ScalarMult(blindX)) {
		return ErrProofOfSuccessInvalid
	}
	if !term3.Add(pk.p.ScalarMult(e)).Equal(ec.ScalarBaseMult(blindX)) {
		return ErrProofOfSuccessInvalid
	}
	return nil
}

// VerifyC0 reports whether c0 = hs0*sk, that is whether the client used the
// right password. It's the server's half of password verification.
func (c *Crypto) VerifyC0(sk *SecretKey, ns, c0 []byte) (bool, error) {
	if err := checkNonce(ns); err != nil {
		return false, err
	}
	c0p, err := ec.Decode(c0)
	if err != nil {
		return false, err
	}
	return hashToPoint(dhs0, ns).ScalarMult(sk.d).Equal(c0p), nil
}

// ProveFailure answers a verification request with a wrong password. It
// returns c1 = r*(c0 - sk*hs0) for a random r together with a proof that c1
// was computed this way.
func (c *Crypto) ProveFailure(sk *SecretKey, ns, c0 []byte) ([]byte, *ProofOfFail, error) {
	if err := checkNonce(ns); err != nil {
		return nil, nil, err
	}
	c0p, err := ec.Decode(c0)
	if err != nil {
		return nil, nil, err
	}
	r, err := ec.RandomScalar(c.rand)
	if err != nil {
		return nil, nil, err
	}
	blindA, err := ec.RandomScalar(c.rand)
	if err != nil {
		return nil, nil, err
	}
	blindB, err := ec.RandomScalar(c.rand)
	if err != nil {
		return nil, nil, err
	}
	hs0 := hashToPoint(dhs0, ns)
	minusRX := ec.Mul(ec.Neg(r, ec.N), sk.d, ec.N)

	c1 := c0p.ScalarMult(r).Add(hs0.ScalarMult(minusRX)).Encode()

	term1 := c0p.ScalarMult(blindA).Encode()
	term2 := hs0.ScalarMult(blindB).Encode()
	term3 := sk.PublicKey().p.ScalarMult(blindA).Encode()
	term4 := ec.ScalarBaseMult(blindB).Encode()

	pub := sk.PublicKey().Encode()
	e := hashZ(proofErr, pub, ec.Generator().Encode(), c0, c1, term1, term2, term3, term4)

	return c1, &ProofOfFail{
		Term1:  term1,
		Term2:  term2,
		Term3:  term3,
		Term4:  term4,
		BlindA: ec.ScalarBytes(ec.Add(blindA, ec.Mul(e, r, ec.N), ec.N)),
		BlindB: ec.ScalarBytes(ec.Add(blindB, ec.Mul(e, minusRX, ec.N), ec.N)),
	}, nil
}

// ValidateProofOfFail checks the server's proof that c1 is r*(c0 - sk*hs0)
// for the secret key belonging to pk. It returns nil if
//
//	term1 + term2 + e*c1 = blindA*c0 + blindB*hs0
//	term3 + term4 = blindA*pk + blindB*G
//
// hold and ErrProofOfFailInvalid otherwise.
func (c *Crypto) ValidateProofOfFail(proof *ProofOfFail, pk *PublicKey, ns, c0, c1 []byte) error {
	if proof == nil {
		return ErrProofNotProvided
	}
	if err := checkNonce(ns); err != nil {
		return err
	}
	points, err := decodePoints(c0, c1, proof.Term1, proof.Term2, proof.Term3, proof.Term4)
	if err != nil {
		return err
	}
	if len(proof.BlindA) == 0 || len(proof.BlindB) == 0 {
		return ErrProofOfFailInvalid
	}
	c0p, c1p := points[0], points[1]
	term1, term2, term3, term4 := points[2], points[3], points[4], points[5]
	blindA := new(big.Int).SetBytes(proof.BlindA)
	blindB := new(big.Int).SetBytes(proof.BlindB)

	hs0 := hashToPoint(dhs0, ns)

	e := hashZ(proofErr, pk.Encode(), ec.Generator().Encode(), c0, c1,
		proof.Term1, proof.Term2, proof.Term3, proof.Term4)

	left := term1.Add(term2).Add(c1p.ScalarMult(e))
	right := c0p.ScalarMult(blindA).Add(hs0.ScalarMult(blindB))
	if !left.Equal(right) {
		return ErrProofOfFailInvalid
	}

	left = term3.Add(term4)
	right = pk.p.ScalarMult(blindA).Add(ec.ScalarBaseMult(blindB))
	if !left.Equal(right) {
		return ErrProofOfFailInvalid
	}
	return nil
}

// Encrypt encrypts data with a key recovered by the protocol. See
// authenc.AuthEnc for the format.
func (c *Crypto) Encrypt(data, key []byte) ([]byte, error) {
	return authenc.AuthEnc(c.rand, key, data)
}

// Decrypt decrypts the output of Encrypt. A wrong key or a modified
// ciphertext gives authenc.AuthtagMismatch.
func (c *Crypto) Decrypt(ciphertext, key []byte) ([]byte, error) {
	return authenc.AuthDec(key, ciphertext)
}
