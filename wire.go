// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.
//
// This file contains the messages exchanged with the crypto server. They are
// encoded with the protobuf wire format, field numbers are fixed by the
// server's schema. Empty fields are omitted and unknown fields are skipped.

package phe

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

type wireField struct {
	typ    protowire.Type
	bytes  []byte
	varint uint64
}

type wireFields map[protowire.Number]wireField

// parseWire reads the top level fields of a message. If a field occurs more
// than once the last occurrence wins.
func parseWire(b []byte) (wireFields, error) {
	fields := wireFields{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]
		var f wireField
		f.typ = typ
		switch typ {
		case protowire.BytesType:
			f.bytes, n = protowire.ConsumeBytes(b)
		case protowire.VarintType:
			f.varint, n = protowire.ConsumeVarint(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]
		fields[num] = f
	}
	return fields, nil
}

func (fs wireFields) bytes(num protowire.Number) ([]byte, error) {
	f, ok := fs[num]
	if !ok {
		return nil, nil
	}
	if f.typ != protowire.BytesType {
		return nil, fmt.Errorf("field %d: unexpected wire type %d", num, f.typ)
	}
	return append([]byte{}, f.bytes...), nil
}

func (fs wireFields) varint(num protowire.Number) (uint64, error) {
	f, ok := fs[num]
	if !ok {
		return 0, nil
	}
	if f.typ != protowire.VarintType {
		return 0, fmt.Errorf("field %d: unexpected wire type %d", num, f.typ)
	}
	return f.varint, nil
}

func (fs wireFields) uint32(num protowire.Number) (uint32, error) {
	v, err := fs.varint(num)
	if err != nil {
		return 0, err
	}
	if v > 0xffffffff {
		return 0, fmt.Errorf("field %d: value %d overflows uint32", num, v)
	}
	return uint32(v), nil
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	return appendVarint(b, num, protowire.EncodeBool(v))
}

// ProofOfSuccess is the server's proof that c0 and c1 were computed with its
// secret key. BlindX is not reduced modulo the group order and may be longer
// than 32 bytes.
type ProofOfSuccess struct {
	Term1, Term2, Term3 []byte
	BlindX              []byte
}

func (p *ProofOfSuccess) MarshalBinary() ([]byte, error) {
	var b []byte
	b = appendBytes(b, 1, p.Term1)
	b = appendBytes(b, 2, p.Term2)
	b = appendBytes(b, 3, p.Term3)
	b = appendBytes(b, 4, p.BlindX)
	return b, nil
}

func (p *ProofOfSuccess) UnmarshalBinary(data []byte) error {
	fs, err := parseWire(data)
	if err != nil {
		return fmt.Errorf("proof of success: %w", err)
	}
	var q ProofOfSuccess
	for num, dst := range map[protowire.Number]*[]byte{1: &q.Term1, 2: &q.Term2, 3: &q.Term3, 4: &q.BlindX} {
		if *dst, err = fs.bytes(num); err != nil {
			return fmt.Errorf("proof of success: %w", err)
		}
	}
	*p = q
	return nil
}

// ProofOfFail is the server's proof that c1 is a random point because c0
// didn't match.
type ProofOfFail struct {
	Term1, Term2, Term3, Term4 []byte
	BlindA, BlindB             []byte
}

func (p *ProofOfFail) MarshalBinary() ([]byte, error) {
	var b []byte
	b = appendBytes(b, 1, p.Term1)
	b = appendBytes(b, 2, p.Term2)
	b = appendBytes(b, 3, p.Term3)
	b = appendBytes(b, 4, p.Term4)
	b = appendBytes(b, 5, p.BlindA)
	b = appendBytes(b, 6, p.BlindB)
	return b, nil
}

func (p *ProofOfFail) UnmarshalBinary(data []byte) error {
	fs, err := parseWire(data)
	if err != nil {
		return fmt.Errorf("proof of fail: %w", err)
	}
	var q ProofOfFail
	for num, dst := range map[protowire.Number]*[]byte{
		1: &q.Term1, 2: &q.Term2, 3: &q.Term3, 4: &q.Term4, 5: &q.BlindA, 6: &q.BlindB,
	} {
		if *dst, err = fs.bytes(num); err != nil {
			return fmt.Errorf("proof of fail: %w", err)
		}
	}
	*p = q
	return nil
}

// EnrollmentRequest asks the server for a fresh enrollment using the keys of
// the given version.
type EnrollmentRequest struct {
	Version uint32
}

func (r *EnrollmentRequest) MarshalBinary() ([]byte, error) {
	return appendVarint(nil, 1, uint64(r.Version)), nil
}

func (r *EnrollmentRequest) UnmarshalBinary(data []byte) error {
	fs, err := parseWire(data)
	if err != nil {
		return fmt.Errorf("enrollment request: %w", err)
	}
	v, err := fs.uint32(1)
	if err != nil {
		return fmt.Errorf("enrollment request: %w", err)
	}
	r.Version = v
	return nil
}

// EnrollmentResponse contains the server nonce, the server's points c0 and
// c1 and a proof that they were computed correctly.
type EnrollmentResponse struct {
	NS     []byte
	C0, C1 []byte
	Proof  *ProofOfSuccess
}

func (r *EnrollmentResponse) MarshalBinary() ([]byte, error) {
	var b []byte
	b = appendBytes(b, 1, r.NS)
	b = appendBytes(b, 2, r.C0)
	b = appendBytes(b, 3, r.C1)
	if r.Proof != nil {
		proof, err := r.Proof.MarshalBinary()
		if err != nil {
			return nil, err
		}
		b = protowire.AppendTag(b, 4, protowire.BytesType)
		b = protowire.AppendBytes(b, proof)
	}
	return b, nil
}

func (r *EnrollmentResponse) UnmarshalBinary(data []byte) error {
	fs, err := parseWire(data)
	if err != nil {
		return fmt.Errorf("enrollment response: %w", err)
	}
	var q EnrollmentResponse
	for num, dst := range map[protowire.Number]*[]byte{1: &q.NS, 2: &q.C0, 3: &q.C1} {
		if *dst, err = fs.bytes(num); err != nil {
			return fmt.Errorf("enrollment response: %w", err)
		}
	}
	if _, ok := fs[4]; ok {
		proof, err := fs.bytes(4)
		if err != nil {
			return fmt.Errorf("enrollment response: %w", err)
		}
		q.Proof = new(ProofOfSuccess)
		if err := q.Proof.UnmarshalBinary(proof); err != nil {
			return fmt.Errorf("enrollment response: %w", err)
		}
	}
	*r = q
	return nil
}

// VerifyPasswordRequest carries c0 and the server nonce of a record. On the
// wire the version wraps the inner request {ns, c0}.
type VerifyPasswordRequest struct {
	Version uint32
	NS      []byte
	C0      []byte
}

func (r *VerifyPasswordRequest) MarshalBinary() ([]byte, error) {
	var inner []byte
	inner = appendBytes(inner, 1, r.NS)
	inner = appendBytes(inner, 2, r.C0)

	var b []byte
	b = appendVarint(b, 1, uint64(r.Version))
	b = appendBytes(b, 2, inner)
	return b, nil
}

func (r *VerifyPasswordRequest) UnmarshalBinary(data []byte) error {
	fs, err := parseWire(data)
	if err != nil {
		return fmt.Errorf("verify password request: %w", err)
	}
	var q VerifyPasswordRequest
	if q.Version, err = fs.uint32(1); err != nil {
		return fmt.Errorf("verify password request: %w", err)
	}
	inner, err := fs.bytes(2)
	if err != nil {
		return fmt.Errorf("verify password request: %w", err)
	}
	ifs, err := parseWire(inner)
	if err != nil {
		return fmt.Errorf("verify password request: %w", err)
	}
	if q.NS, err = ifs.bytes(1); err != nil {
		return fmt.Errorf("verify password request: %w", err)
	}
	if q.C0, err = ifs.bytes(2); err != nil {
		return fmt.Errorf("verify password request: %w", err)
	}
	*r = q
	return nil
}

// VerifyPasswordResponse is the server's answer to a VerifyPasswordRequest.
// If Res is true Success must be set, otherwise Fail must be set.
type VerifyPasswordResponse struct {
	Res     bool
	C1      []byte
	Success *ProofOfSuccess
	Fail    *ProofOfFail
}

func (r *VerifyPasswordResponse) MarshalBinary() ([]byte, error) {
	var b []byte
	b = appendBool(b, 1, r.Res)
	b = appendBytes(b, 2, r.C1)
	if r.Success != nil {
		proof, err := r.Success.MarshalBinary()
		if err != nil {
			return nil, err
		}
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendBytes(b, proof)
	}
	if r.Fail != nil {
		proof, err := r.Fail.MarshalBinary()
		if err != nil {
			return nil, err
		}
		b = protowire.AppendTag(b, 4, protowire.BytesType)
		b = protowire.AppendBytes(b, proof)
	}
	return b, nil
}

func (r *VerifyPasswordResponse) UnmarshalBinary(data []byte) error {
	fs, err := parseWire(data)
	if err != nil {
		return fmt.Errorf("verify password response: %w", err)
	}
	var q VerifyPasswordResponse
	res, err := fs.varint(1)
	if err != nil {
		return fmt.Errorf("verify password response: %w", err)
	}
	q.Res = protowire.DecodeBool(res)
	if q.C1, err = fs.bytes(2); err != nil {
		return fmt.Errorf("verify password response: %w", err)
	}
	if _, ok := fs[3]; ok {
		proof, err := fs.bytes(3)
		if err != nil {
			return fmt.Errorf("verify password response: %w", err)
		}
		q.Success = new(ProofOfSuccess)
		if err := q.Success.UnmarshalBinary(proof); err != nil {
			return fmt.Errorf("verify password response: %w", err)
		}
	}
	if _, ok := fs[4]; ok {
		proof, err := fs.bytes(4)
		if err != nil {
			return fmt.Errorf("verify password response: %w", err)
		}
		q.Fail = new(ProofOfFail)
		if err := q.Fail.UnmarshalBinary(proof); err != nil {
			return fmt.Errorf("verify password response: %w", err)
		}
	}
	*r = q
	return nil
}
