// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package phe

import (
	"bytes"
	"encoding"
	"testing"

	"github.com/go-test/deep"
	"google.golang.org/protobuf/encoding/protowire"
)

type binaryMessage interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
}

// Messages produced by the server must survive a decode/encode cycle
// unchanged.
func TestWireVectors(t *testing.T) {
	for idx, tst := range []struct {
		msg  binaryMessage
		data string
	}{
		{new(EnrollmentResponse), vecEnrollmentResponse},
		{new(VerifyPasswordResponse), vecVerifyPasswordResponse},
		{new(VerifyPasswordResponse), vecVerifyBadPasswordResponse},
		{new(EnrollmentRecord), vecEnrollmentRecord},
	} {
		if err := tst.msg.UnmarshalBinary(mustHex(tst.data)); err != nil {
			t.Fatalf("Test %d: %v", idx, err)
		}
		b, err := tst.msg.MarshalBinary()
		if err != nil {
			t.Fatalf("Test %d: %v", idx, err)
		}
		if diff := deep.Equal(b, mustHex(tst.data)); diff != nil {
			t.Fatalf("Test %d: %v", idx, diff)
		}
	}
}

func TestWireVectorContents(t *testing.T) {
	var resp EnrollmentResponse
	if err := resp.UnmarshalBinary(mustHex(vecEnrollmentResponse)); err != nil {
		t.Fatal(err)
	}
	if len(resp.NS) != NonceLen || len(resp.C0) != 65 || len(resp.C1) != 65 || resp.Proof == nil {
		t.Fatalf("Unexpected enrollment response %+v", resp)
	}
	if len(resp.Proof.BlindX) != 32 {
		t.Fatalf("Unexpected blindX %x", resp.Proof.BlindX)
	}

	var ok, fail VerifyPasswordResponse
	if err := ok.UnmarshalBinary(mustHex(vecVerifyPasswordResponse)); err != nil {
		t.Fatal(err)
	}
	if !ok.Res || ok.Success == nil || ok.Fail != nil {
		t.Fatalf("Unexpected response %+v", ok)
	}
	if err := fail.UnmarshalBinary(mustHex(vecVerifyBadPasswordResponse)); err != nil {
		t.Fatal(err)
	}
	if fail.Res || fail.Success != nil || fail.Fail == nil || len(fail.Fail.BlindB) != 32 {
		t.Fatalf("Unexpected response %+v", fail)
	}
}

func TestWireRequests(t *testing.T) {
	req := &VerifyPasswordRequest{Version: 3, NS: []byte("ns"), C0: []byte("c0")}
	b, err := req.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	expected := []byte{0x08, 0x03, 0x12, 0x08, 0x0a, 0x02, 'n', 's', 0x12, 0x02, 'c', '0'}
	if !bytes.Equal(b, expected) {
		t.Fatalf("Got %x, expected %x", b, expected)
	}
	var req2 VerifyPasswordRequest
	if err := req2.UnmarshalBinary(b); err != nil {
		t.Fatal(err)
	}
	if diff := deep.Equal(&req2, req); diff != nil {
		t.Fatal(diff)
	}

	b, err = (&EnrollmentRequest{Version: 300}).MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b, []byte{0x08, 0xac, 0x02}) {
		t.Fatalf("Got %x", b)
	}
	var er EnrollmentRequest
	if err := er.UnmarshalBinary(b); err != nil || er.Version != 300 {
		t.Fatalf("Got %v, %v", er, err)
	}

	// Empty fields are omitted.
	b, err = (&EnrollmentRequest{}).MarshalBinary()
	if err != nil || len(b) != 0 {
		t.Fatalf("Got %x, %v", b, err)
	}
	b, err = (&VerifyPasswordResponse{}).MarshalBinary()
	if err != nil || len(b) != 0 {
		t.Fatalf("Got %x, %v", b, err)
	}
}

func TestWireUnknownFields(t *testing.T) {
	var b []byte
	b = protowire.AppendTag(b, 9, protowire.VarintType)
	b = protowire.AppendVarint(b, 12345)
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte("first"))
	b = protowire.AppendTag(b, 10, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, 7)
	b = protowire.AppendTag(b, 11, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte("skipped"))
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte("last"))

	var p ProofOfSuccess
	if err := p.UnmarshalBinary(b); err != nil {
		t.Fatal(err)
	}
	if diff := deep.Equal(p, ProofOfSuccess{Term1: []byte("last")}); diff != nil {
		t.Fatal(diff)
	}
}

func TestWireInvalid(t *testing.T) {
	wrongType := protowire.AppendVarint(protowire.AppendTag(nil, 2, protowire.VarintType), 1)
	for idx, tst := range []struct {
		msg  binaryMessage
		data []byte
	}{
		{new(ProofOfSuccess), []byte{0x0a}},
		{new(ProofOfSuccess), []byte{0x0a, 0x05, 1, 2}},
		{new(ProofOfFail), wrongType},
		{new(EnrollmentResponse), wrongType},
		{new(EnrollmentResponse), []byte{0x22, 0x02, 0x0a, 0x05}},
		{new(VerifyPasswordResponse), []byte{0x0a, 0x00}},
		{new(VerifyPasswordRequest), []byte{0x08, 0x80, 0x80, 0x80, 0x80, 0x10}},
		{new(EnrollmentRequest), []byte{0x0a, 0x00}},
		{new(EnrollmentRecord), wrongType},
		{new(DatabaseRecord), []byte{0xff}},
	} {
		if err := tst.msg.UnmarshalBinary(tst.data); err == nil {
			t.Fatalf("Test %d: expected an error", idx)
		}
	}
}
