// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package phe

import (
	"fmt"

	"github.com/frekui/phe/internal/pkg/ec"
	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
	"google.golang.org/protobuf/encoding/protowire"
)

// EnrollmentRecord is the per-user data produced by enrollment. It's never
// modified in place; updating a record produces a new one.
type EnrollmentRecord struct {
	NC, NS []byte
	T0, T1 []byte
}

// validate checks the lengths of the nonces and that T0 and T1 are points.
func (r *EnrollmentRecord) validate() error {
	if len(r.NC) != NonceLen || len(r.NS) != NonceLen {
		return fmt.Errorf("%w: nonces must be %d bytes", ErrInvalidRecord, NonceLen)
	}
	if _, err := ec.Decode(r.T0); err != nil {
		return fmt.Errorf("%w: t0: %v", ErrInvalidRecord, err)
	}
	if _, err := ec.Decode(r.T1); err != nil {
		return fmt.Errorf("%w: t1: %v", ErrInvalidRecord, err)
	}
	return nil
}

func (r *EnrollmentRecord) MarshalBinary() ([]byte, error) {
	var b []byte
	b = appendBytes(b, 1, r.NC)
	b = appendBytes(b, 2, r.NS)
	b = appendBytes(b, 3, r.T0)
	b = appendBytes(b, 4, r.T1)
	return b, nil
}

func (r *EnrollmentRecord) UnmarshalBinary(data []byte) error {
	fs, err := parseWire(data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	var q EnrollmentRecord
	for num, dst := range map[protowire.Number]*[]byte{1: &q.NC, 2: &q.NS, 3: &q.T0, 4: &q.T1} {
		if *dst, err = fs.bytes(num); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
		}
	}
	*r = q
	return nil
}

// DatabaseRecord is what the application stores for each user: an
// enrollment record together with the key version it belongs to.
type DatabaseRecord struct {
	Version uint32
	Record  []byte
}

func (r *DatabaseRecord) MarshalBinary() ([]byte, error) {
	var b []byte
	b = appendVarint(b, 1, uint64(r.Version))
	b = appendBytes(b, 2, r.Record)
	return b, nil
}

func (r *DatabaseRecord) UnmarshalBinary(data []byte) error {
	fs, err := parseWire(data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	var q DatabaseRecord
	if q.Version, err = fs.uint32(1); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if q.Record, err = fs.bytes(2); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	*r = q
	return nil
}

// parseDatabaseRecord decodes and validates a stored record.
func parseDatabaseRecord(data []byte) (*DatabaseRecord, *EnrollmentRecord, error) {
	if len(data) == 0 {
		return nil, nil, fmt.Errorf("%w: empty", ErrInvalidRecord)
	}
	var dbr DatabaseRecord
	if err := dbr.UnmarshalBinary(data); err != nil {
		return nil, nil, err
	}
	var rec EnrollmentRecord
	if err := rec.UnmarshalBinary(dbr.Record); err != nil {
		return nil, nil, err
	}
	if err := rec.validate(); err != nil {
		return nil, nil, err
	}
	return &dbr, &rec, nil
}

// LegacyRecord is the ASN.1 DER record format used by earlier clients:
//
//	SEQUENCE {
//	    version     INTEGER,
//	    serverNonce OCTET STRING,
//	    clientNonce OCTET STRING,
//	    t0          OCTET STRING,
//	    t1          OCTET STRING
//	}
type LegacyRecord struct {
	Version     int64
	ServerNonce []byte
	ClientNonce []byte
	T0, T1      []byte
}

func (r *LegacyRecord) MarshalBinary() ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1Int64(r.Version)
		b.AddASN1OctetString(r.ServerNonce)
		b.AddASN1OctetString(r.ClientNonce)
		b.AddASN1OctetString(r.T0)
		b.AddASN1OctetString(r.T1)
	})
	return b.Bytes()
}

func (r *LegacyRecord) UnmarshalBinary(data []byte) error {
	var q LegacyRecord
	input := cryptobyte.String(data)
	var seq cryptobyte.String
	if !input.ReadASN1(&seq, cbasn1.SEQUENCE) || !input.Empty() ||
		!seq.ReadASN1Integer(&q.Version) ||
		!readOctetString(&seq, &q.ServerNonce) ||
		!readOctetString(&seq, &q.ClientNonce) ||
		!readOctetString(&seq, &q.T0) ||
		!readOctetString(&seq, &q.T1) ||
		!seq.Empty() {
		return fmt.Errorf("%w: malformed legacy record", ErrInvalidRecord)
	}
	*r = q
	return nil
}

func readOctetString(s *cryptobyte.String, out *[]byte) bool {
	var v cryptobyte.String
	if !s.ReadASN1(&v, cbasn1.OCTET_STRING) {
		return false
	}
	*out = append([]byte{}, v...)
	return true
}

// DatabaseRecord converts r to the current record format.
func (r *LegacyRecord) DatabaseRecord() ([]byte, error) {
	if r.Version < 0 || r.Version > 0xffffffff {
		return nil, fmt.Errorf("%w: version %d out of range", ErrInvalidRecord, r.Version)
	}
	rec := &EnrollmentRecord{NC: r.ClientNonce, NS: r.ServerNonce, T0: r.T0, T1: r.T1}
	if err := rec.validate(); err != nil {
		return nil, err
	}
	data, err := rec.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return (&DatabaseRecord{Version: uint32(r.Version), Record: data}).MarshalBinary()
}
