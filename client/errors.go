// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package client

import (
	"fmt"
	"net/http"
	"unicode/utf8"

	"google.golang.org/protobuf/encoding/protowire"
)

// ServiceError is returned when the service answers with a non-2xx status.
// Code and Message come from the HTTPError message in the body, if the
// service sent one.
type ServiceError struct {
	StatusCode int
	Code       uint32
	Message    string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("client: service returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("client: service returned %d: %s (code %d)", e.StatusCode, e.Message, e.Code)
}

// newServiceError decodes the body {1 code, 2 message}. Bodies that aren't
// an HTTPError leave Code and Message empty.
func newServiceError(status int, body []byte) *ServiceError {
	e := &ServiceError{StatusCode: status}
	var code uint32
	var msg string
	for b := body; len(b) > 0; {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return e
		}
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return e
			}
			code, n = uint32(v), m
		case num == 2 && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 || !utf8.Valid(v) {
				return e
			}
			msg, n = string(v), m
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return e
			}
		}
		b = b[n:]
	}
	e.Code, e.Message = code, msg
	return e
}
