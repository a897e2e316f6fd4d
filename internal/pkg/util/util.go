// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

// Package util contains functions to simplify the command line client in
// cmd/.
package util

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/frekui/phe/internal/pkg/authenc"
	"golang.org/x/term"
)

// ReadPassword reads a password from f. If f is a terminal the prompt is
// written to w and echo is turned off, otherwise a single line is read.
func ReadPassword(f *os.File, w io.Writer, prompt string) ([]byte, error) {
	if term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(w, prompt)
		pwd, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(w)
		if err != nil {
			return nil, err
		}
		return pwd, nil
	}
	return ReadLine(bufio.NewReader(f))
}

// ReadLine reads a line from r without the trailing newline. An empty line
// is an error.
func ReadLine(r *bufio.Reader) ([]byte, error) {
	data, err := r.ReadBytes('\n')
	if err != nil && !(err == io.EOF && len(data) > 0) {
		return nil, err
	}
	data = bytes.TrimRight(data, "\r\n")
	if len(data) == 0 {
		return nil, errors.New("empty line")
	}
	return data, nil
}

// WriteRecord writes data base64 encoded to path.
func WriteRecord(path string, data []byte) error {
	encoded := base64.StdEncoding.EncodeToString(data) + "\n"
	return os.WriteFile(path, []byte(encoded), 0o600)
}

// ReadRecord reads a file written by WriteRecord.
func ReadRecord(path string) ([]byte, error) {
	encoded, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data, err := base64.StdEncoding.DecodeString(string(bytes.TrimSpace(encoded)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

// Seal encrypts plaintext with key and returns the base64 encoded
// ciphertext.
func Seal(randr io.Reader, key []byte, plaintext string) (string, error) {
	ciphertext, err := authenc.AuthEnc(randr, key, []byte(plaintext))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Open decrypts the output of Seal.
func Open(key []byte, encoded string) (string, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	plaintext, err := authenc.AuthDec(key, ciphertext)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
