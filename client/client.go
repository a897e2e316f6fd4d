// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

// Package client is an HTTP transport for the PHE crypto service. A *Client
// implements phe.Client and can be handed to phe.NewProtocol.
//
// Requests are protobuf encoded messages POSTed to
//
//	{base}/phe/v1/enroll
//	{base}/phe/v1/verify-password
//
// with the application token in the AppToken header. The client doesn't retry
// failed requests; timeouts and cancellation come from the context and the
// *http.Client.
package client

import (
	"bytes"
	"context"
	"encoding"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/frekui/phe"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	enrollPath         = "phe/v1/enroll"
	verifyPasswordPath = "phe/v1/verify-password"

	contentType = "application/protobuf"

	// Responses larger than this are rejected.
	maxResponseSize = 1 << 20
)

const defaultUserAgent = "phe-go"

// RequestIDHeader carries a random ID identifying a request in the service's
// logs.
const RequestIDHeader = "X-Request-Id"

// Client talks to the crypto service over HTTP.
type Client struct {
	base      *url.URL
	appToken  string
	http      *http.Client
	log       *slog.Logger
	userAgent string
	limiter   *rate.Limiter
}

var _ phe.Client = (*Client)(nil)

type Option func(*Client)

// WithHTTPClient sets the *http.Client used for requests. The default is
// http.DefaultClient.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.http = c
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) {
		cl.log = l
	}
}

func WithUserAgent(ua string) Option {
	return func(cl *Client) {
		cl.userAgent = ua
	}
}

// WithRateLimit limits the client to perSecond requests per second with
// bursts of up to burst requests. Requests over the limit wait, or fail when
// their context is done first.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(cl *Client) {
		cl.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// New returns a client for the service at baseURL authenticating with
// appToken.
func New(baseURL, appToken string, opts ...Option) (*Client, error) {
	if appToken == "" {
		return nil, errors.New("client: empty app token")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("client: invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("client: invalid base url %q: scheme must be http or https", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	c := &Client{
		base:      u,
		appToken:  appToken,
		http:      http.DefaultClient,
		log:       slog.New(slog.DiscardHandler),
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GetEnrollment asks the service for a new enrollment with the keys of
// req.Version.
func (c *Client) GetEnrollment(ctx context.Context, req *phe.EnrollmentRequest) (*phe.EnrollmentResponse, error) {
	var resp phe.EnrollmentResponse
	if err := c.do(ctx, enrollPath, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyPassword sends c0 to the service.
func (c *Client) VerifyPassword(ctx context.Context, req *phe.VerifyPasswordRequest) (*phe.VerifyPasswordResponse, error) {
	var resp phe.VerifyPasswordResponse
	if err := c.do(ctx, verifyPasswordPath, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, path string, in encoding.BinaryMarshaler, out encoding.BinaryUnmarshaler) error {
	body, err := in.MarshalBinary()
	if err != nil {
		return err
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("client: %s: %w", path, err)
		}
	}
	u := c.base.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", contentType)
	req.Header.Set("AppToken", c.appToken)
	req.Header.Set("User-Agent", c.userAgent)
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.ErrorContext(ctx, "request failed", "path", path, "request_id", requestID, "err", err)
		return fmt.Errorf("client: %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return fmt.Errorf("client: %s: reading response: %w", path, err)
	}
	c.log.DebugContext(ctx, "request", "method", http.MethodPost, "path", path,
		"request_id", requestID, "status", resp.StatusCode, "duration", time.Since(start))

	if len(data) > maxResponseSize {
		return fmt.Errorf("client: %s: response larger than %d bytes", path, maxResponseSize)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newServiceError(resp.StatusCode, data)
	}
	if err := out.UnmarshalBinary(data); err != nil {
		return fmt.Errorf("client: %s: %w: %v", path, phe.ErrInvalidResponse, err)
	}
	return nil
}
