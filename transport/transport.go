// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transport defines the contract between the request executor
// and the HTTP transport that carries its single network call.
//
// The executor hands the transport a Call holding the resolved URL, the
// method, an optional encoded body and the per-request Config produced
// by the request builder. Everything below that line, such as TLS,
// connection pooling, socket-level retry and attempt timeouts, is the
// transport's business. Package nethttp contains the default
// implementation on top of net/http.
package transport

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// A Transport sends one logical HTTP request.
//
// Do returns a non-nil Response and a nil error when a response was
// received and accepted by the Config's status validation. It returns
// a *StatusError, which carries the Response, when a response was
// received but rejected. Any other error means no response was
// received; in particular cancellation of ctx must surface as an
// error wrapping context.Canceled.
//
// Implementations must be safe for concurrent use by multiple
// goroutines.
type Transport interface {
	Do(ctx context.Context, call *Call) (*Response, error)
}

// The Func type is an adapter to allow the use of ordinary functions
// as a Transport.
type Func func(ctx context.Context, call *Call) (*Response, error)

// Do calls f(ctx, call).
func (f Func) Do(ctx context.Context, call *Call) (*Response, error) {
	return f(ctx, call)
}

// Config is the per-request transport configuration. Request builders
// receive a Config and return an augmented copy.
type Config struct {
	// Header holds extra request headers. The transport merges them
	// over its own defaults.
	Header http.Header
	// Timeout, if positive, bounds each attempt the transport makes
	// for the request. Zero leaves the timeout to the transport.
	Timeout time.Duration
	// ValidateStatus decides which status codes are accepted. If nil,
	// DefaultValidateStatus is used.
	ValidateStatus func(statusCode int) bool
}

// Clone returns a copy of c whose Header may be modified without
// affecting c.
func (c Config) Clone() Config {
	c2 := c
	c2.Header = c.Header.Clone()
	if c2.Header == nil {
		c2.Header = make(http.Header)
	}
	return c2
}

// Validate applies ValidateStatus, or DefaultValidateStatus if it is
// nil.
func (c *Config) Validate(statusCode int) bool {
	if c.ValidateStatus == nil {
		return DefaultValidateStatus(statusCode)
	}
	return c.ValidateStatus(statusCode)
}

// DefaultValidateStatus accepts the 2XX status codes.
func DefaultValidateStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

// A Call is one request handed to a Transport.
type Call struct {
	// Method is one of GET, POST, PUT or DELETE.
	Method string
	// URL is the resolved request path, relative to the transport's
	// base URL unless it is absolute.
	URL string
	// Body is the encoded body, or nil for none.
	Body []byte
	// ContentType describes Body, and is also sent as the Accept
	// header.
	ContentType string
	// Config is the request builder's output.
	Config Config
}

// A Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// A StatusError is returned by a Transport when a response arrived
// but its status code was rejected by Config.Validate.
type StatusError struct {
	Response *Response
}

// Error implements the error interface.
func (err *StatusError) Error() string {
	return fmt.Sprintf("alliance/transport: request failed with status code %d", err.Response.StatusCode)
}
