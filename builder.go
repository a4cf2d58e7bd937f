// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package alliance

import (
	"errors"
	"net/http"
	"time"

	"github.com/gogama/alliance/apierror"
	"github.com/gogama/alliance/request"
	"github.com/gogama/alliance/retry"
	"github.com/gogama/alliance/timeout"
	"github.com/gogama/alliance/transport"
	"github.com/gogama/alliance/transport/nethttp"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// DefaultRequestIDHeader is the header StandardBuilder sets to a fresh
// request ID unless told otherwise.
const DefaultRequestIDHeader = "X-Request-Id"

// A TokenSource supplies the credentials of the current user.
type TokenSource interface {
	// Token returns the current token, or an empty string if there is
	// none.
	Token() (string, error)
}

// The TokenFunc type is an adapter to allow the use of ordinary
// functions as a TokenSource.
type TokenFunc func() (string, error)

// Token calls f().
func (f TokenFunc) Token() (string, error) {
	return f()
}

// StaticToken returns a TokenSource that always returns token.
func StaticToken(token string) TokenSource {
	return TokenFunc(func() (string, error) { return token, nil })
}

// StandardBuilder is a RequestBuilder for bearer token authentication
// over a nethttp.Transport.
//
// For a route with AuthRequired, the token is attached as an
// Authorization header and, if there is none, the request is cancelled
// with apierror.Unauthenticated. For a route with UseOptionalAuth the
// token is attached only when there is one. An error from Tokens is
// passed to the ErrorHandler and treated as the absence of a token.
//
// The zero value sends every request unauthenticated with a request ID
// header over a default nethttp.Transport.
type StandardBuilder struct {
	// Tokens supplies the token. If nil, there is never a token.
	Tokens TokenSource

	// Scheme is the authorization scheme. If empty, "Bearer" is used.
	Scheme string

	// RequestIDHeader names the header set to a random UUID on every
	// request that does not have it yet. If empty,
	// DefaultRequestIDHeader is used.
	RequestIDHeader string

	// DisableRequestID turns the request ID header off.
	DisableRequestID bool

	// Timeout is set on every request config that has no timeout.
	Timeout time.Duration

	// Header holds default headers of the transport.
	Header http.Header

	// HTTPDoer is handed to the transport.
	HTTPDoer nethttp.HTTPDoer

	// HTTP2 makes the transport use an HTTP/2 only doer. It cannot be
	// combined with HTTPDoer.
	HTTP2 bool

	// HTTP2Cleartext makes the HTTP/2 doer speak h2c.
	HTTP2Cleartext bool

	// RateLimit, if positive, limits the transport to that many
	// requests per second, with bursts of up to Burst requests.
	RateLimit rate.Limit
	Burst     int

	// RetryPolicy and TimeoutPolicy are handed to the transport.
	RetryPolicy   retry.Policy
	TimeoutPolicy timeout.Policy
}

// BuildRequestConfig implements RequestBuilder.
func (b *StandardBuilder) BuildRequestConfig(route *request.Route, cfg transport.Config, eh ErrorHandler, cancel CancelFunc) transport.Config {
	if cfg.Header == nil {
		cfg.Header = make(http.Header)
	}

	var token string
	if route.AuthRequired || route.UseOptionalAuth {
		token = b.token(eh)
	}
	switch {
	case route.AuthRequired && token == "":
		cancel(apierror.Unauthenticated())
		return cfg
	case token != "":
		cfg.Header.Set("Authorization", b.scheme()+" "+token)
	}

	if !b.DisableRequestID {
		name := b.RequestIDHeader
		if name == "" {
			name = DefaultRequestIDHeader
		}
		if cfg.Header.Get(name) == "" {
			cfg.Header.Set(name, uuid.NewString())
		}
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = b.Timeout
	}

	return cfg
}

// InitializeTransport implements RequestBuilder. It installs a
// nethttp.Transport on cfg.BaseURL unless cfg already has a transport.
func (b *StandardBuilder) InitializeTransport(cfg *Config) error {
	if cfg.Transport != nil {
		return nil
	}
	if cfg.Host == "" {
		return errors.New("alliance: empty host")
	}

	doer := b.HTTPDoer
	if b.HTTP2 {
		if doer != nil {
			return errors.New("alliance: HTTP2 cannot be combined with a custom HTTPDoer")
		}
		doer = nethttp.NewHTTP2Doer(b.HTTP2Cleartext, nil)
	}

	t := &nethttp.Transport{
		BaseURL:       cfg.BaseURL(),
		Header:        b.Header.Clone(),
		HTTPDoer:      doer,
		RetryPolicy:   b.RetryPolicy,
		TimeoutPolicy: b.TimeoutPolicy,
	}
	if b.RateLimit > 0 {
		burst := b.Burst
		if burst < 1 {
			burst = 1
		}
		t.Limiter = rate.NewLimiter(b.RateLimit, burst)
	}

	cfg.Transport = t
	return nil
}

func (b *StandardBuilder) token(eh ErrorHandler) string {
	if b.Tokens == nil {
		return ""
	}
	token, err := b.Tokens.Token()
	if err != nil {
		eh.HandleError(err)
		return ""
	}
	return token
}

func (b *StandardBuilder) scheme() string {
	if b.Scheme == "" {
		return "Bearer"
	}
	return b.Scheme
}
