// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package nethttp

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/gogama/alliance/retry"
	"github.com/gogama/alliance/timeout"
	"github.com/gogama/alliance/transport"
	"golang.org/x/time/rate"
)

// An HTTPDoer sends an HTTP request and returns an HTTP response.
// *http.Client implements HTTPDoer.
type HTTPDoer interface {
	Do(r *http.Request) (*http.Response, error)
}

// An IdleCloser can close idle connections. *http.Client implements
// IdleCloser.
type IdleCloser interface {
	CloseIdleConnections()
}

// A Transport is a transport.Transport sending calls over net/http.
//
// A Transport's fields must not be changed once it is in use. A
// Transport is safe for concurrent use by multiple goroutines.
type Transport struct {
	// BaseURL is prefixed to every relative call URL.
	BaseURL string

	// Header holds default headers sent with every request. Headers in
	// the call's transport.Config take precedence.
	Header http.Header

	// HTTPDoer sends the requests. If nil, http.DefaultClient is used.
	HTTPDoer HTTPDoer

	// RetryPolicy decides whether, and after how long, a failed
	// attempt is retried. If nil, retry.Never is used.
	RetryPolicy retry.Policy

	// TimeoutPolicy sets the timeout of each attempt. A positive
	// transport.Config.Timeout on the call overrides it. If nil,
	// attempts have no timeout of their own.
	TimeoutPolicy timeout.Policy

	// Limiter, if not nil, is waited on before every attempt.
	Limiter *rate.Limiter

	// Interceptors run in order on each outgoing request after all
	// headers are set.
	Interceptors []func(r *http.Request)
}

// Do sends call, retrying according to the retry policy. It implements
// transport.Transport.
//
// Network errors are returned as *url.Error. A response with a status
// code rejected by the call's transport.Config is returned as a
// *transport.StatusError.
func (t *Transport) Do(ctx context.Context, call *transport.Call) (*transport.Response, error) {
	u := Join(t.BaseURL, call.URL)
	doer := t.doer()

	retryPolicy := t.RetryPolicy
	if retryPolicy == nil {
		retryPolicy = retry.Never
	}

	a := transport.Attempt{
		Call:  call,
		Start: time.Now(),
	}

RetryLoop:
	for {
		t.sendAndReceive(ctx, u, &a, doer)
		if a.Timeout() {
			a.Timeouts++
		}
		if err := ctx.Err(); err != nil {
			a.Response = nil
			a.Err = urlErrorWrap(call.Method, u, err)
			break
		} else if retryPolicy.Decide(&a) {
			wait := retryPolicy.Wait(&a)
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				a.Response = nil
				a.Err = urlErrorWrap(call.Method, u, ctx.Err())
				break RetryLoop
			}
			a.Response = nil
			a.Err = nil
			a.Index++
		} else {
			break
		}
	}

	if a.Err != nil {
		return nil, a.Err
	}
	if !call.Config.Validate(a.Response.StatusCode) {
		return nil, &transport.StatusError{Response: a.Response}
	}
	return a.Response, nil
}

func (t *Transport) sendAndReceive(ctx context.Context, u string, a *transport.Attempt, doer HTTPDoer) {
	call := a.Call
	if t.Limiter != nil {
		if err := t.Limiter.Wait(ctx); err != nil {
			a.Err = urlErrorWrap(call.Method, u, err)
			return
		}
	}

	ctx, cancel := t.attemptContext(ctx, a)
	defer cancel()

	r, err := t.newRequest(ctx, u, call)
	if err != nil {
		a.Err = urlErrorWrap(call.Method, u, err)
		return
	}

	resp, err := doer.Do(r)
	if err != nil {
		a.Err = urlErrorWrap(call.Method, u, err)
		return
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		a.Err = urlErrorWrap(call.Method, u, err)
		return
	}

	a.Response = &transport.Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}
}

func (t *Transport) attemptContext(ctx context.Context, a *transport.Attempt) (context.Context, context.CancelFunc) {
	if d := a.Call.Config.Timeout; d > 0 {
		return context.WithTimeout(ctx, d)
	}
	if t.TimeoutPolicy != nil {
		return context.WithTimeout(ctx, t.TimeoutPolicy.Timeout(a))
	}
	return context.WithCancel(ctx)
}

func (t *Transport) newRequest(ctx context.Context, u string, call *transport.Call) (*http.Request, error) {
	var body io.Reader
	if call.Body != nil {
		body = bytes.NewReader(call.Body)
	}

	r, err := http.NewRequestWithContext(ctx, call.Method, u, body)
	if err != nil {
		return nil, err
	}

	for k, vs := range t.Header {
		r.Header[k] = append([]string(nil), vs...)
	}
	if call.ContentType != "" {
		r.Header.Set("Accept", call.ContentType)
		if call.Body != nil {
			r.Header.Set("Content-Type", call.ContentType)
		}
	}
	for k, vs := range call.Config.Header {
		r.Header[http.CanonicalHeaderKey(k)] = append([]string(nil), vs...)
	}

	for _, f := range t.Interceptors {
		f(r)
	}

	return r, nil
}

// CloseIdleConnections closes idle connections held by the HTTPDoer,
// if it is an IdleCloser.
func (t *Transport) CloseIdleConnections() {
	if ic, ok := t.doer().(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}

func (t *Transport) doer() HTTPDoer {
	if t.HTTPDoer == nil {
		return http.DefaultClient
	}

	return t.HTTPDoer
}

var absoluteURL = regexp.MustCompile(`^(?i:[a-z][a-z\d+\-.]*:)?//`)

// Join joins path onto base with exactly one slash between them. An
// absolute path, one starting with a scheme or with "//", is returned
// unchanged, as is path when base is empty.
func Join(base, path string) string {
	if base == "" || absoluteURL.MatchString(path) {
		return path
	}
	if path == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

func urlErrorWrap(method, u string, err error) error {
	if _, ok := err.(*url.Error); ok {
		return err
	}

	return &url.Error{
		Op:  urlErrorOp(method),
		URL: u,
		Err: err,
	}
}

func urlErrorOp(method string) string {
	if method == "" {
		return "Get"
	}
	return method[:1] + strings.ToLower(method[1:])
}
