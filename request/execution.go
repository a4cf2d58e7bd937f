// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"net/http"
	"time"

	"github.com/gogama/alliance/apierror"
	"github.com/gogama/alliance/transient"
	"github.com/gogama/alliance/transport"
)

// A State is a step of an executor run.
type State int

const (
	// Created is the state before the run starts.
	Created State = iota
	// Building means the request builder is producing the transport
	// config.
	Building
	// PreflightCancelled means the request builder cancelled the
	// request. No call was sent.
	PreflightCancelled
	// Sending means the transport call is in flight.
	Sending
	// Resolved is the terminal state of a run that produced a value,
	// whether decoded, default or zero.
	Resolved
	// Rejected is the terminal state of a run that returned an error.
	Rejected
)

var stateNames = []string{
	"Created",
	"Building",
	"PreflightCancelled",
	"Sending",
	"Resolved",
	"Rejected",
}

// String returns the name of the state.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "State(?)"
	}
	return stateNames[s]
}

// An Execution represents the state of one executor run.
type Execution struct {
	// Route is the route being executed. It is a private copy that
	// handlers should not modify.
	Route *Route

	// Silent indicates the run was started by PerformSilent.
	Silent bool

	// State is the current state of the run.
	State State

	// Config is the transport config. It holds the executor's config
	// until the request builder returns, then the builder's output.
	Config transport.Config

	// Path is the resolved request path. It is empty until the method
	// check passes.
	Path string

	// Call is the transport call. It is nil until the run enters the
	// Sending state.
	Call *transport.Call

	// Start is the start time of the run.
	Start time.Time

	// End is the end time of the run. It is the zero value until the
	// run ends.
	End time.Time

	// Response is the response received, if any. It is set both for
	// accepted responses and for responses carried by a
	// *transport.StatusError.
	Response *transport.Response

	// Err is the transport error or decoding error of the run, if
	// any.
	Err error

	// CancelReason is the reason given by the request builder when it
	// cancelled the request before sending.
	CancelReason *apierror.Error

	// Defaulted indicates the run resolved to the executor's default
	// value in place of a failure.
	Defaulted bool

	data context.Context
}

// StatusCode returns the status code of the response, or 0 if there
// is no response.
func (e *Execution) StatusCode() int {
	if e.Response == nil {
		return 0
	}

	return e.Response.StatusCode
}

// Header returns the response headers, or nil if there is no response.
func (e *Execution) Header() http.Header {
	if e.Response == nil {
		var nilHeader http.Header
		return nilHeader
	}

	return e.Response.Header
}

// Duration returns the duration of the run. If the run has not
// started, zero is returned. If it has not ended, the time since Start
// is returned.
func (e *Execution) Duration() time.Duration {
	if !e.Started() {
		return time.Duration(0)
	} else if !e.Ended() {
		return time.Since(e.Start)
	}

	return e.End.Sub(e.Start)
}

// Started reports whether the run has started.
func (e *Execution) Started() bool {
	return !e.Start.IsZero()
}

// Ended reports whether the run has ended.
func (e *Execution) Ended() bool {
	return !e.End.IsZero()
}

// Timeout reports whether Err is a timeout.
func (e *Execution) Timeout() bool {
	return transient.Categorize(e.Err) == transient.Timeout
}

// Canceled reports whether Err is a cancellation, either of the
// executor's handle or of the caller's context.
func (e *Execution) Canceled() bool {
	return transient.Categorize(e.Err) == transient.Canceled
}

// SetValue lets handlers attach arbitrary values to the run. Keys
// follow the rules of context.WithValue.
func (e *Execution) SetValue(key, value interface{}) {
	ctx := e.data
	if ctx == nil {
		ctx = context.Background()
	}

	e.data = context.WithValue(ctx, key, value)
}

// Value returns the value associated with key by SetValue, or nil.
func (e *Execution) Value(key interface{}) interface{} {
	ctx := e.data
	if ctx == nil {
		return nil
	}

	return ctx.Value(key)
}
