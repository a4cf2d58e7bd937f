// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"time"

	"github.com/gogama/alliance/transient"
)

// An Attempt is the state of a transport's work on one Call. Retry
// and timeout policies inspect it between network attempts.
//
// Policies should treat the exported fields as read-only.
type Attempt struct {
	// Call is the call being sent. It is never nil.
	Call *Call
	// Index is the zero-based number of the current network attempt.
	Index int
	// Timeouts counts the attempts that ended in a timeout.
	Timeouts int
	// Start is the time the first attempt started.
	Start time.Time
	// Response is the response received by the most recent attempt,
	// or nil if it ended in error.
	Response *Response
	// Err is the error of the most recent attempt, or nil.
	Err error
}

// StatusCode returns the status code of Response, or 0 if there is no
// response.
func (a *Attempt) StatusCode() int {
	if a.Response == nil {
		return 0
	}
	return a.Response.StatusCode
}

// Elapsed returns the time since Start, or zero if the first attempt
// has not started.
func (a *Attempt) Elapsed() time.Duration {
	if a.Start.IsZero() {
		return 0
	}
	return time.Since(a.Start)
}

// Timeout reports whether Err is a timeout.
func (a *Attempt) Timeout() bool {
	return transient.Categorize(a.Err) == transient.Timeout
}
