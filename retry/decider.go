// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"net/http"
	"time"

	"github.com/gogama/alliance/transient"
	"github.com/gogama/alliance/transport"
)

// A Decider decides if another network attempt should be made.
//
// Implementations of Decider must be safe for concurrent use by
// multiple goroutines.
type Decider interface {
	Decide(a *transport.Attempt) bool
}

// The DeciderFunc type is an adapter to allow the use of ordinary
// functions as retry deciders. It also provides the logical
// composition methods And and Or.
type DeciderFunc func(a *transport.Attempt) bool

// DefaultTimes is the number of retries allowed by DefaultDecider.
const DefaultTimes = 3

// DefaultDecider allows up to DefaultTimes retries of idempotent
// calls (GET, PUT and DELETE) after a transient error or a 429, 502,
// 503 or 504 response.
var DefaultDecider = Times(DefaultTimes).And(Idempotent).And(StatusCode(429, 502, 503, 504).Or(TransientErr))

// TransientErr indicates a retry if the attempt's error is transient
// according to transient.Categorize. Cancellation is never transient.
var TransientErr DeciderFunc = transientErr

// Idempotent indicates a retry only for the GET, PUT and DELETE
// methods, so a POST is never sent twice.
var Idempotent DeciderFunc = idempotent

// Decide returns f(a).
func (f DeciderFunc) Decide(a *transport.Attempt) bool {
	return f(a)
}

// And composes f and g into a decider that returns true only if both
// do. g is not evaluated if f returns false.
func (f DeciderFunc) And(g DeciderFunc) DeciderFunc {
	return func(a *transport.Attempt) bool {
		return f(a) && g(a)
	}
}

// Or composes f and g into a decider that returns true if either does.
// g is not evaluated if f returns true.
func (f DeciderFunc) Or(g DeciderFunc) DeciderFunc {
	return func(a *transport.Attempt) bool {
		return f(a) || g(a)
	}
}

// Times allows up to n retries.
func Times(n int) DeciderFunc {
	return func(a *transport.Attempt) bool {
		return a.Index < n
	}
}

// Before allows retries until d has elapsed since the first attempt
// started.
func Before(d time.Duration) DeciderFunc {
	return func(a *transport.Attempt) bool {
		return a.Elapsed() < d
	}
}

// StatusCode allows a retry when the attempt received a response with
// one of the status codes ss.
func StatusCode(ss ...int) DeciderFunc {
	set := make(map[int]struct{}, len(ss))
	for _, s := range ss {
		set[s] = struct{}{}
	}
	return func(a *transport.Attempt) bool {
		if a.Response == nil {
			return false
		}
		_, ok := set[a.Response.StatusCode]
		return ok
	}
}

func transientErr(a *transport.Attempt) bool {
	return transient.Categorize(a.Err).Transient()
}

func idempotent(a *transport.Attempt) bool {
	switch a.Call.Method {
	case http.MethodGet, http.MethodPut, http.MethodDelete:
		return true
	default:
		return false
	}
}
