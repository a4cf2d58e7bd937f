// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gogama/alliance/transport"
)

// A Waiter specifies how long to wait before the next network attempt.
//
// Implementations of Waiter must be safe for concurrent use by multiple
// goroutines.
type Waiter interface {
	Wait(a *transport.Attempt) time.Duration
}

// DefaultWaiter is a jittered exponential backoff with a base wait of
// 50 milliseconds and a maximum wait of 1 second.
var DefaultWaiter = NewExpWaiter(50*time.Millisecond, 1*time.Second, time.Now())

// NewFixedWaiter returns a Waiter that always waits d.
func NewFixedWaiter(d time.Duration) Waiter {
	return fixedWaiter(d)
}

type fixedWaiter time.Duration

func (w fixedWaiter) Wait(_ *transport.Attempt) time.Duration {
	return time.Duration(w)
}

// NewExpWaiter returns a "Full Jitter" exponential backoff Waiter. The
// ceiling for attempt index i is min(base * 2**i, max), and the wait is
// a random duration in [0, ceil).
//
// base must be positive and max at least base. jitter seeds the
// random number generator and may be a time.Time, int, int64,
// rand.Source or *rand.Rand. A nil jitter disables jitter, so the wait
// is always the ceiling.
func NewExpWaiter(base, max time.Duration, jitter interface{}) Waiter {
	if base < 1 {
		panic("alliance/retry: base must be positive")
	}
	if max < base {
		panic("alliance/retry: max must be at least base")
	}
	return &expWaiter{
		base: base,
		max:  max,
		rand: jitterToRand(jitter),
	}
}

type expWaiter struct {
	base time.Duration
	max  time.Duration
	rand *rand.Rand
	lock sync.Mutex
}

func (w *expWaiter) Wait(a *transport.Attempt) time.Duration {
	ceil := w.max
	if a.Index < 62 {
		exp := time.Duration(1) << uint(a.Index)
		if c := w.base * exp; c/exp == w.base && c < w.max {
			ceil = c
		}
	}

	if w.rand == nil {
		return ceil
	}

	w.lock.Lock()
	defer w.lock.Unlock()
	return time.Duration(w.rand.Int63n(int64(ceil)))
}

func jitterToRand(jitter interface{}) *rand.Rand {
	var s rand.Source
	switch j := jitter.(type) {
	case nil:
		return nil
	case time.Time:
		s = rand.NewSource(j.UnixNano())
	case int:
		s = rand.NewSource(int64(j))
	case int64:
		s = rand.NewSource(j)
	case *rand.Rand:
		if j == nil {
			panic("alliance/retry: jitter may not be a typed nil")
		}
		return j
	case rand.Source:
		s = j
	default:
		panic("alliance/retry: invalid jitter type")
	}
	return rand.New(s)
}

// RetryAfter wraps fallback in a Waiter that honours the Retry-After
// header of 429 and 503 responses when it holds a number of seconds.
// Any other attempt waits as fallback decides.
func RetryAfter(fallback Waiter) Waiter {
	if fallback == nil {
		panic("alliance/retry: nil waiter")
	}
	return retryAfterWaiter{fallback}
}

type retryAfterWaiter struct {
	fallback Waiter
}

func (w retryAfterWaiter) Wait(a *transport.Attempt) time.Duration {
	if r := a.Response; r != nil && (r.StatusCode == http.StatusTooManyRequests || r.StatusCode == http.StatusServiceUnavailable) {
		if secs, err := strconv.Atoi(r.Header.Get("Retry-After")); err == nil && secs >= 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return w.fallback.Wait(a)
}
