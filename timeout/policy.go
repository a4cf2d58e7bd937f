// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"time"

	"github.com/gogama/alliance/transport"
)

// A Policy chooses the timeout for the next network attempt of a
// transport call.
//
// Implementations of Policy must be safe for concurrent use by multiple
// goroutines.
type Policy interface {
	// Timeout returns the timeout for the next attempt. Parameter a
	// describes the attempts made so far; on the first attempt
	// a.Index is zero and a.Err is nil.
	Timeout(a *transport.Attempt) time.Duration
}

// DefaultPolicy sets a fixed timeout of 5 seconds on each attempt.
var DefaultPolicy Policy = Fixed(5 * time.Second)

// Infinite never times out.
var Infinite Policy = Fixed(1<<63 - 1)

// Fixed returns a policy that uses d for every attempt.
func Fixed(d time.Duration) Policy {
	return policy([]time.Duration{d})
}

// Adaptive returns a policy that lengthens the timeout when the
// previous attempt timed out.
//
// The policy returns usual for the first attempt and for any retry
// whose preceding attempt did not time out. After the first timeout it
// returns after[0], after the second after[1], and so on; once after is
// exhausted its last element is reused.
//
// For example:
//
//	p := Adaptive(200*time.Millisecond, time.Second, 10*time.Second)
//
// uses 200 milliseconds normally, 1 second following the first timeout
// and 10 seconds following any later one.
func Adaptive(usual time.Duration, after ...time.Duration) Policy {
	p := make([]time.Duration, 1, 1+len(after))
	p[0] = usual
	return policy(append(p, after...))
}

type policy []time.Duration

func (p policy) Timeout(a *transport.Attempt) time.Duration {
	if !a.Timeout() {
		return p[0]
	}

	i := a.Timeouts
	if i > len(p)-1 {
		i = len(p) - 1
	}

	return p[i]
}

// Capped returns a policy that never lets an attempt run past total
// measured from the first attempt's start. Once the budget is spent
// the policy returns a tiny positive timeout so the attempt fails fast.
func Capped(p Policy, total time.Duration) Policy {
	if p == nil {
		panic("alliance/timeout: nil policy")
	}
	return capped{p, total}
}

type capped struct {
	p     Policy
	total time.Duration
}

func (c capped) Timeout(a *transport.Attempt) time.Duration {
	d := c.p.Timeout(a)
	remaining := c.total - a.Elapsed()
	if remaining <= 0 {
		return time.Nanosecond
	}
	if remaining < d {
		return remaining
	}
	return d
}
