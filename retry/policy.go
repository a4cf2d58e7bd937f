// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"

	"github.com/gogama/alliance/transport"
)

// A Policy decides after every network attempt whether to retry and,
// if so, how long to wait before doing it.
//
// Implementations of Policy must be safe for concurrent use by multiple
// goroutines.
type Policy interface {
	Decider
	Waiter
}

// DefaultPolicy composes DefaultDecider and DefaultWaiter.
var DefaultPolicy Policy = policy{DefaultDecider, DefaultWaiter}

// Never is a policy that never retries. It is the default of the
// nethttp transport.
var Never Policy = policy{Times(0), DefaultWaiter}

type policy struct {
	decider Decider
	waiter  Waiter
}

// NewPolicy composes a Decider and a Waiter into a Policy.
func NewPolicy(d Decider, w Waiter) Policy {
	if d == nil {
		panic("alliance/retry: nil decider")
	}
	if w == nil {
		panic("alliance/retry: nil waiter")
	}
	return policy{decider: d, waiter: w}
}

func (p policy) Decide(a *transport.Attempt) bool {
	return p.decider.Decide(a)
}

func (p policy) Wait(a *transport.Attempt) time.Duration {
	return p.waiter.Wait(a)
}
