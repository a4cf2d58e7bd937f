// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package retry holds the retry policies of the default transport.
//
// Retries are a transport concern: the request executor issues one
// transport call per execution, and the transport may make several
// network attempts to complete it. The default transport uses Never.
//
// A Policy is a Decider, deciding whether to try again, and a Waiter,
// deciding how long to wait first:
//
//	decider := retry.Times(3).
//		And(retry.Idempotent).
//		And(retry.StatusCode(503).Or(retry.TransientErr))
//	waiter := retry.NewExpWaiter(100*time.Millisecond, 2*time.Second, time.Now())
//	policy := retry.NewPolicy(decider, retry.RetryAfter(waiter))
package retry
