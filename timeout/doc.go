// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package timeout defines the per-attempt timeout policies used by the
// net/http transport. A Policy chooses the timeout of each network
// attempt, including retries, from the state of the transport's work
// on the call so far.
package timeout
