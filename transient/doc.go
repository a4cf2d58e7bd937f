// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transient classifies transport failures, the errors produced
// when an HTTP request never yields a response.
//
// The categories feed the transport's retry decisions and let error
// handlers tell a cancelled request apart from a network outage,
// for example to suppress an error banner when the user navigated away.
package transient
