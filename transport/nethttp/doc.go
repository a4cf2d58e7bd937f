// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package nethttp provides the default transport.Transport, built on
// the standard net/http client.
//
// A Transport joins each call's path onto its BaseURL, applies default
// headers and request interceptors, and sends the request through an
// HTTPDoer. Below the executor's single logical call it may make
// several network attempts, directed by a retry.Policy and bounded by a
// timeout.Policy and an optional rate limiter:
//
//	t := &nethttp.Transport{
//		BaseURL:       "https://api.example.com/v1",
//		RetryPolicy:   retry.DefaultPolicy,
//		TimeoutPolicy: timeout.Fixed(2 * time.Second),
//		Limiter:       rate.NewLimiter(rate.Limit(20), 5),
//	}
//
// The zero value is usable: it sends with http.DefaultClient, never
// retries and sets no attempt timeout.
package nethttp
