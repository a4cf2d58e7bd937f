// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package nethttp

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"
)

// NewHTTP2Doer returns an *http.Client that speaks HTTP/2 only.
//
// If cleartext is true, every connection is plain TCP and "http" URLs
// are sent as h2c instead of failing. Parameter tlsConfig may be nil.
func NewHTTP2Doer(cleartext bool, tlsConfig *tls.Config) *http.Client {
	t := &http2.Transport{
		TLSClientConfig: tlsConfig,
	}
	if cleartext {
		t.AllowHTTP = true
		t.DialTLSContext = func(ctx context.Context, network, addr string, cfg *tls.Config) (net.Conn, error) {
			d := &net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}
			return d.DialContext(ctx, network, addr)
		}
	}
	return &http.Client{Transport: t}
}
