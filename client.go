// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package alliance

import (
	"github.com/gogama/alliance/request"
	"github.com/gogama/alliance/transport"
)

// A Client is a registry entry. It is created by a Registry or a
// Singleton and manufactures executors through Request and
// RequestWithConfig.
//
// A Client is safe for concurrent use by multiple goroutines.
type Client struct {
	name string
	cfg  *Config
}

// Name returns the instance name the client was registered under. It
// is empty for a Singleton client.
func (c *Client) Name() string {
	return c.name
}

// Config returns the client configuration. The caller must not modify
// it.
func (c *Client) Config() *Config {
	return c.cfg
}

// CloseIdleConnections closes idle connections held by the client's
// transport, if it supports doing so.
func (c *Client) CloseIdleConnections() {
	if ic, ok := c.cfg.Transport.(interface{ CloseIdleConnections() }); ok {
		ic.CloseIdleConnections()
	}
}

// Request returns an executor for route whose result is decoded as T.
// The route is copied, so later changes to it do not affect the
// executor.
func Request[T any](c *Client, route *request.Route) *Executor[T] {
	return RequestWithConfig[T](c, route, transport.Config{})
}

// RequestWithConfig is like Request but starts from cfg as the
// transport config handed to the request builder.
func RequestWithConfig[T any](c *Client, route *request.Route, cfg transport.Config) *Executor[T] {
	if c == nil {
		panic("alliance: nil client")
	}
	if route == nil {
		panic("alliance: nil route")
	}
	return newExecutor[T](c, route, cfg)
}
