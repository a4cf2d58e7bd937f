// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package alliance

import (
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/gogama/alliance/codec"
	"github.com/gogama/alliance/transport"
	"github.com/rs/zerolog"
)

// Config is the configuration of a registry entry. Every executor made
// from the entry shares it, and must treat it as read-only.
type Config struct {
	// Protocol is the URL scheme, such as "https". If empty, "http" is
	// used.
	Protocol string

	// Host is the server host name or IP address.
	Host string

	// Port is the server port. Zero leaves the port out of BaseURL.
	Port int

	// Path is an optional base path prefixed to every route path.
	Path string

	// ErrorHandler receives the failures of PerformSilent. If nil,
	// failures handed to it are discarded.
	ErrorHandler ErrorHandler

	// RequestBuilder produces the transport config of every request
	// and initializes the transport. If nil, requests are sent with
	// the executor's config unchanged.
	RequestBuilder RequestBuilder

	// Transport sends the requests. It may be installed by the
	// RequestBuilder. If it is still nil once the builder has run, the
	// registry installs a nethttp.Transport on BaseURL.
	Transport transport.Transport

	// Codec encodes request bodies and decodes response bodies. If
	// nil, codec.JSON is used.
	Codec codec.Codec

	// Logger receives warnings about requests resolved to default
	// values and other anomalies. If nil, nothing is logged.
	Logger *zerolog.Logger

	// Handlers holds the event handlers run by every executor.
	Handlers *HandlerGroup
}

// BaseURL assembles the base URL from Protocol, Host, Port and Path.
func (c *Config) BaseURL() string {
	scheme := strings.TrimSuffix(strings.TrimSuffix(c.Protocol, "://"), ":")
	if scheme == "" {
		scheme = "http"
	}

	host := c.Host
	if c.Port != 0 {
		host = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	}

	u := url.URL{
		Scheme: scheme,
		Host:   host,
		Path:   strings.TrimRight(c.Path, "/"),
	}
	return u.String()
}

func (c *Config) codec() codec.Codec {
	return codec.Or(c.Codec)
}

func (c *Config) errorHandler() ErrorHandler {
	if c.ErrorHandler == nil {
		return ErrorHandlerFuncs{}
	}
	return c.ErrorHandler
}

var nopLogger = zerolog.Nop()

func (c *Config) logger() *zerolog.Logger {
	if c.Logger == nil {
		return &nopLogger
	}
	return c.Logger
}
