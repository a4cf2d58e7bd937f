// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"context"
	"errors"
	"net"
	"syscall"
)

// A Category is the class of a transport failure as reported by
// Categorize.
//
// Not means the failure is unclassified or permanent. Canceled means
// the caller gave up on the request. The remaining categories are
// transient: a later attempt has some prospect of success.
type Category int

const (
	// Not indicates a nil error or any error outside the other
	// categories.
	Not Category = iota
	// Canceled indicates the request context was cancelled, either by
	// the executor's cancellation handle or by the caller's context.
	//
	// Canceled takes precedence over every other category.
	Canceled
	// Timeout indicates a client-side timeout: the error, or one of its
	// wrapped causes, has a Timeout method reporting true. A context
	// deadline is a timeout.
	Timeout
	// ConnRefused indicates the remote host refused the connection
	// (syscall.ECONNREFUSED). A service that is restarting typically
	// refuses connections for a short while.
	ConnRefused
	// ConnReset indicates the remote host reset a previously active
	// connection (syscall.ECONNRESET).
	ConnReset
	// Unresolved indicates the host name could not be resolved because
	// the resolver itself timed out or failed temporarily.
	Unresolved
)

var categoryNames = []string{
	"Not",
	"Canceled",
	"Timeout",
	"ConnRefused",
	"ConnReset",
	"Unresolved",
}

// String returns the name of the category.
func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "Unknown"
	}
	return categoryNames[c]
}

// Transient reports whether the category describes a failure worth
// retrying.
func (c Category) Transient() bool {
	return c > Canceled && c <= Unresolved
}

// Categorize returns the category of err, looking through wrapped
// causes. A nil error is Not.
func Categorize(err error) Category {
	if err == nil {
		return Not
	}

	if errors.Is(err, context.Canceled) {
		return Canceled
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && !dnsErr.IsTimeout && dnsErr.IsTemporary {
		return Unresolved
	}

	var hasTimeout hasTimeout
	if errors.As(err, &hasTimeout) && hasTimeout.Timeout() {
		return Timeout
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNRESET:
			return ConnReset
		case syscall.ECONNREFUSED:
			return ConnRefused
		}
	}

	return Not
}

type hasTimeout interface {
	Timeout() bool
}
