// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import "github.com/gogama/alliance/pagination"

// A Method is an HTTP request method.
type Method string

// The supported methods. Any other Method value is representable but
// is never sent.
const (
	GET    Method = "GET"
	POST   Method = "POST"
	PUT    Method = "PUT"
	DELETE Method = "DELETE"
)

// Supported reports whether m is one of GET, POST, PUT or DELETE.
func (m Method) Supported() bool {
	switch m {
	case GET, POST, PUT, DELETE:
		return true
	default:
		return false
	}
}

// HasBody reports whether requests with method m carry a body.
func (m Method) HasBody() bool {
	return m == POST || m == PUT
}

// A Route describes one remote operation.
type Route struct {
	// Path is the path template, relative to the client's base URL.
	// It may contain ":name" placeholders.
	Path string
	// Method is the HTTP method.
	Method Method
	// Params maps placeholder names to the values substituted for
	// them.
	Params Values
	// Query holds the query parameters, in the order they are
	// rendered.
	Query Values
	// Pageable, if not nil, is appended to the query as "size" and
	// "page".
	Pageable *pagination.Pageable
	// AuthRequired indicates that the request must not be sent
	// without credentials.
	AuthRequired bool
	// UseOptionalAuth indicates that credentials are attached when
	// available.
	UseOptionalAuth bool
}

// Clone returns a deep copy of r. Changes to the copy, including to
// its Params, Query and Pageable, do not affect r.
func (r *Route) Clone() *Route {
	r2 := *r
	r2.Params = r.Params.Clone()
	r2.Query = r.Query.Clone()
	if r.Pageable != nil {
		p := *r.Pageable
		r2.Pageable = &p
	}
	return &r2
}
