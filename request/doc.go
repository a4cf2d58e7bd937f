// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the core types Route (describes a remote
operation) and Execution (describes one execution of a Route).

A Route is a declarative description of one remote operation: a path
template with ":name" placeholders, an HTTP method, path parameters,
query parameters and optional pagination.

	route := &request.Route{
		Path:   "/items/:id",
		Method: request.GET,
		Params: request.ValuesOf("id", 7),
		Query:  request.ValuesOf("verbose", true),
	}
	request.ResolvePath(route) // "/items/7?verbose=true"

Query and parameter values are held in Values, an insertion-ordered
mapping, so the resolved path is deterministic. No percent-encoding
is performed.

An Execution records the progress of one request executor run through
its states, from Created to Resolved or Rejected. It is the input type
for the event handlers installed on an alliance client. You will
typically not allocate Execution instances yourself, but will instead
work with the ones handed out by the executor.
*/
package request
