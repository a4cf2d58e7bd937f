// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package apierror

import (
	"errors"
	"net/http"

	"github.com/gogama/alliance/codec"
)

// Error codes of the client-side errors.
const (
	InternalErrorID        = "INTERNAL_ERROR"
	NetworkErrorID         = "NETWORK_ERROR"
	UnauthenticatedErrorID = "UNAUTHENTICATED"
)

// Internal returns the error for an unexpected failure inside the
// client. Its Kind is KindUnspecified; callers set the Kind that fits
// the failure.
func Internal() *Error {
	return New("Ein interner App-Fehler ist aufgetreten.", InternalErrorID, &Info{
		StatusCode: http.StatusInternalServerError,
	})
}

// Network returns the error for a request that never reached the
// server. The cause, which may be nil, is available through
// errors.Unwrap.
func Network(cause error) *Error {
	e := New("Es ist ein Netzwerkfehler aufgetreten. Bitte überprüfe deine Internetverbindung", NetworkErrorID, &Info{
		StatusCode: http.StatusInternalServerError,
	})
	e.Kind = KindTransportFailure
	e.cause = cause
	return e
}

// Unauthenticated returns the error a request builder passes to its
// cancel callback when a route requires authentication but no
// credentials are available.
func Unauthenticated() *Error {
	e := New("Für diese Anfrage ist eine Anmeldung erforderlich.", UnauthenticatedErrorID, &Info{
		StatusCode: http.StatusUnauthorized,
	})
	e.Kind = KindPreflightCancelled
	return e
}

// FromResponse decodes body, the payload of a non-success response,
// into an Error of kind KindErrorResponse. If the body is empty or not
// an error payload, the Error carries the status text and
// UnknownErrorID. A missing status code in the payload is taken from
// statusCode.
func FromResponse(statusCode int, body []byte, c codec.Codec) *Error {
	var e Error
	if len(body) == 0 || codec.Or(c).Unmarshal(body, &e) != nil || (e.Message == "" && e.ErrorID == "") {
		out := New(http.StatusText(statusCode), "", &Info{StatusCode: statusCode})
		out.Kind = KindErrorResponse
		return out
	}
	if e.ErrorID == "" {
		e.ErrorID = UnknownErrorID
	}
	if e.StatusCode == 0 {
		e.StatusCode = statusCode
	}
	e.Kind = KindErrorResponse
	return &e
}

// FromTransport converts a transport failure into an Error. If err
// already holds an Error, that Error is returned; otherwise the result
// is Network(err).
func FromTransport(err error) *Error {
	if e, ok := As(err); ok {
		return e
	}
	return Network(err)
}

// As finds the first Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
