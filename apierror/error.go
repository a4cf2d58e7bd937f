// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package apierror

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DetailsKey is the key of the Details mapping that the detail
// attachment methods write to.
const DetailsKey = "details"

// UnknownErrorID is the error code of an Error constructed without
// one.
const UnknownErrorID = "UNKNOWN_ERROR"

// GenericMessage replaces the message of a critical Error in
// ToResponse.
const GenericMessage = "An internal server error occurred. Please report to administrator"

// A Kind is the failure branch that produced an Error on the client.
type Kind int

const (
	// KindUnspecified marks an Error not attributed to a failure branch,
	// for example one constructed by application code.
	KindUnspecified Kind = iota
	// KindErrorResponse marks an Error decoded from a non-success
	// response.
	KindErrorResponse
	// KindTransportFailure marks an Error standing in for a request
	// that never produced a response.
	KindTransportFailure
	// KindPreflightCancelled marks an Error passed to the request
	// builder's cancel callback.
	KindPreflightCancelled
	// KindUnsupportedMethod marks the Error returned for a route whose
	// method is not GET, POST, PUT or DELETE.
	KindUnsupportedMethod
)

var kindNames = []string{
	"Unspecified",
	"ErrorResponse",
	"TransportFailure",
	"PreflightCancelled",
	"UnsupportedMethod",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Info holds the optional fields of New.
type Info struct {
	StatusCode int
	IsCritical bool
	Details    map[string]interface{}
}

// An Error is an API error payload.
type Error struct {
	Timestamp  time.Time              `json:"timestamp"`
	Message    string                 `json:"message"`
	ErrorID    string                 `json:"errorId"`
	StatusCode int                    `json:"statusCode,omitempty"`
	IsCritical bool                   `json:"isCritical,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`

	// Kind is set by the client and never transmitted.
	Kind Kind `json:"-"`

	cause error
}

// New returns an Error stamped with the current time. An empty errorID
// becomes UnknownErrorID. The info parameter may be nil.
func New(message, errorID string, info *Info) *Error {
	if errorID == "" {
		errorID = UnknownErrorID
	}
	e := &Error{
		Timestamp: time.Now(),
		Message:   message,
		ErrorID:   errorID,
	}
	if info != nil {
		e.StatusCode = info.StatusCode
		e.IsCritical = info.IsCritical
		e.Details = info.Details
	}
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s (%d): %s: %v", e.ErrorID, e.code(), e.Message, e.cause)
	}
	return fmt.Sprintf("%s (%d): %s", e.ErrorID, e.code(), e.Message)
}

// Unwrap returns the cause of a transport failure Error, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// WithKind sets Kind and returns e.
func (e *Error) WithKind(k Kind) *Error {
	e.Kind = k
	return e
}

// PutDetail stores key and value in the mapping held under DetailsKey.
// Consecutive calls accumulate; a mapping previously stored by
// SetDetailsMap is extended, whereas a list stored by SetDetailsList is
// replaced.
//
// Earlier releases replaced the whole attachment with a single-entry
// mapping on every call. Code relying on that overwrite must call
// SetDetailsMap instead.
func (e *Error) PutDetail(key string, value interface{}) {
	m, ok := e.details()[DetailsKey].(map[string]interface{})
	if !ok {
		m = make(map[string]interface{})
	}
	m[key] = value
	e.Details[DetailsKey] = m
}

// SetDetailsList stores list under DetailsKey, replacing any earlier
// attachment.
func (e *Error) SetDetailsList(list []interface{}) {
	e.details()[DetailsKey] = list
}

// SetDetailsMap stores m under DetailsKey, replacing any earlier
// attachment.
func (e *Error) SetDetailsMap(m map[string]interface{}) {
	e.details()[DetailsKey] = m
}

func (e *Error) details() map[string]interface{} {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	return e.Details
}

// Response is the end-user rendering of an Error.
type Response struct {
	StatusCode int                    `json:"statusCode"`
	Message    string                 `json:"message"`
	Timestamp  time.Time              `json:"timestamp"`
	ErrorID    string                 `json:"errorId"`
	Details    map[string]interface{} `json:"details,omitempty"`
}

// ToResponse renders e for an end user. A zero status code becomes 500
// and a critical error's message becomes GenericMessage.
func (e *Error) ToResponse() Response {
	msg := e.Message
	if e.IsCritical {
		msg = GenericMessage
	}
	return Response{
		StatusCode: e.code(),
		Message:    msg,
		Timestamp:  e.Timestamp,
		ErrorID:    e.ErrorID,
		Details:    e.Details,
	}
}

// UnmarshalJSON accepts the error code under either "errorId" or the
// legacy "error" key.
func (e *Error) UnmarshalJSON(b []byte) error {
	type plain Error
	var aux struct {
		plain
		Legacy string `json:"error"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*e = Error(aux.plain)
	if e.ErrorID == "" {
		e.ErrorID = aux.Legacy
	}
	return nil
}

func (e *Error) code() int {
	if e.StatusCode == 0 {
		return http.StatusInternalServerError
	}
	return e.StatusCode
}
