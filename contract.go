// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package alliance

import (
	"github.com/gogama/alliance/apierror"
	"github.com/gogama/alliance/codec"
	"github.com/gogama/alliance/request"
	"github.com/gogama/alliance/transport"
	"github.com/rs/zerolog"
)

// A CancelFunc aborts a request before it is sent. Request builders
// receive one in BuildRequestConfig.
type CancelFunc func(reason *apierror.Error)

// A RequestBuilder integrates application specific request setup,
// typically authentication, with the executor.
//
// Implementations must be safe for concurrent use by multiple
// goroutines.
type RequestBuilder interface {
	// BuildRequestConfig returns the transport config for one request.
	// Parameter cfg is a private copy of the executor's config which
	// the builder may modify and return.
	//
	// Calling cancel before returning aborts the request: no call is
	// sent and the executor resolves to its default value, if any, or
	// fails with the reason. When cancel is called more than once the
	// last reason is used.
	BuildRequestConfig(route *request.Route, cfg transport.Config, eh ErrorHandler, cancel CancelFunc) transport.Config

	// InitializeTransport runs once when a registry entry is created.
	// It may set defaults on cfg, for example by installing cfg.Transport.
	// A non-nil error aborts the creation of the entry.
	InitializeTransport(cfg *Config) error
}

// An ErrorHandler receives the failures of PerformSilent.
//
// Implementations must be safe for concurrent use by multiple
// goroutines.
type ErrorHandler interface {
	// HandleError is called when no response was received. Parameter
	// err is the transport error, or the error decoding a success
	// response.
	HandleError(err error)

	// HandleErrorResponse is called when a response with a failure
	// status code was received.
	HandleErrorResponse(resp *transport.Response)
}

// ErrorHandlerFuncs is an ErrorHandler made of optional functions. A
// nil function ignores its callback.
type ErrorHandlerFuncs struct {
	Error         func(err error)
	ErrorResponse func(resp *transport.Response)
}

// HandleError calls f.Error, if set.
func (f ErrorHandlerFuncs) HandleError(err error) {
	if f.Error != nil {
		f.Error(err)
	}
}

// HandleErrorResponse calls f.ErrorResponse, if set.
func (f ErrorHandlerFuncs) HandleErrorResponse(resp *transport.Response) {
	if f.ErrorResponse != nil {
		f.ErrorResponse(resp)
	}
}

// LogErrorHandler returns an ErrorHandler logging every failure at
// error level. Error responses are decoded with c, which may be nil.
func LogErrorHandler(logger zerolog.Logger, c codec.Codec) ErrorHandler {
	return logErrorHandler{logger, c}
}

type logErrorHandler struct {
	logger zerolog.Logger
	codec  codec.Codec
}

func (h logErrorHandler) HandleError(err error) {
	h.logger.Error().Err(err).Msg("request failed")
}

func (h logErrorHandler) HandleErrorResponse(resp *transport.Response) {
	apiErr := apierror.FromResponse(resp.StatusCode, resp.Body, h.codec)
	h.logger.Error().
		Int("status", resp.StatusCode).
		Str("errorId", apiErr.ErrorID).
		Bool("critical", apiErr.IsCritical).
		Msg(apiErr.Message)
}
