// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package alliance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gogama/alliance/apierror"
	"github.com/gogama/alliance/request"
	"github.com/gogama/alliance/transport"
)

// An Executor runs one route against its client and resolves to a
// value of type T.
//
// Body and OrDefault return modified copies, so an Executor may be
// prepared once and shared. Copies share the cancellation handle of
// the executor they were made from: Cancel on any of them cancels all.
// Perform and PerformSilent may be called from multiple goroutines.
type Executor[T any] struct {
	client      *Client
	route       *request.Route
	config      transport.Config
	body        interface{}
	defaults    T
	hasDefaults bool
	handle      context.Context
	cancel      context.CancelFunc
}

func newExecutor[T any](c *Client, route *request.Route, cfg transport.Config) *Executor[T] {
	handle, cancel := context.WithCancel(context.Background())
	return &Executor[T]{
		client: c,
		route:  route.Clone(),
		config: cfg.Clone(),
		body:   map[string]interface{}{},
		handle: handle,
		cancel: cancel,
	}
}

// Body returns a copy of x sending data as the request body. The body
// is only sent for POST and PUT. Values other than string, []byte and
// io.Reader are encoded with the client's codec. An io.Reader body is
// consumed by the first run.
//
// The default body is an empty object.
func (x *Executor[T]) Body(data interface{}) *Executor[T] {
	y := *x
	y.body = data
	return &y
}

// OrDefault returns a copy of x resolving to v, with a nil error, on
// every failure.
func (x *Executor[T]) OrDefault(v T) *Executor[T] {
	y := *x
	y.defaults = v
	y.hasDefaults = true
	return &y
}

// Cancel cancels the executor. A transport call in flight, or any
// later one, fails with an error wrapping context.Canceled, which is
// handled as a failure without a response. Cancel does not prevent a
// preflight cancellation from being reported.
func (x *Executor[T]) Cancel() {
	x.cancel()
}

// Perform runs the request and returns the decoded response body.
//
// Failures are returned to the caller and the client's ErrorHandler is
// not called. An error response fails with its decoded
// *apierror.Error; a failure without a response fails with the
// transport error. If a default value was set with OrDefault, every
// failure resolves to it with a nil error instead.
func (x *Executor[T]) Perform(ctx context.Context) (T, error) {
	return x.perform(ctx, false)
}

// PerformSilent runs the request and returns the decoded response body,
// handing failures to the client's ErrorHandler.
//
// An error response received while no default value is set is handed
// to the ErrorHandler and resolves to the zero value of T with a nil
// error. A failure status code rejected by the transport, and a failure
// without a response, are handed to the ErrorHandler and then resolve
// to the default value, or otherwise fail as in Perform. A preflight
// cancellation or an unsupported method resolves to the default value,
// or fails, without calling the ErrorHandler.
func (x *Executor[T]) PerformSilent(ctx context.Context) (T, error) {
	return x.perform(ctx, true)
}

func (x *Executor[T]) perform(ctx context.Context, silent bool) (T, error) {
	cfg := x.client.cfg
	e := &request.Execution{
		Route:  x.route,
		Silent: silent,
		Config: x.config.Clone(),
	}

	cfg.Handlers.run(BeforeExecutionStart, e)
	e.Start = time.Now()

	v, err := x.execute(ctx, cfg, e)
	if err != nil {
		e.State = request.Rejected
	} else {
		e.State = request.Resolved
	}

	e.End = time.Now()
	cfg.Handlers.run(AfterExecutionEnd, e)
	return v, err
}

func (x *Executor[T]) execute(ctx context.Context, cfg *Config, e *request.Execution) (T, error) {
	e.State = request.Building
	pf := x.preflight(cfg, e)
	e.Config = pf.config
	cfg.Handlers.run(AfterBuild, e)
	if pf.cancelled {
		e.State = request.PreflightCancelled
		e.CancelReason = pf.reason
		cfg.Handlers.run(AfterPreflightCancel, e)
		return x.fail(cfg, e, pf.reason, "request cancelled before sending")
	}

	method := x.route.Method
	if !method.Supported() {
		cfg.logger().Warn().
			Str("method", string(method)).
			Str("path", x.route.Path).
			Msg("unsupported request method, supported methods are GET, POST, PUT and DELETE")
		return x.fail(cfg, e, apierror.Internal().WithKind(apierror.KindUnsupportedMethod), "unsupported request method")
	}

	e.Path = request.ResolvePath(x.route)
	c := cfg.codec()
	e.Call = &transport.Call{
		Method:      string(method),
		URL:         e.Path,
		ContentType: c.ContentType(),
		Config:      e.Config,
	}
	if method.HasBody() {
		b, err := request.BodyBytes(x.body, c)
		if err != nil {
			e.Err = fmt.Errorf("alliance: encoding request body: %w", err)
			return x.noResponse(cfg, e)
		}
		e.Call.Body = b
	}

	e.State = request.Sending
	cfg.Handlers.run(BeforeSend, e)
	cfg.logger().Debug().
		Str("method", e.Call.Method).
		Str("path", e.Call.URL).
		Bool("silent", e.Silent).
		Msg("sending request")

	resp, err := x.send(ctx, cfg, e.Call)
	e.Response, e.Err = resp, err
	var statusErr *transport.StatusError
	if errors.As(err, &statusErr) {
		e.Response = statusErr.Response
	}
	cfg.Handlers.run(AfterSend, e)

	switch {
	case err == nil && transport.DefaultValidateStatus(resp.StatusCode):
		v, err := decode[T](resp, cfg)
		if err != nil {
			e.Err = err
			return x.noResponse(cfg, e)
		}
		return v, nil
	case err == nil:
		return x.errorResponse(cfg, e)
	case statusErr != nil:
		return x.rejectedResponse(cfg, e)
	default:
		return x.noResponse(cfg, e)
	}
}

// preflightResult is the outcome of the request builder. A cancelled
// result has no usable config.
type preflightResult struct {
	config    transport.Config
	cancelled bool
	reason    *apierror.Error
}

func (x *Executor[T]) preflight(cfg *Config, e *request.Execution) preflightResult {
	if cfg.RequestBuilder == nil {
		return preflightResult{config: e.Config}
	}

	var pf preflightResult
	cancel := func(reason *apierror.Error) {
		if reason == nil {
			reason = apierror.New("request cancelled before sending", "", nil)
		}
		r := *reason
		pf.cancelled = true
		pf.reason = r.WithKind(apierror.KindPreflightCancelled)
	}
	pf.config = cfg.RequestBuilder.BuildRequestConfig(x.route, e.Config.Clone(), cfg.errorHandler(), cancel)
	return pf
}

func (x *Executor[T]) send(ctx context.Context, cfg *Config, call *transport.Call) (*transport.Response, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if x.handle.Err() != nil {
		cancel()
	}
	stop := context.AfterFunc(x.handle, cancel)
	defer stop()

	return cfg.Transport.Do(ctx, call)
}

// errorResponse handles a response accepted by the transport whose
// status code is not a success.
func (x *Executor[T]) errorResponse(cfg *Config, e *request.Execution) (T, error) {
	payload := apierror.FromResponse(e.Response.StatusCode, e.Response.Body, cfg.codec())
	if x.hasDefaults {
		return x.fallback(cfg, e, payload, "error response")
	}
	if e.Silent {
		cfg.errorHandler().HandleErrorResponse(e.Response)
		var zero T
		return zero, nil
	}
	return x.reject(payload)
}

// rejectedResponse handles a response whose status code the transport
// rejected.
func (x *Executor[T]) rejectedResponse(cfg *Config, e *request.Execution) (T, error) {
	if e.Silent {
		cfg.errorHandler().HandleErrorResponse(e.Response)
	}
	payload := apierror.FromResponse(e.Response.StatusCode, e.Response.Body, cfg.codec())
	if x.hasDefaults {
		return x.fallback(cfg, e, payload, "error response")
	}
	return x.reject(payload)
}

// noResponse handles a failure that produced no response.
func (x *Executor[T]) noResponse(cfg *Config, e *request.Execution) (T, error) {
	if e.Silent {
		cfg.errorHandler().HandleError(e.Err)
	}
	if x.hasDefaults {
		return x.fallback(cfg, e, e.Err, "request failed")
	}
	return x.reject(e.Err)
}

// fail resolves a failure that never reaches the error handler.
func (x *Executor[T]) fail(cfg *Config, e *request.Execution, reason error, msg string) (T, error) {
	if x.hasDefaults {
		return x.fallback(cfg, e, reason, msg)
	}
	return x.reject(reason)
}

func (x *Executor[T]) fallback(cfg *Config, e *request.Execution, reason error, msg string) (T, error) {
	e.Defaulted = true
	cfg.logger().Warn().
		Err(reason).
		Str("path", x.route.Path).
		Msg(msg + ", resolving to default value")
	return x.defaults, nil
}

func (x *Executor[T]) reject(err error) (T, error) {
	var zero T
	return zero, err
}

func decode[T any](resp *transport.Response, cfg *Config) (T, error) {
	var v T
	if len(resp.Body) == 0 {
		return v, nil
	}
	if b, ok := any(&v).(*[]byte); ok {
		*b = resp.Body
		return v, nil
	}
	if err := cfg.codec().Unmarshal(resp.Body, &v); err != nil {
		return v, fmt.Errorf("alliance: decoding response: %w", err)
	}
	return v, nil
}
