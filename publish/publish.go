// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package publish provides a name-keyed event publisher and an
// alliance.ErrorHandler which reports errors as published events.
package publish

import (
	"strings"
	"sync"

	"github.com/gogama/alliance/apierror"
	"github.com/gogama/alliance/codec"
	"github.com/gogama/alliance/transport"
)

// Names of the events emitted by ErrorHandler.
const (
	ErrorEvent         = "error"
	ErrorResponseEvent = "errorResponse"
)

// An Event is a named payload.
type Event struct {
	Name    string
	Payload interface{}
}

// A Listener receives the events emitted under the name it is
// registered with.
type Listener func(evt Event)

// A Publisher delivers events to listeners registered by event name.
// Event names are case-insensitive and each name has at most one
// listener.
//
// The zero value is an empty Publisher ready to use. A Publisher is
// safe for concurrent use by multiple goroutines.
type Publisher struct {
	lock      sync.RWMutex
	listeners map[string]Listener
}

// RegisterListener registers l for events named name, replacing any
// listener already registered for that name.
func (p *Publisher) RegisterListener(name string, l Listener) {
	if l == nil {
		panic("alliance/publish: nil listener")
	}

	p.lock.Lock()
	defer p.lock.Unlock()
	if p.listeners == nil {
		p.listeners = make(map[string]Listener)
	}
	p.listeners[strings.ToLower(name)] = l
}

// Unregister removes the listener registered for name, if any.
func (p *Publisher) Unregister(name string) {
	p.lock.Lock()
	defer p.lock.Unlock()
	delete(p.listeners, strings.ToLower(name))
}

// Emit delivers evt to the listener registered for evt.Name and
// reports whether there was one. The listener runs on the calling
// goroutine.
func (p *Publisher) Emit(evt Event) bool {
	p.lock.RLock()
	l := p.listeners[strings.ToLower(evt.Name)]
	p.lock.RUnlock()

	if l == nil {
		return false
	}
	l(evt)
	return true
}

// An ErrorHandler publishes the failures of silent executions. It
// emits an ErrorEvent for failures without a response and an
// ErrorResponseEvent for error responses. In both cases the payload is
// an *apierror.Error.
type ErrorHandler struct {
	// Publisher receives the events. It must not be nil.
	Publisher *Publisher

	// Codec decodes error response bodies. If nil, codec.JSON is used.
	Codec codec.Codec
}

// HandleError emits an ErrorEvent whose payload is the Error held in
// err, or a network Error wrapping err.
func (h *ErrorHandler) HandleError(err error) {
	h.Publisher.Emit(Event{
		Name:    ErrorEvent,
		Payload: apierror.FromTransport(err),
	})
}

// HandleErrorResponse emits an ErrorResponseEvent whose payload is the
// Error decoded from resp.
func (h *ErrorHandler) HandleErrorResponse(resp *transport.Response) {
	h.Publisher.Emit(Event{
		Name:    ErrorResponseEvent,
		Payload: apierror.FromResponse(resp.StatusCode, resp.Body, h.Codec),
	})
}
