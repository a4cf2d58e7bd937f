// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package alliance

import (
	"github.com/gogama/alliance/request"
)

// A HandlerGroup is a group of event handler chains which can be
// installed in a client Config. The zero value is an empty group.
//
// A HandlerGroup must not be modified once the registry entry holding
// it is in use.
type HandlerGroup struct {
	handlers [][]Handler
}

// PushBack adds an event handler to the back of the chain for event
// evt. It panics if h is nil.
func (g *HandlerGroup) PushBack(evt Event, h Handler) {
	if h == nil {
		panic("alliance: nil handler")
	}

	if g.handlers == nil {
		g.handlers = make([][]Handler, numEvents)
	}

	g.handlers[evt] = append(g.handlers[evt], h)
}

func (g *HandlerGroup) run(evt Event, e *request.Execution) {
	if g == nil {
		return
	}
	i := int(evt)
	if i < len(g.handlers) {
		for _, h := range g.handlers[i] {
			h.Handle(evt, e)
		}
	}
}

// A Handler handles the occurrence of an event during an executor run.
//
// Handlers run synchronously on the goroutine calling Perform or
// PerformSilent. The same Handler may run concurrently for different
// executions.
type Handler interface {
	Handle(Event, *request.Execution)
}

// The HandlerFunc type is an adapter to allow the use of ordinary
// functions as event handlers.
type HandlerFunc func(Event, *request.Execution)

// Handle calls f(evt, e).
func (f HandlerFunc) Handle(evt Event, e *request.Execution) {
	f(evt, e)
}
