// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package alliance

// An Event identifies the event type when installing or running a
// Handler. Each event type marks a step of an executor run, and the
// handlers installed for it run when the executor reaches that step.
type Event int

const (
	// BeforeExecutionStart identifies the event that occurs before an
	// executor run starts.
	//
	// When the executor fires BeforeExecutionStart, the execution is
	// in the Created state and only Route and Silent are set.
	BeforeExecutionStart Event = iota

	// AfterBuild identifies the event that occurs after the request
	// builder produced the transport config. The execution's Config
	// holds the builder's output.
	AfterBuild

	// AfterPreflightCancel identifies the event that occurs when the
	// request builder cancelled the request. CancelReason is set and
	// no call will be sent.
	AfterPreflightCancel

	// BeforeSend identifies the event that occurs before the transport
	// call. Path and Call are set; handlers may still modify the
	// Call's Config.
	BeforeSend

	// AfterSend identifies the event that occurs after the transport
	// call returns, successfully or not. Response, Err or both may be
	// set.
	AfterSend

	// AfterExecutionEnd identifies the event that occurs after the run
	// ended, in the Resolved or Rejected state.
	AfterExecutionEnd

	eventSentinel

	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeExecutionStart",
	"AfterBuild",
	"AfterPreflightCancel",
	"BeforeSend",
	"AfterSend",
	"AfterExecutionEnd",
}

// Events returns a slice containing all events which can occur during
// an executor run, in the order they occur.
func Events() []Event {
	return []Event{
		BeforeExecutionStart,
		AfterBuild,
		AfterPreflightCancel,
		BeforeSend,
		AfterSend,
		AfterExecutionEnd,
	}
}

// Name returns the name of the event.
func (evt Event) Name() string {
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}
