// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package metrics exports Prometheus metrics about executor runs.
//
// A Collector observes runs through lifecycle event handlers, so it
// works with any transport:
//
//	col := metrics.New(prometheus.DefaultRegisterer)
//	handlers := &alliance.HandlerGroup{}
//	col.Install(handlers)
//	reg.CreateInstance("api", alliance.Config{Host: "example.com", Handlers: handlers})
package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gogama/alliance"
	"github.com/gogama/alliance/request"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values of the executions metrics.
const (
	OutcomeResolved  = "resolved"
	OutcomeDefaulted = "defaulted"
	OutcomeRejected  = "rejected"
)

// A Collector records Prometheus metrics for the executor runs of
// every client whose HandlerGroup it is installed in. It is safe for
// concurrent use.
type Collector struct {
	executionsTotal    *prometheus.CounterVec
	executionDuration  *prometheus.HistogramVec
	sendsTotal         *prometheus.CounterVec
	sendDuration       *prometheus.HistogramVec
	sendsInFlight      *prometheus.GaugeVec
	cancellationsTotal *prometheus.CounterVec
}

type sendStartKey struct{}

// New creates a Collector and registers its metrics with reg. It
// panics if a metric cannot be registered.
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		executionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "alliance_executions_total",
				Help: "Total number of executor runs",
			},
			[]string{"method", "route", "outcome"},
		),
		executionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "alliance_execution_duration_seconds",
				Help:    "Duration of executor runs in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "outcome"},
		),
		sendsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "alliance_sends_total",
				Help: "Total number of transport calls",
			},
			[]string{"method", "route", "status_code"},
		),
		sendDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "alliance_send_duration_seconds",
				Help:    "Duration of transport calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		sendsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "alliance_sends_in_flight",
				Help: "Number of transport calls currently in flight",
			},
			[]string{"method", "route"},
		),
		cancellationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "alliance_preflight_cancellations_total",
				Help: "Total number of requests cancelled by the request builder",
			},
			[]string{"method", "route", "error_id"},
		),
	}
}

// Install adds the Collector's handlers to g.
func (c *Collector) Install(g *alliance.HandlerGroup) {
	g.PushBack(alliance.BeforeSend, alliance.HandlerFunc(c.beforeSend))
	g.PushBack(alliance.AfterSend, alliance.HandlerFunc(c.afterSend))
	g.PushBack(alliance.AfterPreflightCancel, alliance.HandlerFunc(c.afterPreflightCancel))
	g.PushBack(alliance.AfterExecutionEnd, alliance.HandlerFunc(c.afterExecutionEnd))
}

func (c *Collector) beforeSend(_ alliance.Event, e *request.Execution) {
	e.SetValue(sendStartKey{}, time.Now())
	method, route := labels(e)
	c.sendsInFlight.WithLabelValues(method, route).Inc()
}

func (c *Collector) afterSend(_ alliance.Event, e *request.Execution) {
	method, route := labels(e)
	c.sendsInFlight.WithLabelValues(method, route).Dec()
	c.sendsTotal.WithLabelValues(method, route, statusCode(e)).Inc()
	if start, ok := e.Value(sendStartKey{}).(time.Time); ok {
		c.sendDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

func (c *Collector) afterPreflightCancel(_ alliance.Event, e *request.Execution) {
	errorID := ""
	if e.CancelReason != nil {
		errorID = e.CancelReason.ErrorID
	}
	method, route := labels(e)
	c.cancellationsTotal.WithLabelValues(method, route, errorID).Inc()
}

func (c *Collector) afterExecutionEnd(_ alliance.Event, e *request.Execution) {
	method, route := labels(e)
	o := outcome(e)
	c.executionsTotal.WithLabelValues(method, route, o).Inc()
	c.executionDuration.WithLabelValues(method, route, o).Observe(e.Duration().Seconds())
}

func labels(e *request.Execution) (method, route string) {
	return strings.ToUpper(string(e.Route.Method)), e.Route.Path
}

func statusCode(e *request.Execution) string {
	if code := e.StatusCode(); code != 0 {
		return strconv.Itoa(code)
	}
	return "none"
}

func outcome(e *request.Execution) string {
	switch {
	case e.Defaulted:
		return OutcomeDefaulted
	case e.State == request.Rejected:
		return OutcomeRejected
	default:
		return OutcomeResolved
	}
}
