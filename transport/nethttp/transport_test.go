// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package nethttp

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/gogama/alliance/retry"
	"github.com/gogama/alliance/timeout"
	"github.com/gogama/alliance/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestTransport(t *testing.T) {
	t.Run("happy path", testTransportHappyPath)
	t.Run("headers", testTransportHeaders)
	t.Run("status rejected", testTransportStatusRejected)
	t.Run("custom validation", testTransportCustomValidation)
	t.Run("network error", testTransportNetworkError)
	t.Run("retry", testTransportRetry)
	t.Run("cancel during wait", testTransportCancelDuringWait)
	t.Run("timeout policy", testTransportTimeoutPolicy)
	t.Run("config timeout overrides policy", testTransportConfigTimeout)
	t.Run("limiter", testTransportLimiter)
	t.Run("close idle connections", testTransportCloseIdleConnections)
}

func TestJoin(t *testing.T) {
	testCases := []struct {
		base, path, want string
	}{
		{"", "/items", "/items"},
		{"http://h:1/api", "", "http://h:1/api"},
		{"http://h:1/api", "/items", "http://h:1/api/items"},
		{"http://h:1/api/", "items", "http://h:1/api/items"},
		{"http://h:1/api//", "//items", "//items"},
		{"http://h:1/api///", "items/", "http://h:1/api/items/"},
		{"http://h:1", "https://other/x", "https://other/x"},
		{"http://h:1", "HTTP://other/x", "HTTP://other/x"},
		{"http://h:1/", "?a=1", "http://h:1/?a=1"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.base+"+"+testCase.path, func(t *testing.T) {
			assert.Equal(t, testCase.want, Join(testCase.base, testCase.path))
		})
	}
}

func TestURLErrorOp(t *testing.T) {
	assert.Equal(t, "Get", urlErrorOp(""))
	assert.Equal(t, "Get", urlErrorOp("GET"))
	assert.Equal(t, "X", urlErrorOp("X"))
	assert.Equal(t, "Delete", urlErrorOp("DELETE"))
	assert.Equal(t, "Put", urlErrorOp("PUT"))
}

func testTransportHappyPath(t *testing.T) {
	doer := newMockHTTPDoer(t)
	tr := &Transport{BaseURL: "http://example.com/api/", HTTPDoer: doer}
	doer.On("Do", mock.MatchedBy(func(r *http.Request) bool {
		rc, err := r.GetBody()
		if err != nil {
			return false
		}
		b, _ := io.ReadAll(rc)
		return r.Method == "POST" &&
			r.URL.String() == "http://example.com/api/items/7?verbose=true" &&
			string(b) == `{"a":1}` &&
			r.Header.Get("Content-Type") == "application/json" &&
			r.Header.Get("Accept") == "application/json"
	})).Return(response(201, "created"), nil).Once()

	resp, err := tr.Do(context.Background(), &transport.Call{
		Method:      "POST",
		URL:         "/items/7?verbose=true",
		Body:        []byte(`{"a":1}`),
		ContentType: "application/json",
	})

	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)
	assert.Equal(t, []byte("created"), resp.Body)
	doer.AssertExpectations(t)
}

func testTransportHeaders(t *testing.T) {
	doer := newMockHTTPDoer(t)
	var intercepted int
	tr := &Transport{
		HTTPDoer: doer,
		Header:   http.Header{"X-Default": {"d"}, "X-Over": {"transport"}},
		Interceptors: []func(*http.Request){
			func(r *http.Request) {
				intercepted++
				r.Header.Set("X-Intercepted", r.Header.Get("X-Over"))
			},
		},
	}
	doer.On("Do", mock.MatchedBy(func(r *http.Request) bool {
		return r.Header.Get("X-Default") == "d" &&
			r.Header.Get("X-Over") == "call" &&
			r.Header.Get("X-Intercepted") == "call" &&
			r.Header.Get("Content-Type") == "" &&
			r.Body == nil
	})).Return(response(200, ""), nil).Once()

	_, err := tr.Do(context.Background(), &transport.Call{
		Method:      "GET",
		URL:         "http://example.com",
		ContentType: "application/json",
		Config:      transport.Config{Header: http.Header{"x-over": {"call"}}},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, intercepted)
	assert.Equal(t, "transport", tr.Header.Get("X-Over"), "default headers must not be mutated")
	doer.AssertExpectations(t)
}

func testTransportStatusRejected(t *testing.T) {
	doer := newMockHTTPDoer(t)
	tr := &Transport{HTTPDoer: doer}
	doer.On("Do", mock.Anything).Return(response(404, `{"message":"nope"}`), nil).Once()

	resp, err := tr.Do(context.Background(), &transport.Call{Method: "GET", URL: "http://x"})

	assert.Nil(t, resp)
	var statusErr *transport.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 404, statusErr.Response.StatusCode)
	assert.Equal(t, []byte(`{"message":"nope"}`), statusErr.Response.Body)
}

func testTransportCustomValidation(t *testing.T) {
	doer := newMockHTTPDoer(t)
	tr := &Transport{HTTPDoer: doer}
	doer.On("Do", mock.Anything).Return(response(404, ""), nil).Once()

	resp, err := tr.Do(context.Background(), &transport.Call{
		Method: "GET",
		URL:    "http://x",
		Config: transport.Config{ValidateStatus: func(int) bool { return true }},
	})

	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func testTransportNetworkError(t *testing.T) {
	doer := newMockHTTPDoer(t)
	tr := &Transport{BaseURL: "http://x", HTTPDoer: doer}
	doer.On("Do", mock.Anything).Return(nil, syscall.ECONNREFUSED).Once()

	resp, err := tr.Do(context.Background(), &transport.Call{Method: "DELETE", URL: "/a"})

	assert.Nil(t, resp)
	var urlErr *url.Error
	require.ErrorAs(t, err, &urlErr)
	assert.Equal(t, "Delete", urlErr.Op)
	assert.Equal(t, "http://x/a", urlErr.URL)
	assert.ErrorIs(t, err, syscall.ECONNREFUSED)
	doer.AssertExpectations(t)
}

func testTransportRetry(t *testing.T) {
	doer := newMockHTTPDoer(t)
	tr := &Transport{
		HTTPDoer:    doer,
		RetryPolicy: retry.NewPolicy(retry.DefaultDecider, retry.NewFixedWaiter(0)),
	}
	doer.On("Do", mock.Anything).Return(nil, syscall.ECONNRESET).Once()
	doer.On("Do", mock.Anything).Return(response(503, ""), nil).Once()
	doer.On("Do", mock.Anything).Return(response(200, "ok"), nil).Once()

	resp, err := tr.Do(context.Background(), &transport.Call{Method: "GET", URL: "http://x"})

	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), resp.Body)
	doer.AssertExpectations(t)
}

func testTransportCancelDuringWait(t *testing.T) {
	doer := newMockHTTPDoer(t)
	retryPolicy := newMockRetryPolicy(t)
	tr := &Transport{HTTPDoer: doer, RetryPolicy: retryPolicy}
	ctx, cancel := context.WithCancel(context.Background())
	doer.On("Do", mock.Anything).Return(response(503, ""), nil).Once()
	retryPolicy.On("Decide", mock.Anything).Return(true).Once()
	retryPolicy.On("Wait", mock.Anything).Run(func(mock.Arguments) { cancel() }).Return(time.Hour).Once()

	resp, err := tr.Do(ctx, &transport.Call{Method: "GET", URL: "http://x"})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, context.Canceled)
	var urlErr *url.Error
	assert.ErrorAs(t, err, &urlErr)
	doer.AssertExpectations(t)
	retryPolicy.AssertExpectations(t)
}

func testTransportTimeoutPolicy(t *testing.T) {
	doer := newMockHTTPDoer(t)
	timeoutPolicy := newMockTimeoutPolicy(t)
	tr := &Transport{HTTPDoer: doer, TimeoutPolicy: timeoutPolicy}
	timeoutPolicy.On("Timeout", mock.MatchedBy(func(a *transport.Attempt) bool {
		return a.Index == 0 && a.Call.URL == "http://x"
	})).Return(time.Hour).Once()
	doer.On("Do", mock.MatchedBy(func(r *http.Request) bool {
		deadline, ok := r.Context().Deadline()
		return ok && time.Until(deadline) > 59*time.Minute
	})).Return(response(200, ""), nil).Once()

	_, err := tr.Do(context.Background(), &transport.Call{Method: "GET", URL: "http://x"})

	require.NoError(t, err)
	doer.AssertExpectations(t)
	timeoutPolicy.AssertExpectations(t)
}

func testTransportConfigTimeout(t *testing.T) {
	doer := newMockHTTPDoer(t)
	timeoutPolicy := newMockTimeoutPolicy(t)
	tr := &Transport{HTTPDoer: doer, TimeoutPolicy: timeoutPolicy}
	doer.On("Do", mock.MatchedBy(func(r *http.Request) bool {
		deadline, ok := r.Context().Deadline()
		return ok && time.Until(deadline) <= time.Minute
	})).Return(response(200, ""), nil).Once()

	_, err := tr.Do(context.Background(), &transport.Call{
		Method: "GET",
		URL:    "http://x",
		Config: transport.Config{Timeout: time.Minute},
	})

	require.NoError(t, err)
	doer.AssertExpectations(t)
	timeoutPolicy.AssertNotCalled(t, "Timeout", mock.Anything)
}

func testTransportLimiter(t *testing.T) {
	doer := newMockHTTPDoer(t)
	tr := &Transport{HTTPDoer: doer, Limiter: rate.NewLimiter(rate.Limit(1), 1)}
	doer.On("Do", mock.Anything).Return(response(200, ""), nil).Once()

	_, err := tr.Do(context.Background(), &transport.Call{Method: "GET", URL: "http://x"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = tr.Do(ctx, &transport.Call{Method: "GET", URL: "http://x"})
	assert.Error(t, err)
	var urlErr *url.Error
	assert.ErrorAs(t, err, &urlErr)
	doer.AssertExpectations(t)
}

func testTransportCloseIdleConnections(t *testing.T) {
	t.Run("not an IdleCloser", func(t *testing.T) {
		tr := &Transport{HTTPDoer: newMockHTTPDoer(t)}
		assert.NotPanics(t, tr.CloseIdleConnections)
	})
	t.Run("IdleCloser", func(t *testing.T) {
		doer := newMockHTTPDoerWithCloseIdleConnections(t)
		doer.On("CloseIdleConnections").Return().Once()
		tr := &Transport{HTTPDoer: doer}
		tr.CloseIdleConnections()
		doer.AssertExpectations(t)
	})
}

func TestTransportWithServer(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&hits, 1)
		if r.URL.Path != "/api/things" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if n == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", r.Header.Get("Accept"))
		_, _ = w.Write(body)
	}))
	defer server.Close()

	tr := &Transport{
		BaseURL:       server.URL + "/api",
		RetryPolicy:   retry.NewPolicy(retry.Times(1).And(retry.StatusCode(503)), retry.NewFixedWaiter(0)),
		TimeoutPolicy: timeout.Fixed(5 * time.Second),
	}
	resp, err := tr.Do(context.Background(), &transport.Call{
		Method:      "PUT",
		URL:         "things",
		Body:        []byte("echo"),
		ContentType: "text/plain",
	})

	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
	assert.Equal(t, []byte("echo"), resp.Body)
	assert.Equal(t, "text/plain", resp.Header.Get("Content-Type"))
}

func TestTransportWithServerCancel(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer server.Close()
	defer close(release)

	tr := &Transport{BaseURL: server.URL}
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	_, err := tr.Do(ctx, &transport.Call{Method: "GET", URL: "/slow"})

	assert.ErrorIs(t, err, context.Canceled)
	var statusErr *transport.StatusError
	assert.False(t, errors.As(err, &statusErr))
}

func response(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Header:     http.Header{},
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

type mockHTTPDoer struct {
	mock.Mock
}

func newMockHTTPDoer(t *testing.T) *mockHTTPDoer {
	m := &mockHTTPDoer{}
	m.Test(t)
	return m
}

func (m *mockHTTPDoer) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	err := args.Error(1)
	if resp, ok := args.Get(0).(*http.Response); ok {
		return resp, err
	}
	return nil, err
}

type mockHTTPDoerWithCloseIdleConnections struct {
	mockHTTPDoer
}

func newMockHTTPDoerWithCloseIdleConnections(t *testing.T) *mockHTTPDoerWithCloseIdleConnections {
	m := &mockHTTPDoerWithCloseIdleConnections{}
	m.Test(t)
	return m
}

func (m *mockHTTPDoerWithCloseIdleConnections) CloseIdleConnections() {
	m.Called()
}

type mockTimeoutPolicy struct {
	mock.Mock
}

func newMockTimeoutPolicy(t *testing.T) *mockTimeoutPolicy {
	m := &mockTimeoutPolicy{}
	m.Test(t)
	return m
}

func (m *mockTimeoutPolicy) Timeout(a *transport.Attempt) time.Duration {
	args := m.Called(a)
	return args.Get(0).(time.Duration)
}

type mockRetryPolicy struct {
	mock.Mock
}

func newMockRetryPolicy(t *testing.T) *mockRetryPolicy {
	m := &mockRetryPolicy{}
	m.Test(t)
	return m
}

func (m *mockRetryPolicy) Decide(a *transport.Attempt) bool {
	args := m.Called(a)
	return args.Bool(0)
}

func (m *mockRetryPolicy) Wait(a *transport.Attempt) time.Duration {
	args := m.Called(a)
	return args.Get(0).(time.Duration)
}
