// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package alliance

import (
	"context"
	"testing"

	"github.com/gogama/alliance/request"
	"github.com/gogama/alliance/transport"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockTransport struct {
	mock.Mock
}

func newMockTransport(t *testing.T) *mockTransport {
	m := &mockTransport{}
	m.Test(t)
	return m
}

func (m *mockTransport) Do(ctx context.Context, call *transport.Call) (*transport.Response, error) {
	args := m.Called(ctx, call)
	err := args.Error(1)
	if resp, ok := args.Get(0).(*transport.Response); ok {
		return resp, err
	}
	return nil, err
}

type mockErrorHandler struct {
	mock.Mock
}

func newMockErrorHandler(t *testing.T) *mockErrorHandler {
	m := &mockErrorHandler{}
	m.Test(t)
	return m
}

func (m *mockErrorHandler) HandleError(err error) {
	m.Called(err)
}

func (m *mockErrorHandler) HandleErrorResponse(resp *transport.Response) {
	m.Called(resp)
}

type mockRequestBuilder struct {
	mock.Mock
}

func newMockRequestBuilder(t *testing.T) *mockRequestBuilder {
	m := &mockRequestBuilder{}
	m.Test(t)
	return m
}

func (m *mockRequestBuilder) BuildRequestConfig(route *request.Route, cfg transport.Config, eh ErrorHandler, cancel CancelFunc) transport.Config {
	args := m.Called(route, cfg, eh, cancel)
	return args.Get(0).(transport.Config)
}

func (m *mockRequestBuilder) InitializeTransport(cfg *Config) error {
	args := m.Called(cfg)
	return args.Error(0)
}

// newTestClient registers a client on a fresh registry.
func newTestClient(t *testing.T, cfg Config) *Client {
	reg := &Registry{}
	c, err := reg.CreateInstance(t.Name(), cfg)
	require.NoError(t, err)
	return c
}
