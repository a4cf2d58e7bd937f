// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package alliance

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/gogama/alliance/transport"
	"github.com/gogama/alliance/transport/nethttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Run("create and get", func(t *testing.T) {
		reg := &Registry{}
		tr := newMockTransport(t)
		c, err := reg.CreateInstance("users", Config{Host: "users.local", Transport: tr})
		require.NoError(t, err)

		got, ok := reg.GetInstance("users")
		require.True(t, ok)
		assert.Same(t, c, got)
		assert.Equal(t, "users", got.Name())
		assert.Same(t, tr, got.Config().Transport)
		assert.Equal(t, "users.local", got.Config().Host)

		missing, ok := reg.GetInstance("missing")
		assert.False(t, ok)
		assert.Nil(t, missing)
	})
	t.Run("zero value get", func(t *testing.T) {
		var reg Registry
		_, ok := reg.GetInstance("any")
		assert.False(t, ok)
		assert.Empty(t, reg.Names())
	})
	t.Run("last write wins", func(t *testing.T) {
		reg := &Registry{}
		first, err := reg.CreateInstance("a", Config{Host: "one"})
		require.NoError(t, err)
		second, err := reg.CreateInstance("a", Config{Host: "two"})
		require.NoError(t, err)

		got, ok := reg.GetInstance("a")
		require.True(t, ok)
		assert.Same(t, second, got)
		assert.NotSame(t, first, got)
		assert.Equal(t, "one", first.Config().Host)
		assert.Equal(t, []string{"a"}, reg.Names())
	})
	t.Run("initializer runs once", func(t *testing.T) {
		reg := &Registry{}
		rb := newMockRequestBuilder(t)
		tr := newMockTransport(t)
		rb.On("InitializeTransport", mock.MatchedBy(func(cfg *Config) bool {
			return cfg.Host == "h" && cfg.Transport == nil
		})).Run(func(args mock.Arguments) {
			args.Get(0).(*Config).Transport = tr
		}).Return(nil).Once()

		c, err := reg.CreateInstance("x", Config{Host: "h", RequestBuilder: rb})

		require.NoError(t, err)
		assert.Same(t, tr, c.Config().Transport)
		rb.AssertExpectations(t)
	})
	t.Run("failing initializer", func(t *testing.T) {
		reg := &Registry{}
		old, err := reg.CreateInstance("x", Config{Host: "old"})
		require.NoError(t, err)
		rb := newMockRequestBuilder(t)
		initErr := errors.New("no credentials store")
		rb.On("InitializeTransport", mock.Anything).Return(initErr).Once()

		c, err := reg.CreateInstance("x", Config{Host: "new", RequestBuilder: rb})

		assert.Nil(t, c)
		assert.ErrorIs(t, err, initErr)
		assert.EqualError(t, err, `alliance: initializing transport for instance "x": no credentials store`)
		got, ok := reg.GetInstance("x")
		require.True(t, ok)
		assert.Same(t, old, got)
	})
	t.Run("default transport", func(t *testing.T) {
		reg := &Registry{}
		c, err := reg.CreateInstance("x", Config{Protocol: "https", Host: "api.example.com", Port: 8443, Path: "/v1"})
		require.NoError(t, err)
		tr, ok := c.Config().Transport.(*nethttp.Transport)
		require.True(t, ok)
		assert.Equal(t, "https://api.example.com:8443/v1", tr.BaseURL)
	})
	t.Run("config is copied", func(t *testing.T) {
		reg := &Registry{}
		cfg := Config{Host: "before"}
		c, err := reg.CreateInstance("x", cfg)
		require.NoError(t, err)
		cfg.Host = "after"
		assert.Equal(t, "before", c.Config().Host)
		assert.Nil(t, cfg.Transport)
	})
	t.Run("concurrent", func(t *testing.T) {
		reg := &Registry{}
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(2)
			name := fmt.Sprintf("c%d", i)
			go func() {
				defer wg.Done()
				_, err := reg.CreateInstance(name, Config{Transport: transport.Func(nil)})
				assert.NoError(t, err)
			}()
			go func() {
				defer wg.Done()
				reg.GetInstance(name)
			}()
		}
		wg.Wait()
		names := reg.Names()
		sort.Strings(names)
		assert.Len(t, names, 10)
		assert.Equal(t, "c0", names[0])
	})
}

func TestSingleton(t *testing.T) {
	var s Singleton
	got, ok := s.GetInstance()
	assert.False(t, ok)
	assert.Nil(t, got)

	c, err := s.CreateInstance(Config{Host: "one"})
	require.NoError(t, err)
	got, ok = s.GetInstance()
	require.True(t, ok)
	assert.Same(t, c, got)
	assert.Equal(t, "", got.Name())

	rb := newMockRequestBuilder(t)
	rb.On("InitializeTransport", mock.Anything).Return(errors.New("boom")).Once()
	_, err = s.CreateInstance(Config{Host: "two", RequestBuilder: rb})
	assert.Error(t, err)
	got, _ = s.GetInstance()
	assert.Same(t, c, got)

	c2, err := s.CreateInstance(Config{Host: "three"})
	require.NoError(t, err)
	got, _ = s.GetInstance()
	assert.Same(t, c2, got)
}

func TestClient_CloseIdleConnections(t *testing.T) {
	c := newTestClient(t, Config{Transport: newMockTransport(t)})
	assert.NotPanics(t, c.CloseIdleConnections)

	nt := &nethttp.Transport{}
	c = newTestClient(t, Config{Transport: nt})
	assert.NotPanics(t, c.CloseIdleConnections)
}

func TestRequest_BadArgs(t *testing.T) {
	c := newTestClient(t, Config{})
	assert.PanicsWithValue(t, "alliance: nil client", func() { Request[item](nil, getRoute()) })
	assert.PanicsWithValue(t, "alliance: nil route", func() { Request[item](c, nil) })
}
