// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"errors"
	"math"
	"syscall"
	"testing"
	"time"

	"github.com/gogama/alliance/transport"
	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	a := DefaultPolicy.Timeout(&transport.Attempt{})
	assert.Equal(t, 5*time.Second, a)
	b := DefaultPolicy.Timeout(&transport.Attempt{Timeouts: 3, Err: syscall.ETIMEDOUT})
	assert.Equal(t, 5*time.Second, b)
}

func TestInfinite(t *testing.T) {
	a := Infinite.Timeout(&transport.Attempt{})
	assert.Equal(t, time.Duration(math.MaxInt64), a)
	b := Infinite.Timeout(&transport.Attempt{Timeouts: 10, Err: syscall.ETIMEDOUT})
	assert.Equal(t, time.Duration(math.MaxInt64), b)
}

func TestFixed(t *testing.T) {
	p := Fixed(33 * time.Hour)
	assert.Equal(t, 33*time.Hour, p.Timeout(&transport.Attempt{}))
	assert.Equal(t, 33*time.Hour, p.Timeout(&transport.Attempt{Timeouts: 1, Err: syscall.ETIMEDOUT, Index: 1}))
	assert.Equal(t, 33*time.Hour, p.Timeout(&transport.Attempt{Timeouts: 2, Err: syscall.ETIMEDOUT, Index: 2}))
}

func TestAdaptive(t *testing.T) {
	p := Adaptive(5*time.Millisecond, 10*time.Millisecond, 100*time.Millisecond)
	a := &transport.Attempt{}
	assert.Equal(t, 5*time.Millisecond, p.Timeout(a))
	a.Index = 1
	a.Timeouts = 1
	a.Err = syscall.ETIMEDOUT
	assert.Equal(t, 10*time.Millisecond, p.Timeout(a))
	a.Index = 2
	a.Err = errors.New("just a routine problem")
	assert.Equal(t, 5*time.Millisecond, p.Timeout(a))
	a.Index = 3
	a.Timeouts = 2
	a.Err = syscall.ETIMEDOUT
	assert.Equal(t, 100*time.Millisecond, p.Timeout(a))
	a.Index = 4
	a.Timeouts = 3
	assert.Equal(t, 100*time.Millisecond, p.Timeout(a))
}

func TestCapped(t *testing.T) {
	assert.PanicsWithValue(t, "alliance/timeout: nil policy", func() { Capped(nil, time.Second) })

	p := Capped(Fixed(time.Hour), time.Minute)
	t.Run("not started", func(t *testing.T) {
		assert.Equal(t, time.Minute, p.Timeout(&transport.Attempt{}))
	})
	t.Run("within budget", func(t *testing.T) {
		d := p.Timeout(&transport.Attempt{Start: time.Now().Add(-30 * time.Second)})
		assert.Greater(t, d, 29*time.Second)
		assert.LessOrEqual(t, d, 30*time.Second)
	})
	t.Run("budget spent", func(t *testing.T) {
		d := p.Timeout(&transport.Attempt{Start: time.Now().Add(-2 * time.Minute)})
		assert.Equal(t, time.Nanosecond, d)
	})
	t.Run("inner policy shorter", func(t *testing.T) {
		q := Capped(Fixed(time.Second), time.Minute)
		assert.Equal(t, time.Second, q.Timeout(&transport.Attempt{Start: time.Now()}))
	})
}
