// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package alliance

import (
	"fmt"
	"sync"

	"github.com/gogama/alliance/transport/nethttp"
)

// A Registry holds named clients. The zero value is an empty registry
// ready to use.
//
// A Registry is safe for concurrent use by multiple goroutines, but is
// meant to be populated at program start, then passed to the code
// making requests.
type Registry struct {
	lock    sync.RWMutex
	clients map[string]*Client
}

// CreateInstance creates a client from cfg and registers it as name,
// replacing any client previously registered under that name.
//
// The config is copied, then handed to the request builder's
// InitializeTransport. If that fails, the error is returned and the
// registry is unchanged.
func (r *Registry) CreateInstance(name string, cfg Config) (*Client, error) {
	c, err := newClient(name, cfg)
	if err != nil {
		return nil, err
	}

	r.lock.Lock()
	defer r.lock.Unlock()
	if r.clients == nil {
		r.clients = make(map[string]*Client)
	}
	r.clients[name] = c
	return c, nil
}

// GetInstance returns the client registered as name, and whether there
// was one.
func (r *Registry) GetInstance(name string) (*Client, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	c, ok := r.clients[name]
	return c, ok
}

// Names returns the registered instance names in no particular order.
func (r *Registry) Names() []string {
	r.lock.RLock()
	defer r.lock.RUnlock()
	names := make([]string, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}
	return names
}

// A Singleton holds at most one client. The zero value is empty and
// ready to use.
type Singleton struct {
	lock   sync.RWMutex
	client *Client
}

// CreateInstance creates a client from cfg and makes it the instance,
// replacing any previous one. Errors are handled as for
// Registry.CreateInstance.
func (s *Singleton) CreateInstance(cfg Config) (*Client, error) {
	c, err := newClient("", cfg)
	if err != nil {
		return nil, err
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	s.client = c
	return c, nil
}

// GetInstance returns the instance, and whether one was created.
func (s *Singleton) GetInstance() (*Client, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.client, s.client != nil
}

func newClient(name string, cfg Config) (*Client, error) {
	if cfg.RequestBuilder != nil {
		if err := cfg.RequestBuilder.InitializeTransport(&cfg); err != nil {
			return nil, fmt.Errorf("alliance: initializing transport for instance %q: %w", name, err)
		}
	}
	if cfg.Transport == nil {
		cfg.Transport = &nethttp.Transport{BaseURL: cfg.BaseURL()}
	}
	return &Client{name: name, cfg: &cfg}, nil
}
