// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package config loads registry instances from a YAML file.
//
// A file names one or more instances, each of which becomes a client
// with an alliance.StandardBuilder:
//
//	default: api
//	instances:
//	  api:
//	    protocol: https
//	    host: api.example.com
//	    path: /v1
//	    token_env: API_TOKEN
//	    timeout: 10s
//	    retry:
//	      attempts: 3
//	      base_wait: 100ms
//	      max_wait: 2s
//	  media:
//	    host: media.internal
//	    port: 8080
//	    codec: msgpack
//	    http2: true
//	    http2_cleartext: true
//	    rate_limit: 50
//	    burst: 10
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/gogama/alliance"
	"github.com/gogama/alliance/codec"
	"github.com/gogama/alliance/retry"
	"github.com/gogama/alliance/timeout"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

// Codec names accepted in an instance's codec field.
const (
	CodecJSON    = "json"
	CodecMsgPack = "msgpack"
)

// Default values applied to fields left empty.
const (
	DefaultProtocol = "http"
	DefaultBaseWait = 50 * time.Millisecond
	DefaultMaxWait  = 1 * time.Second
)

// File is the root of a configuration file.
type File struct {
	// Default names the instance used when none is given. If empty and
	// the file has exactly one instance, that instance is the default.
	Default string `yaml:"default"`

	// Instances maps instance names to their configuration.
	Instances map[string]*Instance `yaml:"instances"`
}

// Instance is the configuration of one registry instance.
type Instance struct {
	Protocol string            `yaml:"protocol"`
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	Path     string            `yaml:"path"`
	Codec    string            `yaml:"codec"`
	Headers  map[string]string `yaml:"headers,omitempty"`

	// Token is a fixed bearer token. TokenEnv names an environment
	// variable read on every request instead. At most one may be set.
	Token    string `yaml:"token,omitempty"`
	TokenEnv string `yaml:"token_env,omitempty"`
	Scheme   string `yaml:"scheme,omitempty"`

	RequestIDHeader  string `yaml:"request_id_header,omitempty"`
	DisableRequestID bool   `yaml:"disable_request_id"`

	Timeout        time.Duration `yaml:"timeout"`
	HTTP2          bool          `yaml:"http2"`
	HTTP2Cleartext bool          `yaml:"http2_cleartext"`
	RateLimit      float64       `yaml:"rate_limit"`
	Burst          int           `yaml:"burst"`
	Retry          Retry         `yaml:"retry"`
}

// Retry configures retries of the instance's transport. Zero Attempts
// disables retrying.
type Retry struct {
	Attempts       int           `yaml:"attempts"`
	BaseWait       time.Duration `yaml:"base_wait"`
	MaxWait        time.Duration `yaml:"max_wait"`
	StatusCodes    []int         `yaml:"status_codes,omitempty"`
	RetryAfter     bool          `yaml:"retry_after"`
	AttemptTimeout time.Duration `yaml:"attempt_timeout"`
	TotalTimeout   time.Duration `yaml:"total_timeout"`
}

// Load reads and parses the configuration file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("alliance/config: failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse parses, defaults and validates a configuration file. Unknown
// fields are an error.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("alliance/config: failed to parse config file: %w", err)
	}

	f.applyDefaults()
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("alliance/config: invalid configuration: %w", err)
	}

	return &f, nil
}

func (f *File) applyDefaults() {
	if f.Default == "" && len(f.Instances) == 1 {
		for name := range f.Instances {
			f.Default = name
		}
	}
	for _, inst := range f.Instances {
		if inst == nil {
			continue
		}
		if inst.Protocol == "" {
			inst.Protocol = DefaultProtocol
		}
		if inst.Codec == "" {
			inst.Codec = CodecJSON
		}
		if inst.Retry.BaseWait <= 0 {
			inst.Retry.BaseWait = DefaultBaseWait
		}
		if inst.Retry.MaxWait <= 0 {
			inst.Retry.MaxWait = DefaultMaxWait
		}
		if inst.Retry.MaxWait < inst.Retry.BaseWait {
			inst.Retry.MaxWait = inst.Retry.BaseWait
		}
	}
}

// Validate checks the file for errors.
func (f *File) Validate() error {
	if len(f.Instances) == 0 {
		return errors.New("at least one instance is required")
	}
	if _, ok := f.Instances[f.Default]; f.Default != "" && !ok {
		return fmt.Errorf("default instance %q is not defined", f.Default)
	}

	for _, name := range f.Names() {
		if err := f.Instances[name].validate(); err != nil {
			return fmt.Errorf("instance %q: %w", name, err)
		}
	}

	return nil
}

func (inst *Instance) validate() error {
	if inst == nil {
		return errors.New("empty instance")
	}
	if inst.Host == "" {
		return errors.New("host is required")
	}
	switch strings.ToLower(inst.Protocol) {
	case "http", "https":
	default:
		return fmt.Errorf("protocol %q is not http or https", inst.Protocol)
	}
	if inst.Port < 0 || inst.Port > 65535 {
		return fmt.Errorf("port %d is out of range", inst.Port)
	}
	if _, err := inst.codec(); err != nil {
		return err
	}
	if inst.Token != "" && inst.TokenEnv != "" {
		return errors.New("token and token_env cannot both be set")
	}
	if inst.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}
	if inst.HTTP2Cleartext && !inst.HTTP2 {
		return errors.New("http2_cleartext requires http2")
	}
	if inst.RateLimit < 0 {
		return errors.New("rate_limit must not be negative")
	}
	if inst.Burst < 0 {
		return errors.New("burst must not be negative")
	}
	if inst.Retry.Attempts < 0 {
		return errors.New("retry.attempts must not be negative")
	}
	if inst.Retry.AttemptTimeout < 0 || inst.Retry.TotalTimeout < 0 {
		return errors.New("retry timeouts must not be negative")
	}
	for _, code := range inst.Retry.StatusCodes {
		if code < 100 || code > 599 {
			return fmt.Errorf("retry.status_codes: %d is not an HTTP status code", code)
		}
	}

	return nil
}

// Names returns the sorted instance names.
func (f *File) Names() []string {
	names := make([]string, 0, len(f.Instances))
	for name := range f.Instances {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register creates every instance of f in reg. The ErrorHandler,
// Logger and Handlers of base are shared by all instances; the other
// fields of base are ignored.
//
// Instances are created in name order. Registration stops at the first
// failure, leaving the instances created so far in reg.
func (f *File) Register(reg *alliance.Registry, base alliance.Config) error {
	for _, name := range f.Names() {
		cfg, err := f.Instances[name].Config(base)
		if err != nil {
			return fmt.Errorf("alliance/config: instance %q: %w", name, err)
		}
		if _, err = reg.CreateInstance(name, cfg); err != nil {
			return err
		}
	}

	return nil
}

// Config returns the client config described by inst. The
// ErrorHandler, Logger and Handlers are taken from base.
func (inst *Instance) Config(base alliance.Config) (alliance.Config, error) {
	c, err := inst.codec()
	if err != nil {
		return alliance.Config{}, err
	}

	return alliance.Config{
		Protocol:       inst.Protocol,
		Host:           inst.Host,
		Port:           inst.Port,
		Path:           inst.Path,
		ErrorHandler:   base.ErrorHandler,
		RequestBuilder: inst.Builder(),
		Codec:          c,
		Logger:         base.Logger,
		Handlers:       base.Handlers,
	}, nil
}

// Builder returns the request builder described by inst.
func (inst *Instance) Builder() *alliance.StandardBuilder {
	b := &alliance.StandardBuilder{
		Tokens:           inst.tokens(),
		Scheme:           inst.Scheme,
		RequestIDHeader:  inst.RequestIDHeader,
		DisableRequestID: inst.DisableRequestID,
		Timeout:          inst.Timeout,
		HTTP2:            inst.HTTP2,
		HTTP2Cleartext:   inst.HTTP2Cleartext,
		RateLimit:        rate.Limit(inst.RateLimit),
		Burst:            inst.Burst,
		RetryPolicy:      inst.Retry.policy(),
		TimeoutPolicy:    inst.Retry.timeoutPolicy(),
	}
	if len(inst.Headers) > 0 {
		b.Header = make(http.Header, len(inst.Headers))
		for k, v := range inst.Headers {
			b.Header.Set(k, v)
		}
	}

	return b
}

func (inst *Instance) codec() (codec.Codec, error) {
	switch strings.ToLower(inst.Codec) {
	case "", CodecJSON:
		return codec.JSON, nil
	case CodecMsgPack:
		return codec.MsgPack, nil
	default:
		return nil, fmt.Errorf("unknown codec %q", inst.Codec)
	}
}

func (inst *Instance) tokens() alliance.TokenSource {
	switch {
	case inst.Token != "":
		return alliance.StaticToken(inst.Token)
	case inst.TokenEnv != "":
		name := inst.TokenEnv
		return alliance.TokenFunc(func() (string, error) {
			return os.Getenv(name), nil
		})
	default:
		return nil
	}
}

func (r *Retry) policy() retry.Policy {
	if r.Attempts == 0 {
		return retry.Never
	}

	d := retry.Times(r.Attempts).And(retry.Idempotent)
	if len(r.StatusCodes) > 0 {
		d = d.And(retry.StatusCode(r.StatusCodes...).Or(retry.TransientErr))
	} else {
		d = d.And(retry.StatusCode(429, 502, 503, 504).Or(retry.TransientErr))
	}
	var w retry.Waiter = retry.NewExpWaiter(r.BaseWait, r.MaxWait, time.Now())
	if r.RetryAfter {
		w = retry.RetryAfter(w)
	}

	return retry.NewPolicy(d, w)
}

func (r *Retry) timeoutPolicy() timeout.Policy {
	var p timeout.Policy
	if r.AttemptTimeout > 0 {
		p = timeout.Fixed(r.AttemptTimeout)
	}
	if r.TotalTimeout > 0 {
		if p == nil {
			p = timeout.Infinite
		}
		p = timeout.Capped(p, r.TotalTimeout)
	}

	return p
}
