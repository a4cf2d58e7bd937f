// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/gogama/alliance"
	"github.com/gogama/alliance/config"
	"github.com/gogama/alliance/pagination"
	"github.com/gogama/alliance/request"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type doOptions struct {
	configPath   string
	instance     string
	baseURL      string
	params       []string
	query        []string
	size         int
	page         int
	data         string
	defaults     string
	silent       bool
	token        string
	auth         bool
	optionalAuth bool
	timeout      time.Duration
	debug        bool
}

func newDoCmd() *cobra.Command {
	opts := &doOptions{}
	cmd := &cobra.Command{
		Use:   "do METHOD PATH",
		Short: "Send one request and print the payload",
		Long: `Send one request and print the decoded payload as JSON.

PATH is a template whose :name placeholders are filled from -p flags.
The client is taken from --url, or from instance --instance of the
--config file.

Example:
  alliance do GET /items/:id -p id=7 -q verbose=true --url http://localhost:8080/api
  alliance do GET /items --size 20 --page 2 --config alliance.yaml --instance api
  alliance do DELETE /items/7 --auth --token s3cret --silent --default '{}' --url http://h`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to instance configuration file")
	flags.StringVarP(&opts.instance, "instance", "i", "", "Instance to use from the configuration file")
	flags.StringVar(&opts.baseURL, "url", "", "Base URL of the instance, used without --config")
	flags.StringArrayVarP(&opts.params, "param", "p", nil, "Path parameter as key=value, repeatable")
	flags.StringArrayVarP(&opts.query, "query", "q", nil, "Query parameter as key=value, repeatable")
	flags.IntVar(&opts.size, "size", 0, "Page size")
	flags.IntVar(&opts.page, "page", 0, "Page index")
	flags.StringVarP(&opts.data, "data", "d", "", "JSON request body")
	flags.StringVar(&opts.defaults, "default", "", "JSON value printed in place of a failure")
	flags.BoolVar(&opts.silent, "silent", false, "Report failures through the error handler instead of failing")
	flags.StringVar(&opts.token, "token", "", "Bearer token, overrides the instance token")
	flags.BoolVar(&opts.auth, "auth", false, "Require authentication")
	flags.BoolVar(&opts.optionalAuth, "optional-auth", false, "Authenticate when a token is available")
	flags.DurationVar(&opts.timeout, "timeout", 0, "Request timeout")
	flags.BoolVar(&opts.debug, "debug", false, "Log at debug level")
	cmd.MarkFlagsMutuallyExclusive("config", "url")

	return cmd
}

func (opts *doOptions) run(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd.ErrOrStderr(), opts.debug)

	route, err := opts.route(cmd, args)
	if err != nil {
		return err
	}
	cfg, err := opts.clientConfig(&logger)
	if err != nil {
		return err
	}
	var single alliance.Singleton
	client, err := single.CreateInstance(cfg)
	if err != nil {
		return err
	}
	defer client.CloseIdleConnections()

	x := alliance.Request[interface{}](client, route)
	if opts.data != "" {
		var body interface{}
		if err = json.Unmarshal([]byte(opts.data), &body); err != nil {
			return fmt.Errorf("invalid --data: %w", err)
		}
		x = x.Body(body)
	}
	if opts.defaults != "" {
		var v interface{}
		if err = json.Unmarshal([]byte(opts.defaults), &v); err != nil {
			return fmt.Errorf("invalid --default: %w", err)
		}
		x = x.OrDefault(v)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	var v interface{}
	if opts.silent {
		v, err = x.PerformSilent(ctx)
	} else {
		v, err = x.Perform(ctx)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (opts *doOptions) route(cmd *cobra.Command, args []string) (*request.Route, error) {
	r := &request.Route{
		Method:          request.Method(strings.ToUpper(args[0])),
		Path:            args[1],
		AuthRequired:    opts.auth,
		UseOptionalAuth: opts.optionalAuth,
	}
	var err error
	if r.Params, err = pairs("param", opts.params); err != nil {
		return nil, err
	}
	if r.Query, err = pairs("query", opts.query); err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("size") || cmd.Flags().Changed("page") {
		r.Pageable = pagination.Of(opts.size, opts.page)
	}

	return r, nil
}

func pairs(flag string, kvs []string) (request.Values, error) {
	var vs request.Values
	for _, kv := range kvs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --%s %q: expected key=value", flag, kv)
		}
		vs.Set(k, v)
	}
	return vs, nil
}

func (opts *doOptions) clientConfig(logger *zerolog.Logger) (alliance.Config, error) {
	var inst *config.Instance
	switch {
	case opts.configPath != "":
		f, err := config.Load(opts.configPath)
		if err != nil {
			return alliance.Config{}, err
		}
		name := opts.instance
		if name == "" {
			name = f.Default
		}
		if name == "" {
			return alliance.Config{}, fmt.Errorf("no --instance given and %s has no default", opts.configPath)
		}
		if inst = f.Instances[name]; inst == nil {
			return alliance.Config{}, fmt.Errorf("instance %q is not defined in %s", name, opts.configPath)
		}
	case opts.baseURL != "":
		var err error
		if inst, err = instanceOf(opts.baseURL); err != nil {
			return alliance.Config{}, err
		}
	default:
		return alliance.Config{}, errors.New("one of --config or --url is required")
	}

	if opts.token != "" {
		inst.Token, inst.TokenEnv = opts.token, ""
	}
	if opts.timeout > 0 {
		inst.Timeout = opts.timeout
	}

	cfg, err := inst.Config(alliance.Config{Logger: logger})
	if err != nil {
		return alliance.Config{}, err
	}
	cfg.ErrorHandler = alliance.LogErrorHandler(*logger, cfg.Codec)
	return cfg, nil
}

func instanceOf(baseURL string) (*config.Instance, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid --url: %w", err)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("invalid --url %q: no host", baseURL)
	}

	inst := &config.Instance{
		Protocol: u.Scheme,
		Host:     u.Hostname(),
		Path:     u.Path,
	}
	if p := u.Port(); p != "" {
		if inst.Port, err = strconv.Atoi(p); err != nil {
			return nil, fmt.Errorf("invalid --url port %q: %w", p, err)
		}
	}

	return inst, nil
}
