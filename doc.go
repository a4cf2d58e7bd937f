// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package alliance provides a declarative request layer between
application code and an HTTP transport.

Register a client once at program start, then pass the registry to the
code making requests:

	reg := &alliance.Registry{}
	_, err := reg.CreateInstance("users", alliance.Config{
		Protocol:       "https",
		Host:           "api.example.com",
		Path:           "/v1",
		RequestBuilder: &alliance.StandardBuilder{Tokens: tokens},
		ErrorHandler:   alliance.LogErrorHandler(logger, nil),
	})
	...
	c, ok := reg.GetInstance("users")

Describe each remote operation with a request.Route and run it with an
Executor. The result is decoded into the executor's type parameter:

	route := &request.Route{
		Path:         "/users/:id",
		Method:       request.GET,
		Params:       request.ValuesOf("id", 42),
		AuthRequired: true,
	}
	user, err := alliance.Request[User](c, route).Perform(ctx)

Perform returns every failure to the caller. PerformSilent hands
failures to the client's ErrorHandler instead. Either way, a default
value set with OrDefault replaces every failure:

	users, _ := alliance.Request[[]User](c, listRoute).
		OrDefault([]User{}).
		PerformSilent(ctx)

The RequestBuilder runs before each request and may cancel it before
anything is sent, for instance when the route requires authentication
and no token is available. StandardBuilder implements bearer token
authentication and installs a nethttp.Transport with optional retry,
timeout, rate limit and HTTP/2 settings.

To hook into the steps of each run, install handlers in the Config:

	handlers := &alliance.HandlerGroup{}
	handlers.PushBack(alliance.AfterSend, alliance.HandlerFunc(
		func(_ alliance.Event, e *request.Execution) {
			log.Printf("%s %s: %d", e.Call.Method, e.Path, e.StatusCode())
		}))
*/
package alliance
