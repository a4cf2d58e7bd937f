// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"testing"

	"github.com/gogama/alliance/pagination"
	"github.com/stretchr/testify/assert"
)

func TestResolvePath(t *testing.T) {
	testCases := []struct {
		name  string
		route Route
		want  string
	}{
		{
			name:  "bare path",
			route: Route{Path: "/items"},
			want:  "/items",
		},
		{
			name:  "empty but non-nil query",
			route: Route{Path: "/items/:id", Query: Values{}, Params: Values{}},
			want:  "/items/:id",
		},
		{
			name: "param and query",
			route: Route{
				Path:   "/items/:id",
				Method: GET,
				Params: ValuesOf("id", "7"),
				Query:  ValuesOf("verbose", "true"),
			},
			want: "/items/7?verbose=true",
		},
		{
			name: "unmatched placeholder untouched",
			route: Route{
				Path:   "/users/:userId/items/:id",
				Params: ValuesOf("id", "42"),
			},
			want: "/users/:userId/items/42",
		},
		{
			name: "non-string values",
			route: Route{
				Path:   "/items/:id",
				Params: ValuesOf("id", 7),
				Query:  ValuesOf("verbose", true, "ratio", 1.5),
			},
			want: "/items/7?verbose=true&ratio=1.5",
		},
		{
			name: "pageable only",
			route: Route{
				Path:     "/items",
				Pageable: pagination.Of(20, 3),
			},
			want: "/items?size=20&page=3",
		},
		{
			name: "pageable overrides query in place",
			route: Route{
				Path:     "/items",
				Query:    ValuesOf("page", 1, "sort", "name"),
				Pageable: pagination.Of(10, 2),
			},
			want: "/items?page=2&sort=name&size=10",
		},
		{
			name: "no escaping",
			route: Route{
				Path:  "/search",
				Query: ValuesOf("q", "a b&c"),
			},
			want: "/search?q=a b&c",
		},
		{
			name: "first occurrence only",
			route: Route{
				Path:   "/a/:id/b/:id",
				Params: ValuesOf("id", 1),
			},
			want: "/a/1/b/:id",
		},
		{
			name: "placeholder in query",
			route: Route{
				Path:   "/items",
				Params: ValuesOf("sort", "name"),
				Query:  ValuesOf("order", ":sort"),
			},
			want: "/items?order=name",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			r := testCase.route
			assert.Equal(t, testCase.want, ResolvePath(&r))
		})
	}
}

func TestResolvePathDoesNotModifyRoute(t *testing.T) {
	r := &Route{
		Path:     "/items",
		Query:    ValuesOf("size", 1),
		Pageable: pagination.Of(5, 0),
	}
	_ = ResolvePath(r)
	assert.Equal(t, ValuesOf("size", 1), r.Query)
}
