// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"fmt"
	"strings"
)

// ResolvePath renders the request path of r.
//
// The query is r.Query followed by the Pageable fields "size" and
// "page", which override same-named query keys. A non-empty query is
// appended after a "?" as key=value pairs joined by "&". Then the first
// occurrence of ":name" is replaced for each name in r.Params;
// placeholders without a parameter are left as they are. Values are
// formatted with fmt.Sprint and are not escaped.
func ResolvePath(r *Route) string {
	var b strings.Builder
	b.WriteString(r.Path)

	q := r.Query.Clone()
	if p := r.Pageable; p != nil {
		q.Set("size", p.Size)
		q.Set("page", p.Page)
	}
	if len(q) > 0 {
		b.WriteByte('?')
		for i, p := range q {
			if i > 0 {
				b.WriteByte('&')
			}
			b.WriteString(p.Key)
			b.WriteByte('=')
			b.WriteString(fmt.Sprint(p.Value))
		}
	}

	s := b.String()
	for _, p := range r.Params {
		s = strings.Replace(s, ":"+p.Key, fmt.Sprint(p.Value), 1)
	}
	return s
}
