// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"io"

	"github.com/gogama/alliance/codec"
)

// BodyBytes returns the encoded form of a request body.
//
// Parameter body may be nil, a string, a []byte, an io.Reader or an
// io.ReadCloser, which are used verbatim (readers are read to EOF, and
// closed if they are closers). Any other value is encoded with c, or
// codec.JSON if c is nil.
func BodyBytes(body interface{}, c codec.Codec) ([]byte, error) {
	switch x := body.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(x), nil
	case []byte:
		return x, nil
	case io.ReadCloser:
		b, err := io.ReadAll(x)
		if err != nil {
			return nil, err
		}
		err = x.Close()
		if err != nil {
			return nil, err
		}
		return b, nil
	case io.Reader:
		return BodyBytes(io.NopCloser(x), c)
	default:
		return codec.Or(c).Marshal(body)
	}
}
