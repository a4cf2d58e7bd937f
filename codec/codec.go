// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package codec provides the wire encodings used for request bodies,
// success payloads and error payloads.
package codec

import (
	"bytes"
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// A Codec marshals request bodies and unmarshals response bodies.
//
// Implementations must be safe for concurrent use by multiple
// goroutines.
type Codec interface {
	// ContentType is sent as the Content-Type header of encoded request
	// bodies and as the Accept header of every request.
	ContentType() string
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

// JSON is the default codec.
var JSON Codec = jsonCodec{}

// MsgPack encodes MessagePack. Struct fields are named by their json
// tags so the same types serve both codecs.
var MsgPack Codec = msgpackCodec{}

type jsonCodec struct{}

func (jsonCodec) ContentType() string {
	return "application/json"
}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

type msgpackCodec struct{}

func (msgpackCodec) ContentType() string {
	return "application/msgpack"
}

func (msgpackCodec) Marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (msgpackCodec) Unmarshal(data []byte, v interface{}) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}

// Or returns c, or JSON if c is nil.
func Or(c Codec) Codec {
	if c == nil {
		return JSON
	}
	return c
}
