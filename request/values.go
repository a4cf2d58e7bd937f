// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import "fmt"

// A Pair is one entry of Values.
type Pair struct {
	Key   string
	Value interface{}
}

// Values is an insertion-ordered string-keyed mapping. The zero value
// is an empty mapping ready to use.
//
// Keys are unique when Values is only modified through Set.
type Values []Pair

// ValuesOf builds Values from alternating keys and values. It panics
// if kv has odd length or a key is not a string.
func ValuesOf(kv ...interface{}) Values {
	if len(kv)%2 != 0 {
		panic("alliance/request: odd number of arguments to ValuesOf")
	}
	v := make(Values, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("alliance/request: key %v is not a string", kv[i]))
		}
		v.Set(k, kv[i+1])
	}
	return v
}

// Len returns the number of entries.
func (v Values) Len() int {
	return len(v)
}

// Get returns the value for key and whether it is present.
func (v Values) Get(key string) (interface{}, bool) {
	if i := v.index(key); i >= 0 {
		return v[i].Value, true
	}
	return nil, false
}

// Set sets key to value. An existing key keeps its position.
func (v *Values) Set(key string, value interface{}) {
	if i := v.index(key); i >= 0 {
		(*v)[i].Value = value
		return
	}
	*v = append(*v, Pair{key, value})
}

// Del removes key.
func (v *Values) Del(key string) {
	if i := v.index(key); i >= 0 {
		*v = append((*v)[:i], (*v)[i+1:]...)
	}
}

// Merge sets every entry of other on v, in order.
func (v *Values) Merge(other Values) {
	for _, p := range other {
		v.Set(p.Key, p.Value)
	}
}

// Clone returns a copy of v. The copy of an empty v is nil.
func (v Values) Clone() Values {
	if len(v) == 0 {
		return nil
	}
	return append(Values(nil), v...)
}

func (v Values) index(key string) int {
	for i := range v {
		if v[i].Key == key {
			return i
		}
	}
	return -1
}
