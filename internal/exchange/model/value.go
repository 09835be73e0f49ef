/*
 * Copyright (c) 2026, ExGrid (https://exgrid.io).
 *
 * ExGrid licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindArray
)

// Value is a tagged union over the value shapes participants trade in:
// string, number, boolean, array or null. Array elements are Values again, so
// nested arrays round-trip. Values are opaque to the persistence layer; they
// serialize to their native JSON shape.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
	Bool bool
	Arr  []Value
}

// Null returns the null Value.
func Null() Value {
	return Value{Kind: KindNull}
}

// String returns a string Value.
func String(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// Number returns a numeric Value.
func Number(n float64) Value {
	return Value{Kind: KindNumber, Num: n}
}

// Boolean returns a boolean Value.
func Boolean(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

// Array returns an array Value over the given elements.
func Array(elements ...Value) Value {
	return Value{Kind: KindArray, Arr: elements}
}

// IsEmpty classifies a value as empty. Empty strings and nulls are empty; an
// array is empty when every element is empty, recursively, so the zero-length
// array is empty too. Numbers and booleans are never empty.
func (v Value) IsEmpty() bool {
	switch v.Kind {
	case KindNull:
		return true
	case KindString:
		return v.Str == ""
	case KindArray:
		for _, element := range v.Arr {
			if !element.IsEmpty() {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Equal reports deep equality of two values.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindString:
		return v.Str == other.Str
	case KindNumber:
		return v.Num == other.Num
	case KindBool:
		return v.Bool == other.Bool
	case KindArray:
		if len(v.Arr) != len(other.Arr) {
			return false
		}
		for i := range v.Arr {
			if !v.Arr[i].Equal(other.Arr[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// AsString renders scalar values as a string. Native item ids arrive as
// strings or numbers depending on the participant; both map to a stable key.
// Nulls and arrays render empty.
func (v Value) AsString() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return ""
	}
}

// MarshalJSON serializes the value to its native JSON shape.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindString:
		return json.Marshal(v.Str)
	case KindNumber:
		return json.Marshal(v.Num)
	case KindBool:
		return json.Marshal(v.Bool)
	case KindArray:
		if v.Arr == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.Arr)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON infers the kind from the JSON shape.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*v = Null()
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = String(s)
	case '[':
		var elements []Value
		if err := json.Unmarshal(trimmed, &elements); err != nil {
			return err
		}
		*v = Value{Kind: KindArray, Arr: elements}
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return err
		}
		*v = Boolean(b)
	default:
		var n float64
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return err
		}
		*v = Number(n)
	}
	return nil
}

// FromInterface converts a dynamically typed value (as produced by
// encoding/json or database drivers) into a Value.
func FromInterface(raw interface{}) Value {
	switch typed := raw.(type) {
	case nil:
		return Null()
	case string:
		return String(typed)
	case bool:
		return Boolean(typed)
	case float64:
		return Number(typed)
	case int:
		return Number(float64(typed))
	case int64:
		return Number(float64(typed))
	case []interface{}:
		elements := make([]Value, 0, len(typed))
		for _, element := range typed {
			elements = append(elements, FromInterface(element))
		}
		return Value{Kind: KindArray, Arr: elements}
	default:
		return Null()
	}
}
