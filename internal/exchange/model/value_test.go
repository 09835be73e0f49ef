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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueIsEmpty(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		expected bool
	}{
		{"null is empty", Null(), true},
		{"empty string is empty", String(""), true},
		{"non-empty string", String("x"), false},
		{"zero number is not empty", Number(0), false},
		{"false is not empty", Boolean(false), false},
		{"zero-length array is empty", Array(), true},
		{"array of empties is empty", Array(String(""), Null()), true},
		{"nested empty arrays are empty", Array(Array(), Array(String("")), Array(Array())), true},
		{"array with one number", Array(Number(0)), false},
		{"array with one bool", Array(Boolean(false)), false},
		{"array with one string", Array(String("x")), false},
		{"deeply nested non-empty", Array(Array(Array(String("x")))), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.value.IsEmpty())
		})
	}
}

func TestValueEqual(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Value
		expected bool
	}{
		{"equal strings", String("a"), String("a"), true},
		{"different strings", String("a"), String("b"), false},
		{"equal numbers", Number(1.5), Number(1.5), true},
		{"string never equals number", String("1"), Number(1), false},
		{"null equals null", Null(), Null(), true},
		{"equal arrays", Array(String("a"), Number(2)), Array(String("a"), Number(2)), true},
		{"arrays differ by length", Array(String("a")), Array(String("a"), String("a")), false},
		{"arrays differ by order", Array(String("a"), String("b")), Array(String("b"), String("a")), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.Equal(tt.b))
		})
	}
}

func TestValueAsString(t *testing.T) {
	assert.Equal(t, "42", Number(42).AsString())
	assert.Equal(t, "42.5", Number(42.5).AsString())
	assert.Equal(t, "id-7", String("id-7").AsString())
	assert.Equal(t, "true", Boolean(true).AsString())
	assert.Equal(t, "", Null().AsString())
	assert.Equal(t, "", Array(String("a")).AsString())
}

func TestValueJSONRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		json  string
	}{
		{"string", String("hello"), `"hello"`},
		{"number", Number(3.25), `3.25`},
		{"bool", Boolean(true), `true`},
		{"null", Null(), `null`},
		{"array", Array(String("a"), Number(1), Null()), `["a",1,null]`},
		{"nested array", Array(Array(String("a"))), `[["a"]]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := json.Marshal(tt.value)
			require.NoError(t, err)
			assert.JSONEq(t, tt.json, string(encoded))

			var decoded Value
			require.NoError(t, json.Unmarshal(encoded, &decoded))
			assert.True(t, tt.value.Equal(decoded))
		})
	}
}

func TestFromInterface(t *testing.T) {
	assert.True(t, String("a").Equal(FromInterface("a")))
	assert.True(t, Number(2).Equal(FromInterface(float64(2))))
	assert.True(t, Number(2).Equal(FromInterface(int64(2))))
	assert.True(t, Boolean(true).Equal(FromInterface(true)))
	assert.True(t, Null().Equal(FromInterface(nil)))
	assert.True(t, Array(String("a"), Number(1)).Equal(FromInterface([]interface{}{"a", float64(1)})))
}

func TestDataQueue(t *testing.T) {
	queue := NewDataQueue(ItemData{"a": String("1")})
	queue.Enqueue(ItemData{"a": String("2")})

	assert.Equal(t, 2, queue.Len())

	first, ok := queue.Dequeue()
	require.True(t, ok)
	assert.True(t, String("1").Equal(first.Get("a")))

	second, ok := queue.Dequeue()
	require.True(t, ok)
	assert.True(t, String("2").Equal(second.Get("a")))

	_, ok = queue.Dequeue()
	assert.False(t, ok)
}

func TestItemDataGetAbsentField(t *testing.T) {
	item := ItemData{"present": String("x")}
	assert.True(t, Null().Equal(item.Get("absent")))
}

func TestCollectedDataIsEmpty(t *testing.T) {
	assert.True(t, CollectedData{}.IsEmpty())
	assert.True(t, CollectedData{"crm": NewDataQueue()}.IsEmpty())
	assert.True(t, CollectedData{"crm": nil}.IsEmpty())
	assert.False(t, CollectedData{"crm": NewDataQueue(ItemData{})}.IsEmpty())
}
