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

package store

import "strconv"

// Row values arrive as driver-dependent dynamic types: lib/pq scans integers
// as int64 and text as string or []byte, go-sqlite3 additionally reports
// booleans as integers. These helpers normalize both dialects.

func asInt64(raw interface{}) int64 {
	switch typed := raw.(type) {
	case int64:
		return typed
	case int:
		return int64(typed)
	case float64:
		return int64(typed)
	case []byte:
		parsed, _ := strconv.ParseInt(string(typed), 10, 64)
		return parsed
	case string:
		parsed, _ := strconv.ParseInt(typed, 10, 64)
		return parsed
	default:
		return 0
	}
}

func asString(raw interface{}) string {
	switch typed := raw.(type) {
	case string:
		return typed
	case []byte:
		return string(typed)
	case nil:
		return ""
	default:
		return ""
	}
}

func asBool(raw interface{}) bool {
	switch typed := raw.(type) {
	case bool:
		return typed
	case int64:
		return typed != 0
	case []byte:
		return string(typed) == "1" || string(typed) == "true" || string(typed) == "t"
	case string:
		return typed == "1" || typed == "true" || typed == "t"
	default:
		return false
	}
}
