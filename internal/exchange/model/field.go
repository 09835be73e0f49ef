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

// FieldType enumerates the field type vocabulary of the fields_types table.
type FieldType string

const (
	FieldTypeItemID          FieldType = "item-id"
	FieldTypeString          FieldType = "string"
	FieldTypeNumber          FieldType = "number"
	FieldTypeBoolean         FieldType = "boolean"
	FieldTypeArrayOfStrings  FieldType = "array-of-strings"
	FieldTypeArrayOfNumbers  FieldType = "array-of-numbers"
	FieldTypeArrayOfBooleans FieldType = "array-of-booleans"
)

// Field is one field of a participant's schema. A participant has at most one
// field of type item-id; it carries the participant's native identifier.
type Field struct {
	ID       int64
	Name     string
	Type     FieldType
	Required bool
}

// IsItemID reports whether the field holds the participant's native item id.
func (f Field) IsItemID() bool {

	return f.Type == FieldTypeItemID
}
