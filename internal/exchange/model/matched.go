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

// MatchedItem groups one common entity's raw item data by participant code.
// Run-scoped; never persisted.
type MatchedItem map[string]ItemData

// MatchedData is the Matcher's output: matched items keyed by common item id.
type MatchedData map[int64]MatchedItem

// CombinedItem is one unified record: the winning value per procedure field
// id.
type CombinedItem map[int64]Value

// CombinedData is the Combiner's output keyed by common item id.
type CombinedData map[int64]CombinedItem
