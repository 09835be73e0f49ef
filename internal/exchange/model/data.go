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

// ItemData is one item's raw data keyed by participant field name.
type ItemData map[string]Value

// Get returns the value of a field; absent fields read as null.
func (d ItemData) Get(fieldName string) Value {

	if value, ok := d[fieldName]; ok {
		return value
	}
	return Null()
}

// DataQueue is the FIFO collection of items a participant provides or
// accepts. Items drain one at a time; the queue is not safe for concurrent
// use.
type DataQueue struct {
	items []ItemData
}

// NewDataQueue creates a queue pre-filled with the given items.
func NewDataQueue(items ...ItemData) *DataQueue {

	return &DataQueue{items: append([]ItemData{}, items...)}
}

// Enqueue appends an item to the queue.
func (q *DataQueue) Enqueue(item ItemData) {

	q.items = append(q.items, item)
}

// Dequeue removes and returns the oldest item. The second result is false
// when the queue is empty.
func (q *DataQueue) Dequeue() (ItemData, bool) {

	if len(q.items) == 0 {
		return nil, false
	}
	item := q.items[0]
	q.items = q.items[1:]
	return item, true
}

// Len returns the number of queued items.
func (q *DataQueue) Len() int {

	return len(q.items)
}

// Items returns the queued items without draining them.
func (q *DataQueue) Items() []ItemData {

	return q.items
}

// CollectedData is one run's snapshot of provided data keyed by participant
// code.
type CollectedData map[string]*DataQueue

// IsEmpty reports whether no participant provided any item.
func (c CollectedData) IsEmpty() bool {

	for _, queue := range c {
		if queue != nil && queue.Len() > 0 {
			return false
		}
	}
	return true
}
