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

// Participant is the contract of an external data source/sink adapter. The
// concrete adapters (1C exports, CRM connectors, directory services) live
// outside this service; the pipeline only consumes this interface.
type Participant interface {
	// Code returns the participant's unique code.
	Code() string
	// Fields returns the participant's fixed, ordered field schema.
	Fields() []Field
	// ProvidedData returns the participant's currently provided items.
	ProvidedData() (*DataQueue, error)
	// DeliverData hands combined items back to the participant and reports
	// whether the delivery was accepted.
	DeliverData(data *DataQueue) bool
}
