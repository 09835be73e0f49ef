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

// Package inmem provides a participant adapter backed by in-memory data.
// Used by tests and as a scaffold when bringing a new procedure up before
// its real adapters exist.
package inmem

import "github.com/exgrid/data-exchange-service/internal/exchange/model"

// Participant is an in-memory implementation of the participant contract.
type Participant struct {
	code     string
	fields   []model.Field
	provided []model.ItemData

	// Delivered records the payloads handed to the participant.
	Delivered []*model.DataQueue
	// RejectDeliveries makes DeliverData report failure.
	RejectDeliveries bool
}

// New creates an in-memory participant with a fixed schema and provided
// items.
func New(code string, fields []model.Field, provided []model.ItemData) *Participant {

	return &Participant{
		code:     code,
		fields:   fields,
		provided: provided,
	}
}

// Code returns the participant's unique code.
func (p *Participant) Code() string {

	return p.code
}

// Fields returns the participant's field schema.
func (p *Participant) Fields() []model.Field {

	return p.fields
}

// ProvidedData returns a fresh queue over the configured items.
func (p *Participant) ProvidedData() (*model.DataQueue, error) {

	return model.NewDataQueue(p.provided...), nil
}

// DeliverData records the delivered payload.
func (p *Participant) DeliverData(data *model.DataQueue) bool {

	p.Delivered = append(p.Delivered, data)
	return !p.RejectDeliveries
}
