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

// ParticipantFieldBinding pairs a participant with one of its fields inside a
// procedure field.
type ParticipantFieldBinding struct {
	ParticipantCode string
	Field           Field
}

// ProcedureField unifies one field from each of several participants under a
// stable persisted id. A procedure field with fewer than two bindings is
// invalid and dropped at load time.
type ProcedureField struct {
	ID       int64
	Bindings []ParticipantFieldBinding
}

// BindingFor returns the participant's bound field, if any.
func (pf ProcedureField) BindingFor(participantCode string) (Field, bool) {

	for _, binding := range pf.Bindings {
		if binding.ParticipantCode == participantCode {
			return binding.Field, true
		}
	}
	return Field{}, false
}

// MatchingRule states that items supplying equal values for all listed
// procedure fields across the listed participants denote the same entity.
type MatchingRule struct {
	ID               int64
	ParticipantCodes []string
	FieldIDs         []int64
}

// BindingKey identifies one (participant, participant field) pair in the
// combining rule set.
type BindingKey struct {
	ParticipantCode string
	FieldName       string
}

// Procedure is the static configuration of one exchange: the participating
// participants, their field schemas, the unified procedure fields and the
// matching/combining rules. Immutable once loaded.
type Procedure struct {
	ID               int64
	Code             string
	Name             string
	Active           bool
	ParticipantCodes []string
	// ParticipantFields holds each participant's schema keyed by code.
	ParticipantFields map[string][]Field
	Fields            []ProcedureField
	MatchingRules     []MatchingRule
	// CombiningWeights holds the configured weight per participant field.
	// Absent bindings weigh 0.
	CombiningWeights map[BindingKey]int
}

// FieldByID returns the procedure field with the given id.
func (p *Procedure) FieldByID(id int64) (ProcedureField, bool) {

	for _, field := range p.Fields {
		if field.ID == id {
			return field, true
		}
	}
	return ProcedureField{}, false
}

// ParticipantField returns the named field of a participant's schema.
func (p *Procedure) ParticipantField(participantCode, fieldName string) (Field, bool) {

	for _, field := range p.ParticipantFields[participantCode] {
		if field.Name == fieldName {
			return field, true
		}
	}
	return Field{}, false
}

// IDField returns the participant's native identifier field, if the schema
// declares one.
func (p *Procedure) IDField(participantCode string) (Field, bool) {

	for _, field := range p.ParticipantFields[participantCode] {
		if field.IsItemID() {
			return field, true
		}
	}
	return Field{}, false
}

// HasParticipant reports whether the participant takes part in the procedure.
func (p *Procedure) HasParticipant(participantCode string) bool {

	for _, code := range p.ParticipantCodes {
		if code == participantCode {
			return true
		}
	}
	return false
}

// CombiningWeight returns the configured weight of a participant field, or 0.
func (p *Procedure) CombiningWeight(participantCode, fieldName string) int {

	return p.CombiningWeights[BindingKey{ParticipantCode: participantCode, FieldName: fieldName}]
}
