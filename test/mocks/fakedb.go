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

// Package mocks provides an in-memory stand-in for the database client, used
// by unit tests of the stores and the exchange pipeline. It answers the exact
// queries from the scripts package against plain Go structures, so store
// semantics can be tested without a live database.
package mocks

import (
	"fmt"
	"sort"

	"github.com/exgrid/data-exchange-service/internal/system/database/scripts"
)

const dialect = "postgres"

// FakeField is one participant field row.
type FakeField struct {
	ID       int64
	Name     string
	Type     string
	Required bool
}

// FakeParticipant is one participant row with its field schema.
type FakeParticipant struct {
	ID     int64
	Code   string
	Name   string
	Fields []FakeField
}

// FakeProcedureField is one procedure field with the participant field ids
// bound to it.
type FakeProcedureField struct {
	ID                  int64
	ParticipantFieldIDs []int64
}

// FakeMatchingRule mirrors one matching rule row and its relations.
type FakeMatchingRule struct {
	ID                int64
	ParticipantIDs    []int64
	ProcedureFieldIDs []int64
}

// FakeProcedure is the full configuration of one procedure.
type FakeProcedure struct {
	ID            int64
	Code          string
	Name          string
	Active        bool
	Participants  []*FakeParticipant
	Fields        []FakeProcedureField
	MatchingRules []FakeMatchingRule
	// CombiningWeights maps participant field id to its weight.
	CombiningWeights map[int64]int
}

type itemBinding struct {
	item          int64
	participantID int64
	nativeID      string
}

type dataKey struct {
	item  int64
	field int64
}

// FakeDB implements client.DBClientInterface over in-memory state.
type FakeDB struct {
	Procedure *FakeProcedure

	// FailOn forces an error for exact query strings.
	FailOn map[string]error
	// Queries records every executed query string, in order.
	Queries []string

	nextItemID int64
	items      map[int64]bool
	bindings   []itemBinding
	data       map[dataKey]string
	locks      map[int64]bool
}

// NewFakeDB creates a fake database holding one procedure configuration.
func NewFakeDB(procedure *FakeProcedure) *FakeDB {

	return &FakeDB{
		Procedure:  procedure,
		FailOn:     make(map[string]error),
		nextItemID: 1,
		items:      make(map[int64]bool),
		data:       make(map[dataKey]string),
		locks:      make(map[int64]bool),
	}
}

func (f *FakeDB) DBType() string { return dialect }

func (f *FakeDB) Close() error { return nil }

func (f *FakeDB) InitDatabase(exchangeHome, file string) error { return nil }

// SeedItem pre-creates a common item with the given participant bindings,
// keyed by participant code.
func (f *FakeDB) SeedItem(bindings map[string]string) int64 {

	commonID := f.nextItemID
	f.nextItemID++
	f.items[commonID] = true
	for participantCode, nativeID := range bindings {
		participant := f.participantByCode(participantCode)
		if participant == nil {
			continue
		}
		f.bindings = append(f.bindings, itemBinding{item: commonID, participantID: participant.ID, nativeID: nativeID})
	}
	return commonID
}

// SeedData pre-populates a cached value blob for an item and procedure field.
func (f *FakeDB) SeedData(commonID, fieldID int64, payload string) {

	f.data[dataKey{item: commonID, field: fieldID}] = payload
}

// ItemCount returns the number of common items currently stored.
func (f *FakeDB) ItemCount() int { return len(f.items) }

// BindingCount returns the number of participant bindings currently stored.
func (f *FakeDB) BindingCount() int { return len(f.bindings) }

// StoredData returns the raw persisted blob for an item and field.
func (f *FakeDB) StoredData(commonID, fieldID int64) (string, bool) {

	payload, ok := f.data[dataKey{item: commonID, field: fieldID}]
	return payload, ok
}

func (f *FakeDB) ExecuteQuery(query string, args ...interface{}) ([]map[string]interface{}, error) {

	f.Queries = append(f.Queries, query)
	if err, ok := f.FailOn[query]; ok && err != nil {
		return nil, err
	}

	switch query {
	case "SELECT 1":
		return []map[string]interface{}{{"?column?": int64(1)}}, nil
	case "SELECT pg_try_advisory_lock($1)":
		lockID := argInt64(args[0])
		if f.locks[lockID] {
			return []map[string]interface{}{{"pg_try_advisory_lock": false}}, nil
		}
		f.locks[lockID] = true
		return []map[string]interface{}{{"pg_try_advisory_lock": true}}, nil
	case "SELECT pg_advisory_unlock($1)":
		delete(f.locks, argInt64(args[0]))
		return []map[string]interface{}{{"pg_advisory_unlock": true}}, nil

	case scripts.GetProcedures[dialect]:
		return f.procedureRows(), nil
	case scripts.GetProcedureByCode[dialect]:
		if f.Procedure != nil && argString(args[0]) == f.Procedure.Code {
			return f.procedureRows(), nil
		}
		return nil, nil
	case scripts.GetProcedureParticipants[dialect]:
		return f.participantRows(argInt64(args[0])), nil
	case scripts.GetParticipantFields[dialect]:
		return f.participantFieldRows(argInt64(args[0])), nil
	case scripts.GetProcedureFields[dialect]:
		return f.procedureFieldRows(argInt64(args[0])), nil
	case scripts.GetProcedureFieldBindings[dialect]:
		return f.procedureFieldBindingRows(argInt64(args[0])), nil
	case scripts.GetMatchingRules[dialect]:
		return f.matchingRuleRows(argInt64(args[0])), nil
	case scripts.GetMatchingRuleParticipants[dialect]:
		return f.matchingRuleParticipantRows(argInt64(args[0])), nil
	case scripts.GetMatchingRuleFields[dialect]:
		return f.matchingRuleFieldRows(argInt64(args[0])), nil
	case scripts.GetCombiningRules[dialect]:
		return f.combiningRuleRows(argInt64(args[0])), nil
	case scripts.GetFieldTypes[dialect]:
		return f.fieldTypeRows(), nil

	case scripts.GetMatchedItems[dialect]:
		return f.matchedItemRows(argInt64(args[0])), nil
	case scripts.InsertMatchedItem[dialect]:
		commonID := f.nextItemID
		f.nextItemID++
		f.items[commonID] = true
		return []map[string]interface{}{{"id": commonID}}, nil
	case scripts.InsertMatchedItemParticipant[dialect]:
		return nil, f.insertBinding(argInt64(args[0]), argInt64(args[1]), argString(args[2]))
	case scripts.DeleteMatchedItemParticipant[dialect]:
		f.deleteBinding(argInt64(args[0]), argInt64(args[1]))
		return nil, nil
	case scripts.DeleteMatchedItem[dialect]:
		f.deleteItem(argInt64(args[0]))
		return nil, nil

	case scripts.GetMatchedItemsData[dialect]:
		if f.Procedure == nil || argString(args[0]) != f.Procedure.Code {
			return nil, nil
		}
		return f.matchedItemDataRows(), nil
	case scripts.InsertMatchedItemData[dialect]:
		key := dataKey{item: argInt64(args[0]), field: argInt64(args[1])}
		if _, exists := f.data[key]; exists {
			return nil, fmt.Errorf("duplicate key value violates matched_items_data primary key")
		}
		f.data[key] = argString(args[2])
		return nil, nil
	case scripts.UpdateMatchedItemData[dialect]:
		key := dataKey{item: argInt64(args[0]), field: argInt64(args[1])}
		if _, exists := f.data[key]; exists {
			f.data[key] = argString(args[2])
		}
		return nil, nil
	}

	return nil, fmt.Errorf("unexpected query: %s", query)
}

func (f *FakeDB) procedureRows() []map[string]interface{} {

	if f.Procedure == nil {
		return nil
	}
	return []map[string]interface{}{{
		"id":       f.Procedure.ID,
		"code":     f.Procedure.Code,
		"name":     f.Procedure.Name,
		"activity": f.Procedure.Active,
	}}
}

func (f *FakeDB) participantRows(procedureID int64) []map[string]interface{} {

	if f.Procedure == nil || f.Procedure.ID != procedureID {
		return nil
	}
	var rows []map[string]interface{}
	for _, participant := range f.Procedure.Participants {
		rows = append(rows, map[string]interface{}{
			"id":   participant.ID,
			"code": participant.Code,
			"name": participant.Name,
		})
	}
	return rows
}

func (f *FakeDB) participantFieldRows(participantID int64) []map[string]interface{} {

	participant := f.participantByID(participantID)
	if participant == nil {
		return nil
	}
	var rows []map[string]interface{}
	for _, field := range participant.Fields {
		rows = append(rows, map[string]interface{}{
			"id":          field.ID,
			"name":        field.Name,
			"field_type":  field.Type,
			"is_required": field.Required,
		})
	}
	return rows
}

func (f *FakeDB) procedureFieldRows(procedureID int64) []map[string]interface{} {

	if f.Procedure == nil || f.Procedure.ID != procedureID {
		return nil
	}
	var rows []map[string]interface{}
	for _, field := range f.Procedure.Fields {
		rows = append(rows, map[string]interface{}{"id": field.ID})
	}
	return rows
}

func (f *FakeDB) procedureFieldBindingRows(procedureID int64) []map[string]interface{} {

	if f.Procedure == nil || f.Procedure.ID != procedureID {
		return nil
	}
	var rows []map[string]interface{}
	for _, procedureField := range f.Procedure.Fields {
		// Mirrors the ORDER BY over participant field ids.
		fieldIDs := append([]int64{}, procedureField.ParticipantFieldIDs...)
		sort.Slice(fieldIDs, func(i, j int) bool { return fieldIDs[i] < fieldIDs[j] })

		for _, participantFieldID := range fieldIDs {
			participant, field := f.fieldByID(participantFieldID)
			if participant == nil {
				continue
			}
			rows = append(rows, map[string]interface{}{
				"procedure_field":  procedureField.ID,
				"participant_code": participant.Code,
				"field_name":       field.Name,
				"field_type":       field.Type,
				"is_required":      field.Required,
			})
		}
	}
	return rows
}

func (f *FakeDB) matchingRuleRows(procedureID int64) []map[string]interface{} {

	if f.Procedure == nil || f.Procedure.ID != procedureID {
		return nil
	}
	var rows []map[string]interface{}
	for _, rule := range f.Procedure.MatchingRules {
		rows = append(rows, map[string]interface{}{"id": rule.ID})
	}
	return rows
}

func (f *FakeDB) matchingRuleParticipantRows(procedureID int64) []map[string]interface{} {

	if f.Procedure == nil || f.Procedure.ID != procedureID {
		return nil
	}
	var rows []map[string]interface{}
	for _, rule := range f.Procedure.MatchingRules {
		for _, participantID := range rule.ParticipantIDs {
			participant := f.participantByID(participantID)
			if participant == nil {
				continue
			}
			rows = append(rows, map[string]interface{}{
				"rule":             rule.ID,
				"participant_code": participant.Code,
			})
		}
	}
	return rows
}

func (f *FakeDB) matchingRuleFieldRows(procedureID int64) []map[string]interface{} {

	if f.Procedure == nil || f.Procedure.ID != procedureID {
		return nil
	}
	var rows []map[string]interface{}
	for _, rule := range f.Procedure.MatchingRules {
		for _, fieldID := range rule.ProcedureFieldIDs {
			rows = append(rows, map[string]interface{}{
				"rule":            rule.ID,
				"procedure_field": fieldID,
			})
		}
	}
	return rows
}

func (f *FakeDB) combiningRuleRows(procedureID int64) []map[string]interface{} {

	if f.Procedure == nil || f.Procedure.ID != procedureID {
		return nil
	}
	weightedFieldIDs := make([]int64, 0, len(f.Procedure.CombiningWeights))
	for participantFieldID := range f.Procedure.CombiningWeights {
		weightedFieldIDs = append(weightedFieldIDs, participantFieldID)
	}
	sort.Slice(weightedFieldIDs, func(i, j int) bool { return weightedFieldIDs[i] < weightedFieldIDs[j] })

	var rows []map[string]interface{}
	for _, participantFieldID := range weightedFieldIDs {
		participant, field := f.fieldByID(participantFieldID)
		if participant == nil {
			continue
		}
		rows = append(rows, map[string]interface{}{
			"participant_code": participant.Code,
			"field_name":       field.Name,
			"weight":           int64(f.Procedure.CombiningWeights[participantFieldID]),
		})
	}
	return rows
}

func (f *FakeDB) fieldTypeRows() []map[string]interface{} {

	codes := []string{"item-id", "string", "number", "boolean", "array-of-strings", "array-of-numbers", "array-of-booleans"}
	var rows []map[string]interface{}
	for i, code := range codes {
		rows = append(rows, map[string]interface{}{"id": int64(i + 1), "code": code})
	}
	return rows
}

func (f *FakeDB) matchedItemRows(procedureID int64) []map[string]interface{} {

	if f.Procedure == nil || f.Procedure.ID != procedureID {
		return nil
	}
	itemIDs := make([]int64, 0, len(f.items))
	for commonID := range f.items {
		itemIDs = append(itemIDs, commonID)
	}
	sort.Slice(itemIDs, func(i, j int) bool { return itemIDs[i] < itemIDs[j] })

	var rows []map[string]interface{}
	for _, commonID := range itemIDs {
		matched := false
		for _, binding := range f.bindings {
			if binding.item != commonID {
				continue
			}
			matched = true
			participant := f.participantByID(binding.participantID)
			code := interface{}(nil)
			if participant != nil {
				code = participant.Code
			}
			rows = append(rows, map[string]interface{}{
				"id":                  commonID,
				"participant_code":    code,
				"participant_item_id": binding.nativeID,
			})
		}
		if !matched {
			rows = append(rows, map[string]interface{}{
				"id":                  commonID,
				"participant_code":    nil,
				"participant_item_id": nil,
			})
		}
	}
	return rows
}

func (f *FakeDB) matchedItemDataRows() []map[string]interface{} {

	keys := make([]dataKey, 0, len(f.data))
	for key := range f.data {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].item != keys[j].item {
			return keys[i].item < keys[j].item
		}
		return keys[i].field < keys[j].field
	})

	var rows []map[string]interface{}
	for _, key := range keys {
		rows = append(rows, map[string]interface{}{
			"procedure_item":  key.item,
			"procedure_field": key.field,
			"data":            f.data[key],
		})
	}
	return rows
}

func (f *FakeDB) insertBinding(commonID, participantID int64, nativeID string) error {

	if !f.items[commonID] {
		return fmt.Errorf("insert violates matched_items foreign key: item %d", commonID)
	}
	for _, binding := range f.bindings {
		if binding.item == commonID && binding.participantID == participantID {
			return fmt.Errorf("duplicate key value violates matched_items_participants primary key")
		}
	}
	f.bindings = append(f.bindings, itemBinding{item: commonID, participantID: participantID, nativeID: nativeID})
	return nil
}

func (f *FakeDB) deleteBinding(commonID, participantID int64) {

	kept := f.bindings[:0]
	for _, binding := range f.bindings {
		if binding.item == commonID && binding.participantID == participantID {
			continue
		}
		kept = append(kept, binding)
	}
	f.bindings = kept
}

func (f *FakeDB) deleteItem(commonID int64) {

	delete(f.items, commonID)
	kept := f.bindings[:0]
	for _, binding := range f.bindings {
		if binding.item == commonID {
			continue
		}
		kept = append(kept, binding)
	}
	f.bindings = kept
	for key := range f.data {
		if key.item == commonID {
			delete(f.data, key)
		}
	}
}

func (f *FakeDB) participantByID(id int64) *FakeParticipant {

	if f.Procedure == nil {
		return nil
	}
	for _, participant := range f.Procedure.Participants {
		if participant.ID == id {
			return participant
		}
	}
	return nil
}

func (f *FakeDB) participantByCode(code string) *FakeParticipant {

	if f.Procedure == nil {
		return nil
	}
	for _, participant := range f.Procedure.Participants {
		if participant.Code == code {
			return participant
		}
	}
	return nil
}

func (f *FakeDB) fieldByID(participantFieldID int64) (*FakeParticipant, FakeField) {

	if f.Procedure == nil {
		return nil, FakeField{}
	}
	for _, participant := range f.Procedure.Participants {
		for _, field := range participant.Fields {
			if field.ID == participantFieldID {
				return participant, field
			}
		}
	}
	return nil, FakeField{}
}

func argInt64(raw interface{}) int64 {

	switch typed := raw.(type) {
	case int64:
		return typed
	case int:
		return int64(typed)
	default:
		return 0
	}
}

func argString(raw interface{}) string {

	if typed, ok := raw.(string); ok {
		return typed
	}
	return ""
}
