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

package service

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/exgrid/data-exchange-service/internal/exchange/model"
	"github.com/exgrid/data-exchange-service/internal/exchange/store"
	"github.com/exgrid/data-exchange-service/internal/system/log"
)

// participantInfo caches one participant's schema lookups for matching.
type participantInfo struct {
	fields  map[string]model.Field
	idField *model.Field
}

// matchedItemRef identifies one item inside a rule bucket.
type matchedItemRef struct {
	participantCode string
	nativeID        string
}

// Matcher assigns every collected item a common item id: reusing the id a
// known native item is already bound to, joining the item to an existing
// common item when a matching rule proves equality, or allocating a new one.
// A Matcher instance is scoped to one procedure and one run; it is not safe
// for concurrent use.
type Matcher struct {
	procedure     *model.Procedure
	itemsMap      *store.ProcedureItemsMap
	procedureData *store.ProcedureData
	logger        *log.Logger

	participants map[string]participantInfo
	rules        []model.MatchingRule

	// itemsData indexes every known value as
	// [participantCode][fieldName][nativeItemID] = value. Seeded from the
	// persisted value cache, extended with the current run's collected items
	// so in-run items can match each other as well as history.
	itemsData map[string]map[string]map[string]model.Value

	// ruleBuckets memoizes rule evaluation for the Matcher's lifetime:
	// per rule, items grouped by the JSON-joined values of the rule's fields.
	ruleBuckets  []map[string][]matchedItemRef
	bucketsBuilt bool
}

// NewMatcher builds the run-independent matching state: participant info
// collections, normalized matching rules and the historical items-data
// collection reconstructed from the persisted caches.
func NewMatcher(procedure *model.Procedure, itemsMap *store.ProcedureItemsMap,
	procedureData *store.ProcedureData, logger *log.Logger) *Matcher {

	matcher := &Matcher{
		procedure:     procedure,
		itemsMap:      itemsMap,
		procedureData: procedureData,
		logger:        logger,
		participants:  make(map[string]participantInfo),
		itemsData:     make(map[string]map[string]map[string]model.Value),
	}

	matcher.buildParticipantInfo()
	matcher.normalizeRules()
	matcher.loadHistoricalItemsData()
	return matcher
}

// buildParticipantInfo indexes each participant's fields by name and finds
// its id-field. Participants without fields or without an id-field stay
// usable; they just cannot match by native id.
func (m *Matcher) buildParticipantInfo() {

	for _, participantCode := range m.procedure.ParticipantCodes {
		fields := m.procedure.ParticipantFields[participantCode]
		if len(fields) == 0 {
			m.logger.Warn(fmt.Sprintf("Participant %s of procedure %s has no fields configured",
				participantCode, m.procedure.Code))
		}

		info := participantInfo{fields: make(map[string]model.Field, len(fields))}
		for _, field := range fields {
			info.fields[field.Name] = field
			if field.IsItemID() {
				idField := field
				info.idField = &idField
			}
		}
		if info.idField == nil {
			m.logger.Warn(fmt.Sprintf("Participant %s of procedure %s has no id-field; items can only match by rules",
				participantCode, m.procedure.Code))
		}
		m.participants[participantCode] = info
	}
}

// normalizeRules filters each configured matching rule down to the
// participants and fields known to this procedure. A participant stays in a
// rule only if it binds every rule field; rules collapsing below two
// qualifying participants are discarded.
func (m *Matcher) normalizeRules() {

	for _, rule := range m.procedure.MatchingRules {
		var fieldIDs []int64
		for _, fieldID := range rule.FieldIDs {
			if _, ok := m.procedure.FieldByID(fieldID); ok {
				fieldIDs = append(fieldIDs, fieldID)
			} else {
				m.logger.Warn(fmt.Sprintf("Matching rule %d of procedure %s references unknown procedure field %d",
					rule.ID, m.procedure.Code, fieldID))
			}
		}
		if len(fieldIDs) == 0 {
			m.logger.Warn(fmt.Sprintf("Discarding matching rule %d of procedure %s: no usable fields",
				rule.ID, m.procedure.Code))
			continue
		}

		ruleParticipants := make(map[string]bool, len(rule.ParticipantCodes))
		for _, participantCode := range rule.ParticipantCodes {
			ruleParticipants[participantCode] = true
		}

		// Keep participants in procedure order for deterministic bucket
		// traversal; a participant qualifies only with full field coverage.
		var participantCodes []string
		for _, participantCode := range m.procedure.ParticipantCodes {
			if !ruleParticipants[participantCode] {
				continue
			}
			if m.participantCoversFields(participantCode, fieldIDs) {
				participantCodes = append(participantCodes, participantCode)
			} else {
				m.logger.Warn(fmt.Sprintf("Participant %s does not bind all fields of matching rule %d, dropping it from the rule",
					participantCode, rule.ID))
			}
		}

		if len(participantCodes) < 2 {
			m.logger.Warn(fmt.Sprintf("Discarding matching rule %d of procedure %s: %d qualifying participant(s)",
				rule.ID, m.procedure.Code, len(participantCodes)))
			continue
		}

		m.rules = append(m.rules, model.MatchingRule{
			ID:               rule.ID,
			ParticipantCodes: participantCodes,
			FieldIDs:         fieldIDs,
		})
	}
}

func (m *Matcher) participantCoversFields(participantCode string, fieldIDs []int64) bool {

	for _, fieldID := range fieldIDs {
		procedureField, ok := m.procedure.FieldByID(fieldID)
		if !ok {
			return false
		}
		if _, ok := procedureField.BindingFor(participantCode); !ok {
			return false
		}
	}
	return true
}

// loadHistoricalItemsData fans the persisted combined values back out to each
// bound (participant, native item id) pair, so matching rules can compare a
// brand-new item against the last known combined value of historical items.
func (m *Matcher) loadHistoricalItemsData() {

	for _, procedureField := range m.procedure.Fields {
		for _, commonID := range m.procedureData.ItemIDs() {
			value, ok, err := m.procedureData.Data(commonID, procedureField)
			if err != nil || !ok {
				continue
			}
			for _, binding := range procedureField.Bindings {
				nativeID, ok := m.itemsMap.ItemID(binding.ParticipantCode, commonID)
				if !ok {
					continue
				}
				m.recordItemValue(binding.ParticipantCode, binding.Field.Name, nativeID, value)
			}
		}
	}
}

func (m *Matcher) recordItemValue(participantCode, fieldName, nativeID string, value model.Value) {

	if _, ok := m.itemsData[participantCode]; !ok {
		m.itemsData[participantCode] = make(map[string]map[string]model.Value)
	}
	if _, ok := m.itemsData[participantCode][fieldName]; !ok {
		m.itemsData[participantCode][fieldName] = make(map[string]model.Value)
	}
	m.itemsData[participantCode][fieldName][nativeID] = value
}

// MatchItems runs one pass over the collected data and groups every item
// under its common item id. Items that fail with a storage error are skipped
// with a warning; the run itself never fails.
func (m *Matcher) MatchItems(collected model.CollectedData) model.MatchedData {

	matched := make(model.MatchedData)
	if collected.IsEmpty() {
		m.logger.Info(fmt.Sprintf("No collected data for procedure %s, nothing to match", m.procedure.Code))
		return matched
	}

	for participantCode := range collected {
		if _, ok := m.participants[participantCode]; !ok {
			m.logger.Warn(fmt.Sprintf("Skipping collected data of participant %s: not part of procedure %s",
				participantCode, m.procedure.Code))
		}
	}

	m.absorbCollectedData(collected)

	for _, participantCode := range m.procedure.ParticipantCodes {
		queue := collected[participantCode]
		if queue == nil {
			continue
		}
		for {
			item, ok := queue.Dequeue()
			if !ok {
				break
			}
			commonID, err := m.findParticipantItemCommonID(participantCode, item)
			if err != nil {
				m.logger.Warn(fmt.Sprintf("Unexpected error while matching an item of participant %s, item skipped",
					participantCode), log.Error(err))
				continue
			}
			if _, ok := matched[commonID]; !ok {
				matched[commonID] = make(model.MatchedItem)
			}
			matched[commonID][participantCode] = item
		}
	}

	if len(matched) == 0 {
		m.logger.Warn(fmt.Sprintf("Matching produced no items for procedure %s although data was collected; check the matching rules",
			m.procedure.Code))
	}
	return matched
}

// absorbCollectedData indexes the current run's raw values next to the
// historical ones and invalidates the memoized rule buckets.
func (m *Matcher) absorbCollectedData(collected model.CollectedData) {

	for _, participantCode := range m.procedure.ParticipantCodes {
		queue := collected[participantCode]
		if queue == nil {
			continue
		}
		info := m.participants[participantCode]
		for _, item := range queue.Items() {
			if info.idField == nil {
				continue
			}
			nativeID := item.Get(info.idField.Name).AsString()
			if nativeID == "" {
				continue
			}
			for fieldName, value := range item {
				m.recordItemValue(participantCode, fieldName, nativeID, value)
			}
		}
	}
	m.bucketsBuilt = false
}

// findParticipantItemCommonID resolves an item's common id: by native id
// against the persisted cross-reference first, then by matching rules, and
// finally by allocating a new common item.
func (m *Matcher) findParticipantItemCommonID(participantCode string, item model.ItemData) (int64, error) {

	info := m.participants[participantCode]
	nativeID := ""
	if info.idField != nil {
		nativeID = item.Get(info.idField.Name).AsString()
	}

	if nativeID != "" {
		if commonID, ok := m.itemsMap.ItemCommonID(participantCode, nativeID); ok {
			return commonID, nil
		}
	}

	if commonID, ok, err := m.matchByRules(participantCode, nativeID, item); err != nil {
		return 0, err
	} else if ok {
		return commonID, nil
	}

	return m.itemsMap.CreateNewItem(participantCode, nativeID)
}

// matchByRules looks the item up in the memoized rule buckets. The first
// other-participant item in the same bucket whose common id resolves wins;
// the new binding is registered immediately.
func (m *Matcher) matchByRules(participantCode, nativeID string, item model.ItemData) (int64, bool, error) {

	if nativeID == "" {
		return 0, false, nil
	}
	m.ensureRuleBuckets()

	for ruleIndex, rule := range m.rules {
		if !containsString(rule.ParticipantCodes, participantCode) {
			continue
		}
		key, ok := m.ruleKeyForItem(rule, participantCode, item)
		if !ok {
			// A rule is not evaluated for an item missing any rule field.
			continue
		}
		for _, ref := range m.ruleBuckets[ruleIndex][key] {
			if ref.participantCode == participantCode {
				continue
			}
			commonID, ok := m.itemsMap.ItemCommonID(ref.participantCode, ref.nativeID)
			if !ok {
				continue
			}
			if err := m.itemsMap.SetParticipantItem(commonID, participantCode, nativeID); err != nil {
				return 0, false, err
			}
			return commonID, true, nil
		}
	}
	return 0, false, nil
}

// ensureRuleBuckets lazily computes the rule buckets from the items-data
// collection. An item joins a rule bucket only when every rule field is
// non-empty for it.
func (m *Matcher) ensureRuleBuckets() {

	if m.bucketsBuilt {
		return
	}
	m.ruleBuckets = make([]map[string][]matchedItemRef, len(m.rules))

	for ruleIndex, rule := range m.rules {
		bucket := make(map[string][]matchedItemRef)
		for _, participantCode := range rule.ParticipantCodes {
			fieldNames := m.ruleFieldNames(rule, participantCode)
			if len(fieldNames) == 0 {
				continue
			}

			for _, nativeID := range m.sortedNativeIDs(participantCode, fieldNames[0]) {
				values, ok := m.ruleValues(participantCode, fieldNames, nativeID)
				if !ok {
					continue
				}
				key, err := bucketKey(values)
				if err != nil {
					continue
				}
				bucket[key] = append(bucket[key], matchedItemRef{
					participantCode: participantCode,
					nativeID:        nativeID,
				})
			}
		}
		m.ruleBuckets[ruleIndex] = bucket
	}
	m.bucketsBuilt = true
}

// ruleFieldNames resolves the rule's procedure fields to the participant's
// own field names, in rule field order.
func (m *Matcher) ruleFieldNames(rule model.MatchingRule, participantCode string) []string {

	names := make([]string, 0, len(rule.FieldIDs))
	for _, fieldID := range rule.FieldIDs {
		procedureField, ok := m.procedure.FieldByID(fieldID)
		if !ok {
			return nil
		}
		field, ok := procedureField.BindingFor(participantCode)
		if !ok {
			return nil
		}
		names = append(names, field.Name)
	}
	return names
}

// ruleValues returns the item's values for all rule fields, or false when any
// value is empty.
func (m *Matcher) ruleValues(participantCode string, fieldNames []string, nativeID string) ([]model.Value, bool) {

	values := make([]model.Value, 0, len(fieldNames))
	for _, fieldName := range fieldNames {
		value, ok := m.itemsData[participantCode][fieldName][nativeID]
		if !ok || value.IsEmpty() {
			return nil, false
		}
		values = append(values, value)
	}
	return values, true
}

// ruleKeyForItem computes the item's bucket key directly from its raw data.
func (m *Matcher) ruleKeyForItem(rule model.MatchingRule, participantCode string, item model.ItemData) (string, bool) {

	fieldNames := m.ruleFieldNames(rule, participantCode)
	if len(fieldNames) == 0 {
		return "", false
	}
	values := make([]model.Value, 0, len(fieldNames))
	for _, fieldName := range fieldNames {
		value := item.Get(fieldName)
		if value.IsEmpty() {
			return "", false
		}
		values = append(values, value)
	}
	key, err := bucketKey(values)
	if err != nil {
		return "", false
	}
	return key, true
}

func (m *Matcher) sortedNativeIDs(participantCode, fieldName string) []string {

	byNativeID := m.itemsData[participantCode][fieldName]
	ids := make([]string, 0, len(byNativeID))
	for nativeID := range byNativeID {
		ids = append(ids, nativeID)
	}
	sort.Strings(ids)
	return ids
}

// bucketKey joins the rule field values into a stable key.
func bucketKey(values []model.Value) (string, error) {

	encoded, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func containsString(haystack []string, needle string) bool {

	for _, candidate := range haystack {
		if candidate == needle {
			return true
		}
	}
	return false
}
