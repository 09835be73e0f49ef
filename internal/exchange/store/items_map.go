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

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"

	"github.com/exgrid/data-exchange-service/internal/system/database/client"
	"github.com/exgrid/data-exchange-service/internal/system/database/scripts"
	errors2 "github.com/exgrid/data-exchange-service/internal/system/errors"
	"github.com/exgrid/data-exchange-service/internal/system/log"
)

// ProcedureItemsMap is the durable cross-reference between a procedure's
// common item ids and each participant's native item ids. The full map is
// loaded into memory at construction; every mutation writes through to the
// matched_items / matched_items_participants tables. Not safe for concurrent
// use.
type ProcedureItemsMap struct {
	dbClient      client.DBClientInterface
	logger        *log.Logger
	procedureID   int64
	procedureCode string
	// participantIDs maps participant code to its persisted id.
	participantIDs map[string]int64
	// items maps common item id to the per-participant native item ids.
	items map[int64]map[string]string
}

// NewProcedureItemsMap loads the cross-reference for one procedure. A load
// failure degrades to an empty map: matching still proceeds and treats every
// item as new.
func NewProcedureItemsMap(dbClient client.DBClientInterface, procedureCode string, logger *log.Logger) *ProcedureItemsMap {

	itemsMap := &ProcedureItemsMap{
		dbClient:       dbClient,
		logger:         logger,
		procedureCode:  procedureCode,
		participantIDs: make(map[string]int64),
		items:          make(map[int64]map[string]string),
	}

	if err := itemsMap.load(); err != nil {
		logger.Warn(fmt.Sprintf("Failed to load items map for procedure %s, starting empty", procedureCode),
			log.Error(err))
		itemsMap.participantIDs = make(map[string]int64)
		itemsMap.items = make(map[int64]map[string]string)
	}
	return itemsMap
}

// load populates the procedure id, the participant lookup and the full
// cross-reference in three queries.
func (m *ProcedureItemsMap) load() error {

	dbType := m.dbClient.DBType()

	rows, err := m.dbClient.ExecuteQuery(scripts.GetProcedureByCode[dbType], m.procedureCode)
	if err != nil {
		return errors.Wrap(err, "fetching procedure")
	}
	if len(rows) == 0 {
		return errors.Errorf("procedure %s is not configured", m.procedureCode)
	}
	m.procedureID = asInt64(rows[0]["id"])

	participantRows, err := m.dbClient.ExecuteQuery(scripts.GetProcedureParticipants[dbType], m.procedureID)
	if err != nil {
		return errors.Wrap(err, "fetching procedure participants")
	}
	for _, row := range participantRows {
		m.participantIDs[asString(row["code"])] = asInt64(row["id"])
	}

	itemRows, err := m.dbClient.ExecuteQuery(scripts.GetMatchedItems[dbType], m.procedureID)
	if err != nil {
		return errors.Wrap(err, "fetching matched items")
	}
	for _, row := range itemRows {
		commonID := asInt64(row["id"])
		if _, ok := m.items[commonID]; !ok {
			m.items[commonID] = make(map[string]string)
		}
		// Rows come from a LEFT JOIN: a common item without bindings yields
		// null participant columns.
		participantCode := asString(row["participant_code"])
		if participantCode != "" {
			m.items[commonID][participantCode] = asString(row["participant_item_id"])
		}
	}
	return nil
}

// ItemID returns the participant's native item id bound under the common id.
func (m *ProcedureItemsMap) ItemID(participantCode string, commonID int64) (string, bool) {

	bindings, ok := m.items[commonID]
	if !ok {
		return "", false
	}
	nativeID, ok := bindings[participantCode]
	return nativeID, ok
}

// ItemCommonID returns the common id a participant's native item id is bound
// to. Linear scan over the in-memory map.
func (m *ProcedureItemsMap) ItemCommonID(participantCode, nativeID string) (int64, bool) {

	for commonID, bindings := range m.items {
		if bound, ok := bindings[participantCode]; ok && bound == nativeID {
			return commonID, true
		}
	}
	return 0, false
}

// ItemIDs returns all known common item ids, ascending.
func (m *ProcedureItemsMap) ItemIDs() []int64 {

	ids := make([]int64, 0, len(m.items))
	for commonID := range m.items {
		ids = append(ids, commonID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// SetParticipantItem binds a native item id under a common id for the given
// participant. A stale binding of the same native id under a different common
// id is unbound first; when the stale common item loses its last binding it is
// deleted entirely. Binding an already matching pair is a no-op.
func (m *ProcedureItemsMap) SetParticipantItem(commonID int64, participantCode, nativeID string) error {

	participantID, ok := m.participantIDs[participantCode]
	if !ok {
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UNKNOWN_PARTICIPANT.Code,
			Message:     errors2.UNKNOWN_PARTICIPANT.Message,
			Description: fmt.Sprintf("Participant %s is not part of procedure %s", participantCode, m.procedureCode),
		}, nil)
	}

	if bound, ok := m.items[commonID][participantCode]; ok && bound == nativeID {
		return nil
	}

	if staleCommonID, ok := m.ItemCommonID(participantCode, nativeID); ok && staleCommonID != commonID {
		if err := m.unbindParticipantItem(staleCommonID, participantCode, participantID); err != nil {
			return err
		}
	}

	dbType := m.dbClient.DBType()
	if bound, ok := m.items[commonID][participantCode]; ok && bound != nativeID {
		// The common item already carries a different native id for this
		// participant; replace the row to keep the 1:1 invariant.
		_, err := m.dbClient.ExecuteQuery(scripts.DeleteMatchedItemParticipant[dbType], commonID, participantID)
		if err != nil {
			return errors2.NewServerError(errors2.ErrorMessage{
				Code:        errors2.UNBIND_PARTICIPANT_ITEM.Code,
				Message:     errors2.UNBIND_PARTICIPANT_ITEM.Message,
				Description: fmt.Sprintf("Failed to drop previous binding of common item %d for participant %s", commonID, participantCode),
			}, err)
		}
		delete(m.items[commonID], participantCode)
	}

	_, err := m.dbClient.ExecuteQuery(scripts.InsertMatchedItemParticipant[dbType], commonID, participantID, nativeID)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to bind item %s of participant %s under common item %d", nativeID, participantCode, commonID)
		m.logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.BIND_PARTICIPANT_ITEM.Code,
			Message:     errors2.BIND_PARTICIPANT_ITEM.Message,
			Description: errorMsg,
		}, err)
	}

	if _, ok := m.items[commonID]; !ok {
		m.items[commonID] = make(map[string]string)
	}
	m.items[commonID][participantCode] = nativeID
	return nil
}

// unbindParticipantItem removes a participant binding and deletes the common
// item entirely when that binding was its last one.
func (m *ProcedureItemsMap) unbindParticipantItem(commonID int64, participantCode string, participantID int64) error {

	dbType := m.dbClient.DBType()
	_, err := m.dbClient.ExecuteQuery(scripts.DeleteMatchedItemParticipant[dbType], commonID, participantID)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to unbind participant %s from common item %d", participantCode, commonID)
		m.logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UNBIND_PARTICIPANT_ITEM.Code,
			Message:     errors2.UNBIND_PARTICIPANT_ITEM.Message,
			Description: errorMsg,
		}, err)
	}
	delete(m.items[commonID], participantCode)

	if len(m.items[commonID]) == 0 {
		if _, err := m.dbClient.ExecuteQuery(scripts.DeleteMatchedItem[dbType], commonID); err != nil {
			errorMsg := fmt.Sprintf("Failed to delete orphaned common item %d", commonID)
			m.logger.Debug(errorMsg, log.Error(err))
			return errors2.NewServerError(errors2.ErrorMessage{
				Code:        errors2.UNBIND_PARTICIPANT_ITEM.Code,
				Message:     errors2.UNBIND_PARTICIPANT_ITEM.Message,
				Description: errorMsg,
			}, err)
		}
		delete(m.items, commonID)
		m.logger.Debug(fmt.Sprintf("Deleted common item %d after its last binding was removed", commonID))
	}
	return nil
}

// CreateNewItem allocates a new common item and binds the participant's
// native item id under it. An empty native id allocates the common item
// without a binding row.
func (m *ProcedureItemsMap) CreateNewItem(participantCode, nativeID string) (int64, error) {

	participantID, ok := m.participantIDs[participantCode]
	if !ok {
		return 0, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UNKNOWN_PARTICIPANT.Code,
			Message:     errors2.UNKNOWN_PARTICIPANT.Message,
			Description: fmt.Sprintf("Participant %s is not part of procedure %s", participantCode, m.procedureCode),
		}, nil)
	}

	dbType := m.dbClient.DBType()
	rows, err := m.dbClient.ExecuteQuery(scripts.InsertMatchedItem[dbType], m.procedureID)
	if err != nil || len(rows) == 0 {
		errorMsg := fmt.Sprintf("Failed to create a common item for participant %s item %s", participantCode, nativeID)
		m.logger.Debug(errorMsg, log.Error(err))
		return 0, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.CREATE_COMMON_ITEM.Code,
			Message:     errors2.CREATE_COMMON_ITEM.Message,
			Description: errorMsg,
		}, err)
	}
	commonID := asInt64(rows[0]["id"])
	m.items[commonID] = make(map[string]string)

	if nativeID == "" {
		return commonID, nil
	}

	if _, err := m.dbClient.ExecuteQuery(scripts.InsertMatchedItemParticipant[dbType], commonID, participantID, nativeID); err != nil {
		errorMsg := fmt.Sprintf("Failed to bind item %s of participant %s under new common item %d", nativeID, participantCode, commonID)
		m.logger.Debug(errorMsg, log.Error(err))
		return 0, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.CREATE_COMMON_ITEM.Code,
			Message:     errors2.CREATE_COMMON_ITEM.Message,
			Description: errorMsg,
		}, err)
	}
	m.items[commonID][participantCode] = nativeID
	return commonID, nil
}

// ProcedureID returns the persisted id of the owning procedure.
func (m *ProcedureItemsMap) ProcedureID() int64 {

	return m.procedureID
}
