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
	"fmt"
	"sort"

	"github.com/exgrid/data-exchange-service/internal/exchange/model"
	"github.com/exgrid/data-exchange-service/internal/exchange/store"
	"github.com/exgrid/data-exchange-service/internal/system/log"
)

// Deliverer hands combined data back to the participants, translated into
// each participant's own field names and native item ids.
type Deliverer struct {
	procedure    *model.Procedure
	itemsMap     *store.ProcedureItemsMap
	participants map[string]model.Participant
	logger       *log.Logger
}

// NewDeliverer creates a Deliverer for one procedure.
func NewDeliverer(procedure *model.Procedure, itemsMap *store.ProcedureItemsMap,
	participants map[string]model.Participant, logger *log.Logger) *Deliverer {

	return &Deliverer{
		procedure:    procedure,
		itemsMap:     itemsMap,
		participants: participants,
		logger:       logger,
	}
}

// DeliverData builds each participant's payload from the combined data and
// calls its delivery contract. Reports per participant whether the delivery
// was accepted.
func (d *Deliverer) DeliverData(combined model.CombinedData) map[string]bool {

	delivered := make(map[string]bool, len(d.procedure.ParticipantCodes))

	commonIDs := make([]int64, 0, len(combined))
	for commonID := range combined {
		commonIDs = append(commonIDs, commonID)
	}
	sort.Slice(commonIDs, func(i, j int) bool { return commonIDs[i] < commonIDs[j] })

	for _, participantCode := range d.procedure.ParticipantCodes {
		participant, ok := d.participants[participantCode]
		if !ok {
			d.logger.Warn(fmt.Sprintf("No adapter registered for participant %s, skipping delivery", participantCode))
			continue
		}

		queue := model.NewDataQueue()
		for _, commonID := range commonIDs {
			item := d.buildParticipantItem(participantCode, commonID, combined[commonID])
			if len(item) > 0 {
				queue.Enqueue(item)
			}
		}

		accepted := participant.DeliverData(queue)
		if !accepted {
			d.logger.Warn(fmt.Sprintf("Participant %s rejected the delivered data", participantCode))
		} else {
			d.logger.Info(fmt.Sprintf("Delivered %d item(s) to participant %s", queue.Len(), participantCode))
		}
		delivered[participantCode] = accepted
	}
	return delivered
}

// buildParticipantItem translates one combined item into the participant's
// field names, including its native item id when one is bound.
func (d *Deliverer) buildParticipantItem(participantCode string, commonID int64, combinedItem model.CombinedItem) model.ItemData {

	item := make(model.ItemData)

	if idField, ok := d.procedure.IDField(participantCode); ok {
		if nativeID, bound := d.itemsMap.ItemID(participantCode, commonID); bound {
			item[idField.Name] = model.String(nativeID)
		}
	}

	for _, procedureField := range d.procedure.Fields {
		field, ok := procedureField.BindingFor(participantCode)
		if !ok {
			continue
		}
		if value, ok := combinedItem[procedureField.ID]; ok {
			item[field.Name] = value
		}
	}
	return item
}
