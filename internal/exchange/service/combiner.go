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

// Combiner turns matched items into one unified record per common entity by
// applying the procedure's combining weights, and persists every winning
// value into the procedure data cache. Scoped to one procedure; not safe for
// concurrent use.
type Combiner struct {
	procedure     *model.Procedure
	procedureData *store.ProcedureData
	logger        *log.Logger
}

// NewCombiner creates a Combiner for one procedure.
func NewCombiner(procedure *model.Procedure, procedureData *store.ProcedureData, logger *log.Logger) *Combiner {

	return &Combiner{
		procedure:     procedure,
		procedureData: procedureData,
		logger:        logger,
	}
}

// CombineItems resolves, for every matched item and every procedure field,
// the winning value among the participant bindings. A binding is excluded
// when its weight is 0 and its value is empty; among the rest the highest
// weight wins, and the first binding in declared order wins ties. Persistence
// failures are logged and do not abort the run.
func (c *Combiner) CombineItems(matched model.MatchedData) model.CombinedData {

	combined := make(model.CombinedData)
	if len(matched) == 0 {
		c.logger.Info(fmt.Sprintf("No matched data for procedure %s, nothing to combine", c.procedure.Code))
		return combined
	}

	for _, commonID := range sortedCommonIDs(matched) {
		matchedItem := matched[commonID]
		combinedItem := make(model.CombinedItem, len(c.procedure.Fields))

		for _, procedureField := range c.procedure.Fields {
			winning := c.combineField(procedureField, matchedItem)
			combinedItem[procedureField.ID] = winning

			if err := c.procedureData.SetData(commonID, procedureField, winning); err != nil {
				c.logger.Warn(fmt.Sprintf("Failed to persist combined value of field %d for item %d",
					procedureField.ID, commonID), log.Error(err))
			}
		}
		combined[commonID] = combinedItem
	}

	if len(combined) == 0 {
		c.logger.Warn(fmt.Sprintf("Combining produced no items for procedure %s although items were matched",
			c.procedure.Code))
	}
	return combined
}

// combineField picks the winning value for one procedure field.
func (c *Combiner) combineField(procedureField model.ProcedureField, matchedItem model.MatchedItem) model.Value {

	winning := model.Null()
	bestWeight := 0
	found := false

	for _, binding := range procedureField.Bindings {
		value := model.Null()
		if itemData, ok := matchedItem[binding.ParticipantCode]; ok {
			value = itemData.Get(binding.Field.Name)
		}

		weight := c.procedure.CombiningWeight(binding.ParticipantCode, binding.Field.Name)
		if weight == 0 && value.IsEmpty() {
			continue
		}
		// Strictly-greater keeps the first binding in declared order as the
		// winner among equal weights.
		if !found || weight > bestWeight {
			winning = value
			bestWeight = weight
			found = true
		}
	}
	return winning
}

func sortedCommonIDs(matched model.MatchedData) []int64 {

	ids := make([]int64, 0, len(matched))
	for commonID := range matched {
		ids = append(ids, commonID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
