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

	"github.com/exgrid/data-exchange-service/internal/exchange/model"
	"github.com/exgrid/data-exchange-service/internal/system/log"
)

// Collector gathers each participant's currently provided data into one
// run-scoped snapshot.
type Collector struct {
	participants []model.Participant
	logger       *log.Logger
}

// NewCollector creates a Collector over the procedure's participant adapters.
func NewCollector(participants []model.Participant, logger *log.Logger) *Collector {

	return &Collector{
		participants: participants,
		logger:       logger,
	}
}

// CollectData asks every participant for its provided data. A failing
// participant is skipped with a warning; the snapshot then simply lacks its
// items.
func (c *Collector) CollectData() model.CollectedData {

	collected := make(model.CollectedData, len(c.participants))
	for _, participant := range c.participants {
		queue, err := participant.ProvidedData()
		if err != nil {
			c.logger.Warn(fmt.Sprintf("Participant %s failed to provide data, skipping it for this run",
				participant.Code()), log.Error(err))
			continue
		}
		if queue == nil {
			queue = model.NewDataQueue()
		}
		c.logger.Info(fmt.Sprintf("Collected %d item(s) from participant %s", queue.Len(), participant.Code()))
		collected[participant.Code()] = queue
	}
	return collected
}
