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

package workers

import (
	"fmt"

	"github.com/exgrid/data-exchange-service/internal/exchange/provider"
	"github.com/exgrid/data-exchange-service/internal/system/config"
	"github.com/exgrid/data-exchange-service/internal/system/constants"
	"github.com/exgrid/data-exchange-service/internal/system/log"
)

var RunQueue chan string

// StartRunWorker starts the background worker that executes queued
// procedure runs one at a time.
func StartRunWorker() {

	queueSize := config.GetExchangeRuntime().Config.Exchange.RunQueueSize
	if queueSize <= 0 {
		queueSize = constants.DefaultRunQueueSize
	}
	RunQueue = make(chan string, queueSize)

	go func() {
		for procedureCode := range RunQueue {
			runProcedure(procedureCode)
		}
	}()
}

// EnqueueProcedureRun queues a procedure run without blocking. It reports
// false when the queue is full or the worker has not been started.
func EnqueueProcedureRun(procedureCode string) bool {

	if RunQueue == nil {
		return false
	}
	select {
	case RunQueue <- procedureCode:
		return true
	default:
		return false
	}
}

func runProcedure(procedureCode string) {

	logger := log.GetLogger()
	exchangeService := provider.NewExchangeProvider().GetExchangeService()
	result, err := exchangeService.RunProcedure(procedureCode)
	if err != nil {
		logger.Error(fmt.Sprintf("Queued run of procedure %s failed", procedureCode), log.Error(err))
		return
	}
	logger.Info(fmt.Sprintf("Queued run of procedure %s finished", procedureCode),
		log.String("run_id", result.RunID))
}
