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
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/exgrid/data-exchange-service/internal/exchange/model"
	"github.com/exgrid/data-exchange-service/internal/exchange/store"
	"github.com/exgrid/data-exchange-service/internal/participants"
	"github.com/exgrid/data-exchange-service/internal/system/cache"
	"github.com/exgrid/data-exchange-service/internal/system/config"
	"github.com/exgrid/data-exchange-service/internal/system/constants"
	"github.com/exgrid/data-exchange-service/internal/system/database/client"
	"github.com/exgrid/data-exchange-service/internal/system/database/lock"
	"github.com/exgrid/data-exchange-service/internal/system/database/provider"
	errors2 "github.com/exgrid/data-exchange-service/internal/system/errors"
	"github.com/exgrid/data-exchange-service/internal/system/log"
)

// RunResult summarizes one procedure run.
type RunResult struct {
	RunID          string          `json:"run_id"`
	ProcedureCode  string          `json:"procedure_code"`
	CollectedItems int             `json:"collected_items"`
	MatchedItems   int             `json:"matched_items"`
	CombinedItems  int             `json:"combined_items"`
	Delivered      map[string]bool `json:"delivered"`
}

// ExchangeServiceInterface defines the exchange pipeline operations.
type ExchangeServiceInterface interface {
	ListProcedures() ([]model.Procedure, error)
	RunProcedure(procedureCode string) (*RunResult, error)
}

// ExchangeService is the default implementation of the
// ExchangeServiceInterface. It wires Collector, Matcher, Combiner and
// Deliverer into one synchronous, run-to-completion pass per procedure.
type ExchangeService struct {
	// DBClient overrides the provider-supplied client. Test use.
	DBClient client.DBClientInterface
	// LookupParticipant resolves participant adapters; defaults to the
	// process-wide registry.
	LookupParticipant func(code string) (model.Participant, bool)
}

// GetExchangeService creates a new instance of ExchangeService.
func GetExchangeService() ExchangeServiceInterface {

	return &ExchangeService{}
}

var (
	procedureCache     *cache.Cache
	procedureCacheOnce sync.Once
)

func procedureCacheInstance() *cache.Cache {

	procedureCacheOnce.Do(func() {
		ttlSeconds := config.GetExchangeRuntime().Config.Exchange.ProcedureCacheTTLSeconds
		if ttlSeconds <= 0 {
			ttlSeconds = constants.DefaultProcedureCacheTTLSeconds
		}
		procedureCache = cache.NewCache(time.Duration(ttlSeconds) * time.Second)
	})
	return procedureCache
}

// ListProcedures returns all configured procedures.
func (s *ExchangeService) ListProcedures() ([]model.Procedure, error) {

	dbClient, createdClient, err := s.dbClient()
	if err != nil {
		return nil, err
	}
	if createdClient {
		defer dbClient.Close()
	}

	return store.NewProcedureStore(dbClient, log.GetLogger()).GetProcedures()
}

// RunProcedure executes one full exchange pass for the procedure: collect,
// match, combine, deliver. Concurrent runs of the same procedure are fenced
// with an advisory lock.
func (s *ExchangeService) RunProcedure(procedureCode string) (*RunResult, error) {

	runID := uuid.New().String()
	logger := log.GetLogger().With(log.String("run_id", runID), log.String("procedure", procedureCode))

	dbClient, createdClient, err := s.dbClient()
	if err != nil {
		return nil, err
	}
	if createdClient {
		defer dbClient.Close()
	}

	procedure, err := s.loadProcedure(dbClient, procedureCode, logger)
	if err != nil {
		return nil, err
	}
	if procedure == nil {
		return nil, errors2.NewClientError(errors2.PROCEDURE_NOT_FOUND, http.StatusNotFound)
	}
	if !procedure.Active {
		return nil, errors2.NewClientError(errors2.PROCEDURE_NOT_ACTIVE, http.StatusConflict)
	}

	adapters, adaptersByCode, err := s.resolveParticipants(procedure)
	if err != nil {
		return nil, err
	}

	advisoryLock := lock.NewAdvisoryLock(dbClient)
	lockKey := "exchange:procedure:" + procedureCode
	acquired, err := advisoryLock.Acquire(lockKey)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, errors2.NewClientError(errors2.RUN_IN_PROGRESS, http.StatusConflict)
	}
	defer func() {
		if err := advisoryLock.Release(lockKey); err != nil {
			logger.Warn("Failed to release the procedure run lock", log.Error(err))
		}
	}()

	logger.Info(fmt.Sprintf("Starting exchange run for procedure %s", procedureCode))

	itemsMap := store.NewProcedureItemsMap(dbClient, procedureCode, logger)
	procedureData := store.NewProcedureData(dbClient, procedureCode, logger)

	collected := NewCollector(adapters, logger).CollectData()
	collectedItems := 0
	for _, queue := range collected {
		collectedItems += queue.Len()
	}

	matched := NewMatcher(procedure, itemsMap, procedureData, logger).MatchItems(collected)
	combined := NewCombiner(procedure, procedureData, logger).CombineItems(matched)
	delivered := NewDeliverer(procedure, itemsMap, adaptersByCode, logger).DeliverData(combined)

	result := &RunResult{
		RunID:          runID,
		ProcedureCode:  procedureCode,
		CollectedItems: collectedItems,
		MatchedItems:   len(matched),
		CombinedItems:  len(combined),
		Delivered:      delivered,
	}
	logger.Info(fmt.Sprintf("Exchange run finished: %d collected, %d matched, %d combined",
		result.CollectedItems, result.MatchedItems, result.CombinedItems))
	return result, nil
}

func (s *ExchangeService) dbClient() (client.DBClientInterface, bool, error) {

	if s.DBClient != nil {
		return s.DBClient, false, nil
	}

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return nil, false, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: "Failed to get database client for the exchange pipeline",
		}, err)
	}
	return dbClient, true, nil
}

func (s *ExchangeService) loadProcedure(dbClient client.DBClientInterface, procedureCode string,
	logger *log.Logger) (*model.Procedure, error) {

	cacheKey := "procedure:" + procedureCode
	if cached, ok := procedureCacheInstance().Get(cacheKey); ok {
		if procedure, ok := cached.(*model.Procedure); ok {
			logger.Debug(fmt.Sprintf("Serving procedure %s from cache", procedureCode))
			return procedure, nil
		}
	}

	procedure, err := store.NewProcedureStore(dbClient, logger).GetProcedureByCode(procedureCode)
	if err != nil {
		return nil, err
	}
	if procedure != nil {
		procedureCacheInstance().Set(cacheKey, procedure)
	}
	return procedure, nil
}

func (s *ExchangeService) resolveParticipants(procedure *model.Procedure) ([]model.Participant, map[string]model.Participant, error) {

	lookup := s.LookupParticipant
	if lookup == nil {
		lookup = participants.Get
	}

	adapters := make([]model.Participant, 0, len(procedure.ParticipantCodes))
	adaptersByCode := make(map[string]model.Participant, len(procedure.ParticipantCodes))
	for _, participantCode := range procedure.ParticipantCodes {
		adapter, ok := lookup(participantCode)
		if !ok {
			return nil, nil, errors2.NewClientError(errors2.ErrorMessage{
				Code:        errors2.PARTICIPANT_NOT_REGISTERED.Code,
				Message:     errors2.PARTICIPANT_NOT_REGISTERED.Message,
				Description: fmt.Sprintf("No adapter registered for participant %s of procedure %s", participantCode, procedure.Code),
			}, http.StatusConflict)
		}
		adapters = append(adapters, adapter)
		adaptersByCode[participantCode] = adapter
	}
	return adapters, adaptersByCode, nil
}
