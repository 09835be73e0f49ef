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
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exgrid/data-exchange-service/internal/exchange/model"
	"github.com/exgrid/data-exchange-service/internal/participants/inmem"
	"github.com/exgrid/data-exchange-service/internal/system/database/lock"
	errors2 "github.com/exgrid/data-exchange-service/internal/system/errors"
	"github.com/exgrid/data-exchange-service/test/mocks"
)

func registeredAdapters(adapters map[string]model.Participant) func(string) (model.Participant, bool) {
	return func(code string) (model.Participant, bool) {
		adapter, ok := adapters[code]
		return adapter, ok
	}
}

func assertClientError(t *testing.T, err error, expectedCode string, expectedStatus int) {
	t.Helper()

	var clientError *errors2.ClientError
	require.True(t, errors.As(err, &clientError), "expected a client error, got: %v", err)
	assert.Equal(t, expectedCode, clientError.Code)
	assert.Equal(t, expectedStatus, clientError.StatusCode)
}

func TestRunProcedureNotFound(t *testing.T) {
	fake := mocks.NewFakeDB(customerSyncProcedure())
	svc := &ExchangeService{DBClient: fake}

	_, err := svc.RunProcedure("no-such-procedure")
	assertClientError(t, err, errors2.PROCEDURE_NOT_FOUND.Code, http.StatusNotFound)
}

func TestRunProcedureNotActive(t *testing.T) {
	config := customerSyncProcedure()
	config.Code = "customer-sync-disabled"
	config.Active = false
	fake := mocks.NewFakeDB(config)
	svc := &ExchangeService{DBClient: fake}

	_, err := svc.RunProcedure("customer-sync-disabled")
	assertClientError(t, err, errors2.PROCEDURE_NOT_ACTIVE.Code, http.StatusConflict)
}

func TestRunProcedureParticipantNotRegistered(t *testing.T) {
	config := customerSyncProcedure()
	config.Code = "customer-sync-unregistered"
	fake := mocks.NewFakeDB(config)
	svc := &ExchangeService{
		DBClient: fake,
		LookupParticipant: func(code string) (model.Participant, bool) {
			return nil, false
		},
	}

	_, err := svc.RunProcedure("customer-sync-unregistered")
	assertClientError(t, err, errors2.PARTICIPANT_NOT_REGISTERED.Code, http.StatusConflict)
}

func TestRunProcedureLockContention(t *testing.T) {
	config := customerSyncProcedure()
	config.Code = "customer-sync-locked"
	fake := mocks.NewFakeDB(config)

	held := lock.NewAdvisoryLock(fake)
	acquired, err := held.Acquire("exchange:procedure:customer-sync-locked")
	require.NoError(t, err)
	require.True(t, acquired)

	crm := inmem.New("crm", crmSchema(), nil)
	erp := inmem.New("erp", erpSchema(), nil)
	svc := &ExchangeService{
		DBClient:          fake,
		LookupParticipant: registeredAdapters(map[string]model.Participant{"crm": crm, "erp": erp}),
	}

	_, err = svc.RunProcedure("customer-sync-locked")
	assertClientError(t, err, errors2.RUN_IN_PROGRESS.Code, http.StatusConflict)

	require.NoError(t, held.Release("exchange:procedure:customer-sync-locked"))
}

func TestRunProcedureEndToEnd(t *testing.T) {
	fake := mocks.NewFakeDB(customerSyncProcedure())

	crm := inmem.New("crm", crmSchema(), []model.ItemData{
		crmItem("c1", "7701", "Acme LLC"),
	})
	erp := inmem.New("erp", erpSchema(), []model.ItemData{
		erpItem("e1", "7701", "Acme"),
	})
	svc := &ExchangeService{
		DBClient:          fake,
		LookupParticipant: registeredAdapters(map[string]model.Participant{"crm": crm, "erp": erp}),
	}

	result, err := svc.RunProcedure("customer-sync")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "customer-sync", result.ProcedureCode)
	assert.Equal(t, 2, result.CollectedItems)
	assert.Equal(t, 1, result.MatchedItems)
	assert.Equal(t, 1, result.CombinedItems)
	assert.Equal(t, map[string]bool{"crm": true, "erp": true}, result.Delivered)

	// The ERP receives the CRM's weighted name under its own field name.
	require.Len(t, erp.Delivered, 1)
	items := erp.Delivered[0].Items()
	require.Len(t, items, 1)
	assert.True(t, model.String("Acme LLC").Equal(items[0].Get("title")))

	// A second run over the same data matches the same single common item.
	crm2 := inmem.New("crm", crmSchema(), []model.ItemData{
		crmItem("c1", "7701", "Acme LLC"),
	})
	erp2 := inmem.New("erp", erpSchema(), []model.ItemData{
		erpItem("e1", "7701", "Acme"),
	})
	svc2 := &ExchangeService{
		DBClient:          fake,
		LookupParticipant: registeredAdapters(map[string]model.Participant{"crm": crm2, "erp": erp2}),
	}

	result2, err := svc2.RunProcedure("customer-sync")
	require.NoError(t, err)
	assert.Equal(t, 1, result2.MatchedItems)
	assert.Equal(t, 1, fake.ItemCount())
}

func TestListProcedures(t *testing.T) {
	fake := mocks.NewFakeDB(customerSyncProcedure())
	svc := &ExchangeService{DBClient: fake}

	procedures, err := svc.ListProcedures()
	require.NoError(t, err)
	require.Len(t, procedures, 1)
	assert.Equal(t, "customer-sync", procedures[0].Code)
}
