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

package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exgrid/data-exchange-service/internal/exchange/model"
	"github.com/exgrid/data-exchange-service/internal/exchange/service"
	"github.com/exgrid/data-exchange-service/internal/system/constants"
	"github.com/exgrid/data-exchange-service/internal/system/managers"
	"github.com/exgrid/data-exchange-service/internal/system/workers"
)

var seedOnce sync.Once

func seedCustomerSyncProcedure(t *testing.T) {
	t.Helper()

	seedOnce.Do(func() {
		typeID := func(code string) int64 {
			var id int64
			err := testDB.QueryRow(`SELECT id FROM fields_types WHERE code = $1`, code).Scan(&id)
			require.NoError(t, err)
			return id
		}
		itemIDType := typeID("item-id")
		stringType := typeID("string")

		insertReturningID := func(query string, args ...interface{}) int64 {
			var id int64
			err := testDB.QueryRow(query, args...).Scan(&id)
			require.NoError(t, err)
			return id
		}
		exec := func(query string, args ...interface{}) {
			_, err := testDB.Exec(query, args...)
			require.NoError(t, err)
		}

		crmID := insertReturningID(
			`INSERT INTO participants (code, name) VALUES ('crm', 'CRM') RETURNING id`)
		erpID := insertReturningID(
			`INSERT INTO participants (code, name) VALUES ('erp', 'ERP') RETURNING id`)

		fieldQuery := `INSERT INTO participants_fields (participant, name, type, is_required)
			VALUES ($1, $2, $3, $4) RETURNING id`
		insertReturningID(fieldQuery, crmID, "guid", itemIDType, true)
		crmInn := insertReturningID(fieldQuery, crmID, "inn", stringType, true)
		crmName := insertReturningID(fieldQuery, crmID, "name", stringType, false)
		insertReturningID(fieldQuery, erpID, "ref", itemIDType, true)
		erpTaxcode := insertReturningID(fieldQuery, erpID, "taxcode", stringType, true)
		erpTitle := insertReturningID(fieldQuery, erpID, "title", stringType, false)

		procedureID := insertReturningID(
			`INSERT INTO procedures (code, name, activity) VALUES ('customer-sync', 'Customer sync', TRUE) RETURNING id`)
		exec(`INSERT INTO procedures_participants (procedure, participant) VALUES ($1, $2)`, procedureID, crmID)
		exec(`INSERT INTO procedures_participants (procedure, participant) VALUES ($1, $2)`, procedureID, erpID)

		taxField := insertReturningID(
			`INSERT INTO procedures_fields (procedure) VALUES ($1) RETURNING id`, procedureID)
		nameField := insertReturningID(
			`INSERT INTO procedures_fields (procedure) VALUES ($1) RETURNING id`, procedureID)
		bindingQuery := `INSERT INTO procedures_participants_fields (procedure_field, participant_field) VALUES ($1, $2)`
		exec(bindingQuery, taxField, crmInn)
		exec(bindingQuery, taxField, erpTaxcode)
		exec(bindingQuery, nameField, crmName)
		exec(bindingQuery, nameField, erpTitle)

		ruleID := insertReturningID(
			`INSERT INTO procedures_data_matching_rules (procedure) VALUES ($1) RETURNING id`, procedureID)
		exec(`INSERT INTO procedures_data_matching_rules_participants (rule, participant) VALUES ($1, $2)`, ruleID, crmID)
		exec(`INSERT INTO procedures_data_matching_rules_participants (rule, participant) VALUES ($1, $2)`, ruleID, erpID)
		exec(`INSERT INTO procedures_data_matching_rules_fields (rule, procedure_field) VALUES ($1, $2)`, ruleID, taxField)

		exec(`INSERT INTO procedures_data_combining_rules (procedure, participant_field, weight) VALUES ($1, $2, $3)`,
			procedureID, crmName, 2)
		exec(`INSERT INTO procedures_data_combining_rules (procedure, participant_field, weight) VALUES ($1, $2, $3)`,
			procedureID, erpTitle, 1)
	})
}

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()

	mux := http.NewServeMux()
	require.NoError(t, managers.NewServiceManager(mux).RegisterServices(constants.ApiBasePath))
	return mux
}

func countRows(t *testing.T, query string) int {
	t.Helper()

	var count int
	require.NoError(t, testDB.QueryRow(query).Scan(&count))
	return count
}

func TestHealthEndpoint(t *testing.T) {
	mux := newTestMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"UP"}`, rec.Body.String())
}

func TestListProceduresEndpoint(t *testing.T) {
	seedCustomerSyncProcedure(t)
	mux := newTestMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/exchange/v1.0/procedures", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var procedures []model.Procedure
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &procedures))
	require.Len(t, procedures, 1)
	assert.Equal(t, "customer-sync", procedures[0].Code)
	assert.True(t, procedures[0].Active)
}

func TestRunProcedureEndpoint(t *testing.T) {
	seedCustomerSyncProcedure(t)
	mux := newTestMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/exchange/v1.0/procedures/customer-sync/run", nil))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result service.RunResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "customer-sync", result.ProcedureCode)
	assert.Equal(t, 2, result.CollectedItems)
	assert.Equal(t, 1, result.MatchedItems)
	assert.Equal(t, 1, result.CombinedItems)
	assert.Equal(t, map[string]bool{"crm": true, "erp": true}, result.Delivered)

	// The CRM name outweighs the ERP title, so the ERP receives it back
	// translated to its own field name.
	require.NotEmpty(t, erpAdapter.Delivered)
	items := erpAdapter.Delivered[len(erpAdapter.Delivered)-1].Items()
	require.Len(t, items, 1)
	assert.True(t, model.String("Acme LLC").Equal(items[0].Get("title")))

	assert.Equal(t, 1, countRows(t, `SELECT COUNT(*) FROM matched_items`))
	assert.Equal(t, 2, countRows(t, `SELECT COUNT(*) FROM matched_items_participants`))
	assert.Equal(t, 2, countRows(t, `SELECT COUNT(*) FROM matched_items_data`))

	// A second run over the same snapshots reuses the stored bindings.
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/exchange/v1.0/procedures/customer-sync/run", nil))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 1, result.MatchedItems)
	assert.Equal(t, 1, countRows(t, `SELECT COUNT(*) FROM matched_items`))
}

func TestRunUnknownProcedureEndpoint(t *testing.T) {
	seedCustomerSyncProcedure(t)
	mux := newTestMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/exchange/v1.0/procedures/no-such-procedure/run", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunProcedureAsyncEndpoint(t *testing.T) {
	seedCustomerSyncProcedure(t)
	mux := newTestMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/exchange/v1.0/procedures/customer-sync/run?async=true", nil))

	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"status":"queued"}`, rec.Body.String())

	assert.Eventually(t, func() bool {
		return len(workers.RunQueue) == 0
	}, 10*time.Second, 50*time.Millisecond)

	assert.Eventually(t, func() bool {
		return countRows(t, `SELECT COUNT(*) FROM matched_items`) == 1
	}, 10*time.Second, 50*time.Millisecond)
}
