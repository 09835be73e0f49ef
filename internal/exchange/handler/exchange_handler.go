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

package handler

import (
	"net/http"

	"github.com/exgrid/data-exchange-service/internal/exchange/provider"
	"github.com/exgrid/data-exchange-service/internal/system/authn"
	errors2 "github.com/exgrid/data-exchange-service/internal/system/errors"
	"github.com/exgrid/data-exchange-service/internal/system/utils"
	"github.com/exgrid/data-exchange-service/internal/system/workers"
)

type ExchangeHandler struct{}

func NewExchangeHandler() *ExchangeHandler {

	return &ExchangeHandler{}
}

// GetProcedures handles procedure listing requests.
func (eh *ExchangeHandler) GetProcedures(w http.ResponseWriter, r *http.Request) {

	if err := authn.ValidateRequest(r); err != nil {
		utils.HandleError(w, err)
		return
	}

	exchangeService := provider.NewExchangeProvider().GetExchangeService()
	procedures, err := exchangeService.ListProcedures()
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, procedures)
}

// RunProcedure handles procedure run requests. With async=true the run is
// queued to the run worker and the request returns immediately.
func (eh *ExchangeHandler) RunProcedure(w http.ResponseWriter, r *http.Request) {

	if err := authn.ValidateRequest(r); err != nil {
		utils.HandleError(w, err)
		return
	}

	procedureCode := r.PathValue("procedureCode")
	if procedureCode == "" {
		utils.WriteErrorResponse(w, errors2.NewClientError(errors2.BAD_REQUEST, http.StatusBadRequest))
		return
	}

	if r.URL.Query().Get("async") == "true" {
		if !workers.EnqueueProcedureRun(procedureCode) {
			utils.WriteJSONResponse(w, http.StatusServiceUnavailable, map[string]string{
				"procedure_code": procedureCode,
				"status":         "rejected",
			})
			return
		}
		utils.WriteJSONResponse(w, http.StatusAccepted, map[string]string{
			"procedure_code": procedureCode,
			"status":         "queued",
		})
		return
	}

	exchangeService := provider.NewExchangeProvider().GetExchangeService()
	result, err := exchangeService.RunProcedure(procedureCode)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, result)
}
