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

package services

import (
	"fmt"
	"net/http"

	"github.com/exgrid/data-exchange-service/internal/exchange/handler"
)

type ExchangeService struct {
	exchangeHandler *handler.ExchangeHandler
}

func NewExchangeService(mux *http.ServeMux, apiBasePath string) *ExchangeService {

	instance := &ExchangeService{
		exchangeHandler: handler.NewExchangeHandler(),
	}
	instance.RegisterRoutes(mux, apiBasePath)

	return instance
}

func (s *ExchangeService) RegisterRoutes(mux *http.ServeMux, apiBasePath string) {

	mux.HandleFunc(fmt.Sprintf("GET %s/procedures", apiBasePath), s.exchangeHandler.GetProcedures)
	mux.HandleFunc(fmt.Sprintf("POST %s/procedures/{procedureCode}/run", apiBasePath), s.exchangeHandler.RunProcedure)
}
