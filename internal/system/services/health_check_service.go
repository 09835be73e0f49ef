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
	"net/http"

	"github.com/exgrid/data-exchange-service/internal/system/database/provider"
	"github.com/exgrid/data-exchange-service/internal/system/log"
	"github.com/exgrid/data-exchange-service/internal/system/utils"
)

type HealthCheckService struct{}

func NewHealthCheckService(mux *http.ServeMux) *HealthCheckService {

	instance := &HealthCheckService{}
	instance.RegisterRoutes(mux)

	return instance
}

func (s *HealthCheckService) RegisterRoutes(mux *http.ServeMux) {

	mux.HandleFunc("GET /health", s.checkHealth)
}

// checkHealth reports liveness of the service and its database.
func (s *HealthCheckService) checkHealth(w http.ResponseWriter, r *http.Request) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		log.GetLogger().Error("Health check failed to get database client", log.Error(err))
		utils.WriteJSONResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "DOWN"})
		return
	}
	defer dbClient.Close()

	if _, err := dbClient.ExecuteQuery("SELECT 1"); err != nil {
		log.GetLogger().Error("Health check query failed", log.Error(err))
		utils.WriteJSONResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "DOWN"})
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, map[string]string{"status": "UP"})
}
