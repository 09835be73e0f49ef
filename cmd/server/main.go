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

package main

import (
	"flag"
	"fmt"
	stdlog "log"
	"net"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/exgrid/data-exchange-service/internal/system/config"
	"github.com/exgrid/data-exchange-service/internal/system/constants"
	"github.com/exgrid/data-exchange-service/internal/system/database/provider"
	"github.com/exgrid/data-exchange-service/internal/system/log"
	"github.com/exgrid/data-exchange-service/internal/system/managers"
	"github.com/exgrid/data-exchange-service/internal/system/workers"
)

const configFile = "repository/conf/deployment.yaml"

func main() {

	exchangeHome := getExchangeHome()

	envFiles, _ := filepath.Glob(filepath.Join(exchangeHome, "config", "*.env"))
	_ = godotenv.Load(envFiles...)

	exchangeConfig, err := config.LoadConfig(exchangeHome, configFile)
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	if err := config.InitializeExchangeRuntime(exchangeHome, exchangeConfig); err != nil {
		stdlog.Fatalf("Failed to initialize exchange runtime: %v", err)
	}

	if err := log.Init(exchangeConfig.Log.LogLevel); err != nil {
		stdlog.Fatalf("Failed to initialize logger: %v", err)
	}
	logger := log.GetLogger()

	verifyDatabase(logger)

	workers.StartRunWorker()

	serverAddr := fmt.Sprintf("%s:%d", exchangeConfig.Addr.Host, exchangeConfig.Addr.Port)
	mux := enableCORS(initMultiplexer(logger))

	ln, err := net.Listen("tcp", serverAddr)
	if err != nil {
		logger.Fatal("Failed to start listener", log.Error(err))
	}
	logger.Info(fmt.Sprintf("Data exchange service started on %s", serverAddr))

	server := &http.Server{Handler: mux}
	if err := server.Serve(ln); err != nil {
		logger.Fatal("Failed to serve requests", log.Error(err))
	}
}

// verifyDatabase confirms the configured datasource is reachable before the
// server starts taking traffic.
func verifyDatabase(logger *log.Logger) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		logger.Fatal("Failed to connect to the configured datasource", log.Error(err))
	}
	defer dbClient.Close()

	if _, err := dbClient.ExecuteQuery("SELECT 1"); err != nil {
		logger.Fatal("Datasource connectivity check failed", log.Error(err))
	}
	logger.Info("Datasource connectivity verified", log.String("type", dbClient.DBType()))
}

// initMultiplexer initializes the HTTP multiplexer and registers the services.
func initMultiplexer(logger *log.Logger) *http.ServeMux {

	mux := http.NewServeMux()
	serviceManager := managers.NewServiceManager(mux)

	if err := serviceManager.RegisterServices(constants.ApiBasePath); err != nil {
		logger.Fatal("Failed to register the services", log.Error(err))
	}

	return mux
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func getExchangeHome() string {

	projectHomeFlag := flag.String("exchangeHome", "", "Path to the exchange service home directory")
	flag.Parse()

	if *projectHomeFlag != "" {
		return *projectHomeFlag
	}

	dir, err := os.Getwd()
	if err != nil {
		stdlog.Fatalf("Failed to get current working directory: %v", err)
	}
	return dir
}
