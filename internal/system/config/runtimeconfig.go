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

package config

import "sync"

// ExchangeRuntime holds the runtime configuration for the exchange server.
type ExchangeRuntime struct {
	ExchangeHome string `yaml:"exchange_home"`
	Config       Config `yaml:"config"`
}

var (
	runtimeConfig *ExchangeRuntime
	once          sync.Once
)

// InitializeExchangeRuntime initializes the ExchangeRuntime configuration.
func InitializeExchangeRuntime(exchangeHome string, config *Config) error {

	once.Do(func() {
		runtimeConfig = &ExchangeRuntime{
			ExchangeHome: exchangeHome,
			Config:       *config,
		}
	})

	return nil
}

// OverrideExchangeRuntime replaces the runtime configuration. Test use only.
func OverrideExchangeRuntime(conf Config) {
	runtimeConfig = &ExchangeRuntime{
		Config: conf,
	}
}

// GetExchangeRuntime returns the ExchangeRuntime configuration.
func GetExchangeRuntime() *ExchangeRuntime {

	if runtimeConfig == nil {
		panic("ExchangeRuntime is not initialized")
	}
	return runtimeConfig
}
