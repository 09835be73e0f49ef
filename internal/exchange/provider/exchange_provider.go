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

package provider

import (
	"github.com/exgrid/data-exchange-service/internal/exchange/service"
)

// ExchangeProviderInterface defines the interface for the exchange provider.
type ExchangeProviderInterface interface {
	GetExchangeService() service.ExchangeServiceInterface
}

// ExchangeProvider is the default implementation of the ExchangeProviderInterface.
type ExchangeProvider struct{}

// NewExchangeProvider creates a new instance of ExchangeProvider.
func NewExchangeProvider() ExchangeProviderInterface {

	return &ExchangeProvider{}
}

// GetExchangeService returns the exchange service instance.
func (ep *ExchangeProvider) GetExchangeService() service.ExchangeServiceInterface {

	return service.GetExchangeService()
}
