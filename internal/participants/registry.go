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

// Package participants holds the process-wide registry of participant
// adapters. Adapters for concrete external systems register themselves at
// startup; the exchange pipeline resolves them by code.
package participants

import (
	"fmt"
	"sort"
	"sync"

	"github.com/exgrid/data-exchange-service/internal/exchange/model"
)

var (
	mu       sync.RWMutex
	registry = make(map[string]model.Participant)
)

// Register adds a participant adapter under its code.
func Register(participant model.Participant) error {

	mu.Lock()
	defer mu.Unlock()

	code := participant.Code()
	if _, exists := registry[code]; exists {
		return fmt.Errorf("participant %s is already registered", code)
	}
	registry[code] = participant
	return nil
}

// Get resolves a participant adapter by code.
func Get(code string) (model.Participant, bool) {

	mu.RLock()
	defer mu.RUnlock()

	participant, ok := registry[code]
	return participant, ok
}

// Codes lists the registered participant codes, sorted.
func Codes() []string {

	mu.RLock()
	defer mu.RUnlock()

	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
