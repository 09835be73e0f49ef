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

package store

import "github.com/exgrid/data-exchange-service/test/mocks"

// customerSyncProcedure is the configuration shared by the store tests: a CRM
// and an ERP trading customer records, matched on the tax number.
func customerSyncProcedure() *mocks.FakeProcedure {

	return &mocks.FakeProcedure{
		ID:     1,
		Code:   "customer-sync",
		Name:   "Customer synchronization",
		Active: true,
		Participants: []*mocks.FakeParticipant{
			{
				ID:   1,
				Code: "crm",
				Name: "CRM",
				Fields: []mocks.FakeField{
					{ID: 11, Name: "guid", Type: "item-id", Required: true},
					{ID: 12, Name: "inn", Type: "string", Required: true},
					{ID: 13, Name: "name", Type: "string"},
					{ID: 14, Name: "phones", Type: "array-of-strings"},
				},
			},
			{
				ID:   2,
				Code: "erp",
				Name: "ERP",
				Fields: []mocks.FakeField{
					{ID: 21, Name: "ref", Type: "item-id", Required: true},
					{ID: 22, Name: "taxcode", Type: "string", Required: true},
					{ID: 23, Name: "title", Type: "string"},
					{ID: 24, Name: "phone_list", Type: "array-of-strings"},
				},
			},
		},
		Fields: []mocks.FakeProcedureField{
			{ID: 101, ParticipantFieldIDs: []int64{12, 22}},
			{ID: 102, ParticipantFieldIDs: []int64{13, 23}},
			{ID: 103, ParticipantFieldIDs: []int64{14, 24}},
		},
		MatchingRules: []mocks.FakeMatchingRule{
			{ID: 201, ParticipantIDs: []int64{1, 2}, ProcedureFieldIDs: []int64{101}},
		},
		CombiningWeights: map[int64]int{
			13: 2,
			23: 1,
		},
	}
}
