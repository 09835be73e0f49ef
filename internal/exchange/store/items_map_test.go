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

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exgrid/data-exchange-service/internal/system/database/scripts"
	errors2 "github.com/exgrid/data-exchange-service/internal/system/errors"
	"github.com/exgrid/data-exchange-service/internal/system/log"
	"github.com/exgrid/data-exchange-service/test/mocks"
)

func TestItemsMapLoad(t *testing.T) {
	fake := mocks.NewFakeDB(customerSyncProcedure())
	itemA := fake.SeedItem(map[string]string{"crm": "c1", "erp": "e1"})
	itemB := fake.SeedItem(map[string]string{"crm": "c2"})

	itemsMap := NewProcedureItemsMap(fake, "customer-sync", log.GetLogger())

	nativeID, ok := itemsMap.ItemID("crm", itemA)
	require.True(t, ok)
	assert.Equal(t, "c1", nativeID)

	commonID, ok := itemsMap.ItemCommonID("erp", "e1")
	require.True(t, ok)
	assert.Equal(t, itemA, commonID)

	_, ok = itemsMap.ItemID("erp", itemB)
	assert.False(t, ok)

	assert.Equal(t, []int64{itemA, itemB}, itemsMap.ItemIDs())
	assert.Equal(t, int64(1), itemsMap.ProcedureID())
}

func TestSetParticipantItemIsNoOpForSameBinding(t *testing.T) {
	fake := mocks.NewFakeDB(customerSyncProcedure())
	itemA := fake.SeedItem(map[string]string{"crm": "c1"})

	itemsMap := NewProcedureItemsMap(fake, "customer-sync", log.GetLogger())
	queriesBefore := len(fake.Queries)

	require.NoError(t, itemsMap.SetParticipantItem(itemA, "crm", "c1"))
	assert.Equal(t, queriesBefore, len(fake.Queries))
	assert.Equal(t, 1, fake.BindingCount())
}

func TestSetParticipantItemRebindsFromStaleItem(t *testing.T) {
	fake := mocks.NewFakeDB(customerSyncProcedure())
	itemA := fake.SeedItem(map[string]string{"crm": "c1", "erp": "e1"})
	itemB := fake.SeedItem(map[string]string{"crm": "c2"})

	itemsMap := NewProcedureItemsMap(fake, "customer-sync", log.GetLogger())
	require.NoError(t, itemsMap.SetParticipantItem(itemB, "erp", "e1"))

	commonID, ok := itemsMap.ItemCommonID("erp", "e1")
	require.True(t, ok)
	assert.Equal(t, itemB, commonID)

	// Item A keeps its CRM binding and stays alive.
	_, ok = itemsMap.ItemID("crm", itemA)
	assert.True(t, ok)
	_, ok = itemsMap.ItemID("erp", itemA)
	assert.False(t, ok)
	assert.Equal(t, 2, fake.ItemCount())
	assert.Equal(t, 3, fake.BindingCount())
}

func TestSetParticipantItemDeletesOrphanedItem(t *testing.T) {
	fake := mocks.NewFakeDB(customerSyncProcedure())
	fake.SeedItem(map[string]string{"erp": "e1"})
	itemB := fake.SeedItem(map[string]string{"crm": "c2"})

	itemsMap := NewProcedureItemsMap(fake, "customer-sync", log.GetLogger())
	require.NoError(t, itemsMap.SetParticipantItem(itemB, "erp", "e1"))

	// The first item lost its only binding and must be gone entirely.
	assert.Equal(t, 1, fake.ItemCount())
	assert.Equal(t, []int64{itemB}, itemsMap.ItemIDs())
}

func TestSetParticipantItemReplacesExistingBinding(t *testing.T) {
	fake := mocks.NewFakeDB(customerSyncProcedure())
	itemA := fake.SeedItem(map[string]string{"crm": "c1"})

	itemsMap := NewProcedureItemsMap(fake, "customer-sync", log.GetLogger())
	require.NoError(t, itemsMap.SetParticipantItem(itemA, "crm", "c9"))

	nativeID, ok := itemsMap.ItemID("crm", itemA)
	require.True(t, ok)
	assert.Equal(t, "c9", nativeID)
	assert.Equal(t, 1, fake.BindingCount())
}

func TestSetParticipantItemUnknownParticipant(t *testing.T) {
	fake := mocks.NewFakeDB(customerSyncProcedure())
	itemA := fake.SeedItem(map[string]string{"crm": "c1"})

	itemsMap := NewProcedureItemsMap(fake, "customer-sync", log.GetLogger())
	err := itemsMap.SetParticipantItem(itemA, "billing", "b1")

	var serverError *errors2.ServerError
	require.True(t, errors.As(err, &serverError))
	assert.Equal(t, errors2.UNKNOWN_PARTICIPANT.Code, serverError.Code)
}

func TestCreateNewItem(t *testing.T) {
	fake := mocks.NewFakeDB(customerSyncProcedure())
	itemsMap := NewProcedureItemsMap(fake, "customer-sync", log.GetLogger())

	commonID, err := itemsMap.CreateNewItem("crm", "c1")
	require.NoError(t, err)

	nativeID, ok := itemsMap.ItemID("crm", commonID)
	require.True(t, ok)
	assert.Equal(t, "c1", nativeID)
	assert.Equal(t, 1, fake.ItemCount())
	assert.Equal(t, 1, fake.BindingCount())
}

func TestCreateNewItemWithoutNativeID(t *testing.T) {
	fake := mocks.NewFakeDB(customerSyncProcedure())
	itemsMap := NewProcedureItemsMap(fake, "customer-sync", log.GetLogger())

	commonID, err := itemsMap.CreateNewItem("crm", "")
	require.NoError(t, err)

	_, ok := itemsMap.ItemID("crm", commonID)
	assert.False(t, ok)
	assert.Equal(t, 1, fake.ItemCount())
	assert.Equal(t, 0, fake.BindingCount())
}

func TestItemsMapLoadFailureDegradesToEmpty(t *testing.T) {
	fake := mocks.NewFakeDB(customerSyncProcedure())
	fake.SeedItem(map[string]string{"crm": "c1"})
	fake.FailOn[scripts.GetMatchedItems["postgres"]] = errors.New("connection reset")

	itemsMap := NewProcedureItemsMap(fake, "customer-sync", log.GetLogger())
	assert.Empty(t, itemsMap.ItemIDs())
}
