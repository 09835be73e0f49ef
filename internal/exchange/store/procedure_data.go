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
	"encoding/json"
	"fmt"
	"sort"

	"github.com/pkg/errors"

	"github.com/exgrid/data-exchange-service/internal/exchange/model"
	"github.com/exgrid/data-exchange-service/internal/system/database/client"
	"github.com/exgrid/data-exchange-service/internal/system/database/scripts"
	errors2 "github.com/exgrid/data-exchange-service/internal/system/errors"
	"github.com/exgrid/data-exchange-service/internal/system/log"
)

// ProcedureData is the durable per-(common item, procedure field) last-value
// cache. The Combiner writes every winning value through it; the Matcher reads
// it back at construction to compare new items against historical combined
// values. Values are opaque JSON blobs. Not safe for concurrent use.
type ProcedureData struct {
	dbClient      client.DBClientInterface
	logger        *log.Logger
	procedureID   int64
	procedureCode string
	// fieldIDs holds the procedure's own field ids, for ownership checks.
	fieldIDs map[int64]bool
	// values maps common item id to the cached value per procedure field id.
	values map[int64]map[int64]model.Value
}

// NewProcedureData loads the value cache for one procedure. A load failure
// degrades to an empty cache.
func NewProcedureData(dbClient client.DBClientInterface, procedureCode string, logger *log.Logger) *ProcedureData {

	data := &ProcedureData{
		dbClient:      dbClient,
		logger:        logger,
		procedureCode: procedureCode,
		fieldIDs:      make(map[int64]bool),
		values:        make(map[int64]map[int64]model.Value),
	}

	if err := data.load(); err != nil {
		logger.Warn(fmt.Sprintf("Failed to load data cache for procedure %s, starting empty", procedureCode),
			log.Error(err))
		data.values = make(map[int64]map[int64]model.Value)
	}
	return data
}

func (d *ProcedureData) load() error {

	dbType := d.dbClient.DBType()

	rows, err := d.dbClient.ExecuteQuery(scripts.GetProcedureByCode[dbType], d.procedureCode)
	if err != nil {
		return errors.Wrap(err, "fetching procedure")
	}
	if len(rows) == 0 {
		return errors.Errorf("procedure %s is not configured", d.procedureCode)
	}
	d.procedureID = asInt64(rows[0]["id"])

	fieldRows, err := d.dbClient.ExecuteQuery(scripts.GetProcedureFields[dbType], d.procedureID)
	if err != nil {
		return errors.Wrap(err, "fetching procedure fields")
	}
	for _, row := range fieldRows {
		d.fieldIDs[asInt64(row["id"])] = true
	}

	dataRows, err := d.dbClient.ExecuteQuery(scripts.GetMatchedItemsData[dbType], d.procedureCode)
	if err != nil {
		return errors.Wrap(err, "fetching cached values")
	}
	for _, row := range dataRows {
		commonID := asInt64(row["procedure_item"])
		fieldID := asInt64(row["procedure_field"])

		var value model.Value
		if err := json.Unmarshal([]byte(asString(row["data"])), &value); err != nil {
			// A single corrupt blob must not discard the rest of the cache.
			d.logger.Debug(fmt.Sprintf("Skipping undecodable cached value for item %d field %d", commonID, fieldID),
				log.Error(err))
			continue
		}
		if _, ok := d.values[commonID]; !ok {
			d.values[commonID] = make(map[int64]model.Value)
		}
		d.values[commonID][fieldID] = value
	}
	return nil
}

// ownershipError reports a procedure field that belongs to another procedure.
func (d *ProcedureData) ownershipError(field model.ProcedureField) error {

	return errors2.NewServerError(errors2.ErrorMessage{
		Code:        errors2.FIELD_OWNERSHIP.Code,
		Message:     errors2.FIELD_OWNERSHIP.Message,
		Description: fmt.Sprintf("Procedure field %d does not belong to procedure %s", field.ID, d.procedureCode),
	}, nil)
}

// Data returns the cached value for the common item and procedure field. The
// second result is false when no value is cached. Fields of other procedures
// produce an ownership error.
func (d *ProcedureData) Data(commonID int64, field model.ProcedureField) (model.Value, bool, error) {

	if !d.fieldIDs[field.ID] {
		return model.Null(), false, d.ownershipError(field)
	}
	value, ok := d.values[commonID][field.ID]
	if !ok {
		return model.Null(), false, nil
	}
	return value, true, nil
}

// SetData caches a combined value, updating the existing row when one exists
// and inserting otherwise. Ownership is checked before any write.
func (d *ProcedureData) SetData(commonID int64, field model.ProcedureField, value model.Value) error {

	if !d.fieldIDs[field.ID] {
		return d.ownershipError(field)
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.MARSHAL_JSON.Code,
			Message:     errors2.MARSHAL_JSON.Message,
			Description: fmt.Sprintf("Failed to serialize value for item %d field %d", commonID, field.ID),
		}, err)
	}

	dbType := d.dbClient.DBType()
	query := scripts.InsertMatchedItemData[dbType]
	if _, exists := d.values[commonID][field.ID]; exists {
		query = scripts.UpdateMatchedItemData[dbType]
	}

	if _, err := d.dbClient.ExecuteQuery(query, commonID, field.ID, string(payload)); err != nil {
		errorMsg := fmt.Sprintf("Failed to persist combined value for item %d field %d", commonID, field.ID)
		d.logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.SET_PROCEDURE_DATA.Code,
			Message:     errors2.SET_PROCEDURE_DATA.Message,
			Description: errorMsg,
		}, err)
	}

	if _, ok := d.values[commonID]; !ok {
		d.values[commonID] = make(map[int64]model.Value)
	}
	d.values[commonID][field.ID] = value
	return nil
}

// ItemIDs returns the common item ids present in the cache, ascending.
func (d *ProcedureData) ItemIDs() []int64 {

	ids := make([]int64, 0, len(d.values))
	for commonID := range d.values {
		ids = append(ids, commonID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
