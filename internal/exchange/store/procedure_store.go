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
	"fmt"

	"github.com/exgrid/data-exchange-service/internal/exchange/model"
	"github.com/exgrid/data-exchange-service/internal/system/database/client"
	"github.com/exgrid/data-exchange-service/internal/system/database/scripts"
	errors2 "github.com/exgrid/data-exchange-service/internal/system/errors"
	"github.com/exgrid/data-exchange-service/internal/system/log"
)

// ProcedureStore loads procedure definitions from the configuration tables.
type ProcedureStore struct {
	dbClient client.DBClientInterface
	logger   *log.Logger
}

// NewProcedureStore creates a procedure store over the given database client.
func NewProcedureStore(dbClient client.DBClientInterface, logger *log.Logger) *ProcedureStore {

	return &ProcedureStore{
		dbClient: dbClient,
		logger:   logger,
	}
}

// GetProcedures lists all configured procedures without their detail
// collections.
func (s *ProcedureStore) GetProcedures() ([]model.Procedure, error) {

	rows, err := s.dbClient.ExecuteQuery(scripts.GetProcedures[s.dbClient.DBType()])
	if err != nil {
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.LOAD_PROCEDURE.Code,
			Message:     errors2.LOAD_PROCEDURE.Message,
			Description: "Failed to list configured procedures",
		}, err)
	}

	var procedures []model.Procedure
	for _, row := range rows {
		procedures = append(procedures, model.Procedure{
			ID:     asInt64(row["id"]),
			Code:   asString(row["code"]),
			Name:   asString(row["name"]),
			Active: asBool(row["activity"]),
		})
	}
	return procedures, nil
}

// GetProcedureByCode loads a full procedure definition: participants with
// their field schemas, the unified procedure fields with their bindings, and
// the matching/combining rules. Returns (nil, nil) when the procedure does
// not exist. Procedure fields with fewer than two bindings are invalid and
// dropped with a warning.
func (s *ProcedureStore) GetProcedureByCode(code string) (*model.Procedure, error) {

	dbType := s.dbClient.DBType()

	rows, err := s.dbClient.ExecuteQuery(scripts.GetProcedureByCode[dbType], code)
	if err != nil {
		return nil, s.loadError(code, "fetching the procedure row", err)
	}
	if len(rows) == 0 {
		s.logger.Debug(fmt.Sprintf("No procedure found for code: %s", code))
		return nil, nil
	}

	procedure := &model.Procedure{
		ID:                asInt64(rows[0]["id"]),
		Code:              asString(rows[0]["code"]),
		Name:              asString(rows[0]["name"]),
		Active:            asBool(rows[0]["activity"]),
		ParticipantFields: make(map[string][]model.Field),
		CombiningWeights:  make(map[model.BindingKey]int),
	}

	if err := s.loadParticipants(procedure, dbType); err != nil {
		return nil, err
	}
	if err := s.loadProcedureFields(procedure, dbType); err != nil {
		return nil, err
	}
	if err := s.loadMatchingRules(procedure, dbType); err != nil {
		return nil, err
	}
	if err := s.loadCombiningRules(procedure, dbType); err != nil {
		return nil, err
	}

	s.logger.Info(fmt.Sprintf("Loaded procedure %s: %d participants, %d fields, %d matching rules",
		procedure.Code, len(procedure.ParticipantCodes), len(procedure.Fields), len(procedure.MatchingRules)))
	return procedure, nil
}

func (s *ProcedureStore) loadParticipants(procedure *model.Procedure, dbType string) error {

	participantRows, err := s.dbClient.ExecuteQuery(scripts.GetProcedureParticipants[dbType], procedure.ID)
	if err != nil {
		return s.loadError(procedure.Code, "fetching participants", err)
	}

	for _, row := range participantRows {
		participantID := asInt64(row["id"])
		participantCode := asString(row["code"])
		procedure.ParticipantCodes = append(procedure.ParticipantCodes, participantCode)

		fieldRows, err := s.dbClient.ExecuteQuery(scripts.GetParticipantFields[dbType], participantID)
		if err != nil {
			return s.loadError(procedure.Code, fmt.Sprintf("fetching fields of participant %s", participantCode), err)
		}
		fields := make([]model.Field, 0, len(fieldRows))
		for _, fieldRow := range fieldRows {
			fields = append(fields, model.Field{
				ID:       asInt64(fieldRow["id"]),
				Name:     asString(fieldRow["name"]),
				Type:     model.FieldType(asString(fieldRow["field_type"])),
				Required: asBool(fieldRow["is_required"]),
			})
		}
		procedure.ParticipantFields[participantCode] = fields
	}
	return nil
}

func (s *ProcedureStore) loadProcedureFields(procedure *model.Procedure, dbType string) error {

	fieldRows, err := s.dbClient.ExecuteQuery(scripts.GetProcedureFields[dbType], procedure.ID)
	if err != nil {
		return s.loadError(procedure.Code, "fetching procedure fields", err)
	}
	bindingRows, err := s.dbClient.ExecuteQuery(scripts.GetProcedureFieldBindings[dbType], procedure.ID)
	if err != nil {
		return s.loadError(procedure.Code, "fetching procedure field bindings", err)
	}

	bindingsByField := make(map[int64][]model.ParticipantFieldBinding)
	for _, row := range bindingRows {
		fieldID := asInt64(row["procedure_field"])
		bindingsByField[fieldID] = append(bindingsByField[fieldID], model.ParticipantFieldBinding{
			ParticipantCode: asString(row["participant_code"]),
			Field: model.Field{
				Name:     asString(row["field_name"]),
				Type:     model.FieldType(asString(row["field_type"])),
				Required: asBool(row["is_required"]),
			},
		})
	}

	for _, row := range fieldRows {
		fieldID := asInt64(row["id"])
		bindings := bindingsByField[fieldID]
		if len(bindings) < 2 {
			s.logger.Warn(fmt.Sprintf("Dropping procedure field %d of procedure %s: %d binding(s), at least 2 required",
				fieldID, procedure.Code, len(bindings)))
			continue
		}
		procedure.Fields = append(procedure.Fields, model.ProcedureField{
			ID:       fieldID,
			Bindings: bindings,
		})
	}
	return nil
}

func (s *ProcedureStore) loadMatchingRules(procedure *model.Procedure, dbType string) error {

	ruleRows, err := s.dbClient.ExecuteQuery(scripts.GetMatchingRules[dbType], procedure.ID)
	if err != nil {
		return s.loadError(procedure.Code, "fetching matching rules", err)
	}
	ruleParticipantRows, err := s.dbClient.ExecuteQuery(scripts.GetMatchingRuleParticipants[dbType], procedure.ID)
	if err != nil {
		return s.loadError(procedure.Code, "fetching matching rule participants", err)
	}
	ruleFieldRows, err := s.dbClient.ExecuteQuery(scripts.GetMatchingRuleFields[dbType], procedure.ID)
	if err != nil {
		return s.loadError(procedure.Code, "fetching matching rule fields", err)
	}

	participantsByRule := make(map[int64][]string)
	for _, row := range ruleParticipantRows {
		ruleID := asInt64(row["rule"])
		participantsByRule[ruleID] = append(participantsByRule[ruleID], asString(row["participant_code"]))
	}
	fieldsByRule := make(map[int64][]int64)
	for _, row := range ruleFieldRows {
		ruleID := asInt64(row["rule"])
		fieldsByRule[ruleID] = append(fieldsByRule[ruleID], asInt64(row["procedure_field"]))
	}

	for _, row := range ruleRows {
		ruleID := asInt64(row["id"])
		procedure.MatchingRules = append(procedure.MatchingRules, model.MatchingRule{
			ID:               ruleID,
			ParticipantCodes: participantsByRule[ruleID],
			FieldIDs:         fieldsByRule[ruleID],
		})
	}
	return nil
}

func (s *ProcedureStore) loadCombiningRules(procedure *model.Procedure, dbType string) error {

	rows, err := s.dbClient.ExecuteQuery(scripts.GetCombiningRules[dbType], procedure.ID)
	if err != nil {
		return s.loadError(procedure.Code, "fetching combining rules", err)
	}
	for _, row := range rows {
		key := model.BindingKey{
			ParticipantCode: asString(row["participant_code"]),
			FieldName:       asString(row["field_name"]),
		}
		procedure.CombiningWeights[key] = int(asInt64(row["weight"]))
	}
	return nil
}

func (s *ProcedureStore) loadError(code, step string, err error) error {

	errorMsg := fmt.Sprintf("Failed while %s for procedure %s", step, code)
	s.logger.Debug(errorMsg, log.Error(err))
	return errors2.NewServerError(errors2.ErrorMessage{
		Code:        errors2.LOAD_PROCEDURE.Code,
		Message:     errors2.LOAD_PROCEDURE.Message,
		Description: errorMsg,
	}, err)
}
