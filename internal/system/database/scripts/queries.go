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

package scripts

var GetProcedures = map[string]string{
	"postgres": `SELECT id, code, name, activity FROM procedures ORDER BY id`,
	"sqlite":   `SELECT id, code, name, activity FROM procedures ORDER BY id`,
}

var GetProcedureByCode = map[string]string{
	"postgres": `SELECT id, code, name, activity FROM procedures WHERE code = $1`,
	"sqlite":   `SELECT id, code, name, activity FROM procedures WHERE code = ?`,
}

var GetProcedureParticipants = map[string]string{
	"postgres": `SELECT DISTINCT p.id, p.code, p.name FROM participants p
		JOIN procedures_participants pp ON pp.participant = p.id WHERE pp.procedure = $1 ORDER BY p.id`,
	"sqlite": `SELECT DISTINCT p.id, p.code, p.name FROM participants p
		JOIN procedures_participants pp ON pp.participant = p.id WHERE pp.procedure = ? ORDER BY p.id`,
}

var GetParticipantFields = map[string]string{
	"postgres": `SELECT pf.id, pf.name, ft.code AS field_type, pf.is_required FROM participants_fields pf
		JOIN fields_types ft ON ft.id = pf.type WHERE pf.participant = $1 ORDER BY pf.id`,
	"sqlite": `SELECT pf.id, pf.name, ft.code AS field_type, pf.is_required FROM participants_fields pf
		JOIN fields_types ft ON ft.id = pf.type WHERE pf.participant = ? ORDER BY pf.id`,
}

var GetProcedureFields = map[string]string{
	"postgres": `SELECT id FROM procedures_fields WHERE procedure = $1 ORDER BY id`,
	"sqlite":   `SELECT id FROM procedures_fields WHERE procedure = ? ORDER BY id`,
}

var GetProcedureFieldBindings = map[string]string{
	"postgres": `SELECT ppf.procedure_field, pa.code AS participant_code, pf.name AS field_name,
		ft.code AS field_type, pf.is_required
		FROM procedures_participants_fields ppf
		JOIN procedures_fields prf ON prf.id = ppf.procedure_field
		JOIN participants_fields pf ON pf.id = ppf.participant_field
		JOIN participants pa ON pa.id = pf.participant
		JOIN fields_types ft ON ft.id = pf.type
		WHERE prf.procedure = $1 ORDER BY ppf.procedure_field, ppf.participant_field`,
	"sqlite": `SELECT ppf.procedure_field, pa.code AS participant_code, pf.name AS field_name,
		ft.code AS field_type, pf.is_required
		FROM procedures_participants_fields ppf
		JOIN procedures_fields prf ON prf.id = ppf.procedure_field
		JOIN participants_fields pf ON pf.id = ppf.participant_field
		JOIN participants pa ON pa.id = pf.participant
		JOIN fields_types ft ON ft.id = pf.type
		WHERE prf.procedure = ? ORDER BY ppf.procedure_field, ppf.participant_field`,
}

var GetMatchingRules = map[string]string{
	"postgres": `SELECT id FROM procedures_data_matching_rules WHERE procedure = $1 ORDER BY id`,
	"sqlite":   `SELECT id FROM procedures_data_matching_rules WHERE procedure = ? ORDER BY id`,
}

var GetMatchingRuleParticipants = map[string]string{
	"postgres": `SELECT rp.rule, pa.code AS participant_code
		FROM procedures_data_matching_rules_participants rp
		JOIN procedures_data_matching_rules mr ON mr.id = rp.rule
		JOIN participants pa ON pa.id = rp.participant
		WHERE mr.procedure = $1 ORDER BY rp.rule, pa.id`,
	"sqlite": `SELECT rp.rule, pa.code AS participant_code
		FROM procedures_data_matching_rules_participants rp
		JOIN procedures_data_matching_rules mr ON mr.id = rp.rule
		JOIN participants pa ON pa.id = rp.participant
		WHERE mr.procedure = ? ORDER BY rp.rule, pa.id`,
}

var GetMatchingRuleFields = map[string]string{
	"postgres": `SELECT rf.rule, rf.procedure_field
		FROM procedures_data_matching_rules_fields rf
		JOIN procedures_data_matching_rules mr ON mr.id = rf.rule
		WHERE mr.procedure = $1 ORDER BY rf.rule, rf.procedure_field`,
	"sqlite": `SELECT rf.rule, rf.procedure_field
		FROM procedures_data_matching_rules_fields rf
		JOIN procedures_data_matching_rules mr ON mr.id = rf.rule
		WHERE mr.procedure = ? ORDER BY rf.rule, rf.procedure_field`,
}

var GetCombiningRules = map[string]string{
	"postgres": `SELECT pa.code AS participant_code, pf.name AS field_name, cr.weight
		FROM procedures_data_combining_rules cr
		JOIN participants_fields pf ON pf.id = cr.participant_field
		JOIN participants pa ON pa.id = pf.participant
		WHERE cr.procedure = $1`,
	"sqlite": `SELECT pa.code AS participant_code, pf.name AS field_name, cr.weight
		FROM procedures_data_combining_rules cr
		JOIN participants_fields pf ON pf.id = cr.participant_field
		JOIN participants pa ON pa.id = pf.participant
		WHERE cr.procedure = ?`,
}

var GetMatchedItems = map[string]string{
	"postgres": `SELECT mi.id, pa.code AS participant_code, mip.participant_item_id
		FROM matched_items mi
		LEFT JOIN matched_items_participants mip ON mip.procedure_item = mi.id
		LEFT JOIN participants pa ON pa.id = mip.participant
		WHERE mi.procedure = $1 ORDER BY mi.id`,
	"sqlite": `SELECT mi.id, pa.code AS participant_code, mip.participant_item_id
		FROM matched_items mi
		LEFT JOIN matched_items_participants mip ON mip.procedure_item = mi.id
		LEFT JOIN participants pa ON pa.id = mip.participant
		WHERE mi.procedure = ? ORDER BY mi.id`,
}

var InsertMatchedItem = map[string]string{
	"postgres": `INSERT INTO matched_items (procedure) VALUES ($1) RETURNING id`,
	"sqlite":   `INSERT INTO matched_items (procedure) VALUES (?) RETURNING id`,
}

var InsertMatchedItemParticipant = map[string]string{
	"postgres": `INSERT INTO matched_items_participants (procedure_item, participant, participant_item_id)
		VALUES ($1, $2, $3)`,
	"sqlite": `INSERT INTO matched_items_participants (procedure_item, participant, participant_item_id)
		VALUES (?, ?, ?)`,
}

var DeleteMatchedItemParticipant = map[string]string{
	"postgres": `DELETE FROM matched_items_participants WHERE procedure_item = $1 AND participant = $2`,
	"sqlite":   `DELETE FROM matched_items_participants WHERE procedure_item = ? AND participant = ?`,
}

var DeleteMatchedItem = map[string]string{
	"postgres": `DELETE FROM matched_items WHERE id = $1`,
	"sqlite":   `DELETE FROM matched_items WHERE id = ?`,
}

var GetMatchedItemsData = map[string]string{
	"postgres": `SELECT d.procedure_item, d.procedure_field, d.data
		FROM matched_items_data d
		JOIN matched_items mi ON mi.id = d.procedure_item
		JOIN procedures p ON p.id = mi.procedure
		WHERE p.code = $1 ORDER BY d.procedure_item, d.procedure_field`,
	"sqlite": `SELECT d.procedure_item, d.procedure_field, d.data
		FROM matched_items_data d
		JOIN matched_items mi ON mi.id = d.procedure_item
		JOIN procedures p ON p.id = mi.procedure
		WHERE p.code = ? ORDER BY d.procedure_item, d.procedure_field`,
}

var InsertMatchedItemData = map[string]string{
	"postgres": `INSERT INTO matched_items_data (procedure_item, procedure_field, data) VALUES ($1, $2, $3)`,
	"sqlite":   `INSERT INTO matched_items_data (procedure_item, procedure_field, data) VALUES (?1, ?2, ?3)`,
}

var UpdateMatchedItemData = map[string]string{
	"postgres": `UPDATE matched_items_data SET data = $3 WHERE procedure_item = $1 AND procedure_field = $2`,
	"sqlite":   `UPDATE matched_items_data SET data = ?3 WHERE procedure_item = ?1 AND procedure_field = ?2`,
}

var GetFieldTypes = map[string]string{
	"postgres": `SELECT id, code FROM fields_types ORDER BY id`,
	"sqlite":   `SELECT id, code FROM fields_types ORDER BY id`,
}
