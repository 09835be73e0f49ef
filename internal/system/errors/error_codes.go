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

package errors

const errorPrefix = "DES-"

var (
	// Server error codes

	DB_CLIENT_INIT = ErrorMessage{
		Code:    errorPrefix + "15001",
		Message: "Unable to initialize database client.",
	}

	EXECUTE_QUERY = ErrorMessage{
		Code:    errorPrefix + "15002",
		Message: "Error while executing database query.",
	}

	LOAD_PROCEDURE = ErrorMessage{
		Code:    errorPrefix + "15003",
		Message: "Error while loading procedure definition.",
	}

	CREATE_COMMON_ITEM = ErrorMessage{
		Code:    errorPrefix + "15004",
		Message: "Error while creating a new common item.",
	}

	BIND_PARTICIPANT_ITEM = ErrorMessage{
		Code:    errorPrefix + "15005",
		Message: "Error while binding a participant item.",
	}

	UNBIND_PARTICIPANT_ITEM = ErrorMessage{
		Code:    errorPrefix + "15006",
		Message: "Error while unbinding a participant item.",
	}

	SET_PROCEDURE_DATA = ErrorMessage{
		Code:    errorPrefix + "15007",
		Message: "Error while persisting a combined value.",
	}

	FIELD_OWNERSHIP = ErrorMessage{
		Code:    errorPrefix + "15008",
		Message: "Procedure field belongs to a different procedure.",
	}

	UNKNOWN_PARTICIPANT = ErrorMessage{
		Code:    errorPrefix + "15009",
		Message: "Participant is not part of the procedure.",
	}

	MARSHAL_JSON = ErrorMessage{
		Code:    errorPrefix + "15010",
		Message: "Error while marshalling JSON.",
	}

	UNMARSHAL_JSON = ErrorMessage{
		Code:    errorPrefix + "15011",
		Message: "Error while un-marshalling JSON.",
	}

	LOCK_ACQUIRE = ErrorMessage{
		Code:    errorPrefix + "15012",
		Message: "Advisory lock acquisition failed.",
	}

	LOCK_RELEASE = ErrorMessage{
		Code:    errorPrefix + "15013",
		Message: "Error while releasing the lock.",
	}

	LOCK_KEY_GEN = ErrorMessage{
		Code:    errorPrefix + "15014",
		Message: "Error generating advisory lock key.",
	}

	LOCK_RESULT_INVALID = ErrorMessage{
		Code:    errorPrefix + "15015",
		Message: "Invalid response from advisory lock query.",
	}

	PARSING_ERROR = ErrorMessage{
		Code:    errorPrefix + "15016",
		Message: "Parsing token failed.",
	}

	// Client error codes

	BAD_REQUEST = ErrorMessage{
		Code:    errorPrefix + "11001",
		Message: "Invalid request.",
	}

	UN_AUTHORIZED = ErrorMessage{
		Code:        errorPrefix + "11002",
		Message:     "Unauthorized",
		Description: "Authorization failure. Authorization information was invalid or missing from your request.",
	}

	PROCEDURE_NOT_FOUND = ErrorMessage{
		Code:        errorPrefix + "11003",
		Message:     "Procedure not found.",
		Description: "No procedure is configured for the given procedure code.",
	}

	PROCEDURE_NOT_ACTIVE = ErrorMessage{
		Code:        errorPrefix + "11004",
		Message:     "Procedure is not active.",
		Description: "The procedure exists but is disabled in the configuration.",
	}

	PARTICIPANT_NOT_REGISTERED = ErrorMessage{
		Code:        errorPrefix + "11005",
		Message:     "Participant adapter not registered.",
		Description: "A participant configured for the procedure has no registered adapter.",
	}

	RUN_IN_PROGRESS = ErrorMessage{
		Code:        errorPrefix + "11006",
		Message:     "Procedure run already in progress.",
		Description: "Another run holds the advisory lock for this procedure.",
	}
)
