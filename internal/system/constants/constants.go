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

package constants

const (
	// ApiBasePath is the base path of the exchange HTTP API.
	ApiBasePath = "/exchange/v1.0"

	// DefaultRunQueueSize is the buffer size of the asynchronous run queue
	// when the deployment descriptor does not set one.
	DefaultRunQueueSize = 100

	// DefaultProcedureCacheTTLSeconds is the procedure definition cache TTL
	// when the deployment descriptor does not set one.
	DefaultProcedureCacheTTLSeconds = 300

	// DBTypePostgres and DBTypeSqlite are the supported datasource types.
	DBTypePostgres = "postgres"
	DBTypeSqlite   = "sqlite"
)
