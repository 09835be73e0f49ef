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

type AddrConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

type LogConfig struct {
	LogLevel string `yaml:"log_level"`
}

type AuthConfig struct {
	// Enabled toggles the bearer token check on the exchange API.
	Enabled bool `yaml:"enabled"`
	// JWTSecret is the HMAC secret used to verify inbound bearer tokens.
	JWTSecret string `yaml:"jwt_secret"`
	// Audience expected in inbound tokens; empty disables the audience check.
	Audience string `yaml:"audience"`
}

type DataSourceConfig struct {
	// Type selects the database dialect: "postgres" or "sqlite".
	Type     string `yaml:"type"`
	Hostname string `yaml:"hostname"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	// Path is the database file location for the sqlite type.
	Path string `yaml:"path"`
}

type ExchangeConfig struct {
	// ProcedureCacheTTLSeconds bounds how long loaded procedure definitions
	// are served from cache before a reload.
	ProcedureCacheTTLSeconds int `yaml:"procedure_cache_ttl_seconds"`
	// RunQueueSize is the buffer size of the asynchronous run queue.
	RunQueueSize int `yaml:"run_queue_size"`
}

type Config struct {
	Addr       AddrConfig       `yaml:"addr"`
	Log        LogConfig        `yaml:"log"`
	Auth       AuthConfig       `yaml:"auth"`
	DataSource DataSourceConfig `yaml:"datasource"`
	Exchange   ExchangeConfig   `yaml:"exchange"`
}
