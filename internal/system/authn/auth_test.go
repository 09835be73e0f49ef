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

package authn

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exgrid/data-exchange-service/internal/system/config"
)

const testSecret = "unit-test-secret"

func overrideAuthConfig(enabled bool, audience string) {
	config.OverrideExchangeRuntime(config.Config{
		Auth: config.AuthConfig{
			Enabled:   enabled,
			JWTSecret: testSecret,
			Audience:  audience,
		},
	})
}

func signedToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func requestWithToken(token string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/exchange/v1.0/procedures/customer-sync/run", nil)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

func TestValidateRequestAuthDisabled(t *testing.T) {
	overrideAuthConfig(false, "")

	assert.NoError(t, ValidateRequest(requestWithToken("")))
}

func TestValidateRequestValidToken(t *testing.T) {
	overrideAuthConfig(true, "data-exchange")

	token := signedToken(t, jwt.MapClaims{
		"aud": "data-exchange",
		"exp": time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	assert.NoError(t, ValidateRequest(requestWithToken(token)))
}

func TestValidateRequestMissingToken(t *testing.T) {
	overrideAuthConfig(true, "data-exchange")

	assert.Error(t, ValidateRequest(requestWithToken("")))
}

func TestValidateRequestWrongSecret(t *testing.T) {
	overrideAuthConfig(true, "data-exchange")

	token := signedToken(t, jwt.MapClaims{
		"aud": "data-exchange",
		"exp": time.Now().Add(time.Hour).Unix(),
	}, "some-other-secret")

	assert.Error(t, ValidateRequest(requestWithToken(token)))
}

func TestValidateRequestExpiredToken(t *testing.T) {
	overrideAuthConfig(true, "data-exchange")

	token := signedToken(t, jwt.MapClaims{
		"aud": "data-exchange",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}, testSecret)

	assert.Error(t, ValidateRequest(requestWithToken(token)))
}

func TestValidateRequestWrongAudience(t *testing.T) {
	overrideAuthConfig(true, "data-exchange")

	token := signedToken(t, jwt.MapClaims{
		"aud": "some-other-api",
		"exp": time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	assert.Error(t, ValidateRequest(requestWithToken(token)))
}
