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
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/exgrid/data-exchange-service/internal/system/config"
	errors2 "github.com/exgrid/data-exchange-service/internal/system/errors"
	"github.com/exgrid/data-exchange-service/internal/system/log"
)

// ValidateRequest checks the Authorization header of the request against the
// configured JWT settings. A disabled auth section admits every request.
func ValidateRequest(r *http.Request) error {

	authConfig := config.GetExchangeRuntime().Config.Auth
	if !authConfig.Enabled {
		return nil
	}

	logger := log.GetLogger()
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		logger.Debug("Request does not carry a bearer token.")
		return unauthorizedError()
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(authConfig.JWTSecret), nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		logger.Debug("Bearer token failed validation.", log.Error(err))
		return unauthorizedError()
	}

	if authConfig.Audience != "" && !hasAudience(claims, authConfig.Audience) {
		logger.Debug("Token audience does not match expected audience.")
		return unauthorizedError()
	}

	return nil
}

func hasAudience(claims jwt.MapClaims, expected string) bool {

	audList, err := claims.GetAudience()
	if err != nil {
		return false
	}
	for _, aud := range audList {
		if aud == expected {
			return true
		}
	}
	return false
}

func unauthorizedError() error {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.UN_AUTHORIZED.Code,
		Message:     errors2.UN_AUTHORIZED.Message,
		Description: errors2.UN_AUTHORIZED.Description,
	}, http.StatusUnauthorized)
}
