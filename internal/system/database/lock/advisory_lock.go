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

package lock

import (
	"fmt"
	"hash/fnv"

	"github.com/exgrid/data-exchange-service/internal/system/constants"
	"github.com/exgrid/data-exchange-service/internal/system/database/client"
	"github.com/exgrid/data-exchange-service/internal/system/errors"
	"github.com/exgrid/data-exchange-service/internal/system/log"
)

type DistributedLock interface {
	Acquire(key string) (bool, error)
	Release(key string) error
}

// AdvisoryLock implements DistributedLock using PostgreSQL advisory locks.
// On the sqlite dialect the lock is a no-op: there is only one process.
type AdvisoryLock struct {
	dbClient client.DBClientInterface
}

func NewAdvisoryLock(dbClient client.DBClientInterface) *AdvisoryLock {
	return &AdvisoryLock{dbClient: dbClient}
}

// PostgreSQL advisory locks use bigint keys; string keys are hashed down.
func (l *AdvisoryLock) generateLockKey(key string) (int64, error) {

	h := fnv.New64a()
	if _, err := h.Write([]byte(key)); err != nil {
		return 0, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_KEY_GEN.Code,
			Message:     errors.LOCK_KEY_GEN.Message,
			Description: fmt.Sprintf("failed to hash lock key '%s'", key),
		}, err)
	}
	return int64(h.Sum64()), nil
}

func (l *AdvisoryLock) Acquire(key string) (bool, error) {

	if l.dbClient.DBType() != constants.DBTypePostgres {
		return true, nil
	}

	logger := log.GetLogger()
	lockID, err := l.generateLockKey(key)
	if err != nil {
		return false, err
	}

	results, err := l.dbClient.ExecuteQuery("SELECT pg_try_advisory_lock($1)", lockID)
	if err != nil {
		errorMsg := "Failed to execute pg_try_advisory_lock"
		logger.Error(errorMsg, log.Error(err))
		return false, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_ACQUIRE.Code,
			Message:     errors.LOCK_ACQUIRE.Message,
			Description: errorMsg,
		}, err)
	}

	if len(results) == 0 || results[0]["pg_try_advisory_lock"] == nil {
		return false, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_RESULT_INVALID.Code,
			Message:     errors.LOCK_RESULT_INVALID.Message,
			Description: fmt.Sprintf("pg_try_advisory_lock returned no usable result for key '%s'", key),
		}, nil)
	}

	acquired, _ := results[0]["pg_try_advisory_lock"].(bool)
	return acquired, nil
}

func (l *AdvisoryLock) Release(key string) error {

	if l.dbClient.DBType() != constants.DBTypePostgres {
		return nil
	}

	lockID, err := l.generateLockKey(key)
	if err != nil {
		return err
	}

	if _, err := l.dbClient.ExecuteQuery("SELECT pg_advisory_unlock($1)", lockID); err != nil {
		return errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_RELEASE.Code,
			Message:     errors.LOCK_RELEASE.Message,
			Description: fmt.Sprintf("failed to release advisory lock for key '%s'", key),
		}, err)
	}
	return nil
}
