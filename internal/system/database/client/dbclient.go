/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
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

// Package client provides the database client used by the stores.
package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/asgardeo/thunderfed/internal/system/database/model"
	"github.com/asgardeo/thunderfed/internal/system/log"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// DBClientInterface defines the interface for database operations.
type DBClientInterface interface {
	// Query runs a query and returns its rows as maps keyed by lower case column name.
	Query(query model.DBQuery, args ...interface{}) ([]map[string]interface{}, error)
	// Execute runs a query that returns no rows and returns the number of affected rows.
	Execute(query model.DBQuery, args ...interface{}) (int64, error)
	// Transaction runs fn in a transaction. The transaction is committed when fn returns nil and
	// rolled back otherwise.
	Transaction(fn func(tx model.TxInterface) error) error
	// Close closes the database connection.
	Close() error
}

// DBClient is the implementation of DBClientInterface.
type DBClient struct {
	db model.DBInterface
}

// NewDBClient creates a new instance of DBClient with the provided database connection.
func NewDBClient(db model.DBInterface) DBClientInterface {
	return &DBClient{db: db}
}

// Query runs a query and returns its rows as maps keyed by lower case column name.
func (client *DBClient) Query(query model.DBQuery, args ...interface{}) ([]map[string]interface{}, error) {
	logger := client.logger()
	logger.Debug("Executing query", log.String("queryID", query.GetID()))

	rows, err := client.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			logger.Error("Error closing rows", log.Error(closeErr))
		}
	}()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	for i := range columns {
		columns[i] = strings.ToLower(columns[i])
	}

	var results []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		result := make(map[string]interface{}, len(columns))
		for i, column := range columns {
			result[column] = values[i]
		}
		results = append(results, result)
	}

	return results, rows.Err()
}

// Execute runs a query that returns no rows and returns the number of affected rows.
func (client *DBClient) Execute(query model.DBQuery, args ...interface{}) (int64, error) {
	client.logger().Debug("Executing query", log.String("queryID", query.GetID()))

	res, err := client.db.Exec(query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Transaction runs fn in a transaction. A failed rollback is joined to the error that caused it.
func (client *DBClient) Transaction(fn func(tx model.TxInterface) error) error {
	tx, err := client.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		return rollback(tx, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (client *DBClient) Close() error {
	return client.db.Close()
}

func (client *DBClient) logger() *log.Logger {
	return log.GetLogger().With(log.String(log.LoggerKeyComponentName, "DBClient"),
		log.String("dbType", client.db.Type()))
}

func rollback(tx model.TxInterface, err error) error {
	if rollbackErr := tx.Rollback(); rollbackErr != nil {
		return errors.Join(err, fmt.Errorf("failed to rollback transaction: %w", rollbackErr))
	}
	return err
}
