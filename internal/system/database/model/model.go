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

// Package model defines the data structures and interfaces for database operations.
package model

import "database/sql"

// DBInterface is a database connection that runs DBQuery values in its own dialect.
type DBInterface interface {
	// Type returns the database type the connection was opened for.
	Type() string
	Query(query DBQuery, args ...any) (*sql.Rows, error)
	Exec(query DBQuery, args ...any) (sql.Result, error)
	Begin() (TxInterface, error)
	Close() error
}

// DB is the implementation of DBInterface.
type DB struct {
	internal *sql.DB
	dbType   string
}

// NewDB wraps a connection opened with the driver of the given database type.
func NewDB(db *sql.DB, dbType string) *DB {
	return &DB{
		internal: db,
		dbType:   dbType,
	}
}

// Type returns the database type.
func (d *DB) Type() string {
	return d.dbType
}

// Query runs the dialect variant of the query and returns the resulting rows.
func (d *DB) Query(query DBQuery, args ...any) (*sql.Rows, error) {
	return d.internal.Query(query.GetQuery(d.dbType), args...)
}

// Exec runs the dialect variant of a query that returns no rows.
func (d *DB) Exec(query DBQuery, args ...any) (sql.Result, error) {
	return d.internal.Exec(query.GetQuery(d.dbType), args...)
}

// Begin starts a transaction that runs queries in the same dialect.
func (d *DB) Begin() (TxInterface, error) {
	tx, err := d.internal.Begin()
	if err != nil {
		return nil, err
	}
	return &Tx{internal: tx, dbType: d.dbType}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.internal.Close()
}

// TxInterface is a transaction that runs DBQuery values.
type TxInterface interface {
	// Exec runs a query and returns the number of affected rows.
	Exec(query DBQuery, args ...any) (int64, error)
	Commit() error
	Rollback() error
}

// Tx is the implementation of TxInterface.
type Tx struct {
	internal *sql.Tx
	dbType   string
}

// Exec runs the dialect variant of the query and returns the number of affected rows.
func (t *Tx) Exec(query DBQuery, args ...any) (int64, error) {
	res, err := t.internal.Exec(query.GetQuery(t.dbType), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	return t.internal.Commit()
}

// Rollback rolls back the transaction.
func (t *Tx) Rollback() error {
	return t.internal.Rollback()
}
