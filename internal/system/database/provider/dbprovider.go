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

// Package provider provides functionality for managing database connections and clients.
package provider

import (
	"database/sql"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/asgardeo/thunderfed/internal/system/config"
	"github.com/asgardeo/thunderfed/internal/system/constants"
	"github.com/asgardeo/thunderfed/internal/system/database/client"
	"github.com/asgardeo/thunderfed/internal/system/database/model"
)

// dbConfig represents the local database configuration.
type dbConfig struct {
	dsn        string
	driverName string
}

// DBProviderInterface defines the interface for getting database clients.
type DBProviderInterface interface {
	GetDBClient(dbName string) (client.DBClientInterface, error)
	Close() error
}

// DBProvider is the implementation of DBProviderInterface.
type DBProvider struct {
	identityClient client.DBClientInterface
	identityMutex  sync.RWMutex
}

var (
	instance *DBProvider
	once     sync.Once
)

// GetDBProvider returns the instance of DBProvider.
func GetDBProvider() DBProviderInterface {
	once.Do(func() {
		instance = &DBProvider{}
	})
	return instance
}

// GetDBClient returns a database client based on the provided database name.
// Not required to close the returned client manually since it manages its own connection pool.
func (d *DBProvider) GetDBClient(dbName string) (client.DBClientInterface, error) {
	switch dbName {
	case constants.IdentityDBName:
		runtime := config.GetServerRuntime()
		return d.getOrInitClient(&d.identityClient, &d.identityMutex, runtime.Config.Database.Identity,
			runtime.Home)
	default:
		return nil, fmt.Errorf("unsupported database name: %s", dbName)
	}
}

// Close closes the database connections held by the provider.
func (d *DBProvider) Close() error {
	d.identityMutex.Lock()
	defer d.identityMutex.Unlock()
	if d.identityClient != nil {
		if err := d.identityClient.Close(); err != nil {
			return fmt.Errorf("failed to close %s client: %w", constants.IdentityDBName, err)
		}
		d.identityClient = nil
	}
	return nil
}

// getOrInitClient gets or initializes a DB client with locking.
func (d *DBProvider) getOrInitClient(
	clientPtr *client.DBClientInterface,
	mutex *sync.RWMutex,
	dataSource config.DataSource,
	home string,
) (client.DBClientInterface, error) {
	mutex.RLock()
	if *clientPtr != nil {
		dbClient := *clientPtr
		mutex.RUnlock()
		return dbClient, nil
	}
	mutex.RUnlock()

	mutex.Lock()
	defer mutex.Unlock()

	if *clientPtr != nil {
		return *clientPtr, nil
	}

	if err := d.initializeClient(clientPtr, dataSource, home); err != nil {
		return nil, err
	}

	return *clientPtr, nil
}

// initializeClient initializes a database client and assigns it to the provided pointer.
func (d *DBProvider) initializeClient(clientPtr *client.DBClientInterface, dataSource config.DataSource,
	home string) error {
	dbConfig, err := getDBConfig(dataSource, home)
	if err != nil {
		return err
	}
	dbName := dataSource.Name

	db, err := sql.Open(dbConfig.driverName, dbConfig.dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database %s: %w", dbName, err)
	}

	db.SetMaxOpenConns(dataSource.MaxOpenConns)
	db.SetMaxIdleConns(dataSource.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(dataSource.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return fmt.Errorf("failed to ping database %s: %w (close error: %w)", dbName, err, closeErr)
		}
		return fmt.Errorf("failed to ping database %s: %w", dbName, err)
	}

	// Enable foreign key constraints for SQLite databases
	if dbConfig.driverName == model.DBTypeSQLite {
		if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
			if closeErr := db.Close(); closeErr != nil {
				return fmt.Errorf("failed to enable foreign key constraints for %s: %w (close error: %w)",
					dbName, err, closeErr)
			}
			return fmt.Errorf("failed to enable foreign key constraints for %s: %w", dbName, err)
		}
	}

	*clientPtr = client.NewDBClient(model.NewDB(db, dbConfig.driverName))
	return nil
}

// getDBConfig returns the database configuration based on the provided data source.
func getDBConfig(dataSource config.DataSource, home string) (dbConfig, error) {
	var cfg dbConfig

	switch dataSource.Type {
	case model.DBTypePostgres:
		cfg.driverName = model.DBTypePostgres
		cfg.dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			dataSource.Hostname, dataSource.Port, dataSource.Username, dataSource.Password,
			dataSource.Name, dataSource.SSLMode)
	case model.DBTypeSQLite:
		cfg.driverName = model.DBTypeSQLite
		options := dataSource.Options
		if options != "" && options[0] != '?' {
			options = "?" + options
		}
		cfg.dsn = fmt.Sprintf("%s%s", path.Join(home, dataSource.Path), options)
	default:
		return cfg, fmt.Errorf("unsupported data source type: %s", dataSource.Type)
	}

	return cfg, nil
}
