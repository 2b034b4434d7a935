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

package registry

import (
	"errors"
	"fmt"

	"github.com/asgardeo/thunderfed/internal/federation/idpconfig"
	"github.com/asgardeo/thunderfed/internal/system/constants"
	"github.com/asgardeo/thunderfed/internal/system/database/client"
	dbmodel "github.com/asgardeo/thunderfed/internal/system/database/model"
	"github.com/asgardeo/thunderfed/internal/system/database/provider"
	"github.com/asgardeo/thunderfed/internal/system/log"
	sysutils "github.com/asgardeo/thunderfed/internal/system/utils"
)

// idpStoreInterface defines the interface for federated identity provider store operations.
type idpStoreInterface interface {
	CreateIDP(tenantID string, idp *idpconfig.IDPConfig) error
	GetIDP(tenantID, entityID string) (*idpconfig.IDPConfig, error)
	ListIDPs(tenantID string) ([]*idpconfig.IDPConfig, error)
	UpdateIDP(tenantID string, idp *idpconfig.IDPConfig) error
	DeleteIDP(tenantID, entityID string) error
}

// idpStore is the default implementation of idpStoreInterface.
type idpStore struct {
	dbProvider provider.DBProviderInterface
}

// newIDPStore creates a new instance of idpStore.
func newIDPStore() idpStoreInterface {
	return &idpStore{
		dbProvider: provider.GetDBProvider(),
	}
}

// CreateIDP persists a new federated IdP together with its signing certificate chain.
func (s *idpStore) CreateIDP(tenantID string, idp *idpconfig.IDPConfig) error {
	row, err := newIDPRow(sysutils.GenerateUUID(), idp)
	if err != nil {
		return err
	}

	dbClient, err := s.dbProvider.GetDBClient(constants.IdentityDBName)
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	return dbClient.Transaction(func(tx dbmodel.TxInterface) error {
		if _, err := tx.Exec(queryCreateIDP, row.ID, tenantID, row.EntityID, row.Protocol, row.Alias,
			row.UpnSuffix, row.JitEnabled, row.MultiTenant, row.PublicKey, row.Attributes); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
		return insertCertificates(tx, row)
	})
}

// GetIDP retrieves a federated IdP of a tenant by its entity ID.
func (s *idpStore) GetIDP(tenantID, entityID string) (*idpconfig.IDPConfig, error) {
	dbClient, err := s.dbProvider.GetDBClient(constants.IdentityDBName)
	if err != nil {
		return nil, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(queryGetIDPByEntityID, tenantID, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrIDPNotFound
	}
	if len(results) != 1 {
		return nil, fmt.Errorf("unexpected number of results: %d", len(results))
	}

	return s.buildIDP(dbClient, results[0])
}

// ListIDPs retrieves the federated IdPs of a tenant ordered by entity ID.
func (s *idpStore) ListIDPs(tenantID string) ([]*idpconfig.IDPConfig, error) {
	dbClient, err := s.dbProvider.GetDBClient(constants.IdentityDBName)
	if err != nil {
		return nil, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(queryGetIDPList, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	idps := make([]*idpconfig.IDPConfig, 0, len(results))
	for _, result := range results {
		idp, err := s.buildIDP(dbClient, result)
		if err != nil {
			return nil, err
		}
		idps = append(idps, idp)
	}

	return idps, nil
}

// UpdateIDP replaces the stored attributes and signing certificate chain of a federated IdP.
func (s *idpStore) UpdateIDP(tenantID string, idp *idpconfig.IDPConfig) error {
	dbClient, err := s.dbProvider.GetDBClient(constants.IdentityDBName)
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	rowID, err := getRowID(dbClient, tenantID, idp.EntityID())
	if err != nil {
		return err
	}

	row, err := newIDPRow(rowID, idp)
	if err != nil {
		return err
	}

	return dbClient.Transaction(func(tx dbmodel.TxInterface) error {
		if _, err := tx.Exec(queryUpdateIDPByID, row.ID, row.Protocol, row.Alias, row.UpnSuffix,
			row.JitEnabled, row.MultiTenant, row.PublicKey, row.Attributes); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
		if _, err := tx.Exec(queryDeleteIDPCertificates, row.ID); err != nil {
			return fmt.Errorf("failed to execute query for deleting existing certificates: %w", err)
		}
		return insertCertificates(tx, row)
	})
}

// DeleteIDP deletes a federated IdP and its certificates. Deleting a missing IdP is not an error.
func (s *idpStore) DeleteIDP(tenantID, entityID string) error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "FederatedIdPStore"))

	dbClient, err := s.dbProvider.GetDBClient(constants.IdentityDBName)
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	rowID, err := getRowID(dbClient, tenantID, entityID)
	if err != nil {
		if errors.Is(err, ErrIDPNotFound) {
			logger.Debug("idp not found", log.String(log.LoggerKeyTenantID, tenantID),
				log.String(log.LoggerKeyEntityID, entityID))
			return nil
		}
		return err
	}

	return dbClient.Transaction(func(tx dbmodel.TxInterface) error {
		if _, err := tx.Exec(queryDeleteIDPCertificates, rowID); err != nil {
			return fmt.Errorf("failed to execute query for deleting certificates: %w", err)
		}
		if _, err := tx.Exec(queryDeleteIDPByID, rowID); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
		return nil
	})
}

// buildIDP loads the certificates of a result row and rebuilds the IdP configuration.
func (s *idpStore) buildIDP(dbClient client.DBClientInterface,
	result map[string]interface{}) (*idpconfig.IDPConfig, error) {
	row, err := buildIDPRowFromResultRow(result)
	if err != nil {
		return nil, fmt.Errorf("failed to build idp from result row: %w", err)
	}

	certResults, err := dbClient.Query(queryGetIDPCertificates, row.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query for certificates: %w", err)
	}
	for _, certResult := range certResults {
		certPEM, err := stringColumn(certResult, "cert_pem")
		if err != nil {
			return nil, err
		}
		row.CertPEMs = append(row.CertPEMs, certPEM)
	}

	idp, err := row.toIDPConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to restore idp %s: %w", row.EntityID, err)
	}
	return idp, nil
}

// getRowID resolves the row ID of a federated IdP.
func getRowID(dbClient client.DBClientInterface, tenantID, entityID string) (string, error) {
	results, err := dbClient.Query(queryGetIDPRowID, tenantID, entityID)
	if err != nil {
		return "", fmt.Errorf("failed to execute query: %w", err)
	}
	if len(results) == 0 {
		return "", ErrIDPNotFound
	}
	return stringColumn(results[0], "id")
}

// insertCertificates inserts the signing certificates of the row in chain order.
func insertCertificates(tx dbmodel.TxInterface, row *idpRow) error {
	for position, certPEM := range row.CertPEMs {
		if _, err := tx.Exec(queryInsertIDPCertificate, row.ID, position, certPEM); err != nil {
			return fmt.Errorf("failed to execute query for inserting certificate %d: %w", position, err)
		}
	}
	return nil
}
