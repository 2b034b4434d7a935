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

// Package registry provides tenant scoped registration and persistence of federated identity providers.
package registry

import (
	"crypto/x509"
	"errors"
	"fmt"

	"github.com/asgardeo/thunderfed/internal/federation/certchain"
	"github.com/asgardeo/thunderfed/internal/federation/idpconfig"
	"github.com/asgardeo/thunderfed/internal/system/config"
	"github.com/asgardeo/thunderfed/internal/system/error/serviceerror"
	"github.com/asgardeo/thunderfed/internal/system/log"
	"github.com/asgardeo/thunderfed/internal/system/utils"
)

// UpdateFunc mutates a working copy of an IdP configuration. Returning an error discards the copy.
type UpdateFunc func(idp *idpconfig.IDPConfig) error

// IDPRegistryInterface defines the interface for the federated IdP registry.
type IDPRegistryInterface interface {
	RegisterIDP(tenantID string, idp *idpconfig.IDPConfig) (*idpconfig.IDPConfig, *serviceerror.ServiceError)
	GetIDP(tenantID, entityID string) (*idpconfig.IDPConfig, *serviceerror.ServiceError)
	ListIDPs(tenantID string) ([]*idpconfig.IDPConfig, *serviceerror.ServiceError)
	UpdateIDP(tenantID, entityID string, update UpdateFunc) (*idpconfig.IDPConfig, *serviceerror.ServiceError)
	SetSigningCertificateChain(tenantID, entityID string,
		chain []*x509.Certificate) (*idpconfig.IDPConfig, *serviceerror.ServiceError)
	DeleteIDP(tenantID, entityID string) *serviceerror.ServiceError
	FindIDPByURL(tenantID, url string) (*idpconfig.IDPConfig, *serviceerror.ServiceError)
}

// idpRegistry is the default implementation of IDPRegistryInterface.
type idpRegistry struct {
	store          idpStoreInterface
	cache          *idpCache
	locks          *keyedMutex
	maxChainLength int
}

// NewIDPRegistry creates a registry backed by the identity database of the server runtime.
func NewIDPRegistry() (IDPRegistryInterface, error) {
	runtime := config.GetServerRuntime()
	registry, err := newIDPRegistry(newIDPStore(), runtime.Config.Cache, runtime.Config.Federation)
	if err != nil {
		return nil, err
	}
	return registry, nil
}

func newIDPRegistry(store idpStoreInterface, cacheConfig config.CacheConfig,
	federationConfig config.FederationConfig) (*idpRegistry, error) {
	cache, err := newIDPCache(cacheConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create idp cache: %w", err)
	}
	return &idpRegistry{
		store:          store,
		cache:          cache,
		locks:          newKeyedMutex(),
		maxChainLength: federationConfig.MaxChainLength,
	}, nil
}

// RegisterIDP registers a new federated IdP for the tenant.
func (r *idpRegistry) RegisterIDP(tenantID string,
	idp *idpconfig.IDPConfig) (*idpconfig.IDPConfig, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "IdPRegistry"))

	if utils.IsBlank(tenantID) {
		return nil, &ErrorInvalidTenantID
	}
	if idp == nil {
		return nil, &ErrorIDPNil
	}
	if svcErr := r.checkChainLength(idp.SigningCertificateChain()); svcErr != nil {
		return nil, svcErr
	}

	key := idpKey{tenantID: tenantID, entityID: idp.EntityID()}
	unlock := r.locks.lock(key)
	defer unlock()

	existing, err := r.store.GetIDP(tenantID, idp.EntityID())
	if err != nil && !errors.Is(err, ErrIDPNotFound) {
		logger.Error("Failed to check existing identity provider", log.Error(err),
			log.String(log.LoggerKeyTenantID, tenantID), log.String(log.LoggerKeyEntityID, idp.EntityID()))
		return nil, &ErrorInternalServerError
	}
	if existing != nil {
		return nil, &ErrorIDPAlreadyExists
	}

	registered := idp.Clone()
	if err := r.store.CreateIDP(tenantID, registered); err != nil {
		logger.Error("Failed to create identity provider", log.Error(err),
			log.String(log.LoggerKeyTenantID, tenantID), log.String(log.LoggerKeyEntityID, idp.EntityID()))
		return nil, &ErrorInternalServerError
	}
	r.cache.add(key, registered)

	if logger.IsDebugEnabled() {
		fields := []log.Field{log.String(log.LoggerKeyTenantID, tenantID),
			log.String(log.LoggerKeyEntityID, idp.EntityID()), log.String("protocol", string(idp.Protocol()))}
		if oidc := idp.OidcConfig(); oidc.ClientID != "" {
			fields = append(fields, log.String("clientId", log.MaskString(oidc.ClientID)))
		}
		logger.Debug("Registered identity provider", fields...)
	}
	return registered.Clone(), nil
}

// GetIDP retrieves a federated IdP of the tenant by its entity ID.
func (r *idpRegistry) GetIDP(tenantID, entityID string) (*idpconfig.IDPConfig, *serviceerror.ServiceError) {
	if svcErr := validateKey(tenantID, entityID); svcErr != nil {
		return nil, svcErr
	}
	key := idpKey{tenantID: tenantID, entityID: entityID}
	if idp, ok := r.cache.get(key); ok {
		return idp, nil
	}

	// Fill the cache under the key lock so a concurrent delete or update cannot be overwritten
	// with the snapshot read here.
	unlock := r.locks.lock(key)
	defer unlock()

	idp, svcErr := r.load(key)
	if svcErr != nil {
		return nil, svcErr
	}
	return idp.Clone(), nil
}

// ListIDPs retrieves the federated IdPs of the tenant.
func (r *idpRegistry) ListIDPs(tenantID string) ([]*idpconfig.IDPConfig, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "IdPRegistry"))

	if utils.IsBlank(tenantID) {
		return nil, &ErrorInvalidTenantID
	}

	idps, err := r.store.ListIDPs(tenantID)
	if err != nil {
		logger.Error("Failed to list identity providers", log.Error(err),
			log.String(log.LoggerKeyTenantID, tenantID))
		return nil, &ErrorInternalServerError
	}
	return idps, nil
}

// UpdateIDP applies the update to a working copy of the IdP and persists it. The cached and stored
// IdP are replaced only when both the update and the write succeed.
func (r *idpRegistry) UpdateIDP(tenantID, entityID string,
	update UpdateFunc) (*idpconfig.IDPConfig, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "IdPRegistry"))

	if svcErr := validateKey(tenantID, entityID); svcErr != nil {
		return nil, svcErr
	}
	if update == nil {
		return nil, serviceerror.CustomServiceError(ErrorInvalidIDPConfig, "update function cannot be null")
	}

	key := idpKey{tenantID: tenantID, entityID: entityID}
	unlock := r.locks.lock(key)
	defer unlock()

	current, svcErr := r.load(key)
	if svcErr != nil {
		return nil, svcErr
	}

	draft := current.Clone()
	if err := update(draft); err != nil {
		return nil, mapConfigError(err, logger)
	}
	if svcErr := r.checkChainLength(draft.SigningCertificateChain()); svcErr != nil {
		return nil, svcErr
	}

	if err := r.store.UpdateIDP(tenantID, draft); err != nil {
		if errors.Is(err, ErrIDPNotFound) {
			r.cache.remove(key)
			return nil, &ErrorIDPNotFound
		}
		logger.Error("Failed to update identity provider", log.Error(err),
			log.String(log.LoggerKeyTenantID, tenantID), log.String(log.LoggerKeyEntityID, entityID))
		return nil, &ErrorInternalServerError
	}
	r.cache.add(key, draft)

	return draft.Clone(), nil
}

// SetSigningCertificateChain validates and replaces the signing certificate chain of an IdP.
func (r *idpRegistry) SetSigningCertificateChain(tenantID, entityID string,
	chain []*x509.Certificate) (*idpconfig.IDPConfig, *serviceerror.ServiceError) {
	if svcErr := r.checkChainLength(chain); svcErr != nil {
		return nil, svcErr
	}
	return r.UpdateIDP(tenantID, entityID, func(idp *idpconfig.IDPConfig) error {
		return idp.SetSigningCertificateChain(chain)
	})
}

// DeleteIDP deletes a federated IdP of the tenant. Deleting a missing IdP succeeds.
func (r *idpRegistry) DeleteIDP(tenantID, entityID string) *serviceerror.ServiceError {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "IdPRegistry"))

	if svcErr := validateKey(tenantID, entityID); svcErr != nil {
		return svcErr
	}

	key := idpKey{tenantID: tenantID, entityID: entityID}
	unlock := r.locks.lock(key)
	defer unlock()

	if err := r.store.DeleteIDP(tenantID, entityID); err != nil {
		logger.Error("Failed to delete identity provider", log.Error(err),
			log.String(log.LoggerKeyTenantID, tenantID), log.String(log.LoggerKeyEntityID, entityID))
		return &ErrorInternalServerError
	}
	r.cache.remove(key)

	return nil
}

// FindIDPByURL returns the first IdP of the tenant, in entity ID order, with a SSO or SLO endpoint
// at the given URL.
func (r *idpRegistry) FindIDPByURL(tenantID, url string) (*idpconfig.IDPConfig, *serviceerror.ServiceError) {
	if utils.IsBlank(url) {
		return nil, &ErrorInvalidURL
	}

	idps, svcErr := r.ListIDPs(tenantID)
	if svcErr != nil {
		return nil, svcErr
	}
	for _, idp := range idps {
		if idp.IsMatchingURL(url) {
			return idp, nil
		}
	}
	return nil, &ErrorIDPNotFound
}

// load returns the IdP from the cache, falling back to the store. The caller must hold the key lock.
func (r *idpRegistry) load(key idpKey) (*idpconfig.IDPConfig, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "IdPRegistry"))

	if idp, ok := r.cache.get(key); ok {
		return idp, nil
	}

	idp, err := r.store.GetIDP(key.tenantID, key.entityID)
	if err != nil {
		if errors.Is(err, ErrIDPNotFound) {
			return nil, &ErrorIDPNotFound
		}
		logger.Error("Failed to get identity provider", log.Error(err),
			log.String(log.LoggerKeyTenantID, key.tenantID), log.String(log.LoggerKeyEntityID, key.entityID))
		return nil, &ErrorInternalServerError
	}
	r.cache.add(key, idp)

	return idp, nil
}

// checkChainLength rejects chains longer than the configured maximum. A non-positive maximum
// disables the check.
func (r *idpRegistry) checkChainLength(chain []*x509.Certificate) *serviceerror.ServiceError {
	if r.maxChainLength > 0 && len(chain) > r.maxChainLength {
		return serviceerror.CustomServiceError(ErrorCertificateChainTooLong,
			fmt.Sprintf("the certificate chain has %d certificates; at most %d are allowed",
				len(chain), r.maxChainLength))
	}
	return nil
}

func validateKey(tenantID, entityID string) *serviceerror.ServiceError {
	if utils.IsBlank(tenantID) {
		return &ErrorInvalidTenantID
	}
	if utils.IsBlank(entityID) {
		return &ErrorInvalidEntityID
	}
	return nil
}

// mapConfigError converts configuration and chain validation errors into service errors.
func mapConfigError(err error, logger *log.Logger) *serviceerror.ServiceError {
	var fieldErr *idpconfig.FieldValidationError
	var protocolErr *idpconfig.InvalidProtocolError
	var noPathErr *certchain.NoTrustedPathError
	var extraneousErr *certchain.ExtraneousCertsError

	switch {
	case errors.As(err, &fieldErr):
		return serviceerror.CustomServiceError(ErrorInvalidIDPConfig, fieldErr.Error())
	case errors.As(err, &protocolErr):
		return serviceerror.CustomServiceError(ErrorInvalidProtocol, protocolErr.Error())
	case errors.As(err, &noPathErr):
		return serviceerror.CustomServiceError(ErrorUntrustedCertificateChain, noPathErr.Error())
	case errors.As(err, &extraneousErr):
		return serviceerror.CustomServiceError(ErrorExtraneousCertificates, extraneousErr.Error())
	default:
		logger.Error("Failed to apply identity provider update", log.Error(err))
		return &ErrorInternalServerError
	}
}
