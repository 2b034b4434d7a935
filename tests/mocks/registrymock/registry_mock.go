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

// Package registrymock provides a mock implementation of the federated IdP registry for testing.
package registrymock

import (
	"crypto/x509"

	"github.com/stretchr/testify/mock"

	"github.com/asgardeo/thunderfed/internal/federation/idpconfig"
	"github.com/asgardeo/thunderfed/internal/federation/registry"
	"github.com/asgardeo/thunderfed/internal/system/error/serviceerror"
)

// IDPRegistryInterfaceMock is a mock implementation of registry.IDPRegistryInterface.
type IDPRegistryInterfaceMock struct {
	mock.Mock
}

var _ registry.IDPRegistryInterface = (*IDPRegistryInterfaceMock)(nil)

// RegisterIDP mocks the RegisterIDP method.
func (m *IDPRegistryInterfaceMock) RegisterIDP(tenantID string,
	idp *idpconfig.IDPConfig) (*idpconfig.IDPConfig, *serviceerror.ServiceError) {
	args := m.Called(tenantID, idp)
	return idpResult(args.Get(0)), svcErrResult(args.Get(1))
}

// GetIDP mocks the GetIDP method.
func (m *IDPRegistryInterfaceMock) GetIDP(tenantID,
	entityID string) (*idpconfig.IDPConfig, *serviceerror.ServiceError) {
	args := m.Called(tenantID, entityID)
	return idpResult(args.Get(0)), svcErrResult(args.Get(1))
}

// ListIDPs mocks the ListIDPs method.
func (m *IDPRegistryInterfaceMock) ListIDPs(tenantID string) ([]*idpconfig.IDPConfig,
	*serviceerror.ServiceError) {
	args := m.Called(tenantID)
	idps, _ := args.Get(0).([]*idpconfig.IDPConfig)
	return idps, svcErrResult(args.Get(1))
}

// UpdateIDP mocks the UpdateIDP method.
func (m *IDPRegistryInterfaceMock) UpdateIDP(tenantID, entityID string,
	update registry.UpdateFunc) (*idpconfig.IDPConfig, *serviceerror.ServiceError) {
	args := m.Called(tenantID, entityID, update)
	return idpResult(args.Get(0)), svcErrResult(args.Get(1))
}

// SetSigningCertificateChain mocks the SetSigningCertificateChain method.
func (m *IDPRegistryInterfaceMock) SetSigningCertificateChain(tenantID, entityID string,
	chain []*x509.Certificate) (*idpconfig.IDPConfig, *serviceerror.ServiceError) {
	args := m.Called(tenantID, entityID, chain)
	return idpResult(args.Get(0)), svcErrResult(args.Get(1))
}

// DeleteIDP mocks the DeleteIDP method.
func (m *IDPRegistryInterfaceMock) DeleteIDP(tenantID, entityID string) *serviceerror.ServiceError {
	args := m.Called(tenantID, entityID)
	return svcErrResult(args.Get(0))
}

// FindIDPByURL mocks the FindIDPByURL method.
func (m *IDPRegistryInterfaceMock) FindIDPByURL(tenantID,
	url string) (*idpconfig.IDPConfig, *serviceerror.ServiceError) {
	args := m.Called(tenantID, url)
	return idpResult(args.Get(0)), svcErrResult(args.Get(1))
}

func idpResult(value interface{}) *idpconfig.IDPConfig {
	idp, _ := value.(*idpconfig.IDPConfig)
	return idp
}

func svcErrResult(value interface{}) *serviceerror.ServiceError {
	svcErr, _ := value.(*serviceerror.ServiceError)
	return svcErr
}
