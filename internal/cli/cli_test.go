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

package cli

import (
	"bytes"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	yaml "gopkg.in/yaml.v3"

	"github.com/asgardeo/thunderfed/internal/federation/certchain"
	"github.com/asgardeo/thunderfed/internal/federation/certchain/certtest"
	"github.com/asgardeo/thunderfed/internal/federation/idpconfig"
	"github.com/asgardeo/thunderfed/internal/federation/metadata"
	"github.com/asgardeo/thunderfed/internal/federation/registry"
	"github.com/asgardeo/thunderfed/internal/system/constants"
	"github.com/asgardeo/thunderfed/tests/mocks/registrymock"
)

const testEntityID = "https://idp.example.com"

type CLITestSuite struct {
	suite.Suite
	registryMock *registrymock.IDPRegistryInterfaceMock
	openedHome   string
	closed       bool
	tempDir      string
	root         *certtest.Authority
	leaf         *certtest.Authority
}

func TestCLITestSuite(t *testing.T) {
	suite.Run(t, new(CLITestSuite))
}

func (suite *CLITestSuite) SetupTest() {
	suite.registryMock = &registrymock.IDPRegistryInterfaceMock{}
	suite.openedHome = ""
	suite.closed = false
	suite.tempDir = suite.T().TempDir()
	suite.root = certtest.NewRootCA(suite.T(), "Root CA")
	suite.leaf = suite.root.NewLeaf(suite.T(), "Signing")
}

func (suite *CLITestSuite) execute(args ...string) (string, error) {
	cmd := newRootCommand(func(home string) (registry.IDPRegistryInterface, func(), error) {
		suite.openedHome = home
		return suite.registryMock, func() { suite.closed = true }, nil
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func (suite *CLITestSuite) writeFile(name string, data []byte) string {
	file := filepath.Join(suite.tempDir, name)
	assert.NoError(suite.T(), os.WriteFile(file, data, 0o600))
	return file
}

func (suite *CLITestSuite) newIDP() *idpconfig.IDPConfig {
	idp, err := idpconfig.New(testEntityID)
	suite.Require().NoError(err)
	suite.Require().NoError(idp.SetSsoServices([]idpconfig.ServiceEndpoint{
		{Binding: "urn:oasis:names:tc:SAML:2.0:bindings:HTTP-Redirect", Location: testEntityID + "/sso"},
	}))
	suite.Require().NoError(idp.SetSigningCertificateChain(certtest.Chain(suite.leaf, suite.root)))
	return idp
}

func (suite *CLITestSuite) TestChainValidate_Valid() {
	intermediate := suite.root.NewIntermediate(suite.T(), "Intermediate")
	leaf := intermediate.NewLeaf(suite.T(), "Signing")
	file := suite.writeFile("chain.pem", certchain.EncodePEMChain(certtest.Chain(leaf, intermediate, suite.root)))

	out, err := suite.execute("chain", "validate", file)

	assert.NoError(suite.T(), err)
	assert.Contains(suite.T(), out, "Certificate chain is valid (3 certificates)")
	assert.Contains(suite.T(), out, "[0] CN=Signing (signing certificate)")
	assert.Contains(suite.T(), out, "[1] CN=Intermediate (intermediate)")
	assert.Contains(suite.T(), out, "[2] CN=Root CA (trust anchor)")
	assert.Empty(suite.T(), suite.openedHome)
}

func (suite *CLITestSuite) TestChainValidate_Extraneous() {
	other := certtest.NewRootCA(suite.T(), "Other")
	file := suite.writeFile("chain.pem", certchain.EncodePEMChain(certtest.Chain(suite.leaf, other, suite.root)))

	_, err := suite.execute("chain", "validate", file)

	assert.Error(suite.T(), err)
	var extraneous *certchain.ExtraneousCertsError
	assert.True(suite.T(), errors.As(err, &extraneous))
	assert.Equal(suite.T(), []int{1}, extraneous.Indices)
}

func (suite *CLITestSuite) TestChainValidate_MissingFile() {
	_, err := suite.execute("chain", "validate", filepath.Join(suite.tempDir, "missing.pem"))

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "failed to read certificate chain")
}

func (suite *CLITestSuite) TestChainValidate_NotPEM() {
	file := suite.writeFile("chain.pem", []byte("not a certificate"))

	_, err := suite.execute("chain", "validate", file)

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "failed to parse certificate chain")
}

func (suite *CLITestSuite) TestIDPImport() {
	data, err := metadata.Export(suite.newIDP())
	suite.Require().NoError(err)
	file := suite.writeFile("metadata.xml", data)

	suite.registryMock.On("RegisterIDP", "tenant-1", mock.MatchedBy(func(idp *idpconfig.IDPConfig) bool {
		alias, ok := idp.Alias()
		return idp.EntityID() == testEntityID && ok && alias == "corp" && idp.JitEnabled() &&
			len(idp.SigningCertificateChain()) == 2
	})).Return(suite.newIDP(), nil)

	out, err := suite.execute("--home", suite.tempDir, "idp", "import", "tenant-1", file, "--alias", "corp", "--jit")

	assert.NoError(suite.T(), err)
	assert.Contains(suite.T(), out, "Registered identity provider "+testEntityID+" for tenant tenant-1")
	assert.Equal(suite.T(), suite.tempDir, suite.openedHome)
	assert.True(suite.T(), suite.closed)
	suite.registryMock.AssertExpectations(suite.T())
}

func (suite *CLITestSuite) TestIDPImport_RegistryError() {
	data, err := metadata.Export(suite.newIDP())
	suite.Require().NoError(err)
	file := suite.writeFile("metadata.xml", data)

	suite.registryMock.On("RegisterIDP", "tenant-1", mock.Anything).
		Return(nil, &registry.ErrorIDPAlreadyExists)

	_, err = suite.execute("--home", suite.tempDir, "idp", "import", "tenant-1", file)

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), registry.ErrorIDPAlreadyExists.Code)
	assert.True(suite.T(), suite.closed)
}

func (suite *CLITestSuite) TestIDPImport_InvalidMetadata() {
	file := suite.writeFile("metadata.xml", []byte("<nope/>"))

	_, err := suite.execute("--home", suite.tempDir, "idp", "import", "tenant-1", file)

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "failed to import metadata")
	suite.registryMock.AssertNotCalled(suite.T(), "RegisterIDP", mock.Anything, mock.Anything)
}

func (suite *CLITestSuite) TestIDPList() {
	other, err := idpconfig.New("https://other.example.com", idpconfig.WithProtocol(string(idpconfig.ProtocolOAuth2)))
	suite.Require().NoError(err)
	alias := "other"
	suite.Require().NoError(other.SetAlias(&alias))
	suite.registryMock.On("ListIDPs", "tenant-1").
		Return([]*idpconfig.IDPConfig{suite.newIDP(), other}, nil)

	out, err := suite.execute("--home", suite.tempDir, "idp", "list", "tenant-1")

	assert.NoError(suite.T(), err)
	assert.Contains(suite.T(), out, "ENTITY ID")
	assert.Contains(suite.T(), out, testEntityID)
	assert.Contains(suite.T(), out, "https://other.example.com")
	assert.Contains(suite.T(), out, string(idpconfig.ProtocolOAuth2))
	assert.Contains(suite.T(), out, "other")
}

func (suite *CLITestSuite) TestIDPGet_YAML() {
	suite.registryMock.On("GetIDP", "tenant-1", testEntityID).Return(suite.newIDP(), nil)

	out, err := suite.execute("--home", suite.tempDir, "idp", "get", "tenant-1", testEntityID)

	assert.NoError(suite.T(), err)
	var view idpView
	assert.NoError(suite.T(), yaml.Unmarshal([]byte(out), &view))
	assert.Equal(suite.T(), testEntityID, view.EntityID)
	assert.Equal(suite.T(), string(idpconfig.ProtocolSAML2), view.Protocol)
	assert.Len(suite.T(), view.Certificates, 2)
	assert.Equal(suite.T(), "CN=Signing", view.Certificates[0].Subject)
	assert.Equal(suite.T(), "CN=Root CA", view.Certificates[0].Issuer)
}

func (suite *CLITestSuite) TestIDPGet_JSON() {
	suite.registryMock.On("GetIDP", "tenant-1", testEntityID).Return(suite.newIDP(), nil)

	out, err := suite.execute("--home", suite.tempDir, "idp", "get", "tenant-1", testEntityID, "-o", "json")

	assert.NoError(suite.T(), err)
	var view idpView
	assert.NoError(suite.T(), json.Unmarshal([]byte(out), &view))
	assert.Equal(suite.T(), testEntityID, view.EntityID)
	assert.Len(suite.T(), view.SsoServices, 1)
}

func (suite *CLITestSuite) TestIDPGet_ShowsMappingsKeyAndMaskedOidcSecret() {
	idp, err := idpconfig.New("https://oidc.example.com",
		idpconfig.WithProtocol(string(idpconfig.ProtocolOAuth2)),
		idpconfig.WithOidcConfig(idpconfig.OidcConfig{
			Issuer:        "https://oidc.example.com",
			ClientID:      "thunderfed",
			ClientSecret:  "s3cr3t-value",
			TokenEndpoint: "https://oidc.example.com/token",
			Scopes:        []string{"openid"},
		}))
	suite.Require().NoError(err)
	suite.Require().NoError(idp.SetSigningCertificateChain(certtest.Chain(suite.leaf, suite.root)))
	suite.Require().NoError(idp.SetTokenClaimGroupMappings(map[idpconfig.TokenClaimAttribute][]string{
		{ClaimName: "role", ClaimValue: "guest"}: {},
		{ClaimName: "role", ClaimValue: "admin"}: {"admins", "operators"},
	}))
	suite.registryMock.On("GetIDP", "tenant-1", "https://oidc.example.com").Return(idp, nil)

	out, err := suite.execute("--home", suite.tempDir, "idp", "get", "tenant-1", "https://oidc.example.com",
		"-o", "json")

	assert.NoError(suite.T(), err)
	assert.NotContains(suite.T(), out, "s3cr3t-value")
	var view idpView
	suite.Require().NoError(json.Unmarshal([]byte(out), &view))

	suite.Require().Len(view.ClaimGroupMappings, 2)
	assert.Equal(suite.T(), "admin", view.ClaimGroupMappings[0].ClaimValue)
	assert.Equal(suite.T(), []string{"admins", "operators"}, view.ClaimGroupMappings[0].Groups)
	assert.Equal(suite.T(), "guest", view.ClaimGroupMappings[1].ClaimValue)
	assert.Empty(suite.T(), view.ClaimGroupMappings[1].Groups)

	der, err := x509.MarshalPKIXPublicKey(suite.leaf.Cert.PublicKey)
	suite.Require().NoError(err)
	sum := sha256.Sum256(der)
	suite.Require().NotNil(view.PublicKey)
	assert.Equal(suite.T(), "ECDSA", view.PublicKey.Algorithm)
	assert.Equal(suite.T(), hex.EncodeToString(sum[:]), view.PublicKey.Fingerprint)

	suite.Require().NotNil(view.OidcConfig)
	assert.Equal(suite.T(), "thunderfed", view.OidcConfig.ClientID)
	assert.Equal(suite.T(), "s**********e", view.OidcConfig.ClientSecret)
	assert.Equal(suite.T(), "https://oidc.example.com/token", view.OidcConfig.TokenEndpoint)
	assert.Equal(suite.T(), []string{"openid"}, view.OidcConfig.Scopes)
}

func (suite *CLITestSuite) TestIDPGet_OmitsEmptyOidcConfig() {
	suite.registryMock.On("GetIDP", "tenant-1", testEntityID).Return(suite.newIDP(), nil)

	out, err := suite.execute("--home", suite.tempDir, "idp", "get", "tenant-1", testEntityID, "-o", "json")

	assert.NoError(suite.T(), err)
	assert.NotContains(suite.T(), out, "oidcConfig")
	assert.Contains(suite.T(), out, "sha256Fingerprint")
}

func (suite *CLITestSuite) TestIDPGet_UnsupportedFormat() {
	suite.registryMock.On("GetIDP", "tenant-1", testEntityID).Return(suite.newIDP(), nil)

	_, err := suite.execute("--home", suite.tempDir, "idp", "get", "tenant-1", testEntityID, "-o", "xml")

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "unsupported output format")
}

func (suite *CLITestSuite) TestIDPGet_NotFound() {
	suite.registryMock.On("GetIDP", "tenant-1", testEntityID).Return(nil, &registry.ErrorIDPNotFound)

	_, err := suite.execute("--home", suite.tempDir, "idp", "get", "tenant-1", testEntityID)

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), registry.ErrorIDPNotFound.Code)
}

func (suite *CLITestSuite) TestIDPExport() {
	suite.registryMock.On("GetIDP", "tenant-1", testEntityID).Return(suite.newIDP(), nil)

	out, err := suite.execute("--home", suite.tempDir, "idp", "export", "tenant-1", testEntityID)

	assert.NoError(suite.T(), err)
	imported, err := metadata.Import([]byte(out))
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), testEntityID, imported.EntityID())
}

func (suite *CLITestSuite) TestIDPSetChain() {
	intermediate := suite.root.NewIntermediate(suite.T(), "Intermediate")
	leaf := intermediate.NewLeaf(suite.T(), "Signing")
	chain := certtest.Chain(leaf, intermediate, suite.root)
	file := suite.writeFile("chain.pem", certchain.EncodePEMChain(chain))

	updated := suite.newIDP()
	suite.Require().NoError(updated.SetSigningCertificateChain(chain))
	suite.registryMock.On("SetSigningCertificateChain", "tenant-1", testEntityID,
		mock.MatchedBy(func(certs []*x509.Certificate) bool {
			return len(certs) == 3 && certs[0].Equal(leaf.Cert)
		})).Return(updated, nil)

	out, err := suite.execute("--home", suite.tempDir, "idp", "set-chain", "tenant-1", testEntityID, file)

	assert.NoError(suite.T(), err)
	assert.Contains(suite.T(), out, "Updated signing certificate chain of "+testEntityID+" (3 certificates)")
}

func (suite *CLITestSuite) TestIDPSetChain_Untrusted() {
	file := suite.writeFile("chain.pem", certchain.EncodePEMChain(certtest.Chain(suite.leaf, suite.root)))
	suite.registryMock.On("SetSigningCertificateChain", "tenant-1", testEntityID, mock.Anything).
		Return(nil, &registry.ErrorUntrustedCertificateChain)

	_, err := suite.execute("--home", suite.tempDir, "idp", "set-chain", "tenant-1", testEntityID, file)

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), registry.ErrorUntrustedCertificateChain.Code)
}

func (suite *CLITestSuite) TestIDPFind() {
	suite.registryMock.On("FindIDPByURL", "tenant-1", testEntityID+"/sso").Return(suite.newIDP(), nil)

	out, err := suite.execute("--home", suite.tempDir, "idp", "find", "tenant-1", testEntityID+"/sso")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), testEntityID+"\n", out)
}

func (suite *CLITestSuite) TestIDPDelete() {
	suite.registryMock.On("DeleteIDP", "tenant-1", testEntityID).Return(nil)

	out, err := suite.execute("--home", suite.tempDir, "idp", "delete", "tenant-1", testEntityID)

	assert.NoError(suite.T(), err)
	assert.Contains(suite.T(), out, "Deleted identity provider "+testEntityID+" from tenant tenant-1")
	suite.registryMock.AssertExpectations(suite.T())
}

func (suite *CLITestSuite) TestIDPCommand_RegistryOpenFailure() {
	cmd := newRootCommand(func(home string) (registry.IDPRegistryInterface, func(), error) {
		return nil, nil, errors.New("database unavailable")
	})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--home", suite.tempDir, "idp", "list", "tenant-1"})

	err := cmd.Execute()

	assert.EqualError(suite.T(), err, "database unavailable")
}

func (suite *CLITestSuite) TestIDPCommand_WrongArgs() {
	_, err := suite.execute("idp", "get", "tenant-1")

	assert.Error(suite.T(), err)
	assert.Empty(suite.T(), suite.openedHome)
}

func (suite *CLITestSuite) TestResolveHome() {
	home, err := resolveHome("/opt/thunderfed")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "/opt/thunderfed", home)

	suite.T().Setenv(constants.HomeEnvironmentVariable, "/srv/thunderfed")
	home, err = resolveHome("")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "/srv/thunderfed", home)

	suite.T().Setenv(constants.HomeEnvironmentVariable, "")
	wd, err := os.Getwd()
	suite.Require().NoError(err)
	home, err = resolveHome("")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), wd, home)
}
