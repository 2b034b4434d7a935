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

package idpconfig

import (
	"crypto/x509"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/asgardeo/thunderfed/internal/federation/certchain"
	"github.com/asgardeo/thunderfed/internal/federation/certchain/certtest"
)

type IDPConfigTestSuite struct {
	suite.Suite
	root   *certtest.Authority
	config *IDPConfig
}

func TestIDPConfigSuite(t *testing.T) {
	suite.Run(t, new(IDPConfigTestSuite))
}

func (suite *IDPConfigTestSuite) SetupTest() {
	suite.root = certtest.NewRootCA(suite.T(), "Root CA")
	config, err := New("https://idp.example.com/metadata")
	require.NoError(suite.T(), err)
	suite.config = config
}

func strPtr(s string) *string {
	return &s
}

func (suite *IDPConfigTestSuite) requireFieldError(err error, field string) *FieldValidationError {
	var fieldErr *FieldValidationError
	require.ErrorAs(suite.T(), err, &fieldErr)
	assert.Equal(suite.T(), field, fieldErr.Field)
	return fieldErr
}

func (suite *IDPConfigTestSuite) TestNewDefaults() {
	assert.Equal(suite.T(), "https://idp.example.com/metadata", suite.config.EntityID())
	assert.Equal(suite.T(), ProtocolSAML2, suite.config.Protocol())
	_, hasAlias := suite.config.Alias()
	assert.False(suite.T(), hasAlias)
	assert.Empty(suite.T(), suite.config.TokenClaimGroupMappings())
	assert.NotNil(suite.T(), suite.config.TokenClaimGroupMappings())
	assert.Equal(suite.T(), OidcConfig{}, suite.config.OidcConfig())
	assert.Nil(suite.T(), suite.config.PublicKey())
	assert.False(suite.T(), suite.config.JitEnabled())
	assert.False(suite.T(), suite.config.MultiTenant())
}

func (suite *IDPConfigTestSuite) TestNewWithEmptyEntityID() {
	for _, entityID := range []string{"", "   "} {
		config, err := New(entityID)
		assert.Nil(suite.T(), config)
		suite.requireFieldError(err, FieldEntityID)
	}
}

func (suite *IDPConfigTestSuite) TestNewWithProtocol() {
	config, err := New("entity", WithProtocol(string(ProtocolOAuth2)))

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), ProtocolOAuth2, config.Protocol())
}

func (suite *IDPConfigTestSuite) TestNewWithInvalidProtocol() {
	config, err := New("entity", WithProtocol("ftp"))

	assert.Nil(suite.T(), config)
	var protocolErr *InvalidProtocolError
	require.ErrorAs(suite.T(), err, &protocolErr)
	assert.Equal(suite.T(), "ftp", protocolErr.Protocol)
}

func (suite *IDPConfigTestSuite) TestValidateProtocol() {
	assert.NoError(suite.T(), ValidateProtocol(string(ProtocolSAML2)))
	assert.NoError(suite.T(), ValidateProtocol(string(ProtocolOAuth2)))
	assert.Error(suite.T(), ValidateProtocol(""))
	assert.Error(suite.T(), ValidateProtocol("SAML2"))
}

func (suite *IDPConfigTestSuite) TestNewWithOidcConfig() {
	oidc := OidcConfig{
		Issuer:        "https://login.example.com",
		ClientID:      "client",
		TokenEndpoint: "https://login.example.com/token",
		Scopes:        []string{"openid", "profile"},
	}

	config, err := New("entity", WithProtocol(string(ProtocolOAuth2)), WithOidcConfig(oidc))

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), oidc, config.OidcConfig())
}

func (suite *IDPConfigTestSuite) TestNewWithInvalidOidcConfig() {
	_, err := New("entity", WithOidcConfig(OidcConfig{TokenEndpoint: "token"}))

	suite.requireFieldError(err, "oidcConfig.tokenEndpoint")
}

func (suite *IDPConfigTestSuite) TestNewWithNilChainValidator() {
	_, err := New("entity", WithChainValidator(nil))

	suite.requireFieldError(err, "chainValidator")
}

func (suite *IDPConfigTestSuite) TestAlias() {
	require.NoError(suite.T(), suite.config.SetAlias(strPtr("corp")))
	alias, ok := suite.config.Alias()
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), "corp", alias)

	suite.requireFieldError(suite.config.SetAlias(strPtr("")), FieldAlias)
	alias, _ = suite.config.Alias()
	assert.Equal(suite.T(), "corp", alias)

	require.NoError(suite.T(), suite.config.SetAlias(nil))
	_, ok = suite.config.Alias()
	assert.False(suite.T(), ok)
}

func (suite *IDPConfigTestSuite) TestUpnSuffix() {
	require.NoError(suite.T(), suite.config.SetUpnSuffix(strPtr("example.com")))
	suite.requireFieldError(suite.config.SetUpnSuffix(strPtr("")), FieldUpnSuffix)

	suffix, ok := suite.config.UpnSuffix()
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), "example.com", suffix)
}

func (suite *IDPConfigTestSuite) TestNameIDFormats() {
	formats := []string{
		"urn:oasis:names:tc:SAML:1.1:nameid-format:emailAddress",
		"urn:oasis:names:tc:SAML:2.0:nameid-format:persistent",
		"urn:oasis:names:tc:SAML:1.1:nameid-format:emailAddress",
	}

	require.NoError(suite.T(), suite.config.SetNameIDFormats(formats))
	assert.Equal(suite.T(), formats[:2], suite.config.NameIDFormats())

	suite.requireFieldError(suite.config.SetNameIDFormats([]string{"a", ""}), FieldNameIDFormats)
	assert.Len(suite.T(), suite.config.NameIDFormats(), 2)
}

func (suite *IDPConfigTestSuite) TestSsoServices() {
	endpoints := []ServiceEndpoint{
		{Name: "sso", Binding: "urn:oasis:names:tc:SAML:2.0:bindings:HTTP-Redirect",
			Location: "https://idp.example.com/sso"},
	}
	require.NoError(suite.T(), suite.config.SetSsoServices(endpoints))

	err := suite.config.SetSsoServices([]ServiceEndpoint{
		endpoints[0],
		{Binding: "urn:oasis:names:tc:SAML:2.0:bindings:HTTP-POST", Location: "not a url"},
	})
	fieldErr := suite.requireFieldError(err, "ssoServices[1].location")
	assert.Equal(suite.T(), "must be an absolute URL", fieldErr.Reason)
	assert.Equal(suite.T(), endpoints, suite.config.SsoServices())
}

func (suite *IDPConfigTestSuite) TestSloServicesRequireBinding() {
	err := suite.config.SetSloServices([]ServiceEndpoint{{Location: "https://idp.example.com/slo"}})

	fieldErr := suite.requireFieldError(err, "sloServices[0].binding")
	assert.Equal(suite.T(), "must not be empty", fieldErr.Reason)
	assert.Nil(suite.T(), suite.config.SloServices())
}

func (suite *IDPConfigTestSuite) TestGettersReturnCopies() {
	require.NoError(suite.T(), suite.config.SetSsoServices([]ServiceEndpoint{
		{Binding: "b", Location: "https://idp.example.com/sso"},
	}))
	claim := TokenClaimAttribute{ClaimName: "role", ClaimValue: "admin"}
	require.NoError(suite.T(), suite.config.SetTokenClaimGroupMappings(
		map[TokenClaimAttribute][]string{claim: {"admins"}}))

	services := suite.config.SsoServices()
	services[0].Location = "https://evil.example.com"
	mappings := suite.config.TokenClaimGroupMappings()
	mappings[claim][0] = "everyone"

	assert.Equal(suite.T(), "https://idp.example.com/sso", suite.config.SsoServices()[0].Location)
	assert.Equal(suite.T(), []string{"admins"}, suite.config.TokenClaimGroupMappings()[claim])
}

func (suite *IDPConfigTestSuite) TestSetSigningCertificateChain() {
	intermediate := suite.root.NewIntermediate(suite.T(), "Intermediate")
	leaf := intermediate.NewLeaf(suite.T(), "Leaf")
	chain := certtest.Chain(leaf, intermediate, suite.root)

	require.NoError(suite.T(), suite.config.SetSigningCertificateChain(chain))

	assert.Equal(suite.T(), chain, suite.config.SigningCertificateChain())
	assert.Equal(suite.T(), leaf.Cert.PublicKey, suite.config.PublicKey())
}

func (suite *IDPConfigTestSuite) TestSetSigningCertificateChainSelfSigned() {
	selfSigned := certtest.NewSelfSigned(suite.T(), "Self Signed")

	require.NoError(suite.T(), suite.config.SetSigningCertificateChain(certtest.Chain(selfSigned)))
	assert.Equal(suite.T(), selfSigned.Cert.PublicKey, suite.config.PublicKey())
}

func (suite *IDPConfigTestSuite) TestSetSigningCertificateChainEmpty() {
	suite.requireFieldError(suite.config.SetSigningCertificateChain(nil), FieldSigningCertificateChain)
	suite.requireFieldError(suite.config.SetSigningCertificateChain([]*x509.Certificate{}),
		FieldSigningCertificateChain)
	suite.requireFieldError(suite.config.SetSigningCertificateChain([]*x509.Certificate{nil}),
		FieldSigningCertificateChain)
}

func (suite *IDPConfigTestSuite) TestFailedChainLeavesPreviousChain() {
	leaf := suite.root.NewLeaf(suite.T(), "Leaf")
	good := certtest.Chain(leaf, suite.root)
	require.NoError(suite.T(), suite.config.SetSigningCertificateChain(good))

	otherRoot := certtest.NewRootCA(suite.T(), "Other Root")
	err := suite.config.SetSigningCertificateChain(certtest.Chain(leaf, otherRoot))

	var noPathErr *certchain.NoTrustedPathError
	require.ErrorAs(suite.T(), err, &noPathErr)
	assert.Equal(suite.T(), good, suite.config.SigningCertificateChain())
	assert.Equal(suite.T(), leaf.Cert.PublicKey, suite.config.PublicKey())
}

func (suite *IDPConfigTestSuite) TestExtraneousCertificatePropagates() {
	leaf := suite.root.NewLeaf(suite.T(), "Leaf")
	sibling := suite.root.NewIntermediate(suite.T(), "Sibling")

	err := suite.config.SetSigningCertificateChain(certtest.Chain(leaf, sibling, suite.root))

	var extraneousErr *certchain.ExtraneousCertsError
	require.ErrorAs(suite.T(), err, &extraneousErr)
	assert.Equal(suite.T(), []int{1}, extraneousErr.Indices)
	assert.Nil(suite.T(), suite.config.SigningCertificateChain())
}

func (suite *IDPConfigTestSuite) TestCustomChainValidator() {
	validatorErr := errors.New("rejected")
	config, err := New("entity", WithChainValidator(chainValidatorFunc(
		func([]*x509.Certificate) (*certchain.TrustPath, error) {
			return nil, validatorErr
		})))
	require.NoError(suite.T(), err)

	err = config.SetSigningCertificateChain(certtest.Chain(suite.root))

	assert.ErrorIs(suite.T(), err, validatorErr)
}

func (suite *IDPConfigTestSuite) TestSetPublicKey() {
	suite.requireFieldError(suite.config.SetPublicKey(nil), FieldPublicKey)

	require.NoError(suite.T(), suite.config.SetPublicKey(suite.root.Cert.PublicKey))
	assert.Equal(suite.T(), suite.root.Cert.PublicKey, suite.config.PublicKey())
}

func (suite *IDPConfigTestSuite) TestTokenClaimGroupMappings() {
	claim := TokenClaimAttribute{ClaimName: "dept", ClaimValue: "eng"}
	other := TokenClaimAttribute{ClaimName: "dept", ClaimValue: "ops"}
	valid := map[TokenClaimAttribute][]string{claim: {"engineers"}, other: {}}
	require.NoError(suite.T(), suite.config.SetTokenClaimGroupMappings(valid))

	suite.requireFieldError(suite.config.SetTokenClaimGroupMappings(nil), FieldTokenClaimGroupMappings)
	suite.requireFieldError(suite.config.SetTokenClaimGroupMappings(
		map[TokenClaimAttribute][]string{claim: {"x"}, other: nil}), FieldTokenClaimGroupMappings)

	assert.Equal(suite.T(), valid, suite.config.TokenClaimGroupMappings())
}

func (suite *IDPConfigTestSuite) TestSubjectFormatMappings() {
	mappings := []AttributeConfig{{TokenSubjectFormat: "email", StoreAttribute: "mail"}}
	require.NoError(suite.T(), suite.config.SetSubjectFormatMappings(mappings))
	require.NoError(suite.T(), suite.config.SetSubjectFormatMappings([]AttributeConfig{}))
	require.NoError(suite.T(), suite.config.SetSubjectFormatMappings(mappings))

	err := suite.config.SetSubjectFormatMappings([]AttributeConfig{{TokenSubjectFormat: "upn"}})
	suite.requireFieldError(err, "subjectFormatMappings[0].storeAttribute")
	assert.Equal(suite.T(), mappings, suite.config.SubjectFormatMappings())
}

func (suite *IDPConfigTestSuite) TestFlags() {
	suite.config.SetJitEnabled(true)
	suite.config.SetMultiTenant(true)

	assert.True(suite.T(), suite.config.JitEnabled())
	assert.True(suite.T(), suite.config.MultiTenant())
}

func (suite *IDPConfigTestSuite) TestIsMatchingURL() {
	require.NoError(suite.T(), suite.config.SetSsoServices([]ServiceEndpoint{
		{Binding: "b", Location: "https://idp.example.com/sso"},
	}))
	require.NoError(suite.T(), suite.config.SetSloServices([]ServiceEndpoint{
		{Binding: "b", Location: "https://idp.example.com/slo"},
	}))

	assert.True(suite.T(), suite.config.IsMatchingURL("https://idp.example.com/sso"))
	assert.True(suite.T(), suite.config.IsMatchingURL("https://idp.example.com/slo"))
	assert.False(suite.T(), suite.config.IsMatchingURL("https://idp.example.com/other"))
	assert.False(suite.T(), suite.config.IsMatchingURL(""))
}

func (suite *IDPConfigTestSuite) TestIsMatchingURLWithoutEndpoints() {
	assert.False(suite.T(), suite.config.IsMatchingURL("https://idp.example.com/sso"))
}

func (suite *IDPConfigTestSuite) TestClone() {
	require.NoError(suite.T(), suite.config.SetAlias(strPtr("corp")))
	require.NoError(suite.T(), suite.config.SetNameIDFormats([]string{"format"}))

	clone := suite.config.Clone()
	require.NoError(suite.T(), clone.SetAlias(strPtr("other")))
	require.NoError(suite.T(), clone.SetNameIDFormats([]string{"changed"}))

	alias, _ := suite.config.Alias()
	assert.Equal(suite.T(), "corp", alias)
	assert.Equal(suite.T(), []string{"format"}, suite.config.NameIDFormats())
	assert.Equal(suite.T(), suite.config.EntityID(), clone.EntityID())
}

type chainValidatorFunc func([]*x509.Certificate) (*certchain.TrustPath, error)

func (f chainValidatorFunc) ValidateX509(certs []*x509.Certificate) (*certchain.TrustPath, error) {
	return f(certs)
}
