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

// Package idpconfig defines the configuration record of a federated external identity provider.
package idpconfig

import (
	"crypto"
	"crypto/x509"
	"fmt"

	"github.com/asgardeo/thunderfed/internal/federation/certchain"
	"github.com/asgardeo/thunderfed/internal/system/utils"
)

// ChainValidator validates a signing certificate chain before it is attached to an IdP.
type ChainValidator interface {
	ValidateX509(certs []*x509.Certificate) (*certchain.TrustPath, error)
}

// IDPConfig is the configuration of a federated identity provider. It is not safe for
// concurrent use; callers that share an instance must serialize access.
type IDPConfig struct {
	entityID                string
	protocol                Protocol
	alias                   *string
	nameIDFormats           []string
	ssoServices             []ServiceEndpoint
	sloServices             []ServiceEndpoint
	signingCertificateChain []*x509.Certificate
	publicKey               crypto.PublicKey
	subjectFormatMappings   []AttributeConfig
	tokenClaimGroupMappings map[TokenClaimAttribute][]string
	jitEnabled              bool
	upnSuffix               *string
	multiTenant             bool
	oidcConfig              OidcConfig
	chainValidator          ChainValidator
}

// Option configures an IDPConfig at construction time.
type Option func(*IDPConfig) error

// WithProtocol sets the federation protocol. The value must be one of the supported protocol URNs.
func WithProtocol(protocol string) Option {
	return func(c *IDPConfig) error {
		if err := ValidateProtocol(protocol); err != nil {
			return err
		}
		c.protocol = Protocol(protocol)
		return nil
	}
}

// WithOidcConfig sets the OIDC configuration.
func WithOidcConfig(oidcConfig OidcConfig) Option {
	return func(c *IDPConfig) error {
		return c.SetOidcConfig(oidcConfig)
	}
}

// WithChainValidator replaces the validator used for signing certificate chains.
func WithChainValidator(validator ChainValidator) Option {
	return func(c *IDPConfig) error {
		if validator == nil {
			return newFieldError("chainValidator", "must not be null")
		}
		c.chainValidator = validator
		return nil
	}
}

// New creates an IdP configuration for the given entity ID. The protocol defaults to SAML 2.0.
func New(entityID string, opts ...Option) (*IDPConfig, error) {
	if utils.IsBlank(entityID) {
		return nil, newFieldError(FieldEntityID, "must not be empty")
	}

	c := &IDPConfig{
		entityID:                entityID,
		protocol:                ProtocolSAML2,
		tokenClaimGroupMappings: map[TokenClaimAttribute][]string{},
		chainValidator:          certchain.NewValidator(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ValidateProtocol checks that the given value is a supported protocol.
func ValidateProtocol(protocol string) error {
	for _, p := range supportedProtocols {
		if string(p) == protocol {
			return nil
		}
	}
	return &InvalidProtocolError{Protocol: protocol}
}

// EntityID returns the unique identifier of the identity provider.
func (c *IDPConfig) EntityID() string {
	return c.entityID
}

// Protocol returns the federation protocol of the identity provider.
func (c *IDPConfig) Protocol() Protocol {
	return c.protocol
}

// Alias returns the alias and whether one is set.
func (c *IDPConfig) Alias() (string, bool) {
	if c.alias == nil {
		return "", false
	}
	return *c.alias, true
}

// SetAlias sets or clears the alias. A non-nil alias must not be empty.
func (c *IDPConfig) SetAlias(alias *string) error {
	value, err := optionalString(FieldAlias, alias)
	if err != nil {
		return err
	}
	c.alias = value
	return nil
}

// UpnSuffix returns the UPN suffix and whether one is set.
func (c *IDPConfig) UpnSuffix() (string, bool) {
	if c.upnSuffix == nil {
		return "", false
	}
	return *c.upnSuffix, true
}

// SetUpnSuffix sets or clears the UPN suffix. A non-nil suffix must not be empty.
func (c *IDPConfig) SetUpnSuffix(upnSuffix *string) error {
	value, err := optionalString(FieldUpnSuffix, upnSuffix)
	if err != nil {
		return err
	}
	c.upnSuffix = value
	return nil
}

// NameIDFormats returns the supported NameID formats.
func (c *IDPConfig) NameIDFormats() []string {
	return cloneStrings(c.nameIDFormats)
}

// SetNameIDFormats replaces the supported NameID formats. Duplicates are dropped, keeping the
// first occurrence.
func (c *IDPConfig) SetNameIDFormats(formats []string) error {
	seen := make(map[string]struct{}, len(formats))
	var result []string
	for i, format := range formats {
		if utils.IsBlank(format) {
			return newFieldError(FieldNameIDFormats, fmt.Sprintf("format at index %d must not be empty", i))
		}
		if _, ok := seen[format]; ok {
			continue
		}
		seen[format] = struct{}{}
		result = append(result, format)
	}
	c.nameIDFormats = result
	return nil
}

// SsoServices returns the single sign-on endpoints.
func (c *IDPConfig) SsoServices() []ServiceEndpoint {
	return cloneEndpoints(c.ssoServices)
}

// SetSsoServices replaces the single sign-on endpoints.
func (c *IDPConfig) SetSsoServices(endpoints []ServiceEndpoint) error {
	if err := validateEndpoints(FieldSsoServices, endpoints); err != nil {
		return err
	}
	c.ssoServices = cloneEndpoints(endpoints)
	return nil
}

// SloServices returns the single logout endpoints.
func (c *IDPConfig) SloServices() []ServiceEndpoint {
	return cloneEndpoints(c.sloServices)
}

// SetSloServices replaces the single logout endpoints.
func (c *IDPConfig) SetSloServices(endpoints []ServiceEndpoint) error {
	if err := validateEndpoints(FieldSloServices, endpoints); err != nil {
		return err
	}
	c.sloServices = cloneEndpoints(endpoints)
	return nil
}

// SigningCertificateChain returns the signing certificate chain, leaf first.
func (c *IDPConfig) SigningCertificateChain() []*x509.Certificate {
	return cloneCertificates(c.signingCertificateChain)
}

// SetSigningCertificateChain validates the chain as a single trust path from the leaf to the last
// certificate and stores it. The public key is set to the leaf's key. Errors from the chain
// validator are returned unchanged and leave the previous chain in place.
func (c *IDPConfig) SetSigningCertificateChain(chain []*x509.Certificate) error {
	if len(chain) == 0 {
		return newFieldError(FieldSigningCertificateChain, "must contain at least one certificate")
	}
	for i, cert := range chain {
		if cert == nil {
			return newFieldError(FieldSigningCertificateChain,
				fmt.Sprintf("certificate at index %d must not be null", i))
		}
	}

	if _, err := c.chainValidator.ValidateX509(chain); err != nil {
		return err
	}

	c.signingCertificateChain = cloneCertificates(chain)
	c.publicKey = chain[0].PublicKey
	return nil
}

// PublicKey returns the public key used to verify tokens issued by the identity provider.
func (c *IDPConfig) PublicKey() crypto.PublicKey {
	return c.publicKey
}

// SetPublicKey sets the public key. A nil key is rejected.
func (c *IDPConfig) SetPublicKey(publicKey crypto.PublicKey) error {
	if publicKey == nil {
		return newFieldError(FieldPublicKey, "must not be null")
	}
	c.publicKey = publicKey
	return nil
}

// SubjectFormatMappings returns the subject format mapping rules.
func (c *IDPConfig) SubjectFormatMappings() []AttributeConfig {
	return cloneAttributeConfigs(c.subjectFormatMappings)
}

// SetSubjectFormatMappings replaces the subject format mapping rules.
func (c *IDPConfig) SetSubjectFormatMappings(mappings []AttributeConfig) error {
	for i := range mappings {
		field := fmt.Sprintf("%s[%d]", FieldSubjectFormatMappings, i)
		if err := validateStruct(field, mappings[i]); err != nil {
			return err
		}
	}
	c.subjectFormatMappings = cloneAttributeConfigs(mappings)
	return nil
}

// TokenClaimGroupMappings returns the token claim to group mappings.
func (c *IDPConfig) TokenClaimGroupMappings() map[TokenClaimAttribute][]string {
	return cloneGroupMappings(c.tokenClaimGroupMappings)
}

// SetTokenClaimGroupMappings replaces the token claim to group mappings. The map must not be nil
// and no claim may map to a nil group list; empty lists are allowed.
func (c *IDPConfig) SetTokenClaimGroupMappings(mappings map[TokenClaimAttribute][]string) error {
	if mappings == nil {
		return newFieldError(FieldTokenClaimGroupMappings, "must not be null")
	}
	for claim, groups := range mappings {
		if groups == nil {
			return newFieldError(FieldTokenClaimGroupMappings,
				fmt.Sprintf("group list for claim '%s=%s' must not be null", claim.ClaimName, claim.ClaimValue))
		}
	}
	c.tokenClaimGroupMappings = cloneGroupMappings(mappings)
	return nil
}

// JitEnabled reports whether just-in-time provisioning is enabled.
func (c *IDPConfig) JitEnabled() bool {
	return c.jitEnabled
}

// SetJitEnabled enables or disables just-in-time provisioning.
func (c *IDPConfig) SetJitEnabled(enabled bool) {
	c.jitEnabled = enabled
}

// MultiTenant reports whether the identity provider serves multiple tenants.
func (c *IDPConfig) MultiTenant() bool {
	return c.multiTenant
}

// SetMultiTenant sets the multi-tenant flag.
func (c *IDPConfig) SetMultiTenant(multiTenant bool) {
	c.multiTenant = multiTenant
}

// OidcConfig returns the OIDC configuration. It is the zero value when none was supplied.
func (c *IDPConfig) OidcConfig() OidcConfig {
	return c.oidcConfig.clone()
}

// SetOidcConfig replaces the OIDC configuration.
func (c *IDPConfig) SetOidcConfig(oidcConfig OidcConfig) error {
	if err := validateStruct(FieldOidcConfig, oidcConfig); err != nil {
		return err
	}
	c.oidcConfig = oidcConfig.clone()
	return nil
}

// IsMatchingURL reports whether the URL equals the location of any SSO or SLO endpoint.
func (c *IDPConfig) IsMatchingURL(url string) bool {
	if url == "" {
		return false
	}
	for _, endpoint := range c.ssoServices {
		if endpoint.Location == url {
			return true
		}
	}
	for _, endpoint := range c.sloServices {
		if endpoint.Location == url {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the configuration. Certificates and keys are immutable and shared.
func (c *IDPConfig) Clone() *IDPConfig {
	clone := *c
	clone.alias = cloneStringPtr(c.alias)
	clone.upnSuffix = cloneStringPtr(c.upnSuffix)
	clone.nameIDFormats = cloneStrings(c.nameIDFormats)
	clone.ssoServices = cloneEndpoints(c.ssoServices)
	clone.sloServices = cloneEndpoints(c.sloServices)
	clone.signingCertificateChain = cloneCertificates(c.signingCertificateChain)
	clone.subjectFormatMappings = cloneAttributeConfigs(c.subjectFormatMappings)
	clone.tokenClaimGroupMappings = cloneGroupMappings(c.tokenClaimGroupMappings)
	clone.oidcConfig = c.oidcConfig.clone()
	return &clone
}

func optionalString(field string, value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	if utils.IsBlank(*value) {
		return nil, newFieldError(field, "must be null or a non-empty value")
	}
	return cloneStringPtr(value), nil
}

func cloneStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}

func cloneEndpoints(endpoints []ServiceEndpoint) []ServiceEndpoint {
	if endpoints == nil {
		return nil
	}
	return append([]ServiceEndpoint{}, endpoints...)
}

func cloneCertificates(certs []*x509.Certificate) []*x509.Certificate {
	if certs == nil {
		return nil
	}
	return append([]*x509.Certificate{}, certs...)
}

func cloneAttributeConfigs(mappings []AttributeConfig) []AttributeConfig {
	if mappings == nil {
		return nil
	}
	return append([]AttributeConfig{}, mappings...)
}

func cloneGroupMappings(mappings map[TokenClaimAttribute][]string) map[TokenClaimAttribute][]string {
	if mappings == nil {
		return nil
	}
	result := make(map[TokenClaimAttribute][]string, len(mappings))
	for claim, groups := range mappings {
		result[claim] = cloneStrings(groups)
	}
	return result
}
