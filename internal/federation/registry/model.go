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
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/asgardeo/thunderfed/internal/federation/certchain"
	"github.com/asgardeo/thunderfed/internal/federation/idpconfig"
	sysutils "github.com/asgardeo/thunderfed/internal/system/utils"
)

const publicKeyPEMType = "PUBLIC KEY"

// idpAttributes is the JSON document stored in the ATTRIBUTES column.
type idpAttributes struct {
	NameIDFormats           []string                    `json:"nameIdFormats,omitempty"`
	SsoServices             []idpconfig.ServiceEndpoint `json:"ssoServices,omitempty"`
	SloServices             []idpconfig.ServiceEndpoint `json:"sloServices,omitempty"`
	SubjectFormatMappings   []idpconfig.AttributeConfig `json:"subjectFormatMappings,omitempty"`
	TokenClaimGroupMappings []claimGroupMapping         `json:"tokenClaimGroupMappings,omitempty"`
	OidcConfig              *idpconfig.OidcConfig       `json:"oidcConfig,omitempty"`
}

// claimGroupMapping is the stored form of a single token claim to group mapping.
type claimGroupMapping struct {
	ClaimName  string   `json:"claimName"`
	ClaimValue string   `json:"claimValue"`
	Groups     []string `json:"groups"`
}

// idpRow holds the column values of a FEDERATED_IDP row.
type idpRow struct {
	ID          string
	EntityID    string
	Protocol    string
	Alias       *string
	UpnSuffix   *string
	JitEnabled  string
	MultiTenant string
	PublicKey   *string
	Attributes  string
	CertPEMs    []string
}

// newIDPRow converts an IdP configuration into its stored form.
func newIDPRow(id string, idp *idpconfig.IDPConfig) (*idpRow, error) {
	attributes, err := json.Marshal(newIDPAttributes(idp))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal idp attributes: %w", err)
	}

	row := &idpRow{
		ID:          id,
		EntityID:    idp.EntityID(),
		Protocol:    string(idp.Protocol()),
		JitEnabled:  sysutils.BoolToNumString(idp.JitEnabled()),
		MultiTenant: sysutils.BoolToNumString(idp.MultiTenant()),
		Attributes:  string(attributes),
	}
	if alias, ok := idp.Alias(); ok {
		row.Alias = &alias
	}
	if upnSuffix, ok := idp.UpnSuffix(); ok {
		row.UpnSuffix = &upnSuffix
	}
	if publicKey := idp.PublicKey(); publicKey != nil {
		der, err := x509.MarshalPKIXPublicKey(publicKey)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal idp public key: %w", err)
		}
		publicKeyPEM := string(pem.EncodeToMemory(&pem.Block{Type: publicKeyPEMType, Bytes: der}))
		row.PublicKey = &publicKeyPEM
	}
	for _, cert := range idp.SigningCertificateChain() {
		row.CertPEMs = append(row.CertPEMs, string(certchain.EncodePEM(cert)))
	}

	return row, nil
}

func newIDPAttributes(idp *idpconfig.IDPConfig) idpAttributes {
	attributes := idpAttributes{
		NameIDFormats:         idp.NameIDFormats(),
		SsoServices:           idp.SsoServices(),
		SloServices:           idp.SloServices(),
		SubjectFormatMappings: idp.SubjectFormatMappings(),
	}
	for claim, groups := range idp.TokenClaimGroupMappings() {
		attributes.TokenClaimGroupMappings = append(attributes.TokenClaimGroupMappings, claimGroupMapping{
			ClaimName:  claim.ClaimName,
			ClaimValue: claim.ClaimValue,
			Groups:     groups,
		})
	}
	slices.SortFunc(attributes.TokenClaimGroupMappings, func(a, b claimGroupMapping) int {
		if c := strings.Compare(a.ClaimName, b.ClaimName); c != 0 {
			return c
		}
		return strings.Compare(a.ClaimValue, b.ClaimValue)
	})
	if oidcConfig := idp.OidcConfig(); !isZeroOidcConfig(oidcConfig) {
		attributes.OidcConfig = &oidcConfig
	}
	return attributes
}

func isZeroOidcConfig(oidcConfig idpconfig.OidcConfig) bool {
	return oidcConfig.Issuer == "" && oidcConfig.ClientID == "" && oidcConfig.ClientSecret == "" &&
		oidcConfig.AuthorizeEndpoint == "" && oidcConfig.TokenEndpoint == "" &&
		oidcConfig.JWKSEndpoint == "" && oidcConfig.LogoutEndpoint == "" &&
		oidcConfig.PostLogoutRedirectURI == "" && len(oidcConfig.Scopes) == 0
}

// buildIDPRowFromResultRow reads the columns of a FEDERATED_IDP result row.
func buildIDPRowFromResultRow(row map[string]interface{}) (*idpRow, error) {
	id, err := stringColumn(row, "id")
	if err != nil {
		return nil, err
	}
	entityID, err := stringColumn(row, "entity_id")
	if err != nil {
		return nil, err
	}
	protocol, err := stringColumn(row, "protocol")
	if err != nil {
		return nil, err
	}
	jitEnabled, err := stringColumn(row, "jit_enabled")
	if err != nil {
		return nil, err
	}
	multiTenant, err := stringColumn(row, "multi_tenant")
	if err != nil {
		return nil, err
	}
	attributes, err := stringColumn(row, "attributes")
	if err != nil {
		return nil, err
	}

	result := &idpRow{
		ID:          id,
		EntityID:    entityID,
		Protocol:    protocol,
		JitEnabled:  jitEnabled,
		MultiTenant: multiTenant,
		Attributes:  attributes,
	}
	if result.Alias, err = nullableStringColumn(row, "alias"); err != nil {
		return nil, err
	}
	if result.UpnSuffix, err = nullableStringColumn(row, "upn_suffix"); err != nil {
		return nil, err
	}
	if result.PublicKey, err = nullableStringColumn(row, "public_key"); err != nil {
		return nil, err
	}
	return result, nil
}

// toIDPConfig rebuilds the IdP configuration through its validating setters, so a stored chain
// that no longer forms a trust path is refused.
func (r *idpRow) toIDPConfig() (*idpconfig.IDPConfig, error) {
	idp, err := idpconfig.New(r.EntityID, idpconfig.WithProtocol(r.Protocol))
	if err != nil {
		return nil, err
	}

	var attributes idpAttributes
	if r.Attributes != "" {
		if err := json.Unmarshal([]byte(r.Attributes), &attributes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal idp attributes: %w", err)
		}
	}

	update := idpconfig.Update{
		NameIDFormats:           attributes.NameIDFormats,
		SsoServices:             attributes.SsoServices,
		SloServices:             attributes.SloServices,
		SubjectFormatMappings:   attributes.SubjectFormatMappings,
		TokenClaimGroupMappings: map[idpconfig.TokenClaimAttribute][]string{},
		OidcConfig:              attributes.OidcConfig,
	}
	for _, mapping := range attributes.TokenClaimGroupMappings {
		groups := mapping.Groups
		if groups == nil {
			groups = []string{}
		}
		claim := idpconfig.TokenClaimAttribute{ClaimName: mapping.ClaimName, ClaimValue: mapping.ClaimValue}
		update.TokenClaimGroupMappings[claim] = groups
	}
	update.Alias = r.Alias
	update.UpnSuffix = r.UpnSuffix
	jitEnabled := sysutils.NumStringToBool(r.JitEnabled)
	multiTenant := sysutils.NumStringToBool(r.MultiTenant)
	update.JitEnabled = &jitEnabled
	update.MultiTenant = &multiTenant

	if len(r.CertPEMs) > 0 {
		chain, err := certchain.ParsePEMChain([]byte(strings.Join(r.CertPEMs, "")))
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored certificate chain: %w", err)
		}
		update.SigningCertificateChain = chain
	}
	if r.PublicKey != nil && *r.PublicKey != "" {
		block, _ := pem.Decode([]byte(*r.PublicKey))
		if block == nil || block.Type != publicKeyPEMType {
			return nil, errors.New("failed to decode stored public key")
		}
		publicKey, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored public key: %w", err)
		}
		update.PublicKey = publicKey
	}

	if err := idp.Apply(update); err != nil {
		return nil, err
	}
	return idp, nil
}

func stringColumn(row map[string]interface{}, column string) (string, error) {
	switch value := row[column].(type) {
	case string:
		return value, nil
	case []byte:
		return string(value), nil
	default:
		return "", fmt.Errorf("failed to parse %s as string", column)
	}
}

func nullableStringColumn(row map[string]interface{}, column string) (*string, error) {
	if row[column] == nil {
		return nil, nil
	}
	value, err := stringColumn(row, column)
	if err != nil {
		return nil, err
	}
	return &value, nil
}
