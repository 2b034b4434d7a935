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

// Package metadata converts between SAML 2.0 metadata documents and federated IdP configurations.
package metadata

import (
	"crypto/x509"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	"github.com/crewjam/saml"
	"github.com/crewjam/saml/samlsp"

	"github.com/asgardeo/thunderfed/internal/federation/idpconfig"
	"github.com/asgardeo/thunderfed/internal/system/log"
)

const keyUseSigning = "signing"

var (
	// ErrNoIDPDescriptor is returned when the metadata does not describe an identity provider.
	ErrNoIDPDescriptor = errors.New("metadata does not contain an IDPSSODescriptor")
	// ErrUnsupportedProtocol is returned when exporting an IdP that does not speak SAML 2.0.
	ErrUnsupportedProtocol = errors.New("only SAML 2.0 identity providers can be exported as metadata")
)

// Import builds an IdP configuration from a SAML 2.0 EntityDescriptor or EntitiesDescriptor. The
// first IDPSSODescriptor supplies the NameID formats, the SSO and SLO endpoints and the signing
// certificate chain, which is taken from the first signing key descriptor in document order.
func Import(data []byte, opts ...idpconfig.Option) (*idpconfig.IDPConfig, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "MetadataImporter"))

	entity, err := samlsp.ParseMetadata(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}
	if len(entity.IDPSSODescriptors) == 0 {
		return nil, ErrNoIDPDescriptor
	}
	descriptor := entity.IDPSSODescriptors[0]

	idp, err := idpconfig.New(entity.EntityID, opts...)
	if err != nil {
		return nil, err
	}

	chain, err := signingChain(descriptor.KeyDescriptors)
	if err != nil {
		return nil, err
	}

	update := idpconfig.Update{
		SsoServices:             toServiceEndpoints(descriptor.SingleSignOnServices),
		SloServices:             toServiceEndpoints(descriptor.SingleLogoutServices),
		SigningCertificateChain: chain,
	}
	for _, format := range descriptor.NameIDFormats {
		update.NameIDFormats = append(update.NameIDFormats, strings.TrimSpace(string(format)))
	}
	if err := idp.Apply(update); err != nil {
		return nil, err
	}

	logger.Debug("Imported identity provider metadata", log.String(log.LoggerKeyEntityID, idp.EntityID()),
		log.Int("certificates", len(chain)))
	return idp, nil
}

// Export renders the IdP configuration as a SAML 2.0 EntityDescriptor.
func Export(idp *idpconfig.IDPConfig) ([]byte, error) {
	if idp.Protocol() != idpconfig.ProtocolSAML2 {
		return nil, ErrUnsupportedProtocol
	}

	descriptor := saml.IDPSSODescriptor{
		SSODescriptor: saml.SSODescriptor{
			RoleDescriptor: saml.RoleDescriptor{
				ProtocolSupportEnumeration: string(idpconfig.ProtocolSAML2),
			},
			SingleLogoutServices: toSAMLEndpoints(idp.SloServices()),
		},
		SingleSignOnServices: toSAMLEndpoints(idp.SsoServices()),
	}
	for _, format := range idp.NameIDFormats() {
		descriptor.NameIDFormats = append(descriptor.NameIDFormats, saml.NameIDFormat(format))
	}

	if chain := idp.SigningCertificateChain(); len(chain) > 0 {
		certificates := make([]saml.X509Certificate, 0, len(chain))
		for _, cert := range chain {
			certificates = append(certificates, saml.X509Certificate{
				Data: base64.StdEncoding.EncodeToString(cert.Raw),
			})
		}
		descriptor.KeyDescriptors = []saml.KeyDescriptor{
			{
				Use: keyUseSigning,
				KeyInfo: saml.KeyInfo{
					X509Data: saml.X509Data{X509Certificates: certificates},
				},
			},
		}
	}

	entity := saml.EntityDescriptor{
		EntityID:          idp.EntityID(),
		IDPSSODescriptors: []saml.IDPSSODescriptor{descriptor},
	}
	data, err := xml.MarshalIndent(entity, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return data, nil
}

// signingChain decodes the certificates of the first key descriptor usable for signing.
func signingChain(descriptors []saml.KeyDescriptor) ([]*x509.Certificate, error) {
	for _, descriptor := range descriptors {
		if descriptor.Use != "" && descriptor.Use != keyUseSigning {
			continue
		}
		certificates := descriptor.KeyInfo.X509Data.X509Certificates
		if len(certificates) == 0 {
			continue
		}

		chain := make([]*x509.Certificate, 0, len(certificates))
		for i, certificate := range certificates {
			der, err := base64.StdEncoding.DecodeString(stripWhitespace(certificate.Data))
			if err != nil {
				return nil, fmt.Errorf("failed to decode signing certificate at position %d: %w", i, err)
			}
			cert, err := x509.ParseCertificate(der)
			if err != nil {
				return nil, fmt.Errorf("failed to parse signing certificate at position %d: %w", i, err)
			}
			chain = append(chain, cert)
		}
		return chain, nil
	}
	return nil, nil
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
}

func toServiceEndpoints(endpoints []saml.Endpoint) []idpconfig.ServiceEndpoint {
	if len(endpoints) == 0 {
		return nil
	}
	result := make([]idpconfig.ServiceEndpoint, 0, len(endpoints))
	for _, endpoint := range endpoints {
		result = append(result, idpconfig.ServiceEndpoint{
			Binding:  endpoint.Binding,
			Location: endpoint.Location,
		})
	}
	return result
}

func toSAMLEndpoints(endpoints []idpconfig.ServiceEndpoint) []saml.Endpoint {
	if len(endpoints) == 0 {
		return nil
	}
	result := make([]saml.Endpoint, 0, len(endpoints))
	for _, endpoint := range endpoints {
		result = append(result, saml.Endpoint{
			Binding:  endpoint.Binding,
			Location: endpoint.Location,
		})
	}
	return result
}
