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
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/asgardeo/thunderfed/internal/federation/idpconfig"
	"github.com/asgardeo/thunderfed/internal/system/log"
)

const (
	outputFormatYAML = "yaml"
	outputFormatJSON = "json"
)

// idpView is the printable form of an IdP configuration.
type idpView struct {
	EntityID              string                      `yaml:"entityId" json:"entityId"`
	Protocol              string                      `yaml:"protocol" json:"protocol"`
	Alias                 string                      `yaml:"alias,omitempty" json:"alias,omitempty"`
	UpnSuffix             string                      `yaml:"upnSuffix,omitempty" json:"upnSuffix,omitempty"`
	JitEnabled            bool                        `yaml:"jitEnabled" json:"jitEnabled"`
	MultiTenant           bool                        `yaml:"multiTenant" json:"multiTenant"`
	NameIDFormats         []string                    `yaml:"nameIdFormats,omitempty" json:"nameIdFormats,omitempty"`
	SsoServices           []idpconfig.ServiceEndpoint `yaml:"ssoServices,omitempty" json:"ssoServices,omitempty"`
	SloServices           []idpconfig.ServiceEndpoint `yaml:"sloServices,omitempty" json:"sloServices,omitempty"`
	SubjectFormatMappings []idpconfig.AttributeConfig `yaml:"subjectFormatMappings,omitempty" json:"subjectFormatMappings,omitempty"`
	ClaimGroupMappings    []claimGroupMappingView     `yaml:"tokenClaimGroupMappings,omitempty" json:"tokenClaimGroupMappings,omitempty"`
	PublicKey             *publicKeyView              `yaml:"publicKey,omitempty" json:"publicKey,omitempty"`
	OidcConfig            *oidcConfigView             `yaml:"oidcConfig,omitempty" json:"oidcConfig,omitempty"`
	Certificates          []certificateView           `yaml:"certificates,omitempty" json:"certificates,omitempty"`
}

// claimGroupMappingView is one token claim to group mapping.
type claimGroupMappingView struct {
	ClaimName  string   `yaml:"claimName" json:"claimName"`
	ClaimValue string   `yaml:"claimValue" json:"claimValue"`
	Groups     []string `yaml:"groups" json:"groups"`
}

// publicKeyView identifies the token verification key without printing it.
type publicKeyView struct {
	Algorithm   string `yaml:"algorithm" json:"algorithm"`
	Fingerprint string `yaml:"sha256Fingerprint,omitempty" json:"sha256Fingerprint,omitempty"`
}

// oidcConfigView is the OIDC configuration with the client secret masked.
type oidcConfigView struct {
	Issuer                string   `yaml:"issuer,omitempty" json:"issuer,omitempty"`
	ClientID              string   `yaml:"clientId,omitempty" json:"clientId,omitempty"`
	ClientSecret          string   `yaml:"clientSecret,omitempty" json:"clientSecret,omitempty"`
	AuthorizeEndpoint     string   `yaml:"authorizeEndpoint,omitempty" json:"authorizeEndpoint,omitempty"`
	TokenEndpoint         string   `yaml:"tokenEndpoint,omitempty" json:"tokenEndpoint,omitempty"`
	JWKSEndpoint          string   `yaml:"jwksEndpoint,omitempty" json:"jwksEndpoint,omitempty"`
	LogoutEndpoint        string   `yaml:"logoutEndpoint,omitempty" json:"logoutEndpoint,omitempty"`
	PostLogoutRedirectURI string   `yaml:"postLogoutRedirectUri,omitempty" json:"postLogoutRedirectUri,omitempty"`
	Scopes                []string `yaml:"scopes,omitempty" json:"scopes,omitempty"`
}

// certificateView is the printable form of a signing chain certificate.
type certificateView struct {
	Subject  string `yaml:"subject" json:"subject"`
	Issuer   string `yaml:"issuer" json:"issuer"`
	NotAfter string `yaml:"notAfter" json:"notAfter"`
}

func newIDPView(idp *idpconfig.IDPConfig) idpView {
	view := idpView{
		EntityID:              idp.EntityID(),
		Protocol:              string(idp.Protocol()),
		JitEnabled:            idp.JitEnabled(),
		MultiTenant:           idp.MultiTenant(),
		NameIDFormats:         idp.NameIDFormats(),
		SsoServices:           idp.SsoServices(),
		SloServices:           idp.SloServices(),
		SubjectFormatMappings: idp.SubjectFormatMappings(),
	}
	view.Alias, _ = idp.Alias()
	view.UpnSuffix, _ = idp.UpnSuffix()
	view.ClaimGroupMappings = newClaimGroupMappingViews(idp.TokenClaimGroupMappings())
	if key := idp.PublicKey(); key != nil {
		view.PublicKey = newPublicKeyView(key)
	}
	if oidc := idp.OidcConfig(); !isZeroOidcConfig(oidc) {
		view.OidcConfig = &oidcConfigView{
			Issuer:                oidc.Issuer,
			ClientID:              oidc.ClientID,
			ClientSecret:          log.MaskString(oidc.ClientSecret),
			AuthorizeEndpoint:     oidc.AuthorizeEndpoint,
			TokenEndpoint:         oidc.TokenEndpoint,
			JWKSEndpoint:          oidc.JWKSEndpoint,
			LogoutEndpoint:        oidc.LogoutEndpoint,
			PostLogoutRedirectURI: oidc.PostLogoutRedirectURI,
			Scopes:                oidc.Scopes,
		}
	}
	for _, cert := range idp.SigningCertificateChain() {
		view.Certificates = append(view.Certificates, certificateView{
			Subject:  cert.Subject.String(),
			Issuer:   cert.Issuer.String(),
			NotAfter: cert.NotAfter.UTC().Format(time.RFC3339),
		})
	}
	return view
}

// newClaimGroupMappingViews lists the mappings ordered by claim name and value.
func newClaimGroupMappingViews(mappings map[idpconfig.TokenClaimAttribute][]string) []claimGroupMappingView {
	views := make([]claimGroupMappingView, 0, len(mappings))
	for claim, groups := range mappings {
		if groups == nil {
			groups = []string{}
		}
		views = append(views, claimGroupMappingView{ClaimName: claim.ClaimName, ClaimValue: claim.ClaimValue,
			Groups: groups})
	}
	sort.Slice(views, func(i, j int) bool {
		if views[i].ClaimName != views[j].ClaimName {
			return views[i].ClaimName < views[j].ClaimName
		}
		return views[i].ClaimValue < views[j].ClaimValue
	})
	return views
}

func newPublicKeyView(key crypto.PublicKey) *publicKeyView {
	view := &publicKeyView{Algorithm: "unknown"}
	switch key.(type) {
	case *rsa.PublicKey:
		view.Algorithm = "RSA"
	case *ecdsa.PublicKey:
		view.Algorithm = "ECDSA"
	case ed25519.PublicKey:
		view.Algorithm = "Ed25519"
	}
	if der, err := x509.MarshalPKIXPublicKey(key); err == nil {
		sum := sha256.Sum256(der)
		view.Fingerprint = hex.EncodeToString(sum[:])
	}
	return view
}

func isZeroOidcConfig(oidc idpconfig.OidcConfig) bool {
	return oidc.Issuer == "" && oidc.ClientID == "" && oidc.ClientSecret == "" &&
		oidc.AuthorizeEndpoint == "" && oidc.TokenEndpoint == "" && oidc.JWKSEndpoint == "" &&
		oidc.LogoutEndpoint == "" && oidc.PostLogoutRedirectURI == "" && len(oidc.Scopes) == 0
}

// writeIDP writes the IdP in the requested format.
func writeIDP(out io.Writer, idp *idpconfig.IDPConfig, format string) error {
	view := newIDPView(idp)
	switch format {
	case outputFormatYAML:
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)
		if err := encoder.Encode(view); err != nil {
			return fmt.Errorf("failed to encode identity provider: %w", err)
		}
		return encoder.Close()
	case outputFormatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(view)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// writeIDPTable writes one line per IdP.
func writeIDPTable(out io.Writer, idps []*idpconfig.IDPConfig) error {
	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ENTITY ID\tPROTOCOL\tALIAS\tCERTIFICATES")
	for _, idp := range idps {
		alias, ok := idp.Alias()
		if !ok {
			alias = "-"
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n", idp.EntityID(), idp.Protocol(), alias,
			strconv.Itoa(len(idp.SigningCertificateChain())))
	}
	return writer.Flush()
}
