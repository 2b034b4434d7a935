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
	"crypto"
	"crypto/x509"
)

// Update describes a change to the mutable attributes of an IDPConfig. Nil fields are left
// unchanged. Alias and UpnSuffix are cleared with ClearAlias and ClearUpnSuffix; setting a value
// and its clear flag in the same update is rejected.
type Update struct {
	Alias                   *string
	ClearAlias              bool
	UpnSuffix               *string
	ClearUpnSuffix          bool
	NameIDFormats           []string
	SsoServices             []ServiceEndpoint
	SloServices             []ServiceEndpoint
	SigningCertificateChain []*x509.Certificate
	PublicKey               crypto.PublicKey
	SubjectFormatMappings   []AttributeConfig
	TokenClaimGroupMappings map[TokenClaimAttribute][]string
	JitEnabled              *bool
	MultiTenant             *bool
	OidcConfig              *OidcConfig
}

// Apply validates every attribute present in the update against a copy of the configuration and
// commits them together. If any attribute is rejected the configuration is left unchanged and the
// first error is returned.
func (c *IDPConfig) Apply(update Update) error {
	next := c.Clone()
	if err := update.applyTo(next); err != nil {
		return err
	}
	*c = *next
	return nil
}

func (u Update) applyTo(c *IDPConfig) error {
	if u.ClearAlias && u.Alias != nil {
		return newFieldError(FieldAlias, "must not be set and cleared in the same update")
	}
	if u.ClearUpnSuffix && u.UpnSuffix != nil {
		return newFieldError(FieldUpnSuffix, "must not be set and cleared in the same update")
	}
	switch {
	case u.ClearAlias:
		c.alias = nil
	case u.Alias != nil:
		if err := c.SetAlias(u.Alias); err != nil {
			return err
		}
	}
	switch {
	case u.ClearUpnSuffix:
		c.upnSuffix = nil
	case u.UpnSuffix != nil:
		if err := c.SetUpnSuffix(u.UpnSuffix); err != nil {
			return err
		}
	}
	if u.NameIDFormats != nil {
		if err := c.SetNameIDFormats(u.NameIDFormats); err != nil {
			return err
		}
	}
	if u.SsoServices != nil {
		if err := c.SetSsoServices(u.SsoServices); err != nil {
			return err
		}
	}
	if u.SloServices != nil {
		if err := c.SetSloServices(u.SloServices); err != nil {
			return err
		}
	}
	if u.SigningCertificateChain != nil {
		if err := c.SetSigningCertificateChain(u.SigningCertificateChain); err != nil {
			return err
		}
	}
	// An explicit key wins over the key taken from the new chain.
	if u.PublicKey != nil {
		if err := c.SetPublicKey(u.PublicKey); err != nil {
			return err
		}
	}
	if u.SubjectFormatMappings != nil {
		if err := c.SetSubjectFormatMappings(u.SubjectFormatMappings); err != nil {
			return err
		}
	}
	if u.TokenClaimGroupMappings != nil {
		if err := c.SetTokenClaimGroupMappings(u.TokenClaimGroupMappings); err != nil {
			return err
		}
	}
	if u.JitEnabled != nil {
		c.SetJitEnabled(*u.JitEnabled)
	}
	if u.MultiTenant != nil {
		c.SetMultiTenant(*u.MultiTenant)
	}
	if u.OidcConfig != nil {
		if err := c.SetOidcConfig(*u.OidcConfig); err != nil {
			return err
		}
	}
	return nil
}
