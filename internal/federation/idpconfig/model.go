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

// ServiceEndpoint is a single sign-on or single logout endpoint of an identity provider.
type ServiceEndpoint struct {
	Name     string `json:"name,omitempty"`
	Binding  string `json:"binding" validate:"required"`
	Location string `json:"location" validate:"required,url"`
}

// AttributeConfig maps a token subject format to the store attribute it is resolved against.
type AttributeConfig struct {
	TokenSubjectFormat string `json:"tokenSubjectFormat" validate:"required"`
	StoreAttribute     string `json:"storeAttribute" validate:"required"`
}

// TokenClaimAttribute identifies a token claim and the value that triggers a group mapping.
type TokenClaimAttribute struct {
	ClaimName  string `json:"claimName"`
	ClaimValue string `json:"claimValue"`
}

// OidcConfig holds the OpenID Connect settings of an OAuth 2.0 identity provider.
type OidcConfig struct {
	Issuer                string   `json:"issuer,omitempty" validate:"omitempty,url"`
	ClientID              string   `json:"clientId,omitempty"`
	ClientSecret          string   `json:"clientSecret,omitempty"`
	AuthorizeEndpoint     string   `json:"authorizeEndpoint,omitempty" validate:"omitempty,url"`
	TokenEndpoint         string   `json:"tokenEndpoint,omitempty" validate:"omitempty,url"`
	JWKSEndpoint          string   `json:"jwksEndpoint,omitempty" validate:"omitempty,url"`
	LogoutEndpoint        string   `json:"logoutEndpoint,omitempty" validate:"omitempty,url"`
	PostLogoutRedirectURI string   `json:"postLogoutRedirectUri,omitempty" validate:"omitempty,url"`
	Scopes                []string `json:"scopes,omitempty" validate:"dive,required"`
}

// clone returns a deep copy of the OIDC configuration.
func (o OidcConfig) clone() OidcConfig {
	o.Scopes = cloneStrings(o.Scopes)
	return o
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	return append([]string{}, values...)
}
