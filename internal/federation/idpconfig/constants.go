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

// Protocol identifies the federation protocol spoken by an external identity provider.
type Protocol string

const (
	// ProtocolSAML2 identifies a SAML 2.0 identity provider.
	ProtocolSAML2 Protocol = "urn:oasis:names:tc:SAML:2.0:protocol"
	// ProtocolOAuth2 identifies an OAuth 2.0 identity provider.
	ProtocolOAuth2 Protocol = "urn:oasis:names:tc:OAUTH:2.0:protocol"
)

// supportedProtocols lists the recognized federation protocols.
var supportedProtocols = []Protocol{
	ProtocolSAML2,
	ProtocolOAuth2,
}

// Field names reported in field validation errors.
const (
	FieldEntityID                = "entityID"
	FieldProtocol                = "protocol"
	FieldAlias                   = "alias"
	FieldNameIDFormats           = "nameIDFormats"
	FieldSsoServices             = "ssoServices"
	FieldSloServices             = "sloServices"
	FieldSigningCertificateChain = "signingCertificateChain"
	FieldPublicKey               = "publicKey"
	FieldSubjectFormatMappings   = "subjectFormatMappings"
	FieldTokenClaimGroupMappings = "tokenClaimGroupMappings"
	FieldUpnSuffix               = "upnSuffix"
	FieldOidcConfig              = "oidcConfig"
)
