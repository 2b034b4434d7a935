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
	"errors"

	"github.com/asgardeo/thunderfed/internal/system/error/serviceerror"
)

// ErrIDPNotFound is returned when the IdP is not found in the store.
var ErrIDPNotFound = errors.New("IdP not found")

// Client errors for federated identity provider operations.
var (
	// ErrorIDPNotFound is the error returned when an identity provider is not found.
	ErrorIDPNotFound = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             "IDP-1001",
		Error:            "Identity provider not found",
		ErrorDescription: "The requested identity provider could not be found",
	}
	// ErrorInvalidTenantID is the error returned when an invalid tenant ID is provided.
	ErrorInvalidTenantID = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             "IDP-1002",
		Error:            "Invalid tenant ID",
		ErrorDescription: "The provided tenant ID is invalid or empty",
	}
	// ErrorInvalidEntityID is the error returned when an invalid entity ID is provided.
	ErrorInvalidEntityID = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             "IDP-1003",
		Error:            "Invalid entity ID",
		ErrorDescription: "The provided identity provider entity ID is invalid or empty",
	}
	// ErrorIDPAlreadyExists is the error returned when an identity provider with the same entity ID exists.
	ErrorIDPAlreadyExists = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             "IDP-1004",
		Error:            "Identity provider already exists",
		ErrorDescription: "An identity provider with the same entity ID already exists in the tenant",
	}
	// ErrorIDPNil is the error returned when the identity provider object is nil.
	ErrorIDPNil = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             "IDP-1005",
		Error:            "Identity provider cannot be null",
		ErrorDescription: "The identity provider object cannot be null or empty",
	}
	// ErrorInvalidIDPConfig is the error returned when a configuration attribute is rejected.
	ErrorInvalidIDPConfig = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             "IDP-1006",
		Error:            "Invalid identity provider configuration",
		ErrorDescription: "One or more identity provider attributes are invalid",
	}
	// ErrorInvalidProtocol is the error returned when the protocol is not supported.
	ErrorInvalidProtocol = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             "IDP-1007",
		Error:            "Invalid protocol",
		ErrorDescription: "The identity provider protocol is not supported",
	}
	// ErrorUntrustedCertificateChain is the error returned when the chain does not reach its anchor.
	ErrorUntrustedCertificateChain = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             "IDP-1008",
		Error:            "Untrusted certificate chain",
		ErrorDescription: "No trusted path was found from the signing certificate to the trust anchor",
	}
	// ErrorExtraneousCertificates is the error returned when the chain contains unused certificates.
	ErrorExtraneousCertificates = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             "IDP-1009",
		Error:            "Extraneous certificates in chain",
		ErrorDescription: "The certificate chain contains certificates that are not part of the trust path",
	}
	// ErrorCertificateChainTooLong is the error returned when the chain exceeds the configured length.
	ErrorCertificateChainTooLong = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             "IDP-1010",
		Error:            "Certificate chain too long",
		ErrorDescription: "The certificate chain exceeds the maximum allowed length",
	}
	// ErrorInvalidURL is the error returned when an empty URL is looked up.
	ErrorInvalidURL = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             "IDP-1011",
		Error:            "Invalid URL",
		ErrorDescription: "The provided URL is invalid or empty",
	}
)

// Server errors for federated identity provider operations.
var (
	// ErrorInternalServerError is the error returned when an internal server error occurs.
	ErrorInternalServerError = serviceerror.ServiceError{
		Type:             serviceerror.ServerErrorType,
		Code:             "IDP-5000",
		Error:            "Internal server error",
		ErrorDescription: "An unexpected error occurred while processing the request",
	}
)
