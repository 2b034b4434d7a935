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

package certchain

import (
	"crypto/x509"
	"errors"

	"github.com/asgardeo/thunderfed/internal/system/log"
)

// Validator decides whether a certificate chain is exactly one trust path plus its anchor.
// Revocation status and validity periods are not evaluated.
type Validator struct {
	builder PathBuilder
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithPathBuilder overrides the path builder used by the validator.
func WithPathBuilder(builder PathBuilder) ValidatorOption {
	return func(v *Validator) {
		v.builder = builder
	}
}

// NewValidator creates a new Validator.
func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{
		builder: NewDepthFirstBuilder(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate verifies that the chain forms a single trust path from its first certificate to its
// last certificate and that every certificate other than the anchor belongs to that path.
func (v *Validator) Validate(chain Chain) (*TrustPath, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "ChainTrustValidator"))

	if len(chain) == 0 {
		return nil, ErrEmptyChain
	}

	path, err := v.builder.BuildPath(chain)
	if err != nil {
		var noPathErr *NoTrustedPathError
		if !errors.Is(err, ErrEmptyChain) && !errors.As(err, &noPathErr) {
			err = &NoTrustedPathError{Index: -1, Reason: err.Error(), Err: err}
		}
		logger.Debug("Certificate chain has no trusted path", log.Int("chainLength", len(chain)),
			log.Error(err))
		return nil, err
	}

	if path.Len() != len(chain)-1 {
		extraneous := unusedCertificates(chain, path)
		logger.Debug("Certificate chain contains extraneous certificates",
			log.Int("chainLength", len(chain)), log.Any("indices", extraneous.Indices))
		return nil, extraneous
	}

	logger.Debug("Certificate chain validated", log.Int("chainLength", len(chain)))
	return path, nil
}

// ValidateX509 validates a chain of X.509 certificates.
func (v *Validator) ValidateX509(certs []*x509.Certificate) (*TrustPath, error) {
	return v.Validate(FromX509Chain(certs))
}

// unusedCertificates collects the non-anchor certificates that the path does not use.
func unusedCertificates(chain Chain, path *TrustPath) *ExtraneousCertsError {
	used := make([]bool, len(chain))
	for _, i := range path.Indices {
		used[i] = true
	}

	extraneous := &ExtraneousCertsError{}
	for i := 0; i < len(chain)-1; i++ {
		if !used[i] {
			extraneous.Certificates = append(extraneous.Certificates, chain[i])
			extraneous.Indices = append(extraneous.Indices, i)
		}
	}
	return extraneous
}

var defaultValidator = NewValidator()

// Validate validates the chain with the default validator.
func Validate(chain Chain) (*TrustPath, error) {
	return defaultValidator.Validate(chain)
}

// ValidateX509 validates the X.509 chain with the default validator.
func ValidateX509(certs []*x509.Certificate) (*TrustPath, error) {
	return defaultValidator.ValidateX509(certs)
}
