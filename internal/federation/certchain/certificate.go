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

// Package certchain validates that a signing certificate chain forms exactly one trust path
// from its leaf certificate to the trust anchor declared as its last element.
package certchain

import (
	"crypto"
	"crypto/x509"
	"errors"
)

// Certificate is the view of a certificate required to build a trust path.
type Certificate interface {
	// Subject returns the distinguished name of the certificate subject.
	Subject() string
	// Issuer returns the distinguished name of the certificate issuer.
	Issuer() string
	// PublicKey returns the public key certified by the certificate.
	PublicKey() crypto.PublicKey
	// CheckSignatureFrom verifies the certificate signature with the public key of the given issuer.
	// Issuer constraints are not evaluated.
	CheckSignatureFrom(issuer Certificate) error
	// IsCA reports whether the certificate may act as an issuer of other certificates.
	IsCA() bool
	// IsSelfSigned reports whether the subject equals the issuer and the signature verifies
	// with the certificate's own public key.
	IsSelfSigned() bool
	// X509 returns the underlying X.509 certificate, or nil if there is none.
	X509() *x509.Certificate
}

// Chain is an ordered certificate chain: index 0 is the leaf and the last index is the trust anchor.
type Chain []Certificate

// x509Certificate adapts an *x509.Certificate to the Certificate interface.
type x509Certificate struct {
	cert *x509.Certificate
}

// FromX509 wraps the given X.509 certificate. A nil certificate yields a nil Certificate.
func FromX509(cert *x509.Certificate) Certificate {
	if cert == nil {
		return nil
	}
	return &x509Certificate{cert: cert}
}

// FromX509Chain wraps each certificate of the given X.509 chain, preserving order.
func FromX509Chain(certs []*x509.Certificate) Chain {
	chain := make(Chain, 0, len(certs))
	for _, cert := range certs {
		chain = append(chain, FromX509(cert))
	}
	return chain
}

func (c *x509Certificate) Subject() string {
	return c.cert.Subject.String()
}

func (c *x509Certificate) Issuer() string {
	return c.cert.Issuer.String()
}

func (c *x509Certificate) PublicKey() crypto.PublicKey {
	return c.cert.PublicKey
}

// CheckSignatureFrom verifies the signature against a certificate that only carries the issuer key,
// so that x509 does not apply its own basic constraints check on the issuer.
func (c *x509Certificate) CheckSignatureFrom(issuer Certificate) error {
	if issuer == nil || issuer.PublicKey() == nil {
		return errors.New("issuer has no public key")
	}
	verifier := &x509.Certificate{PublicKey: issuer.PublicKey()}
	return verifier.CheckSignature(c.cert.SignatureAlgorithm, c.cert.RawTBSCertificate, c.cert.Signature)
}

func (c *x509Certificate) IsCA() bool {
	return c.cert.BasicConstraintsValid && c.cert.IsCA
}

func (c *x509Certificate) IsSelfSigned() bool {
	return c.Subject() == c.Issuer() && c.CheckSignatureFrom(c) == nil
}

func (c *x509Certificate) X509() *x509.Certificate {
	return c.cert
}
