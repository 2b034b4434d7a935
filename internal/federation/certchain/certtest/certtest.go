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

// Package certtest provides helpers to generate certificate chains in tests.
package certtest

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Authority is a generated certificate together with its private key.
type Authority struct {
	Cert *x509.Certificate
	Key  *ecdsa.PrivateKey
}

// NewRootCA generates a self-signed CA certificate.
func NewRootCA(t testing.TB, commonName string) *Authority {
	t.Helper()
	return issue(t, commonName, true, nil)
}

// NewSelfSigned generates a self-signed certificate that is not a CA.
func NewSelfSigned(t testing.TB, commonName string) *Authority {
	t.Helper()
	return issue(t, commonName, false, nil)
}

// NewIntermediate generates a CA certificate signed by the authority.
func (a *Authority) NewIntermediate(t testing.TB, commonName string) *Authority {
	t.Helper()
	return issue(t, commonName, true, a)
}

// NewLeaf generates an end-entity certificate signed by the authority.
func (a *Authority) NewLeaf(t testing.TB, commonName string) *Authority {
	t.Helper()
	return issue(t, commonName, false, a)
}

// CrossSignedBy generates a CA certificate with the authority's subject and key, signed by issuer.
func (a *Authority) CrossSignedBy(t testing.TB, issuer *Authority) *Authority {
	t.Helper()
	return issueWithKey(t, a.Cert.Subject.CommonName, true, a.Key, issuer)
}

// Chain returns the certificates of the given authorities in order.
func Chain(authorities ...*Authority) []*x509.Certificate {
	certs := make([]*x509.Certificate, 0, len(authorities))
	for _, a := range authorities {
		certs = append(certs, a.Cert)
	}
	return certs
}

func issue(t testing.TB, commonName string, isCA bool, parent *Authority) *Authority {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	return issueWithKey(t, commonName, isCA, key, parent)
}

func issueWithKey(t testing.TB, commonName string, isCA bool, key *ecdsa.PrivateKey,
	parent *Authority) *Authority {
	t.Helper()

	serialNumber, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	require.NoError(t, err)

	notBefore := time.Now().Add(-time.Hour)
	template := &x509.Certificate{
		SerialNumber: serialNumber,
		Subject: pkix.Name{
			Organization: []string{"thunderfed"},
			CommonName:   commonName,
		},
		NotBefore:             notBefore,
		NotAfter:              notBefore.Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
		IsCA:                  isCA,
	}
	if isCA {
		template.KeyUsage |= x509.KeyUsageCertSign
	}

	issuerTemplate, signer := template, key
	if parent != nil {
		issuerTemplate, signer = parent.Cert, parent.Key
	}

	der, err := x509.CreateCertificate(rand.Reader, template, issuerTemplate, &key.PublicKey, signer)
	require.NoError(t, err)

	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)

	return &Authority{Cert: cert, Key: key}
}
