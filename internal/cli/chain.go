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
	"crypto/x509"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/asgardeo/thunderfed/internal/federation/certchain"
)

func newChainCommand() *cobra.Command {
	chainCmd := &cobra.Command{
		Use:   "chain",
		Short: "Inspect signing certificate chains",
	}
	chainCmd.AddCommand(&cobra.Command{
		Use:   "validate FILE",
		Short: "Validate that a PEM chain is a single trust path from its first to its last certificate",
		Long: `Validate that a PEM encoded chain is a single trust path.

The first certificate is the signing certificate and the last one is the trust
anchor, which must be self-signed. Every other certificate must be part of the
path. Revocation is not checked.`,
		Args: cobra.ExactArgs(1),
		RunE: runChainValidate,
	})
	return chainCmd
}

func runChainValidate(cmd *cobra.Command, args []string) error {
	chain, err := readPEMChain(args[0])
	if err != nil {
		return err
	}

	if _, err := certchain.ValidateX509(chain); err != nil {
		return fmt.Errorf("certificate chain is not trusted: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Certificate chain is valid (%d certificates)\n", len(chain))
	for i, cert := range chain {
		fmt.Fprintf(out, "  [%d] %s (%s)\n", i, cert.Subject.String(), chainRole(i, len(chain)))
	}
	return nil
}

func chainRole(index, length int) string {
	switch {
	case index == length-1:
		return "trust anchor"
	case index == 0:
		return "signing certificate"
	default:
		return "intermediate"
	}
}

func readPEMChain(file string) ([]*x509.Certificate, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate chain: %w", err)
	}
	chain, err := certchain.ParsePEMChain(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate chain: %w", err)
	}
	return chain, nil
}
