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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/asgardeo/thunderfed/internal/federation/idpconfig"
	"github.com/asgardeo/thunderfed/internal/federation/metadata"
	"github.com/asgardeo/thunderfed/internal/federation/registry"
)

func newIDPCommand(opts *rootOptions) *cobra.Command {
	idpCmd := &cobra.Command{
		Use:   "idp",
		Short: "Manage the federated identity providers of a tenant",
	}
	idpCmd.AddCommand(
		newIDPImportCommand(opts),
		newIDPListCommand(opts),
		newIDPGetCommand(opts),
		newIDPExportCommand(opts),
		newIDPSetChainCommand(opts),
		newIDPFindCommand(opts),
		newIDPDeleteCommand(opts),
	)
	return idpCmd
}

func newIDPImportCommand(opts *rootOptions) *cobra.Command {
	var alias string
	var jitEnabled bool

	cmd := &cobra.Command{
		Use:   "import TENANT FILE",
		Short: "Register an identity provider from its SAML 2.0 metadata",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tenantID, file := args[0], args[1]

			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read metadata: %w", err)
			}
			idp, err := metadata.Import(data)
			if err != nil {
				return fmt.Errorf("failed to import metadata: %w", err)
			}

			update := idpconfig.Update{JitEnabled: &jitEnabled}
			if alias != "" {
				update.Alias = &alias
			}
			if err := idp.Apply(update); err != nil {
				return err
			}

			return opts.withRegistry(func(idpRegistry registry.IDPRegistryInterface) error {
				registered, svcErr := idpRegistry.RegisterIDP(tenantID, idp)
				if svcErr != nil {
					return toError(svcErr)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Registered identity provider %s for tenant %s\n",
					registered.EntityID(), tenantID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&alias, "alias", "", "Alias of the identity provider")
	cmd.Flags().BoolVar(&jitEnabled, "jit", false, "Enable just-in-time provisioning")
	return cmd
}

func newIDPListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list TENANT",
		Short: "List the identity providers of a tenant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withRegistry(func(idpRegistry registry.IDPRegistryInterface) error {
				idps, svcErr := idpRegistry.ListIDPs(args[0])
				if svcErr != nil {
					return toError(svcErr)
				}
				return writeIDPTable(cmd.OutOrStdout(), idps)
			})
		},
	}
}

func newIDPGetCommand(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "get TENANT ENTITY_ID",
		Short: "Show an identity provider",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withRegistry(func(idpRegistry registry.IDPRegistryInterface) error {
				idp, svcErr := idpRegistry.GetIDP(args[0], args[1])
				if svcErr != nil {
					return toError(svcErr)
				}
				return writeIDP(cmd.OutOrStdout(), idp, format)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", outputFormatYAML, "Output format: yaml or json")
	return cmd
}

func newIDPExportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export TENANT ENTITY_ID",
		Short: "Print the SAML 2.0 metadata of an identity provider",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withRegistry(func(idpRegistry registry.IDPRegistryInterface) error {
				idp, svcErr := idpRegistry.GetIDP(args[0], args[1])
				if svcErr != nil {
					return toError(svcErr)
				}
				data, err := metadata.Export(idp)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			})
		},
	}
}

func newIDPSetChainCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-chain TENANT ENTITY_ID FILE",
		Short: "Replace the signing certificate chain of an identity provider",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, err := readPEMChain(args[2])
			if err != nil {
				return err
			}
			return opts.withRegistry(func(idpRegistry registry.IDPRegistryInterface) error {
				idp, svcErr := idpRegistry.SetSigningCertificateChain(args[0], args[1], chain)
				if svcErr != nil {
					return toError(svcErr)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated signing certificate chain of %s (%d certificates)\n",
					idp.EntityID(), len(idp.SigningCertificateChain()))
				return nil
			})
		},
	}
}

func newIDPFindCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "find TENANT URL",
		Short: "Find the identity provider that owns a SSO or SLO endpoint",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withRegistry(func(idpRegistry registry.IDPRegistryInterface) error {
				idp, svcErr := idpRegistry.FindIDPByURL(args[0], args[1])
				if svcErr != nil {
					return toError(svcErr)
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), idp.EntityID())
				return err
			})
		},
	}
}

func newIDPDeleteCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete TENANT ENTITY_ID",
		Short: "Delete an identity provider",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withRegistry(func(idpRegistry registry.IDPRegistryInterface) error {
				if svcErr := idpRegistry.DeleteIDP(args[0], args[1]); svcErr != nil {
					return toError(svcErr)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted identity provider %s from tenant %s\n", args[1], args[0])
				return nil
			})
		},
	}
}
