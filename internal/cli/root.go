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

// Package cli implements the idpctl command line interface.
package cli

import (
	"github.com/spf13/cobra"
)

// rootOptions holds the flags shared by all commands.
type rootOptions struct {
	home        string
	newRegistry registryProvider
}

// NewRootCommand creates the idpctl root command.
func NewRootCommand() *cobra.Command {
	return newRootCommand(openRegistry)
}

func newRootCommand(newRegistry registryProvider) *cobra.Command {
	opts := &rootOptions{newRegistry: newRegistry}

	rootCmd := &cobra.Command{
		Use:   "idpctl",
		Short: "Manage federated identity providers and their signing certificate chains",
		Long: `Manage federated identity providers and their signing certificate chains.

idpctl validates that a signing certificate chain is a single trust path from the
signing certificate to the trust anchor given as its last certificate, and manages
the identity providers registered for each tenant.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.home, "home", "",
		"Path to the product home directory (defaults to $THUNDERFED_HOME or the working directory)")

	rootCmd.AddCommand(newChainCommand())
	rootCmd.AddCommand(newIDPCommand(opts))
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}
