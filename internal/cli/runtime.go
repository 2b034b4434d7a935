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
	"path"

	"github.com/asgardeo/thunderfed/internal/federation/registry"
	"github.com/asgardeo/thunderfed/internal/system/config"
	"github.com/asgardeo/thunderfed/internal/system/constants"
	"github.com/asgardeo/thunderfed/internal/system/database/provider"
	"github.com/asgardeo/thunderfed/internal/system/error/serviceerror"
	"github.com/asgardeo/thunderfed/internal/system/log"
)

// registryProvider opens the IdP registry of a home directory and returns the function that
// releases its resources.
type registryProvider func(home string) (registry.IDPRegistryInterface, func(), error)

// resolveHome returns the home directory from the flag, the environment or the working directory.
func resolveHome(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if home := os.Getenv(constants.HomeEnvironmentVariable); home != "" {
		return home, nil
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}
	return dir, nil
}

// openRegistry loads the deployment configuration of the home directory, initializes the server
// runtime and creates a registry backed by the identity database.
func openRegistry(home string) (registry.IDPRegistryInterface, func(), error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "IdPCtl"))

	cfg, err := config.LoadConfig(path.Join(home, constants.DeploymentConfigPath))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configurations: %w", err)
	}
	if err := config.InitializeServerRuntime(home, cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize server runtime: %w", err)
	}

	idpRegistry, err := registry.NewIDPRegistry()
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("Opened identity provider registry", log.String("home", home))

	closeFn := func() {
		if err := provider.GetDBProvider().Close(); err != nil {
			logger.Error("Failed to close database connections", log.Error(err))
		}
	}
	return idpRegistry, closeFn, nil
}

// withRegistry opens the registry for the duration of fn.
func (o *rootOptions) withRegistry(fn func(idpRegistry registry.IDPRegistryInterface) error) error {
	home, err := resolveHome(o.home)
	if err != nil {
		return err
	}
	idpRegistry, closeFn, err := o.newRegistry(home)
	if err != nil {
		return err
	}
	defer closeFn()

	return fn(idpRegistry)
}

// toError converts a service error into a command error.
func toError(svcErr *serviceerror.ServiceError) error {
	return fmt.Errorf("%s (%s): %s", svcErr.Error, svcErr.Code, svcErr.ErrorDescription)
}
