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

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

const testResourceDir = "../../../tests/resources"

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) getFilePath(filename string) string {
	return filepath.Join(testResourceDir, filename)
}

func (suite *ConfigTestSuite) TearDownTest() {
	ResetServerRuntime()
}

func (suite *ConfigTestSuite) TestLoadConfigValid() {
	config, err := LoadConfig(suite.getFilePath("deployment.yaml"))

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), config)

	assert.Equal(suite.T(), "postgres", config.Database.Identity.Type)
	assert.Equal(suite.T(), "localhost", config.Database.Identity.Hostname)
	assert.Equal(suite.T(), 5432, config.Database.Identity.Port)
	assert.Equal(suite.T(), "disable", config.Database.Identity.SSLMode)
	assert.Equal(suite.T(), 20, config.Database.Identity.MaxOpenConns)
	assert.Equal(suite.T(), 300, config.Database.Identity.ConnMaxLifetime)

	assert.False(suite.T(), config.Cache.Disabled)
	assert.Equal(suite.T(), 500, config.Cache.Size)
	assert.Equal(suite.T(), 8, config.Federation.MaxChainLength)
}

func (suite *ConfigTestSuite) TestLoadConfigFileNotFound() {
	config, err := LoadConfig(suite.getFilePath("non_existent_config.yaml"))

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), config)
	assert.Contains(suite.T(), err.Error(), "no such file or directory")
}

func (suite *ConfigTestSuite) TestLoadConfigInvalidYAML() {
	config, err := LoadConfig(suite.getFilePath("invalid_deployment.yaml"))

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), config)
}

func (suite *ConfigTestSuite) TestServerRuntime() {
	assert.Panics(suite.T(), func() {
		_ = GetServerRuntime()
	})

	cfg := &Config{Federation: FederationConfig{MaxChainLength: 4}}
	assert.NoError(suite.T(), InitializeServerRuntime("/opt/thunderfed", cfg))

	// Subsequent initializations are ignored.
	assert.NoError(suite.T(), InitializeServerRuntime("/tmp/other", &Config{}))

	runtime := GetServerRuntime()
	assert.Equal(suite.T(), "/opt/thunderfed", runtime.Home)
	assert.Equal(suite.T(), 4, runtime.Config.Federation.MaxChainLength)
}
