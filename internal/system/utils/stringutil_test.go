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

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank("  \t\n"))
	assert.False(t, IsBlank(" a "))
}

func TestBoolNumStringConversion(t *testing.T) {
	assert.Equal(t, "1", BoolToNumString(true))
	assert.Equal(t, "0", BoolToNumString(false))
	assert.True(t, NumStringToBool("1"))
	assert.False(t, NumStringToBool("0"))
	assert.False(t, NumStringToBool(""))
}
