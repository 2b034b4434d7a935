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

import "strings"

// IsBlank reports whether the given string is empty or contains only white space.
func IsBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}

// BoolToNumString converts a boolean to its numeric string representation used in the database.
func BoolToNumString(value bool) string {
	if value {
		return "1"
	}
	return "0"
}

// NumStringToBool converts a numeric string representation from the database to a boolean.
func NumStringToBool(value string) bool {
	return value == "1"
}
