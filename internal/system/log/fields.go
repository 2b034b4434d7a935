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

package log

import "go.uber.org/zap"

// Field represents a structured logging field.
type Field = zap.Field

// String creates a new string field.
func String(key, value string) Field {
	return zap.String(key, value)
}

// Int creates a new int field.
func Int(key string, value int) Field {
	return zap.Int(key, value)
}

// Bool creates a new bool field.
func Bool(key string, value bool) Field {
	return zap.Bool(key, value)
}

// Any creates a new field with an arbitrary value.
func Any(key string, value any) Field {
	return zap.Any(key, value)
}

// Error creates a new error field.
func Error(err error) Field {
	return zap.Error(err)
}
