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

package idpconfig

import "fmt"

// FieldValidationError is returned when a required field is missing, empty or malformed.
type FieldValidationError struct {
	Field  string
	Reason string
}

func (e *FieldValidationError) Error() string {
	return fmt.Sprintf("invalid value for field '%s': %s", e.Field, e.Reason)
}

// InvalidProtocolError is returned when a protocol is not one of the recognized protocols.
type InvalidProtocolError struct {
	Protocol string
}

func (e *InvalidProtocolError) Error() string {
	return fmt.Sprintf("invalid value specified for protocol in IdP config: '%s'", e.Protocol)
}

func newFieldError(field, reason string) *FieldValidationError {
	return &FieldValidationError{Field: field, Reason: reason}
}
