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

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newStructValidator()

// newStructValidator creates the struct validator used for endpoint and OIDC fields. Errors are
// reported against the JSON field names.
func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// validateEndpoints checks every endpoint of a SSO or SLO service list.
func validateEndpoints(field string, endpoints []ServiceEndpoint) error {
	for i := range endpoints {
		if err := validateStruct(fmt.Sprintf("%s[%d]", field, i), endpoints[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateStruct validates a value against its struct tags and converts the first failure into a
// field validation error.
func validateStruct(field string, value interface{}) error {
	err := validate.Struct(value)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return newFieldError(field, err.Error())
	}
	fieldErr := validationErrors[0]
	return newFieldError(field+"."+fieldErr.Field(), describeTag(fieldErr))
}

func describeTag(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "must not be empty"
	case "url":
		return "must be an absolute URL"
	default:
		return fmt.Sprintf("failed on the '%s' rule", fieldErr.Tag())
	}
}
