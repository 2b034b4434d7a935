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

package certchain

import (
	"errors"
	"fmt"
)

// ErrEmptyChain is returned when a chain without certificates is validated.
var ErrEmptyChain = errors.New("certificate chain is empty")

// ExtraneousCertsError is returned when a trust path to the anchor exists but does not use
// every certificate of the chain.
type ExtraneousCertsError struct {
	// Certificates holds the certificates that are not part of the trust path.
	Certificates []Certificate
	// Indices holds the positions of the unused certificates in the validated chain.
	Indices []int
}

func (e *ExtraneousCertsError) Error() string {
	return fmt.Sprintf("certificate chain contains %d extraneous certificate(s) at indices %v "+
		"that are not part of the trust path", len(e.Indices), e.Indices)
}

// NoTrustedPathError is returned when no trust path from the leaf to the anchor can be built.
type NoTrustedPathError struct {
	// Index is the position of the certificate at which path construction failed, or -1 if unknown.
	Index int
	// Reason describes the linkage failure.
	Reason string
	// Err is the underlying error reported by a path builder, if any.
	Err error
}

func (e *NoTrustedPathError) Error() string {
	return "no trusted path found to the trust anchor: " + e.Reason
}

func (e *NoTrustedPathError) Unwrap() error {
	return e.Err
}
