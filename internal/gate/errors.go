// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package gate

import (
	"errors"
	"slices"

	"github.com/aws/smithy-go"
)

var (
	// ErrUnsupportedKind is the cause when a query names an unknown kind.
	ErrUnsupportedKind = errors.New("unsupported resource kind")

	// ErrEmptyName is the cause when a query has no identifier.
	ErrEmptyName = errors.New("resource name is empty")

	// ErrInvalidName is the cause when an identifier has the wrong shape for its kind.
	ErrInvalidName = errors.New("invalid resource name")

	// ErrMalformedResponse is the cause when a describe call succeeds but
	// the response lacks the field that carries the records.
	ErrMalformedResponse = errors.New("malformed describe response")

	// ErrMissingRegion is returned when a credential has no region.
	ErrMissingRegion = errors.New("region is required")
)

// apiErrorCode extracts the provider error code, if err carries one.
func apiErrorCode(err error) (string, bool) {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode(), true
	}
	return "", false
}

// isNotFound reports whether err carries one of the given provider codes.
func (k *Kind) isNotFound(err error) bool {
	code, ok := apiErrorCode(err)
	if !ok {
		return false
	}
	return slices.Contains(k.NotFoundCodes, code)
}
