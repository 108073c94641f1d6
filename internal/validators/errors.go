// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alexey Shmelev

package validators

import "errors"

var (
	// ErrUnsupportedType is returned when a validator receives a value of a
	// type it does not know how to validate.
	ErrUnsupportedType = errors.New("unsupported type for validation")

	// ErrUnknownField is returned when field-scoped validation names a
	// field the validator does not recognize for the given type.
	ErrUnknownField = errors.New("unknown validation field")
)
