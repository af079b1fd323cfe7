// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package asyncseq

import (
	"errors"
	"fmt"

	"vawter.tech/asyncseq/internal/safe"
)

// ErrInvalidArgument is the root of the values passed to panic when a
// required argument is missing at construction time.
var ErrInvalidArgument = errors.New("invalid argument")

// A RecoveredError will be returned by [ForEach] when the callback
// panics.
type RecoveredError = safe.RecoveredError

// InvalidArgument returns an error that wraps [ErrInvalidArgument]. It
// is exported for use by decorator packages.
func InvalidArgument(name, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidArgument, name, reason)
}
