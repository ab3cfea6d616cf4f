// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package platform

import (
	"errors"
	"fmt"
)

var (
	// ErrArgumentCollision is returned if two [Argument]s are considered equal.
	ErrArgumentCollision = errors.New("colliding args")

	// ErrArgumentMalformed is returned if a raw argument has no name.
	ErrArgumentMalformed = errors.New("argument without name")

	// ErrEnvVarMalformed is returned if an environment variable override is
	// not exactly one "key=value" pair.
	ErrEnvVarMalformed = errors.New("not a single key=value pair")

	// ErrExecutableMissing is returned if no VP executable is given.
	ErrExecutableMissing = errors.New("no executable given")

	// ErrImageDirMissing is returned if no image directory is given.
	ErrImageDirMissing = errors.New("no image directory given")
)

// EnvVarError wraps errors caused by a single environment variable override.
type EnvVarError struct {
	Value string
	Err   error
}

// Error implements the [error] interface.
func (e *EnvVarError) Error() string {
	return fmt.Sprintf("env var %q: %v", e.Value, e.Err)
}

// Is implements the [errors.Is] interface.
func (*EnvVarError) Is(other error) bool {
	_, ok := other.(*EnvVarError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *EnvVarError) Unwrap() error {
	return e.Err
}
