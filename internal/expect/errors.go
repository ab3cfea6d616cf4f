// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package expect

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout is returned if a pattern did not appear before the deadline.
	ErrTimeout = errors.New("timed out")

	// ErrEOF is returned if the output ended before a pattern appeared.
	ErrEOF = errors.New("end of output")

	// ErrClosed is returned if the [Expecter] is used after it was closed.
	ErrClosed = errors.New("expecter closed")

	// ErrWaitTimeout is returned if the background reader did not terminate
	// in time.
	ErrWaitTimeout = errors.New("reader wait timed out")

	// ErrEmptyPattern is returned if an empty pattern is expected.
	ErrEmptyPattern = errors.New("empty pattern")

	// ErrUnknownAction is returned for a [Step] with an invalid [Action].
	ErrUnknownAction = errors.New("unknown action")
)

// MatchError is returned if a pattern could not be matched.
type MatchError struct {
	// Pattern that was expected.
	Pattern string
	// Tail of the output that was received, but did not match.
	Output string
	Err    error
}

// Error implements the [error] interface.
func (e *MatchError) Error() string {
	return fmt.Sprintf("expect %q: %v (last output: %q)",
		e.Pattern, e.Err, e.Output)
}

// Is implements the [errors.Is] interface.
func (*MatchError) Is(other error) bool {
	_, ok := other.(*MatchError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *MatchError) Unwrap() error {
	return e.Err
}

// StepError wraps the error of a failed [Step] of a [Script].
type StepError struct {
	Index int
	Step  Step
	Err   error
}

// Error implements the [error] interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index, e.Step, e.Err)
}

// Is implements the [errors.Is] interface.
func (*StepError) Is(other error) bool {
	_, ok := other.(*StepError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *StepError) Unwrap() error {
	return e.Err
}
