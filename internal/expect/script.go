// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package expect

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Action is the kind of a [Step].
type Action int

const (
	// ActionExpect waits for a literal pattern in the output.
	ActionExpect Action = iota
	// ActionSendLine writes a line of text.
	ActionSendLine
)

// String implements [fmt.Stringer].
func (a Action) String() string {
	switch a {
	case ActionExpect:
		return "expect"
	case ActionSendLine:
		return "send"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Step is a single step of a [Script].
type Step struct {
	Action Action
	Text   string
}

// Expect returns a [Step] that waits for the given literal pattern.
func Expect(pattern string) Step {
	return Step{Action: ActionExpect, Text: pattern}
}

// SendLine returns a [Step] that writes the given text and a line terminator.
func SendLine(text string) Step {
	return Step{Action: ActionSendLine, Text: text}
}

// String implements [fmt.Stringer].
func (s Step) String() string {
	return fmt.Sprintf("%s %q", s.Action, s.Text)
}

func (s Step) run(ctx context.Context, e *Expecter, timeout time.Duration) error {
	switch s.Action {
	case ActionExpect:
		return e.Expect(ctx, s.Text, timeout)
	case ActionSendLine:
		return e.SendLine(s.Text)
	default:
		return ErrUnknownAction
	}
}

// Script is a fixed sequence of [Step]s.
type Script struct {
	Steps []Step

	// Timeout bounds each [ActionExpect] step separately. Zero means no
	// timeout.
	Timeout time.Duration
}

// Run runs all steps of the [Script] in order with the given [Expecter].
//
// It stops at the first failing step and returns a [StepError] for it. There
// is no retry. It returns nil only if all steps succeeded.
func (s Script) Run(ctx context.Context, e *Expecter) error {
	for idx, step := range s.Steps {
		slog.Debug("Run step",
			slog.Int("index", idx),
			slog.String("step", step.String()))

		err := step.run(ctx, e, s.Timeout)
		if err != nil {
			return &StepError{
				Index: idx,
				Step:  step,
				Err:   err,
			}
		}
	}

	return nil
}
