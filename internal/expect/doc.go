// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package expect drives a scripted conversation with a process attached to a
// pseudo-terminal.
//
// A [Session] owns the process and its terminal. An [Expecter] reads the
// terminal output incrementally into a buffer and scans it for literal
// patterns, bounded by a deadline. A [Script] is a fixed sequence of
// [Step]s that either wait for a pattern or send a line. It succeeds only if
// every step succeeds in order.
//
// Waiting is sequential. A single background reader per [Expecter] delivers
// the output chunks, everything else happens in the goroutine that calls
// [Expecter.Expect].
package expect
