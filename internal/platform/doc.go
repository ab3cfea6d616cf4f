// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package platform composes the command line and the environment for a
// virtual platform (VP) executable. The executable itself is treated as a
// black box. It is configured by a Lua configuration file and individual
// parameters and finds its disk images via an environment variable.
//
// The environment of the VP process is assembled explicitly. Nothing from the
// invoking process is passed on unless listed in [NewEnvironment].
package platform
