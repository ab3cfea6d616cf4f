// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package vpboot checks that a virtual platform boots a Linux image and halts
// cleanly.
//
// The platform executable is started on a pseudo-terminal. Once the Buildroot
// login prompt appears, it logs in as root, waits for the shell prompt and
// halts the system. The check succeeds only if the kernel reports the halted
// system before the timeout of each step expires.
package vpboot
