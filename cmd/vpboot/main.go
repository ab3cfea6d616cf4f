// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Command vpboot boots a Linux image on a virtual platform and checks that it
// halts cleanly.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aibor/vpboot/internal/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		syscall.SIGABRT,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
		syscall.SIGHUP,
	)

	exitCode := cmd.Run(ctx, os.Args[1:], cmd.IO{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})

	cancel()
	os.Exit(exitCode)
}
