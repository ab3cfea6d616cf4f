// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"io"
	"log/slog"
)

func setupLogging(writer io.Writer, level slog.Level) {
	slog.SetDefault(slog.New(slog.NewTextHandler(
		writer,
		&slog.HandlerOptions{
			Level: level,
		},
	)))
}
