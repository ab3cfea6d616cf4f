// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/aibor/vpboot/internal/expect"
	"github.com/aibor/vpboot/internal/platform"
	"github.com/aibor/vpboot/internal/vpboot"
)

// IO provides output details for the command.
type IO struct {
	Stdout io.Writer
	Stderr io.Writer
}

func newFlags(args []string, cfg IO) (*flags, error) {
	args, err := MergedArgs(args, os.DirFS("."), localConfigFile)
	if err != nil {
		return nil, err
	}

	flags, err := parseArgs(args, cfg.Stderr)
	if err != nil {
		return nil, fmt.Errorf("parse args: %w", err)
	}

	return flags, nil
}

func newSpec(flags *flags) (vpboot.Spec, error) {
	params := platform.MergeParams(platform.DefaultParams(), flags.Params)

	envVars := []string{}

	if flags.EnvFile != "" {
		fileVars, err := EnvFileVars(string(flags.EnvFile))
		if err != nil {
			return vpboot.Spec{}, err
		}

		envVars = append(envVars, fileVars...)
	}

	envVars = append(envVars, flags.EnvVars...)

	spec := vpboot.Spec{
		Platform: platform.CommandSpec{
			Executable: flags.ExecutablePath,
			ConfigFile: string(flags.ConfigFile),
			ImageDir:   string(flags.ImageDir),
			Params:     params,
			ExtraArgs:  flags.Args,
			EnvVars:    envVars,
		},
		Timeout: flags.Timeout,
	}

	return spec, nil
}

func run(ctx context.Context, flags *flags, cfg IO) error {
	err := flags.validateFilePaths()
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	spec, err := newSpec(flags)
	if err != nil {
		return err
	}

	err = vpboot.Run(ctx, spec, cfg.Stdout)
	if err != nil {
		return fmt.Errorf("linux boot: %w", err)
	}

	return nil
}

func handleParseArgsError(err error) int {
	// [ErrHelp] is returned when help is requested. So exit without error
	// in this case.
	if errors.Is(err, ErrHelp) {
		return 0
	}

	// ParseArgs already prints errors, so we just exit without an error.
	if !errors.Is(err, &ParseArgsError{}) {
		slog.Error(err.Error())
	}

	return -1
}

func handleRunError(err error) int {
	var matchErr *expect.MatchError
	if errors.As(err, &matchErr) {
		slog.Error("Expected message not received",
			slog.String("pattern", matchErr.Pattern),
			slog.String("last_output", matchErr.Output),
			slog.Any("error", matchErr.Err),
		)

		return -1
	}

	slog.Error(err.Error())

	return -1
}

// Run is the main entry point for the CLI command.
func Run(ctx context.Context, args []string, cfg IO) int {
	setupLogging(cfg.Stderr, slog.LevelWarn)

	flags, err := newFlags(args, cfg)
	if err != nil {
		return handleParseArgsError(err)
	}

	setupLogging(cfg.Stderr, flags.logLevel())

	if flags.Version {
		buildInfo, err := getBuildInfo()
		if err != nil {
			slog.Error(err.Error())
			return -1
		}

		fmt.Fprintf(cfg.Stdout, "Version: %s\n", buildInfo.Main.Version)

		return 0
	}

	err = run(ctx, flags, cfg)
	if err != nil {
		return handleRunError(err)
	}

	fmt.Fprintln(cfg.Stdout, "Linux boot test passed")

	return 0
}

func getBuildInfo() (*debug.BuildInfo, error) {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return nil, ErrReadBuildInfo
	}

	return buildInfo, nil
}
