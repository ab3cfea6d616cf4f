// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

const (
	argsEnvVar      = "VPBOOT_ARGS"
	localConfigFile = ".vpboot-args"
)

// EnvArgs returns vpboot arguments from the environment.
func EnvArgs() []string {
	return strings.Fields(os.Getenv(argsEnvVar))
}

// LocalConfigArgs returns vpboot arguments from a local config file.
//
// The file's format is one argument per line. Environment variables may be used
// and are expanded with [os.ExpandEnv].
func LocalConfigArgs(fsys fs.FS, file string) ([]string, error) {
	conf, err := fs.ReadFile(fsys, file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("read file: %w", err)
	}

	args := []string{}

	expandedConf := os.ExpandEnv(string(conf))
	for _, line := range strings.Split(expandedConf, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			args = append(args, line)
		}
	}

	return args, nil
}

// MergedArgs returns the arguments of all sources in the order of their
// precedence: the local config file, the environment and then the given
// command line arguments. Later flags override earlier ones.
func MergedArgs(args []string, fsys fs.FS, file string) ([]string, error) {
	localArgs, err := LocalConfigArgs(fsys, file)
	if err != nil {
		return nil, fmt.Errorf("local config %s: %w", file, err)
	}

	merged := make([]string, 0, len(localArgs)+len(args))
	merged = append(merged, localArgs...)
	merged = append(merged, EnvArgs()...)
	merged = append(merged, args...)

	return merged, nil
}
