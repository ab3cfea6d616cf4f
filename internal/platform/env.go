// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package platform

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
)

const (
	// ImageDirEnvVar is the variable the VP reads its image directory from.
	ImageDirEnvVar = "QQVP_IMAGE_DIR"

	pwdEnvVar         = "PWD"
	libraryPathEnvVar = "LD_LIBRARY_PATH"
)

// LookupEnvFunc looks up a variable of the invoking environment. It has the
// signature of [os.LookupEnv].
type LookupEnvFunc func(key string) (string, bool)

// ParseEnvVar splits the given "key=value" string.
//
// It fails with [ErrEnvVarMalformed] if the string does not contain exactly
// one "=" or if the key is empty.
func ParseEnvVar(s string) (string, string, error) {
	parts := strings.Split(s, "=")
	if len(parts) != 2 || parts[0] == "" {
		return "", "", &EnvVarError{Value: s, Err: ErrEnvVarMalformed}
	}

	return parts[0], parts[1], nil
}

// Environment is the complete set of environment variables the VP process is
// started with.
type Environment map[string]string

// NewEnvironment assembles the [Environment] for the VP.
//
// It consists of the image directory variable, the working directory variable
// and the library search path, if present in the invoking environment. The
// given overrides are applied last in order, so later ones win. An error is
// returned for the first malformed override.
func NewEnvironment(
	imageDir string,
	overrides []string,
	lookupEnv LookupEnvFunc,
) (Environment, error) {
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}

	env := Environment{
		ImageDirEnvVar: imageDir,
	}

	pwd, exists := lookupEnv(pwdEnvVar)
	if !exists {
		var err error

		pwd, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("working directory: %w", err)
		}
	}

	env[pwdEnvVar] = pwd

	// Useful for local development with a custom compiler installation.
	if libPath, exists := lookupEnv(libraryPathEnvVar); exists {
		env[libraryPathEnvVar] = libPath
	}

	for _, override := range overrides {
		key, value, err := ParseEnvVar(override)
		if err != nil {
			return nil, err
		}

		env[key] = value
	}

	return env, nil
}

// List returns the environment as "key=value" strings sorted by key, as
// expected by [exec.Cmd.Env].
func (e Environment) List() []string {
	list := make([]string, 0, len(e))

	for _, key := range slices.Sorted(maps.Keys(e)) {
		list = append(list, key+"="+e[key])
	}

	return list
}
