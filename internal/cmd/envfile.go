// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"maps"
	"slices"

	"github.com/aibor/vpboot/internal/platform"
	"github.com/joho/godotenv"
)

// EnvFileVars reads environment overrides from the dotenv file at the given
// path. They are returned as "key=value" strings sorted by key.
//
// Each variable must be a valid override for [platform.ParseEnvVar], so values
// must not contain "=".
func EnvFileVars(path string) ([]string, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read env file: %w", err)
	}

	list := make([]string, 0, len(vars))

	for _, key := range slices.Sorted(maps.Keys(vars)) {
		envVar := key + "=" + vars[key]

		_, _, err := platform.ParseEnvVar(envVar)
		if err != nil {
			return nil, fmt.Errorf("env file %s: %w", path, err)
		}

		list = append(list, envVar)
	}

	return list, nil
}
