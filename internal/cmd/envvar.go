// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"strings"

	"github.com/aibor/vpboot/internal/platform"
)

// EnvVarList is a [flag.Value] collecting environment overrides in the
// format "key=value".
//
// A single value may contain multiple whitespace separated overrides. Each one
// is validated with [platform.ParseEnvVar].
type EnvVarList []string

func (l *EnvVarList) String() string {
	return strings.Join(*l, " ")
}

func (l *EnvVarList) Set(s string) error {
	for _, field := range strings.Fields(s) {
		_, _, err := platform.ParseEnvVar(field)
		if err != nil {
			return err //nolint:wrapcheck
		}

		*l = append(*l, field)
	}

	return nil
}

// ParamList is a [flag.Value] collecting platform parameters in the format
// "key=value".
type ParamList []string

func (l *ParamList) String() string {
	return strings.Join(*l, ",")
}

func (l *ParamList) Set(s string) error {
	key, _, found := strings.Cut(s, "=")
	if !found || key == "" {
		return fmt.Errorf("%w: %q", ErrParamMalformed, s)
	}

	*l = append(*l, s)

	return nil
}

// ArgList is a [flag.Value] collecting raw VP arguments in the format "name"
// or "name=value". See [platform.ParseArgument].
type ArgList []platform.Argument

func (l *ArgList) String() string {
	parts := make([]string, 0, len(*l))

	for _, arg := range *l {
		part := arg.Name()
		if arg.Value() != "" {
			part += "=" + arg.Value()
		}

		parts = append(parts, part)
	}

	return strings.Join(parts, ",")
}

func (l *ArgList) Set(s string) error {
	arg, err := platform.ParseArgument(s)
	if err != nil {
		return err //nolint:wrapcheck
	}

	*l = append(*l, arg)

	return nil
}
