// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package platform

import (
	"fmt"
	"slices"
	"strings"
)

const (
	argPrefix    = "--"
	paramArgName = "param"
)

// Argument is a VP argument with or without value.
//
// Its name might be marked to be unique in a list of arguments.
type Argument struct {
	name          string
	value         string
	nonUniqueName bool
}

// String implements [fmt.Stringer].
func (a Argument) String() string {
	s := argPrefix + a.name
	if a.value != "" {
		s += " " + a.value
	}

	return s
}

// Name returns the name of the [Argument].
func (a Argument) Name() string {
	return a.name
}

// Value returns the value of the [Argument].
func (a Argument) Value() string {
	return a.value
}

// UniqueName returns if the name of the [Argument] must be unique in a list of
// arguments.
func (a Argument) UniqueName() bool {
	return !a.nonUniqueName
}

// Equal compares the [Argument]s.
//
// If the name of either one is marked unique, only names are compared.
// Otherwise name and value are compared.
func (a Argument) Equal(other Argument) bool {
	if a.Name() != other.Name() {
		return false
	}

	if a.UniqueName() || other.UniqueName() {
		return true
	}

	return a.Value() == other.Value()
}

// UniqueArg returns a new [Argument] with the given name that is marked as
// unique and so can be used in a list of arguments only once.
func UniqueArg(name string, value ...string) Argument {
	return Argument{
		name:  name,
		value: strings.Join(value, ","),
	}
}

// RepeatableArg returns a new [Argument] with the given name that is not
// unique and so can be used in a list of arguments multiple times.
func RepeatableArg(name string, value ...string) Argument {
	return Argument{
		name:          name,
		value:         strings.Join(value, ","),
		nonUniqueName: true,
	}
}

// ArgConfigFile returns the argument for the Lua configuration file.
func ArgConfigFile(path string) Argument {
	return UniqueArg("gs_luafile", path)
}

// ArgParam returns the argument for a single "key=value" platform parameter.
func ArgParam(param string) Argument {
	return RepeatableArg(paramArgName, param)
}

// ParseArgument parses a raw VP argument given as "name" or "name=value".
// Leading dashes of the name are ignored. "param" arguments are repeatable like
// [ArgParam], all others are unique.
func ParseArgument(s string) (Argument, error) {
	name, value, _ := strings.Cut(strings.TrimLeft(s, "-"), "=")
	if name == "" {
		return Argument{}, fmt.Errorf("%w: %q", ErrArgumentMalformed, s)
	}

	if name == paramArgName {
		return ArgParam(value), nil
	}

	return UniqueArg(name, value), nil
}

// BuildArgumentStrings compiles the [Argument]s into a slice of strings which
// can be used with [exec.Command].
//
// It returns an error if any name uniqueness constraints of any [Argument] is
// violated.
func BuildArgumentStrings(args []Argument) ([]string, error) {
	argStrings := make([]string, 0, 2*len(args))

	for idx, arg := range args {
		if i := slices.IndexFunc(args[:idx], arg.Equal); i != -1 {
			return nil, fmt.Errorf(
				"%w: %s, %s",
				ErrArgumentCollision,
				arg.String(),
				args[i].String(),
			)
		}

		argStrings = append(argStrings, argPrefix+arg.Name())

		if arg.Value() != "" {
			argStrings = append(argStrings, arg.Value())
		}
	}

	return argStrings, nil
}
