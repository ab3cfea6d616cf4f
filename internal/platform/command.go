// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package platform

import (
	"path/filepath"
	"strings"
)

const (
	// DefaultConfigFileName is the name of the Lua configuration file that is
	// used if no config file is given explicitly.
	DefaultConfigFileName = "conf.lua"

	// ParamDisableGPU disables GPU support of the platform.
	ParamDisableGPU = "platform.with_gpu=false"
)

// DefaultParams are the platform parameters passed unless overridden, see
// [MergeParams].
func DefaultParams() []string {
	return []string{ParamDisableGPU}
}

// MergeParams returns the defaults followed by the given params. A default
// is dropped if any of the params has the same key.
func MergeParams(defaults, params []string) []string {
	keys := make(map[string]bool, len(params))
	for _, param := range params {
		keys[paramKey(param)] = true
	}

	merged := make([]string, 0, len(defaults)+len(params))

	for _, param := range defaults {
		if !keys[paramKey(param)] {
			merged = append(merged, param)
		}
	}

	return append(merged, params...)
}

func paramKey(param string) string {
	key, _, _ := strings.Cut(param, "=")
	return key
}

// CommandSpec defines the parameters for a [Command].
type CommandSpec struct {
	// Path to the VP executable.
	Executable string

	// Path to the Lua configuration file. Defaults to "conf.lua" in the
	// image directory.
	ConfigFile string

	// Path to the directory of the binary images the platform boots.
	ImageDir string

	// Platform parameters as "key=value" strings. Each is passed with a
	// separate "--param" argument.
	Params []string

	// ExtraArgs are extra arguments that are passed to the VP executable.
	// They must not interfere with the essential arguments set by the command
	// itself or an error will be returned by [NewCommand].
	ExtraArgs []Argument

	// Additional environment variables as "key=value" strings. They take
	// precedence over the variables set by default.
	EnvVars []string

	// Working directory of the VP process. Empty means the current one.
	Dir string
}

// Command is a ready to run VP invocation.
type Command struct {
	Executable string
	Args       []string
	Env        []string
	Dir        string
}

// NewCommand creates a new [Command] from the given [CommandSpec].
//
// The environment is assembled by [NewEnvironment] with the given lookup
// function. If it is nil, [os.LookupEnv] is used.
func NewCommand(spec CommandSpec, lookupEnv LookupEnvFunc) (*Command, error) {
	if spec.Executable == "" {
		return nil, ErrExecutableMissing
	}

	if spec.ImageDir == "" {
		return nil, ErrImageDirMissing
	}

	env, err := NewEnvironment(spec.ImageDir, spec.EnvVars, lookupEnv)
	if err != nil {
		return nil, err
	}

	args, err := BuildArgumentStrings(spec.arguments())
	if err != nil {
		return nil, err
	}

	cmd := &Command{
		Executable: spec.Executable,
		Args:       args,
		Env:        env.List(),
		Dir:        spec.Dir,
	}

	return cmd, nil
}

func (s *CommandSpec) configFile() string {
	if s.ConfigFile != "" {
		return s.ConfigFile
	}

	return filepath.Join(s.ImageDir, DefaultConfigFileName)
}

func (s *CommandSpec) arguments() []Argument {
	args := []Argument{
		ArgConfigFile(s.configFile()),
	}

	for _, param := range s.Params {
		args = append(args, ArgParam(param))
	}

	return append(args, s.ExtraArgs...)
}

// String returns a human readable representation of the command including
// its environment, suitable for logging.
func (c *Command) String() string {
	parts := make([]string, 0, len(c.Env)+len(c.Args)+1)
	parts = append(parts, c.Env...)
	parts = append(parts, c.Executable)
	parts = append(parts, c.Args...)

	return strings.Join(parts, " ")
}
