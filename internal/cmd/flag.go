// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/aibor/vpboot/internal/platform"
	"github.com/aibor/vpboot/internal/vpboot"
)

const (
	name = "vpboot"

	usageMessage = `Usage of 'vpboot':
    vpboot [flags...] [key=value...]

Boots the Linux image on the virtual platform, logs in as root and halts the
system. Succeeds only if the system reports a clean halt.

Example:
	vpboot -e ./build/vp -i ./images -v QQVP_LOG=debug

The -env flag takes all following words up to the next flag, so
"-v A=1 B=2 -debug" passes two overrides. Trailing positional arguments are
environment overrides like -env values.

All vpboot flags can also be provided via environment variable VPBOOT_ARGS:
	VPBOOT_ARGS="-img ./images -debug" vpboot -e ./build/vp

All vpboot flags can also be provided via file ./.vpboot-args, with one
argument per line.
`
)

type flags struct {
	ExecutablePath string
	ImageDir       FilePath
	ConfigFile     FilePath
	EnvVars        EnvVarList
	EnvFile        FilePath
	Params         ParamList
	Args           ArgList
	Timeout        time.Duration

	Debug   bool
	Version bool
}

func (f *flags) logLevel() slog.Level {
	if f.Debug {
		return slog.LevelDebug
	}

	return slog.LevelWarn
}

// parseArgs parses the given arguments. Flag parsing stops at the first
// positional argument. All positional arguments are taken as further
// environment overrides.
func parseArgs(args []string, output io.Writer) (*flags, error) {
	flags := &flags{
		Timeout: vpboot.DefaultTimeout,
	}

	flagSet := newFlagSet(flags, output)

	err := flagSet.Parse(joinEnvValues(args))
	if err != nil {
		return nil, &ParseArgsError{msg: "flag parse", err: err}
	}

	// The version is printed by the caller, nothing else is required.
	if flags.Version {
		return flags, nil
	}

	if flags.ExecutablePath == "" {
		return nil, fail(flagSet, "no vp executable given (use -exe)", nil)
	}

	if flags.ImageDir == "" {
		return nil, fail(flagSet, "no image directory given (use -img)", nil)
	}

	if flags.Timeout <= 0 {
		return nil, fail(flagSet, "timeout must be positive", nil)
	}

	for _, arg := range flagSet.Args() {
		err := flags.EnvVars.Set(arg)
		if err != nil {
			return nil, fail(flagSet, "invalid environment override", err)
		}
	}

	if flags.ConfigFile == "" {
		flags.ConfigFile = FilePath(filepath.Join(
			string(flags.ImageDir),
			platform.DefaultConfigFileName,
		))
	}

	return flags, nil
}

// joinEnvValues merges the words following an -env or -v flag into the flag's
// value, up to the next argument starting with "-".
func joinEnvValues(args []string) []string {
	joined := make([]string, 0, len(args))

	for idx := 0; idx < len(args); idx++ {
		arg := args[idx]
		joined = append(joined, arg)

		if arg == "--" {
			return append(joined, args[idx+1:]...)
		}

		if !isEnvFlag(arg) {
			continue
		}

		values := []string{}
		for idx+1 < len(args) && !strings.HasPrefix(args[idx+1], "-") {
			idx++
			values = append(values, args[idx])
		}

		if len(values) > 0 {
			joined = append(joined, strings.Join(values, " "))
		}
	}

	return joined
}

func isEnvFlag(arg string) bool {
	if !strings.HasPrefix(arg, "-") {
		return false
	}

	switch strings.TrimPrefix(strings.TrimPrefix(arg, "-"), "-") {
	case "env", "v":
		return true
	default:
		return false
	}
}

func newFlagSet(f *flags, output io.Writer) *flag.FlagSet {
	flagSet := flag.NewFlagSet(name, flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(flagSet.Output(), usageMessage)
		fmt.Fprintln(flagSet.Output(), "\nFlags:")
		flagSet.PrintDefaults()
	}

	for _, flagName := range []string{"exe", "e"} {
		flagSet.StringVar(
			&f.ExecutablePath,
			flagName,
			f.ExecutablePath,
			"path to the vp executable (required)",
		)
	}

	for _, flagName := range []string{"img", "i"} {
		flagSet.Var(
			&f.ImageDir,
			flagName,
			"path to the directory of binary images (required)",
		)
	}

	for _, flagName := range []string{"lua", "l"} {
		flagSet.Var(
			&f.ConfigFile,
			flagName,
			"path to the Lua config file (default: conf.lua in image dir)",
		)
	}

	for _, flagName := range []string{"env", "v"} {
		flagSet.Var(
			&f.EnvVars,
			flagName,
			"additional env vars in the format 'var1=val1 var2=val2 ...'. "+
				"Flag may be used more than once.",
		)
	}

	flagSet.Var(
		&f.EnvFile,
		"envfile",
		"dotenv file with additional env vars. Values must not contain '='. "+
			"Values given by -env win.",
	)

	flagSet.Var(
		&f.Params,
		"param",
		"additional platform parameter in the format 'key=value'. "+
			"Flag may be used more than once.",
	)

	flagSet.Var(
		&f.Args,
		"arg",
		"additional raw vp argument in the format 'name' or 'name=value', "+
			"passed as '--name value'. Flag may be used more than once.",
	)

	flagSet.DurationVar(
		&f.Timeout,
		"timeout",
		f.Timeout,
		"timeout for each expected console message",
	)

	flagSet.BoolVar(
		&f.Debug,
		"debug",
		f.Debug,
		"enable debug output",
	)

	flagSet.BoolVar(
		&f.Version,
		"version",
		f.Version,
		"show version and exit",
	)

	return flagSet
}

// fail fails like flag does. It prints the error first and then usage.
func fail(flagSet *flag.FlagSet, msg string, err error) error {
	err = &ParseArgsError{msg: msg, err: err}
	fmt.Fprintln(flagSet.Output(), err.Error())

	flagSet.Usage()

	return err
}
