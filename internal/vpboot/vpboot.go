// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package vpboot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aibor/vpboot/internal/expect"
	"github.com/aibor/vpboot/internal/platform"
)

const (
	LoginPrompt   = "buildroot login:"
	LoginUser     = "root"
	ShellPrompt   = "#"
	HaltCommand   = "/sbin/halt"
	HaltedMessage = "reboot: System halted"

	// DefaultTimeout bounds each expected message.
	DefaultTimeout = 300 * time.Second

	readerWaitTimeout = 5 * time.Second
)

// Spec describes a single [Run].
type Spec struct {
	Platform platform.CommandSpec

	// Timeout for each expected message. Defaults to [DefaultTimeout].
	Timeout time.Duration

	// Time the platform process gets to exit after SIGTERM. Defaults to
	// [expect.DefaultKillGracePeriod].
	KillGracePeriod time.Duration

	// Lookup function for the invoking environment. Defaults to
	// [os.LookupEnv].
	LookupEnv platform.LookupEnvFunc
}

// LinuxBootScript returns the conversation with a booting Buildroot Linux
// system. It logs in, halts the system and waits for the kernel's halt
// message.
func LinuxBootScript(timeout time.Duration) expect.Script {
	return expect.Script{
		Steps: []expect.Step{
			expect.Expect(LoginPrompt),
			expect.SendLine(LoginUser),
			expect.Expect(ShellPrompt),
			expect.SendLine(HaltCommand),
			expect.Expect(HaltedMessage),
		},
		Timeout: timeout,
	}
}

// Run boots the platform described by the given [Spec] and runs the
// [LinuxBootScript] against it. All platform output is mirrored to stdout.
//
// It returns nil only if the complete conversation succeeded. The platform
// process is terminated in any case before Run returns.
func Run(ctx context.Context, spec Spec, stdout io.Writer) error {
	timeout := spec.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	cmd, err := platform.NewCommand(spec.Platform, spec.LookupEnv)
	if err != nil {
		return fmt.Errorf("platform command: %w", err)
	}

	slog.Debug("Platform command", slog.String("command", cmd.String()))
	fmt.Fprintf(stdout, "Starting platform with environment %v\n", cmd.Env)

	session, err := expect.StartSession(ctx, expect.SessionSpec{
		Executable:      cmd.Executable,
		Args:            cmd.Args,
		Env:             cmd.Env,
		Dir:             cmd.Dir,
		KillGracePeriod: spec.KillGracePeriod,
	})
	if err != nil {
		return fmt.Errorf("platform session: %w", err)
	}

	expecter := expect.NewExpecter(session, stdout)
	defer teardown(session, expecter)

	err = LinuxBootScript(timeout).Run(ctx, expecter)
	if err != nil {
		return fmt.Errorf("boot: %w", err)
	}

	slog.Debug("Platform halted", slog.Int("pid", session.Pid()))

	return nil
}

func teardown(session *expect.Session, expecter *expect.Expecter) {
	err := session.Close()
	if err != nil {
		slog.Warn("Failed to close platform session", slog.Any("error", err))
	}

	slog.Debug("Platform process exited", slog.Any("status", session.ExitErr()))

	expecter.Close()

	err = expecter.Wait(readerWaitTimeout)
	if err != nil {
		slog.Warn("Platform output reader did not terminate",
			slog.Any("error", err))
	}
}
