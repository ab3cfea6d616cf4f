// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package expect

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/creack/pty"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"
)

const (
	terminalRows = 24
	terminalCols = 80

	// DefaultKillGracePeriod is the time a terminated process is given to
	// exit before it is killed.
	DefaultKillGracePeriod = 5 * time.Second

	groupPollInterval = 20 * time.Millisecond
)

// SessionSpec defines the process of a [Session].
type SessionSpec struct {
	// Path to the executable.
	Executable string

	// Arguments passed to the executable.
	Args []string

	// Complete environment of the process as "key=value" strings. Nothing
	// is inherited from the current process.
	Env []string

	// Working directory of the process. Empty means the current one.
	Dir string

	// Time between SIGTERM and SIGKILL on termination. Defaults to
	// [DefaultKillGracePeriod].
	KillGracePeriod time.Duration
}

// Session is a process attached to a pseudo-terminal.
//
// It implements [io.ReadWriter] on the terminal, so it can be used with an
// [Expecter]. The process runs in its own session and process group, which is
// terminated as a whole by [Session.Close].
type Session struct {
	cmd *exec.Cmd
	pty *os.File

	killGracePeriod time.Duration

	group   errgroup.Group
	exited  chan struct{}
	exitErr error

	closeOnce sync.Once
	closeErr  error
}

// StartSession starts the process defined by the given [SessionSpec] attached
// to a new pseudo-terminal.
//
// If ctx is done before the process exits, the process group is terminated.
// The caller owns the returned [Session] and must call [Session.Close].
func StartSession(ctx context.Context, spec SessionSpec) (*Session, error) {
	killGracePeriod := spec.KillGracePeriod
	if killGracePeriod <= 0 {
		killGracePeriod = DefaultKillGracePeriod
	}

	cmd := exec.CommandContext(ctx, spec.Executable, spec.Args...)
	// A non-nil environment, so nothing is inherited.
	cmd.Env = append([]string{}, spec.Env...)
	cmd.Dir = spec.Dir
	cmd.WaitDelay = killGracePeriod
	cmd.Cancel = func() error {
		return signalGroup(cmd.Process, unix.SIGTERM)
	}

	terminal, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: terminalRows,
		Cols: terminalCols,
	})
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}

	slog.Debug("Session started",
		slog.String("executable", spec.Executable),
		slog.Int("pid", cmd.Process.Pid))

	session := &Session{
		cmd:             cmd,
		pty:             terminal,
		killGracePeriod: killGracePeriod,
		exited:          make(chan struct{}),
	}

	session.group.Go(session.wait)

	return session, nil
}

func (s *Session) wait() error {
	defer close(s.exited)

	err := s.cmd.Wait()
	if err != nil {
		return fmt.Errorf("process: %w", err)
	}

	return nil
}

// Pid returns the process ID of the session's process.
func (s *Session) Pid() int {
	return s.cmd.Process.Pid
}

// Exited returns a channel that is closed once the process has exited.
func (s *Session) Exited() <-chan struct{} {
	return s.exited
}

// Read reads the terminal output. Once the process and all other holders of
// the terminal are gone, it returns [io.EOF].
func (s *Session) Read(p []byte) (int, error) {
	n, err := s.pty.Read(p)
	if errors.Is(err, unix.EIO) || errors.Is(err, os.ErrClosed) {
		err = io.EOF
	}

	return n, err //nolint:wrapcheck
}

// Write writes to the terminal input.
func (s *Session) Write(p []byte) (int, error) {
	return s.pty.Write(p) //nolint:wrapcheck
}

// Close terminates the process group, waits for the process to exit and
// closes the terminal. It is safe to call Close multiple times.
//
// The returned error only covers the teardown itself. The exit status of the
// process is available by [Session.ExitErr] afterwards.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.close()
	})

	return s.closeErr
}

func (s *Session) close() error {
	termErr := s.terminate()

	s.exitErr = s.group.Wait()
	if s.exitErr != nil {
		slog.Debug("Session process exited", slog.Any("error", s.exitErr))
	}

	err := s.pty.Close()
	if err != nil {
		err = fmt.Errorf("close terminal: %w", err)
	}

	return errors.Join(termErr, err)
}

// terminate sends SIGTERM to the process group, even if its leader is gone
// already, and SIGKILL if the group still exists after the grace period.
func (s *Session) terminate() error {
	err := signalGroup(s.cmd.Process, unix.SIGTERM)
	if err != nil {
		return fmt.Errorf("terminate: %w", err)
	}

	if s.awaitGroupExit(s.killGracePeriod) {
		return nil
	}

	slog.Debug("Session process group did not terminate in time, killing it",
		slog.Int("pgid", s.Pid()))

	err = signalGroup(s.cmd.Process, unix.SIGKILL)
	if err != nil {
		return fmt.Errorf("kill: %w", err)
	}

	return nil
}

// awaitGroupExit waits for the process to exit and for the rest of its process
// group to be gone. It returns false if this does not happen within timeout.
func (s *Session) awaitGroupExit(timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-s.exited:
	case <-timer.C:
		return false
	}

	ticker := time.NewTicker(groupPollInterval)
	defer ticker.Stop()

	for groupExists(s.cmd.Process) {
		select {
		case <-ticker.C:
		case <-timer.C:
			return false
		}
	}

	return true
}

// ExitErr returns the error the process exited with. It is only valid after
// [Session.Close] returned.
func (s *Session) ExitErr() error {
	return s.exitErr
}

// groupExists returns true as long as any process of the group led by the
// given process is left.
func groupExists(process *os.Process) bool {
	return unix.Kill(-process.Pid, 0) == nil
}

// signalGroup sends the signal to the process group led by the given process.
// A process group that is already gone is not an error.
func signalGroup(process *os.Process, sig unix.Signal) error {
	err := unix.Kill(-process.Pid, sig)
	if err != nil && !errors.Is(err, unix.ESRCH) {
		return err //nolint:wrapcheck
	}

	return nil
}
