// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package expect_test

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aibor/vpboot/internal/expect"
	"github.com/stretchr/testify/assert"
)

type conn struct {
	io.Reader
	io.Writer
}

// peer is the process side of an in-memory conversation.
type peer struct {
	output *io.PipeWriter
	input  *io.PipeReader
	lines  *bufio.Reader
}

func newExpecter(tb testing.TB, mirror io.Writer) (*expect.Expecter, *peer) {
	tb.Helper()

	outputReader, outputWriter := io.Pipe()
	inputReader, inputWriter := io.Pipe()

	expecter := expect.NewExpecter(
		conn{Reader: outputReader, Writer: inputWriter},
		mirror,
	)

	tb.Cleanup(func() {
		_ = outputWriter.Close()
		_ = inputReader.Close()

		expecter.Close()
		assert.NoError(tb, expecter.Wait(time.Second), "reader wait")
	})

	return expecter, &peer{
		output: outputWriter,
		input:  inputReader,
		lines:  bufio.NewReader(inputReader),
	}
}

func (p *peer) print(s string) error {
	_, err := io.WriteString(p.output, s)
	return err
}

func (p *peer) expectLine(expected string) error {
	line, err := p.lines.ReadString('\n')
	if err != nil {
		return err
	}

	line = strings.TrimSuffix(line, "\n")
	if line != expected {
		return fmt.Errorf("unexpected line %q, want %q", line, expected)
	}

	return nil
}

// play runs the given function as the process side in the background.
func (p *peer) play(fn func(p *peer) error) <-chan error {
	errCh := make(chan error, 1)

	go func() {
		errCh <- fn(p)
	}()

	return errCh
}

func bootScript(timeout time.Duration) expect.Script {
	return expect.Script{
		Steps: []expect.Step{
			expect.Expect("buildroot login:"),
			expect.SendLine("root"),
			expect.Expect("#"),
			expect.SendLine("/sbin/halt"),
			expect.Expect("reboot: System halted"),
		},
		Timeout: timeout,
	}
}

// bootingSystem plays a system that boots, accepts the login and halts. With
// stall set, it stops responding after the login.
func bootingSystem(stall bool) func(p *peer) error {
	return func(p *peer) error {
		err := p.print("Welcome to Buildroot\r\nbuildroot login: ")
		if err != nil {
			return err
		}

		err = p.expectLine("root")
		if err != nil {
			return err
		}

		if stall {
			return nil
		}

		err = p.print("# ")
		if err != nil {
			return err
		}

		err = p.expectLine("/sbin/halt")
		if err != nil {
			return err
		}

		return p.print("The system is going down NOW!\r\n" +
			"reboot: System halted\r\n")
	}
}
