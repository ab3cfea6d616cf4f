// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package expect

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

const (
	readSize = 4096

	// maxBufferSize limits the unmatched output kept for matching. Older
	// output is dropped once it is exceeded.
	maxBufferSize = 1 << 20

	// outputTailSize is the amount of unmatched output added to a
	// [MatchError].
	outputTailSize = 256

	lineTerminator = "\n"
)

type chunk struct {
	data []byte
	err  error
}

// Expecter waits for literal patterns in the output of an [io.ReadWriter] and
// writes lines to it.
//
// All received output is mirrored to the mirror writer given to
// [NewExpecter]. Mirroring never influences matching.
//
// An Expecter is not safe for concurrent use.
type Expecter struct {
	rw     io.ReadWriter
	mirror io.Writer

	buf     []byte
	readErr error

	chunks     chan chunk
	done       chan struct{}
	readerDone chan struct{}
	closeOnce  sync.Once
}

// NewExpecter creates a new [Expecter] for the given [io.ReadWriter] and
// starts reading from it. If mirror is nil, the output is discarded.
//
// Call [Expecter.Close] once done. The reader terminates when the
// [io.ReadWriter] returns an error, e.g. because it has been closed.
func NewExpecter(rw io.ReadWriter, mirror io.Writer) *Expecter {
	if mirror == nil {
		mirror = io.Discard
	}

	e := &Expecter{
		rw:         rw,
		mirror:     mirror,
		chunks:     make(chan chunk),
		done:       make(chan struct{}),
		readerDone: make(chan struct{}),
	}

	go e.read()

	return e
}

func (e *Expecter) read() {
	defer close(e.readerDone)

	for {
		data := make([]byte, readSize)

		n, err := e.rw.Read(data)
		if n > 0 && !e.deliver(chunk{data: data[:n]}) {
			return
		}

		if err != nil {
			e.deliver(chunk{err: err})
			return
		}
	}
}

func (e *Expecter) deliver(c chunk) bool {
	select {
	case e.chunks <- c:
		return true
	case <-e.done:
		return false
	}
}

func (e *Expecter) closed() bool {
	select {
	case <-e.done:
		return true
	default:
		return false
	}
}

// Expect blocks until the output contains the given literal pattern.
//
// The output up to and including the match is consumed, so the next call only
// sees output following the match. It fails with a [MatchError] wrapping
// [ErrTimeout] if the pattern does not appear within timeout, [ErrEOF] if the
// output ends, or the context's error if ctx is done first. A timeout <= 0
// disables the deadline and only ctx bounds the wait.
func (e *Expecter) Expect(
	ctx context.Context,
	pattern string,
	timeout time.Duration,
) error {
	if pattern == "" {
		return ErrEmptyPattern
	}

	if e.closed() {
		return ErrClosed
	}

	needle := []byte(pattern)

	if e.consumeMatch(needle, 0) {
		return nil
	}

	var deadline <-chan time.Time

	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()

		deadline = timer.C
	}

	for {
		// Once the reader failed, nothing more will arrive.
		if e.readErr != nil {
			return e.matchError(pattern, e.readErr)
		}

		select {
		case <-ctx.Done():
			return e.matchError(pattern, ctx.Err())
		case <-deadline:
			return e.matchError(pattern, ErrTimeout)
		case c := <-e.chunks:
			if c.err != nil {
				e.readErr = readError(c.err)
				continue
			}

			// Only the new data and the overlap for a match spanning
			// the previous end of the buffer need to be scanned.
			scanFrom := max(0, len(e.buf)-len(needle)+1)
			scanFrom = max(0, scanFrom-e.append(c.data))

			if e.consumeMatch(needle, scanFrom) {
				return nil
			}
		}
	}
}

// append adds the data to the buffer and mirrors it. It returns the number of
// bytes dropped from the front of the buffer to keep it within
// [maxBufferSize].
func (e *Expecter) append(data []byte) int {
	_, err := e.mirror.Write(data)
	if err != nil {
		slog.Debug("Failed to mirror output", slog.Any("error", err))
	}

	e.buf = append(e.buf, data...)

	dropped := len(e.buf) - maxBufferSize
	if dropped <= 0 {
		return 0
	}

	e.buf = e.buf[dropped:]

	return dropped
}

func (e *Expecter) consumeMatch(needle []byte, from int) bool {
	idx := bytes.Index(e.buf[from:], needle)
	if idx < 0 {
		return false
	}

	e.buf = e.buf[from+idx+len(needle):]

	return true
}

func (e *Expecter) matchError(pattern string, err error) error {
	output := e.buf
	if len(output) > outputTailSize {
		output = output[len(output)-outputTailSize:]
	}

	return &MatchError{
		Pattern: pattern,
		Output:  string(output),
		Err:     err,
	}
}

func readError(err error) error {
	if errors.Is(err, io.EOF) {
		return ErrEOF
	}

	return fmt.Errorf("read: %w", err)
}

// SendLine writes the given text followed by a line terminator.
func (e *Expecter) SendLine(text string) error {
	if e.closed() {
		return ErrClosed
	}

	_, err := io.WriteString(e.rw, text+lineTerminator)
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}

	return nil
}

// Close stops delivering output. It does not close the underlying
// [io.ReadWriter]. Use [Expecter.Wait] to wait for the reader to terminate.
func (e *Expecter) Close() {
	e.closeOnce.Do(func() {
		close(e.done)
	})
}

// Wait waits for the background reader to terminate. The reader terminates
// once [Expecter.Close] has been called and the underlying reader returned.
// It returns [ErrWaitTimeout] if this does not happen within the given
// timeout.
func (e *Expecter) Wait(timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-e.readerDone:
		return nil
	case <-timer.C:
		return ErrWaitTimeout
	}
}
