// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package expect

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpecter_append(t *testing.T) {
	var mirror bytes.Buffer

	e := &Expecter{mirror: &mirror}

	dropped := e.append(bytes.Repeat([]byte("a"), maxBufferSize-2))
	assert.Zero(t, dropped)

	dropped = e.append([]byte("bbbb"))
	assert.Equal(t, 2, dropped)
	assert.Len(t, e.buf, maxBufferSize)
	assert.Equal(t, maxBufferSize+2, mirror.Len())

	assert.True(t, e.consumeMatch([]byte("abbbb"), maxBufferSize-10))
	assert.Empty(t, e.buf)
}

func TestExpecter_consumeMatch(t *testing.T) {
	tests := []struct {
		name      string
		buf       string
		needle    string
		from      int
		matched   bool
		remaining string
	}{
		{
			name:      "match keeps rest",
			buf:       "login: root\r\n# ",
			needle:    "root",
			matched:   true,
			remaining: "\r\n# ",
		},
		{
			name:      "no match",
			buf:       "login: ",
			needle:    "#",
			remaining: "login: ",
		},
		{
			name:      "match before from is ignored",
			buf:       "# ls\r\n",
			needle:    "#",
			from:      1,
			remaining: "# ls\r\n",
		},
		{
			name:      "first of several matches",
			buf:       "# # ",
			needle:    "#",
			matched:   true,
			remaining: " # ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Expecter{mirror: io.Discard, buf: []byte(tt.buf)}

			assert.Equal(t, tt.matched, e.consumeMatch([]byte(tt.needle), tt.from))
			assert.Equal(t, tt.remaining, string(e.buf))
		})
	}
}
