// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"flag"
	"fmt"
)

var (
	ErrHelp           = flag.ErrHelp
	ErrReadBuildInfo  = errors.New("failed to read build info")
	ErrEmptyFilePath  = errors.New("file path must not be empty")
	ErrNotRegularFile = errors.New("not a regular file")
	ErrNotDirectory   = errors.New("not a directory")
	ErrParamMalformed = errors.New("param must be in the format key=value")
)

// ParseArgsError wraps errors that occur during argument parsing.
type ParseArgsError struct {
	msg string
	err error
}

func (e *ParseArgsError) Error() string {
	if e.err == nil {
		return e.msg
	}

	return fmt.Sprintf("%s: %v", e.msg, e.err)
}

func (e *ParseArgsError) Is(other error) bool {
	_, ok := other.(*ParseArgsError)
	return ok
}

func (e *ParseArgsError) Unwrap() error {
	return e.err
}
