// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
)

// FilePath is a [flag.Value] that stores the absolute form of the given path.
type FilePath string

func (f *FilePath) String() string {
	return string(*f)
}

func (f *FilePath) Set(s string) error {
	path, err := AbsoluteFilePath(s)
	if err != nil {
		return err
	}

	*f = FilePath(path)

	return nil
}

func AbsoluteFilePath(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyFilePath
	}

	path, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("absolute path: %w", err)
	}

	return path, nil
}

func ValidateFilePath(name string) error {
	stat, err := os.Stat(name)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if !stat.Mode().IsRegular() {
		return ErrNotRegularFile
	}

	return nil
}

func ValidateDirPath(name string) error {
	stat, err := os.Stat(name)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if !stat.IsDir() {
		return ErrNotDirectory
	}

	return nil
}
