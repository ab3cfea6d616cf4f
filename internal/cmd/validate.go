// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"os/exec"
)

// validateFilePaths checks the given files are actually present. The
// executable path is replaced by the one resolved with [exec.LookPath].
func (f *flags) validateFilePaths() error {
	executable, err := exec.LookPath(f.ExecutablePath)
	if err != nil {
		return fmt.Errorf("vp executable: %w", err)
	}

	f.ExecutablePath = executable

	err = ValidateDirPath(string(f.ImageDir))
	if err != nil {
		return fmt.Errorf("image dir: %w", err)
	}

	err = ValidateFilePath(string(f.ConfigFile))
	if err != nil {
		return fmt.Errorf("lua file: %w", err)
	}

	if f.EnvFile != "" {
		err = ValidateFilePath(string(f.EnvFile))
		if err != nil {
			return fmt.Errorf("env file: %w", err)
		}
	}

	return nil
}
