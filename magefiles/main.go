// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build mage

package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
	"github.com/magefile/mage/target"
)

const pkg = "github.com/aibor/vpboot/cmd/vpboot"

var env = map[string]string{}

func init() {
	gobin, exists := os.LookupEnv("GOBIN")
	if !exists {
		gobin = "./gobin"
	}

	if gobin != "" {
		p, err := filepath.Abs(gobin)
		if err == nil {
			gobin = p
		}
	}

	env["GOBIN"] = gobin
}

// Install vpboot to gobin directory.
func Install() error {
	path := filepath.Join(env["GOBIN"], "vpboot")

	changed, err := target.Dir(path, "cmd", "internal")
	if err != nil {
		return err
	}

	if !changed {
		return nil
	}

	return sh.RunWith(env, "go", "install", pkg)
}

// Run unit tests with race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "-cover", "./...")
}

// Boot the Linux image in imageDir on the given vp executable.
func Boot(executable, imageDir string) error {
	mg.Deps(Install)

	return sh.RunV(
		filepath.Join(env["GOBIN"], "vpboot"),
		"-exe", executable,
		"-img", imageDir,
	)
}

// Remove volatile files.
func Clean() error {
	return sh.Rm(env["GOBIN"])
}
