// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package platform_test

import (
	"testing"

	"github.com/aibor/vpboot/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgument_String(t *testing.T) {
	assert.Equal(t, "--gs_luafile /img/conf.lua",
		platform.ArgConfigFile("/img/conf.lua").String())
	assert.Equal(t, "--nothing", platform.UniqueArg("nothing").String())
}

func TestArgument_Equal(t *testing.T) {
	tests := []struct {
		name     string
		a, b     platform.Argument
		expected bool
	}{
		{
			name:     "unique same name",
			a:        platform.UniqueArg("gs_luafile", "a"),
			b:        platform.UniqueArg("gs_luafile", "b"),
			expected: true,
		},
		{
			name: "unique different name",
			a:    platform.UniqueArg("one"),
			b:    platform.UniqueArg("two"),
		},
		{
			name: "repeatable different value",
			a:    platform.ArgParam("a=1"),
			b:    platform.ArgParam("b=2"),
		},
		{
			name:     "unique and repeatable same name",
			a:        platform.UniqueArg("param", "a=1"),
			b:        platform.ArgParam("b=2"),
			expected: true,
		},
		{
			name:     "repeatable same value",
			a:        platform.ArgParam("a=1"),
			b:        platform.ArgParam("a=1"),
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.Equal(tt.b))
			assert.Equal(t, tt.expected, tt.b.Equal(tt.a))
		})
	}
}

func TestParseArgument(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    platform.Argument
		expectedErr error
	}{
		{
			name:     "name only",
			input:    "quiet",
			expected: platform.UniqueArg("quiet"),
		},
		{
			name:     "name and value",
			input:    "--gs_log_level=3",
			expected: platform.UniqueArg("gs_log_level", "3"),
		},
		{
			name:     "value with separator",
			input:    "-trace=cpu=1",
			expected: platform.UniqueArg("trace", "cpu=1"),
		},
		{
			name:     "param is repeatable",
			input:    "param=platform.ram=1G",
			expected: platform.ArgParam("platform.ram=1G"),
		},
		{
			name:        "empty",
			input:       "",
			expectedErr: platform.ErrArgumentMalformed,
		},
		{
			name:        "no name",
			input:       "--=3",
			expectedErr: platform.ErrArgumentMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := platform.ParseArgument(tt.input)
			require.ErrorIs(t, err, tt.expectedErr)
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestBuildArgumentStrings(t *testing.T) {
	tests := []struct {
		name        string
		args        []platform.Argument
		expected    []string
		expectedErr error
	}{
		{
			name:     "empty",
			expected: []string{},
		},
		{
			name: "config and params",
			args: []platform.Argument{
				platform.ArgConfigFile("/img/conf.lua"),
				platform.ArgParam("platform.with_gpu=false"),
				platform.ArgParam("platform.smp=2"),
				platform.UniqueArg("quiet"),
			},
			expected: []string{
				"--gs_luafile", "/img/conf.lua",
				"--param", "platform.with_gpu=false",
				"--param", "platform.smp=2",
				"--quiet",
			},
		},
		{
			name: "unique collision",
			args: []platform.Argument{
				platform.ArgConfigFile("/img/conf.lua"),
				platform.ArgConfigFile("/other/conf.lua"),
			},
			expectedErr: platform.ErrArgumentCollision,
		},
		{
			name: "raw argument collides with config file",
			args: []platform.Argument{
				platform.ArgConfigFile("/img/conf.lua"),
				platform.RepeatableArg("gs_luafile", "/other/conf.lua"),
			},
			expectedErr: platform.ErrArgumentCollision,
		},
		{
			name: "repeatable collision",
			args: []platform.Argument{
				platform.ArgParam("platform.with_gpu=false"),
				platform.ArgParam("platform.with_gpu=false"),
			},
			expectedErr: platform.ErrArgumentCollision,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := platform.BuildArgumentStrings(tt.args)
			require.ErrorIs(t, err, tt.expectedErr)
			assert.Equal(t, tt.expected, actual)
		})
	}
}
