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

func TestNewCommand(t *testing.T) {
	lookup := lookupFrom(map[string]string{
		"PWD":  "/work",
		"HOME": "/root",
	})

	tests := []struct {
		name        string
		spec        platform.CommandSpec
		expected    *platform.Command
		expectedErr error
	}{
		{
			name: "no executable",
			spec: platform.CommandSpec{
				ImageDir: "/img",
			},
			expectedErr: platform.ErrExecutableMissing,
		},
		{
			name: "no image dir",
			spec: platform.CommandSpec{
				Executable: "/opt/vp/vp",
			},
			expectedErr: platform.ErrImageDirMissing,
		},
		{
			name: "default config file",
			spec: platform.CommandSpec{
				Executable: "/opt/vp/vp",
				ImageDir:   "/img",
				Params:     platform.DefaultParams(),
			},
			expected: &platform.Command{
				Executable: "/opt/vp/vp",
				Args: []string{
					"--gs_luafile", "/img/conf.lua",
					"--param", "platform.with_gpu=false",
				},
				Env: []string{
					"PWD=/work",
					"QQVP_IMAGE_DIR=/img",
				},
			},
		},
		{
			name: "everything",
			spec: platform.CommandSpec{
				Executable: "/opt/vp/vp",
				ConfigFile: "/conf/linux.lua",
				ImageDir:   "/img",
				Params: []string{
					"platform.with_gpu=false",
					"platform.ram=1G",
				},
				ExtraArgs: []platform.Argument{
					platform.UniqueArg("gs_log_level", "3"),
				},
				EnvVars: []string{"GS_DEBUG=1"},
				Dir:     "/tmp",
			},
			expected: &platform.Command{
				Executable: "/opt/vp/vp",
				Args: []string{
					"--gs_luafile", "/conf/linux.lua",
					"--param", "platform.with_gpu=false",
					"--param", "platform.ram=1G",
					"--gs_log_level", "3",
				},
				Env: []string{
					"GS_DEBUG=1",
					"PWD=/work",
					"QQVP_IMAGE_DIR=/img",
				},
				Dir: "/tmp",
			},
		},
		{
			name: "extra arg collision",
			spec: platform.CommandSpec{
				Executable: "/opt/vp/vp",
				ImageDir:   "/img",
				ExtraArgs: []platform.Argument{
					platform.ArgConfigFile("/other.lua"),
				},
			},
			expectedErr: platform.ErrArgumentCollision,
		},
		{
			name: "malformed env var",
			spec: platform.CommandSpec{
				Executable: "/opt/vp/vp",
				ImageDir:   "/img",
				EnvVars:    []string{"A=B=C"},
			},
			expectedErr: platform.ErrEnvVarMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := platform.NewCommand(tt.spec, lookup)
			require.ErrorIs(t, err, tt.expectedErr)
			assert.Equal(t, tt.expected, cmd)
		})
	}
}

func TestMergeParams(t *testing.T) {
	tests := []struct {
		name     string
		params   []string
		expected []string
	}{
		{
			name:     "no params",
			expected: []string{"platform.with_gpu=false"},
		},
		{
			name:   "other key",
			params: []string{"platform.ram=1G"},
			expected: []string{
				"platform.with_gpu=false",
				"platform.ram=1G",
			},
		},
		{
			name:     "same key overrides default",
			params:   []string{"platform.with_gpu=true"},
			expected: []string{"platform.with_gpu=true"},
		},
		{
			name:     "same key and value",
			params:   []string{"platform.with_gpu=false"},
			expected: []string{"platform.with_gpu=false"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := platform.MergeParams(platform.DefaultParams(), tt.params)
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestCommand_String(t *testing.T) {
	cmd := platform.Command{
		Executable: "/opt/vp/vp",
		Args:       []string{"--gs_luafile", "/img/conf.lua"},
		Env:        []string{"QQVP_IMAGE_DIR=/img"},
	}

	assert.Equal(t,
		"QQVP_IMAGE_DIR=/img /opt/vp/vp --gs_luafile /img/conf.lua",
		cmd.String(),
	)
}
