package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/dagselect/internal/manifest"
)

func TestParseFullInvocation(t *testing.T) {
	out := &bytes.Buffer{}
	cfg, exit, err := Parse([]string{
		"--manifest", "manifest.yml",
		"-s", "orders+",
		"--select", "tag:nightly",
		"--exclude", "tag:wip",
		"--resource-type", "model",
		"--resource-type", "seed",
		"--greedy",
		"--log-level", "debug",
		"--log-format", "json",
	}, out)

	require.NoError(t, err)
	require.False(t, exit)
	assert.Equal(t, "manifest.yml", cfg.ManifestPath)
	assert.Equal(t, []string{"orders+", "tag:nightly"}, cfg.Select)
	assert.Equal(t, []string{"tag:wip"}, cfg.Exclude)
	assert.Equal(t, []manifest.ResourceKind{manifest.KindModel, manifest.KindSeed}, cfg.ResourceTypes)
	assert.True(t, cfg.Greedy)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestParsePositionalManifest(t *testing.T) {
	out := &bytes.Buffer{}
	cfg, exit, err := Parse([]string{"-s", "orders", "manifest.yml"}, out)

	require.NoError(t, err)
	require.False(t, exit)
	assert.Equal(t, "manifest.yml", cfg.ManifestPath)
}

func TestParseNoManifestPrintsUsage(t *testing.T) {
	out := &bytes.Buffer{}
	cfg, exit, err := Parse(nil, out)

	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParseHelpFlag(t *testing.T) {
	out := &bytes.Buffer{}
	cfg, exit, err := Parse([]string{"-h"}, out)

	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name      string
		args      []string
		expectErr string
	}{
		{
			name:      "invalid log format",
			args:      []string{"--log-format", "xml", "manifest.yml"},
			expectErr: "invalid log-format",
		},
		{
			name:      "invalid log level",
			args:      []string{"--log-level", "trace", "manifest.yml"},
			expectErr: "invalid log-level",
		},
		{
			name:      "selector combined with select",
			args:      []string{"--selector", "nightly", "-s", "orders", "manifest.yml"},
			expectErr: "--selector cannot be combined",
		},
		{
			name:      "selector without selectors file",
			args:      []string{"--selector", "nightly", "manifest.yml"},
			expectErr: "--selector requires --selectors-file",
		},
		{
			name:      "unknown resource type",
			args:      []string{"--resource-type", "widget", "manifest.yml"},
			expectErr: "widget",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			_, _, err := Parse(tc.args, out)

			require.Error(t, err)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.expectErr)
		})
	}
}
