package selectorcfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/dagselect/internal/selector"
)

func TestParseSingleSelector(t *testing.T) {
	src := `
selector "nightly" {
  description = "everything the nightly build touches"
  include     = ["tag:nightly+", "@source:events"]
  exclude     = ["tag:wip"]
  greedy      = true
  default     = true
}
`
	file, err := Parse([]byte(src), "selectors.hcl")
	require.NoError(t, err)
	require.Len(t, file.Selectors, 1)

	def, ok := file.Get("nightly")
	require.True(t, ok)
	assert.Equal(t, "everything the nightly build touches", def.Description)
	assert.Equal(t, []string{"tag:nightly+", "@source:events"}, def.Include)
	assert.Equal(t, []string{"tag:wip"}, def.Exclude)
	assert.True(t, def.Greedy)
	assert.True(t, def.Default)

	dflt, ok := file.DefaultSelector()
	require.True(t, ok)
	assert.Same(t, def, dflt)
}

func TestParsePreservesDeclarationOrder(t *testing.T) {
	src := `
selector "b" {
  include = ["tag:b"]
}

selector "a" {
  include = ["tag:a"]
}
`
	file, err := Parse([]byte(src), "selectors.hcl")
	require.NoError(t, err)
	require.Len(t, file.Selectors, 2)
	assert.Equal(t, "b", file.Selectors[0].Name)
	assert.Equal(t, "a", file.Selectors[1].Name)

	_, ok := file.DefaultSelector()
	assert.False(t, ok)
}

func TestCompileBuildsSpecTree(t *testing.T) {
	src := `
selector "slim" {
  include = ["model_a", "tag:nightly,config.materialized:table"]
  exclude = ["model_b"]
}
`
	file, err := Parse([]byte(src), "selectors.hcl")
	require.NoError(t, err)

	def, ok := file.Get("slim")
	require.True(t, ok)

	spec, err := def.Compile()
	require.NoError(t, err)

	diff, ok := spec.(*selector.Composite)
	require.True(t, ok)
	assert.Equal(t, selector.Difference, diff.Op)
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name      string
		src       string
		expectErr string
	}{
		{
			name:      "missing include",
			src:       `selector "x" {}`,
			expectErr: "include",
		},
		{
			name: "empty include list",
			src: `selector "x" {
  include = []
}`,
			expectErr: "Empty include list",
		},
		{
			name: "duplicate selector",
			src: `selector "x" {
  include = ["tag:a"]
}
selector "x" {
  include = ["tag:b"]
}`,
			expectErr: "Duplicate selector",
		},
		{
			name: "multiple defaults",
			src: `selector "x" {
  include = ["tag:a"]
  default = true
}
selector "y" {
  include = ["tag:b"]
  default = true
}`,
			expectErr: "Multiple default selectors",
		},
		{
			name: "include is not a list of strings",
			src: `selector "x" {
  include = 42
}`,
			expectErr: "Invalid attribute value",
		},
		{
			name: "invalid selection criterion",
			src: `selector "x" {
  include = ["@model_a+"]
}`,
			expectErr: "Invalid selection criterion",
		},
		{
			name: "unknown attribute",
			src: `selector "x" {
  include = ["tag:a"]
  bogus   = true
}`,
			expectErr: "Unsupported argument",
		},
		{
			name:      "missing label",
			src:       `selector {}`,
			expectErr: "Missing name for selector",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.src), "selectors.hcl")
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.expectErr)
		})
	}
}
