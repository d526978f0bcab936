package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"
)

func parseNode(t *testing.T, src string) *yaml.Node {
	t.Helper()
	var n yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(src), &n))
	return &n
}

func TestMarshalJSON(t *testing.T) {
	n := parseNode(t, `zeta: 1
alpha:
  - true
  - null
  - 1.5
  - "text"
  - 0x1F
empty: {}
list: []
quoted: "123"
`)
	out, err := Marshal(n, SourceFormatJSON)
	require.NoError(t, err)
	assert.Equal(t, `{
  "zeta": 1,
  "alpha": [
    true,
    null,
    1.5,
    "text",
    31
  ],
  "empty": {},
  "list": [],
  "quoted": "123"
}
`, string(out))
}

func TestMarshalJSONEscaping(t *testing.T) {
	n := parseNode(t, "k: \"<a href='x&y'>\\n\"\n")
	out, err := Marshal(n, SourceFormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"k\": \"<a href='x&y'>\\n\"\n}\n", string(out))
}

func TestMarshalYAMLFromJSON(t *testing.T) {
	n := parseNode(t, `{"openapi": "3.1.0", "paths": {"/a": {"get": {}}}}`)
	out, err := Marshal(n, SourceFormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "openapi: 3.1.0\npaths:\n  /a:\n    get: {}\n", string(out))

	// The input tree keeps its flow style.
	assert.NotZero(t, Unalias(n).Style&yaml.FlowStyle)
}

func TestMarshalRoundTrip(t *testing.T) {
	src := "openapi: 3.0.3\ninfo:\n  title: t\n  version: \"1\"\npaths: {}\n"
	n := parseNode(t, src)
	out, err := Marshal(n, SourceFormatJSON)
	require.NoError(t, err)
	back := parseNode(t, string(out))
	assert.Equal(t, MapKeys(Unalias(n)), MapKeys(Unalias(back)))
}

func TestMarshalUnsupported(t *testing.T) {
	_, err := Marshal(parseNode(t, "a: 1"), SourceFormat("toml"))
	assert.Error(t, err)
}
