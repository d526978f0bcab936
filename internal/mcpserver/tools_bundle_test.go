package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"
)

const petEntry = `openapi: 3.0.3
info:
  title: Pets
  version: "1.0"
paths:
  /pets:
    get:
      summary: List pets
      responses:
        "200":
          description: OK
          content:
            application/json:
              schema:
                $ref: ./schemas/pet.yaml
`

// writePetAPI writes a two-file API and returns the entry path.
func writePetAPI(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeSpec(t, dir, "schemas/pet.yaml", "type: object\nproperties:\n  name:\n    type: string\n")
	return writeSpec(t, dir, "openapi.yaml", petEntry)
}

func TestBundleTool_Components(t *testing.T) {
	specCache.reset()
	_, output, err := handleBundle(context.Background(), &mcp.CallToolRequest{}, bundleInput{
		Spec: specInput{File: writePetAPI(t)},
	})
	require.NoError(t, err)
	assert.Equal(t, "components", output.Mode)
	assert.Equal(t, "yaml", output.Format)
	assert.Equal(t, 2, output.Documents)
	assert.Zero(t, output.ErrorCount)
	assert.Equal(t, []bundleRelocation{
		{Ref: "#/components/schemas/Pet", Source: "schemas/pet.yaml#"},
	}, output.Relocations)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(output.Document), &doc))
	schemas := doc["components"].(map[string]any)["schemas"].(map[string]any)
	assert.Contains(t, schemas, "Pet")
	assert.Contains(t, output.Document, "#/components/schemas/Pet")
}

func TestBundleTool_InlineJSON(t *testing.T) {
	specCache.reset()
	_, output, err := handleBundle(context.Background(), &mcp.CallToolRequest{}, bundleInput{
		Spec:   specInput{File: writePetAPI(t)},
		Mode:   "inline",
		Format: "json",
	})
	require.NoError(t, err)
	assert.Equal(t, "inline", output.Mode)
	assert.Equal(t, "json", output.Format)
	assert.Empty(t, output.Relocations)
	assert.NotContains(t, output.Document, "$ref")
	assert.Contains(t, output.Document, `"type": "object"`)
}

func TestBundleTool_UnresolvedRef(t *testing.T) {
	_, output, err := handleBundle(context.Background(), &mcp.CallToolRequest{}, bundleInput{
		Spec: specInput{Content: brokenRefSpec},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, output.ErrorCount)
	require.Len(t, output.Problems, 1)
	assert.Equal(t, "no-unresolved-refs", output.Problems[0].Rule)
	assert.Contains(t, output.Document, "x-unresolved-ref: path-not-found")
}

func TestBundleTool_WriteOutput(t *testing.T) {
	specCache.reset()
	out := filepath.Join(t.TempDir(), "bundled.yaml")
	_, output, err := handleBundle(context.Background(), &mcp.CallToolRequest{}, bundleInput{
		Spec:   specInput{File: writePetAPI(t)},
		Output: out,
	})
	require.NoError(t, err)
	assert.Equal(t, out, output.WrittenTo)
	assert.Empty(t, output.Document)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "components:")
}

func TestBundleTool_InvalidArguments(t *testing.T) {
	tests := []struct {
		name  string
		input bundleInput
	}{
		{"unknown mode", bundleInput{Spec: specInput{Content: minimalOAS30}, Mode: "flatten"}},
		{"unknown format", bundleInput{Spec: specInput{Content: minimalOAS30}, Format: "toml"}},
		{"no spec", bundleInput{}},
		{"unparsable entry", bundleInput{Spec: specInput{Content: "openapi: [\n"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _, err := handleBundle(context.Background(), &mcp.CallToolRequest{}, tt.input)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.True(t, result.IsError)
		})
	}
}
