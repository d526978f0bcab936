package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"
)

const splitEntry = `openapi: 3.0.3
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

// writeSplitAPI writes a two-file API into dir/sub and returns the entry path
// relative to dir.
func writeSplitAPI(t *testing.T, dir, sub string) string {
	t.Helper()
	writeFile(t, dir, filepath.Join(sub, "schemas/pet.yaml"), "type: object\nproperties:\n  name:\n    type: string\n")
	writeFile(t, dir, filepath.Join(sub, "openapi.yaml"), splitEntry)
	return filepath.Join(sub, "openapi.yaml")
}

func TestBundleCommand_Stdout(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	entry := writeSplitAPI(t, dir, "api")

	stdout, _, err := execute(t, "bundle", entry)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &doc))
	schemas := doc["components"].(map[string]any)["schemas"].(map[string]any)
	assert.Contains(t, schemas, "Pet")
	assert.Contains(t, stdout, "#/components/schemas/Pet")
}

func TestBundleCommand_DereferencedJSON(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	entry := writeSplitAPI(t, dir, "api")

	stdout, _, err := execute(t, "bundle", "--dereferenced", "--ext", "json", entry)
	require.NoError(t, err)
	assert.NotContains(t, stdout, "$ref")

	var doc map[string]any
	require.NoError(t, gojson.Unmarshal([]byte(stdout), &doc))
	assert.NotContains(t, doc, "components")
}

func TestBundleCommand_OutputFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	entry := writeSplitAPI(t, dir, "api")
	out := filepath.Join("dist", "openapi.json")

	stdout, stderr, err := execute(t, "bundle", entry, "-o", out)
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{"), "format follows the output extension")
}

func TestBundleCommand_MultipleEntriesIntoDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	first := writeSplitAPI(t, dir, "a")
	second := writeSplitAPI(t, dir, "b")

	_, _, err := execute(t, "bundle", first, second, "-o", "dist", "--ext", "yml")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join("dist", "openapi.yml"))
	assert.FileExists(t, filepath.Join("dist", "openapi-2.yml"))
}

func TestBundleCommand_MultipleEntriesToStdout(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	first := writeSplitAPI(t, dir, "a")
	second := writeSplitAPI(t, dir, "b")

	stdout, _, err := execute(t, "bundle", first, second)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(stdout, "---\n"))
}

func TestBundleCommand_UnresolvedRef(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, "openapi.yaml", brokenSpec)

	stdout, stderr, err := execute(t, "bundle", "openapi.yaml")
	requireExitCode(t, err, 1)
	assert.Contains(t, stderr, "no-unresolved-refs")
	assert.Contains(t, stdout, "x-unresolved-ref", "the document is still written")
}

func TestBundleCommand_InvalidArguments(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	entry := writeSplitAPI(t, dir, "api")
	writeFile(t, dir, "file.txt", "")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown ext", []string{"bundle", "--ext", "toml", entry}, "invalid --ext"},
		{"overwrite input", []string{"bundle", entry, "-o", entry}, "would overwrite input file"},
		{"output not a directory", []string{"bundle", entry, entry, "-o", "file.txt"}, "must be a directory"},
		{"invalid problem format", []string{"bundle", "--format", "xml", entry}, "invalid format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEntryBaseName(t *testing.T) {
	tests := []struct {
		entry    string
		wantBase string
		wantExt  string
	}{
		{"openapi.yaml", "openapi", "yaml"},
		{"api/petstore.JSON", "petstore", "json"},
		{"spec.yml", "spec", "yml"},
		{"https://example.com/v1/openapi.json?raw=1", "openapi", "json"},
		{"https://example.com/", "openapi", "yaml"},
		{"openapi", "openapi", "yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.entry, func(t *testing.T) {
			base, ext := entryBaseName(tt.entry)
			assert.Equal(t, tt.wantBase, base)
			assert.Equal(t, tt.wantExt, ext)
		})
	}
}
