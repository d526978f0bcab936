package mcpserver

import (
	"context"
	"encoding/json"
	"slices"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimalOAS31 is a minimal valid OpenAPI 3.1 document used across integration tests.
const minimalOAS31 = `{
  "openapi": "3.1.0",
  "info": {"title": "Test API", "version": "1.0.0"},
  "tags": [{"name": "pets", "description": "Pet operations"}],
  "paths": {
    "/pets/{petId}": {
      "get": {
        "operationId": "getPet",
        "summary": "Get a pet by ID",
        "tags": ["pets"],
        "parameters": [{"name": "petId", "in": "path", "required": true, "schema": {"type": "string"}}],
        "responses": {"200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Pet"}}}}}
      }
    }
  },
  "components": {
    "schemas": {
      "Pet": {
        "type": "object",
        "properties": {
          "id": {"type": "integer"},
          "name": {"type": "string"}
        }
      }
    }
  }
}`

// startTestSession creates an in-process MCP server/client pair and returns
// the connected client session. The server is shut down when the test ends.
func startTestSession(t *testing.T) *mcp.ClientSession {
	t.Helper()

	server := mcp.NewServer(
		&mcp.Implementation{Name: "openapi-test", Version: "test"},
		nil,
	)
	registerAllTools(server)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	// Start server in background; it blocks until the connection closes.
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	done := make(chan error, 1)
	go func() {
		done <- server.Run(ctx, serverTransport)
	}()

	client := mcp.NewClient(
		&mcp.Implementation{Name: "test-client", Version: "test"},
		nil,
	)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = session.Close()
		cancel()
		<-done
	})

	return session
}

func TestIntegration_ListTools(t *testing.T) {
	session := startTestSession(t)

	result, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)
	require.NotNil(t, result)

	names := make([]string, 0, len(result.Tools))
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description, "tool %q has empty description", tool.Name)
	}
	slices.Sort(names)
	assert.Equal(t, []string{"bundle", "lint"}, names)
}

func TestIntegration_CallTool_Lint(t *testing.T) {
	session := startTestSession(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "lint",
		Arguments: map[string]any{
			"spec": map[string]any{
				"content": minimalOAS31,
			},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError, "lint should succeed on valid document")

	structured := unmarshalStructured(t, result)
	assert.Equal(t, true, structured["valid"])
	assert.Equal(t, "3.1.0", structured["version"])
	assert.Equal(t, float64(0), structured["error_count"])
	assert.Equal(t, float64(1), structured["documents"])
}

func TestIntegration_CallTool_LintFindings(t *testing.T) {
	session := startTestSession(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "lint",
		Arguments: map[string]any{
			"spec":        map[string]any{"content": brokenRefSpec},
			"no_warnings": true,
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError, "findings are not a tool error")

	structured := unmarshalStructured(t, result)
	assert.Equal(t, false, structured["valid"])
	problems, ok := structured["problems"].([]any)
	require.True(t, ok, "problems should be an array")
	require.Len(t, problems, 1)
	p, ok := problems[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "no-unresolved-refs", p["rule"])
	assert.Equal(t, "error", p["severity"])
}

func TestIntegration_CallTool_Bundle(t *testing.T) {
	session := startTestSession(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "bundle",
		Arguments: map[string]any{
			"spec":   map[string]any{"content": minimalOAS31},
			"format": "json",
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError, "bundle should succeed on valid document")

	structured := unmarshalStructured(t, result)
	assert.Equal(t, "components", structured["mode"])
	assert.Equal(t, "json", structured["format"])

	document, ok := structured["document"].(string)
	require.True(t, ok, "document should be a string")
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(document), &doc))
	assert.Equal(t, "3.1.0", doc["openapi"])
}

func TestIntegration_CallTool_Error_InvalidSpec(t *testing.T) {
	session := startTestSession(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "lint",
		Arguments: map[string]any{
			"spec": map[string]any{
				"content": "openapi: [\n",
			},
		},
	})
	require.NoError(t, err, "MCP protocol call should succeed even on tool error")
	require.NotNil(t, result)
	assert.True(t, result.IsError, "lint should return IsError for unparseable input")

	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "error content should be TextContent")
	assert.NotEmpty(t, text.Text)
}

func TestIntegration_CallTool_Error_MissingSpec(t *testing.T) {
	session := startTestSession(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "bundle",
		Arguments: map[string]any{
			"spec": map[string]any{},
		},
	})
	require.NoError(t, err, "MCP protocol call should succeed even on tool error")
	require.NotNil(t, result)
	assert.True(t, result.IsError, "bundle should return IsError when no spec source is provided")
}

// unmarshalStructured extracts the structured output from a CallToolResult.
// It first checks StructuredContent, then falls back to parsing the first TextContent.
func unmarshalStructured(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()

	// Prefer structured content if available.
	if result.StructuredContent != nil {
		data, err := json.Marshal(result.StructuredContent)
		require.NoError(t, err)
		var m map[string]any
		require.NoError(t, json.Unmarshal(data, &m))
		return m
	}

	// Fall back to parsing text content.
	require.NotEmpty(t, result.Content, "expected at least one content item")
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &m), "failed to parse text content as JSON")
	return m
}
