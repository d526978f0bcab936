package mcpserver

import (
	"context"
	"fmt"
	"os"

	"github.com/jirutka/openapi-cli/bundler"
	"github.com/jirutka/openapi-cli/parser"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type bundleInput struct {
	Spec    specInput `json:"spec"              jsonschema:"The entry OAS document to bundle"`
	Mode    string    `json:"mode,omitempty"    jsonschema:"Bundle mode: components (default) or inline"`
	Format  string    `json:"format,omitempty"  jsonschema:"Output format: json or yaml. Defaults to the format of the entry document."`
	Output  string    `json:"output,omitempty"  jsonschema:"File path to write the bundled document to. If omitted the document is returned inline."`
	Offset  int       `json:"offset,omitempty"  jsonschema:"Skip the first N problems (for pagination)"`
	Limit   int       `json:"limit,omitempty"   jsonschema:"Maximum number of problems to return (default 100)"`
	Include bool      `json:"include_document,omitempty" jsonschema:"Also return the document inline when output is set"`
}

type bundleRelocation struct {
	Ref    string `json:"ref"`
	Source string `json:"source"`
}

type bundleOutput struct {
	Version      string             `json:"version"`
	Mode         string             `json:"mode"`
	Format       string             `json:"format"`
	ErrorCount   int                `json:"error_count"`
	WarningCount int                `json:"warning_count"`
	Documents    int                `json:"documents"`
	Relocations  []bundleRelocation `json:"relocations,omitempty"`
	Returned     int                `json:"returned"`
	Problems     []problem          `json:"problems,omitempty"`
	WrittenTo    string             `json:"written_to,omitempty"`
	Document     string             `json:"document,omitempty"`
}

func handleBundle(ctx context.Context, _ *mcp.CallToolRequest, input bundleInput) (*mcp.CallToolResult, bundleOutput, error) {
	mode := cfg.BundleMode
	if input.Mode != "" {
		m, err := bundler.ParseMode(input.Mode)
		if err != nil {
			return errResult(err), bundleOutput{}, nil
		}
		mode = m
	}
	var format parser.SourceFormat
	if input.Format != "" {
		f, err := parser.ParseFormat(input.Format)
		if err != nil {
			return errResult(err), bundleOutput{}, nil
		}
		format = f
	}

	src, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), bundleOutput{}, nil
	}
	b, err := bundler.New(
		bundler.WithMode(mode),
		bundler.WithLoaderOptions(src.loaderOpts...),
		bundler.WithLogger(logger()),
	)
	if err != nil {
		return errResult(err), bundleOutput{}, nil
	}
	result, err := b.Bundle(ctx, src.entry)
	if err != nil {
		return errResult(err), bundleOutput{}, nil
	}

	if format == "" {
		format = result.Format
	}
	if format != parser.SourceFormatJSON {
		format = parser.SourceFormatYAML
	}
	data, err := parser.Marshal(result.Document, format)
	if err != nil {
		return errResult(err), bundleOutput{}, nil
	}

	output := bundleOutput{
		Version:      result.Version,
		Mode:         result.Mode.String(),
		Format:       string(format),
		ErrorCount:   result.ErrorCount,
		WarningCount: result.WarningCount,
		Documents:    len(result.Documents),
	}
	output.Relocations = makeSlice[bundleRelocation](len(result.Relocations))
	for _, r := range result.Relocations {
		output.Relocations = append(output.Relocations, bundleRelocation{
			Ref:    r.Ref,
			Source: relocationSource(result.Entry, r.Source),
		})
	}
	output.Problems = paginate(toProblems(result.Entry, result.Findings, false), input.Offset, input.Limit)
	output.Returned = len(output.Problems)

	if input.Output != "" {
		if err := os.WriteFile(input.Output, data, 0o644); err != nil { //nolint:gosec // output path is chosen by the MCP client
			return errResult(fmt.Errorf("failed to write output file: %w", err)), bundleOutput{}, nil
		}
		output.WrittenTo = input.Output
	}
	if input.Output == "" || input.Include {
		output.Document = string(data)
	}

	return nil, output, nil
}

func relocationSource(entry, s string) string {
	loc, ok := parser.ParseLocation(s)
	if !ok {
		return s
	}
	return displaySource(entry, loc.Source) + "#" + loc.Pointer
}
