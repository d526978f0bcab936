package mcpserver

import (
	"context"
	"sort"

	"github.com/jirutka/openapi-cli/config"
	"github.com/jirutka/openapi-cli/linter"
	"github.com/jirutka/openapi-cli/rules"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type lintInput struct {
	Spec        specInput         `json:"spec"                    jsonschema:"The entry OAS document to lint"`
	Rules       map[string]string `json:"rules,omitempty"         jsonschema:"Rule severity overrides keyed by rule name (error, warn or off)"`
	NoWarnings  bool              `json:"no_warnings,omitempty"   jsonschema:"Omit warnings from the returned problems"`
	MaxProblems int               `json:"max_problems,omitempty"  jsonschema:"Stop linting after this many problems (0 for no limit)"`
	Offset      int               `json:"offset,omitempty"        jsonschema:"Skip the first N problems (for pagination)"`
	Limit       int               `json:"limit,omitempty"         jsonschema:"Maximum number of problems to return (default 100)"`
}

type lintOutput struct {
	Valid        bool      `json:"valid"`
	Version      string    `json:"version"`
	ErrorCount   int       `json:"error_count"`
	WarningCount int       `json:"warning_count"`
	Documents    int       `json:"documents"`
	Truncated    bool      `json:"truncated,omitempty"`
	Returned     int       `json:"returned"`
	Problems     []problem `json:"problems,omitempty"`
}

// ruleSettings returns the rule settings of the configuration file named by
// OPENAPI_CONFIG followed by the overrides, sorted by rule name.
func ruleSettings(overrides map[string]string) ([]linter.Setting, error) {
	var settings []linter.Setting
	if cfg.ConfigPath != "" {
		c, err := config.Load(cfg.ConfigPath)
		if err != nil {
			return nil, err
		}
		settings = append(settings, c.Rules...)
	}
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		settings = append(settings, linter.Setting{Rule: name, Severity: overrides[name]})
	}
	return settings, nil
}

func handleLint(ctx context.Context, _ *mcp.CallToolRequest, input lintInput) (*mcp.CallToolResult, lintOutput, error) {
	src, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), lintOutput{}, nil
	}
	settings, err := ruleSettings(input.Rules)
	if err != nil {
		return errResult(err), lintOutput{}, nil
	}

	l, err := linter.New(rules.Registry(), settings,
		linter.WithLoaderOptions(src.loaderOpts...),
		linter.WithLogger(logger()),
		linter.WithMaxFindings(input.MaxProblems),
	)
	if err != nil {
		return errResult(err), lintOutput{}, nil
	}
	result, err := l.Lint(ctx, src.entry)
	if err != nil {
		return errResult(err), lintOutput{}, nil
	}

	output := lintOutput{
		Valid:        result.Valid,
		Version:      result.Version,
		ErrorCount:   result.ErrorCount,
		Documents:    len(result.Documents),
		Truncated:    result.Truncated,
		WarningCount: result.WarningCount,
	}
	if input.NoWarnings {
		output.WarningCount = 0
	}
	output.Problems = paginate(toProblems(result.Entry, result.Findings, input.NoWarnings), input.Offset, input.Limit)
	output.Returned = len(output.Problems)

	return nil, output, nil
}
