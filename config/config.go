package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jirutka/openapi-cli/linter"
	"github.com/jirutka/openapi-cli/oaserrors"
	"github.com/jirutka/openapi-cli/parser"
	"go.yaml.in/yaml/v4"
)

// FileNames lists the configuration file names looked for in each
// directory, in order of preference.
var FileNames = []string{
	".openapi.yaml",
	".openapi.yml",
	".redocly.yaml",
	".redocly.yml",
}

// API is a named entry document.
type API struct {
	// Name is the alias used on the command line
	Name string
	// Root is the entry locator; relative file paths are resolved against
	// the directory of the configuration file
	Root string
}

// Config is a parsed configuration file.
type Config struct {
	// Path is the file the configuration was read from, "" for the default
	Path string
	// Rules lists the rule settings in file order
	Rules []linter.Setting
	// APIs lists the entry aliases in file order
	APIs []API
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{}
}

// Find looks for a configuration file in dir and its parents and returns
// the path of the first one found.
func Find(dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		for _, name := range FileNames {
			p := filepath.Join(dir, name)
			if st, err := os.Stat(p); err == nil && st.Mode().IsRegular() {
				return p, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Discover loads the configuration file found by Find, or returns Default.
func Discover(dir string) (*Config, error) {
	p, ok := Find(dir)
	if !ok {
		return Default(), nil
	}
	return Load(p)
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &oaserrors.ConfigError{Option: "config", Value: path, Message: "cannot read file", Cause: err}
	}
	return Parse(data, path)
}

// Parse parses configuration content. path is used to resolve relative API
// roots and in error messages; it may be empty.
func Parse(data []byte, path string) (*Config, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &oaserrors.ConfigError{Option: "config", Value: path, Message: "invalid YAML", Cause: err}
	}
	cfg := &Config{Path: path}
	root := parser.Unalias(&doc)
	if root == nil || root.Kind == 0 {
		return cfg, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, &oaserrors.ConfigError{Option: "config", Value: path, Message: "top level must be a mapping"}
	}

	rules := parser.MapValue(root, "rules")
	if rules == nil {
		// Older files nest rules under "lint".
		rules = parser.MapValue(parser.MapValue(root, "lint"), "rules")
	}
	var err error
	if cfg.Rules, err = parseRules(rules); err != nil {
		return nil, err
	}

	dir := ""
	if path != "" {
		dir = filepath.Dir(path)
	}
	if cfg.APIs, err = parseAPIs(parser.MapValue(root, "apis"), dir); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseRules accepts both "rule: severity" and "rule: {severity: ...}".
func parseRules(n *yaml.Node) ([]linter.Setting, error) {
	if n == nil {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, &oaserrors.ConfigError{Option: "rules", Message: "must be a mapping of rule names to severities"}
	}
	var out []linter.Setting
	for i := 0; i+1 < len(n.Content); i += 2 {
		name := n.Content[i].Value
		v := parser.Unalias(n.Content[i+1])
		var sev string
		switch {
		case v != nil && v.Kind == yaml.ScalarNode:
			sev = v.Value
		case v != nil && v.Kind == yaml.MappingNode:
			s, ok := parser.MapString(v, "severity")
			if !ok {
				return nil, &oaserrors.ConfigError{Option: name, Message: fmt.Sprintf("missing severity (line %d)", v.Line)}
			}
			sev = s
		default:
			return nil, &oaserrors.ConfigError{Option: name, Message: fmt.Sprintf("invalid rule setting (line %d)", n.Content[i].Line)}
		}
		out = append(out, linter.Setting{Rule: name, Severity: sev})
	}
	return out, nil
}

// parseAPIs accepts both "name: path" and "name: {root: path}".
func parseAPIs(n *yaml.Node, dir string) ([]API, error) {
	if n == nil {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, &oaserrors.ConfigError{Option: "apis", Message: "must be a mapping of aliases to entry documents"}
	}
	var out []API
	for i := 0; i+1 < len(n.Content); i += 2 {
		name := n.Content[i].Value
		v := parser.Unalias(n.Content[i+1])
		var root string
		switch {
		case v != nil && v.Kind == yaml.ScalarNode:
			root = v.Value
		case v != nil && v.Kind == yaml.MappingNode:
			root, _ = parser.MapString(v, "root")
		}
		if root == "" {
			return nil, &oaserrors.ConfigError{Option: "apis." + name, Message: "missing root"}
		}
		out = append(out, API{Name: name, Root: resolveRoot(dir, root)})
	}
	return out, nil
}

func resolveRoot(dir, root string) string {
	if dir == "" || parser.IsURL(root) || filepath.IsAbs(root) {
		return root
	}
	return filepath.Join(dir, root)
}

// API returns the API with the given alias.
func (c *Config) API(name string) (API, bool) {
	for _, a := range c.APIs {
		if a.Name == name {
			return a, true
		}
	}
	return API{}, false
}

// Entries maps command line arguments to entry locators. Arguments naming
// an alias are replaced by its root; without arguments every alias is used.
func (c *Config) Entries(args []string) ([]string, error) {
	if len(args) == 0 {
		if len(c.APIs) == 0 {
			return nil, &oaserrors.ConfigError{Option: "apis", Message: "no entry documents given and none configured"}
		}
		out := make([]string, len(c.APIs))
		for i, a := range c.APIs {
			out[i] = a.Root
		}
		return out, nil
	}
	out := make([]string, len(args))
	for i, arg := range args {
		if a, ok := c.API(arg); ok {
			out[i] = a.Root
			continue
		}
		out[i] = strings.TrimSpace(arg)
	}
	return out, nil
}
