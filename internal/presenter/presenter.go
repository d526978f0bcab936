// Package presenter formats findings for the terminal or as JSON.
package presenter

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	gojson "github.com/goccy/go-json"
	"github.com/jirutka/openapi-cli/internal/cliutil"
	"github.com/jirutka/openapi-cli/internal/issues"
	"github.com/jirutka/openapi-cli/internal/severity"
	"github.com/jirutka/openapi-cli/parser"
)

// Format selects the output layout.
type Format string

const (
	// FormatShort prints one line per finding.
	FormatShort Format = "short"
	// FormatDetailed prints a block per finding.
	FormatDetailed Format = "detailed"
	// FormatJSON prints one JSON document per entry.
	FormatJSON Format = "json"
)

// Formats lists the valid formats.
func Formats() []string {
	return []string{string(FormatShort), string(FormatDetailed), string(FormatJSON)}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatShort, FormatDetailed, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("invalid format '%s'. Valid formats: %s", s, strings.Join(Formats(), ", "))
}

// DefaultMaxCount is the default number of findings printed per entry.
const DefaultMaxCount = 100

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	locColor     = color.New(color.FgCyan)
	dimColor     = color.New(color.Faint)
	okColor      = color.New(color.FgGreen)
)

// Presenter writes findings to w. Colors follow fatih/color's global
// settings, which honor NO_COLOR and disable themselves on non-terminals.
type Presenter struct {
	w        io.Writer
	format   Format
	maxCount int
	baseDir  string
}

// Option configures a Presenter.
type Option func(*Presenter)

// WithMaxCount limits the number of findings printed per entry. Zero or less
// means unlimited.
func WithMaxCount(n int) Option {
	return func(p *Presenter) {
		p.maxCount = n
	}
}

// WithBaseDir prints file locators below dir relative to it.
func WithBaseDir(dir string) Option {
	return func(p *Presenter) {
		p.baseDir = dir
	}
}

// New creates a Presenter.
func New(w io.Writer, format Format, opts ...Option) *Presenter {
	p := &Presenter{w: w, format: format, maxCount: DefaultMaxCount}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Format returns the configured format.
func (p *Presenter) Format() Format {
	return p.format
}

// Report describes the findings of one entry.
type Report struct {
	// Entry is the entry locator
	Entry string
	// Version is the document's OpenAPI version
	Version string
	// Findings lists the findings in report order
	Findings []issues.Issue
	// Truncated is set when the producer stopped early
	Truncated bool
	// Duration is the time spent on the entry
	Duration time.Duration
}

// Present writes the findings of one entry and a summary line.
func (p *Presenter) Present(r Report) error {
	shown := r.Findings
	hidden := 0
	if p.maxCount > 0 && len(shown) > p.maxCount {
		hidden = len(shown) - p.maxCount
		shown = shown[:p.maxCount]
	}

	switch p.format {
	case FormatJSON:
		return p.presentJSON(r, shown, hidden)
	case FormatDetailed:
		for i, f := range shown {
			p.detailed(i+1, f)
		}
	default:
		for _, f := range shown {
			p.short(f)
		}
	}
	if hidden > 0 {
		cliutil.Writef(p.w, "%s\n", dimColor.Sprintf("< ... %d more problems hidden > increase with `--max-messages N`", hidden))
	}
	p.summary(r)
	return nil
}

func (p *Presenter) short(f issues.Issue) {
	cliutil.Writef(p.w, "%s  %s  %s  %s\n",
		locColor.Sprint(p.position(f)),
		severityLabel(f.Severity),
		dimColor.Sprint(f.Rule),
		f.Message,
	)
}

func (p *Presenter) detailed(n int, f issues.Issue) {
	cliutil.Writef(p.w, "[%d] %s at %s\n\n", n, locColor.Sprint(p.position(f)), dimColor.Sprint("#"+f.Path))
	cliutil.Writef(p.w, "%s\n\n", f.Message)
	if f.From != "" {
		cliutil.Writef(p.w, "referenced from %s\n\n", p.displayLocation(f.From))
	}
	kind := "Error"
	if f.Severity == severity.SeverityWarning {
		kind = "Warning"
	}
	cliutil.Writef(p.w, "%s was generated by the %s rule.\n\n\n", severityColor(f.Severity).Sprint(kind), f.Rule)
}

func (p *Presenter) summary(r Report) {
	errs, warns := issues.Count(r.Findings)
	name := p.displayPath(r.Entry)
	took := r.Duration.Round(time.Millisecond)
	switch {
	case errs == 0 && warns == 0:
		cliutil.Writef(p.w, "%s %s: no problems found (%s).\n", okColor.Sprint("✓"), name, took)
	case errs == 0:
		cliutil.Writef(p.w, "%s %s: valid with %s (%s).\n", warningColor.Sprint("⚠"), name, plural(warns, "warning"), took)
	default:
		cliutil.Writef(p.w, "%s %s: %s and %s (%s).\n", errorColor.Sprint("✗"), name, plural(errs, "error"), plural(warns, "warning"), took)
	}
	if r.Truncated {
		cliutil.Writef(p.w, "%s\n", dimColor.Sprint("Stopped early after reaching the findings limit."))
	}
}

// position returns "file:line:col", or "file" when the line is unknown.
func (p *Presenter) position(f issues.Issue) string {
	file := p.displayPath(f.File)
	if f.Line == 0 {
		return file
	}
	return fmt.Sprintf("%s:%d:%d", file, f.Line, f.Column)
}

func (p *Presenter) displayLocation(s string) string {
	loc, ok := parser.ParseLocation(s)
	if !ok {
		return s
	}
	return p.displayPath(loc.Source) + "#" + loc.Pointer
}

func (p *Presenter) displayPath(file string) string {
	if p.baseDir == "" || parser.IsURL(file) || !filepath.IsAbs(file) {
		return file
	}
	rel, err := filepath.Rel(p.baseDir, file)
	if err != nil || strings.HasPrefix(rel, "..") {
		return file
	}
	return rel
}

func severityColor(s severity.Severity) *color.Color {
	if s == severity.SeverityWarning {
		return warningColor
	}
	return errorColor
}

func severityLabel(s severity.Severity) string {
	return severityColor(s).Sprintf("%-7s", s.String())
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

type jsonReport struct {
	Entry     string        `json:"entry"`
	Version   string        `json:"version,omitempty"`
	Totals    jsonTotals    `json:"totals"`
	Problems  []jsonProblem `json:"problems"`
	Hidden    int           `json:"hidden,omitempty"`
	Truncated bool          `json:"truncated,omitempty"`
}

type jsonTotals struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

type jsonProblem struct {
	RuleID   string            `json:"ruleId"`
	Severity severity.Severity `json:"severity"`
	Message  string            `json:"message"`
	Location []jsonLocation    `json:"location"`
	From     *jsonLocation     `json:"from,omitempty"`
}

type jsonLocation struct {
	Source      string `json:"source"`
	Pointer     string `json:"pointer"`
	ReportOnKey bool   `json:"reportOnKey,omitempty"`
	Line        int    `json:"line,omitempty"`
	Column      int    `json:"column,omitempty"`
}

func (p *Presenter) presentJSON(r Report, shown []issues.Issue, hidden int) error {
	out := jsonReport{
		Entry:     r.Entry,
		Version:   r.Version,
		Problems:  make([]jsonProblem, 0, len(shown)),
		Hidden:    hidden,
		Truncated: r.Truncated,
	}
	out.Totals.Errors, out.Totals.Warnings = issues.Count(r.Findings)
	for _, f := range shown {
		prob := jsonProblem{
			RuleID:   f.Rule,
			Severity: f.Severity,
			Message:  f.Message,
			Location: []jsonLocation{{
				Source:      f.File,
				Pointer:     "#" + f.Path,
				ReportOnKey: f.OnKey,
				Line:        f.Line,
				Column:      f.Column,
			}},
		}
		if loc, ok := parser.ParseLocation(f.From); ok {
			prob.From = &jsonLocation{Source: loc.Source, Pointer: "#" + loc.Pointer}
		}
		out.Problems = append(out.Problems, prob)
	}

	data, err := gojson.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("presenter: marshaling to json: %w", err)
	}
	cliutil.Writef(p.w, "%s\n", data)
	return nil
}
