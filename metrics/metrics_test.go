package metrics

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jirutka/openapi-cli/bundler"
	"github.com/jirutka/openapi-cli/linter"
	"github.com/jirutka/openapi-cli/parser"
	"github.com/jirutka/openapi-cli/rules"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveLoad(t *testing.T) {
	m := New()
	registry := prometheus.NewRegistry()
	m.MustRegister(registry)

	m.ObserveLoad("/api/openapi.yaml", 120, time.Millisecond, nil)
	m.ObserveLoad("https://example.com/openapi.yaml", 0, time.Second, errors.New("timeout"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.documentsLoaded.WithLabelValues("file", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.documentsLoaded.WithLabelValues("http", "error")))
	assert.Equal(t, 120.0, testutil.ToFloat64(m.loadedBytes))
	assert.Equal(t, 2, testutil.CollectAndCount(m.loadDuration))
}

func TestObserveLint(t *testing.T) {
	m := New()
	m.ObserveLint(&linter.LintResult{
		Valid:    false,
		Duration: 10 * time.Millisecond,
		Findings: []linter.Finding{
			{Rule: "operation-summary", Severity: linter.SeverityError},
			{Rule: "operation-summary", Severity: linter.SeverityError},
			{Rule: "tag-description", Severity: linter.SeverityWarning},
		},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.entries.WithLabelValues("lint", "invalid")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.findings.WithLabelValues("lint", "operation-summary", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.findings.WithLabelValues("lint", "tag-description", "warning")))
}

func TestObserveBundle(t *testing.T) {
	m := New()
	m.ObserveBundle(&bundler.BundleResult{
		Relocations: []bundler.Relocation{
			{Section: "schemas", Name: "Pet"},
			{Section: "schemas", Name: "Owner"},
			{Section: "parameters", Name: "Id"},
		},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.entries.WithLabelValues("bundle", "valid")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.relocations.WithLabelValues("schemas")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.relocations.WithLabelValues("parameters")))
}

func TestObserversWired(t *testing.T) {
	m := New()
	files := parser.MapFetcher{
		"/api/openapi.yaml": "openapi: 3.0.3\ninfo: {title: T, version: \"1\"}\npaths:\n  /a:\n    get:\n      responses: {'200': {description: ok}}\n",
	}
	l, err := linter.New(rules.Registry(), nil,
		linter.WithObserver(m),
		linter.WithLoaderOptions(parser.WithFetcher(files), parser.WithObserver(m)),
	)
	require.NoError(t, err)
	_, err = l.Lint(context.Background(), "/api/openapi.yaml")
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.documentsLoaded.WithLabelValues("file", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.findings.WithLabelValues("lint", "operation-summary", "error")))
}

func TestWriteToTextfile(t *testing.T) {
	m := New()
	registry := prometheus.NewRegistry()
	m.MustRegister(registry)
	m.ObserveLint(&linter.LintResult{Valid: true})

	path := filepath.Join(t.TempDir(), "openapi.prom")
	require.NoError(t, WriteToTextfile(path, registry))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `openapi_entries_total{command="lint",result="valid"} 1`))
}
