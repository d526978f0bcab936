package resolver

import (
	"context"
	"sync"
	"testing"

	"github.com/jirutka/openapi-cli/oaserrors"
	"github.com/jirutka/openapi-cli/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const apiYAML = `openapi: 3.0.3
info:
  title: t
  version: "1"
paths:
  /users:
    get:
      responses:
        '200':
          $ref: 'common.yaml#/components/responses/Users'
        '404':
          $ref: '#/components/responses/NotFound'
        '500':
          $ref: '#/components/responses/Alias'
components:
  responses:
    NotFound:
      description: not found
    Alias:
      $ref: '#/components/responses/NotFound'
  schemas:
    Self:
      $ref: '#/components/schemas/Self'
    A:
      $ref: '#/components/schemas/B'
    B:
      $ref: '#/components/schemas/A'
    Missing:
      $ref: '#/components/schemas/DoesNotExist'
    Broken:
      $ref: 'broken.yaml#/x'
    Gone:
      $ref: 'gone.yaml#/x'
`

const commonYAML = `components:
  responses:
    Users:
      description: users
      content:
        application/json:
          schema:
            $ref: '#/components/schemas/User'
  schemas:
    User:
      type: object
`

type countingLoader struct {
	mu    sync.Mutex
	inner *parser.Loader
	calls map[string]int
}

func (c *countingLoader) Load(ctx context.Context, locator string) (*parser.Document, error) {
	c.mu.Lock()
	c.calls[locator]++
	c.mu.Unlock()
	return c.inner.Load(ctx, locator)
}

func newTestResolver(t *testing.T) (*Resolver, *countingLoader) {
	t.Helper()
	l, err := parser.NewLoader(parser.WithFetcher(parser.MapFetcher{
		"/specs/api.yaml":    apiYAML,
		"/specs/common.yaml": commonYAML,
		"/specs/broken.yaml": "x: [",
	}))
	require.NoError(t, err)
	cl := &countingLoader{inner: l, calls: map[string]int{}}
	return New(cl), cl
}

func refNode(t *testing.T, r *Resolver, ptr string) (parser.Location, *Resolved) {
	t.Helper()
	root, err := r.Root(context.Background(), "/specs/api.yaml")
	require.NoError(t, err)
	toks, err := ParseRef(root.Location.Source, "#"+ptr)
	require.NoError(t, err)
	n, err := root.Document.Lookup(toks.Tokens)
	require.NoError(t, err)
	loc, ok := root.Document.LocationOf(n)
	require.True(t, ok)
	return loc, &Resolved{Node: n, Document: root.Document, Location: loc}
}

func TestResolveLocal(t *testing.T) {
	r, _ := newTestResolver(t)
	ctx := context.Background()
	from, src := refNode(t, r, "/paths/~1users/get/responses/404")

	res, err := r.Resolve(ctx, from, src.Node)
	require.NoError(t, err)
	assert.Equal(t, "/components/responses/NotFound", res.Location.Pointer)
	assert.Equal(t, []parser.Location{from, res.Location}, res.Chain)
	assert.Equal(t, from, res.Origin())
	assert.True(t, res.IsRef())
	d, _ := parser.MapString(res.Node, "description")
	assert.Equal(t, "not found", d)
}

func TestResolveChained(t *testing.T) {
	r, _ := newTestResolver(t)
	from, src := refNode(t, r, "/paths/~1users/get/responses/500")

	res, err := r.Resolve(context.Background(), from, src.Node)
	require.NoError(t, err)
	require.Len(t, res.Chain, 3)
	assert.Equal(t, "/components/responses/Alias", res.Chain[1].Pointer)
	assert.Equal(t, "/components/responses/NotFound", res.Chain[2].Pointer)
}

func TestResolveExternal(t *testing.T) {
	r, loader := newTestResolver(t)
	ctx := context.Background()
	from, src := refNode(t, r, "/paths/~1users/get/responses/200")

	res, err := r.Resolve(ctx, from, src.Node)
	require.NoError(t, err)
	assert.Equal(t, "/specs/common.yaml", res.Location.Source)
	assert.Equal(t, "/specs/common.yaml", res.Document.Locator)

	// A relative reference inside the external document resolves against it.
	schema, err := res.Document.Lookup([]string{"components", "responses", "Users", "content", "application/json", "schema"})
	require.NoError(t, err)
	sloc, _ := res.Document.LocationOf(schema)
	inner, err := r.Resolve(ctx, sloc, schema)
	require.NoError(t, err)
	assert.Equal(t, parser.Location{Source: "/specs/common.yaml", Pointer: "/components/schemas/User"}, inner.Location)

	// Loaded once, in load order.
	_, err = r.Resolve(ctx, from, src.Node)
	require.NoError(t, err)
	assert.Equal(t, 1, loader.calls["/specs/common.yaml"])
	require.Len(t, r.Documents(), 2)
	assert.Equal(t, "/specs/api.yaml", r.Documents()[0].Locator)
}

func TestResolveIdempotent(t *testing.T) {
	r, _ := newTestResolver(t)
	ctx := context.Background()
	from, src := refNode(t, r, "/paths/~1users/get/responses/200")

	first, err := r.Resolve(ctx, from, src.Node)
	require.NoError(t, err)
	second, err := r.Resolve(ctx, from, src.Node)
	require.NoError(t, err)
	assert.Equal(t, first.Chain, second.Chain)
	assert.Equal(t, first.Location, second.Location)
	assert.Same(t, first.Node, second.Node)
	assert.Equal(t, first.Node, second.Node)
}

func TestResolveNonRef(t *testing.T) {
	r, _ := newTestResolver(t)
	from, src := refNode(t, r, "/components/responses/NotFound")
	res, err := r.Resolve(context.Background(), from, src.Node)
	require.NoError(t, err)
	assert.Same(t, src.Node, res.Node)
	assert.Len(t, res.Chain, 1)
	assert.False(t, res.IsRef())
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name    string
		ptr     string
		reason  oaserrors.Reason
		cycleAt string
	}{
		{"self reference", "/components/schemas/Self", oaserrors.ReasonCycle, "/specs/api.yaml#/components/schemas/Self"},
		{"two-node cycle from A", "/components/schemas/A", oaserrors.ReasonCycle, "/specs/api.yaml#/components/schemas/A"},
		{"two-node cycle from B", "/components/schemas/B", oaserrors.ReasonCycle, "/specs/api.yaml#/components/schemas/A"},
		{"missing path", "/components/schemas/Missing", oaserrors.ReasonPathNotFound, ""},
		{"malformed document", "/components/schemas/Broken", oaserrors.ReasonLoadFailed, ""},
		{"missing document", "/components/schemas/Gone", oaserrors.ReasonLoadFailed, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestResolver(t)
			from, src := refNode(t, r, tt.ptr)
			_, err := r.Resolve(context.Background(), from, src.Node)
			var refErr *oaserrors.ReferenceError
			require.ErrorAs(t, err, &refErr)
			assert.Equal(t, tt.reason, refErr.Reason)
			assert.Equal(t, tt.cycleAt, refErr.CycleAt)
			assert.Equal(t, from.String(), refErr.Source)
		})
	}
}

func TestLoadFailuresMemoized(t *testing.T) {
	r, loader := newTestResolver(t)
	ctx := context.Background()
	for _, ptr := range []string{"/components/schemas/Gone", "/components/schemas/Gone"} {
		from, src := refNode(t, r, ptr)
		_, err := r.Resolve(ctx, from, src.Node)
		assert.ErrorIs(t, err, oaserrors.ErrLoad)
	}
	assert.Equal(t, 1, loader.calls["/specs/gone.yaml"])
	assert.Len(t, r.Documents(), 1, "failed documents are not listed")
}

func TestMaxDepth(t *testing.T) {
	l, err := parser.NewLoader(parser.WithFetcher(parser.MapFetcher{
		"/d.yaml": "a: {$ref: '#/b'}\nb: {$ref: '#/c'}\nc: {$ref: '#/d'}\nd: {x: 1}\n",
	}))
	require.NoError(t, err)
	r := New(l, WithMaxDepth(2))
	_, err = r.ResolveRef(context.Background(), parser.RootLocation("/d.yaml").Child("a"), "#/b")
	assert.ErrorIs(t, err, oaserrors.ErrResourceLimit)
	assert.ErrorIs(t, err, oaserrors.ErrReference)
}

func TestRootErrors(t *testing.T) {
	r, _ := newTestResolver(t)
	_, err := r.Root(context.Background(), "/specs/nope.yaml")
	var le *oaserrors.LoadError
	assert.ErrorAs(t, err, &le)
}

func TestParseRef(t *testing.T) {
	tgt, err := ParseRef("/specs/paths/users.yaml", "../common.yaml#/components/schemas/a~1b")
	require.NoError(t, err)
	assert.Equal(t, "/specs/common.yaml", tgt.Locator)
	assert.Equal(t, []string{"components", "schemas", "a/b"}, tgt.Tokens)
	assert.Equal(t, "/specs/common.yaml#/components/schemas/a~1b", tgt.String())

	_, err = ParseRef("/specs/api.yaml", "#components")
	assert.Error(t, err)
}
