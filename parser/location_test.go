package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocation(t *testing.T) {
	root := RootLocation("/specs/api.yaml")
	assert.Equal(t, "/specs/api.yaml#", root.String())

	op := root.Child("paths").Child("/users/{id}").Child("get")
	assert.Equal(t, "/paths/~1users~1{id}/get", op.Pointer)
	assert.Equal(t, []string{"paths", "/users/{id}", "get"}, op.Tokens())

	param := op.Child("parameters").Index(2)
	assert.Equal(t, "/specs/api.yaml#/paths/~1users~1{id}/get/parameters/2", param.String())

	assert.True(t, Location{}.IsZero())
	assert.False(t, root.IsZero())
}

func TestLocationComparable(t *testing.T) {
	a := RootLocation("a.yaml").Child("x")
	b := RootLocation("a.yaml").Child("x")
	set := map[Location]bool{a: true}
	assert.True(t, set[b])
	assert.False(t, set[RootLocation("b.yaml").Child("x")])
}

func TestParseLocation(t *testing.T) {
	loc := RootLocation("/specs/api.yaml").Child("paths").Child("/a/{b}")
	got, ok := ParseLocation(loc.String())
	require.True(t, ok)
	assert.Equal(t, loc, got)

	got, ok = ParseLocation("mem://x#")
	require.True(t, ok)
	assert.Equal(t, RootLocation("mem://x"), got)

	_, ok = ParseLocation("no-fragment")
	assert.False(t, ok)
	_, ok = ParseLocation("a.yaml#bad")
	assert.False(t, ok)
}
