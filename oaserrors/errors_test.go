package oaserrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		err := &LoadError{
			Locator: "/tmp/api.yaml",
			Message: "fetch failed",
			Cause:   errors.New("no such file"),
		}
		assert.Equal(t, "load error for /tmp/api.yaml: fetch failed: no such file", err.Error())
	})

	t.Run("Error message with minimal fields", func(t *testing.T) {
		assert.Equal(t, "load error", (&LoadError{}).Error())
	})

	t.Run("Is matches ErrLoad only", func(t *testing.T) {
		err := &LoadError{}
		assert.ErrorIs(t, err, ErrLoad)
		assert.NotErrorIs(t, err, ErrParse)
	})
}

func TestParseError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		err := &ParseError{
			Path:    "/path/to/file.yaml",
			Line:    42,
			Column:  10,
			Message: "invalid syntax",
			Cause:   errors.New("underlying error"),
		}
		assert.Equal(t, "parse error in /path/to/file.yaml at line 42, column 10: invalid syntax: underlying error", err.Error())
	})

	t.Run("Error message with line only", func(t *testing.T) {
		assert.Equal(t, "parse error at line 10", (&ParseError{Line: 10}).Error())
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("underlying")
		err := &ParseError{Cause: cause}
		assert.ErrorIs(t, err, cause)
		assert.ErrorIs(t, err, ErrParse)
		assert.NotErrorIs(t, err, ErrReference)
	})
}

func TestReferenceError(t *testing.T) {
	tests := []struct {
		name string
		err  *ReferenceError
		want string
	}{
		{
			name: "path not found",
			err:  &ReferenceError{Ref: "#/components/schemas/Missing", Reason: ReasonPathNotFound},
			want: "can't resolve reference: #/components/schemas/Missing",
		},
		{
			name: "cycle",
			err:  &ReferenceError{Ref: "#/a", Reason: ReasonCycle},
			want: "circular reference: #/a",
		},
		{
			name: "load failed with cause",
			err: &ReferenceError{
				Ref:    "other.yaml#/x",
				Reason: ReasonLoadFailed,
				Cause:  &LoadError{Locator: "/tmp/other.yaml"},
			},
			want: "reference error: other.yaml#/x: load error for /tmp/other.yaml",
		},
		{
			name: "path traversal",
			err:  &ReferenceError{Ref: "../../etc/passwd", IsPathTraversal: true, Reason: ReasonLoadFailed},
			want: "path traversal detected: ../../etc/passwd",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.ErrorIs(t, tt.err, ErrReference)
		})
	}

	t.Run("cycle matches ErrCircularReference", func(t *testing.T) {
		err := &ReferenceError{Reason: ReasonCycle}
		assert.ErrorIs(t, err, ErrCircularReference)
		assert.NotErrorIs(t, err, ErrPathTraversal)
	})

	t.Run("load failure exposes the load error", func(t *testing.T) {
		err := fmt.Errorf("resolver: %w", &ReferenceError{
			Reason: ReasonLoadFailed,
			Cause:  &ParseError{Path: "bad.yaml"},
		})
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, "bad.yaml", parseErr.Path)
		assert.NotErrorIs(t, err, ErrCircularReference)
	})
}

func TestResourceLimitError(t *testing.T) {
	err := &ResourceLimitError{ResourceType: "ref_depth", Limit: 100, Actual: 101}
	assert.Equal(t, "resource limit exceeded: ref_depth (limit: 100, actual: 101)", err.Error())
	assert.ErrorIs(t, err, ErrResourceLimit)
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Option: "no-such-rule", Message: "unknown rule"}
	assert.Equal(t, "configuration error for no-such-rule: unknown rule", err.Error())
	assert.ErrorIs(t, err, ErrConfig)

	err = &ConfigError{Option: "operation-summary", Value: "fatal", Message: "invalid severity"}
	assert.Equal(t, "configuration error for operation-summary (value: fatal): invalid severity", err.Error())
}

func TestCollisionError(t *testing.T) {
	err := &CollisionError{Section: "schemas", Name: "Error", Attempts: 1000, Source: "/a.yaml#/Error"}
	assert.Equal(t, `bundle collision in schemas: no free name for "Error" after 1000 attempts (from /a.yaml#/Error)`, err.Error())
	assert.ErrorIs(t, err, ErrCollision)
	assert.NotErrorIs(t, err, ErrConfig)
}
