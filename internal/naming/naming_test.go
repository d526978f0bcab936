package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToPascalCase(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty string", input: "", want: ""},
		{name: "single lowercase letter", input: "a", want: "A"},
		{name: "snake_case", input: "user_profile", want: "UserProfile"},
		{name: "kebab-case", input: "api-client", want: "ApiClient"},
		{name: "dots", input: "pet.status", want: "PetStatus"},
		{name: "spaces", input: "pet status", want: "PetStatus"},
		{name: "already pascal", input: "AlreadyPascal", want: "AlreadyPascal"},
		{name: "keeps inner capitals", input: "userID", want: "UserID"},
		{name: "leading separator", input: "_private", want: "Private"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToPascalCase(tt.input))
		})
	}
}

func TestSanitizeComponentName(t *testing.T) {
	assert.Equal(t, "Pet", SanitizeComponentName("Pet"))
	assert.Equal(t, "a.b-c_d", SanitizeComponentName("a.b-c_d"))
	assert.Equal(t, "a_b_c", SanitizeComponentName("a b/c"))
	assert.Equal(t, "caf_", SanitizeComponentName("café"))
}

func TestFileComponentName(t *testing.T) {
	tests := []struct {
		locator string
		want    string
	}{
		{"schemas/pet-status.yaml", "PetStatus"},
		{"/abs/path/error.json", "Error"},
		{"https://example.com/defs/user_profile.yaml?v=2", "UserProfile"},
		{"C:\\specs\\order.yml", "Order"},
		{"noext", "Noext"},
	}
	for _, tt := range tests {
		t.Run(tt.locator, func(t *testing.T) {
			assert.Equal(t, tt.want, FileComponentName(tt.locator))
		})
	}
}

func TestWithSuffix(t *testing.T) {
	assert.Equal(t, "Error", WithSuffix("Error", 1))
	assert.Equal(t, "Error", WithSuffix("Error", 0))
	assert.Equal(t, "Error-2", WithSuffix("Error", 2))
	assert.Equal(t, "Error-10", WithSuffix("Error", 10))
}
