package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Default(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "Janidu Perera", s.Profile.Name)
	assert.Equal(t, 4, s.Roles().Len())
	assert.Equal(t, "Computer Science Student", s.Roles().Role(0))
	assert.NotEmpty(t, s.Skills)
	assert.Len(t, s.Projects, 6)
	assert.Contains(t, string(s.AboutHTML), "<strong>useful and fun</strong>")
	assert.Equal(t, HeroTagline, s.Tagline)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	doc := `
profile:
  name: Test Person
  roles: [Gopher]
about: "# Hello"
projects:
  - title: One
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Gopher", s.Roles().Role(0))
	assert.Contains(t, string(s.AboutHTML), "<h1>Hello</h1>")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"no roles", "profile: {name: X}", "profile.roles"},
		{"no name", "profile: {roles: [a]}", "profile.name"},
		{"level too high", "profile: {name: X, roles: [a]}\nskills: [{title: Go, skills: [{name: go, level: 101}]}]", "outside 0..100"},
		{"untitled project", "profile: {name: X, roles: [a]}\nprojects: [{description: d}]", "projects[0]"},
		{"bad yaml", "profile: [", "decode content"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
