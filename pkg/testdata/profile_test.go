package testdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateProducesValidUniqueProfiles(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		p := Generate("example.org")
		require.NoError(t, p.Validate())
		assert.Contains(t, p.Email, "@example.org")
		assert.False(t, seen[p.Email], "generated emails must never repeat")
		seen[p.Email] = true
	}
}

func TestGenerateDefaultDomain(t *testing.T) {
	p := Generate("")
	assert.Contains(t, p.Email, "@example.com")
}

func TestProfileValidate(t *testing.T) {
	valid := Profile{FullName: "Ada", Email: "ada@example.com", Password: "longenough"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		mutate  func(*Profile)
		wantMsg string
	}{
		{"blank name", func(p *Profile) { p.FullName = "  " }, "full_name"},
		{"bad email", func(p *Profile) { p.Email = "not-an-address" }, "email"},
		{"short password", func(p *Profile) { p.Password = "short" }, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			err := p.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoadProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	content := `[
  {"full_name": "Ada Lovelace", "email": "ada@example.com", "password": "correcthorse"},
  {"full_name": "Alan Turing", "email": "alan@example.com", "password": "batterystaple"}
]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	profiles, err := LoadProfiles(path)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "ada@example.com", profiles[0].Email)
}

func TestLoadProfilesRejectsEmptyAndInvalid(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte("[]"), 0644))
	_, err := LoadProfiles(empty)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no profiles")

	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`[{"full_name": "X", "email": "nope", "password": "longenough"}]`), 0644))
	_, err = LoadProfiles(invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile 0")
}

func TestLoadProfilesMissingFile(t *testing.T) {
	_, err := LoadProfiles(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
