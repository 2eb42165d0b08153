package locator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLocators = `
signup:
  email_field: "#email"
  password_field: "#password"
  submit_button: "button[type=submit]"
confirmation:
  heading: "h1.confirmation"
`

func TestParseAndLookup(t *testing.T) {
	repo, err := Parse([]byte(sampleLocators))
	require.NoError(t, err)

	selector, err := repo.Lookup("signup", "email_field")
	require.NoError(t, err)
	assert.Equal(t, "#email", selector)

	selector, err = repo.Lookup("confirmation", "heading")
	require.NoError(t, err)
	assert.Equal(t, "h1.confirmation", selector)
}

func TestLookupUnknownPage(t *testing.T) {
	repo, err := Parse([]byte(sampleLocators))
	require.NoError(t, err)

	_, err = repo.Lookup("checkout", "total")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown locator page "checkout"`)
	assert.Contains(t, err.Error(), "signup", "error should list available pages")
}

func TestLookupUnknownElement(t *testing.T) {
	repo, err := Parse([]byte(sampleLocators))
	require.NoError(t, err)

	_, err = repo.Lookup("signup", "phone_field")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown locator signup.phone_field")
	assert.Contains(t, err.Error(), "email_field", "error should list available elements")
}

func TestParseRejectsEmptySelector(t *testing.T) {
	_, err := Parse([]byte("signup:\n  email_field: \"  \"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signup.email_field")
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("signup: [not: a, map"))
	assert.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locators.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleLocators), 0644))

	repo, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"confirmation", "signup"}, repo.Pages())
	assert.Equal(t, []string{"email_field", "password_field", "submit_button"}, repo.Elements("signup"))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
