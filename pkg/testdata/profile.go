// Package testdata supplies the account details a signup run submits.
// Profiles are either generated fresh per run, so repeated runs never
// collide on an existing account, or loaded from a JSON fixture file
// when a run must use known inputs.
package testdata

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Profile is one set of signup form inputs.
type Profile struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks that the profile can be submitted at all.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.FullName) == "" {
		return fmt.Errorf("profile full_name is empty")
	}
	if !strings.Contains(p.Email, "@") {
		return fmt.Errorf("profile email %q is not an address", p.Email)
	}
	if len(p.Password) < 8 {
		return fmt.Errorf("profile password is shorter than 8 characters")
	}
	return nil
}

// Generate produces a unique profile. The email local part carries a
// fresh UUID so concurrent workers and repeated runs never reuse an
// address the target application has already seen.
func Generate(emailDomain string) Profile {
	if emailDomain == "" {
		emailDomain = "example.com"
	}
	id := uuid.New().String()
	short := strings.Split(id, "-")[0]
	return Profile{
		FullName: fmt.Sprintf("Check User %s", short),
		Email:    fmt.Sprintf("check-%s@%s", id, emailDomain),
		Password: fmt.Sprintf("Fc!%s", id),
	}
}

// LoadProfiles reads a JSON fixture file containing an array of profiles.
func LoadProfiles(path string) ([]Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	var profiles []Profile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("failed to parse profile file: %w", err)
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("profile file %s contains no profiles", path)
	}
	for i, p := range profiles {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("profile %d: %w", i, err)
		}
	}
	return profiles, nil
}
