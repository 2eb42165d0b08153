package config

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// Environment describes one deployment target the signup flow runs against.
type Environment struct {
	BaseURL    string `json:"base_url"`
	SignupPath string `json:"signup_path"`
}

// SignupURL joins the base URL and signup path.
func (e Environment) SignupURL() string {
	return strings.TrimRight(e.BaseURL, "/") + "/" + strings.TrimLeft(e.SignupPath, "/")
}

// EnvironmentsSection holds the named deployment targets and which one is
// active by default.
type EnvironmentsSection struct {
	mu sync.RWMutex

	defaultEnv   string
	environments map[string]Environment
}

// NewEnvironmentsSection creates an environments section with a local
// default target.
func NewEnvironmentsSection() *EnvironmentsSection {
	s := &EnvironmentsSection{}
	s.Reset()
	return s
}

func (s *EnvironmentsSection) ID() string    { return "environments" }
func (s *EnvironmentsSection) Title() string { return "Environments" }
func (s *EnvironmentsSection) Description() string {
	return "Deployment targets and the default environment to verify"
}

// Data returns the current configuration data.
func (s *EnvironmentsSection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	envs := make(map[string]any, len(s.environments))
	for name, env := range s.environments {
		envs[name] = map[string]any{
			"base_url":    env.BaseURL,
			"signup_path": env.SignupPath,
		}
	}
	return map[string]any{
		"default":      s.defaultEnv,
		"environments": envs,
	}
}

// SetData replaces the section's data from storage.
func (s *EnvironmentsSection) SetData(data map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := data["default"].(string); ok {
		s.defaultEnv = v
	}
	raw, ok := data["environments"].(map[string]any)
	if !ok {
		return nil
	}

	envs := make(map[string]Environment, len(raw))
	for name, entry := range raw {
		fields, ok := entry.(map[string]any)
		if !ok {
			return fmt.Errorf("environment %q is not an object", name)
		}
		var env Environment
		if v, ok := fields["base_url"].(string); ok {
			env.BaseURL = v
		}
		if v, ok := fields["signup_path"].(string); ok {
			env.SignupPath = v
		}
		envs[name] = env
	}
	s.environments = envs
	return nil
}

// Validate checks that the default environment exists and every base URL
// parses as absolute http(s).
func (s *EnvironmentsSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.environments[s.defaultEnv]; !ok {
		return fmt.Errorf("default environment %q is not defined", s.defaultEnv)
	}
	for name, env := range s.environments {
		u, err := url.Parse(env.BaseURL)
		if err != nil {
			return fmt.Errorf("environment %q has invalid base_url: %w", name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("environment %q base_url must be http or https, got %q", name, env.BaseURL)
		}
	}
	return nil
}

// Reset restores default values.
func (s *EnvironmentsSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaultEnv = "local"
	s.environments = map[string]Environment{
		"local": {
			BaseURL:    "http://localhost:3000",
			SignupPath: "/signup",
		},
	}
}

// Default returns the name of the default environment.
func (s *EnvironmentsSection) Default() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaultEnv
}

// Get returns the named environment.
func (s *EnvironmentsSection) Get(name string) (Environment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	env, ok := s.environments[name]
	return env, ok
}

// Set adds or replaces the named environment.
func (s *EnvironmentsSection) Set(name string, env Environment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.environments[name] = env
}

// Names returns the defined environment names.
func (s *EnvironmentsSection) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.environments))
	for name := range s.environments {
		names = append(names, name)
	}
	return names
}
