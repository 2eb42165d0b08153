// Package locator loads element selectors from a YAML file so flows can
// reference elements by stable logical names instead of raw CSS selectors.
//
// The file maps page names to element names to selectors:
//
//	signup:
//	  email_field: "#email"
//	  submit_button: "button[type=submit]"
//	confirmation:
//	  heading: "h1.confirmation"
package locator

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Repository resolves logical element names to selectors.
type Repository struct {
	pages map[string]map[string]string
}

// Load reads a locator file from disk.
func Load(path string) (*Repository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read locator file: %w", err)
	}
	return Parse(data)
}

// Parse builds a repository from YAML content.
func Parse(data []byte) (*Repository, error) {
	pages := make(map[string]map[string]string)
	if err := yaml.Unmarshal(data, &pages); err != nil {
		return nil, fmt.Errorf("failed to parse locator file: %w", err)
	}

	for page, elements := range pages {
		for name, selector := range elements {
			if strings.TrimSpace(selector) == "" {
				return nil, fmt.Errorf("locator %s.%s has an empty selector", page, name)
			}
		}
	}
	return &Repository{pages: pages}, nil
}

// Lookup resolves page.element to a selector. Unknown names produce an
// error listing what is available, since a typo in a locator name should
// read as a configuration mistake rather than an element timeout.
func (r *Repository) Lookup(page, element string) (string, error) {
	elements, ok := r.pages[page]
	if !ok {
		return "", fmt.Errorf("unknown locator page %q (have: %s)", page, strings.Join(r.Pages(), ", "))
	}
	selector, ok := elements[element]
	if !ok {
		return "", fmt.Errorf("unknown locator %s.%s (have: %s)", page, element, strings.Join(sortedKeys(elements), ", "))
	}
	return selector, nil
}

// Pages returns the defined page names, sorted.
func (r *Repository) Pages() []string {
	return sortedKeys(r.pages)
}

// Elements returns the element names defined for a page, sorted.
func (r *Repository) Elements(page string) []string {
	return sortedKeys(r.pages[page])
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
