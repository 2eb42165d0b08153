package config

import (
	"fmt"
	"sync"
)

// Section is a typed view over one named region of the configuration.
type Section interface {
	// ID returns the section identifier used as the storage key
	ID() string

	// Title returns a human-readable section name
	Title() string

	// Description explains what the section configures
	Description() string

	// Data returns the current configuration data
	Data() map[string]any

	// SetData replaces the section's data from storage
	SetData(data map[string]any) error

	// Validate checks the current values for consistency
	Validate() error

	// Reset restores default values
	Reset()
}

// Manager coordinates registered sections with a backing store.
type Manager struct {
	store    Store
	mu       sync.RWMutex
	sections map[string]Section
	order    []string
}

// NewManager creates a manager over the given store.
func NewManager(store Store) *Manager {
	return &Manager{
		store:    store,
		sections: make(map[string]Section),
	}
}

// Store returns the backing store.
func (m *Manager) Store() Store {
	return m.store
}

// RegisterSection adds a section. Section IDs must be unique.
func (m *Manager) RegisterSection(section Section) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := section.ID()
	if _, exists := m.sections[id]; exists {
		return fmt.Errorf("section %q already registered", id)
	}
	m.sections[id] = section
	m.order = append(m.order, id)
	return nil
}

// GetSection retrieves a registered section by ID.
func (m *Manager) GetSection(id string) (Section, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	section, ok := m.sections[id]
	return section, ok
}

// GetSections returns all registered sections in registration order.
func (m *Manager) GetSections() []Section {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Section, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.sections[id])
	}
	return out
}

// LoadAll populates every registered section from the store and validates.
// Sections missing from the store keep their defaults.
func (m *Manager) LoadAll() error {
	if err := m.store.Load(); err != nil {
		return fmt.Errorf("failed to load config store: %w", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for id, section := range m.sections {
		data, err := m.store.GetSection(id)
		if err != nil {
			return fmt.Errorf("failed to read section %q: %w", id, err)
		}
		if len(data) == 0 {
			continue
		}
		if err := section.SetData(data); err != nil {
			return fmt.Errorf("failed to apply section %q: %w", id, err)
		}
		if err := section.Validate(); err != nil {
			return fmt.Errorf("invalid section %q: %w", id, err)
		}
	}
	return nil
}

// SaveAll writes every registered section back to the store.
func (m *Manager) SaveAll() error {
	m.mu.RLock()
	for id, section := range m.sections {
		if err := m.store.SetSection(id, section.Data()); err != nil {
			m.mu.RUnlock()
			return fmt.Errorf("failed to stage section %q: %w", id, err)
		}
	}
	m.mu.RUnlock()

	if err := m.store.Save(); err != nil {
		return fmt.Errorf("failed to save config store: %w", err)
	}
	return nil
}
