package session

import (
	"encoding/json"
	"fmt"
)

// Namespace is the key the reader settings are stored under.
const Namespace = "speedReader"

// MinWidth is the narrowest the reader panel may become.
const MinWidth = 260

// Settings is the geometry of the reader panel.
type Settings struct {
	Top           int  `json:"formTop"`
	Left          int  `json:"formLeft"`
	DockingBottom bool `json:"dockingBottom"`
	DockingRight  bool `json:"dockingRight"`
	Width         int  `json:"formWidth"`
}

// DefaultSettings returns the geometry used before anything was saved.
func DefaultSettings() Settings {
	return Settings{Width: MinWidth}
}

// Load returns the saved settings. When none are saved the defaults are
// stored and returned.
func (s *Store) Load() (Settings, error) {
	raw, ok := s.Get(Namespace)
	if !ok {
		def := DefaultSettings()
		if err := s.Save(def); err != nil {
			return def, err
		}
		return def, nil
	}

	var st Settings
	if err := json.Unmarshal(raw, &st); err != nil {
		return DefaultSettings(), fmt.Errorf("decode %s settings: %w", Namespace, err)
	}
	return st, nil
}

// Save stores the settings. Widths below MinWidth are raised to it.
func (s *Store) Save(st Settings) error {
	st.Width = max(st.Width, MinWidth)
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode %s settings: %w", Namespace, err)
	}
	s.Put(Namespace, raw)
	return nil
}

// Reset forgets the saved settings and returns the defaults.
func (s *Store) Reset() (Settings, error) {
	s.Delete(Namespace)
	return s.Load()
}

// Update loads the settings, applies fn and saves the result.
func (s *Store) Update(fn func(*Settings)) (Settings, error) {
	st, err := s.Load()
	if err != nil {
		return st, err
	}
	fn(&st)
	if err := s.Save(st); err != nil {
		return st, err
	}
	return s.Load()
}
