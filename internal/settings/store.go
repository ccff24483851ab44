package settings

import (
	"sync"
)

// Store holds the live settings and persists updates to path.
type Store struct {
	mu   sync.RWMutex
	path string
	cur  Settings
}

// Open loads settings from path into a Store.
func Open(path string) (*Store, error) {
	s, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, cur: s}, nil
}

// Get returns a copy of the current settings.
func (st *Store) Get() Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := st.cur
	out.ExcludedSites = append([]string{}, st.cur.ExcludedSites...)
	return out
}

// Update validates s, writes it to disk and makes it current. An empty path
// keeps the settings in memory only.
func (st *Store) Update(s Settings) (Settings, error) {
	s.Normalize()
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if st.path != "" {
		if err := Save(st.path, s); err != nil {
			return Settings{}, err
		}
	}
	st.cur = s
	return s, nil
}
