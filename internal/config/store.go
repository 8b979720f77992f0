package config

import "sync/atomic"

// Store holds the live config record. Load replaces it in one step so a
// reader sees either the old record or the new one.
type Store struct {
	current atomic.Pointer[Record]
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Load makes rec the live record.
func (s *Store) Load(rec Record) {
	s.current.Store(&rec)
}

// Current returns the live record and whether one has been loaded.
func (s *Store) Current() (Record, bool) {
	rec := s.current.Load()
	if rec == nil {
		return Record{}, false
	}
	return *rec, true
}

// Dump renders the live record in the format it was detected as.
func (s *Store) Dump() (string, error) {
	rec, ok := s.Current()
	if !ok {
		return "", ErrNoConfig
	}
	return rec.Dump()
}
