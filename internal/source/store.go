// Package source owns the current text of every file in the workspace.
package source

import (
	"fmt"
	"sort"
	"sync"
)

// Store maps filenames to their current source text. The file set is fixed
// at construction; only the text of a declared file can change, and only
// through Edit.
type Store struct {
	mu    sync.RWMutex
	texts map[string]string
}

// NewStore builds a store from the initial file set.
func NewStore(files map[string]string) *Store {
	texts := make(map[string]string, len(files))
	for name, text := range files {
		texts[name] = text
	}
	return &Store{texts: texts}
}

// Edit replaces the text of a declared file. Editing an undeclared filename
// is rejected: the file set is fixed for the life of the workspace.
func (s *Store) Edit(filename, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.texts[filename]; !ok {
		return fmt.Errorf("edit of undeclared file %q", filename)
	}
	s.texts[filename] = text
	return nil
}

// Text returns the current text of a file.
func (s *Store) Text(filename string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	text, ok := s.texts[filename]
	return text, ok
}

// Has reports whether filename belongs to the declared file set.
func (s *Store) Has(filename string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.texts[filename]
	return ok
}

// Filenames returns the declared file set in sorted order.
func (s *Store) Filenames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.texts))
	for name := range s.texts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of declared files.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.texts)
}
