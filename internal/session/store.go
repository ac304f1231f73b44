// Package session persists compiled artifacts between workspace sessions.
// Artifacts are keyed by a digest of the source text, so a reopened
// workspace whose files have not changed starts with a warm compile cache.
package session

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when Artifact format changes.
const artifactSchemaVersion uint16 = 1

// Digest identifies a source text.
type Digest [sha256.Size]byte

// HashSource computes the digest of a file's source text.
func HashSource(text string) Digest {
	return sha256.Sum256([]byte(text))
}

// Artifact stores one compiled output together with enough metadata to
// validate it against the current source.
type Artifact struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Filename   string
	Variant    uint8
	SourceHash Digest
	Code       string
}

// Store is an on-disk artifact cache. Thread-safe for concurrent access.
type Store struct {
	mu  sync.RWMutex
	dir string
}

// Open initializes and returns a store at the standard cache location.
func Open(app string) (*Store, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// OpenAt initializes a store rooted at an explicit directory.
func OpenAt(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

func (s *Store) pathFor(key Digest, variant uint8) string {
	hexKey := hex.EncodeToString(key[:])
	// Subdirectory per variant keeps the tree browsable and cleanable.
	return filepath.Join(s.dir, fmt.Sprintf("v%d", variant), hexKey+".mp")
}

// Put serializes and writes an artifact to the store.
func (s *Store) Put(a *Artifact) error {
	if s == nil || a == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	a.Schema = artifactSchemaVersion
	p := s.pathFor(a.SourceHash, a.Variant)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(f.Name())
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(a); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Atomic replace
	return os.Rename(f.Name(), p)
}

// Get reads an artifact for the given source digest and variant.
// Returns false without error when nothing is cached.
func (s *Store) Get(key Digest, variant uint8) (*Artifact, bool, error) {
	if s == nil {
		return nil, false, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := s.pathFor(key, variant)
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer func() {
		_ = f.Close()
	}()

	var a Artifact
	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(&a); err != nil {
		return nil, false, err
	}
	if a.Schema != artifactSchemaVersion || a.SourceHash != key {
		return nil, false, nil
	}
	return &a, true, nil
}

// DropAll invalidates the store, useful after format changes.
func (s *Store) DropAll() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(s.dir, old); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}
