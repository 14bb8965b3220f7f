// Package triestore wraps trie.Trie in a concurrency discipline: readers
// take a brief lock only to copy the current root pointer and then read a
// private, immutable snapshot; writers serialize end-to-end across their
// entire read-modify-write cycle. Grounded in
// original_source/CPP/copy_on_write_trie/trie_store.cpp for the exact
// two-lock shape, and in
// Govetachun-Go-DB/concurrent-reader-writer/define.go's KVReader pattern
// (snapshot the tree under a short lock, read the snapshot lock-free)
// for the Go realization of the rule that a reader never blocks on a
// writer beyond the instantaneous root-swap window.
package triestore

import (
	"log/slog"
	"sync"

	"corestore/internal/corelog"
	"corestore/storage/trie"
)

// Option customizes a TrieStore at construction time.
type Option func(*TrieStore)

// WithLogger overrides the default stderr logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *TrieStore) { s.log = corelog.Scoped(l, "triestore") }
}

// TrieStore holds the current trie root behind two locks: rootLock guards
// only the pointer read/swap, writeLock serializes writers across their
// whole read-modify-write.
type TrieStore struct {
	rootLock  sync.Mutex
	writeLock sync.Mutex
	root      trie.Trie
	log       *slog.Logger
}

// New returns an empty TrieStore.
func New(opts ...Option) *TrieStore {
	s := &TrieStore{log: corelog.Default("triestore")}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValueGuard bundles a value with the snapshot root that produced it. As
// long as the guard is held (i.e. not garbage collected), the snapshot
// root, and therefore the value, which some node under it owns, stays
// alive, even if concurrent Put/Remove calls publish newer roots. This is
// Go's GC standing in for the source's shared_ptr-retained snapshot.
type ValueGuard[T any] struct {
	root  trie.Trie
	value T
}

// Value returns the guarded value.
func (g ValueGuard[T]) Value() T { return g.value }

// Get returns a ValueGuard for key's current value, or false if absent.
func Get[T any](s *TrieStore, key string) (ValueGuard[T], bool) {
	s.rootLock.Lock()
	snapshot := s.root
	s.rootLock.Unlock()

	v, ok := trie.Get[T](snapshot, key)
	if !ok {
		return ValueGuard[T]{}, false
	}
	return ValueGuard[T]{root: snapshot, value: v}, true
}

// Put binds key to value, serialized against every other writer.
func Put[T any](s *TrieStore, key string, value T) {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	s.rootLock.Lock()
	snapshot := s.root
	s.rootLock.Unlock()

	newRoot := trie.Put(snapshot, key, value)

	s.rootLock.Lock()
	s.root = newRoot
	s.rootLock.Unlock()

	s.log.Debug("put", "key", key)
}

// Remove unbinds key, serialized against every other writer.
func Remove(s *TrieStore, key string) {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	s.rootLock.Lock()
	snapshot := s.root
	s.rootLock.Unlock()

	newRoot := trie.Remove(snapshot, key)

	s.rootLock.Lock()
	s.root = newRoot
	s.rootLock.Unlock()

	s.log.Debug("remove", "key", key)
}
