// Package teststate implements C16: an in-memory document state map plus a
// deterministic-id toggle, a harness for building a graph.Graph from
// in-memory documents instead of real files, grounded on the teacher's
// MemoryRepo (repo_memory.go): a mutex-guarded map standing in for a
// persistent repository, safe for concurrent use.
package teststate

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jlrickert/noteweave/pkg/graph"
	"github.com/jlrickert/noteweave/pkg/markdown/goldmarkreader"
	"github.com/jlrickert/noteweave/pkg/patch"
	"github.com/jlrickert/noteweave/pkg/sections"
)

// Store holds raw markdown source by key, guarded by an RWMutex exactly the
// way MemoryRepo guards its nodes map: readers take RLock, mutations take
// Lock.
type Store struct {
	mu   sync.RWMutex
	docs map[graph.Key]string

	deterministic bool
	fixedToday    string
	seq           int
}

// New returns an empty Store in non-deterministic mode: Today reports the
// real wall-clock date and NextID mints a random UUID, matching production
// behavior.
func New() *Store {
	return &Store{docs: make(map[graph.Key]string)}
}

// SetDeterministic switches the store into reproducible-test mode: Today
// always returns today, and NextID returns a sequential counter starting at
// 1 instead of a random UUID.
func (s *Store) SetDeterministic(today string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deterministic = true
	s.fixedToday = today
	s.seq = 0
}

// Today returns the date TemplateContext's {{today}} renders, per
// spec.md §4.8/§6.
func (s *Store) Today() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.deterministic {
		return s.fixedToday
	}
	return time.Now().UTC().Format("2006-01-02")
}

// NextID mints a disambiguation suffix for a candidate key that collides
// with an existing one (spec.md §6.2 `new`'s "-1, -2, …" is computed by the
// caller against existing keys; NextID instead mints ids that need no
// stable human-facing counter) — a random UUID in production, a sequential counter when
// Store is in deterministic mode.
func (s *Store) NextID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deterministic {
		s.seq++
		return fmt.Sprintf("%d", s.seq)
	}
	return uuid.NewString()
}

// Put seeds or overwrites key's raw markdown source.
func (s *Store) Put(key graph.Key, markdown string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[key] = markdown
}

// Read returns key's raw markdown source, if present.
func (s *Store) Read(key graph.Key) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	md, ok := s.docs[key]
	return md, ok
}

// Delete removes key's stored document.
func (s *Store) Delete(key graph.Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, key)
}

// Keys returns every stored key in sorted order.
func (s *Store) Keys() []graph.Key {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]graph.Key, 0, len(s.docs))
	for k := range s.docs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Graph parses every stored document and ingests it into a fresh
// graph.Graph via goldmarkreader + sections.Build, the same pipeline the
// real workspace uses for bulk import. Parse order is sorted by key so
// document ids are reproducible across runs.
func (s *Store) Graph(ctx context.Context, opts graph.Options) (*graph.Graph, error) {
	s.mu.RLock()
	docs := make(map[graph.Key]string, len(s.docs))
	for k, v := range s.docs {
		docs[k] = v
	}
	s.mu.RUnlock()

	keys := make([]graph.Key, 0, len(docs))
	for k := range docs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	g := graph.New(opts)
	reader := goldmarkreader.New()
	for _, k := range keys {
		doc, err := reader.Parse(ctx, []byte(docs[k]))
		if err != nil {
			return nil, fmt.Errorf("teststate: parse %s: %w", k, err)
		}
		sections.Build(g, k, doc)
	}
	g.RefIndex().Rebuild(g.Arena(), g.Lines())
	return g, nil
}

// ApplyChanges writes a patch.Change set back into the store, the in-memory
// analogue of the CLI/LSP adapter's filesystem write-back.
func (s *Store) ApplyChanges(changes []patch.Change) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range changes {
		switch c.Kind {
		case patch.Remove:
			delete(s.docs, c.Key)
		case patch.Create:
			if _, ok := s.docs[c.Key]; !ok {
				s.docs[c.Key] = ""
			}
		case patch.Update:
			s.docs[c.Key] = c.Markdown
		}
	}
}
