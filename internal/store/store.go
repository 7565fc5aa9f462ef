// Package store owns the read-modify-write transaction every dataset tool
// runs: resolve a handle to its backing file, load the table, apply one
// mutation, persist. No table survives between calls — a handle caches only
// the canonical path, so each invocation observes the file as it is on disk.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/datasmith-io/datasmith/config"
	"github.com/datasmith-io/datasmith/internal/dataset"
)

// ErrHandleNotFound indicates an unknown or expired dataset handle ID.
var ErrHandleNotFound = errors.New("store: dataset handle not found")

// Handle pairs a dataset ID with its canonical path and TTL metadata.
type Handle struct {
	ID        string
	Path      string
	OpenedAt  time.Time
	ExpiresAt time.Time
}

// DatasetGate coordinates capacity for open dataset handles.
type DatasetGate interface {
	AcquireDataset(ctx context.Context) error
	ReleaseDataset()
}

// PathValidator abstracts filesystem path validation. Implementations return
// a canonical absolute path when allowed, or an error when denied.
type PathValidator interface {
	ValidateOpenPath(path string) (string, error)
}

// Store maps dataset handle IDs to backing files and serializes writers per
// path. Concurrent requests against the same file are resolved by a
// single-writer lock combined with atomic saves in the dataset codec, so the
// last writer wins on whole files and readers never see partial writes.
type Store struct {
	mu           sync.RWMutex
	handles      map[string]*Handle
	locks        map[string]*sync.Mutex
	ttl          time.Duration
	cleanupEvery time.Duration
	clock        func() time.Time
	gate         DatasetGate
	validator    PathValidator
	stopCh       chan struct{}
	cleanupWG    sync.WaitGroup
}

// NewStore constructs a Store. Pass ttl or cleanupEvery <= 0 to use defaults
// from config. Gate and validator can be nil for tests; clock defaults to
// time.Now when nil.
func NewStore(ttl, cleanupEvery time.Duration, gate DatasetGate, validator PathValidator, clock func() time.Time) *Store {
	if ttl <= 0 {
		ttl = config.DefaultDatasetIdleTTL
	}
	if cleanupEvery <= 0 {
		cleanupEvery = config.DefaultDatasetCleanupPeriod
	}
	if clock == nil {
		clock = time.Now
	}
	return &Store{
		handles:      make(map[string]*Handle),
		locks:        make(map[string]*sync.Mutex),
		ttl:          ttl,
		cleanupEvery: cleanupEvery,
		clock:        clock,
		gate:         gate,
		validator:    validator,
		stopCh:       make(chan struct{}),
	}
}

// Start launches periodic eviction of expired handles.
func (s *Store) Start() {
	s.cleanupWG.Add(1)
	ticker := time.NewTicker(s.cleanupEvery)
	go func() {
		defer s.cleanupWG.Done()
		defer ticker.Stop()
		for {
			select {
			case <-s.stopCh:
				return
			case <-ticker.C:
				s.EvictExpired()
			}
		}
	}()
}

// Close stops background cleanup and releases all handles.
func (s *Store) Close(ctx context.Context) error {
	close(s.stopCh)
	done := make(chan struct{})
	go func() { s.cleanupWG.Wait(); close(done) }()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.handles {
		delete(s.handles, id)
		s.release()
	}
	return nil
}

// Open validates the path, loads the file once to verify it parses, and
// registers a TTL-bearing handle. The table itself is discarded: subsequent
// calls re-read the file.
func (s *Store) Open(ctx context.Context, path string) (string, *dataset.Table, error) {
	if err := s.acquire(ctx); err != nil {
		return "", nil, err
	}
	canonical := path
	if s.validator != nil {
		var err error
		canonical, err = s.validator.ValidateOpenPath(path)
		if err != nil {
			s.release()
			return "", nil, err
		}
	}
	t, err := dataset.Load(canonical)
	if err != nil {
		s.release()
		return "", nil, err
	}

	id := uuid.NewString()
	now := s.clock()
	s.mu.Lock()
	s.handles[id] = &Handle{ID: id, Path: canonical, OpenedAt: now, ExpiresAt: now.Add(s.ttl)}
	s.mu.Unlock()
	return id, t, nil
}

// Resolve returns the backing path for a handle and refreshes its TTL.
func (s *Store) Resolve(id string) (string, error) {
	s.mu.RLock()
	h, ok := s.handles[id]
	s.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrHandleNotFound, id)
	}
	now := s.clock()
	s.mu.Lock()
	h.ExpiresAt = now.Add(s.ttl)
	s.mu.Unlock()
	return h.Path, nil
}

// CloseHandle removes a handle by ID, releasing capacity via the gate.
func (s *Store) CloseHandle(id string) error {
	s.mu.Lock()
	_, ok := s.handles[id]
	if ok {
		delete(s.handles, id)
	}
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrHandleNotFound, id)
	}
	s.release()
	return nil
}

// View loads the table for a handle and runs fn against it without writing
// anything back.
func (s *Store) View(ctx context.Context, id string, fn func(*dataset.Table) error) error {
	path, err := s.Resolve(id)
	if err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	t, err := dataset.Load(path)
	if err != nil {
		return err
	}
	return fn(t)
}

// Update runs one read-modify-write transaction for a handle: load the
// table, apply fn, and persist fn's result when it returns a table. A nil
// result table means no-op; nothing is written. The per-path lock makes
// concurrent updates to the same file single-writer.
func (s *Store) Update(ctx context.Context, id string, fn func(*dataset.Table) (*dataset.Table, error)) error {
	path, err := s.Resolve(id)
	if err != nil {
		return err
	}
	lock := s.pathLock(path)
	lock.Lock()
	defer lock.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	t, err := dataset.Load(path)
	if err != nil {
		return err
	}
	out, err := fn(t)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return dataset.Save(out, path)
}

// EvictExpired drops handles past their TTL.
func (s *Store) EvictExpired() {
	now := s.clock()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, h := range s.handles {
		if now.After(h.ExpiresAt) {
			delete(s.handles, id)
			s.release()
		}
	}
}

// Count returns the current number of registered handles.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.handles)
}

func (s *Store) pathLock(path string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.locks[path]; ok {
		return l
	}
	l := &sync.Mutex{}
	s.locks[path] = l
	return l
}

func (s *Store) acquire(ctx context.Context) error {
	if s.gate == nil {
		return nil
	}
	return s.gate.AcquireDataset(ctx)
}

func (s *Store) release() {
	if s.gate == nil {
		return
	}
	s.gate.ReleaseDataset()
}
