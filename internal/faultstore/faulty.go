// Package faultstore wraps a blobstore.BlobStore to inject write failures.
package faultstore

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/hupe1980/bagtensor/blobstore"
)

// ErrInjected is returned by default when a fault fires.
var ErrInjected = errors.New("injected fault")

// Fault defines the failure behavior for matching blobs.
type Fault struct {
	FailAfterBytes int64 // Fail writes once this many bytes were written to the blob. -1 to disable.
	FailOnCreate   bool
	FailOnClose    bool
	Err            error
}

func (f Fault) err() error {
	if f.Err != nil {
		return f.Err
	}
	return ErrInjected
}

// Store is a BlobStore that injects faults into writes.
type Store struct {
	blobstore.BlobStore

	mu    sync.Mutex
	rules map[string]Fault // name substring -> fault
}

// New wraps s.
func New(s blobstore.BlobStore) *Store {
	return &Store{BlobStore: s, rules: make(map[string]Fault)}
}

// AddRule injects fault into blobs whose name contains pattern.
func (s *Store) AddRule(pattern string, fault Fault) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules[pattern] = fault
}

func (s *Store) match(name string) (Fault, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for pattern, rule := range s.rules {
		if strings.Contains(name, pattern) {
			return rule, true
		}
	}
	return Fault{}, false
}

// Create implements blobstore.BlobStore.
func (s *Store) Create(ctx context.Context, name string) (blobstore.WritableBlob, error) {
	fault, ok := s.match(name)
	if ok && fault.FailOnCreate {
		return nil, fault.err()
	}
	w, err := s.BlobStore.Create(ctx, name)
	if err != nil || !ok {
		return w, err
	}
	return &faultyBlob{WritableBlob: w, fault: fault}, nil
}

// Put implements blobstore.BlobStore.
func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	if fault, ok := s.match(name); ok {
		if fault.FailOnCreate || (fault.FailAfterBytes >= 0 && int64(len(data)) > fault.FailAfterBytes) {
			return fault.err()
		}
	}
	return s.BlobStore.Put(ctx, name, data)
}

type faultyBlob struct {
	blobstore.WritableBlob
	fault   Fault
	written int64
}

func (b *faultyBlob) Write(p []byte) (int, error) {
	if b.fault.FailAfterBytes >= 0 && b.written+int64(len(p)) > b.fault.FailAfterBytes {
		return 0, b.fault.err()
	}
	n, err := b.WritableBlob.Write(p)
	b.written += int64(n)
	return n, err
}

func (b *faultyBlob) Close() error {
	if b.fault.FailOnClose {
		_ = blobstore.Abort(b.WritableBlob)
		return b.fault.err()
	}
	return b.WritableBlob.Close()
}

// Abort forwards to the wrapped blob.
func (b *faultyBlob) Abort() error {
	return blobstore.Abort(b.WritableBlob)
}
