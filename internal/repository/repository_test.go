package repository

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"pocketnotes/internal/store"
	"pocketnotes/pkg/hash"

	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	hash.Cost = bcrypt.MinCost
	os.Exit(m.Run())
}

var errDisk = errors.New("disk unavailable")

// faultyStore wraps a MemoryStore and fails the operations that are switched
// on. It also counts writes and can slow reads down.
type faultyStore struct {
	*store.MemoryStore

	mu       sync.Mutex
	failGet  bool
	failSet  bool
	failRm   bool
	getDelay time.Duration
	setCalls int
	rmCalls  int
}

func newFaultyStore() *faultyStore {
	return &faultyStore{MemoryStore: store.NewMemoryStore()}
}

func (s *faultyStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	fail, delay := s.failGet, s.getDelay
	s.mu.Unlock()
	time.Sleep(delay)
	if fail {
		return "", false, errDisk
	}
	return s.MemoryStore.Get(ctx, key)
}

func (s *faultyStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	s.setCalls++
	fail := s.failSet
	s.mu.Unlock()
	if fail {
		return errDisk
	}
	return s.MemoryStore.Set(ctx, key, value)
}

func (s *faultyStore) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	s.rmCalls++
	fail := s.failRm
	s.mu.Unlock()
	if fail {
		return errDisk
	}
	return s.MemoryStore.Remove(ctx, key)
}

func (s *faultyStore) writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setCalls
}
