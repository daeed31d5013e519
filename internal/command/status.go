package command

import (
	"sync"

	"github.com/file-butler/go/internal/types"
)

// MemoryStatusStore is the default in-process status store. Unknown
// files report StatusPending.
type MemoryStatusStore struct {
	mu sync.RWMutex
	m  map[string]types.FileStatus
}

// NewMemoryStatusStore creates an empty status store.
func NewMemoryStatusStore() *MemoryStatusStore {
	return &MemoryStatusStore{m: make(map[string]types.FileStatus)}
}

func (s *MemoryStatusStore) Get(fileID string) types.FileStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.m[fileID]; ok {
		return st
	}
	return types.StatusPending
}

func (s *MemoryStatusStore) Set(fileID string, st types.FileStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[fileID] = st
}
