// Package kvstore holds the shared in-memory key-value table, the
// writer-priority lock guarding it, and the command executor that runs
// decoded client commands against it.
package kvstore

import (
	"sync/atomic"

	"github.com/memkv/memkv/protocol"
)

// Store is the process-wide key-value table plus its running counters.
// All access goes through the writer-priority lock: bulk reads run
// under the shared mode, bulk mutations under the exclusive mode, so
// one command's keys are applied or observed all at once.
type Store struct {
	lock  *RWLock
	store map[string][]byte

	keysRead     int64
	keysUpdated  int64
	keysDeleted  int64
	contentsSize int64
}

func NewStore() *Store {
	return &Store{
		lock:  NewRWLock(),
		store: make(map[string][]byte),
	}
}

// Get returns the found pairs in request order; missing keys are
// omitted. Every requested key counts as a read, found or not.
func (s *Store) Get(keys []string) []protocol.KeyValue {
	found := make([]protocol.KeyValue, 0, len(keys))
	s.lock.RLock()
	for _, key := range keys {
		if value, ok := s.store[key]; ok {
			found = append(found, protocol.KeyValue{Key: key, Value: value})
		}
	}
	s.lock.RUnlock()
	atomic.AddInt64(&s.keysRead, int64(len(keys)))
	return found
}

// Set inserts or overwrites every pair under a single exclusive hold
// and returns the keys written.
func (s *Store) Set(keyValues []protocol.KeyValue) []string {
	keys := make([]string, 0, len(keyValues))
	s.lock.Lock()
	for _, kv := range keyValues {
		if old, ok := s.store[kv.Key]; ok {
			atomic.AddInt64(&s.contentsSize, int64(len(kv.Value)-len(old)))
		} else {
			atomic.AddInt64(&s.contentsSize, int64(len(kv.Key)+len(kv.Value)))
		}
		s.store[kv.Key] = kv.Value
		keys = append(keys, kv.Key)
	}
	s.lock.Unlock()
	atomic.AddInt64(&s.keysUpdated, int64(len(keyValues)))
	return keys
}

// Delete removes every present key under a single exclusive hold and
// returns the keys actually removed. The deleted counter advances by
// the number of keys requested, mirroring Get's counting policy.
func (s *Store) Delete(keys []string) []string {
	removed := make([]string, 0, len(keys))
	s.lock.Lock()
	for _, key := range keys {
		if value, ok := s.store[key]; ok {
			atomic.AddInt64(&s.contentsSize, -int64(len(key)+len(value)))
			delete(s.store, key)
			removed = append(removed, key)
		}
	}
	s.lock.Unlock()
	atomic.AddInt64(&s.keysDeleted, int64(len(keys)))
	return removed
}

// Metrics fills in only the fields requested by the command. The live
// quantities (key count, contents size) are read under the shared mode
// so they describe one consistent snapshot.
func (s *Store) Metrics(cmd *protocol.MetricsCommand) *protocol.MetricsResponse {
	metrics := &protocol.MetricsResponse{}
	s.lock.RLock()
	if cmd.GetKeyCount {
		metrics.KeyCount = int64(len(s.store))
	}
	if cmd.GetTotalStoreContentsSize {
		metrics.TotalStoreContentsSize = atomic.LoadInt64(&s.contentsSize)
	}
	s.lock.RUnlock()
	if cmd.GetKeysReadCount {
		metrics.KeysReadCount = atomic.LoadInt64(&s.keysRead)
	}
	if cmd.GetKeysUpdatedCount {
		metrics.KeysUpdatedCount = atomic.LoadInt64(&s.keysUpdated)
	}
	if cmd.GetKeysDeletedCount {
		metrics.KeysDeletedCount = atomic.LoadInt64(&s.keysDeleted)
	}
	return metrics
}
