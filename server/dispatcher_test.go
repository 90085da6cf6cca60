package server

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/memkv/memkv/kvstore"
	"github.com/memkv/memkv/protocol"
)

func TestDispatcherExecutes(t *testing.T) {
	store := kvstore.NewStore()
	dispatcher := NewDispatcher(store, 4, 8, nil)
	defer dispatcher.Stop()

	r := dispatcher.Submit(&protocol.SetCommand{KeyValues: []protocol.KeyValue{
		{Key: "a", Value: []byte("1")},
	}})
	assert.Equal(t, protocol.StatusOK, r.Status)

	r = dispatcher.Submit(&protocol.GetCommand{Keys: []string{"a"}})
	assert.Equal(t, protocol.StatusOK, r.Status)
	assert.Equal(t, []protocol.KeyValue{{Key: "a", Value: []byte("1")}}, r.KVList)
}

func TestDispatcherConcurrentSubmits(t *testing.T) {
	store := kvstore.NewStore()
	dispatcher := NewDispatcher(store, 2, 4, nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i)
			r := dispatcher.Submit(&protocol.SetCommand{KeyValues: []protocol.KeyValue{
				{Key: key, Value: []byte(key)},
			}})
			assert.Equal(t, protocol.StatusOK, r.Status)

			r = dispatcher.Submit(&protocol.GetCommand{Keys: []string{key}})
			assert.Equal(t, protocol.StatusOK, r.Status)
			assert.Equal(t, []byte(key), r.KVList[0].Value)
		}()
	}
	wg.Wait()
	dispatcher.Stop()

	metrics := store.Metrics(&protocol.MetricsCommand{
		GetKeyCount:         true,
		GetKeysUpdatedCount: true,
		GetKeysReadCount:    true,
	})
	assert.Equal(t, int64(16), metrics.KeyCount)
	assert.Equal(t, int64(16), metrics.KeysUpdatedCount)
	assert.Equal(t, int64(16), metrics.KeysReadCount)
}

func TestDispatcherRecordsLatency(t *testing.T) {
	store := kvstore.NewStore()
	latency := NewLatencyQueue(16)
	dispatcher := NewDispatcher(store, 1, 1, latency)

	for i := 0; i < 5; i++ {
		dispatcher.Submit(&protocol.GetCommand{Keys: []string{"a"}})
	}
	dispatcher.Stop()

	assert.Equal(t, 5, latency.Len())
}
