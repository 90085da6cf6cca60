package kvstore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/memkv/memkv/protocol"
)

func TestExecute(t *testing.T) {
	store := NewStore()

	{
		r := Execute(&protocol.GetCommand{Keys: []string{key1}}, store)
		assert.Equal(t, protocol.StatusOK, r.Status)
		assert.Empty(t, r.KVList)
	}

	{
		r := Execute(&protocol.SetCommand{KeyValues: []protocol.KeyValue{
			kv(key1, val1), kv(key2, val2),
		}}, store)
		assert.Equal(t, protocol.StatusOK, r.Status)
		assert.Equal(t, []string{key1, key2}, r.KeyList)
	}

	{
		r := Execute(&protocol.GetCommand{Keys: []string{key1, key2, "absent"}}, store)
		assert.Equal(t, protocol.StatusOK, r.Status)
		assert.Equal(t, []protocol.KeyValue{kv(key1, val1), kv(key2, val2)}, r.KVList)
	}

	{
		// Delete echoes only the keys that existed.
		r := Execute(&protocol.DeleteCommand{Keys: []string{key1, "absent"}}, store)
		assert.Equal(t, protocol.StatusOK, r.Status)
		assert.Equal(t, []string{key1}, r.KeyList)
	}

	{
		r := Execute(&protocol.MetricsCommand{
			GetKeyCount:         true,
			GetKeysDeletedCount: true,
		}, store)
		assert.Equal(t, protocol.StatusOK, r.Status)
		assert.Equal(t, int64(1), r.Metrics.KeyCount)
		assert.Equal(t, int64(2), r.Metrics.KeysDeletedCount)
	}
}

func TestExecuteUnknownCommand(t *testing.T) {
	store := NewStore()
	r := Execute("not a command", store)
	assert.Equal(t, protocol.StatusError, r.Status)
	assert.NotEmpty(t, r.Message)
}
