package kvstore

import (
	logger "github.com/sirupsen/logrus"

	"github.com/memkv/memkv/protocol"
)

// Execute runs one decoded command against the store and builds its
// response. Get and Metrics run under the shared lock mode, Set and
// Delete under the exclusive mode; the lock discipline lives inside
// the store operations themselves.
func Execute(command interface{}, store *Store) *protocol.Response {
	switch cmd := command.(type) {
	case *protocol.GetCommand:
		return executeGet(cmd, store)
	case *protocol.SetCommand:
		return executeSet(cmd, store)
	case *protocol.DeleteCommand:
		return executeDelete(cmd, store)
	case *protocol.MetricsCommand:
		return executeMetrics(cmd, store)
	default:
		return protocol.ErrorResponse("unexpected command type %T", command)
	}
}

func executeGet(cmd *protocol.GetCommand, store *Store) *protocol.Response {
	logger.Debugf("executing get command with %v keys", len(cmd.Keys))
	found := store.Get(cmd.Keys)
	return &protocol.Response{Status: protocol.StatusOK, KVList: found}
}

func executeSet(cmd *protocol.SetCommand, store *Store) *protocol.Response {
	logger.Debugf("executing set command with %v key values", len(cmd.KeyValues))
	keys := store.Set(cmd.KeyValues)
	return &protocol.Response{Status: protocol.StatusOK, KeyList: keys}
}

func executeDelete(cmd *protocol.DeleteCommand, store *Store) *protocol.Response {
	logger.Debugf("executing delete command with %v keys", len(cmd.Keys))
	removed := store.Delete(cmd.Keys)
	return &protocol.Response{Status: protocol.StatusOK, KeyList: removed}
}

func executeMetrics(cmd *protocol.MetricsCommand, store *Store) *protocol.Response {
	logger.Debug("executing metrics command")
	return &protocol.Response{Status: protocol.StatusOK, Metrics: store.Metrics(cmd)}
}
