// Package protocol defines the memkv wire format: a fixed six-byte
// frame header carrying a message type and payload length, and the
// CBOR-encoded command and response payloads that travel inside frames.
package protocol

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

type KeyValue struct {
	Key   string
	Value []byte
}

type GetCommand struct {
	Keys []string
}

type SetCommand struct {
	KeyValues []KeyValue
}

type DeleteCommand struct {
	Keys []string
}

type MetricsCommand struct {
	GetKeyCount               bool
	GetTotalStoreContentsSize bool
	GetKeysReadCount          bool
	GetKeysUpdatedCount       bool
	GetKeysDeletedCount       bool
}

type MetricsResponse struct {
	KeyCount               int64
	TotalStoreContentsSize int64
	KeysReadCount          int64
	KeysUpdatedCount       int64
	KeysDeletedCount       int64
}

// Response carries at most one of KVList, KeyList, or Metrics,
// depending on the command that produced it.
type Response struct {
	Status  string
	Message string
	KVList  []KeyValue       `cbor:",omitempty"`
	KeyList []string         `cbor:",omitempty"`
	Metrics *MetricsResponse `cbor:",omitempty"`
}

func ErrorResponse(format string, args ...interface{}) *Response {
	return &Response{Status: StatusError, Message: fmt.Sprintf(format, args...)}
}

// TypeOf maps a message to its wire type tag.
func TypeOf(msg interface{}) (MessageType, error) {
	switch msg.(type) {
	case *GetCommand:
		return GetMessage, nil
	case *SetCommand:
		return SetMessage, nil
	case *DeleteCommand:
		return DeleteMessage, nil
	case *MetricsCommand:
		return MetricsMessage, nil
	case *Response:
		return ResponseMessage, nil
	default:
		return 0, fmt.Errorf("protocol: no message type for %T", msg)
	}
}

// EncodeMessage serializes msg and returns its type tag alongside the
// payload bytes, ready to be framed.
func EncodeMessage(msg interface{}) (MessageType, []byte, error) {
	msgType, err := TypeOf(msg)
	if err != nil {
		return 0, nil, err
	}
	payload, err := cbor.Marshal(msg)
	if err != nil {
		return 0, nil, err
	}
	return msgType, payload, nil
}

// DecodeCommand deserializes a command payload according to its frame
// type tag. Response frames are not commands and are rejected here.
func DecodeCommand(msgType MessageType, payload []byte) (interface{}, error) {
	switch msgType {
	case GetMessage:
		cmd := &GetCommand{}
		if err := cbor.Unmarshal(payload, cmd); err != nil {
			return nil, fmt.Errorf("protocol: malformed get command: %v", err)
		}
		return cmd, nil
	case SetMessage:
		cmd := &SetCommand{}
		if err := cbor.Unmarshal(payload, cmd); err != nil {
			return nil, fmt.Errorf("protocol: malformed set command: %v", err)
		}
		return cmd, nil
	case DeleteMessage:
		cmd := &DeleteCommand{}
		if err := cbor.Unmarshal(payload, cmd); err != nil {
			return nil, fmt.Errorf("protocol: malformed delete command: %v", err)
		}
		return cmd, nil
	case MetricsMessage:
		cmd := &MetricsCommand{}
		if err := cbor.Unmarshal(payload, cmd); err != nil {
			return nil, fmt.Errorf("protocol: malformed metrics command: %v", err)
		}
		return cmd, nil
	default:
		return nil, fmt.Errorf("protocol: message type %d is not a command", msgType)
	}
}

func DecodeResponse(payload []byte) (*Response, error) {
	response := &Response{}
	if err := cbor.Unmarshal(payload, response); err != nil {
		return nil, fmt.Errorf("protocol: malformed response: %v", err)
	}
	return response, nil
}

// WriteMessage encodes msg and writes it to w as one frame.
func WriteMessage(w io.Writer, msg interface{}) error {
	msgType, payload, err := EncodeMessage(msg)
	if err != nil {
		return err
	}
	return WriteFrame(w, msgType, payload)
}
