package protocol

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandRoundTrip(t *testing.T) {
	commands := []interface{}{
		&GetCommand{Keys: []string{"a", "b", "c"}},
		&SetCommand{KeyValues: []KeyValue{
			{Key: "a", Value: []byte("1")},
			{Key: "b", Value: []byte{0x00, 0xff, 0x10}},
		}},
		&DeleteCommand{Keys: []string{"a"}},
		&MetricsCommand{GetKeyCount: true, GetKeysDeletedCount: true},
	}
	for _, command := range commands {
		msgType, payload, err := EncodeMessage(command)
		assert.NoError(t, err)

		decoded, err := DecodeCommand(msgType, payload)
		assert.NoError(t, err)
		assert.Equal(t, command, decoded)
	}
}

func TestResponseRoundTrip(t *testing.T) {
	responses := []*Response{
		{Status: StatusOK, KVList: []KeyValue{{Key: "a", Value: []byte("1")}}},
		{Status: StatusOK, KeyList: []string{"a", "b"}},
		{Status: StatusOK, Metrics: &MetricsResponse{KeyCount: 2, KeysDeletedCount: 1}},
		{Status: StatusError, Message: "something went wrong"},
	}
	for _, response := range responses {
		msgType, payload, err := EncodeMessage(response)
		assert.NoError(t, err)
		assert.Equal(t, ResponseMessage, msgType)

		decoded, err := DecodeResponse(payload)
		assert.NoError(t, err)
		assert.Equal(t, response, decoded)
	}
}

func TestDecodeCommandMalformed(t *testing.T) {
	// Invalid CBOR.
	_, err := DecodeCommand(GetMessage, []byte{0xff})
	assert.Error(t, err)

	// Valid CBOR of the wrong shape: an integer is not a command struct.
	_, err = DecodeCommand(SetMessage, []byte{0x01})
	assert.Error(t, err)
}

func TestDecodeCommandRejectsResponseFrames(t *testing.T) {
	_, payload, err := EncodeMessage(&Response{Status: StatusOK})
	assert.NoError(t, err)

	_, err = DecodeCommand(ResponseMessage, payload)
	assert.Error(t, err)
}

func TestTypeOfUnknown(t *testing.T) {
	_, err := TypeOf("not a message")
	assert.Error(t, err)
}

func TestWriteMessageFraming(t *testing.T) {
	command := &GetCommand{Keys: []string{"a"}}
	var buf bytes.Buffer
	assert.NoError(t, WriteMessage(&buf, command))

	msgType, payload, err := ReadFrame(&buf)
	assert.NoError(t, err)
	assert.Equal(t, GetMessage, msgType)

	decoded, err := DecodeCommand(msgType, payload)
	assert.NoError(t, err)
	assert.Equal(t, command, decoded)
}
