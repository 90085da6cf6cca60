package protocol

import (
	"encoding/binary"
	"errors"
	"io"
)

type MessageType uint16

const (
	GetMessage MessageType = iota + 1
	SetMessage
	DeleteMessage
	MetricsMessage
	ResponseMessage
)

// HeaderSize is the fixed frame header length: a 2-byte message type
// followed by a 4-byte payload length, both big-endian.
const HeaderSize = 6

// MaxFrameSize bounds the payload length a peer may declare.
const MaxFrameSize = 64 * 1024 * 1024

var (
	ErrMalformedHeader    = errors.New("protocol: malformed frame header")
	ErrIncompleteFrame    = errors.New("protocol: stream closed mid-frame")
	ErrUnknownMessageType = errors.New("protocol: unknown message type")
	ErrFrameTooLarge      = errors.New("protocol: frame exceeds size limit")
)

func EncodeHeader(msgType MessageType, size uint32) []byte {
	header := make([]byte, HeaderSize)
	binary.BigEndian.PutUint16(header[0:2], uint16(msgType))
	binary.BigEndian.PutUint32(header[2:6], size)
	return header
}

func DecodeHeader(header []byte) (MessageType, uint32, error) {
	if len(header) < HeaderSize {
		return 0, 0, ErrMalformedHeader
	}
	msgType := MessageType(binary.BigEndian.Uint16(header[0:2]))
	size := binary.BigEndian.Uint32(header[2:6])
	return msgType, size, nil
}

// ReadFrame reads exactly one frame from r. A clean EOF on the header
// boundary is returned as io.EOF so callers can tell a disconnect from
// a truncated frame. An unknown message type is reported only after the
// payload has been consumed, so the stream stays aligned and the
// connection remains usable.
func ReadFrame(r io.Reader) (MessageType, []byte, error) {
	header := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		if err == io.ErrUnexpectedEOF {
			return 0, nil, ErrMalformedHeader
		}
		// io.EOF on the header boundary, or a transport error.
		return 0, nil, err
	}

	msgType, size, err := DecodeHeader(header)
	if err != nil {
		return 0, nil, err
	}
	if size > MaxFrameSize {
		return 0, nil, ErrFrameTooLarge
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return 0, nil, ErrIncompleteFrame
		}
		return 0, nil, err
	}

	if msgType < GetMessage || msgType > ResponseMessage {
		return msgType, payload, ErrUnknownMessageType
	}
	return msgType, payload, nil
}

// WriteFrame writes the header and payload for one frame to w.
func WriteFrame(w io.Writer, msgType MessageType, payload []byte) error {
	if _, err := w.Write(EncodeHeader(msgType, uint32(len(payload)))); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}
