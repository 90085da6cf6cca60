package server

import (
	"bufio"
	"context"
	"io"
	"net"

	"github.com/looplab/fsm"
	logger "github.com/sirupsen/logrus"

	"github.com/memkv/memkv/protocol"
)

// Connection lifecycle states and events. The handler loops through
// awaiting_frame -> decoding -> dispatching and back; closed is
// terminal and reachable from anywhere.
const (
	stateAwaitingFrame = "awaiting_frame"
	stateDecoding      = "decoding"
	stateDispatching   = "dispatching"
	stateClosed        = "closed"

	eventFrameRead    = "frame_read"
	eventDecoded      = "decoded"
	eventDecodeFailed = "decode_failed"
	eventResponded    = "responded"
	eventClose        = "close"
)

// Client owns one connection: it reads frames, decodes commands, hands
// them to the dispatcher, and writes responses back in request order.
type Client struct {
	id         int64
	reader     *bufio.Reader
	writer     *bufio.Writer
	socket     net.Conn
	dispatcher *Dispatcher
	manager    *ClientManager
	lifecycle  *fsm.FSM
}

func NewClient(id int64, conn net.Conn, dispatcher *Dispatcher,
	manager *ClientManager) *Client {
	client := &Client{
		id:         id,
		reader:     bufio.NewReader(conn),
		writer:     bufio.NewWriter(conn),
		socket:     conn,
		dispatcher: dispatcher,
		manager:    manager,
	}
	client.lifecycle = fsm.NewFSM(
		stateAwaitingFrame,
		fsm.Events{
			{Name: eventFrameRead, Src: []string{stateAwaitingFrame}, Dst: stateDecoding},
			{Name: eventDecoded, Src: []string{stateDecoding}, Dst: stateDispatching},
			{Name: eventDecodeFailed, Src: []string{stateDecoding}, Dst: stateAwaitingFrame},
			{Name: eventResponded, Src: []string{stateDispatching}, Dst: stateAwaitingFrame},
			{Name: eventClose, Src: []string{stateAwaitingFrame, stateDecoding,
				stateDispatching}, Dst: stateClosed},
		},
		fsm.Callbacks{
			"enter_" + stateClosed: func(_ context.Context, e *fsm.Event) {
				logger.Debugf("client %v closed from state %v", id, e.Src)
			},
		},
	)
	return client
}

func (c *Client) Start() {
	go c.Read()
}

func (c *Client) Stop() {
	c.socket.Close()
}

func (c *Client) Read() {
	ctx := context.Background()
	for {
		msgType, payload, err := protocol.ReadFrame(c.reader)
		if err == protocol.ErrUnknownMessageType {
			// The payload was consumed, so the stream is still aligned.
			logger.Warnf("client %v sent unknown message type %v", c.id, msgType)
			if c.Write(protocol.ErrorResponse("unknown message type %d", msgType)) != nil {
				break
			}
			continue
		}
		if err != nil {
			if err == io.EOF {
				logger.Infof("client %v disconnected", c.id)
			} else {
				logger.Warnf("client %v read failed: %v", c.id, err)
			}
			break
		}
		c.lifecycle.Event(ctx, eventFrameRead)

		command, err := protocol.DecodeCommand(msgType, payload)
		if err != nil {
			logger.Warnf("client %v sent undecodable payload: %v", c.id, err)
			c.lifecycle.Event(ctx, eventDecodeFailed)
			if c.Write(protocol.ErrorResponse("%v", err)) != nil {
				break
			}
			continue
		}
		c.lifecycle.Event(ctx, eventDecoded)

		response := c.dispatcher.Submit(command)
		if c.Write(response) != nil {
			break
		}
		c.lifecycle.Event(ctx, eventResponded)
	}
	c.lifecycle.Event(ctx, eventClose)
	c.manager.Stop(c.id)
}

func (c *Client) Write(response *protocol.Response) error {
	if err := protocol.WriteMessage(c.writer, response); err != nil {
		logger.Warnf("client %v write failed: %v", c.id, err)
		return err
	}
	return c.writer.Flush()
}
