// Package client implements the Go API for a memkv server. A Client
// wraps one connection; calls send a single command frame and block
// until its response frame arrives. A Client is not safe for use from
// multiple goroutines at once.
package client

import (
	"bufio"
	"fmt"
	"net"

	"github.com/memkv/memkv/protocol"
)

type Client struct {
	addr   string
	socket net.Conn
	reader *bufio.Reader
}

func New(addr string) *Client {
	return &Client{addr: addr}
}

func (c *Client) Connect() error {
	if c.socket != nil {
		return nil
	}
	socket, err := net.Dial("tcp", c.addr)
	if err != nil {
		return err
	}
	c.socket = socket
	c.reader = bufio.NewReader(socket)
	return nil
}

func (c *Client) Close() {
	if c.socket != nil {
		c.socket.Close()
		c.socket = nil
		c.reader = nil
	}
}

// Get returns the stored values for the requested keys; keys not in
// the store are simply absent from the result.
func (c *Client) Get(keys []string) (map[string][]byte, error) {
	response, err := c.execute(&protocol.GetCommand{Keys: keys})
	if err != nil {
		return nil, err
	}
	values := make(map[string][]byte, len(response.KVList))
	for _, kv := range response.KVList {
		values[kv.Key] = kv.Value
	}
	return values, nil
}

// Set writes every pair and returns the keys the server reports as
// updated.
func (c *Client) Set(keyValues map[string][]byte) ([]string, error) {
	kvs := make([]protocol.KeyValue, 0, len(keyValues))
	for key, value := range keyValues {
		kvs = append(kvs, protocol.KeyValue{Key: key, Value: value})
	}
	response, err := c.execute(&protocol.SetCommand{KeyValues: kvs})
	if err != nil {
		return nil, err
	}
	return response.KeyList, nil
}

// Delete removes the given keys and returns the keys that actually
// existed; the rest had nothing to remove.
func (c *Client) Delete(keys []string) ([]string, error) {
	response, err := c.execute(&protocol.DeleteCommand{Keys: keys})
	if err != nil {
		return nil, err
	}
	return response.KeyList, nil
}

func (c *Client) Metrics(cmd *protocol.MetricsCommand) (*protocol.MetricsResponse, error) {
	response, err := c.execute(cmd)
	if err != nil {
		return nil, err
	}
	if response.Metrics == nil {
		return nil, fmt.Errorf("client: response carried no metrics")
	}
	return response.Metrics, nil
}

func (c *Client) execute(command interface{}) (*protocol.Response, error) {
	if err := c.Connect(); err != nil {
		return nil, err
	}
	if err := protocol.WriteMessage(c.socket, command); err != nil {
		c.Close()
		return nil, err
	}
	msgType, payload, err := protocol.ReadFrame(c.reader)
	if err != nil {
		c.Close()
		return nil, err
	}
	if msgType != protocol.ResponseMessage {
		c.Close()
		return nil, fmt.Errorf("client: expected response frame, got type %d", msgType)
	}
	response, err := protocol.DecodeResponse(payload)
	if err != nil {
		c.Close()
		return nil, err
	}
	if response.Status != protocol.StatusOK {
		return nil, fmt.Errorf("client: server error: %s", response.Message)
	}
	return response, nil
}
