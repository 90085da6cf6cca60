package server

import (
	"net"
	"sync"

	logger "github.com/sirupsen/logrus"
)

// ClientManager tracks the live connection handlers so the server can
// tear them all down on shutdown.
type ClientManager struct {
	dispatcher *Dispatcher
	mu         sync.Mutex
	nextId     int64
	clients    map[int64]*Client
}

func NewClientManager(dispatcher *Dispatcher) *ClientManager {
	return &ClientManager{
		dispatcher: dispatcher,
		clients:    make(map[int64]*Client),
	}
}

func (cm *ClientManager) Start(socket net.Conn) {
	cm.mu.Lock()
	id := cm.nextId
	cm.nextId++
	client := NewClient(id, socket, cm.dispatcher, cm)
	cm.clients[id] = client
	cm.mu.Unlock()

	logger.Infof("client_manager started client %v from %v", id, socket.RemoteAddr())
	client.Start()
}

func (cm *ClientManager) Get(id int64) *Client {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return cm.clients[id]
}

// Stop is tolerant of repeats: a handler that errors out while the
// server is shutting down may be stopped from both sides.
func (cm *ClientManager) Stop(id int64) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	client, ok := cm.clients[id]
	if !ok {
		return
	}
	logger.Infof("client_manager stopped client %v", id)
	client.Stop()
	delete(cm.clients, id)
}

func (cm *ClientManager) StopAll() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	for id, client := range cm.clients {
		logger.Infof("client_manager stopping client %v", id)
		client.Stop()
		delete(cm.clients, id)
	}
}

func (cm *ClientManager) NumClients() int {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return len(cm.clients)
}
