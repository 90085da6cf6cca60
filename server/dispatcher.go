package server

import (
	"sync"
	"time"

	"github.com/memkv/memkv/kvstore"
	"github.com/memkv/memkv/protocol"
)

type task struct {
	command interface{}
	reply   chan *protocol.Response
}

// Dispatcher bridges the connection handlers and the store: commands
// are queued onto a bounded channel and drained by a fixed pool of
// worker goroutines, so command execution never grows with the number
// of connections. When queue and workers are saturated, Submit blocks.
type Dispatcher struct {
	store   *kvstore.Store
	tasks   chan task
	quit    chan struct{}
	latency *LatencyQueue
	wg      sync.WaitGroup
}

func NewDispatcher(store *kvstore.Store, numWorkers int, queueSize int,
	latency *LatencyQueue) *Dispatcher {
	d := &Dispatcher{
		store:   store,
		tasks:   make(chan task, queueSize),
		quit:    make(chan struct{}),
		latency: latency,
	}
	for i := 0; i < numWorkers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

// Submit queues one command for execution and waits for its response.
// During shutdown it returns an error response instead of blocking.
func (d *Dispatcher) Submit(command interface{}) *protocol.Response {
	t := task{command: command, reply: make(chan *protocol.Response, 1)}
	select {
	case d.tasks <- t:
	case <-d.quit:
		return protocol.ErrorResponse("server shutting down")
	}
	select {
	case response := <-t.reply:
		return response
	case <-d.quit:
		return protocol.ErrorResponse("server shutting down")
	}
}

func (d *Dispatcher) Stop() {
	close(d.quit)
	d.wg.Wait()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for {
		select {
		case t := <-d.tasks:
			start := time.Now()
			response := kvstore.Execute(t.command, d.store)
			if d.latency != nil {
				d.latency.Record(time.Since(start))
			}
			t.reply <- response
		case <-d.quit:
			return
		}
	}
}
