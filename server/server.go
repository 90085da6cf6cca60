// Package server wires the memkv pieces together: a TCP acceptor that
// spawns one connection handler per client, and a bounded dispatcher
// pool that executes commands against the shared store. The acceptor
// never touches the store and never blocks on command execution.
package server

import (
	"errors"
	"net"
	"sync"
	"time"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/memkv/memkv/config"
	"github.com/memkv/memkv/kvstore"
)

type Server struct {
	store      *kvstore.Store
	dispatcher *Dispatcher
	manager    *ClientManager
	limiter    *ipRateLimiter
	latency    *LatencyQueue
	cfg        config.Config
	mu         sync.Mutex
	listener   net.Listener
	done       chan struct{}
}

func NewServer(cfg config.Config) *Server {
	store := kvstore.NewStore()
	latency := NewLatencyQueue(cfg.LatencyWindow)
	dispatcher := NewDispatcher(store, cfg.NumWorkers, cfg.QueueSize, latency)
	return &Server{
		store:      store,
		dispatcher: dispatcher,
		manager:    NewClientManager(dispatcher),
		limiter:    newIPRateLimiter(rate.Limit(cfg.AcceptRate), cfg.AcceptBurst),
		latency:    latency,
		cfg:        cfg,
		done:       make(chan struct{}),
	}
}

// Start binds the listener and runs the accept loop until Stop is
// called. It blocks for the lifetime of the server.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()
	logger.Infof("memkv server listening on %v", listener.Addr())

	if s.cfg.StatsInterval > 0 {
		go s.statsLoop()
	}
	s.AcceptClients()
	return nil
}

func (s *Server) Stop() {
	close(s.done)
	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()
	if listener != nil {
		listener.Close()
	}
	s.manager.StopAll()
	s.dispatcher.Stop()
	logger.Info("memkv server stopped")
}

// Addr reports the bound listen address, empty before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) AcceptClients() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			logger.Errorf("accept failed: %v", err)
			continue
		}
		if ip, _, err := net.SplitHostPort(conn.RemoteAddr().String()); err == nil {
			if !s.limiter.allow(ip) {
				logger.Warnf("dropping connection from %v: rate limit", ip)
				conn.Close()
				continue
			}
		}
		s.manager.Start(conn)
	}
}

func (s *Server) statsLoop() {
	ticker := time.NewTicker(s.cfg.StatsInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			if s.latency.Len() == 0 {
				continue
			}
			p := s.latency.Percentiles(50, 99)
			logger.Infof("command latency us: mean=%.1f p50=%.1f p99=%.1f over %v samples",
				s.latency.Mean(), p[0], p[1], s.latency.Len())
		}
	}
}
