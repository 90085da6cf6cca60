// Package config loads the server configuration from a YAML file.
package config

import (
	"net"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// NumWorkers and QueueSize bound the dispatcher: at most NumWorkers
	// commands execute at once, at most QueueSize more wait in line.
	NumWorkers int `yaml:"num_workers"`
	QueueSize  int `yaml:"queue_size"`

	// AcceptRate/AcceptBurst throttle connection attempts per client
	// IP. A non-positive rate disables the limiter.
	AcceptRate  float64 `yaml:"accept_rate"`
	AcceptBurst int     `yaml:"accept_burst"`

	// StatsInterval controls the periodic latency log; zero disables
	// it. LatencyWindow is the sample window size.
	StatsInterval time.Duration `yaml:"stats_interval"`
	LatencyWindow int           `yaml:"latency_window"`
}

func DefaultConfig() Config {
	return Config{
		Host:          "127.0.0.1",
		Port:          9001,
		NumWorkers:    10,
		QueueSize:     64,
		AcceptRate:    0,
		AcceptBurst:   32,
		StatsInterval: 0,
		LatencyWindow: 1024,
	}
}

func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
