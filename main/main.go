package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	logger "github.com/sirupsen/logrus"

	"github.com/memkv/memkv/config"
	"github.com/memkv/memkv/server"
)

func main() {
	port := flag.Int("p", 0, "override listen port")
	debug := flag.Bool("d", false, "enable debug logging")
	configPath := flag.String("c", "", "config path")
	flag.Parse()

	if *debug {
		logger.SetLevel(logger.DebugLevel)
	} else {
		logger.SetLevel(logger.InfoLevel)
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadConfig(*configPath)
		if err != nil {
			logger.Panic(err)
		}
	}
	if *port != 0 {
		cfg.Port = *port
	}

	srv := server.NewServer(cfg)

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signalChan
		srv.Stop()
	}()

	if err := srv.Start(); err != nil {
		logger.Fatal(err)
	}
}
