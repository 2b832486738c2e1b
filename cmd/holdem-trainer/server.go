package main

import (
	"net"
	"strconv"
	"time"

	"github.com/lox/holdem-trainer/internal/config"
	"github.com/lox/holdem-trainer/internal/server"
)

// ServerCmd runs the websocket table server.
type ServerCmd struct {
	Addr    string        `help:"Listen address (overrides config)"`
	Timeout time.Duration `default:"30s" help:"Remote player action timeout"`
}

func (c *ServerCmd) Run(cli *CLI) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	if c.Addr != "" {
		cfg.Server = serverSettingsFromAddr(c.Addr, cfg)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := setupLogger(cfg, cli.Debug)
	warnDroppedRangeEntries(logger, cfg)

	s := server.New(cfg, logger, nil)
	s.SetActionTimeout(c.Timeout)
	return s.ListenAndServe()
}

func serverSettingsFromAddr(addr string, cfg *config.Config) *config.ServerSettings {
	settings := cfg.Server
	if settings == nil {
		settings = &config.ServerSettings{}
	}
	host, port := splitHostPort(addr)
	if host != "" {
		settings.Address = host
	}
	if port != 0 {
		settings.Port = port
	}
	if settings.Port == 0 {
		settings.Port = 8080
	}
	return settings
}

func splitHostPort(addr string) (string, int) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, 0
	}
	port, _ := strconv.Atoi(portStr)
	return host, port
}
