package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/arkfall/nexus-server/internal/observability"
	"github.com/arkfall/nexus-server/internal/server"
	"github.com/arkfall/nexus-server/internal/server/config"
	"github.com/arkfall/nexus-server/internal/server/packet"
)

func main() {
	cfg := config.DefaultConfig()

	configPath := flag.String("config", "", "path to TOML config file")
	flag.IntVar(&cfg.Port, "port", cfg.Port, "gateway listen port")
	flag.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "prometheus listen address (empty disables)")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug logging")
	flag.Parse()

	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	if *configPath != "" {
		fromFile, err := config.Load(*configPath)
		if err != nil {
			bootLog := observability.InitLogger("nexus-gateway", false)
			bootLog.Fatal().Err(err).Msg("load config")
		}
		config.Merge(cfg, fromFile, explicit)
	}

	log := observability.InitLogger("nexus-gateway", cfg.Debug)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	// A duplicate opcode means the table itself is broken: refuse to start.
	reg, err := packet.BuildRegistry()
	if err != nil {
		log.Fatal().Err(err).Msg("build opcode registry")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := server.New(cfg, log, reg)
	if err := srv.Start(ctx); err != nil {
		log.Error().Err(err).Msg("gateway error")
		os.Exit(1)
	}
}
