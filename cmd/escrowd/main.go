// Tuition escrow API daemon.
//
// Usage:
//
//	escrowd    Run the HTTP API server
//
// Configuration comes from the environment (see config package); a .env file
// in the working directory is honored.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Mahesh00234h/installment/config"
	"github.com/Mahesh00234h/installment/internal/api"
	"github.com/Mahesh00234h/installment/internal/chain"
	klog "github.com/Mahesh00234h/installment/internal/log"
)

func main() {
	cfg := config.Load()

	if err := klog.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	gateway, err := chain.New(cfg.NodeURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	klog.Info().Str("node_url", cfg.NodeURL).Msg("connected to node")

	server := api.New(cfg, gateway)
	if err := server.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if err := server.Stop(); err != nil {
		klog.Error().Err(err).Msg("shutdown")
	}
}
