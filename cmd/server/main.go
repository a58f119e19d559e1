package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"pixel-art-map/internal/config"
	"pixel-art-map/internal/server"
	"pixel-art-map/internal/sprites"
)

func main() {
	config.LoadEnv()

	app := &cli.App{
		Name:   "pixel-art-map",
		Usage:  "Shared pixel-art sprite editor and map over SSH",
		Flags:  config.ServerFlags(),
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg := config.FromContext(c)
	log, err := config.NewLogger(cfg)
	if err != nil {
		return cli.Exit(err, 1)
	}

	// Generate host key if it doesn't exist
	created, err := server.EnsureHostKey(cfg.HostKey)
	if err != nil {
		return cli.Exit(fmt.Errorf("host key: %w", err), 1)
	}
	if created {
		log.WithField("path", cfg.HostKey).Info("Generated new host key")
	}

	store := sprites.NewStore()
	sshServer := server.NewSSHServer(cfg.Addr, cfg.HostKey, store, log)

	port := cfg.Addr[strings.LastIndex(cfg.Addr, ":")+1:]
	log.Infof("Starting Pixel Art Map, connect with: ssh -p %s YourName@localhost", port)
	if err := sshServer.Start(); err != nil {
		return cli.Exit(fmt.Errorf("ssh server: %w", err), 1)
	}
	return nil
}
