package main

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/urfave/cli/v2"

	"pixel-art-map/internal/config"
	"pixel-art-map/internal/local"
	"pixel-art-map/internal/sprites"
)

func main() {
	config.LoadEnv()

	app := &cli.App{
		Name:   "pixel-art-map-local",
		Usage:  "Pixel-art sprite editor and map in this terminal",
		Flags:  config.LocalFlags(),
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

	screen, err := tcell.NewScreen()
	if err != nil {
		return cli.Exit(fmt.Errorf("create screen: %w", err), 1)
	}
	if err := screen.Init(); err != nil {
		return cli.Exit(fmt.Errorf("init screen: %w", err), 1)
	}
	defer screen.Fini()

	log.Info("Local session started")
	defer log.Info("Local session ended")

	shell := local.New(screen, sprites.NewStore(), log, cfg.Mute)
	if err := shell.Run(); err != nil {
		return cli.Exit(fmt.Errorf("run: %w", err), 1)
	}
	return nil
}
