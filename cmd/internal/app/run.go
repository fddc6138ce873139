package app

import (
	"context"
	"flag"
	"os/signal"
	"syscall"
)

// Run is the CLI entrypoint used by cmd/vrme.
// It returns an error instead of calling os.Exit to keep defers effective.
func Run(args []string) error {
	fs := flag.NewFlagSet("vrme", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML config file (overrides $"+EnvConfigPath+")")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		return err
	}
	log := NewLogger(cfg.Log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := New(ctx, cfg, log)
	if err != nil {
		return err
	}

	return a.Run(ctx)
}
