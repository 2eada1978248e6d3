package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kkumttre/kkumttre"
)

// loadApp parses the shared -config flag plus any command flags registered by
// setup, then builds and initializes the App.
func loadApp(ctx context.Context, name string, args []string, setup func(*flag.FlagSet)) (*kkumttre.App, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	configPath := fs.String("config", kkumttre.EnvOr("KKUMTTRE_CONFIG", ""), "YAML config file")
	if setup != nil {
		setup(fs)
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg, err := kkumttre.LoadConfig(*configPath)
	if err != nil {
		return nil, err
	}
	app := kkumttre.New(cfg)
	if err := app.Init(ctx); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

func runServe(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := loadApp(ctx, "serve", args, nil)
	if err != nil {
		return err
	}
	defer app.Close()

	errc := make(chan error, 1)
	go func() { errc <- app.Start() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	app.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return <-errc
}
