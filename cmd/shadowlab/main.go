// Package main is the entry point for the shadowlab demo.
package main

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/shadowlab/internal/app"
	"github.com/Faultbox/shadowlab/internal/config"
	"github.com/Faultbox/shadowlab/internal/logger"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if path := config.DumpPath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== shadowlab ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		report(os.Stderr, err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("demo closed normally")
}

func run(cfg *config.Config) error {
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return a.Run()
}

// report sends a fatal error to the log and to w.
func report(w io.Writer, err error) {
	logger.Error("demo failed", zap.Error(err))
	fmt.Fprintf(w, "Error: %v\n", err)
}
