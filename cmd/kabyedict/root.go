package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lehmann314159/kabyedict/internal/config"
	"github.com/lehmann314159/kabyedict/internal/repository"
	"github.com/lehmann314159/kabyedict/internal/services"
)

type rootOptions struct {
	configFile string
	backend    string
	port       int
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "kabyedict",
		Short:        "Crowdsourced Kabyè-French dictionary",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.backend, "backend", "", "storage backend: memory, kv, file or sqlite")
	cmd.PersistentFlags().IntVar(&opts.port, "port", 0, "HTTP port (overrides config and PORT)")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newExportCmd(opts))

	return cmd
}

// loadConfig applies the command line overrides on top of the loaded configuration
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.backend != "" {
		cfg.Storage.Backend = o.backend
	}
	if o.port != 0 {
		cfg.Server.Port = o.port
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// app holds what every command needs once configuration is resolved
type app struct {
	cfg    *config.Config
	logger *logrus.Logger
	dict   *services.DictionaryService
	close  func() error
}

func (o *rootOptions) newApp() (*app, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := config.NewLogger(cfg, os.Stderr)
	if err != nil {
		return nil, err
	}

	store, closeStore, err := repository.Open(cfg.StorageOptions(), logger)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	logger.WithField("backend", cfg.Storage.Backend).Info("storage ready")

	return &app{
		cfg:    cfg,
		logger: logger,
		dict:   services.NewDictionaryService(store),
		close:  closeStore,
	}, nil
}
