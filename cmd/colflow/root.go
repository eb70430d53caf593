package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vegasq/colflow/internal/config"
	"github.com/vegasq/colflow/internal/logging"
)

// globalOptions are the flags shared by every command.
type globalOptions struct {
	configPath string
	logLevel   string
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:           "colflow",
		Short:         "Run column pipelines over CSV, TSV and parquet files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "TOML configuration file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level, overriding the configuration")

	cmd.AddCommand(runCommand(opts), schemaCommand(opts), verbsCommand())
	return cmd
}

// load reads the configuration and builds the logger. The returned
// function must be called once the command is done.
func (o *globalOptions) load() (config.Config, *zap.Logger, func(), error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return cfg, nil, nil, err
		}
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}

	logger, cleanup, err := logging.New(cfg.Log)
	if err != nil {
		return cfg, nil, nil, err
	}
	return cfg, logger, cleanup, nil
}
