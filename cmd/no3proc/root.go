package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-nitrate/internal/config"
	"github.com/cwbudde/algo-nitrate/internal/logging"
)

// app carries state shared by subcommands once the root pre-run has
// loaded the configuration.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg *config.Config
	log *logrus.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:          "no3proc",
		Short:        "Recompute SUNA/ISUS nitrate with corrected bromide absorbance",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "path to the TOML configuration file")
	flags.StringVarP(&a.logLevel, "log-level", "l", "", "log level (trace, debug, info, warn, error); overrides the config file")
	flags.StringVar(&a.logFormat, "log-format", "", "log format (text, json); overrides the config file")

	cmd.AddCommand(
		newProcessCommand(a),
		newCalinfoCommand(a),
		newConfigCommand(),
		newVersionCommand(),
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	level, format := cfg.Logging.Level, cfg.Logging.Format
	if a.logLevel != "" {
		level = a.logLevel
	}
	if a.logFormat != "" {
		format = a.logFormat
	}
	logger, err := logging.New(logging.Options{Level: level, Format: format, Out: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger
	if a.configPath != "" {
		logger.WithField("path", a.configPath).Debug("loaded configuration")
	}
	return nil
}
