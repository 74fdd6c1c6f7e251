package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskflow/internal/config"
	"github.com/felixgeelhaar/taskflow/internal/errors"
	"github.com/felixgeelhaar/taskflow/internal/log"
)

// CommandContext carries the persistent flags of one invocation.
type CommandContext struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string
	NoColor    bool

	Out io.Writer
	Err io.Writer
}

// NewCommandContext reads the persistent flags from cmd.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	flags := cmd.Flags()

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}
	logLevel, err := flags.GetString("log-level")
	if err != nil {
		return nil, err
	}
	logFormat, err := flags.GetString("log-format")
	if err != nil {
		return nil, err
	}
	noColor, err := flags.GetBool("no-color")
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		ConfigPath: configPath,
		LogLevel:   logLevel,
		LogFormat:  logFormat,
		NoColor:    noColor,
		Out:        cmd.OutOrStdout(),
		Err:        cmd.ErrOrStderr(),
	}, nil
}

// LoadConfig loads the configuration file and applies flag overrides. It
// does not validate.
func (c *CommandContext) LoadConfig() (config.Config, error) {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return cfg, err
	}
	if c.LogLevel != "" {
		cfg.Log.Level = c.LogLevel
	}
	if c.LogFormat != "" {
		cfg.Log.Format = c.LogFormat
	}
	return cfg, nil
}

// Logger builds the logger described by cfg, writing to stderr, and makes
// it the process default.
func (c *CommandContext) Logger(cfg config.LogConfig, serviceVersion string) (*log.Logger, error) {
	logCfg, err := log.ConfigFrom(cfg.Level, cfg.Format, c.Err)
	if err != nil {
		return nil, errors.NewConfigInvalidError(err.Error())
	}
	logCfg.ServiceVersion = serviceVersion

	logger := log.New(logCfg)
	log.SetDefaultLogger(logger)
	return logger, nil
}
