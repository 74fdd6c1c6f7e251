package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskflow/internal/errors"
	"github.com/felixgeelhaar/taskflow/internal/ux"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the taskflow configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with secrets redacted",
		Long: `Print the configuration after defaults, the config file and
environment overrides have been applied. The signing key is redacted.`,
		Args: cobra.NoArgs,
		RunE: runConfigShow,
	}
	show.Flags().String("format", "yaml", "output format: yaml or json")

	validate := &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and report every problem",
		Args:  cobra.NoArgs,
		RunE:  runConfigValidate,
	}

	cmd.AddCommand(show, validate)
	return cmd
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	cfg, err := cc.LoadConfig()
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	if format != "yaml" && format != "json" {
		return errors.New(errors.ErrCodeBadRequest, fmt.Sprintf("unsupported format %q (use yaml or json)", format))
	}
	formatter, err := ux.NewFormatter(format, &ux.FormatterOptions{Writer: cc.Out})
	if err != nil {
		return err
	}
	return formatter.Format(cfg.Redacted())
}

func runConfigValidate(cmd *cobra.Command, _ []string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	cfg, err := cc.LoadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return errors.NewConfigInvalidError(err.Error())
	}

	styles := ux.NewStyles(cc.NoColor)
	_, err = fmt.Fprintln(cc.Out, styles.Success.Render("configuration is valid: "+cc.ConfigPath))
	return err
}
