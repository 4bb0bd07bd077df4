// Package flags holds the root flags shared by every command and the
// helpers that turn them into a configuration.
package flags

import (
	"context"

	"github.com/Tomas-vilte/sonar-report/internal/config"
	"github.com/Tomas-vilte/sonar-report/internal/i18n"
	"github.com/Tomas-vilte/sonar-report/internal/logger"
	"github.com/urfave/cli/v3"
)

const (
	Config          = "config"
	Lang            = "lang"
	Subject         = "subject"
	DryRun          = "dry-run"
	FailOnMailError = "fail-on-mail-error"
	Pushgateway     = "pushgateway"
	Debug           = "debug"
	Verbose         = "verbose"
)

func RootFlags(t *i18n.Translations) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    Config,
			Aliases: []string{"c"},
			Usage:   t.GetMessage("flag_config_usage", 0, nil),
		},
		&cli.StringFlag{
			Name:  Lang,
			Usage: t.GetMessage("flag_lang_usage", 0, nil),
		},
		&cli.StringFlag{
			Name:  Subject,
			Usage: t.GetMessage("flag_subject_usage", 0, nil),
		},
		&cli.BoolFlag{
			Name:  DryRun,
			Usage: t.GetMessage("flag_dry_run_usage", 0, nil),
		},
		&cli.BoolFlag{
			Name:  FailOnMailError,
			Usage: t.GetMessage("flag_fail_on_mail_error_usage", 0, nil),
		},
		&cli.StringFlag{
			Name:  Pushgateway,
			Usage: t.GetMessage("flag_pushgateway_usage", 0, nil),
		},
		&cli.BoolFlag{
			Name:  Debug,
			Usage: t.GetMessage("flag_debug_usage", 0, nil),
		},
		&cli.BoolFlag{
			Name:  Verbose,
			Usage: t.GetMessage("flag_verbose_usage", 0, nil),
		},
	}
}

// ConfigPath returns the --config value or the default location.
func ConfigPath(cmd *cli.Command) (string, error) {
	if p := cmd.String(Config); p != "" {
		return p, nil
	}
	return config.DefaultPath()
}

// LoadConfig reads the config file and environment, then applies the
// command line overrides, which win over both.
func LoadConfig(ctx context.Context, cmd *cli.Command) (*config.Config, error) {
	path, err := ConfigPath(cmd)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	if v := cmd.String(Lang); v != "" {
		cfg.Language = v
	}
	if v := cmd.String(Subject); v != "" {
		cfg.Mail.Subject = v
	}
	if v := cmd.String(Pushgateway); v != "" {
		cfg.Metrics.Pushgateway = v
	}

	logger.Debug(ctx, "configuration loaded", "path", cfg.PathFile, "lang", cfg.Language)
	return cfg, nil
}

// SetupLogger installs the default logger from --debug and --verbose.
func SetupLogger(cmd *cli.Command) {
	logger.Initialize(cmd.Bool(Debug), cmd.Bool(Verbose))
}
