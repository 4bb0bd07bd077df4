package config

import (
	"context"
	"io"
	"os"

	"github.com/Tomas-vilte/sonar-report/internal/cli/flags"
	"github.com/Tomas-vilte/sonar-report/internal/cli/registry"
	"github.com/Tomas-vilte/sonar-report/internal/config"
	domainErrors "github.com/Tomas-vilte/sonar-report/internal/errors"
	"github.com/Tomas-vilte/sonar-report/internal/i18n"
	"github.com/Tomas-vilte/sonar-report/internal/ui"
	"github.com/urfave/cli/v3"
)

type InitFactory struct {
	out io.Writer
}

func (i *InitFactory) CreateMode(t *i18n.Translations, _ registry.ConfigLoader) registry.Mode {
	return registry.Mode{
		Selector: InitSelector,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  InitSelector,
				Usage: t.GetMessage("config_init_usage", 0, nil),
			},
			&cli.BoolFlag{
				Name:  forceFlag,
				Usage: t.GetMessage("config_init_force_usage", 0, nil),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			path, err := flags.ConfigPath(command)
			if err != nil {
				return domainErrors.ErrConfigWrite.WithError(err)
			}
			data := map[string]interface{}{"Path": path}

			if _, err := os.Stat(path); err == nil && !command.Bool(forceFlag) {
				msg := t.GetMessage("config_init_exists", 0, data)
				return domainErrors.ErrConfigWrite.WithContext("detail", path).WithSuggestion(msg)
			}

			cfg := config.Default()
			cfg.PathFile = path
			if err := config.SaveConfig(cfg); err != nil {
				return err
			}

			ui.PrintSuccess(i.out, t.GetMessage("config_init_done", 0, data))
			return nil
		},
	}
}
