package config

import (
	"context"
	"io"
	"os"

	"github.com/Tomas-vilte/sonar-report/internal/cli/registry"
	"github.com/Tomas-vilte/sonar-report/internal/config"
	domainErrors "github.com/Tomas-vilte/sonar-report/internal/errors"
	"github.com/Tomas-vilte/sonar-report/internal/i18n"
	"github.com/Tomas-vilte/sonar-report/internal/ui"
	"github.com/urfave/cli/v3"
)

type ShowFactory struct {
	out io.Writer
}

func (s *ShowFactory) CreateMode(t *i18n.Translations, load registry.ConfigLoader) registry.Mode {
	return registry.Mode{
		Selector: ShowSelector,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  ShowSelector,
				Usage: t.GetMessage("config_show_usage", 0, nil),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			cfg, err := load(ctx, command)
			if err != nil {
				return err
			}

			data := map[string]interface{}{"Path": cfg.PathFile}
			if _, err := os.Stat(cfg.PathFile); os.IsNotExist(err) {
				ui.PrintWarning(s.out, t.GetMessage("config_not_found", 0, data))
			} else {
				ui.PrintInfo(s.out, t.GetMessage("config_show_header", 0, data))
			}

			masked := cfg.Masked()
			encoded, err := config.Encode(&masked)
			if err != nil {
				return domainErrors.ErrConfigRead.WithError(err)
			}
			_, err = s.out.Write(encoded)
			return err
		},
	}
}
