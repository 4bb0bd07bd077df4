package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Tomas-vilte/sonar-report/internal/cli/command/config"
	"github.com/Tomas-vilte/sonar-report/internal/cli/command/report"
	"github.com/Tomas-vilte/sonar-report/internal/cli/completion_helper"
	"github.com/Tomas-vilte/sonar-report/internal/cli/flags"
	"github.com/Tomas-vilte/sonar-report/internal/cli/registry"
	cfg "github.com/Tomas-vilte/sonar-report/internal/config"
	"github.com/Tomas-vilte/sonar-report/internal/domain/ports"
	domainErrors "github.com/Tomas-vilte/sonar-report/internal/errors"
	"github.com/Tomas-vilte/sonar-report/internal/i18n"
	"github.com/Tomas-vilte/sonar-report/internal/infrastructure/di"
	"github.com/Tomas-vilte/sonar-report/internal/ui"
	"github.com/Tomas-vilte/sonar-report/internal/version"
	"github.com/urfave/cli/v3"
)

const (
	exitFatal       = 1
	exitMailFailure = 2
)

func main() {
	translations, err := i18n.NewTranslations(cliLanguage(os.LookupEnv), "")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "could not load translations: %v\n", err)
		os.Exit(exitFatal)
	}

	app, err := initializeApp(translations)
	if err != nil {
		ui.HandleAppError(os.Stderr, err, translations)
		os.Exit(exitFatal)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		code := exitCode(err)
		if code == exitFatal {
			ui.HandleAppError(os.Stderr, err, translations)
		}
		stop()
		os.Exit(code)
	}
}

func initializeApp(translations *i18n.Translations) (*cli.Command, error) {
	provider := func(c *cfg.Config, t *i18n.Translations) (ports.ReportService, error) {
		return di.NewContainer(c, t).GetReportService()
	}
	reportCommand := report.NewReportCommandFactory(provider)

	configCommand := config.NewConfigCommandFactory()
	registerMode := registry.NewRegistry(flags.LoadConfig, translations)

	if err := registerMode.Register(config.ShowSelector, configCommand.Show()); err != nil {
		return nil, err
	}

	if err := registerMode.Register(config.InitSelector, configCommand.Init()); err != nil {
		return nil, err
	}

	modes := registerMode.CreateModes()

	// Positional arguments always belong to the report; other modes are flags.
	return &cli.Command{
		Name:                  "sonar-report",
		Usage:                 translations.GetMessage("app_usage", 0, nil),
		Version:               version.Version,
		Description:           translations.GetMessage("app_description", 0, nil),
		ArgsUsage:             translations.GetMessage("args_usage", 0, nil),
		Flags:                 append(flags.RootFlags(translations), registry.Flags(modes)...),
		Action:                registry.Dispatch(modes, reportCommand.Action(translations, flags.LoadConfig)),
		HideHelpCommand:       true,
		EnableShellCompletion: true,
		ShellComplete:         completion_helper.DefaultFlagComplete,
	}, nil
}

// cliLanguage picks the language for help text before any flag is parsed.
func cliLanguage(lookup func(string) (string, bool)) string {
	if lang, ok := lookup(cfg.EnvLanguage); ok && cfg.IsSupportedLanguage(lang) {
		return lang
	}
	return cfg.LangEN
}

// exitCode maps a run error to the process status. Delivery failures were
// already reported on stdout and get their own status.
func exitCode(err error) int {
	var appErr *domainErrors.AppError
	if errors.As(err, &appErr) && appErr.Type == domainErrors.TypeMail {
		return exitMailFailure
	}
	return exitFatal
}
