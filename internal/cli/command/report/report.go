package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Tomas-vilte/sonar-report/internal/cli/flags"
	"github.com/Tomas-vilte/sonar-report/internal/cli/registry"
	"github.com/Tomas-vilte/sonar-report/internal/config"
	"github.com/Tomas-vilte/sonar-report/internal/domain/models"
	"github.com/Tomas-vilte/sonar-report/internal/domain/ports"
	domainErrors "github.com/Tomas-vilte/sonar-report/internal/errors"
	"github.com/Tomas-vilte/sonar-report/internal/i18n"
	"github.com/Tomas-vilte/sonar-report/internal/logger"
	"github.com/urfave/cli/v3"
)

// ServiceProvider builds the report service once the configuration is known.
type ServiceProvider func(cfg *config.Config, t *i18n.Translations) (ports.ReportService, error)

type ReportCommandFactory struct {
	provider ServiceProvider
	out      io.Writer
}

func NewReportCommandFactory(provider ServiceProvider) *ReportCommandFactory {
	return &ReportCommandFactory{
		provider: provider,
		out:      os.Stdout,
	}
}

// WithOutput redirects the report output, stdout by default.
func (f *ReportCommandFactory) WithOutput(w io.Writer) *ReportCommandFactory {
	f.out = w
	return f
}

// Action runs the report for <project> <branch> <recipient-email>.
//
// Fetch, render and configuration problems are returned. A delivery failure
// is printed and only returned when --fail-on-mail-error is set.
func (f *ReportCommandFactory) Action(t *i18n.Translations, load registry.ConfigLoader) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		flags.SetupLogger(cmd)

		args := cmd.Args().Slice()
		if len(args) != 3 {
			return domainErrors.ErrInvalidArgs.WithContext("detail", fmt.Sprintf("got %d argument(s)", len(args)))
		}
		req := models.ReportRequest{
			Project:   args[0],
			Branch:    args[1],
			Recipient: args[2],
			DryRun:    cmd.Bool(flags.DryRun),
		}

		cfg, err := load(ctx, cmd)
		if err != nil {
			return err
		}
		if err := cfg.Validate(!req.DryRun); err != nil {
			return err
		}
		if err := t.SetLanguage(cfg.Language); err != nil {
			return domainErrors.ErrLanguageUnsupported.WithError(err).WithContext("detail", cfg.Language)
		}

		svc, err := f.provider(cfg, t)
		if err != nil {
			return err
		}

		start := time.Now()
		outcome, err := svc.Run(ctx, req)
		if err != nil {
			return err
		}
		logger.Info(ctx, "report finished",
			"project", req.Project,
			"branch", req.Branch,
			"duration_ms", time.Since(start).Milliseconds())

		if outcome.Mail == nil {
			_, _ = fmt.Fprintln(f.out, outcome.HTML)
			return nil
		}

		if outcome.Mail.Sent {
			_, _ = fmt.Fprintln(f.out, t.GetMessage("send_successful", 0, nil))
			return nil
		}

		_, _ = fmt.Fprintln(f.out, t.GetMessage("send_failed", 0, nil))
		if outcome.Mail.Err != nil {
			_, _ = fmt.Fprintln(f.out, t.GetMessage("send_failed_reason", 0, map[string]interface{}{
				"Reason": outcome.Mail.Err.Error(),
			}))
		}

		if cmd.Bool(flags.FailOnMailError) {
			if outcome.Mail.Err != nil {
				return outcome.Mail.Err
			}
			return domainErrors.ErrMailSend
		}
		return nil
	}
}
