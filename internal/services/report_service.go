package services

import (
	"context"
	"time"

	"github.com/Tomas-vilte/sonar-report/internal/domain/models"
	"github.com/Tomas-vilte/sonar-report/internal/domain/ports"
	domainErrors "github.com/Tomas-vilte/sonar-report/internal/errors"
	"github.com/Tomas-vilte/sonar-report/internal/logger"
)

// ReportService runs fetch -> render -> send for one project/branch.
//
// Errors from fetching or rendering are returned and end the run before any
// mail is attempted. Delivery problems are never returned as errors; they
// are reported in the outcome's Mail field so the caller decides what they mean
// for the exit status.
type ReportService struct {
	metrics  ports.MetricsClient
	renderer ports.ReportRenderer
	sender   ports.MailSender
	exporter ports.MetricsExporter

	baseURL string
	from    string
	subject string
}

type ReportOption func(*ReportService)

func WithMetricsClient(c ports.MetricsClient) ReportOption {
	return func(s *ReportService) {
		s.metrics = c
	}
}

func WithRenderer(r ports.ReportRenderer) ReportOption {
	return func(s *ReportService) {
		s.renderer = r
	}
}

func WithMailSender(m ports.MailSender) ReportOption {
	return func(s *ReportService) {
		s.sender = m
	}
}

// WithExporter enables publishing the measures; nil leaves it disabled.
func WithExporter(e ports.MetricsExporter) ReportOption {
	return func(s *ReportService) {
		s.exporter = e
	}
}

// WithMailSettings sets the dashboard base URL, sender address and subject.
func WithMailSettings(baseURL, from, subject string) ReportOption {
	return func(s *ReportService) {
		s.baseURL = baseURL
		s.from = from
		s.subject = subject
	}
}

func NewReportService(opts ...ReportOption) *ReportService {
	s := &ReportService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate fetches the measures and renders the HTML report.
func (s *ReportService) Generate(ctx context.Context, req models.ReportRequest) (string, *models.Measures, error) {
	if s.metrics == nil || s.renderer == nil {
		return "", nil, domainErrors.NewAppError(domainErrors.TypeInternal, "report service is not fully configured", nil)
	}

	log := logger.FromContext(ctx)
	start := time.Now()

	raw, err := s.metrics.GetMeasures(ctx, req.Project, req.Branch)
	if err != nil {
		return "", nil, err
	}

	measures, err := models.NewMeasures(raw)
	if err != nil {
		log.Error("analysis is incomplete", "error", err)
		return "", nil, err
	}

	html, err := s.renderer.Render(models.ReportContext{
		Project:      req.Project,
		Branch:       req.Branch,
		Recipient:    req.Recipient,
		DashboardURL: models.DashboardURL(s.baseURL, req.Project, req.Branch),
		Measures:     measures,
	})
	if err != nil {
		return "", nil, err
	}

	log.Debug("report rendered",
		"size", len(html),
		"duration_ms", time.Since(start).Milliseconds())
	return html, measures, nil
}

// Run generates the report, optionally exports the measures and, unless
// req.DryRun is set, emails it to req.Recipient.
func (s *ReportService) Run(ctx context.Context, req models.ReportRequest) (*models.ReportOutcome, error) {
	ctx = logger.With(ctx, "project", req.Project, "branch", req.Branch)

	html, measures, err := s.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	outcome := &models.ReportOutcome{HTML: html, Measures: measures}

	if s.exporter != nil {
		if err := s.exporter.Export(ctx, req.Project, req.Branch, measures); err != nil {
			logger.Warn(ctx, "could not export measures", "error", err)
		}
	}

	if req.DryRun {
		logger.Info(ctx, "dry run, mail not sent")
		return outcome, nil
	}

	if s.sender == nil {
		return nil, domainErrors.NewAppError(domainErrors.TypeInternal, "mail sender is not configured", nil)
	}

	result := s.sender.Send(ctx, models.MailMessage{
		Subject:    s.subject,
		From:       s.from,
		Recipients: []string{req.Recipient},
		HTMLBody:   html,
	})
	outcome.Mail = &result
	return outcome, nil
}
