package di

import (
	"github.com/Tomas-vilte/sonar-report/internal/config"
	"github.com/Tomas-vilte/sonar-report/internal/domain/ports"
	"github.com/Tomas-vilte/sonar-report/internal/i18n"
	"github.com/Tomas-vilte/sonar-report/internal/infrastructure/httpclient"
	"github.com/Tomas-vilte/sonar-report/internal/infrastructure/mail"
	"github.com/Tomas-vilte/sonar-report/internal/infrastructure/pushgateway"
	"github.com/Tomas-vilte/sonar-report/internal/infrastructure/sonarqube"
	"github.com/Tomas-vilte/sonar-report/internal/report"
	"github.com/Tomas-vilte/sonar-report/internal/services"
)

// Container wires the report pipeline from a loaded configuration.
type Container struct {
	config       *config.Config
	translations *i18n.Translations
	httpClient   httpclient.HTTPClient

	// lazy initialized
	reportService *services.ReportService
}

func NewContainer(cfg *config.Config, trans *i18n.Translations) *Container {
	return &Container{
		config:       cfg,
		translations: trans,
	}
}

// SetHTTPClient replaces the client used for SonarQube and the Pushgateway.
func (c *Container) SetHTTPClient(client httpclient.HTTPClient) {
	c.httpClient = client
}

func (c *Container) getHTTPClient() httpclient.HTTPClient {
	if c.httpClient == nil {
		c.httpClient = httpclient.New(c.config.Timeout())
	}
	return c.httpClient
}

func (c *Container) GetMetricsClient() ports.MetricsClient {
	return sonarqube.NewClient(c.config.Sonar, c.getHTTPClient())
}

func (c *Container) GetMailSender() ports.MailSender {
	return mail.NewSender(c.config.Mail)
}

// GetExporter returns nil when no Pushgateway is configured.
func (c *Container) GetExporter() ports.MetricsExporter {
	if c.config.Metrics.Pushgateway == "" {
		return nil
	}
	return pushgateway.NewExporter(c.config.Metrics.Pushgateway, c.config.Metrics.Job, c.getHTTPClient())
}

// Subject is the configured subject or the translated default.
func (c *Container) Subject() string {
	if c.config.Mail.Subject != "" {
		return c.config.Mail.Subject
	}
	return c.translations.GetMessage("mail.default_subject", 0, nil)
}

// GetReportService builds the report service (lazy initialization)
func (c *Container) GetReportService() (*services.ReportService, error) {
	if c.reportService != nil {
		return c.reportService, nil
	}

	renderer, err := report.NewRenderer(c.translations)
	if err != nil {
		return nil, err
	}

	opts := []services.ReportOption{
		services.WithMetricsClient(c.GetMetricsClient()),
		services.WithRenderer(renderer),
		services.WithMailSender(c.GetMailSender()),
		services.WithMailSettings(c.config.Sonar.URL, c.config.Mail.From, c.Subject()),
	}
	if exporter := c.GetExporter(); exporter != nil {
		opts = append(opts, services.WithExporter(exporter))
	}

	c.reportService = services.NewReportService(opts...)
	return c.reportService, nil
}
