package services

import (
	"context"

	"github.com/Tomas-vilte/sonar-report/internal/domain/models"
	"github.com/stretchr/testify/mock"
)

type (
	MockMetricsClient struct {
		mock.Mock
	}

	MockMailSender struct {
		mock.Mock
	}

	MockReportRenderer struct {
		mock.Mock
	}

	MockMetricsExporter struct {
		mock.Mock
	}
)

func (m *MockMetricsClient) GetMeasures(ctx context.Context, project, branch string) (map[string]string, error) {
	args := m.Called(ctx, project, branch)
	values, _ := args.Get(0).(map[string]string)
	return values, args.Error(1)
}

func (m *MockMailSender) Send(ctx context.Context, msg models.MailMessage) models.MailResult {
	args := m.Called(ctx, msg)
	return args.Get(0).(models.MailResult)
}

func (m *MockReportRenderer) Render(rc models.ReportContext) (string, error) {
	args := m.Called(rc)
	return args.String(0), args.Error(1)
}

func (m *MockMetricsExporter) Export(ctx context.Context, project, branch string, measures *models.Measures) error {
	args := m.Called(ctx, project, branch, measures)
	return args.Error(0)
}
