package ports

import (
	"context"

	"github.com/Tomas-vilte/sonar-report/internal/domain/models"
)

type ReportService interface {
	Run(ctx context.Context, req models.ReportRequest) (*models.ReportOutcome, error)
}
