package ports

import (
	"context"

	"github.com/Tomas-vilte/sonar-report/internal/domain/models"
)

// MetricsExporter publishes a measures snapshot to an external system.
type MetricsExporter interface {
	Export(ctx context.Context, project, branch string, measures *models.Measures) error
}
