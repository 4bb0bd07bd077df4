package ports

import "github.com/Tomas-vilte/sonar-report/internal/domain/models"

type ReportRenderer interface {
	Render(rc models.ReportContext) (string, error)
}
