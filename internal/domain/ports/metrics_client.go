package ports

import "context"

// MetricsClient fetches the raw measures of one project/branch from the
// quality server.
type MetricsClient interface {
	GetMeasures(ctx context.Context, project, branch string) (map[string]string, error)
}
