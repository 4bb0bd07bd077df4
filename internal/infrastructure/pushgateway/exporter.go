// Package pushgateway publishes analysis measures to a Prometheus
// Pushgateway so CI runs can be graphed over time.
package pushgateway

import (
	"context"
	"strconv"
	"strings"

	"github.com/Tomas-vilte/sonar-report/internal/domain/models"
	domainErrors "github.com/Tomas-vilte/sonar-report/internal/errors"
	"github.com/Tomas-vilte/sonar-report/internal/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

type Exporter struct {
	url    string
	job    string
	client push.HTTPDoer
}

// NewExporter returns an exporter for the gateway at url. client may be nil
// to use http.DefaultClient.
func NewExporter(url, job string, client push.HTTPDoer) *Exporter {
	return &Exporter{url: url, job: job, client: client}
}

// Export replaces the project/branch group on the gateway with the current
// measures.
func (e *Exporter) Export(ctx context.Context, project, branch string, measures *models.Measures) error {
	reg := NewRegistry(measures)

	pusher := push.New(e.url, e.job).
		Gatherer(reg).
		Grouping("project", project).
		Grouping("branch", branch)
	if e.client != nil {
		pusher = pusher.Client(e.client)
	}

	if err := pusher.PushContext(ctx); err != nil {
		return domainErrors.ErrMetricsPush.WithError(err).WithContext("detail", e.url)
	}
	logger.Info(ctx, "measures pushed", "url", e.url, "job", e.job)
	return nil
}

// NewRegistry builds a registry holding one gauge sample per numeric
// measure. Ratings are exported as 1 (A) to 5 (E); non numeric values such
// as the language distribution are skipped.
func NewRegistry(measures *models.Measures) *prometheus.Registry {
	measure := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "sonar",
		Name:      "measure",
		Help:      "Value of a SonarQube measure for the analysed branch",
	}, []string{"metric"})
	gate := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sonar",
		Name:      "quality_gate_passed",
		Help:      "1 when the quality gate status is OK, 0 otherwise",
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(measure)

	for metric, value := range measures.Values() {
		if v, ok := numeric(value); ok {
			measure.WithLabelValues(metric).Set(v)
		}
	}

	if measures.QualityGate != "" {
		reg.MustRegister(gate)
		if strings.EqualFold(measures.QualityGate, "OK") {
			gate.Set(1)
		} else {
			gate.Set(0)
		}
	}

	return reg
}

func numeric(value string) (float64, bool) {
	if v, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
		return v, true
	}
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "A":
		return 1, true
	case "B":
		return 2, true
	case "C":
		return 3, true
	case "D":
		return 4, true
	case "E":
		return 5, true
	}
	return 0, false
}
