package models

import (
	"sort"
	"strings"

	domainErrors "github.com/Tomas-vilte/sonar-report/internal/errors"
)

// Metric keys requested from the measures API.
const (
	MetricCodeSmells             = "code_smells"
	MetricBugs                   = "bugs"
	MetricCoverage               = "coverage"
	MetricDuplicatedLinesDensity = "duplicated_lines_density"
	MetricLines                  = "ncloc"
	MetricSecurityRating         = "security_rating"
	MetricReliabilityRating      = "reliability_rating"
	MetricVulnerabilities        = "vulnerabilities"
	MetricCommentLinesDensity    = "comment_lines_density"
	MetricLanguageDistribution   = "ncloc_language_distribution"
	MetricQualityGate            = "alert_status"
	MetricMaintainabilityRating  = "sqale_rating"
)

// MetricKeys is the fixed list sent as metricKeys, in request order.
var MetricKeys = []string{
	MetricCodeSmells,
	MetricBugs,
	MetricCoverage,
	MetricDuplicatedLinesDensity,
	MetricLines,
	MetricSecurityRating,
	MetricReliabilityRating,
	MetricVulnerabilities,
	MetricCommentLinesDensity,
	MetricLanguageDistribution,
	MetricQualityGate,
	MetricMaintainabilityRating,
}

// RequiredMetrics must all be present before a report can be rendered.
// Coverage and the quality gate are not computed for every project, so
// they are optional.
var RequiredMetrics = []string{
	MetricLines,
	MetricBugs,
	MetricVulnerabilities,
	MetricCodeSmells,
	MetricLanguageDistribution,
	MetricDuplicatedLinesDensity,
	MetricReliabilityRating,
	MetricSecurityRating,
	MetricCommentLinesDensity,
	MetricMaintainabilityRating,
}

// Measures holds one analysis snapshot. Values are kept as the server
// returned them.
type Measures struct {
	Lines                  string
	Bugs                   string
	Vulnerabilities        string
	CodeSmells             string
	LanguageDistribution   string
	DuplicatedLinesDensity string
	ReliabilityRating      string
	SecurityRating         string
	CommentLinesDensity    string
	MaintainabilityRating  string

	Coverage    string
	QualityGate string
}

// NewMeasures builds Measures from the flat metric->value mapping. Every
// missing required key is reported at once, sorted.
func NewMeasures(values map[string]string) (*Measures, error) {
	var missing []string
	for _, key := range RequiredMetrics {
		if _, ok := values[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, domainErrors.ErrMissingMetrics.
			WithContext("detail", strings.Join(missing, ", ")).
			WithContext("missing", missing)
	}

	return &Measures{
		Lines:                  values[MetricLines],
		Bugs:                   values[MetricBugs],
		Vulnerabilities:        values[MetricVulnerabilities],
		CodeSmells:             values[MetricCodeSmells],
		LanguageDistribution:   values[MetricLanguageDistribution],
		DuplicatedLinesDensity: values[MetricDuplicatedLinesDensity],
		ReliabilityRating:      values[MetricReliabilityRating],
		SecurityRating:         values[MetricSecurityRating],
		CommentLinesDensity:    values[MetricCommentLinesDensity],
		MaintainabilityRating:  values[MetricMaintainabilityRating],
		Coverage:               values[MetricCoverage],
		QualityGate:            values[MetricQualityGate],
	}, nil
}

// Values returns the measures keyed by metric name, optional ones only
// when set.
func (m *Measures) Values() map[string]string {
	values := map[string]string{
		MetricLines:                  m.Lines,
		MetricBugs:                   m.Bugs,
		MetricVulnerabilities:        m.Vulnerabilities,
		MetricCodeSmells:             m.CodeSmells,
		MetricLanguageDistribution:   m.LanguageDistribution,
		MetricDuplicatedLinesDensity: m.DuplicatedLinesDensity,
		MetricReliabilityRating:      m.ReliabilityRating,
		MetricSecurityRating:         m.SecurityRating,
		MetricCommentLinesDensity:    m.CommentLinesDensity,
		MetricMaintainabilityRating:  m.MaintainabilityRating,
	}
	if m.Coverage != "" {
		values[MetricCoverage] = m.Coverage
	}
	if m.QualityGate != "" {
		values[MetricQualityGate] = m.QualityGate
	}
	return values
}

// RatingLetter maps SonarQube's numeric ratings ("1.0".."5.0") to A..E.
// Anything else is returned unchanged.
func RatingLetter(value string) string {
	switch strings.TrimSpace(value) {
	case "1", "1.0":
		return "A"
	case "2", "2.0":
		return "B"
	case "3", "3.0":
		return "C"
	case "4", "4.0":
		return "D"
	case "5", "5.0":
		return "E"
	default:
		return value
	}
}
