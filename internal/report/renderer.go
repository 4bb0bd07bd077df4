// Package report renders the quality summary email body.
package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"html"
	"html/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/Tomas-vilte/sonar-report/internal/domain/models"
	domainErrors "github.com/Tomas-vilte/sonar-report/internal/errors"
	"github.com/Tomas-vilte/sonar-report/internal/i18n"
)

//go:embed templates/report.html
var reportTemplateRaw string

// Renderer turns a ReportContext into HTML. Output only depends on its
// input and the translations it was built with.
type Renderer struct {
	tmpl *template.Template
	t    *i18n.Translations
}

type view struct {
	models.ReportContext
	Lang          string
	DashboardLink template.HTML
}

func NewRenderer(t *i18n.Translations) (*Renderer, error) {
	funcs := sprig.HtmlFuncMap()
	funcs["t"] = func(id string) string {
		return t.GetMessage(id, 0, nil)
	}
	funcs["tf"] = func(id string, kv ...string) string {
		data := make(map[string]interface{}, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			data[kv[i]] = kv[i+1]
		}
		return t.GetMessage(id, 0, data)
	}
	funcs["rating"] = models.RatingLetter

	tmpl, err := template.New("report").Funcs(funcs).Parse(reportTemplateRaw)
	if err != nil {
		return nil, domainErrors.ErrRenderReport.WithError(err)
	}

	return &Renderer{tmpl: tmpl, t: t}, nil
}

// Render produces the HTML body. A nil Measures is rejected before any
// template work.
func (r *Renderer) Render(rc models.ReportContext) (string, error) {
	if rc.Measures == nil {
		return "", domainErrors.ErrMissingMetrics.WithContext("detail", "no measures")
	}

	v := view{
		ReportContext: rc,
		Lang:          r.t.Language(),
		DashboardLink: dashboardLink(rc.DashboardURL),
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, v); err != nil {
		return "", domainErrors.ErrRenderReport.WithError(err)
	}
	return buf.String(), nil
}

// dashboardLink builds the anchor by hand so "&" between query parameters
// stays literal; every other special character is escaped.
func dashboardLink(u string) template.HTML {
	escaped := html.EscapeString(u)
	escaped = unescapeAmpersands(escaped)
	return template.HTML(fmt.Sprintf(`<a style="font-weight:bold;" href="%s">%s</a>`, escaped, escaped))
}

// unescapeAmpersands turns "&amp;" back into "&" when it separates query
// parameters ("&name="), leaving any other escaped ampersand alone.
func unescapeAmpersands(s string) string {
	var out bytes.Buffer
	const amp = "&amp;"
	for i := 0; i < len(s); {
		if i+len(amp) <= len(s) && s[i:i+len(amp)] == amp && isQueryParam(s[i+len(amp):]) {
			out.WriteByte('&')
			i += len(amp)
			continue
		}
		out.WriteByte(s[i])
		i++
	}
	return out.String()
}

func isQueryParam(rest string) bool {
	for i := 0; i < len(rest); i++ {
		c := rest[i]
		switch {
		case c == '=':
			return i > 0
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
			continue
		default:
			return false
		}
	}
	return false
}
