package models

import "strings"

type (
	// ReportRequest is what a single CLI invocation asks for.
	ReportRequest struct {
		Project   string
		Branch    string
		Recipient string
		DryRun    bool
	}

	// ReportContext is everything the HTML template needs.
	ReportContext struct {
		Project      string
		Branch       string
		Recipient    string
		DashboardURL string
		Measures     *Measures
	}

	// MailMessage is one outbound email.
	MailMessage struct {
		Subject    string
		From       string
		Recipients []string
		HTMLBody   string
	}

	// MailResult is the outcome of a delivery attempt. Err is set when
	// Sent is false.
	MailResult struct {
		Sent       bool
		Recipients []string
		ReportID   string
		Err        error
	}
)

// DashboardURL builds <baseURL>/dashboard?id=<project>&branch=<branch>.
func DashboardURL(baseURL, project, branch string) string {
	return strings.TrimRight(baseURL, "/") + "/dashboard?id=" + project + "&branch=" + branch
}

// ReportOutcome is what a run produced. Mail is nil for dry runs.
type ReportOutcome struct {
	HTML     string
	Measures *Measures
	Mail     *MailResult
}
