package errors

import "fmt"

// ErrorType defines the category of the error
type ErrorType string

const (
	TypeConfiguration ErrorType = "CONFIGURATION"
	TypeSonar         ErrorType = "SONAR"
	TypeReport        ErrorType = "REPORT"
	TypeMail          ErrorType = "MAIL"
	TypeInternal      ErrorType = "INTERNAL"
)

// AppError represents a domain-level error with a type and an underlying error
type AppError struct {
	Type       ErrorType
	Message    string
	Context    map[string]interface{}
	Err        error
	Suggestion string
}

func (e *AppError) Error() string {
	var msg string
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Type, e.Message)
	}

	if e.Context != nil {
		if detail, ok := e.Context["detail"].(string); ok && detail != "" {
			msg += fmt.Sprintf(" - %s", detail)
		}
	}

	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError of the same type and message, so
// sentinels keep matching after WithError/WithContext copies.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

// WithError creates a new AppError with an underlying error
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        err,
		Suggestion: e.Suggestion,
	}
}

// WithContext creates a new AppError with additional context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	ctx := make(map[string]interface{})
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    ctx,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

func (e *AppError) WithSuggestion(suggestion string) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: suggestion,
	}
}

// NewAppError creates a new AppError
func NewAppError(t ErrorType, msg string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: msg,
		Err:     err,
	}
}

// Configuration errors
var (
	ErrInvalidArgs = NewAppError(TypeConfiguration, "Expected exactly three arguments: <project> <branch> <recipient-email>", nil).
			WithSuggestion("Run: sonar-report my-app main dev@example.com")

	ErrConfigRead = NewAppError(TypeConfiguration, "Failed to read configuration file", nil).
			WithSuggestion("Check the file is valid TOML: sonar-report config show")

	ErrConfigWrite = NewAppError(TypeConfiguration, "Failed to write configuration file", nil).
			WithSuggestion("Check you have write permissions on the config directory")

	ErrSonarURLMissing = NewAppError(TypeConfiguration, "SonarQube URL is missing", nil).
				WithSuggestion("Set [sonar] url in the config file or export SONAR_URL")

	ErrSonarURLInvalid = NewAppError(TypeConfiguration, "SonarQube URL must be an absolute http(s) URL", nil).
				WithSuggestion("Use a URL like https://sonarqube.example.com")

	ErrSonarCredentialsMissing = NewAppError(TypeConfiguration, "SonarQube credentials are missing", nil).
					WithSuggestion("Set SONAR_TOKEN, or SONAR_USERNAME and SONAR_PASSWORD")

	ErrMailHostMissing = NewAppError(TypeConfiguration, "SMTP host is missing", nil).
				WithSuggestion("Set [mail] host in the config file or export SMTP_HOST")

	ErrMailFromMissing = NewAppError(TypeConfiguration, "Sender address is missing", nil).
				WithSuggestion("Set [mail] from in the config file or export MAIL_FROM")

	ErrMailPortInvalid = NewAppError(TypeConfiguration, "SMTP port must be between 1 and 65535", nil).
				WithSuggestion("SMTPS usually listens on port 465")

	ErrLanguageUnsupported = NewAppError(TypeConfiguration, "Language not supported", nil).
				WithSuggestion("Supported languages: en, zh")
)

// SonarQube errors
var (
	ErrSonarRequest = NewAppError(TypeSonar, "Request to SonarQube failed", nil).
			WithSuggestion("Check the server is reachable from this runner")

	ErrSonarAuth = NewAppError(TypeSonar, "SonarQube rejected the credentials", nil).
			WithSuggestion("Verify SONAR_USERNAME/SONAR_PASSWORD or generate a new token in My Account > Security")

	ErrSonarNotFound = NewAppError(TypeSonar, "Project or branch not found on SonarQube", nil).
				WithSuggestion("Make sure the analysis ran for this branch before sending the report")

	ErrSonarUnexpectedStatus = NewAppError(TypeSonar, "Unexpected response from SonarQube", nil)

	ErrSonarDecode = NewAppError(TypeSonar, "Failed to decode SonarQube response", nil)
)

// Report errors
var (
	ErrMissingMetrics = NewAppError(TypeReport, "Required metrics are missing from the analysis", nil).
				WithSuggestion("Re-run the analysis so every measure is computed for the branch")

	ErrRenderReport = NewAppError(TypeReport, "Failed to render the HTML report", nil)
)

// Mail errors
var (
	ErrMailNoRecipients = NewAppError(TypeMail, "No recipients given", nil)

	ErrMailSend = NewAppError(TypeMail, "Failed to send", nil).
			WithSuggestion("Check SMTP host, port and credentials")
)

var (
	ErrMetricsPush = NewAppError(TypeInternal, "Failed to push metrics to the Pushgateway", nil)
)
