package sonarqube

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Tomas-vilte/sonar-report/internal/config"
	"github.com/Tomas-vilte/sonar-report/internal/domain/models"
	domainErrors "github.com/Tomas-vilte/sonar-report/internal/errors"
	"github.com/Tomas-vilte/sonar-report/internal/infrastructure/httpclient"
	"github.com/Tomas-vilte/sonar-report/internal/logger"
)

const (
	loginPath    = "/api/authentication/login"
	measuresPath = "/api/measures/component"

	xsrfCookie = "XSRF-TOKEN"
	xsrfHeader = "X-XSRF-TOKEN"
)

// Client talks to the SonarQube web API.
type Client struct {
	baseURL  string
	username string
	password string
	token    string
	client   httpclient.HTTPClient
}

func NewClient(cfg config.SonarConfig, client httpclient.HTTPClient) *Client {
	return &Client{
		baseURL:  strings.TrimRight(cfg.URL, "/"),
		username: cfg.Username,
		password: cfg.Password,
		token:    cfg.Token,
		client:   client,
	}
}

type (
	measuresResponse struct {
		Component struct {
			Key      string    `json:"key"`
			Measures []measure `json:"measures"`
		} `json:"component"`
	}

	measure struct {
		Metric string `json:"metric"`
		Value  string `json:"value"`
	}

	apiErrors struct {
		Errors []struct {
			Msg string `json:"msg"`
		} `json:"errors"`
	}
)

// session carries whatever the login step produced for later requests.
type session struct {
	cookies []*http.Cookie
	xsrf    string
}

// GetMeasures authenticates and returns metric -> value for the fixed
// metric list.
func (c *Client) GetMeasures(ctx context.Context, project, branch string) (map[string]string, error) {
	ctx = logger.With(ctx, "project", project, "branch", branch)

	var sess *session
	if c.token == "" {
		s, err := c.authenticate(ctx)
		if err != nil {
			return nil, err
		}
		sess = s
	}

	query := url.Values{}
	query.Set("component", project)
	query.Set("branch", branch)
	query.Set("additionalFields", "metrics,periods")
	query.Set("metricKeys", strings.Join(models.MetricKeys, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+measuresPath+"?"+query.Encode(), nil)
	if err != nil {
		return nil, domainErrors.ErrSonarRequest.WithError(err)
	}
	req.Header.Set("Accept", "application/json")
	c.authorize(req, sess)

	logger.Debug(ctx, "requesting measures", "url", req.URL.Path)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, domainErrors.ErrSonarRequest.WithError(err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Debug(ctx, "error closing response body", "error", err)
		}
	}()

	if err := checkStatus(resp); err != nil {
		return nil, err.WithContext("project", project).WithContext("branch", branch)
	}

	var result measuresResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, domainErrors.ErrSonarDecode.WithError(err)
	}

	values := make(map[string]string, len(result.Component.Measures))
	for _, m := range result.Component.Measures {
		values[m.Metric] = m.Value
	}

	logger.Info(ctx, "measures fetched", "metrics", len(values))
	return values, nil
}

// authenticate opens a web session with login/password.
func (c *Client) authenticate(ctx context.Context) (*session, error) {
	form := url.Values{}
	form.Set("login", c.username)
	form.Set("password", c.password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+loginPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, domainErrors.ErrSonarRequest.WithError(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	logger.Debug(ctx, "authenticating", "user", c.username)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, domainErrors.ErrSonarRequest.WithError(err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		if err := resp.Body.Close(); err != nil {
			logger.Debug(ctx, "error closing response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return nil, domainErrors.ErrSonarAuth.WithContext("detail", resp.Status)
		}
		return nil, domainErrors.ErrSonarUnexpectedStatus.WithContext("detail", "login: "+resp.Status)
	}

	sess := &session{cookies: resp.Cookies()}
	for _, ck := range sess.cookies {
		if ck.Name == xsrfCookie {
			sess.xsrf = ck.Value
		}
	}
	return sess, nil
}

func (c *Client) authorize(req *http.Request, sess *session) {
	if c.token != "" {
		req.Header.Set("Authorization", getBasicAuth(c.token, ""))
		return
	}
	if sess == nil {
		return
	}
	for _, ck := range sess.cookies {
		req.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
	}
	if sess.xsrf != "" {
		req.Header.Set(xsrfHeader, sess.xsrf)
	}
}

func checkStatus(resp *http.Response) *domainErrors.AppError {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return domainErrors.ErrSonarAuth.WithContext("detail", resp.Status)
	case http.StatusNotFound:
		return domainErrors.ErrSonarNotFound.WithContext("detail", apiMessage(resp))
	default:
		return domainErrors.ErrSonarUnexpectedStatus.WithContext("detail", fmt.Sprintf("%s %s", resp.Status, apiMessage(resp)))
	}
}

// apiMessage extracts the first "errors[].msg" of a SonarQube error body.
func apiMessage(resp *http.Response) string {
	var body apiErrors
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err != nil || len(body.Errors) == 0 {
		return ""
	}
	return body.Errors[0].Msg
}

// getBasicAuth builds the Authorization header. Tokens are sent as the
// username with an empty password.
func getBasicAuth(username, password string) string {
	credentials := fmt.Sprintf("%s:%s", username, password)
	return fmt.Sprintf("Basic %s", base64.StdEncoding.EncodeToString([]byte(credentials)))
}
