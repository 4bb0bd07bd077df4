package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/Tomas-vilte/sonar-report/internal/config"
	"github.com/Tomas-vilte/sonar-report/internal/domain/models"
	domainErrors "github.com/Tomas-vilte/sonar-report/internal/errors"
	"github.com/Tomas-vilte/sonar-report/internal/logger"
	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

const reportIDHeader = "X-Report-ID"

// Dialer is the part of *gomail.Dialer the sender needs. DialAndSend opens
// the connection, sends every message in one session and always closes it.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Sender delivers the report over SMTP. With port 465 the connection uses
// implicit TLS.
type Sender struct {
	dialer Dialer
	host   string
	port   int
	newID  func() string
}

func NewSender(cfg config.MailConfig) *Sender {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.From, cfg.Password)
	if cfg.InsecureSkipVerify {
		d.TLSConfig = &tls.Config{ServerName: cfg.Host, InsecureSkipVerify: true}
	}
	return NewSenderWithDialer(d, cfg.Host, cfg.Port)
}

func NewSenderWithDialer(d Dialer, host string, port int) *Sender {
	return &Sender{
		dialer: d,
		host:   host,
		port:   port,
		newID:  uuid.NewString,
	}
}

func (s *Sender) GetHost() string {
	return s.host
}

func (s *Sender) GetPort() int {
	return s.port
}

// Send delivers msg to all recipients in a single SMTP transaction. It never
// returns an error or panics: the outcome is in the result.
func (s *Sender) Send(ctx context.Context, msg models.MailMessage) (result models.MailResult) {
	result = models.MailResult{
		Recipients: msg.Recipients,
		ReportID:   s.newID(),
	}
	ctx = logger.With(ctx, "recipients", strings.Join(msg.Recipients, ","), "host", s.host)

	defer func() {
		if r := recover(); r != nil {
			result.Sent = false
			result.Err = domainErrors.ErrMailSend.WithError(fmt.Errorf("panic: %v", r))
			logger.Error(ctx, "mail sender panicked", result.Err)
		}
	}()

	if len(msg.Recipients) == 0 {
		result.Err = domainErrors.ErrMailNoRecipients
		return result
	}
	if err := ctx.Err(); err != nil {
		result.Err = domainErrors.ErrMailSend.WithError(err)
		return result
	}

	m := gomail.NewMessage(gomail.SetCharset("UTF-8"))
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.Recipients...)
	m.SetHeader("Subject", msg.Subject)
	m.SetHeader(reportIDHeader, result.ReportID)
	m.SetBody("text/html", msg.HTMLBody)

	logger.Info(ctx, "sending report", "port", s.port, "report_id", result.ReportID)
	if err := s.dialer.DialAndSend(m); err != nil {
		result.Err = domainErrors.ErrMailSend.WithError(err).
			WithContext("detail", fmt.Sprintf("%s:%d", s.host, s.port))
		logger.Warn(ctx, "report not delivered", "error", err)
		return result
	}

	result.Sent = true
	logger.Info(ctx, "report delivered", "count", len(msg.Recipients))
	return result
}
