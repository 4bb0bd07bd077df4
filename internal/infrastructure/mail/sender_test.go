package mail

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"testing"

	"github.com/Tomas-vilte/sonar-report/internal/config"
	"github.com/Tomas-vilte/sonar-report/internal/domain/models"
	domainErrors "github.com/Tomas-vilte/sonar-report/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

// fakeDialer records what would have been sent.
type fakeDialer struct {
	calls    int
	messages []*gomail.Message
	err      error
	panicMsg string
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	f.calls++
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	f.messages = append(f.messages, m...)
	return f.err
}

func sampleMessage(recipients ...string) models.MailMessage {
	return models.MailMessage{
		Subject:    "Code quality report",
		From:       "ci@example.com",
		Recipients: recipients,
		HTMLBody:   "<h3>dev@example.com, 你好</h3>",
	}
}

func TestSender_Send(t *testing.T) {
	t.Run("should send one message addressed to every recipient", func(t *testing.T) {
		d := &fakeDialer{}
		s := NewSenderWithDialer(d, "smtp.example.com", 465)
		s.newID = func() string { return "report-1" }

		result := s.Send(context.Background(), sampleMessage("a@example.com", "b@example.com", "c@example.com"))

		require.True(t, result.Sent)
		assert.NoError(t, result.Err)
		assert.Equal(t, "report-1", result.ReportID)
		assert.Equal(t, 1, d.calls)
		require.Len(t, d.messages, 1)

		m := d.messages[0]
		assert.Equal(t, []string{"a@example.com", "b@example.com", "c@example.com"}, m.GetHeader("To"))
		assert.Equal(t, []string{"ci@example.com"}, m.GetHeader("From"))
		assert.Equal(t, []string{"Code quality report"}, m.GetHeader("Subject"))
		assert.Equal(t, []string{"report-1"}, m.GetHeader("X-Report-ID"))

		var buf bytes.Buffer
		_, err := m.WriteTo(&buf)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "Content-Type: text/html; charset=UTF-8")
	})

	t.Run("should report a delivery failure without returning an error", func(t *testing.T) {
		d := &fakeDialer{err: errors.New("535 authentication failed")}
		s := NewSenderWithDialer(d, "smtp.example.com", 465)

		result := s.Send(context.Background(), sampleMessage("dev@example.com"))

		assert.False(t, result.Sent)
		assert.ErrorIs(t, result.Err, domainErrors.ErrMailSend)
		assert.Contains(t, result.Err.Error(), "535 authentication failed")
		assert.Equal(t, []string{"dev@example.com"}, result.Recipients)
	})

	t.Run("should recover from a panicking transport", func(t *testing.T) {
		d := &fakeDialer{panicMsg: "nil conn"}
		s := NewSenderWithDialer(d, "smtp.example.com", 465)

		var result models.MailResult
		assert.NotPanics(t, func() {
			result = s.Send(context.Background(), sampleMessage("dev@example.com"))
		})
		assert.False(t, result.Sent)
		assert.ErrorIs(t, result.Err, domainErrors.ErrMailSend)
	})

	t.Run("should refuse an empty recipient list", func(t *testing.T) {
		d := &fakeDialer{}
		s := NewSenderWithDialer(d, "smtp.example.com", 465)

		result := s.Send(context.Background(), sampleMessage())

		assert.False(t, result.Sent)
		assert.ErrorIs(t, result.Err, domainErrors.ErrMailNoRecipients)
		assert.Equal(t, 0, d.calls)
	})

	t.Run("should not dial with a cancelled context", func(t *testing.T) {
		d := &fakeDialer{}
		s := NewSenderWithDialer(d, "smtp.example.com", 465)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result := s.Send(ctx, sampleMessage("dev@example.com"))

		assert.False(t, result.Sent)
		assert.ErrorIs(t, result.Err, context.Canceled)
		assert.Equal(t, 0, d.calls)
	})
}

func TestNewSender(t *testing.T) {
	s := NewSender(config.MailConfig{
		Host:     "smtp.example.com",
		Port:     465,
		From:     "ci@example.com",
		Password: "secret",
	})

	d, ok := s.dialer.(*gomail.Dialer)
	require.True(t, ok)
	assert.True(t, d.SSL, "port 465 must use implicit TLS")
	assert.Equal(t, "ci@example.com", d.Username)
	assert.Equal(t, "smtp.example.com", s.GetHost())
	assert.Equal(t, 465, s.GetPort())
}

func TestSender_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	s := NewSender(config.MailConfig{Host: "127.0.0.1", Port: port, From: "ci@example.com"})

	result := s.Send(context.Background(), sampleMessage("dev@example.com"))

	assert.False(t, result.Sent)
	assert.ErrorIs(t, result.Err, domainErrors.ErrMailSend)
}

type smtpSession struct {
	mu        sync.Mutex
	mailFrom  []string
	rcptTo    []string
	dataCount int
	data      string
}

// startTestSMTPServer accepts a single plain-text SMTP session and records
// the envelope.
func startTestSMTPServer(t *testing.T) (port int, session *smtpSession, stop func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	session = &smtpSession{}
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewReader(conn)
		fmt.Fprintf(conn, "220 localhost Test SMTP Service Ready\r\n")
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			line = strings.TrimSpace(line)
			session.mu.Lock()
			switch {
			case strings.HasPrefix(line, "EHLO"), strings.HasPrefix(line, "HELO"):
				fmt.Fprintf(conn, "250-localhost Hello\r\n250 OK\r\n")
			case strings.HasPrefix(line, "MAIL FROM:"):
				session.mailFrom = append(session.mailFrom, line)
				fmt.Fprintf(conn, "250 OK\r\n")
			case strings.HasPrefix(line, "RCPT TO:"):
				session.rcptTo = append(session.rcptTo, line)
				fmt.Fprintf(conn, "250 OK\r\n")
			case line == "DATA":
				session.dataCount++
				fmt.Fprintf(conn, "354 End data with <CR><LF>.<CR><LF>\r\n")
				var sb strings.Builder
				for {
					dline, derr := r.ReadString('\n')
					if derr != nil || strings.TrimSpace(dline) == "." {
						break
					}
					sb.WriteString(dline)
				}
				session.data = sb.String()
				fmt.Fprintf(conn, "250 OK: queued as 12345\r\n")
			case strings.HasPrefix(line, "QUIT"):
				fmt.Fprintf(conn, "221 Bye\r\n")
				session.mu.Unlock()
				return
			default:
				fmt.Fprintf(conn, "250 OK\r\n")
			}
			session.mu.Unlock()
		}
	}()

	port = ln.Addr().(*net.TCPAddr).Port
	stop = func() {
		_ = ln.Close()
		wg.Wait()
	}
	return port, session, stop
}

func TestSender_SingleTransaction(t *testing.T) {
	port, session, stop := startTestSMTPServer(t)

	s := NewSender(config.MailConfig{Host: "127.0.0.1", Port: port, From: "ci@example.com"})
	result := s.Send(context.Background(), sampleMessage("a@example.com", "b@example.com"))
	stop()

	require.True(t, result.Sent, "send failed: %v", result.Err)
	session.mu.Lock()
	defer session.mu.Unlock()
	assert.Len(t, session.mailFrom, 1)
	assert.Equal(t, []string{"RCPT TO:<a@example.com>", "RCPT TO:<b@example.com>"}, session.rcptTo)
	assert.Equal(t, 1, session.dataCount)
	assert.Contains(t, session.data, "To: a@example.com, b@example.com")
	assert.Contains(t, session.data, "X-Report-ID: "+result.ReportID)
}
