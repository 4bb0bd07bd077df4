package ports

import (
	"context"

	"github.com/Tomas-vilte/sonar-report/internal/domain/models"
)

// MailSender delivers a message. Delivery failures are reported in the
// result, never as a panic or error.
type MailSender interface {
	Send(ctx context.Context, msg models.MailMessage) models.MailResult
}
