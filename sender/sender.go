package sender

import (
	"context"
	"time"
)

type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// EmailSender delivers a message with both a plain-text and an HTML body.
// Implementations are best-effort; callers decide what a failure means.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, textBody, htmlBody string) (SendResult, error)
}
