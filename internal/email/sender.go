package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	sesv2 "github.com/aws/aws-sdk-go-v2/service/sesv2"
	sestypes "github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// Sender delivers one HTML email
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SESSender sends email through AWS SES (SESv2 API)
type SESSender struct {
	client    *sesv2.Client
	fromEmail string
	replyTo   string
}

// NewSESSender creates an SES sender using the ambient AWS credentials
func NewSESSender(cfg aws.Config, fromEmail, replyTo string) *SESSender {
	return &SESSender{
		client:    sesv2.NewFromConfig(cfg),
		fromEmail: fromEmail,
		replyTo:   replyTo,
	}
}

func (s *SESSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	if _, err := s.client.SendEmail(ctx, s.message(to, subject, htmlBody)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *SESSender) message(to, subject, htmlBody string) *sesv2.SendEmailInput {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.fromEmail),
		Destination:      &sestypes.Destination{ToAddresses: []string{to}},
		Content: &sestypes.EmailContent{
			Simple: &sestypes.Message{
				Subject: &sestypes.Content{Data: aws.String(subject)},
				Body:    &sestypes.Body{Html: &sestypes.Content{Data: aws.String(htmlBody)}},
			},
		},
	}
	if s.replyTo != "" {
		input.ReplyToAddresses = []string{s.replyTo}
	}
	return input
}

// LogSender writes emails to the log instead of sending them.
// Used when SES is not configured.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, to, subject, _ string) error {
	s.logger.Info("email not sent, no SES sender configured", "to", to, "subject", subject)
	return nil
}
