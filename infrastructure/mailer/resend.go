// Package mailer adapts the delivery provider SDK to the service
// layer's Mailer boundary.
package mailer

import (
	"context"
	"fmt"

	"mailvault/services"

	"github.com/resend/resend-go/v2"
)

type ResendMailer struct {
	client *resend.Client
}

func NewResendMailer(apiKey string) *ResendMailer {
	return &ResendMailer{client: resend.NewClient(apiKey)}
}

// Send delivers one message and returns the provider message id.
func (m *ResendMailer) Send(ctx context.Context, email services.OutboundEmail) (string, error) {
	params := &resend.SendEmailRequest{
		From:    email.From,
		To:      email.To,
		Subject: email.Subject,
		Text:    email.TextBody,
		Html:    email.HTMLBody,
		Headers: email.Headers,
	}

	for _, att := range email.Attachments {
		params.Attachments = append(params.Attachments, &resend.Attachment{
			Filename:    att.Filename,
			Content:     att.Content,
			ContentType: att.ContentType,
		})
	}

	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return "", fmt.Errorf("resend send failed: %w", err)
	}
	return sent.Id, nil
}
