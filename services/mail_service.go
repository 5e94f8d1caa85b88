//go:generate go run go.uber.org/mock/mockgen -source=mail_service.go -destination=../mocks/mock_mailer.go -package=mocks
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mailvault/errors"
	"mailvault/repositories"
	"mailvault/sanitizer"
	"mailvault/validation"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// OutboundAttachment is a file going out with a message. ContentType
// is sniffed from the bytes when the caller leaves it empty.
type OutboundAttachment struct {
	Filename    string
	Content     []byte
	ContentType string
}

// OutboundEmail is the provider-neutral send request.
type OutboundEmail struct {
	From        string
	To          []string
	Subject     string
	TextBody    string
	HTMLBody    string
	Headers     map[string]string
	Attachments []OutboundAttachment
}

// Mailer is the boundary to the delivery provider.
type Mailer interface {
	Send(ctx context.Context, email OutboundEmail) (string, error)
}

type IMailService interface {
	Send(ctx context.Context, caller AuthenticatedUser, req validation.ComposeRequest, attachments []OutboundAttachment) (string, error)
	ListMessages(caller AuthenticatedUser, folder string, limit int) ([]repositories.StoredMessage, error)
}

const previewLength = 100

type MailService struct {
	mailer      Mailer
	messages    repositories.IMessageRepository
	sanitizer   *sanitizer.Sanitizer
	fromAddress string
	log         *slog.Logger
}

func NewMailService(
	mailer Mailer,
	messages repositories.IMessageRepository,
	san *sanitizer.Sanitizer,
	fromAddress string,
	log *slog.Logger,
) IMailService {
	return &MailService{
		mailer:      mailer,
		messages:    messages,
		sanitizer:   san,
		fromAddress: fromAddress,
		log:         log,
	}
}

// Send validates and delivers an outbound message, then stores a copy
// in the caller's sent folder. Delivery is the primary side effect: a
// persistence failure after a successful send is logged and swallowed,
// and the caller still sees success.
func (s *MailService) Send(ctx context.Context, caller AuthenticatedUser, req validation.ComposeRequest, attachments []OutboundAttachment) (string, error) {
	if violations := validation.Check(req); violations != nil {
		return "", violations
	}

	for i := range attachments {
		if attachments[i].ContentType == "" {
			attachments[i].ContentType = mimetype.Detect(attachments[i].Content).String()
		}
	}

	providerID, err := s.mailer.Send(ctx, OutboundEmail{
		From:        s.fromAddress,
		To:          req.To,
		Subject:     req.Subject,
		TextBody:    req.TextBody,
		HTMLBody:    req.HTMLBody,
		Attachments: attachments,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrDependency, err)
	}

	copyErr := s.messages.StoreMessage(repositories.StoredMessage{
		ID:        uuid.New(),
		Owner:     caller.Email,
		Folder:    repositories.FolderSent,
		FromEmail: caller.Email,
		To:        req.To,
		Subject:   req.Subject,
		TextBody:  req.TextBody,
		HTMLBody:  s.sanitizer.SanitizeHTML(req.HTMLBody),
		Preview:   s.sanitizer.GeneratePreview(req.HTMLBody, req.TextBody, previewLength),
		At:        time.Now().UTC(),
	})
	if copyErr != nil {
		s.log.Warn(fmt.Sprintf("sent copy not persisted: %v", copyErr), "provider_id", providerID)
	}

	return providerID, nil
}

func (s *MailService) ListMessages(caller AuthenticatedUser, folder string, limit int) ([]repositories.StoredMessage, error) {
	switch folder {
	case repositories.FolderInbox, repositories.FolderSent, repositories.FolderSpam:
	default:
		return nil, fmt.Errorf("unknown folder %q", folder)
	}
	return s.messages.GetMessages(caller.Email, folder, limit)
}
