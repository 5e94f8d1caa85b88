package services

import (
	"fmt"
	"log/slog"
	"time"

	"mailvault/errors"
	"mailvault/repositories"
	"mailvault/sanitizer"
	"mailvault/spam"
	"mailvault/validation"
	"mailvault/webhook"

	"github.com/google/uuid"
)

// InboundSignature carries the raw signature material of a webhook
// call; which fields are set depends on the provider scheme.
type InboundSignature struct {
	Scheme    webhook.Scheme
	RawBody   string
	Signature string
	Token     string
	Timestamp string
}

type IInboundService interface {
	Accept(sig InboundSignature, email validation.InboundEmail) (repositories.StoredMessage, error)
}

type InboundService struct {
	verifiers map[webhook.Scheme]webhook.Verifier
	scorer    *spam.Scorer
	sanitizer *sanitizer.Sanitizer
	messages  repositories.IMessageRepository
	blacklist []string
	whitelist []string
	log       *slog.Logger
}

func NewInboundService(
	verifiers []webhook.Verifier,
	scorer *spam.Scorer,
	san *sanitizer.Sanitizer,
	messages repositories.IMessageRepository,
	blacklist, whitelist []string,
	log *slog.Logger,
) IInboundService {
	byScheme := make(map[webhook.Scheme]webhook.Verifier, len(verifiers))
	for _, v := range verifiers {
		byScheme[v.Scheme()] = v
	}
	return &InboundService{
		verifiers: byScheme,
		scorer:    scorer,
		sanitizer: san,
		messages:  messages,
		blacklist: blacklist,
		whitelist: whitelist,
		log:       log,
	}
}

// Accept runs the full inbound pipeline: signature verification,
// structural validation, sanitization, spam scoring and persistence.
// Signature and validation failures are terminal for the request.
func (s *InboundService) Accept(sig InboundSignature, email validation.InboundEmail) (repositories.StoredMessage, error) {
	if !s.verify(sig) {
		return repositories.StoredMessage{}, errors.ErrInvalidSignature
	}

	if violations := validation.Check(email); violations != nil {
		return repositories.StoredMessage{}, violations
	}

	safeHTML := s.sanitizer.SanitizeHTML(email.HTMLBody)
	preview := s.sanitizer.GeneratePreview(email.HTMLBody, email.TextBody, previewLength)

	verdict := s.scorer.Score(spam.Message{
		FromEmail: email.From,
		FromName:  email.FromName,
		Subject:   email.Subject,
		TextBody:  email.TextBody,
		HTMLBody:  email.HTMLBody,
	})

	// List membership overrides the heuristic verdict in both
	// directions; the reasons trail records the override.
	isSpam := verdict.IsSpam
	reasons := verdict.Reasons
	switch {
	case spam.IsWhitelisted(email.From, s.whitelist):
		isSpam = false
		reasons = append(reasons, "sender is whitelisted")
	case spam.IsBlacklisted(email.From, s.blacklist):
		isSpam = true
		reasons = append(reasons, "sender is blacklisted")
	}

	folder := repositories.FolderInbox
	if isSpam {
		folder = repositories.FolderSpam
	}

	message := repositories.StoredMessage{
		ID:          uuid.New(),
		Owner:       email.To,
		Folder:      folder,
		FromEmail:   email.From,
		FromName:    email.FromName,
		To:          []string{email.To},
		Subject:     email.Subject,
		TextBody:    email.TextBody,
		HTMLBody:    safeHTML,
		Preview:     preview,
		SpamScore:   verdict.Score,
		SpamReasons: reasons,
		IsSpam:      isSpam,
		At:          time.Now().UTC(),
	}

	if err := s.messages.StoreMessage(message); err != nil {
		return repositories.StoredMessage{}, fmt.Errorf("%w: %v", errors.ErrDependency, err)
	}

	s.log.Info("inbound message accepted",
		"folder", folder,
		"spam_score", verdict.Score,
		"is_spam", isSpam,
	)
	return message, nil
}

func (s *InboundService) verify(sig InboundSignature) bool {
	verifier, ok := s.verifiers[sig.Scheme]
	if !ok {
		return false
	}
	switch sig.Scheme {
	case webhook.SchemeSimple:
		return verifier.VerifySimple(sig.RawBody, sig.Signature)
	case webhook.SchemeTimestamped:
		return verifier.VerifyTimestamped(sig.Token, sig.Timestamp, sig.Signature)
	default:
		return false
	}
}
