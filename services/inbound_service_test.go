package services_test

import (
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"mailvault/errors"
	"mailvault/mocks"
	"mailvault/repositories"
	"mailvault/sanitizer"
	"mailvault/services"
	"mailvault/spam"
	"mailvault/validation"
	"mailvault/webhook"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	simpleSecret      = "simple-webhook-secret"
	timestampedSecret = "timestamped-signing-key"
)

func newInboundFixture(t *testing.T, blacklist, whitelist []string) (services.IInboundService, *mocks.MockIMessageRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)

	scorer, err := spam.NewScorer(spam.DefaultRules())
	require.NoError(t, err)

	mockMessages := mocks.NewMockIMessageRepository(ctrl)
	svc := services.NewInboundService(
		[]webhook.Verifier{
			webhook.NewVerifier(webhook.SchemeSimple, simpleSecret),
			webhook.NewVerifier(webhook.SchemeTimestamped, timestampedSecret),
		},
		scorer,
		sanitizer.New(),
		mockMessages,
		blacklist,
		whitelist,
		slog.New(slog.DiscardHandler),
	)
	return svc, mockMessages
}

func signedSimple(body string) services.InboundSignature {
	return services.InboundSignature{
		Scheme:    webhook.SchemeSimple,
		RawBody:   body,
		Signature: webhook.Sign(simpleSecret, body),
	}
}

func cleanEmail() validation.InboundEmail {
	return validation.InboundEmail{
		From:     "friend@example.com",
		FromName: "Friend",
		To:       "user@mailvault.io",
		Subject:  "Lunch tomorrow",
		TextBody: "Does noon still work for you?",
	}
}

func TestInboundService_Accept(t *testing.T) {
	t.Run("should store a clean message in the inbox", func(t *testing.T) {
		req := require.New(t)
		svc, mockMessages := newInboundFixture(t, nil, nil)
		email := cleanEmail()

		mockMessages.EXPECT().
			StoreMessage(gomock.Any()).
			DoAndReturn(func(m repositories.StoredMessage) error {
				require.Equal(t, email.To, m.Owner)
				require.Equal(t, repositories.FolderInbox, m.Folder)
				require.False(t, m.IsSpam)
				require.Equal(t, 0, m.SpamScore)
				return nil
			}).
			Times(1)

		stored, err := svc.Accept(signedSimple(`{"from":"friend"}`), email)
		req.NoError(err)
		req.Equal(repositories.FolderInbox, stored.Folder)
	})

	t.Run("should route spam to the spam folder with reasons", func(t *testing.T) {
		req := require.New(t)
		svc, mockMessages := newInboundFixture(t, nil, nil)

		email := cleanEmail()
		email.Subject = "WIN FREE MONEY NOW!!!"
		email.TextBody = "Claim your prize at the casino, limited offer, act now winner!"

		mockMessages.EXPECT().
			StoreMessage(gomock.Any()).
			DoAndReturn(func(m repositories.StoredMessage) error {
				require.Equal(t, repositories.FolderSpam, m.Folder)
				require.True(t, m.IsSpam)
				require.GreaterOrEqual(t, m.SpamScore, 5)
				require.NotEmpty(t, m.SpamReasons)
				return nil
			}).
			Times(1)

		stored, err := svc.Accept(signedSimple("body"), email)
		req.NoError(err)
		req.True(stored.IsSpam)
	})

	t.Run("should sanitize the HTML body and build a preview", func(t *testing.T) {
		req := require.New(t)
		svc, mockMessages := newInboundFixture(t, nil, nil)

		email := cleanEmail()
		email.TextBody = ""
		email.HTMLBody = `<p>Hello <script>steal()</script>there</p>`

		mockMessages.EXPECT().
			StoreMessage(gomock.Any()).
			DoAndReturn(func(m repositories.StoredMessage) error {
				require.NotContains(t, m.HTMLBody, "<script>")
				require.Contains(t, m.Preview, "Hello")
				require.False(t, strings.Contains(m.Preview, "<"))
				return nil
			}).
			Times(1)

		_, err := svc.Accept(signedSimple("body"), email)
		req.NoError(err)
	})

	t.Run("should let a whitelist entry override a spam verdict", func(t *testing.T) {
		req := require.New(t)
		svc, mockMessages := newInboundFixture(t, nil, []string{"friend@example.com"})

		email := cleanEmail()
		email.Subject = "WIN FREE MONEY NOW!!!"
		email.TextBody = "Claim your prize at the casino, limited offer, act now winner!"

		mockMessages.EXPECT().
			StoreMessage(gomock.Any()).
			DoAndReturn(func(m repositories.StoredMessage) error {
				require.Equal(t, repositories.FolderInbox, m.Folder)
				require.False(t, m.IsSpam)
				require.Contains(t, m.SpamReasons, "sender is whitelisted")
				// The raw score survives for observability
				require.GreaterOrEqual(t, m.SpamScore, 5)
				return nil
			}).
			Times(1)

		_, err := svc.Accept(signedSimple("body"), email)
		req.NoError(err)
	})

	t.Run("should let a blacklist entry override a clean verdict", func(t *testing.T) {
		req := require.New(t)
		svc, mockMessages := newInboundFixture(t, []string{"@example.com"}, nil)

		mockMessages.EXPECT().
			StoreMessage(gomock.Any()).
			DoAndReturn(func(m repositories.StoredMessage) error {
				require.Equal(t, repositories.FolderSpam, m.Folder)
				require.True(t, m.IsSpam)
				require.Contains(t, m.SpamReasons, "sender is blacklisted")
				return nil
			}).
			Times(1)

		_, err := svc.Accept(signedSimple("body"), cleanEmail())
		req.NoError(err)
	})

	t.Run("should reject a bad simple signature", func(t *testing.T) {
		req := require.New(t)
		svc, mockMessages := newInboundFixture(t, nil, nil)

		mockMessages.EXPECT().StoreMessage(gomock.Any()).Times(0)

		sig := services.InboundSignature{
			Scheme:    webhook.SchemeSimple,
			RawBody:   "body",
			Signature: webhook.Sign("wrong-secret", "body"),
		}
		_, err := svc.Accept(sig, cleanEmail())
		req.ErrorIs(err, errors.ErrInvalidSignature)
	})

	t.Run("should accept a fresh timestamped signature", func(t *testing.T) {
		req := require.New(t)
		svc, mockMessages := newInboundFixture(t, nil, nil)

		mockMessages.EXPECT().StoreMessage(gomock.Any()).Return(nil).Times(1)

		timestamp := fmt.Sprintf("%d", time.Now().Unix())
		token := "provider-token"
		sig := services.InboundSignature{
			Scheme:    webhook.SchemeTimestamped,
			Token:     token,
			Timestamp: timestamp,
			Signature: webhook.Sign(timestampedSecret, timestamp+token),
		}
		_, err := svc.Accept(sig, cleanEmail())
		req.NoError(err)
	})

	t.Run("should reject a stale timestamped signature", func(t *testing.T) {
		req := require.New(t)
		svc, mockMessages := newInboundFixture(t, nil, nil)

		mockMessages.EXPECT().StoreMessage(gomock.Any()).Times(0)

		timestamp := fmt.Sprintf("%d", time.Now().Add(-time.Hour).Unix())
		token := "provider-token"
		sig := services.InboundSignature{
			Scheme:    webhook.SchemeTimestamped,
			Token:     token,
			Timestamp: timestamp,
			Signature: webhook.Sign(timestampedSecret, timestamp+token),
		}
		_, err := svc.Accept(sig, cleanEmail())
		req.ErrorIs(err, errors.ErrInvalidSignature)
	})

	t.Run("should reject an unknown scheme", func(t *testing.T) {
		req := require.New(t)
		svc, _ := newInboundFixture(t, nil, nil)

		_, err := svc.Accept(services.InboundSignature{Scheme: webhook.Scheme("pgp")}, cleanEmail())
		req.ErrorIs(err, errors.ErrInvalidSignature)
	})

	t.Run("should reject an invalid payload after signature verification", func(t *testing.T) {
		req := require.New(t)
		svc, mockMessages := newInboundFixture(t, nil, nil)

		mockMessages.EXPECT().StoreMessage(gomock.Any()).Times(0)

		email := cleanEmail()
		email.From = "not-an-email"
		_, err := svc.Accept(signedSimple("body"), email)

		var violations validation.Violations
		req.ErrorAs(err, &violations)
		req.Equal("from", violations[0].Field)
	})

	t.Run("should wrap storage failures as dependency errors", func(t *testing.T) {
		req := require.New(t)
		svc, mockMessages := newInboundFixture(t, nil, nil)

		mockMessages.EXPECT().StoreMessage(gomock.Any()).Return(fmt.Errorf("disk full")).Times(1)

		_, err := svc.Accept(signedSimple("body"), cleanEmail())
		req.ErrorIs(err, errors.ErrDependency)
	})
}
