//go:generate go run go.uber.org/mock/mockgen -source=billing_service.go -destination=../mocks/mock_billing.go -package=mocks
package services

import (
	"context"
	"fmt"

	"mailvault/errors"
	"mailvault/repositories"
)

// CheckoutMode selects between a recurring subscription and a one-off
// purchase.
type CheckoutMode string

const (
	ModeSubscription CheckoutMode = "subscription"
	ModePayment      CheckoutMode = "payment"
)

// CheckoutParams is the provider-neutral checkout request.
type CheckoutParams struct {
	CustomerEmail string
	PriceRef      string
	Mode          CheckoutMode
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

// CheckoutSession is what the caller needs to redirect the browser.
type CheckoutSession struct {
	ID  string
	URL string
}

// PaymentProvider is the boundary to the managed payment service; its
// internals are out of scope here.
type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (CheckoutSession, error)
}

type IBillingService interface {
	StartCheckout(ctx context.Context, caller AuthenticatedUser, priceRef string, mode CheckoutMode) (CheckoutSession, error)
}

type BillingService struct {
	provider   PaymentProvider
	profiles   repositories.IProfileRepository
	successURL string
	cancelURL  string
}

func NewBillingService(
	provider PaymentProvider,
	profiles repositories.IProfileRepository,
	successURL, cancelURL string,
) IBillingService {
	return &BillingService{
		provider:   provider,
		profiles:   profiles,
		successURL: successURL,
		cancelURL:  cancelURL,
	}
}

// StartCheckout opens a provider checkout session for the caller. The
// profile must exist; the profile ID travels in the session metadata
// so the payment webhook can be reconciled later.
func (s *BillingService) StartCheckout(ctx context.Context, caller AuthenticatedUser, priceRef string, mode CheckoutMode) (CheckoutSession, error) {
	if priceRef == "" {
		return CheckoutSession{}, fmt.Errorf("price reference is required")
	}
	if mode != ModeSubscription && mode != ModePayment {
		return CheckoutSession{}, fmt.Errorf("unknown checkout mode %q", mode)
	}

	profile, err := s.profiles.GetProfileByEmail(caller.Email)
	if err != nil {
		return CheckoutSession{}, err
	}

	session, err := s.provider.CreateCheckoutSession(ctx, CheckoutParams{
		CustomerEmail: profile.Email,
		PriceRef:      priceRef,
		Mode:          mode,
		SuccessURL:    s.successURL,
		CancelURL:     s.cancelURL,
		Metadata: map[string]string{
			"profile_id": profile.ID.String(),
			"plan":       profile.Plan,
		},
	})
	if err != nil {
		return CheckoutSession{}, fmt.Errorf("%w: %v", errors.ErrDependency, err)
	}
	return session, nil
}
