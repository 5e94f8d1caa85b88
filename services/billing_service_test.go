package services_test

import (
	"context"
	"testing"

	"mailvault/errors"
	"mailvault/mocks"
	"mailvault/repositories"
	"mailvault/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestBillingService_StartCheckout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockProvider := mocks.NewMockPaymentProvider(ctrl)
	mockProfiles := mocks.NewMockIProfileRepository(ctrl)
	svc := services.NewBillingService(mockProvider, mockProfiles, "https://app.example.com/billing/ok", "https://app.example.com/billing/cancel")

	caller := services.AuthenticatedUser{ID: "id-1", Email: "user@example.com"}

	t.Run("should open a session with the profile in the metadata", func(t *testing.T) {
		req := require.New(t)
		profile := repositories.Profile{ID: uuid.New(), Email: caller.Email, Plan: "free"}

		mockProfiles.EXPECT().GetProfileByEmail(caller.Email).Return(profile, nil).Times(1)
		mockProvider.EXPECT().
			CreateCheckoutSession(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params services.CheckoutParams) (services.CheckoutSession, error) {
				require.Equal(t, profile.Email, params.CustomerEmail)
				require.Equal(t, "price_123", params.PriceRef)
				require.Equal(t, services.ModeSubscription, params.Mode)
				require.Equal(t, profile.ID.String(), params.Metadata["profile_id"])
				require.Equal(t, "free", params.Metadata["plan"])
				return services.CheckoutSession{ID: "cs_1", URL: "https://pay.example.com/cs_1"}, nil
			}).
			Times(1)

		session, err := svc.StartCheckout(context.Background(), caller, "price_123", services.ModeSubscription)
		req.NoError(err)
		req.Equal("cs_1", session.ID)
		req.NotEmpty(session.URL)
	})

	t.Run("should reject an empty price reference", func(t *testing.T) {
		req := require.New(t)

		mockProvider.EXPECT().CreateCheckoutSession(gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.StartCheckout(context.Background(), caller, "", services.ModeSubscription)
		req.Error(err)
	})

	t.Run("should reject an unknown mode", func(t *testing.T) {
		req := require.New(t)

		_, err := svc.StartCheckout(context.Background(), caller, "price_123", services.CheckoutMode("donation"))
		req.Error(err)
	})

	t.Run("should require an existing profile", func(t *testing.T) {
		req := require.New(t)

		mockProfiles.EXPECT().GetProfileByEmail(caller.Email).Return(repositories.Profile{}, errors.ErrNotFound).Times(1)

		_, err := svc.StartCheckout(context.Background(), caller, "price_123", services.ModePayment)
		req.ErrorIs(err, errors.ErrNotFound)
	})

	t.Run("should wrap provider failures as dependency errors", func(t *testing.T) {
		req := require.New(t)
		profile := repositories.Profile{ID: uuid.New(), Email: caller.Email}

		mockProfiles.EXPECT().GetProfileByEmail(caller.Email).Return(profile, nil).Times(1)
		mockProvider.EXPECT().
			CreateCheckoutSession(gomock.Any(), gomock.Any()).
			Return(services.CheckoutSession{}, context.DeadlineExceeded).
			Times(1)

		_, err := svc.StartCheckout(context.Background(), caller, "price_123", services.ModePayment)
		req.ErrorIs(err, errors.ErrDependency)
	})
}
