package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mailvault/api"
	"mailvault/auth"
	"mailvault/infrastructure/mailer"
	"mailvault/infrastructure/payments"
	"mailvault/internal"
	"mailvault/observability"
	"mailvault/repositories"
	"mailvault/sanitizer"
	"mailvault/services"
	"mailvault/spam"
	"mailvault/webhook"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// This pattern is preferred over calling os.Exit or panic directly because:
// 1. It ensures all 'defer' statements (like database cleanup) are executed before the program exits.
// 2. It improves testability by decoupling the initialization logic from the main entry point.
// 3. It provides a structured way to handle graceful shutdowns for the HTTP server and background workers.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()

	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.ValidateSecrets(); err != nil {
		return exitConfig, err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: config.SlogLevel()}))

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		// Defer ensures the database lock is released and buffers are flushed before the function returns.
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Repositories
	profiles := repositories.NewProfileRepository(db)
	betaCodes := repositories.NewBetaCodeRepository(db)
	messages := repositories.NewMessageRepository(db, logger)
	activity := repositories.NewActivityRepository(db, config.TrackActivity)

	// 4. Domain components
	issuer := auth.NewTokenIssuer(config.AuthTokenSecret, config.AuthTokenDuration)
	scorer, err := spam.NewScorer(spam.DefaultRules())
	if err != nil {
		return exitRuntime, fmt.Errorf("spam scorer init failed: %w", err)
	}
	san := sanitizer.New()

	verifiers := []webhook.Verifier{
		webhook.NewVerifier(webhook.SchemeSimple, config.InboundWebhookSecret),
		webhook.NewVerifier(webhook.SchemeTimestamped, config.MailgunWebhookSigningKey),
	}

	// 5. External providers
	resendMailer := mailer.NewResendMailer(config.ResendAPIKey)
	stripeProvider := payments.NewStripeProvider(config.StripeAPIKey)

	// 6. Services
	authSvc := services.NewAuthService(profiles, issuer)
	profileSvc := services.NewProfileService(profiles, activity, config.AdminEmail, logger)
	betaSvc := services.NewBetaService(betaCodes, profiles, config.AdminEmail)
	billingSvc := services.NewBillingService(stripeProvider, profiles, config.CheckoutSuccessURL, config.CheckoutCancelURL)
	mailSvc := services.NewMailService(resendMailer, messages, san, config.OutboundFromAddress, logger)
	inboundSvc := services.NewInboundService(
		verifiers, scorer, san, messages,
		internal.SplitList(config.SpamBlacklist),
		internal.SplitList(config.SpamWhitelist),
		logger,
	)

	// 7. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 8. Observability
	monitor := observability.NewMonitor(logger)
	go monitor.Listen(ctx)

	// 9. HTTP Server Setup
	server := api.NewServer(authSvc, profileSvc, betaSvc, billingSvc, mailSvc, inboundSvc, monitor, api.Options{
		RateLimitMaxRequests: config.RateLimitMaxRequests,
		RateLimitWindow:      config.RateLimitWindow,
		MaintenanceMode:      config.MaintenanceMode,
		DefaultPriceRef:      config.SubscriptionPriceID,
	}, logger)

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	httpServer := &http.Server{
		Addr:              address,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Use an error channel to capture ListenAndServe() issues
	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 10. Wait for Stop or Error
	select {
	case <-ctx.Done():
		logger.Info("Shutting down gracefully...")
	case err := <-errChan:
		return exitRuntime, err
	}

	// 11. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return exitRuntime, fmt.Errorf("shutdown failed: %w", err)
	}
	logger.Info("Program stopped cleanly")

	return exitOK, nil
}
