package auth

import (
	"context"
	"log"
)

// ResetNotifier delivers a password-reset link out of band. Delivery is
// best-effort; failures never surface to the requesting client.
type ResetNotifier interface {
	PasswordResetRequested(ctx context.Context, email, resetURL string) error
}

// LogNotifier writes the reset link to the process log. It stands in for a
// real mail transport in development and tests.
type LogNotifier struct{}

func (LogNotifier) PasswordResetRequested(_ context.Context, email, resetURL string) error {
	log.Printf("password reset requested for %s: %s", email, resetURL)
	return nil
}
