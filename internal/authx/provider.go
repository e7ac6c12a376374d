package authx

import (
	"context"

	"github.com/valeri-app/valeri/internal/models"
)

// Provider is the boundary to the hosted auth service. Token issuance,
// password hashing, captcha verification and identity storage all live on
// the provider's side; this application only consumes them.
type Provider interface {
	SignUp(ctx context.Context, email, password, captchaToken string, metadata map[string]any) (*models.User, error)
	SignInWithPassword(ctx context.Context, email, password, captchaToken string) (*models.Session, error)
	GetUser(ctx context.Context, accessToken string) (*models.User, error)
	SignOut(ctx context.Context, accessToken string) error
	ResetPasswordForEmail(ctx context.Context, email, redirectTo, captchaToken string) error
	UpdatePassword(ctx context.Context, accessToken, newPassword string) error

	// AdminDeleteUser removes the identity itself. Requires the privileged
	// service-role credential, never a caller token.
	AdminDeleteUser(ctx context.Context, userID string) error
}
