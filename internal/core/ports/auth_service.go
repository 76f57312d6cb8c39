package ports

import (
	"context"

	"github.com/nebsit/hr-gateway/internal/core/domain"
)

// AuthTokens are the credentials found in a successful login, signup or
// refresh reply.
type AuthTokens struct {
	AccessToken  string
	RefreshToken string
	Role         string // normalised
}

// AuthResult is the outcome of an operation that may establish a session.
type AuthResult struct {
	Reply *BackendReply
	// Tokens is nil when the reply carried no access token.
	Tokens *AuthTokens
	// RedirectTo is the landing route for the role, set on login only.
	RedirectTo string
}

type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*AuthResult, error)
	ResendSignupOTP(ctx context.Context, email string) (*BackendReply, error)
	VerifySignupOTP(ctx context.Context, email, otp string) (*BackendReply, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResult, error)
	ForgotPassword(ctx context.Context, email string) (*BackendReply, error)
	ResendForgotOTP(ctx context.Context, email string) (*BackendReply, error)
	VerifyResetOTP(ctx context.Context, email, otp string) (*BackendReply, error)
	SetNewPassword(ctx context.Context, resetToken, newPassword string) (*BackendReply, error)
	CurrentUser(ctx context.Context, session domain.Session) (*domain.User, error)
	Logout(ctx context.Context, session domain.Session) error
}

// ProfileCache keeps recently fetched profiles for a short interval. Get
// returns (nil, nil) on a miss.
type ProfileCache interface {
	Get(ctx context.Context, key string) (*domain.User, error)
	Set(ctx context.Context, key string, user *domain.User) error
	Delete(ctx context.Context, key string) error
}

// InFlightGuard rejects a second concurrent submission of the same
// operation. Acquire returns domain.ErrInFlight when the key is held.
type InFlightGuard interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}
