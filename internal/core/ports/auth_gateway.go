package ports

import (
	"context"
	"encoding/json"
)

// BackendReply is the standard envelope of the remote HR API. Raw holds the
// response body exactly as received so it can be relayed unchanged.
type BackendReply struct {
	Status  int             `json:"-"`
	Raw     json.RawMessage `json:"-"`
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Meta    json.RawMessage `json:"meta,omitempty"`
}

// SignupInput is the fixed signup payload.
type SignupInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// AuthGateway relays credential operations to the remote HR API. Every
// method returns the backend reply on 2xx and a *domain.BackendError
// otherwise.
type AuthGateway interface {
	Signup(ctx context.Context, in SignupInput) (*BackendReply, error)
	ResendSignupOTP(ctx context.Context, email string) (*BackendReply, error)
	VerifySignupOTP(ctx context.Context, email, otp string) (*BackendReply, error)
	Login(ctx context.Context, email, password string) (*BackendReply, error)
	RefreshToken(ctx context.Context, refreshToken string) (*BackendReply, error)
	ForgotPassword(ctx context.Context, email string) (*BackendReply, error)
	ResendForgotOTP(ctx context.Context, email string) (*BackendReply, error)
	VerifyResetOTP(ctx context.Context, email, otp string) (*BackendReply, error)
	SetNewPassword(ctx context.Context, resetToken, newPassword string) (*BackendReply, error)
	CurrentUser(ctx context.Context, accessToken string) (*BackendReply, error)
}
