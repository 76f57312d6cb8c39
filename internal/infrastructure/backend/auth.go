package backend

import (
	"context"
	"net/http"

	"github.com/nebsit/hr-gateway/internal/core/ports"
)

// signupOTPType tags OTP verification as part of registration.
const signupOTPType = "SIGNUP"

// AuthGateway implements ports.AuthGateway over the remote /auth endpoints.
type AuthGateway struct {
	client *Client
}

func NewAuthGateway(client *Client) *AuthGateway {
	return &AuthGateway{client: client}
}

type emailBody struct {
	Email string `json:"email"`
}

type otpBody struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
	Type  string `json:"type,omitempty"`
}

func (g *AuthGateway) post(ctx context.Context, op, path string, body any) (*ports.BackendReply, error) {
	return g.client.do(ctx, request{op: op, method: http.MethodPost, path: path, body: body})
}

func (g *AuthGateway) Signup(ctx context.Context, in ports.SignupInput) (*ports.BackendReply, error) {
	return g.post(ctx, "auth.signup", "/auth/signup", in)
}

func (g *AuthGateway) ResendSignupOTP(ctx context.Context, email string) (*ports.BackendReply, error) {
	return g.post(ctx, "auth.resend_signup_otp", "/auth/resend-signup-otp", emailBody{Email: email})
}

func (g *AuthGateway) VerifySignupOTP(ctx context.Context, email, otp string) (*ports.BackendReply, error) {
	return g.post(ctx, "auth.verify_otp", "/auth/verify-otp", otpBody{Email: email, OTP: otp, Type: signupOTPType})
}

func (g *AuthGateway) Login(ctx context.Context, email, password string) (*ports.BackendReply, error) {
	return g.post(ctx, "auth.login", "/auth/login", struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{email, password})
}

func (g *AuthGateway) RefreshToken(ctx context.Context, refreshToken string) (*ports.BackendReply, error) {
	return g.post(ctx, "auth.refresh_token", "/auth/refresh-token", struct {
		RefreshToken string `json:"refreshToken"`
	}{refreshToken})
}

func (g *AuthGateway) ForgotPassword(ctx context.Context, email string) (*ports.BackendReply, error) {
	return g.post(ctx, "auth.forgot_password", "/auth/forgot-password", emailBody{Email: email})
}

func (g *AuthGateway) ResendForgotOTP(ctx context.Context, email string) (*ports.BackendReply, error) {
	return g.post(ctx, "auth.resend_forgot_otp", "/auth/resend-forgot-otp", emailBody{Email: email})
}

func (g *AuthGateway) VerifyResetOTP(ctx context.Context, email, otp string) (*ports.BackendReply, error) {
	return g.post(ctx, "auth.verify_reset_otp", "/auth/verify-reset-otp", otpBody{Email: email, OTP: otp})
}

func (g *AuthGateway) SetNewPassword(ctx context.Context, resetToken, newPassword string) (*ports.BackendReply, error) {
	return g.post(ctx, "auth.set_new_password", "/auth/set-new-password", struct {
		ResetToken  string `json:"resetToken"`
		NewPassword string `json:"newPassword"`
	}{resetToken, newPassword})
}

func (g *AuthGateway) CurrentUser(ctx context.Context, accessToken string) (*ports.BackendReply, error) {
	return g.client.do(ctx, request{op: "auth.me", method: http.MethodGet, path: "/auth/me", token: accessToken})
}
