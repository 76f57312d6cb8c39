package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nebsit/hr-gateway/internal/api/session"
	"github.com/nebsit/hr-gateway/internal/core/domain"
	"github.com/nebsit/hr-gateway/internal/core/ports"
)

const loginSuccessMessage = "Login successful!"

// AuthHandler relays credential operations to the HR API and keeps the
// session cookies in step with the replies.
type AuthHandler struct {
	authService ports.AuthService
	cookies     *session.Cookies
	loginPath   string
}

func NewAuthHandler(authService ports.AuthService, cookies *session.Cookies, loginPath string) *AuthHandler {
	if loginPath == "" {
		loginPath = "/login"
	}
	return &AuthHandler{authService: authService, cookies: cookies, loginPath: loginPath}
}

// Signup registers a new account.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Account details"
// @Success      200   {object}  map[string]any
// @Failure      422   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Signup(c.Request().Context(), ports.SignupInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}
	if res.Tokens != nil {
		h.cookies.SetTokens(c, *res.Tokens)
	}
	return relay(c, res.Reply)
}

// ResendSignupOTP asks the backend to send a new signup code.
//
// @Summary      Resend signup OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      emailRequest  true  "Account email"
// @Success      200   {object}  map[string]any
// @Failure      422   {object}  errorResponse
// @Router       /auth/resend-signup-otp [post]
func (h *AuthHandler) ResendSignupOTP(c echo.Context) error {
	var req emailRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	reply, err := h.authService.ResendSignupOTP(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}
	return relay(c, reply)
}

// VerifyOTP confirms a signup code.
//
// @Summary      Verify signup OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      otpRequest  true  "Email and 6 digit code"
// @Success      200   {object}  map[string]any
// @Failure      422   {object}  errorResponse
// @Router       /auth/verify-otp [post]
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req otpRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	reply, err := h.authService.VerifySignupOTP(c.Request().Context(), req.Email, req.OTP)
	if err != nil {
		return err
	}
	return relay(c, reply)
}

// Login authenticates against the HR API and stores the session cookies.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	if res.Tokens == nil {
		return relay(c, res.Reply)
	}

	h.cookies.SetTokens(c, *res.Tokens)
	return c.JSON(http.StatusOK, withLanding(res))
}

// withLanding keeps every field of the backend login reply and adds the
// landing route, the normalised role and the notification text.
func withLanding(res *ports.AuthResult) map[string]json.RawMessage {
	body := map[string]json.RawMessage{}
	if err := json.Unmarshal(res.Reply.Raw, &body); err != nil || body == nil {
		body = map[string]json.RawMessage{}
		body["success"], _ = json.Marshal(res.Reply.Success)
		body["message"], _ = json.Marshal(res.Reply.Message)
		if len(res.Reply.Data) > 0 {
			body["data"] = res.Reply.Data
		}
	}
	body["role"], _ = json.Marshal(res.Tokens.Role)
	body["redirect_to"], _ = json.Marshal(res.RedirectTo)
	body["notification"], _ = json.Marshal(loginSuccessMessage)
	return body
}

// RefreshToken exchanges the refresh token cookie for a new access token.
//
// @Summary      Refresh access token
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  errorResponse
// @Router       /auth/refresh-token [post]
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	res, err := h.authService.RefreshToken(c.Request().Context(), session.RefreshToken(c))
	if err != nil {
		return err
	}
	if res.Tokens != nil {
		h.cookies.SetTokens(c, *res.Tokens)
	}
	return relay(c, res.Reply)
}

// ForgotPassword starts the password reset flow.
//
// @Summary      Forgot password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      emailRequest  true  "Account email"
// @Success      200   {object}  map[string]any
// @Failure      422   {object}  errorResponse
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req emailRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	reply, err := h.authService.ForgotPassword(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}
	return relay(c, reply)
}

// ResendForgotOTP sends a new password reset code.
//
// @Summary      Resend password reset OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      emailRequest  true  "Account email"
// @Success      200   {object}  map[string]any
// @Router       /auth/resend-forgot-otp [post]
func (h *AuthHandler) ResendForgotOTP(c echo.Context) error {
	var req emailRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	reply, err := h.authService.ResendForgotOTP(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}
	return relay(c, reply)
}

// VerifyResetOTP checks a password reset code and returns the reset token.
//
// @Summary      Verify password reset OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      otpRequest  true  "Email and 6 digit code"
// @Success      200   {object}  map[string]any
// @Router       /auth/verify-reset-otp [post]
func (h *AuthHandler) VerifyResetOTP(c echo.Context) error {
	var req otpRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	reply, err := h.authService.VerifyResetOTP(c.Request().Context(), req.Email, req.OTP)
	if err != nil {
		return err
	}
	return relay(c, reply)
}

// SetNewPassword completes the reset flow.
//
// @Summary      Set new password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      setNewPasswordRequest  true  "Reset token and new password"
// @Success      200   {object}  map[string]any
// @Router       /auth/set-new-password [post]
func (h *AuthHandler) SetNewPassword(c echo.Context) error {
	var req setNewPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	reply, err := h.authService.SetNewPassword(c.Request().Context(), req.ResetToken, req.NewPassword)
	if err != nil {
		return err
	}
	return relay(c, reply)
}

// Me returns the profile of the signed-in user.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  meResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := h.authService.CurrentUser(c.Request().Context(), session.FromCookie(c))
	if errors.Is(err, domain.ErrUnauthenticated) {
		return c.JSON(http.StatusUnauthorized, errorResponse{
			Error:      "not authenticated",
			RedirectTo: h.loginPath,
		})
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meResponse{Success: true, Data: user})
}

// Logout clears the session cookies and the cached profile.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context(), session.FromCookie(c)); err != nil {
		return err
	}
	h.cookies.ClearAll(c)
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Logged out"})
}

// bindAndValidate decodes the request body and runs the struct rules.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}

// relay answers with the backend body exactly as received.
func relay(c echo.Context, reply *ports.BackendReply) error {
	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}
	if len(reply.Raw) == 0 {
		return c.JSON(status, reply)
	}
	return c.JSONBlob(status, reply.Raw)
}
