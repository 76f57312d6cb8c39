package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/nebsit/hr-gateway/internal/core/domain"
	"github.com/nebsit/hr-gateway/internal/core/ports"
	"github.com/nebsit/hr-gateway/internal/pkg/fingerprint"
)

// AuthConfig selects the post-login landing route by role.
type AuthConfig struct {
	AdminLanding    string
	UserLanding     string
	PrivilegedRoles []string
}

// AuthService relays credential operations to the backend and derives the
// session artefacts (tokens, landing route) from its replies.
type AuthService struct {
	gateway  ports.AuthGateway
	guard    ports.InFlightGuard
	profiles ports.ProfileCache
	activity ports.ActivityRecorder
	cfg      AuthConfig
	logger   zerolog.Logger
	now      func() time.Time
}

func NewAuthService(
	gateway ports.AuthGateway,
	guard ports.InFlightGuard,
	profiles ports.ProfileCache,
	activity ports.ActivityRecorder,
	cfg AuthConfig,
	logger zerolog.Logger,
) *AuthService {
	if cfg.AdminLanding == "" {
		cfg.AdminLanding = "/dashboard/admin/user-management"
	}
	if cfg.UserLanding == "" {
		cfg.UserLanding = "/dashboard/user/ai-chatbot"
	}
	if len(cfg.PrivilegedRoles) == 0 {
		cfg.PrivilegedRoles = []string{domain.RoleAdmin, domain.RoleHR}
	}
	if activity == nil {
		activity = nopRecorder{}
	}
	return &AuthService{
		gateway:  gateway,
		guard:    guard,
		profiles: profiles,
		activity: activity,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*ports.AuthResult, error) {
	in.Email = strings.TrimSpace(in.Email)
	actor := fingerprint.Of(strings.ToLower(in.Email))

	release, err := acquire(ctx, s.guard, "signup:"+actor)
	if err != nil {
		return nil, err
	}
	defer release()

	reply, err := s.gateway.Signup(ctx, in)
	if err != nil {
		s.record(actor, "", domain.ActionSignup, "", err)
		return nil, err
	}
	s.record(actor, "", domain.ActionSignup, "", nil)
	return &ports.AuthResult{Reply: reply, Tokens: extractTokens(reply)}, nil
}

func (s *AuthService) ResendSignupOTP(ctx context.Context, email string) (*ports.BackendReply, error) {
	return s.gateway.ResendSignupOTP(ctx, strings.TrimSpace(email))
}

func (s *AuthService) VerifySignupOTP(ctx context.Context, email, otp string) (*ports.BackendReply, error) {
	return s.gateway.VerifySignupOTP(ctx, strings.TrimSpace(email), strings.TrimSpace(otp))
}

// Login forwards the credentials. A reply with success:true and an access
// token yields Tokens and the landing route for the role.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = strings.TrimSpace(email)
	actor := fingerprint.Of(strings.ToLower(email))

	release, err := acquire(ctx, s.guard, "login:"+actor)
	if err != nil {
		return nil, err
	}
	defer release()

	reply, err := s.gateway.Login(ctx, email, password)
	if err != nil {
		s.record(actor, "", domain.ActionLogin, "", err)
		return nil, err
	}

	res := &ports.AuthResult{Reply: reply, Tokens: extractTokens(reply)}
	if res.Tokens == nil {
		s.logger.Warn().Bool("success", reply.Success).Msg("login reply carried no access token")
		s.record(actor, "", domain.ActionLogin, "", errors.New("no access token in reply"))
		return res, nil
	}

	res.RedirectTo = s.LandingFor(res.Tokens.Role)
	s.record(actor, res.Tokens.Role, domain.ActionLogin, "", nil)
	return res, nil
}

func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*ports.AuthResult, error) {
	if refreshToken == "" {
		return nil, domain.ErrNoRefreshToken
	}
	reply, err := s.gateway.RefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{Reply: reply, Tokens: extractTokens(reply)}, nil
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) (*ports.BackendReply, error) {
	return s.gateway.ForgotPassword(ctx, strings.TrimSpace(email))
}

func (s *AuthService) ResendForgotOTP(ctx context.Context, email string) (*ports.BackendReply, error) {
	return s.gateway.ResendForgotOTP(ctx, strings.TrimSpace(email))
}

func (s *AuthService) VerifyResetOTP(ctx context.Context, email, otp string) (*ports.BackendReply, error) {
	return s.gateway.VerifyResetOTP(ctx, strings.TrimSpace(email), strings.TrimSpace(otp))
}

func (s *AuthService) SetNewPassword(ctx context.Context, resetToken, newPassword string) (*ports.BackendReply, error) {
	actor := fingerprint.Of(resetToken)
	reply, err := s.gateway.SetNewPassword(ctx, resetToken, newPassword)
	s.record(actor, "", domain.ActionPasswordReset, "", err)
	return reply, err
}

// CurrentUser returns the profile behind the session, from cache when
// fresh. A backend 401 or success:false reply maps to ErrUnauthenticated.
func (s *AuthService) CurrentUser(ctx context.Context, session domain.Session) (*domain.User, error) {
	if !session.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	key := fingerprint.Of(session.AccessToken)

	if s.profiles != nil {
		cached, err := s.profiles.Get(ctx, key)
		if err != nil {
			s.logger.Warn().Err(err).Msg("profile cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	reply, err := s.gateway.CurrentUser(ctx, session.AccessToken)
	if err != nil {
		var be *domain.BackendError
		if errors.As(err, &be) && be.Status == http.StatusUnauthorized {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}
	if !reply.Success {
		return nil, domain.ErrUnauthenticated
	}

	user, err := decodeUser(reply.Data)
	if err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}

	if s.profiles != nil {
		if err := s.profiles.Set(ctx, key, user); err != nil {
			s.logger.Warn().Err(err).Msg("profile cache write failed")
		}
	}
	return user, nil
}

// Logout forgets the cached profile. Clearing cookies is the caller's job.
func (s *AuthService) Logout(ctx context.Context, session domain.Session) error {
	if !session.Authenticated() {
		return nil
	}
	key := fingerprint.Of(session.AccessToken)
	if s.profiles != nil {
		if err := s.profiles.Delete(ctx, key); err != nil {
			s.logger.Warn().Err(err).Msg("profile cache delete failed")
		}
	}
	s.record(key, session.Role, domain.ActionLogout, "", nil)
	return nil
}

// LandingFor returns the route a freshly signed-in user is sent to.
func (s *AuthService) LandingFor(role string) string {
	role = domain.NormalizeRole(role)
	for _, r := range s.cfg.PrivilegedRoles {
		if domain.NormalizeRole(r) == role {
			return s.cfg.AdminLanding
		}
	}
	return s.cfg.UserLanding
}

func (s *AuthService) record(actor, role, action, subject string, err error) {
	a := domain.Activity{
		Actor:      actor,
		Role:       role,
		Action:     action,
		Subject:    subject,
		Outcome:    domain.OutcomeSuccess,
		OccurredAt: s.now().UTC(),
	}
	if err != nil {
		a.Outcome = domain.OutcomeFailure
		a.Detail = err.Error()
	}
	s.activity.Record(a)
}

type tokenPayload struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Role         string `json:"role"`
	User         *struct {
		Role string `json:"role"`
	} `json:"user"`
}

// extractTokens reads {accessToken, refreshToken, role} from reply.data.
// The role falls back to data.user.role and then to the token's role claim.
func extractTokens(reply *ports.BackendReply) *ports.AuthTokens {
	if reply == nil || !reply.Success || len(reply.Data) == 0 {
		return nil
	}
	var p tokenPayload
	if err := json.Unmarshal(reply.Data, &p); err != nil || p.AccessToken == "" {
		return nil
	}

	role := p.Role
	if role == "" && p.User != nil {
		role = p.User.Role
	}
	if role == "" {
		role = roleClaim(p.AccessToken)
	}

	return &ports.AuthTokens{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		Role:         domain.NormalizeRole(role),
	}
}

func roleClaim(token string) string {
	claims := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	return claims.Role
}

// decodeUser accepts both data:{...user} and data:{user:{...}}.
func decodeUser(data json.RawMessage) (*domain.User, error) {
	if len(data) == 0 {
		return nil, errors.New("empty profile")
	}
	var wrapped struct {
		User *domain.User `json:"user"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.User != nil {
		return wrapped.User, nil
	}
	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
