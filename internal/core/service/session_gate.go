package service

import (
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nebsit/hr-gateway/internal/core/domain"
)

// GateOutcome names the branch the session gate took.
type GateOutcome string

const (
	GateAllowed      GateOutcome = "allowed"
	GateUnprotected  GateOutcome = "unprotected"
	GateNoToken      GateOutcome = "no_token"
	GateInvalidToken GateOutcome = "invalid_token"
	GateExpired      GateOutcome = "expired"
	GateUnauthorized GateOutcome = "unauthorized"
)

// GateDecision is the result of checking one navigation.
type GateDecision struct {
	Outcome GateOutcome
	// Redirect is the login location; empty when the request may proceed.
	Redirect string
	// ClearCookie asks the caller to delete the stale access token cookie.
	ClearCookie bool
	// Session is populated only when Outcome is GateAllowed.
	Session domain.Session
}

// Allowed reports whether the request may proceed unmodified.
func (d GateDecision) Allowed() bool {
	return d.Redirect == ""
}

type SessionGateConfig struct {
	ProtectedPrefix string
	LoginPath       string
	AllowedRoles    []string
	// VerifySecret switches the gate from advisory decoding to HS256
	// signature verification when non-empty.
	VerifySecret string
}

// SessionGate decides whether a navigation into the protected area may
// proceed. It never performs network I/O.
//
// Without a VerifySecret the token signature is not checked: the cookie is
// trusted because this gateway wrote it from a backend login reply. That
// makes the role check advisory; a client able to forge the cookie passes.
type SessionGate struct {
	prefix  string
	login   string
	allowed map[string]struct{}
	secret  []byte
	parser  *jwt.Parser
	now     func() time.Time
}

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func NewSessionGate(cfg SessionGateConfig) *SessionGate {
	g := &SessionGate{
		prefix:  strings.TrimSuffix(cfg.ProtectedPrefix, "/"),
		login:   cfg.LoginPath,
		allowed: make(map[string]struct{}, len(cfg.AllowedRoles)),
		// exp is checked by Decide so expiry and decode failures share one path.
		parser: jwt.NewParser(jwt.WithoutClaimsValidation()),
		now:    time.Now,
	}
	if g.prefix == "" {
		g.prefix = "/dashboard"
	}
	if g.login == "" {
		g.login = "/login"
	}
	for _, r := range cfg.AllowedRoles {
		g.allowed[domain.NormalizeRole(r)] = struct{}{}
	}
	if len(g.allowed) == 0 {
		g.allowed[domain.RoleAdmin] = struct{}{}
		g.allowed[domain.RoleHR] = struct{}{}
	}
	if cfg.VerifySecret != "" {
		g.secret = []byte(cfg.VerifySecret)
	}
	return g
}

// Protects reports whether path falls under the protected prefix.
func (g *SessionGate) Protects(path string) bool {
	return path == g.prefix || strings.HasPrefix(path, g.prefix+"/")
}

// Verifying reports whether token signatures are checked.
func (g *SessionGate) Verifying() bool {
	return g.secret != nil
}

// Decide checks the access token stored for a request to path.
func (g *SessionGate) Decide(path, token string) GateDecision {
	if !g.Protects(path) {
		return GateDecision{Outcome: GateUnprotected}
	}

	if token == "" {
		return GateDecision{
			Outcome:  GateNoToken,
			Redirect: g.loginURL(url.Values{"from": {path}}),
		}
	}

	claims, err := g.decode(token)
	if err != nil {
		return GateDecision{Outcome: GateInvalidToken, Redirect: g.login, ClearCookie: true}
	}

	var exp time.Time
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
		if !g.now().Before(exp) {
			return GateDecision{Outcome: GateExpired, Redirect: g.login, ClearCookie: true}
		}
	}

	role := domain.NormalizeRole(claims.Role)
	if _, ok := g.allowed[role]; !ok {
		return GateDecision{
			Outcome:  GateUnauthorized,
			Redirect: g.loginURL(url.Values{"error": {"unauthorized"}}),
		}
	}

	return GateDecision{
		Outcome: GateAllowed,
		Session: domain.Session{AccessToken: token, Role: role, ExpiresAt: exp},
	}
}

func (g *SessionGate) decode(token string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	if g.secret == nil {
		if _, _, err := g.parser.ParseUnverified(token, claims); err != nil {
			return nil, err
		}
		return claims, nil
	}

	tkn, err := g.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return g.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return claims, nil
}

func (g *SessionGate) loginURL(q url.Values) string {
	return g.login + "?" + q.Encode()
}
