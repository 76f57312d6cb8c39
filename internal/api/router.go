package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/nebsit/hr-gateway/docs"
	"github.com/nebsit/hr-gateway/internal/api/handler"
	"github.com/nebsit/hr-gateway/internal/api/middleware"
	"github.com/nebsit/hr-gateway/internal/api/session"
	"github.com/nebsit/hr-gateway/internal/core/ports"
	"github.com/nebsit/hr-gateway/internal/core/service"
	"github.com/nebsit/hr-gateway/internal/infrastructure/http/handlers"
	"github.com/nebsit/hr-gateway/internal/pkg/config"
)

// Deps are the wired services the router exposes.
type Deps struct {
	Config  *config.Config
	Log     zerolog.Logger
	Gate    *service.SessionGate
	Cookies *session.Cookies
	Auth    ports.AuthService
	Notices ports.NoticeService
	// Files serves GridFS attachments; nil for the other storage drivers.
	Files  handlers.FileSource
	Probes map[string]handlers.Probe
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	cfg := d.Config

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(middleware.Tracing())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem: "hrgateway_http",
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, echo.HeaderXRequestID},
		AllowCredentials: true,
	}))
	// The gate decides on the raw path, so it runs for every request and
	// lets anything outside the protected prefix through.
	e.Use(middleware.SessionGate(d.Gate, d.Cookies, d.Log))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Cookies, cfg.Session.LoginPath)
	noticeHandler := handler.NewNoticeHandler(d.Notices, cfg.Notice.MaxUploadBytes)

	// --- Auth routes ---
	burst := int(cfg.AuthRPS * 2)
	if burst < 1 {
		burst = 1
	}
	authLimiter := echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(cfg.AuthRPS),
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		}),
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
		},
	})
	auth := e.Group("/auth", authLimiter)
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/resend-signup-otp", authHandler.ResendSignupOTP)
	auth.POST("/verify-otp", authHandler.VerifyOTP)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh-token", authHandler.RefreshToken)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/resend-forgot-otp", authHandler.ResendForgotOTP)
	auth.POST("/verify-reset-otp", authHandler.VerifyResetOTP)
	auth.POST("/set-new-password", authHandler.SetNewPassword)
	auth.GET("/me", authHandler.Me)
	auth.POST("/logout", authHandler.Logout)

	// --- Notice board (behind the session gate) ---
	editors := middleware.RBAC(cfg.Notice.EditorRoles...)
	uploadLimit := echomiddleware.BodyLimit(fmt.Sprintf("%dK", cfg.Notice.MaxUploadBytes/1024+1024))

	notices := e.Group(cfg.Session.ProtectedPrefix + "/notices")
	notices.GET("", noticeHandler.List)
	notices.GET("/form-options", noticeHandler.FormOptions)
	notices.GET("/:id", noticeHandler.Get)
	notices.GET("/:id/attachment", noticeHandler.Attachment)
	notices.POST("", noticeHandler.Create, editors, uploadLimit)
	notices.PATCH("/:id/status", noticeHandler.UpdateStatus, editors)
	notices.DELETE("/:id", noticeHandler.Delete, editors)

	// --- Stored attachments (gridfs driver only) ---
	if d.Files != nil {
		e.GET("/files/:id", handlers.NewFilesHandler(d.Files).Serve)
	}

	// --- Health probes and operations (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Probes)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
