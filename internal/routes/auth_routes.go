package routes

import (
	"database/sql"

	"github.com/go-chi/chi/v5"

	"authapi/internal/cache"
	"authapi/internal/config"
	"authapi/internal/handlers"
	"authapi/internal/logging"
	"authapi/internal/middleware"
	"authapi/internal/repository"
	"authapi/internal/services"
)

func RegisterAuthRoutes(router chi.Router, db *sql.DB, c cache.Cache, cfg *config.Config, log logging.Logger) {
	users := repository.NewUserRepository(db)
	resets := repository.NewPasswordResetRepository(c)
	hasher := services.NewBcryptHasher(cfg.BcryptCost)
	issuer := services.NewTokenIssuer(users, hasher, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	var mailer services.EmailSender
	if smtp := services.NewSMTPSender(cfg); smtp != nil {
		mailer = smtp
	}

	svc := services.NewAuthService(users, resets, hasher, issuer, mailer, cfg.ResetTokenTTL, log.With("component", "auth"))
	authHandler := handlers.NewAuthHandler(svc, log)

	// One limiter so the anonymous budget is shared across these endpoints.
	throttle := middleware.AnonThrottle(cfg.ThrottleRequests, cfg.ThrottleWindow)

	router.Post("/register/", authHandler.Register)
	router.With(throttle).Post("/login/", authHandler.Login)
	router.With(throttle).Post("/forgot-password/", authHandler.ForgotPassword)
	router.With(throttle).Post("/reset-password/", authHandler.ResetPassword)
	router.Post("/token/refresh/", authHandler.Refresh)
	router.With(middleware.JWTAuth(issuer)).Get("/me/", authHandler.Me)
}
