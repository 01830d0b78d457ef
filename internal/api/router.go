package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	_ "github.com/rohits-web03/piiquante/docs"
	"github.com/rohits-web03/piiquante/internal/api/handlers"
	"github.com/rohits-web03/piiquante/internal/api/middleware"
	"github.com/rohits-web03/piiquante/internal/rate"
)

// RouterConfig carries everything the router wires together.
type RouterConfig struct {
	Auth    *handlers.AuthHandler
	Sauces  *handlers.SauceHandler
	Authn   middleware.Authenticator
	Limiter rate.Limiter
	Log     *zap.Logger
	Cors    cors.Options

	LoginPerMinute int
	VotePerMinute  int

	// ImagesDir is served under /images/ when set.
	ImagesDir string
}

func SetupRouter(cfg RouterConfig) http.Handler {
	mainMux := http.NewServeMux()
	c := cors.New(cfg.Cors)

	// ---------- PUBLIC ROUTES ----------
	mainMux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mainMux.HandleFunc("/docs/", httpSwagger.WrapHandler)

	if cfg.ImagesDir != "" {
		mainMux.Handle("GET /images/", http.StripPrefix("/images/", http.FileServer(http.Dir(cfg.ImagesDir))))
	}

	loginLimit := middleware.RateLimit(cfg.Limiter, "login", cfg.LoginPerMinute, time.Minute, middleware.ByClientIP, cfg.Log)

	authMux := http.NewServeMux()
	authMux.HandleFunc("POST /signup", cfg.Auth.Signup)
	authMux.Handle("POST /login", loginLimit(http.HandlerFunc(cfg.Auth.Login)))
	authMux.HandleFunc("POST /logout", cfg.Auth.Logout)
	authMux.HandleFunc("GET /google/login", cfg.Auth.GoogleLogin)
	authMux.HandleFunc("GET /google/callback", cfg.Auth.GoogleCallback)

	mainMux.Handle("/api/auth/",
		http.StripPrefix("/api/auth", authMux),
	)

	// ---------- PROTECTED ROUTES ----------
	voteLimit := middleware.RateLimit(cfg.Limiter, "vote", cfg.VotePerMinute, time.Minute, middleware.ByUser, cfg.Log)

	sauceMux := http.NewServeMux()
	sauceMux.HandleFunc("GET /api/sauces", cfg.Sauces.List)
	sauceMux.HandleFunc("POST /api/sauces", cfg.Sauces.Create)
	sauceMux.HandleFunc("GET /api/sauces/{id}", cfg.Sauces.Get)
	sauceMux.HandleFunc("PUT /api/sauces/{id}", cfg.Sauces.Update)
	sauceMux.HandleFunc("DELETE /api/sauces/{id}", cfg.Sauces.Delete)
	sauceMux.Handle("POST /api/sauces/{id}/like", voteLimit(http.HandlerFunc(cfg.Sauces.Like)))

	protected := middleware.AuthMiddleware(cfg.Authn)(sauceMux)
	mainMux.Handle("/api/sauces", protected)
	mainMux.Handle("/api/sauces/", protected)

	cfg.Log.Info("Router initialized")
	handler := c.Handler(mainMux)
	handler = middleware.Logger(cfg.Log)(handler)
	return handler
}
