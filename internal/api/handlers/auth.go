package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/rohits-web03/piiquante/internal/api/middleware"
	"github.com/rohits-web03/piiquante/internal/api/services"
	"github.com/rohits-web03/piiquante/internal/apperr"
	"github.com/rohits-web03/piiquante/internal/utils"
)

type AuthHandler struct {
	users  *services.UserService
	google services.IdentityProvider // nil when Google sign-in is not configured
	log    *zap.Logger
	secure bool
}

func NewAuthHandler(users *services.UserService, google services.IdentityProvider, log *zap.Logger, secureCookies bool) *AuthHandler {
	return &AuthHandler{users: users, google: google, log: log, secure: secureCookies}
}

type Credentials = services.Credentials

// POST /api/auth/signup
// Signup godoc
// @Summary Create an account
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body Credentials true "Email and password"
// @Success 201 {object} utils.Payload "User registered successfully"
// @Failure 400 {object} utils.Payload "Invalid input or email already used"
// @Router /api/auth/signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input Credentials
	if err := decodeJSON(r, &input, true); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	if _, err := h.users.Signup(r.Context(), input.Email, input.Password); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "User registered successfully",
	})
}

// POST /api/auth/login
// Login godoc
// @Summary Log in with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body Credentials true "Email and password"
// @Success 200 {object} services.Session
// @Failure 401 {object} utils.Payload "Invalid credentials"
// @Failure 429 {object} utils.Payload "Too many attempts"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input Credentials
	if err := decodeJSON(r, &input, true); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	session, err := h.users.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	h.setTokenCookie(w, session.Token)
	utils.WriteJSON(w, http.StatusOK, session)
}

// POST /api/auth/logout
// Logout godoc
// @Summary Clear the session cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.Payload "Logged out successfully"
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   h.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Logged out successfully",
	})
}

// GET /api/auth/google/login
// GoogleLogin godoc
// @Summary Start Google sign-in
// @Tags Auth
// @Param redirect query string false "login or register"
// @Success 307
// @Router /api/auth/google/login [get]
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		googleDisabled(w)
		return
	}

	flow := services.ParseFlow(r.URL.Query().Get("redirect"))
	state, err := GenerateState(map[string]string{"flow": string(flow)})
	if err != nil {
		writeError(w, r, h.log, apperr.Wrap(apperr.Internal, "Failed to generate OAuth state", err))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/api/auth/google",
		MaxAge:   600,
		Secure:   h.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.google.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// GET /api/auth/google/callback
// GoogleCallback godoc
// @Summary Finish Google sign-in
// @Tags Auth
// @Produce json
// @Param state query string true "OAuth state"
// @Param code query string true "Authorization code"
// @Success 200 {object} services.Session
// @Failure 400 {object} utils.Payload "Invalid OAuth state"
// @Failure 401 {object} utils.Payload "No account for this Google user"
// @Router /api/auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		googleDisabled(w)
		return
	}

	state := r.FormValue("state")
	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != state {
		writeError(w, r, h.log, apperr.New(apperr.InvalidInput, "Invalid OAuth state"))
		return
	}
	stateData, err := DecodeState(state)
	if err != nil {
		writeError(w, r, h.log, apperr.Wrap(apperr.InvalidInput, "Invalid OAuth state", err))
		return
	}

	email, err := h.google.Email(r.Context(), r.FormValue("code"))
	if err != nil {
		h.log.Warn("google exchange failed", zap.Error(err))
		writeError(w, r, h.log, apperr.Wrap(apperr.Unauthenticated, "Google sign-in failed", err))
		return
	}

	session, err := h.users.GoogleSignIn(r.Context(), email, services.ParseFlow(stateData["flow"]))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/api/auth/google", MaxAge: -1})
	h.setTokenCookie(w, session.Token)
	utils.WriteJSON(w, http.StatusOK, session)
}

func (h *AuthHandler) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   h.users.TokenTTL(),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func googleDisabled(w http.ResponseWriter) {
	utils.JSONResponse(w, http.StatusNotImplemented, utils.Payload{
		Success: false,
		Message: "Google sign-in is not configured",
	})
}
