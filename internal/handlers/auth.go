package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"tour-booking-platform/internal/api"
	"tour-booking-platform/internal/auth"
	"tour-booking-platform/internal/middleware"
	"tour-booking-platform/internal/models"
)

// AuthHandler handles login, registration and session lifecycle. All
// credential checks happen on the backend; this side only forwards
// them and keeps the resulting token pair.
type AuthHandler struct {
	client   *api.Client
	sessions *auth.SessionStore
	secure   bool
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(client *api.Client, sessions *auth.SessionStore, secure bool) *AuthHandler {
	return &AuthHandler{
		client:   client,
		sessions: sessions,
		secure:   secure,
	}
}

type loginPageData struct {
	pageBase
	Email    string
	Error    string
	Redirect string
}

// LoginPage displays the login form
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.GetAuthFromContext(r.Context()) != nil {
		handleRedirect(w, r, "/", http.StatusSeeOther)
		return
	}
	renderPage(w, "login.html", loginPageData{
		pageBase: newPageBase(r, "Sign in", 0),
		Redirect: r.URL.Query().Get("redirect"),
	})
}

// Login processes the login form
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	data := loginPageData{
		pageBase: newPageBase(r, "Sign in", 0),
		Email:    email,
		Redirect: r.URL.Query().Get("redirect"),
	}

	if email == "" || password == "" {
		data.Error = "Email and password are required"
		w.WriteHeader(http.StatusUnprocessableEntity)
		renderPage(w, "login.html", data)
		return
	}

	pair, err := h.client.Login(r.Context(), models.LoginRequest{Email: email, Password: password})
	if err != nil {
		if api.IsUnauthorized(err) || api.IsStatus(err, http.StatusBadRequest) {
			data.Error = "Invalid email or password"
		} else {
			data.Error = "Sign in is unavailable right now. Please try again."
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		renderPage(w, "login.html", data)
		return
	}

	// Overwrite whatever pair the session held; a login response is
	// always the freshest credential.
	ctx := &auth.Context{SessionToken: pair.SessionToken, RefreshToken: pair.RefreshToken}
	if err := h.sessions.Save(r, w, ctx); err != nil {
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}
	auth.WriteAuthCookies(w, ctx, h.secure)

	target := data.Redirect
	if target == "" || !strings.HasPrefix(target, "/") {
		target = "/"
	}
	handleRedirect(w, r, target, http.StatusSeeOther)
}

type registerPageData struct {
	pageBase
	Name    string
	Email   string
	Error   string
	Message string
}

// RegisterPage displays the registration form
func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	renderPage(w, "register.html", registerPageData{pageBase: newPageBase(r, "Sign up", 0)})
}

// Register processes the registration form
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	req := models.RegisterRequest{
		Name:            strings.TrimSpace(r.FormValue("name")),
		Email:           strings.TrimSpace(r.FormValue("email")),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirm_password"),
	}

	data := registerPageData{
		pageBase: newPageBase(r, "Sign up", 0),
		Name:     req.Name,
		Email:    req.Email,
	}

	switch {
	case req.Name == "" || req.Email == "" || req.Password == "":
		data.Error = "Name, email and password are required"
	case len(req.Password) < 8:
		data.Error = "Password must be at least 8 characters"
	case req.Password != req.ConfirmPassword:
		data.Error = "Passwords do not match"
	}
	if data.Error != "" {
		w.WriteHeader(http.StatusUnprocessableEntity)
		renderPage(w, "register.html", data)
		return
	}

	if err := h.client.Register(r.Context(), req); err != nil {
		var apiErr *api.Error
		switch {
		case api.IsStatus(err, http.StatusConflict):
			data.Error = "An account with this email already exists"
		case errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest && apiErr.Message() != "":
			data.Error = apiErr.Message()
		default:
			data.Error = "Registration is unavailable right now. Please try again."
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		renderPage(w, "register.html", data)
		return
	}

	data.Message = "Account created. Check your email to confirm it, then sign in."
	renderPage(w, "register.html", data)
}

// ConfirmAccount activates an account from the emailed confirmation link
func (h *AuthHandler) ConfirmAccount(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Missing confirmation token", http.StatusBadRequest)
		return
	}
	if err := h.client.ConfirmAccount(r.Context(), token); err != nil {
		http.Error(w, "Confirmation failed", http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

// Refresh exchanges the refresh token for a new session token. Called
// when a backend request came back 401 but a refresh token is present.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ac := middleware.GetAuthFromContext(r.Context())
	if ac == nil || ac.RefreshToken == "" {
		handleRedirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	pair, err := h.client.RefreshToken(r.Context(), ac.RefreshToken)
	if err != nil {
		// Refresh token is spent or expired. Drop the whole session.
		h.sessions.Clear(r, w)
		auth.ClearAuthCookies(w, h.secure)
		handleRedirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	fresh := &auth.Context{SessionToken: pair.SessionToken, RefreshToken: pair.RefreshToken}
	if err := h.sessions.Save(r, w, fresh); err != nil {
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}
	auth.WriteAuthCookies(w, fresh, h.secure)

	target := r.URL.Query().Get("redirect")
	if target == "" || !strings.HasPrefix(target, "/") {
		target = "/"
	}
	handleRedirect(w, r, target, http.StatusSeeOther)
}

// Logout tears down the session on both sides
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ac := middleware.GetAuthFromContext(r.Context())
	if ac != nil {
		// Best effort; the local session is cleared either way.
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := h.client.Logout(ctx, ac); err != nil {
			log.Printf("logout: backend revoke failed: %v", err)
		}
	}

	h.sessions.Clear(r, w)
	auth.ClearAuthCookies(w, h.secure)
	handleRedirect(w, r, "/", http.StatusSeeOther)
}
