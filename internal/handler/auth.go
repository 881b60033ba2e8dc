package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/inkwell-dev/inkwell/internal/middleware"
	"github.com/inkwell-dev/inkwell/internal/utils"
)

type registerRequest struct {
	Name                 string `json:"name" validate:"required,max=255"`
	Email                string `json:"email" validate:"required,email,max=255"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type resendRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var body registerRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.auth.Register(body.Name, body.Email, body.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully. Please check your email for verification.",
		"user":    user,
	})
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	if _, err := h.auth.Verify(token); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Email verified successfully")
}

func (h *Handler) Resend(w http.ResponseWriter, r *http.Request) {
	var body resendRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		writeError(w, err)
		return
	}

	if err := h.auth.Resend(body.Email); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Verification email resent")
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := utils.DecodeValidate(r.Body, &creds); err != nil {
		writeError(w, err)
		return
	}

	token, user, err := h.auth.Login(creds.Email, creds.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	// browser clients get a cookie, API clients read the token field
	http.SetCookie(w, &http.Cookie{
		Path:     "/",
		Name:     middleware.CookieName,
		Value:    token,
		MaxAge:   int((h.cfg.Public.SessionTTL * time.Second).Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.Public.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  user,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.TokenFromRequest(r); token != "" {
		if err := h.auth.Logout(token); err != nil {
			writeError(w, err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Path:     "/",
		Name:     middleware.CookieName,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.Public.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	writeMessage(w, http.StatusOK, "Successfully logged out")
}

// Me returns the authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Please sign-in", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
