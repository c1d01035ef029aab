package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/unrolled/render"

	"storefront/app/helpers"
	"storefront/app/services"
	"storefront/app/utils/sessions"
)

type AuthHandler struct {
	auth      *services.AuthService
	sessions  sessions.SessionStore
	validator *validator.Validate
	render    *render.Render
}

func NewAuthHandler(auth *services.AuthService, s sessions.SessionStore, v *validator.Validate, r *render.Render) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: s, validator: v, render: r}
}

type sendOTPForm struct {
	Mobile string `json:"mobile" validate:"required,numeric,len=10"`
}

func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var form sendOTPForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if err := h.validator.Struct(&form); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]any{"errors": helpers.FormatValidationErrors(err.(validator.ValidationErrors))})
		return
	}

	session, err := h.auth.SendOTP(r.Context(), form.Mobile)
	if errors.Is(err, services.ErrResendCooldown) {
		h.render.JSON(w, http.StatusTooManyRequests, map[string]any{
			"error":    "Please wait before requesting another OTP",
			"retry_in": int(h.auth.ResendAvailableIn(form.Mobile) / time.Second),
		})
		return
	}
	if err != nil {
		log.Printf("AuthHandler: send OTP failed: %v", err)
		h.render.JSON(w, http.StatusBadGateway, map[string]string{"error": "Could not send OTP"})
		return
	}

	h.render.JSON(w, http.StatusOK, session)
}

type verifyOTPForm struct {
	Mobile    string `json:"mobile" validate:"required,numeric,len=10"`
	RequestID string `json:"request_id" validate:"required"`
	OTP       string `json:"otp" validate:"required,numeric,min=4,max=6"`
	Remember  bool   `json:"remember"`
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var form verifyOTPForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if err := h.validator.Struct(&form); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]any{"errors": helpers.FormatValidationErrors(err.(validator.ValidationErrors))})
		return
	}

	result, err := h.auth.VerifyOTP(r.Context(), form.Mobile, form.RequestID, form.OTP, form.Remember)
	if errors.Is(err, services.ErrOTPRejected) {
		h.render.JSON(w, http.StatusUnauthorized, map[string]string{"error": "Incorrect OTP, please try again"})
		return
	}
	if err != nil {
		log.Printf("AuthHandler: verify OTP failed: %v", err)
		h.render.JSON(w, http.StatusBadGateway, map[string]string{"error": "Could not verify OTP"})
		return
	}

	if err := h.sessions.SetUserID(w, r, result.UserID); err != nil {
		log.Printf("AuthHandler: failed to persist user session: %v", err)
	}

	h.render.JSON(w, http.StatusOK, result)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := h.sessions.GetUserID(r)
	if userID != "" {
		if err := h.auth.ClearRememberToken(r.Context(), userID); err != nil {
			log.Printf("AuthHandler: failed to clear remember token for %s: %v", userID, err)
		}
	}
	if err := h.sessions.ClearUserID(w, r); err != nil {
		log.Printf("AuthHandler: failed to clear user session: %v", err)
	}
	h.render.JSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}
