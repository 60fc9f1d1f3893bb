package auth

import (
	"encoding/json"
	"net/http"

	"ai-studio-server/modules/common/apperr"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// SendOTP - POST /webapp/signup/send-otp
func (h *Handler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req SendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Phone == "" {
		apperr.Write(w, apperr.BadRequest("phone is required"))
		return
	}

	if err := h.service.SendSignupOTP(r.Context(), req.Phone); err != nil {
		apperr.Write(w, err)
		return
	}

	writeJSON(w, map[string]interface{}{
		"success": true,
		"message": "OTP sent",
	})
}

// VerifyOTP - POST /webapp/signup/verify-otp
func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Phone == "" || req.OTP == "" {
		apperr.Write(w, apperr.BadRequest("phone and otp are required"))
		return
	}

	sessionToken, err := h.service.VerifySignupOTP(r.Context(), req.Phone, req.OTP)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	writeJSON(w, VerifyOTPResponse{
		Success:      true,
		SessionToken: sessionToken,
	})
}

// CompleteRegistration - POST /webapp/signup/complete
func (h *Handler) CompleteRegistration(w http.ResponseWriter, r *http.Request) {
	var req CompleteRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		req.SessionToken == "" || req.Password == "" {
		apperr.Write(w, apperr.BadRequest("sessionToken and password are required"))
		return
	}

	resp, err := h.service.CompleteRegistration(r.Context(), &req)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	writeJSON(w, resp)
}

// Login - POST /webapp/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		req.EmailOrPhone == "" || req.Password == "" {
		apperr.Write(w, apperr.BadRequest("emailOrPhone and password are required"))
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	writeJSON(w, resp)
}

// Refresh - POST /webapp/refresh-token
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		apperr.Write(w, apperr.BadRequest("refreshToken is required"))
		return
	}

	resp, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	writeJSON(w, resp)
}
