package generateimage

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"ai-studio-server/modules/common/apperr"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GenerateImage - POST /webapp/generate-image
func (h *Handler) GenerateImage(w http.ResponseWriter, r *http.Request) {
	var req GenerateImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.Write(w, apperr.BadRequest("Invalid request body"))
		return
	}

	if err := req.Validate(); err != nil {
		apperr.Write(w, apperr.BadRequest(err.Error()))
		return
	}

	log.Printf("🎨 Generation request: industry=%s category=%s type=%s",
		req.IndustryID, req.CategoryID, req.ProductTypeID)

	result, err := h.service.GenerateImage(r.Context(), &req)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(GenerateImageResponse{
		Success:   true,
		ImageURL:  result.ImageURL,
		Message:   "Image generated successfully",
		ExpiresAt: result.ExpiresAt.UTC().Format(time.RFC3339),
	})
}
