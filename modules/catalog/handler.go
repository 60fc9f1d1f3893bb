package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"ai-studio-server/modules/common/apperr"
	"ai-studio-server/modules/common/model"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func collectionFrom(r *http.Request) (model.Collection, bool) {
	return model.CollectionBySlug(mux.Vars(r)["collection"])
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// List - GET /admin/catalog/{collection}
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	coll, ok := collectionFrom(r)
	if !ok {
		apperr.Write(w, apperr.NotFound("Unknown collection"))
		return
	}

	entities, err := h.service.List(r.Context(), coll)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	writeJSON(w, map[string]interface{}{
		"success": true,
		"data":    entities,
	})
}

// Get - GET /admin/catalog/{collection}/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	coll, ok := collectionFrom(r)
	if !ok {
		apperr.Write(w, apperr.NotFound("Unknown collection"))
		return
	}

	entity, err := h.service.Get(r.Context(), coll, mux.Vars(r)["id"])
	if err != nil {
		apperr.Write(w, err)
		return
	}

	writeJSON(w, map[string]interface{}{
		"success": true,
		"data":    entity,
	})
}

// Create - POST /admin/catalog/{collection}
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	coll, ok := collectionFrom(r)
	if !ok {
		apperr.Write(w, apperr.NotFound("Unknown collection"))
		return
	}

	var req UpsertEntityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.Write(w, apperr.BadRequest("Invalid request body"))
		return
	}

	entity, err := h.service.Create(r.Context(), coll, &req)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    entity,
	})
}

// Update - PUT /admin/catalog/{collection}/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	coll, ok := collectionFrom(r)
	if !ok {
		apperr.Write(w, apperr.NotFound("Unknown collection"))
		return
	}

	var req UpsertEntityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.Write(w, apperr.BadRequest("Invalid request body"))
		return
	}

	entity, err := h.service.Update(r.Context(), coll, mux.Vars(r)["id"], &req)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	writeJSON(w, map[string]interface{}{
		"success": true,
		"data":    entity,
	})
}

// Delete - DELETE /admin/catalog/{collection}/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	coll, ok := collectionFrom(r)
	if !ok {
		apperr.Write(w, apperr.NotFound("Unknown collection"))
		return
	}

	if err := h.service.SoftDelete(r.Context(), coll, mux.Vars(r)["id"]); err != nil {
		apperr.Write(w, err)
		return
	}

	writeJSON(w, map[string]interface{}{
		"success": true,
		"message": coll.Label + " deleted",
	})
}

// UploadImage - POST /admin/catalog/{collection}/{id}/image
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	coll, ok := collectionFrom(r)
	if !ok {
		apperr.Write(w, apperr.NotFound("Unknown collection"))
		return
	}

	var req UploadImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Image == "" {
		apperr.Write(w, apperr.BadRequest("image is required"))
		return
	}

	entity, err := h.service.UploadImage(r.Context(), coll, mux.Vars(r)["id"], &req)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	writeJSON(w, map[string]interface{}{
		"success": true,
		"data":    entity,
	})
}
