package catalog

import (
	"context"
	"fmt"
	"log"

	"ai-studio-server/modules/common/apperr"
	"ai-studio-server/modules/common/imaging"
	"ai-studio-server/modules/common/model"
)

const webpQuality = 90

// Store - catalog table access
type Store interface {
	FindCatalogEntity(ctx context.Context, coll model.Collection, id string) (*model.CatalogEntity, error)
	ListCatalogEntities(ctx context.Context, coll model.Collection) ([]model.CatalogEntity, error)
	InsertCatalogEntity(ctx context.Context, coll model.Collection, fields map[string]interface{}) (*model.CatalogEntity, error)
	UpdateCatalogEntity(ctx context.Context, coll model.Collection, id string, fields map[string]interface{}) (*model.CatalogEntity, error)
	SoftDeleteCatalogEntity(ctx context.Context, coll model.Collection, id string) error
}

// BlobStore - reference image uploads
type BlobStore interface {
	Upload(ctx context.Context, data []byte, path string, contentType string) (string, error)
}

type Service struct {
	store Store
	blobs BlobStore
}

func NewService(store Store, blobs BlobStore) *Service {
	return &Service{store: store, blobs: blobs}
}

func notFound(coll model.Collection) error {
	return apperr.NotFound(coll.Label + " not found")
}

// List - live rows of one collection
func (s *Service) List(ctx context.Context, coll model.Collection) ([]model.CatalogEntity, error) {
	return s.store.ListCatalogEntities(ctx, coll)
}

// Get - one live row
func (s *Service) Get(ctx context.Context, coll model.Collection, id string) (*model.CatalogEntity, error) {
	entity, err := s.store.FindCatalogEntity(ctx, coll, id)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, notFound(coll)
	}
	return entity, nil
}

// Create - new catalog row
func (s *Service) Create(ctx context.Context, coll model.Collection, req *UpsertEntityRequest) (*model.CatalogEntity, error) {
	if req.Name == "" {
		return nil, apperr.BadRequest("name is required")
	}

	fields := map[string]interface{}{
		"name": req.Name,
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.SortOrder != nil {
		fields["sort_order"] = *req.SortOrder
	}

	return s.store.InsertCatalogEntity(ctx, coll, fields)
}

// Update - partial update of a catalog row
func (s *Service) Update(ctx context.Context, coll model.Collection, id string, req *UpsertEntityRequest) (*model.CatalogEntity, error) {
	fields := map[string]interface{}{}
	if req.Name != "" {
		fields["name"] = req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.SortOrder != nil {
		fields["sort_order"] = *req.SortOrder
	}
	if len(fields) == 0 {
		return nil, apperr.BadRequest("nothing to update")
	}

	entity, err := s.store.UpdateCatalogEntity(ctx, coll, id, fields)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, notFound(coll)
	}
	return entity, nil
}

// SoftDelete - hide the row from the pipeline without breaking history
func (s *Service) SoftDelete(ctx context.Context, coll model.Collection, id string) error {
	entity, err := s.store.FindCatalogEntity(ctx, coll, id)
	if err != nil {
		return err
	}
	if entity == nil {
		return notFound(coll)
	}
	return s.store.SoftDeleteCatalogEntity(ctx, coll, id)
}

// UploadImage - attach the reference binary: decode, convert to WebP, store
// at a stable per-entity path, record url and path on the row
func (s *Service) UploadImage(ctx context.Context, coll model.Collection, id string, req *UploadImageRequest) (*model.CatalogEntity, error) {
	entity, err := s.store.FindCatalogEntity(ctx, coll, id)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, notFound(coll)
	}

	data, err := imaging.DecodeBase64Image(req.Image)
	if err != nil {
		return nil, apperr.BadRequest("Invalid image format or size")
	}

	webpData, err := imaging.ConvertToWebP(data, webpQuality)
	if err != nil {
		return nil, apperr.BadRequest("Invalid image format or size")
	}

	path := fmt.Sprintf("%s/%s/image.webp", coll.Table, id)
	url, err := s.blobs.Upload(ctx, webpData, path, "image/webp")
	if err != nil {
		return nil, fmt.Errorf("failed to store reference image: %w", err)
	}

	updated, err := s.store.UpdateCatalogEntity(ctx, coll, id, map[string]interface{}{
		"image_url":  url,
		"image_path": path,
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, notFound(coll)
	}

	log.Printf("✅ Reference image set for %s %s", coll.Label, id)
	return updated, nil
}
