package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/supabase-community/supabase-go"

	"ai-studio-server/modules/common/config"
	"ai-studio-server/modules/common/model"
)

type Client struct {
	supabase *supabase.Client
}

// NewClient - create the Supabase database client
func NewClient() *Client {
	cfg := config.GetConfig()

	supabaseClient, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, &supabase.ClientOptions{})
	if err != nil {
		log.Printf("❌ Failed to create Supabase client: %v", err)
		return nil
	}

	return &Client{
		supabase: supabaseClient,
	}
}

// FindCatalogEntity - fetch a live (non-soft-deleted) row from one of the
// catalog tables. Returns (nil, nil) when no such row exists.
func (c *Client) FindCatalogEntity(ctx context.Context, coll model.Collection, id string) (*model.CatalogEntity, error) {
	var entities []model.CatalogEntity

	data, _, err := c.supabase.From(coll.Table).
		Select("*", "exact", false).
		Eq("id", id).
		Is("deleted_at", "null").
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", coll.Table, err)
	}

	if err := json.Unmarshal(data, &entities); err != nil {
		return nil, fmt.Errorf("failed to parse %s response: %w", coll.Table, err)
	}

	if len(entities) == 0 {
		return nil, nil
	}

	return &entities[0], nil
}

// ListCatalogEntities - all live rows of a catalog table, sort_order ascending
func (c *Client) ListCatalogEntities(ctx context.Context, coll model.Collection) ([]model.CatalogEntity, error) {
	var entities []model.CatalogEntity

	data, _, err := c.supabase.From(coll.Table).
		Select("*", "exact", false).
		Is("deleted_at", "null").
		Order("sort_order", nil).
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", coll.Table, err)
	}

	if err := json.Unmarshal(data, &entities); err != nil {
		return nil, fmt.Errorf("failed to parse %s response: %w", coll.Table, err)
	}

	return entities, nil
}

// InsertCatalogEntity - create a catalog row and return it
func (c *Client) InsertCatalogEntity(ctx context.Context, coll model.Collection, fields map[string]interface{}) (*model.CatalogEntity, error) {
	data, _, err := c.supabase.From(coll.Table).
		Insert(fields, false, "", "", "").
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to insert into %s: %w", coll.Table, err)
	}

	var entities []model.CatalogEntity
	if err := json.Unmarshal(data, &entities); err != nil {
		return nil, fmt.Errorf("failed to parse %s insert response: %w", coll.Table, err)
	}

	if len(entities) == 0 {
		return nil, fmt.Errorf("no %s row returned after insert", coll.Table)
	}

	log.Printf("✅ Created %s: %s", coll.Label, entities[0].ID)
	return &entities[0], nil
}

// UpdateCatalogEntity - partial update of a catalog row, returns the updated row
func (c *Client) UpdateCatalogEntity(ctx context.Context, coll model.Collection, id string, fields map[string]interface{}) (*model.CatalogEntity, error) {
	fields["updated_at"] = "now()"

	data, _, err := c.supabase.From(coll.Table).
		Update(fields, "", "").
		Eq("id", id).
		Is("deleted_at", "null").
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", coll.Table, err)
	}

	var entities []model.CatalogEntity
	if err := json.Unmarshal(data, &entities); err != nil {
		return nil, fmt.Errorf("failed to parse %s update response: %w", coll.Table, err)
	}

	if len(entities) == 0 {
		return nil, nil
	}

	return &entities[0], nil
}

// SoftDeleteCatalogEntity - mark a catalog row deleted; the row stays in place
// so historical generated_images keep resolving their references.
func (c *Client) SoftDeleteCatalogEntity(ctx context.Context, coll model.Collection, id string) error {
	updateData := map[string]interface{}{
		"deleted_at": "now()",
		"updated_at": "now()",
	}

	_, _, err := c.supabase.From(coll.Table).
		Update(updateData, "", "").
		Eq("id", id).
		Is("deleted_at", "null").
		Execute()

	if err != nil {
		return fmt.Errorf("failed to soft-delete %s: %w", coll.Table, err)
	}

	log.Printf("🗑️  Soft-deleted %s: %s", coll.Label, id)
	return nil
}

// InsertGeneratedImage - persist one generation attempt (success or failed)
func (c *Client) InsertGeneratedImage(ctx context.Context, rec *model.GeneratedImage) (*model.GeneratedImage, error) {
	insertData := map[string]interface{}{
		"industry_id":           rec.IndustryID,
		"category_id":           rec.CategoryID,
		"product_type_id":       rec.ProductTypeID,
		"product_pose_id":       rec.ProductPoseID,
		"product_theme_id":      rec.ProductThemeID,
		"product_background_id": rec.ProductBackgroundID,
		"ai_face_id":            rec.AiFaceID,
		"image_url":             rec.ImageURL,
		"image_path":            rec.ImagePath,
		"generation_status":     rec.GenerationStatus,
		"error_message":         rec.ErrorMessage,
		"generation_time_ms":    rec.GenerationTimeMs,
	}
	if rec.UserID != nil {
		insertData["user_id"] = rec.UserID
	}
	if rec.ExpiresAt != nil {
		insertData["expires_at"] = rec.ExpiresAt.UTC().Format(time.RFC3339)
	}

	data, _, err := c.supabase.From("generated_images").
		Insert(insertData, false, "", "", "").
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to insert generated_images row: %w", err)
	}

	var rows []model.GeneratedImage
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse generated_images response: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no generated_images row returned")
	}

	return &rows[0], nil
}

// FindExpiredImages - rows whose retention window has passed and whose blob has
// not been cleared yet. PostgREST neq excludes NULL values, which is exactly
// the non-null image_path predicate.
func (c *Client) FindExpiredImages(ctx context.Context, now time.Time) ([]model.GeneratedImage, error) {
	var rows []model.GeneratedImage

	data, _, err := c.supabase.From("generated_images").
		Select("*", "exact", false).
		Lt("expires_at", now.UTC().Format(time.RFC3339)).
		Neq("image_path", "").
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to query expired images: %w", err)
	}

	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse expired images response: %w", err)
	}

	return rows, nil
}

// ClearImageLocation - null out the blob pointers after the object is gone.
// The row itself stays for statistics.
func (c *Client) ClearImageLocation(ctx context.Context, id string) error {
	updateData := map[string]interface{}{
		"image_url":  nil,
		"image_path": nil,
	}

	_, _, err := c.supabase.From("generated_images").
		Update(updateData, "", "").
		Eq("id", id).
		Execute()

	if err != nil {
		return fmt.Errorf("failed to clear image location: %w", err)
	}

	return nil
}
