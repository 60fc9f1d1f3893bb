package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-studio-server/modules/common/model"
)

// CountGeneratedImages - head count of generated_images rows, optionally
// filtered by status and by creation window start. Uses count=exact so only
// the count comes back over the wire.
func (c *Client) CountGeneratedImages(ctx context.Context, status string, since *time.Time) (int64, error) {
	query := c.supabase.From("generated_images").
		Select("id", "exact", false)

	if status != "" {
		query = query.Eq("generation_status", status)
	}
	if since != nil {
		query = query.Gte("created_at", since.UTC().Format(time.RFC3339))
	}

	_, count, err := query.Execute()
	if err != nil {
		return 0, fmt.Errorf("failed to count generated_images: %w", err)
	}

	return count, nil
}

// ListGenerationTimes - generation_time_ms of every successful run, for the
// dashboard average
func (c *Client) ListGenerationTimes(ctx context.Context) ([]int64, error) {
	var rows []struct {
		GenerationTimeMs int64 `json:"generation_time_ms"`
	}

	data, _, err := c.supabase.From("generated_images").
		Select("generation_time_ms", "exact", false).
		Eq("generation_status", model.GenerationStatusSuccess).
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to query generation times: %w", err)
	}

	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse generation times: %w", err)
	}

	times := make([]int64, 0, len(rows))
	for _, row := range rows {
		times = append(times, row.GenerationTimeMs)
	}

	return times, nil
}

// CountCatalogEntities - live row count of one catalog table
func (c *Client) CountCatalogEntities(ctx context.Context, coll model.Collection) (int64, error) {
	_, count, err := c.supabase.From(coll.Table).
		Select("id", "exact", false).
		Is("deleted_at", "null").
		Execute()

	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", coll.Table, err)
	}

	return count, nil
}

// CountUsers - total registered users
func (c *Client) CountUsers(ctx context.Context) (int64, error) {
	_, count, err := c.supabase.From("users").
		Select("id", "exact", false).
		Execute()

	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return count, nil
}
