package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-studio-server/modules/common/model"
)

func (c *Client) findUserBy(column, value string) (*model.User, error) {
	var users []model.User

	data, _, err := c.supabase.From("users").
		Select("*", "exact", false).
		Eq(column, value).
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to query users by %s: %w", column, err)
	}

	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("failed to parse users response: %w", err)
	}

	if len(users) == 0 {
		return nil, nil
	}

	return &users[0], nil
}

// FindUserByPhone - (nil, nil) when the phone is unregistered
func (c *Client) FindUserByPhone(ctx context.Context, phone string) (*model.User, error) {
	return c.findUserBy("phone", phone)
}

// FindUserByEmail - (nil, nil) when no account uses the email
func (c *Client) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return c.findUserBy("email", email)
}

// FindUserByID - (nil, nil) when the id is unknown
func (c *Client) FindUserByID(ctx context.Context, id string) (*model.User, error) {
	return c.findUserBy("id", id)
}

// InsertUser - create a user row and return it
func (c *Client) InsertUser(ctx context.Context, user *model.User) (*model.User, error) {
	insertData := map[string]interface{}{
		"phone":         user.Phone,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"first_name":    user.FirstName,
		"last_name":     user.LastName,
		"role":          user.Role,
		"status":        user.Status,
	}

	data, _, err := c.supabase.From("users").
		Insert(insertData, false, "", "", "").
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	var users []model.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("failed to parse user insert response: %w", err)
	}

	if len(users) == 0 {
		return nil, fmt.Errorf("no user row returned after insert")
	}

	return &users[0], nil
}

// UpdateUserRefreshToken - store the hash of the active refresh token
// (rotation: the previous token stops validating as soon as this lands)
func (c *Client) UpdateUserRefreshToken(ctx context.Context, id string, tokenHash *string) error {
	updateData := map[string]interface{}{
		"refresh_token_hash": tokenHash,
		"updated_at":         "now()",
	}

	_, _, err := c.supabase.From("users").
		Update(updateData, "", "").
		Eq("id", id).
		Execute()

	if err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}

	return nil
}

// UpdateUserLastLogin - stamp last_login after a successful login
func (c *Client) UpdateUserLastLogin(ctx context.Context, id string, at time.Time) error {
	updateData := map[string]interface{}{
		"last_login": at.UTC().Format(time.RFC3339),
	}

	_, _, err := c.supabase.From("users").
		Update(updateData, "", "").
		Eq("id", id).
		Execute()

	if err != nil {
		return fmt.Errorf("failed to update last_login: %w", err)
	}

	return nil
}
