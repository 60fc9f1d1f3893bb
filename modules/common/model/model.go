package model

import "time"

// Collection - one of the seven admin catalog tables. The tables share the
// same column set, so the pipeline treats them uniformly and tells them apart
// by table name and label.
type Collection struct {
	Table string // Supabase table name
	Slug  string // URL segment used by the admin API
	Label string // human-readable entity name used in error messages
}

var (
	CollectionIndustries         = Collection{Table: "industries", Slug: "industries", Label: "Industry"}
	CollectionCategories         = Collection{Table: "categories", Slug: "categories", Label: "Category"}
	CollectionProductTypes       = Collection{Table: "product_types", Slug: "product-types", Label: "Product type"}
	CollectionProductPoses       = Collection{Table: "product_poses", Slug: "product-poses", Label: "Product pose"}
	CollectionProductThemes      = Collection{Table: "product_themes", Slug: "product-themes", Label: "Product theme"}
	CollectionProductBackgrounds = Collection{Table: "product_backgrounds", Slug: "product-backgrounds", Label: "Product background"}
	CollectionAiFaces            = Collection{Table: "ai_faces", Slug: "ai-faces", Label: "AI face"}
)

// Collections - every catalog collection, in the validation priority order
// used when reporting the first missing reference.
func Collections() []Collection {
	return []Collection{
		CollectionIndustries,
		CollectionCategories,
		CollectionProductTypes,
		CollectionProductPoses,
		CollectionProductThemes,
		CollectionProductBackgrounds,
		CollectionAiFaces,
	}
}

// CollectionBySlug - resolve an admin URL segment to its collection
func CollectionBySlug(slug string) (Collection, bool) {
	for _, coll := range Collections() {
		if coll.Slug == slug {
			return coll, true
		}
	}
	return Collection{}, false
}

// CatalogEntity - a row in any of the seven catalog tables
type CatalogEntity struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	ImageURL    *string    `json:"image_url"`
	ImagePath   *string    `json:"image_path"`
	SortOrder   int        `json:"sort_order"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at"`
}

// HasImage - whether the entity has a stored reference binary
func (e *CatalogEntity) HasImage() bool {
	if e == nil {
		return false
	}
	if e.ImagePath != nil && *e.ImagePath != "" {
		return true
	}
	return e.ImageURL != nil && *e.ImageURL != ""
}

// ImageLocation - preferred storage location of the reference binary
// (path wins over URL, matching how uploads record both)
func (e *CatalogEntity) ImageLocation() string {
	if e.ImagePath != nil && *e.ImagePath != "" {
		return *e.ImagePath
	}
	if e.ImageURL != nil {
		return *e.ImageURL
	}
	return ""
}

const (
	GenerationStatusSuccess = "success"
	GenerationStatusFailed  = "failed"
)

// GeneratedImage - one row per generation attempt in generated_images.
// Rows are never deleted; the cleanup sweep only clears image_url/image_path.
type GeneratedImage struct {
	ID                  string     `json:"id"`
	UserID              *string    `json:"user_id"`
	IndustryID          string     `json:"industry_id"`
	CategoryID          string     `json:"category_id"`
	ProductTypeID       string     `json:"product_type_id"`
	ProductPoseID       string     `json:"product_pose_id"`
	ProductThemeID      string     `json:"product_theme_id"`
	ProductBackgroundID string     `json:"product_background_id"`
	AiFaceID            string     `json:"ai_face_id"`
	ImageURL            *string    `json:"image_url"`
	ImagePath           *string    `json:"image_path"`
	GenerationStatus    string     `json:"generation_status"`
	ErrorMessage        *string    `json:"error_message"`
	GenerationTimeMs    int64      `json:"generation_time_ms"`
	ExpiresAt           *time.Time `json:"expires_at"`
	CreatedAt           time.Time  `json:"created_at"`
}

const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"

	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User - users table row
type User struct {
	ID               string     `json:"id"`
	Phone            string     `json:"phone"`
	Email            *string    `json:"email"`
	PasswordHash     string     `json:"password_hash"`
	FirstName        *string    `json:"first_name"`
	LastName         *string    `json:"last_name"`
	Role             string     `json:"role"`
	Status           string     `json:"status"`
	RefreshTokenHash *string    `json:"refresh_token_hash"`
	LastLogin        *time.Time `json:"last_login"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
