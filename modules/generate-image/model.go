package generateimage

import "time"

const (
	MsgIndustryNotFound          = "Industry not found"
	MsgCategoryNotFound          = "Category not found"
	MsgProductTypeNotFound       = "Product type not found"
	MsgProductPoseNotFound       = "Product pose not found"
	MsgProductThemeNotFound      = "Product theme not found"
	MsgProductBackgroundNotFound = "Product background not found"
	MsgAiFaceNotFound            = "AI face not found"
	MsgReferenceImageMissing     = "Reference image not available in storage"
	MsgInvalidProductImage       = "Invalid product image format or size"
	MsgGenerationFailed          = "Failed to generate image. Please try again."
	MsgStorageFailed             = "Failed to store generated image"
)

// GenerateImageRequest - the webapp generation request. All seven catalog ids
// are required, plus the product image as base64 with its declared mime type.
type GenerateImageRequest struct {
	IndustryID           string `json:"industryId"`
	CategoryID           string `json:"categoryId"`
	ProductTypeID        string `json:"productTypeId"`
	ProductPoseID        string `json:"productPoseId"`
	ProductThemeID       string `json:"productThemeId"`
	ProductBackgroundID  string `json:"productBackgroundId"`
	AiFaceID             string `json:"aiFaceId"`
	ProductImage         string `json:"productImage"`
	ProductImageMimeType string `json:"productImageMimeType"`
}

// Validate - required-field check before the pipeline runs
func (r *GenerateImageRequest) Validate() error {
	required := []struct {
		value string
		field string
	}{
		{r.IndustryID, "industryId"},
		{r.CategoryID, "categoryId"},
		{r.ProductTypeID, "productTypeId"},
		{r.ProductPoseID, "productPoseId"},
		{r.ProductThemeID, "productThemeId"},
		{r.ProductBackgroundID, "productBackgroundId"},
		{r.AiFaceID, "aiFaceId"},
		{r.ProductImage, "productImage"},
		{r.ProductImageMimeType, "productImageMimeType"},
	}

	for _, f := range required {
		if f.value == "" {
			return &missingFieldError{field: f.field}
		}
	}
	return nil
}

type missingFieldError struct {
	field string
}

func (e *missingFieldError) Error() string {
	return e.field + " is required"
}

// GenerateImageResponse - success envelope returned to the webapp
type GenerateImageResponse struct {
	Success   bool   `json:"success"`
	ImageURL  string `json:"imageUrl"`
	Message   string `json:"message"`
	ExpiresAt string `json:"expiresAt"`
}

// GenerationResult - what the service hands back to the handler
type GenerationResult struct {
	ImageURL  string
	ExpiresAt time.Time
}
