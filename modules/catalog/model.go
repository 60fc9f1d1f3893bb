package catalog

// UpsertEntityRequest - create/update payload for a catalog row
type UpsertEntityRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	SortOrder   *int    `json:"sortOrder"`
}

// UploadImageRequest - base64 reference image for a catalog row
type UploadImageRequest struct {
	Image    string `json:"image"`
	MimeType string `json:"mimeType"`
}
