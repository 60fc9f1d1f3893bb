package dashboard

// GenerationStats - generated_images aggregates
type GenerationStats struct {
	Total           int64   `json:"total"`
	Success         int64   `json:"success"`
	Failed          int64   `json:"failed"`
	SuccessRate     float64 `json:"successRate"`
	AvgGenerationMs int64   `json:"avgGenerationMs"`
	Last24h         int64   `json:"last24h"`
	Last7d          int64   `json:"last7d"`
	Last30d         int64   `json:"last30d"`
}

// Stats - the admin dashboard payload
type Stats struct {
	Generation GenerationStats  `json:"generation"`
	Catalog    map[string]int64 `json:"catalog"`
	Users      int64            `json:"users"`
}
