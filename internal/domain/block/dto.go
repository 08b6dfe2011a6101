package block

// BlockStatusResponse for GET /blocks/{id}/status
type BlockStatusResponse struct {
	IsBlocked bool `json:"is_blocked"`
}

// listQuery bounds pagination input
type listQuery struct {
	Page     int `json:"page" validate:"gte=1"`
	PageSize int `json:"page_size" validate:"gte=1,lte=100"`
}
