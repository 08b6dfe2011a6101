package follow

// FollowStatusResponse for GET /follows/{id}/status
type FollowStatusResponse struct {
	IsFollowing bool `json:"is_following"`
}

// CountResponse for the count endpoints
type CountResponse struct {
	Count int `json:"count"`
}

// listQuery bounds pagination input
type listQuery struct {
	Page     int `json:"page" validate:"gte=1"`
	PageSize int `json:"page_size" validate:"gte=1,lte=100"`
}
