package requests

// LoginRequest is the password-gate payload.
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// KeyRequest addresses one video by its object key.
type KeyRequest struct {
	Key string `json:"key" binding:"required"`
}

// ListVideosQuery carries the listing filters, sort and page.
type ListVideosQuery struct {
	Model     string `form:"model"`
	Page      int    `form:"page,default=1"`
	Favorites bool   `form:"favorites"`
	Unseen    bool   `form:"unseen"`
	SortBy    string `form:"sortBy,default=date"`
	SortOrder string `form:"sortOrder,default=desc"`
}
