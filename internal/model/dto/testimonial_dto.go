package dto

type CreateTestimonialRequest struct {
	Content  string `json:"content" binding:"required,min=10,max=2000"`
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	PhotoURL string `json:"photo_url"`
}

type TestimonialItem struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Content   string `json:"content"`
	Rating    int    `json:"rating"`
	PhotoURL  string `json:"photo_url,omitempty"`
	CreatedAt string `json:"created_at"`
}
