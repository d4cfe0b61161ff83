package models

// CreatePostRequest is the body of POST /api/posts.
type CreatePostRequest struct {
	Content   string   `json:"content"`
	GameType  GameType `json:"gameType"`
	RankingID *uint    `json:"rankingId,omitempty"`
	ImageURL  string   `json:"imageUrl,omitempty"`
}

// UpdatePostRequest is the body of PUT /api/posts/:id. Only content is editable.
type UpdatePostRequest struct {
	Content string `json:"content"`
}

// CommentRequest is the body of POST /api/comments and PUT /api/comments/:id.
type CommentRequest struct {
	Content string `json:"content"`
	PostID  uint   `json:"postId"`
}

// LoginRequest carries email credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest registers a new account.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// GoogleLoginRequest carries an ID token issued by Google sign-in.
type GoogleLoginRequest struct {
	Credential string `json:"credential"`
}

// AuthResponse is returned by every auth endpoint.
type AuthResponse struct {
	Token      string `json:"token"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	PictureURL string `json:"pictureUrl,omitempty"`
	User       *User  `json:"user,omitempty"`
}
