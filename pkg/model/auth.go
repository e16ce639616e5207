package model

// LoginRequest は POST /auth/login のリクエストボディ。
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse は POST /auth/login のレスポンスボディ。
type LoginResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// RegisterRequest は POST /auth/register のリクエストボディ。
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}
