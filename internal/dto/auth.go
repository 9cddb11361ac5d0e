package dto

import "github.com/golang-jwt/jwt/v5"

// AuthClaims are the JWT claims issued for both access and refresh tokens.
type AuthClaims struct {
	UserID    string `json:"uid"`
	Username  string `json:"username"`
	TokenType string `json:"token_type"` // "access" or "refresh"
	jwt.RegisteredClaims
}

// RegisterRequest carries the registration form fields.
type RegisterRequest struct {
	Username        string `json:"username" form:"username"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

// LoginRequest carries the login form fields.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// RefreshRequest carries a refresh token to exchange.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

// LogoutRequest carries the refresh token to revoke.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

// TokenPairResponse is returned on login and refresh.
type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RegisterResponse confirms a successful registration.
type RegisterResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
