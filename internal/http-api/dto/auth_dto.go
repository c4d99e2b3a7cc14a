package dto

import "manahub/internal/http-api/models"

// RegisterRequest for creating a new account
type RegisterRequest struct {
	Username    string  `json:"username" binding:"required,min=3,max=30"`
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=8"`
	DisplayName *string `json:"display_name,omitempty" binding:"omitempty,min=2,max=50"`
}

// LoginRequest for authenticating an existing account
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries the minted access token plus the public user fields
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

type UserResponse struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	DisplayName *string `json:"display_name,omitempty"`
	Role        string  `json:"role"`
	Mana        int     `json:"mana"`
}

func FromModelToUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		Mana:        user.Mana,
	}
}
