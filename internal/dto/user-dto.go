package dto

import (
	"time"

	"github.com/procline/error_service/internal/domain"
)

type UserResponse struct {
	ID          uint      `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	FullName    string    `json:"full_name"`
	Department  string    `json:"department"`
	PhoneNumber string    `json:"phone_number"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Role:        u.Role,
		FullName:    u.FullName,
		Department:  u.Department,
		PhoneNumber: u.PhoneNumber,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

type UpdateUserRequest struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	FullName   string `json:"full_name"`
	Department string `json:"department"`
	Role       string `json:"role"`
	IsActive   *bool  `json:"is_active,omitempty"`
	// Optional: when set the password is re-hashed.
	Password string `json:"password,omitempty"`
}
