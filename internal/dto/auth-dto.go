package dto

type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"full_name"`
	Department  string `json:"department"`
	PhoneNumber string `json:"phone_number"`
}

type UserLogin struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// AuthResponse is the decoded token payload placed in request locals.
type AuthResponse struct {
	UserID   uint    `json:"user_id"`
	Username string  `json:"username"`
	Role     string  `json:"role"`
	Iat      float64 `json:"iat"`
	Expiry   float64 `json:"expiry"`
}
