package dto

// RegisterRequest represents a student registration request
type RegisterRequest struct {
	FullName     string `json:"fullName" binding:"required"`
	MatricNumber string `json:"matricNumber" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=6"`
	Department   string `json:"department" binding:"required"`
	Level        string `json:"level" binding:"required"`
}

// RegisterResponse reports the registration outcome. The message differs
// depending on whether the verification email could be sent.
type RegisterResponse struct {
	Message string `json:"message"`
}

// LoginRequest represents login credentials. Students may use their email or
// matric number as the identifier; admins use their email.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
	AsAdmin    bool   `json:"isAdmin"`
}

// UserInfo is the identity block returned on successful login
type UserInfo struct {
	ID           int64  `json:"id"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	MatricNumber string `json:"matricNumber,omitempty"`
	Role         string `json:"role"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	Message    string   `json:"message"`
	User       UserInfo `json:"user"`
	RedirectTo string   `json:"redirectTo"`
}

// ForgotPasswordRequest starts the password reset flow
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest completes the password reset flow
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}
