package model

import "time"

type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrorResponse struct {
	Message string       `json:"message"`
	Error   string       `json:"error"`
	Errors  []FieldError `json:"errors"`
}

type PermissionErrorResponse struct {
	Message  string `json:"message"`
	Error    string `json:"error"`
	Required []Role `json:"required"`
	Current  Role   `json:"current"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type PingResponse struct {
	Message string `json:"message"`
}

type UserResponse struct {
	ID        int64         `json:"id"`
	Username  string        `json:"username"`
	Email     string        `json:"email"`
	FirstName *string       `json:"firstName"`
	LastName  *string       `json:"lastName"`
	Role      Role          `json:"role"`
	IsActive  bool          `json:"isActive"`
	CreatedAt time.Time     `json:"createdAt"`
	Stats     *AccountStats `json:"stats,omitempty"`
}

type AuthResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
	Token   string       `json:"token"`
}

type ProfileResponse struct {
	User UserResponse `json:"user"`
}

type VerifyResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

type AccountStatusResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

func NewUserResponse(account Account) UserResponse {
	return UserResponse{
		ID:        account.ID,
		Username:  account.Username,
		Email:     account.Email,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Role:      account.Role,
		IsActive:  account.IsActive,
		CreatedAt: account.CreatedAt,
	}
}
