package dto

import "github.com/answerly/answerly-api/internal/models"

// RegisterRequest is the payload for creating a new account.
type RegisterRequest struct {
	Name      string `json:"name" validate:"required,min=2,max=120"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Role      string `json:"role" validate:"required,oneof=student educator"`
	ClassName string `json:"class_name" validate:"omitempty,max=120"`
	RollNo    string `json:"roll_no" validate:"omitempty,max=60"`
}

// LoginRequest authenticates against the composite (email, role) key.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=student educator"`
}

// UpdateAccountRequest carries partial account fields. Email and role are
// key attributes and cannot be changed through updates.
type UpdateAccountRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=2,max=120"`
	Password  *string `json:"password" validate:"omitempty,min=6"`
	ClassName *string `json:"class_name" validate:"omitempty,max=120"`
	RollNo    *string `json:"roll_no" validate:"omitempty,max=60"`
}

// AccountResponse is the public-safe projection of an account. The password
// digest is never serialized.
type AccountResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	ClassName string `json:"class_name,omitempty"`
	RollNo    string `json:"roll_no,omitempty"`
}

// LoginResponse bundles the authenticated account with its bearer token.
type LoginResponse struct {
	User  AccountResponse `json:"user"`
	Token string          `json:"token"`
}

// StudentResponse is a roster entry; optional fields default to "N/A" when
// the stored record has no value.
type StudentResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	ClassName string `json:"class_name"`
	RollNo    string `json:"roll_no"`
}

// NewAccountResponse maps a stored account onto its public projection.
func NewAccountResponse(account models.Account) AccountResponse {
	return AccountResponse{
		ID:        account.ID,
		Name:      account.Name,
		Email:     account.Email,
		Role:      account.Role,
		ClassName: account.ClassName,
		RollNo:    account.RollNo,
	}
}

// NewStudentResponse maps an account onto a roster entry with sentinel
// defaults for absent optional fields.
func NewStudentResponse(account models.Account) StudentResponse {
	response := StudentResponse{
		ID:        account.ID,
		Name:      account.Name,
		Email:     account.Email,
		ClassName: account.ClassName,
		RollNo:    account.RollNo,
	}
	if response.ClassName == "" {
		response.ClassName = "N/A"
	}
	if response.RollNo == "" {
		response.RollNo = "N/A"
	}
	return response
}
