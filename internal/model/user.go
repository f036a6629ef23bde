package model

import (
	"time"

	"github.com/google/uuid"
)

// Role distinguishes faculty from student accounts.
type Role string

const (
	RoleFaculty Role = "faculty"
	RoleStudent Role = "student"
)

// Branch enumerates the academic branches a student can belong to.
type Branch string

const (
	BranchCSE Branch = "CSE"
	BranchMNC Branch = "MNC"
	BranchMAE Branch = "MAE"
	BranchECE Branch = "ECE"
)

// User represents a platform account. Year and Branch are set only for
// students; they identify the cohort that quiz targeting filters against.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Year         *int      `json:"year,omitempty"`
	Branch       *Branch   `json:"branch,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// SignupRequest is the payload for account creation. Year and Branch are
// validated as required in the service when role is student.
type SignupRequest struct {
	Name     string  `json:"name" binding:"required,min=2,max=100"`
	Email    string  `json:"email" binding:"required,email,max=255"`
	Password string  `json:"password" binding:"required,min=6,max=128"`
	Role     Role    `json:"role" binding:"required,oneof=faculty student"`
	Year     *int    `json:"year" binding:"omitempty,min=1,max=4"`
	Branch   *Branch `json:"branch" binding:"omitempty,oneof=CSE MNC MAE ECE"`
}

// LoginRequest is the payload for credential authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserSummary is the public shape of an account returned by auth endpoints.
type UserSummary struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Role   Role      `json:"role"`
	Year   *int      `json:"year,omitempty"`
	Branch *Branch   `json:"branch,omitempty"`
}

// Summary strips credential fields from a user.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
		Year:   u.Year,
		Branch: u.Branch,
	}
}
