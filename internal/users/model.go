package users

import "time"

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Avatar       string    `json:"avatar,omitempty"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	LojaID       string    `json:"loja_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type CreateUserRequest struct {
	Name     string
	Email    string
	Avatar   string
	Password string
	Role     UserRole
	LojaID   string
}

type UpdateUserRequest struct {
	ID           string
	Name         string
	Email        string
	Avatar       string
	PasswordHash string
	Role         UserRole // role changes are admin-only
	LojaID       *string
}

type UserFilter struct {
	Query  string
	LojaID string
	Role   UserRole
	Limit  int
	Offset int
}
