package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserRole represents the available account roles.
type UserRole string

const (
	// RoleWaliKelas is a homeroom teacher restricted to students they own.
	RoleWaliKelas UserRole = "walikelas"
	// RoleOperator is an administrator with unrestricted scope.
	RoleOperator UserRole = "operator"
)

// User represents an application user stored in the users table.
type User struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Phone        string    `db:"phone" json:"phone"`
	Role         UserRole  `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// UserDetail joins the user with its homeroom-teacher profile when present.
type UserDetail struct {
	User
	WaliKelasID *string `db:"walikelas_id" json:"-"`
	Sekolah     *string `db:"sekolah" json:"-"`
	Jurusan     *string `db:"jurusan" json:"-"`
}

// JWTClaims carries the authenticated principal through the request lifecycle.
type JWTClaims struct {
	UserID      string   `json:"user_id"`
	Role        UserRole `json:"role"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	WaliKelasID *string  `json:"walikelas_id,omitempty"`
	jwt.RegisteredClaims
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalItems  int  `json:"totalItems"`
	PageSize    int  `json:"pageSize"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

// NewPagination derives pagination metadata from a total row count.
func NewPagination(page, pageSize, total int) *Pagination {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return &Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  total,
		PageSize:    pageSize,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}
