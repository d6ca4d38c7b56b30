package dto

import "github.com/sekolahku/penilaian-api/internal/models"

// RegisterRequest captures POST /auth/register payload.
type RegisterRequest struct {
	Name     string          `json:"name" binding:"required"`
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=6"`
	Phone    string          `json:"phone"`
	Role     models.UserRole `json:"role" binding:"required,oneof=walikelas operator"`
	Sekolah  *string         `json:"sekolah"`
	Jurusan  *string         `json:"jurusan"`
}

// LoginRequest captures POST /auth/login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest captures profile and account updates. Nil fields are
// left unchanged.
type UpdateUserRequest struct {
	Name    *string          `json:"name"`
	Email   *string          `json:"email" binding:"omitempty,email"`
	Phone   *string          `json:"phone"`
	Role    *models.UserRole `json:"role" binding:"omitempty,oneof=walikelas operator"`
	Sekolah *string          `json:"sekolah"`
	Jurusan *string          `json:"jurusan"`
}

// ChangePasswordRequest captures PUT /auth/password payload.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	Role        models.UserRole `json:"role"`
	WaliKelasID *string         `json:"walikelas_id,omitempty"`
	Sekolah     *string         `json:"sekolah,omitempty"`
	Jurusan     *string         `json:"jurusan,omitempty"`
}

// LoginResponse pairs the issued token with the account view.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// NewUserResponse maps a user detail row onto its public view.
func NewUserResponse(user *models.UserDetail) UserResponse {
	resp := UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Phone: user.Phone,
		Role:  user.Role,
	}
	if user.Role == models.RoleWaliKelas {
		resp.WaliKelasID = user.WaliKelasID
		resp.Sekolah = user.Sekolah
		resp.Jurusan = user.Jurusan
	}
	return resp
}
