package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/sekolahku/penilaian-api/internal/dto"
	"github.com/sekolahku/penilaian-api/internal/models"
	appErrors "github.com/sekolahku/penilaian-api/pkg/errors"
)

// UserService provides operator-facing account management.
type UserService struct {
	repo   authUserRepository
	users  userListRepository
	logger *zap.Logger
}

type userListRepository interface {
	List(ctx context.Context) ([]models.UserDetail, error)
	Delete(ctx context.Context, id string) error
}

// NewUserService constructs a UserService instance.
func NewUserService(repo authUserRepository, users userListRepository, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, users: users, logger: logger}
}

// List returns all accounts with their profiles.
func (s *UserService) List(ctx context.Context) ([]dto.UserResponse, error) {
	rows, err := s.users.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	out := make([]dto.UserResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.NewUserResponse(&rows[i]))
	}
	return out, nil
}

// Get returns one account.
func (s *UserService) Get(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}
	if user == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "user tidak ditemukan")
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// Update applies partial account changes. Switching role to wali kelas
// creates the profile row; switching away removes it.
func (s *UserService) Update(ctx context.Context, id string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}
	if existing == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "user tidak ditemukan")
	}

	user := existing.User
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil && *req.Email != user.Email {
		taken, err := s.repo.FindByEmail(ctx, *req.Email)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
		}
		if taken != nil {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email sudah terdaftar")
		}
		user.Email = *req.Email
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Role != nil {
		user.Role = *req.Role
	}

	var profile *models.WaliKelas
	removeProfile := false
	switch {
	case user.Role != models.RoleWaliKelas:
		removeProfile = existing.WaliKelasID != nil
	default:
		profile = &models.WaliKelas{Sekolah: existing.Sekolah, Jurusan: existing.Jurusan}
		if existing.WaliKelasID != nil {
			profile.ID = *existing.WaliKelasID
		}
		if req.Sekolah != nil {
			profile.Sekolah = req.Sekolah
		}
		if req.Jurusan != nil {
			profile.Jurusan = req.Jurusan
		}
	}

	if err := s.repo.UpdateWithProfile(ctx, &user, profile, removeProfile); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user tidak ditemukan")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user")
	}

	s.logger.Info("user updated", zap.String("user_id", user.ID))
	return s.Get(ctx, id)
}

// Delete removes an account and its dependent rows.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user tidak ditemukan")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete user")
	}
	s.logger.Info("user deleted", zap.String("user_id", id))
	return nil
}
