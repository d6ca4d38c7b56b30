package service

import (
	"context"

	"github.com/sekolahku/penilaian-api/internal/models"
	appErrors "github.com/sekolahku/penilaian-api/pkg/errors"
)

type waliKelasReader interface {
	FindByUserID(ctx context.Context, userID string) (*models.WaliKelas, error)
}

// resolveScope returns the wali kelas id the caller is restricted to.
// Operators get an empty scope and see everything. Claims usually embed
// the profile id; older tokens fall back to a lookup.
func resolveScope(ctx context.Context, claims *models.JWTClaims, profiles waliKelasReader) (string, error) {
	if claims == nil || claims.Role != models.RoleWaliKelas {
		return "", nil
	}
	if claims.WaliKelasID != nil && *claims.WaliKelasID != "" {
		return *claims.WaliKelasID, nil
	}
	profile, err := profiles.FindByUserID(ctx, claims.UserID)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve walikelas profile")
	}
	if profile == nil {
		return "", appErrors.Clone(appErrors.ErrForbidden, "profil wali kelas tidak ditemukan")
	}
	return profile.ID, nil
}
