package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sekolahku/penilaian-api/internal/models"
)

// WaliKelasRepository reads homeroom-teacher profiles.
type WaliKelasRepository struct {
	db *sqlx.DB
}

// NewWaliKelasRepository builds a wali kelas repository.
func NewWaliKelasRepository(db *sqlx.DB) *WaliKelasRepository {
	return &WaliKelasRepository{db: db}
}

// FindByUserID returns the profile owned by the given user, or nil when
// the user has none.
func (r *WaliKelasRepository) FindByUserID(ctx context.Context, userID string) (*models.WaliKelas, error) {
	var profile models.WaliKelas
	err := r.db.GetContext(ctx, &profile,
		`SELECT id, user_id, sekolah, jurusan, created_at, updated_at
		 FROM walikelas WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find walikelas by user: %w", err)
	}
	return &profile, nil
}

// FindByID returns the profile with the given id, or nil when absent.
func (r *WaliKelasRepository) FindByID(ctx context.Context, id string) (*models.WaliKelas, error) {
	var profile models.WaliKelas
	err := r.db.GetContext(ctx, &profile,
		`SELECT id, user_id, sekolah, jurusan, created_at, updated_at
		 FROM walikelas WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find walikelas by id: %w", err)
	}
	return &profile, nil
}
