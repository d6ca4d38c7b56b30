package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sekolahku/penilaian-api/internal/models"
)

// UserRepository persists user accounts and their wali kelas profiles.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository builds a user repository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userDetailColumns = `
	u.id, u.name, u.email, u.password_hash, u.phone, u.role, u.created_at, u.updated_at,
	w.id AS walikelas_id, w.sekolah, w.jurusan`

const userDetailFrom = `
	FROM users u
	LEFT JOIN walikelas w ON w.user_id = u.id`

// FindByEmail returns the user with the given email, or nil when absent.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.UserDetail, error) {
	query := `SELECT` + userDetailColumns + userDetailFrom + ` WHERE u.email = $1`
	var user models.UserDetail
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindByID returns the user with the given id, or nil when absent.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.UserDetail, error) {
	query := `SELECT` + userDetailColumns + userDetailFrom + ` WHERE u.id = $1`
	var user models.UserDetail
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// List returns all users with their profiles, newest first.
func (r *UserRepository) List(ctx context.Context) ([]models.UserDetail, error) {
	query := `SELECT` + userDetailColumns + userDetailFrom + ` ORDER BY u.created_at DESC`
	users := []models.UserDetail{}
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// CreateWithProfile inserts the user and, when profile is not nil, its wali
// kelas profile in one transaction.
func (r *UserRepository) CreateWithProfile(ctx context.Context, user *models.User, profile *models.WaliKelas) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create user: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, phone, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Phone, user.Role, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	if profile != nil {
		profile.ID = uuid.NewString()
		profile.UserID = user.ID
		profile.CreatedAt = now
		profile.UpdatedAt = now
		_, err = tx.ExecContext(ctx, `
			INSERT INTO walikelas (id, user_id, sekolah, jurusan, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			profile.ID, profile.UserID, profile.Sekolah, profile.Jurusan, profile.CreatedAt, profile.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert walikelas profile: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create user: %w", err)
	}
	return nil
}

// UpdateWithProfile updates the user row and reconciles its wali kelas
// profile in one transaction: a non-nil profile is upserted, and when
// removeProfile is set any existing profile is deleted.
func (r *UserRepository) UpdateWithProfile(ctx context.Context, user *models.User, profile *models.WaliKelas, removeProfile bool) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update user: %w", err)
	}
	defer tx.Rollback()

	user.UpdatedAt = time.Now()
	result, err := tx.ExecContext(ctx, `
		UPDATE users SET name = $1, email = $2, phone = $3, role = $4, updated_at = $5
		WHERE id = $6`,
		user.Name, user.Email, user.Phone, user.Role, user.UpdatedAt, user.ID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user affected rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	switch {
	case removeProfile:
		if _, err := tx.ExecContext(ctx, `DELETE FROM walikelas WHERE user_id = $1`, user.ID); err != nil {
			return fmt.Errorf("remove walikelas profile: %w", err)
		}
	case profile != nil:
		profile.UserID = user.ID
		profile.UpdatedAt = user.UpdatedAt
		if profile.ID == "" {
			profile.ID = uuid.NewString()
			profile.CreatedAt = user.UpdatedAt
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO walikelas (id, user_id, sekolah, jurusan, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (user_id) DO UPDATE SET
				sekolah = EXCLUDED.sekolah,
				jurusan = EXCLUDED.jurusan,
				updated_at = EXCLUDED.updated_at`,
			profile.ID, profile.UserID, profile.Sekolah, profile.Jurusan, user.UpdatedAt, profile.UpdatedAt)
		if err != nil {
			return fmt.Errorf("upsert walikelas profile: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update user: %w", err)
	}
	return nil
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`,
		passwordHash, time.Now(), id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update password affected rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a user. The wali kelas profile, students, and grade
// records cascade at the schema level.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user affected rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
