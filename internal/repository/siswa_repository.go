package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sekolahku/penilaian-api/internal/models"
)

// SiswaRepository persists students.
type SiswaRepository struct {
	db *sqlx.DB
}

// NewSiswaRepository builds a student repository.
func NewSiswaRepository(db *sqlx.DB) *SiswaRepository {
	return &SiswaRepository{db: db}
}

const siswaDetailColumns = `
	s.id, s.name, s.kelas, s.tahun, s.semester, s.walikelas_id, s.created_at, s.updated_at,
	w.sekolah AS walikelas_sekolah, w.jurusan AS walikelas_jurusan, w.user_id AS walikelas_user_id,
	u.name AS walikelas_name, u.email AS walikelas_email`

const siswaDetailFrom = `
	FROM siswa s
	LEFT JOIN walikelas w ON w.id = s.walikelas_id
	LEFT JOIN users u ON u.id = w.user_id`

func siswaFilterClauses(filter models.SiswaFilter) (string, []interface{}) {
	clauses := []string{}
	args := []interface{}{}

	add := func(clause string, value interface{}) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.WaliKelasID != "" {
		add("s.walikelas_id = $%d", filter.WaliKelasID)
	}
	if filter.Kelas != "" {
		add("s.kelas = $%d", filter.Kelas)
	}
	if filter.Tahun != nil {
		add("s.tahun = $%d", *filter.Tahun)
	}
	if filter.Semester != "" {
		add("LOWER(s.semester) = LOWER($%d)", filter.Semester)
	}
	if filter.Search != "" {
		add("s.name ILIKE $%d", "%"+filter.Search+"%")
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// List returns students matching the filter plus the unpaginated total.
func (r *SiswaRepository) List(ctx context.Context, filter models.SiswaFilter) ([]models.SiswaDetail, int, error) {
	where, args := siswaFilterClauses(filter)

	var total int
	countQuery := `SELECT COUNT(*)` + siswaDetailFrom + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count siswa: %w", err)
	}

	query := `SELECT` + siswaDetailColumns + siswaDetailFrom + where +
		` ORDER BY s.tahun DESC, s.semester ASC, s.kelas ASC, s.name ASC`
	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.PageSize, offset)
	}

	siswa := []models.SiswaDetail{}
	if err := r.db.SelectContext(ctx, &siswa, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list siswa: %w", err)
	}
	return siswa, total, nil
}

// FindByID returns a student with its wali kelas, or nil when absent.
func (r *SiswaRepository) FindByID(ctx context.Context, id string) (*models.SiswaDetail, error) {
	query := `SELECT` + siswaDetailColumns + siswaDetailFrom + ` WHERE s.id = $1`
	var siswa models.SiswaDetail
	if err := r.db.GetContext(ctx, &siswa, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find siswa by id: %w", err)
	}
	return &siswa, nil
}

// FindByNameKelas looks a student up by the grade-import identity:
// case-insensitive name plus class under one wali kelas.
func (r *SiswaRepository) FindByNameKelas(ctx context.Context, name, kelas, waliKelasID string) (*models.Siswa, error) {
	var siswa models.Siswa
	err := r.db.GetContext(ctx, &siswa,
		`SELECT id, name, kelas, tahun, semester, walikelas_id, created_at, updated_at
		 FROM siswa
		 WHERE LOWER(name) = LOWER($1) AND kelas = $2 AND walikelas_id = $3
		 LIMIT 1`,
		name, kelas, waliKelasID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find siswa by name and kelas: %w", err)
	}
	return &siswa, nil
}

// FindDuplicate looks a student up by the student-creation identity, which
// additionally includes the enrollment period.
func (r *SiswaRepository) FindDuplicate(ctx context.Context, name, kelas, semester string, tahun int, waliKelasID string) (*models.Siswa, error) {
	var siswa models.Siswa
	err := r.db.GetContext(ctx, &siswa,
		`SELECT id, name, kelas, tahun, semester, walikelas_id, created_at, updated_at
		 FROM siswa
		 WHERE LOWER(name) = LOWER($1) AND kelas = $2 AND LOWER(semester) = LOWER($3)
		   AND tahun = $4 AND walikelas_id = $5
		 LIMIT 1`,
		name, kelas, semester, tahun, waliKelasID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find duplicate siswa: %w", err)
	}
	return &siswa, nil
}

// Create inserts a student, assigning id and timestamps.
func (r *SiswaRepository) Create(ctx context.Context, siswa *models.Siswa) error {
	now := time.Now()
	siswa.ID = uuid.NewString()
	siswa.CreatedAt = now
	siswa.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO siswa (id, name, kelas, tahun, semester, walikelas_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		siswa.ID, siswa.Name, siswa.Kelas, siswa.Tahun, siswa.Semester,
		siswa.WaliKelasID, siswa.CreatedAt, siswa.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert siswa: %w", err)
	}
	return nil
}

// FindOrCreate returns the existing student with the same name and class
// under the wali kelas, or inserts one. It reports whether a row was created.
func (r *SiswaRepository) FindOrCreate(ctx context.Context, siswa *models.Siswa) (bool, error) {
	existing, err := r.FindByNameKelas(ctx, siswa.Name, siswa.Kelas, siswa.WaliKelasID)
	if err != nil {
		return false, err
	}
	if existing != nil {
		*siswa = *existing
		return false, nil
	}
	if err := r.Create(ctx, siswa); err != nil {
		return false, err
	}
	return true, nil
}

// Update rewrites the mutable student fields.
func (r *SiswaRepository) Update(ctx context.Context, siswa *models.Siswa) error {
	siswa.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx, `
		UPDATE siswa SET name = $1, kelas = $2, tahun = $3, semester = $4, updated_at = $5
		WHERE id = $6`,
		siswa.Name, siswa.Kelas, siswa.Tahun, siswa.Semester, siswa.UpdatedAt, siswa.ID)
	if err != nil {
		return fmt.Errorf("update siswa: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update siswa affected rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a student. Grade records cascade at the schema level.
func (r *SiswaRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM siswa WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete siswa: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete siswa affected rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
