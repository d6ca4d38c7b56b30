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

// PenilaianRepository persists grade records.
type PenilaianRepository struct {
	db *sqlx.DB
}

// NewPenilaianRepository builds a grade record repository.
func NewPenilaianRepository(db *sqlx.DB) *PenilaianRepository {
	return &PenilaianRepository{db: db}
}

const penilaianDetailColumns = `
	p.id, p.siswa_id, p.semester, p.tahun, p.matematika, p.ipa, p.ips,
	p.b_indonesia, p.b_inggris, p.kehadiran, p.rata_rata, p.prestasi,
	p.prediksi, p.created_by, p.created_at, p.updated_at,
	s.name AS siswa_name, s.kelas AS siswa_kelas,
	s.walikelas_id, w.sekolah AS walikelas_sekolah,
	u.name AS walikelas_name, u.email AS walikelas_email`

const penilaianDetailFrom = `
	FROM penilaian p
	JOIN siswa s ON s.id = p.siswa_id
	LEFT JOIN walikelas w ON w.id = s.walikelas_id
	LEFT JOIN users u ON u.id = w.user_id`

func penilaianFilterClauses(filter models.PenilaianFilter) (string, []interface{}) {
	clauses := []string{}
	args := []interface{}{}

	add := func(clause string, value interface{}) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.WaliKelasID != "" {
		add("s.walikelas_id = $%d", filter.WaliKelasID)
	}
	if filter.SiswaID != "" {
		add("p.siswa_id = $%d", filter.SiswaID)
	}
	if filter.Kelas != "" {
		add("s.kelas = $%d", filter.Kelas)
	}
	if filter.Semester != "" {
		add("LOWER(p.semester) = LOWER($%d)", filter.Semester)
	}
	if filter.Tahun != nil {
		add("p.tahun = $%d", *filter.Tahun)
	}
	if filter.Search != "" {
		add("s.name ILIKE $%d", "%"+filter.Search+"%")
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// List returns grade records matching the filter plus the unpaginated total.
// PageSize zero disables pagination, which export relies on.
func (r *PenilaianRepository) List(ctx context.Context, filter models.PenilaianFilter) ([]models.PenilaianDetail, int, error) {
	where, args := penilaianFilterClauses(filter)

	var total int
	countQuery := `SELECT COUNT(*)` + penilaianDetailFrom + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count penilaian: %w", err)
	}

	query := `SELECT` + penilaianDetailColumns + penilaianDetailFrom + where +
		` ORDER BY p.tahun DESC, p.semester DESC, s.name ASC`
	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.PageSize, offset)
	}

	records := []models.PenilaianDetail{}
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list penilaian: %w", err)
	}
	return records, total, nil
}

// FindByID returns one grade record with its student, or nil when absent.
func (r *PenilaianRepository) FindByID(ctx context.Context, id string) (*models.PenilaianDetail, error) {
	query := `SELECT` + penilaianDetailColumns + penilaianDetailFrom + ` WHERE p.id = $1`
	var record models.PenilaianDetail
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find penilaian by id: %w", err)
	}
	return &record, nil
}

// FindBySiswaPeriod returns the record for one student and period, or nil.
// The (siswa, semester, tahun) triple is the duplicate key for grade entry.
func (r *PenilaianRepository) FindBySiswaPeriod(ctx context.Context, siswaID, semester string, tahun int) (*models.Penilaian, error) {
	var record models.Penilaian
	err := r.db.GetContext(ctx, &record, `
		SELECT id, siswa_id, semester, tahun, matematika, ipa, ips, b_indonesia,
		       b_inggris, kehadiran, rata_rata, prestasi, prediksi, created_by,
		       created_at, updated_at
		FROM penilaian
		WHERE siswa_id = $1 AND LOWER(semester) = LOWER($2) AND tahun = $3
		LIMIT 1`,
		siswaID, semester, tahun)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find penilaian by period: %w", err)
	}
	return &record, nil
}

// ListBySiswa returns every record of one student ordered chronologically.
func (r *PenilaianRepository) ListBySiswa(ctx context.Context, siswaID string) ([]models.Penilaian, error) {
	records := []models.Penilaian{}
	err := r.db.SelectContext(ctx, &records, `
		SELECT id, siswa_id, semester, tahun, matematika, ipa, ips, b_indonesia,
		       b_inggris, kehadiran, rata_rata, prestasi, prediksi, created_by,
		       created_at, updated_at
		FROM penilaian
		WHERE siswa_id = $1
		ORDER BY tahun ASC, semester ASC`,
		siswaID)
	if err != nil {
		return nil, fmt.Errorf("list penilaian by siswa: %w", err)
	}
	return records, nil
}

// Create inserts a grade record, assigning id and timestamps.
func (r *PenilaianRepository) Create(ctx context.Context, p *models.Penilaian) error {
	now := time.Now()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO penilaian (id, siswa_id, semester, tahun, matematika, ipa, ips,
			b_indonesia, b_inggris, kehadiran, rata_rata, prestasi, prediksi,
			created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		p.ID, p.SiswaID, p.Semester, p.Tahun, p.Matematika, p.IPA, p.IPS,
		p.BIndonesia, p.BInggris, p.Kehadiran, p.RataRata, p.Prestasi,
		nullableJSON(p.Prediksi), p.CreatedBy, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert penilaian: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields of a grade record.
func (r *PenilaianRepository) Update(ctx context.Context, p *models.Penilaian) error {
	p.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx, `
		UPDATE penilaian SET semester = $1, tahun = $2, matematika = $3, ipa = $4,
			ips = $5, b_indonesia = $6, b_inggris = $7, kehadiran = $8,
			rata_rata = $9, prestasi = $10, prediksi = $11, updated_at = $12
		WHERE id = $13`,
		p.Semester, p.Tahun, p.Matematika, p.IPA, p.IPS, p.BIndonesia,
		p.BInggris, p.Kehadiran, p.RataRata, p.Prestasi,
		nullableJSON(p.Prediksi), p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("update penilaian: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update penilaian affected rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a grade record.
func (r *PenilaianRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM penilaian WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete penilaian: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete penilaian affected rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// nullableJSON maps an empty payload onto SQL NULL for the jsonb column.
func nullableJSON(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
