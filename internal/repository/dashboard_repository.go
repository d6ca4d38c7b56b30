package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/sekolahku/penilaian-api/internal/models"
)

// DashboardRepository runs the aggregate queries behind the dashboard.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository builds a dashboard repository.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

const dashboardFrom = `
	FROM penilaian p
	JOIN siswa s ON s.id = p.siswa_id`

// avgExpr averages the per-record subject mean; kehadiran is stored as a
// day count and converted to a percentage here.
const avgExpr = `
	COALESCE(AVG(p.rata_rata), 0) AS avg_nilai,
	COALESCE(AVG(p.kehadiran::float / 365 * 100), 0) AS avg_kehadiran`

func dashboardFilterClauses(filter models.DashboardFilter) (string, []interface{}) {
	clauses := []string{}
	args := []interface{}{}

	add := func(clause string, value interface{}) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.WaliKelasID != "" {
		add("s.walikelas_id = $%d", filter.WaliKelasID)
	}
	if filter.Tahun != nil {
		add("p.tahun = $%d", *filter.Tahun)
	}
	if filter.Semester != "" {
		add("LOWER(p.semester) = LOWER($%d)", filter.Semester)
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// CountWaliKelas counts registered homeroom-teacher accounts.
func (r *DashboardRepository) CountWaliKelas(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM users WHERE role = $1`, models.RoleWaliKelas)
	if err != nil {
		return 0, fmt.Errorf("count walikelas: %w", err)
	}
	return count, nil
}

// Summary returns the headline counters for the filtered population.
func (r *DashboardRepository) Summary(ctx context.Context, filter models.DashboardFilter) (*models.DashboardSummary, error) {
	where, args := dashboardFilterClauses(filter)
	query := `
		SELECT COUNT(DISTINCT s.id) AS total_siswa,
		       COUNT(DISTINCT s.kelas) AS total_kelas,
		       COUNT(p.id) AS total_penilaian,` + avgExpr + dashboardFrom + where

	var summary models.DashboardSummary
	if err := r.db.GetContext(ctx, &summary, query, args...); err != nil {
		return nil, fmt.Errorf("dashboard summary: %w", err)
	}
	return &summary, nil
}

// PrestasiDistribution counts grade records per achievement category.
func (r *DashboardRepository) PrestasiDistribution(ctx context.Context, filter models.DashboardFilter) ([]models.PrestasiCount, error) {
	where, args := dashboardFilterClauses(filter)
	query := `SELECT p.prestasi, COUNT(*) AS count` + dashboardFrom + where +
		` GROUP BY p.prestasi ORDER BY COUNT(*) DESC`

	rows := []models.PrestasiCount{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("prestasi distribution: %w", err)
	}
	return rows, nil
}

// PrestasiPerSemester breaks the category counts down per semester.
func (r *DashboardRepository) PrestasiPerSemester(ctx context.Context, filter models.DashboardFilter) ([]models.SemesterPrestasiCount, error) {
	where, args := dashboardFilterClauses(filter)
	query := `SELECT p.semester, p.prestasi, COUNT(*) AS count` + dashboardFrom + where +
		` GROUP BY p.semester, p.prestasi ORDER BY p.semester ASC, COUNT(*) DESC`

	rows := []models.SemesterPrestasiCount{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("prestasi per semester: %w", err)
	}
	return rows, nil
}

// AvgPerKelas aggregates scores and attendance per class.
func (r *DashboardRepository) AvgPerKelas(ctx context.Context, filter models.DashboardFilter) ([]models.KelasAverage, error) {
	where, args := dashboardFilterClauses(filter)
	query := `SELECT s.kelas, COUNT(DISTINCT s.id) AS total_siswa,` + avgExpr +
		dashboardFrom + where + ` GROUP BY s.kelas ORDER BY s.kelas ASC`

	rows := []models.KelasAverage{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("average per kelas: %w", err)
	}
	return rows, nil
}

// TrendPerTahun aggregates scores and attendance per year.
func (r *DashboardRepository) TrendPerTahun(ctx context.Context, filter models.DashboardFilter) ([]models.TahunTrend, error) {
	// Year trends ignore the year filter so the chart keeps its history.
	trendFilter := filter
	trendFilter.Tahun = nil
	where, args := dashboardFilterClauses(trendFilter)
	query := `SELECT p.tahun, COUNT(DISTINCT s.id) AS total_siswa,` + avgExpr +
		dashboardFrom + where + ` GROUP BY p.tahun ORDER BY p.tahun ASC`

	rows := []models.TahunTrend{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("trend per tahun: %w", err)
	}
	return rows, nil
}

// FilterOptions lists the distinct years, semesters, and classes on record.
func (r *DashboardRepository) FilterOptions(ctx context.Context, waliKelasID string) (*models.FilterOptions, error) {
	where := ""
	args := []interface{}{}
	if waliKelasID != "" {
		where = " WHERE s.walikelas_id = $1"
		args = append(args, waliKelasID)
	}

	options := &models.FilterOptions{Tahun: []int{}, Semester: []string{}, Kelas: []string{}}

	tahunQuery := `SELECT DISTINCT p.tahun` + dashboardFrom + where + ` ORDER BY p.tahun DESC`
	if err := r.db.SelectContext(ctx, &options.Tahun, tahunQuery, args...); err != nil {
		return nil, fmt.Errorf("distinct tahun: %w", err)
	}

	semesterQuery := `SELECT DISTINCT p.semester` + dashboardFrom + where + ` ORDER BY p.semester ASC`
	if err := r.db.SelectContext(ctx, &options.Semester, semesterQuery, args...); err != nil {
		return nil, fmt.Errorf("distinct semester: %w", err)
	}

	kelasQuery := `SELECT DISTINCT s.kelas` + dashboardFrom + where + ` ORDER BY s.kelas ASC`
	if err := r.db.SelectContext(ctx, &options.Kelas, kelasQuery, args...); err != nil {
		return nil, fmt.Errorf("distinct kelas: %w", err)
	}
	return options, nil
}
