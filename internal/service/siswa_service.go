package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/sekolahku/penilaian-api/internal/dto"
	"github.com/sekolahku/penilaian-api/internal/models"
	appErrors "github.com/sekolahku/penilaian-api/pkg/errors"
)

type siswaRepository interface {
	List(ctx context.Context, filter models.SiswaFilter) ([]models.SiswaDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.SiswaDetail, error)
	FindDuplicate(ctx context.Context, name, kelas, semester string, tahun int, waliKelasID string) (*models.Siswa, error)
	Create(ctx context.Context, siswa *models.Siswa) error
	Update(ctx context.Context, siswa *models.Siswa) error
	Delete(ctx context.Context, id string) error
}

// SiswaServiceParams wires the student service dependencies.
type SiswaServiceParams struct {
	Repo     siswaRepository
	Profiles waliKelasReader
	Cache    *CacheService
	Logger   *zap.Logger
}

// SiswaService provides student CRUD with ownership scoping.
type SiswaService struct {
	repo     siswaRepository
	profiles waliKelasReader
	cache    *CacheService
	logger   *zap.Logger
}

// NewSiswaService constructs a SiswaService instance.
func NewSiswaService(params SiswaServiceParams) *SiswaService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SiswaService{
		repo:     params.Repo,
		profiles: params.Profiles,
		cache:    params.Cache,
		logger:   logger,
	}
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

func normalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// Create adds a student. Duplicate identity (name, class, period, owner)
// is rejected.
func (s *SiswaService) Create(ctx context.Context, claims *models.JWTClaims, req dto.CreateSiswaRequest) (*dto.SiswaResponse, error) {
	semester, ok := normalizeSemester(req.Semester)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "semester harus ganjil atau genap")
	}
	if !tahunInRange(req.Tahun) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "tahun harus antara 2000 dan 2100")
	}

	scope, err := resolveScope(ctx, claims, s.profiles)
	if err != nil {
		return nil, err
	}
	owner := scope
	if owner == "" {
		if req.WaliKelasID == nil || *req.WaliKelasID == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "walikelas_id wajib diisi")
		}
		owner = *req.WaliKelasID
	}

	nama := strings.TrimSpace(req.Nama)
	duplicate, err := s.repo.FindDuplicate(ctx, nama, req.Kelas, semester, req.Tahun, owner)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check duplicate siswa")
	}
	if duplicate != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "siswa dengan data yang sama sudah ada")
	}

	siswa := &models.Siswa{
		Name:        nama,
		Kelas:       req.Kelas,
		Tahun:       req.Tahun,
		Semester:    semester,
		WaliKelasID: owner,
	}
	if err := s.repo.Create(ctx, siswa); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create siswa")
	}

	s.invalidateDashboard(ctx)
	s.logger.Info("siswa created", zap.String("siswa_id", siswa.ID))
	return s.Get(ctx, claims, siswa.ID)
}

// List returns students visible to the caller.
func (s *SiswaService) List(ctx context.Context, claims *models.JWTClaims, filter models.SiswaFilter) (*dto.SiswaListResponse, error) {
	if search := strings.TrimSpace(filter.Search); search != "" && len([]rune(search)) < 2 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "kata kunci pencarian minimal 2 karakter")
	}
	if filter.Semester != "" {
		semester, ok := normalizeSemester(filter.Semester)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, "semester harus ganjil atau genap")
		}
		filter.Semester = semester
	}

	scope, err := resolveScope(ctx, claims, s.profiles)
	if err != nil {
		return nil, err
	}
	if scope != "" {
		filter.WaliKelasID = scope
	}
	filter.Page, filter.PageSize = normalizePaging(filter.Page, filter.PageSize)

	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list siswa")
	}

	out := make([]dto.SiswaResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.NewSiswaResponse(&rows[i]))
	}
	return &dto.SiswaListResponse{
		Siswa:      out,
		Pagination: models.NewPagination(filter.Page, filter.PageSize, total),
	}, nil
}

// Get returns one student. Single-record reads are not scope filtered;
// only listings narrow to the caller's students.
func (s *SiswaService) Get(ctx context.Context, claims *models.JWTClaims, id string) (*dto.SiswaResponse, error) {
	siswa, err := s.findExisting(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewSiswaResponse(siswa)
	return &resp, nil
}

// Update applies partial student changes.
func (s *SiswaService) Update(ctx context.Context, claims *models.JWTClaims, id string, req dto.UpdateSiswaRequest) (*dto.SiswaResponse, error) {
	existing, err := s.findExisting(ctx, id)
	if err != nil {
		return nil, err
	}

	siswa := existing.Siswa
	if req.Nama != nil {
		siswa.Name = strings.TrimSpace(*req.Nama)
	}
	if req.Kelas != nil {
		siswa.Kelas = *req.Kelas
	}
	if req.Tahun != nil {
		if !tahunInRange(*req.Tahun) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "tahun harus antara 2000 dan 2100")
		}
		siswa.Tahun = *req.Tahun
	}
	if req.Semester != nil {
		semester, ok := normalizeSemester(*req.Semester)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, "semester harus ganjil atau genap")
		}
		siswa.Semester = semester
	}

	if err := s.repo.Update(ctx, &siswa); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "siswa tidak ditemukan")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update siswa")
	}

	s.invalidateDashboard(ctx)
	return s.Get(ctx, claims, id)
}

// Delete removes a student and, via the schema, its grade records.
func (s *SiswaService) Delete(ctx context.Context, claims *models.JWTClaims, id string) error {
	if _, err := s.findExisting(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "siswa tidak ditemukan")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete siswa")
	}
	s.invalidateDashboard(ctx)
	s.logger.Info("siswa deleted", zap.String("siswa_id", id))
	return nil
}

func (s *SiswaService) findExisting(ctx context.Context, id string) (*models.SiswaDetail, error) {
	siswa, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch siswa")
	}
	if siswa == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "siswa tidak ditemukan")
	}
	return siswa, nil
}

func (s *SiswaService) invalidateDashboard(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Invalidate(ctx, "dashboard:*")
}
