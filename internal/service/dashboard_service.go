package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sekolahku/penilaian-api/internal/dto"
	"github.com/sekolahku/penilaian-api/internal/models"
	appErrors "github.com/sekolahku/penilaian-api/pkg/errors"
)

type dashboardRepository interface {
	CountWaliKelas(ctx context.Context) (int, error)
	Summary(ctx context.Context, filter models.DashboardFilter) (*models.DashboardSummary, error)
	PrestasiDistribution(ctx context.Context, filter models.DashboardFilter) ([]models.PrestasiCount, error)
	PrestasiPerSemester(ctx context.Context, filter models.DashboardFilter) ([]models.SemesterPrestasiCount, error)
	AvgPerKelas(ctx context.Context, filter models.DashboardFilter) ([]models.KelasAverage, error)
	TrendPerTahun(ctx context.Context, filter models.DashboardFilter) ([]models.TahunTrend, error)
	FilterOptions(ctx context.Context, waliKelasID string) (*models.FilterOptions, error)
}

type waliKelasDirectory interface {
	waliKelasReader
	FindByID(ctx context.Context, id string) (*models.WaliKelas, error)
}

// DashboardServiceParams wires the dashboard service dependencies.
type DashboardServiceParams struct {
	Repo     dashboardRepository
	Profiles waliKelasDirectory
	Cache    *CacheService
	Logger   *zap.Logger
}

// DashboardService aggregates grade statistics, serving them from cache
// when possible.
type DashboardService struct {
	repo     dashboardRepository
	profiles waliKelasDirectory
	cache    *CacheService
	logger   *zap.Logger
}

// NewDashboardService constructs a DashboardService instance.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		repo:     params.Repo,
		profiles: params.Profiles,
		cache:    params.Cache,
		logger:   logger,
	}
}

// Statistics returns the aggregated dashboard for the caller's scope.
func (s *DashboardService) Statistics(ctx context.Context, claims *models.JWTClaims, filter models.DashboardFilter) (*dto.DashboardStatistics, error) {
	scope, err := resolveScope(ctx, claims, s.profiles)
	if err != nil {
		return nil, err
	}
	if scope != "" {
		filter.WaliKelasID = scope
	}
	return s.build(ctx, filter)
}

// WaliKelasStatistics returns the dashboard narrowed to one wali kelas.
func (s *DashboardService) WaliKelasStatistics(ctx context.Context, waliKelasID string, filter models.DashboardFilter) (*dto.DashboardStatistics, error) {
	if waliKelasID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "walikelas_id wajib diisi")
	}
	profile, err := s.profiles.FindByID(ctx, waliKelasID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load walikelas")
	}
	if profile == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "wali kelas tidak ditemukan")
	}
	filter.WaliKelasID = waliKelasID
	return s.build(ctx, filter)
}

// Filters lists the distinct filter values for the caller's scope.
func (s *DashboardService) Filters(ctx context.Context, claims *models.JWTClaims) (*models.FilterOptions, error) {
	scope, err := resolveScope(ctx, claims, s.profiles)
	if err != nil {
		return nil, err
	}
	options, err := s.repo.FilterOptions(ctx, scope)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load filter options")
	}
	return options, nil
}

func (s *DashboardService) build(ctx context.Context, filter models.DashboardFilter) (*dto.DashboardStatistics, error) {
	key := cacheKey(filter)
	if s.cache != nil {
		cached := &dto.DashboardStatistics{}
		if hit, _ := s.cache.Get(ctx, key, cached); hit {
			return cached, nil
		}
	}

	summary, err := s.repo.Summary(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load dashboard summary")
	}
	if filter.WaliKelasID == "" {
		total, err := s.repo.CountWaliKelas(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count walikelas")
		}
		summary.TotalWaliKelas = total
	} else {
		summary.TotalWaliKelas = 1
	}

	distribution, err := s.repo.PrestasiDistribution(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load prestasi distribution")
	}

	perSemester, err := s.repo.PrestasiPerSemester(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load prestasi per semester")
	}

	perKelas, err := s.repo.AvgPerKelas(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load kelas averages")
	}

	trend, err := s.repo.TrendPerTahun(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load yearly trend")
	}

	stats := &dto.DashboardStatistics{
		Ringkasan:           summary,
		DistribusiPrestasi:  distribution,
		PrestasiPerSemester: perSemester,
		RataRataPerKelas:    perKelas,
		TrenTahunan:         trend,
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, stats, 0)
	}
	return stats, nil
}

func cacheKey(filter models.DashboardFilter) string {
	tahun := 0
	if filter.Tahun != nil {
		tahun = *filter.Tahun
	}
	scope := filter.WaliKelasID
	if scope == "" {
		scope = "all"
	}
	return fmt.Sprintf("dashboard:stats:%s:%d:%s", scope, tahun, filter.Semester)
}
