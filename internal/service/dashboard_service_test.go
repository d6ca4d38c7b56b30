package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sekolahku/penilaian-api/internal/models"
	appErrors "github.com/sekolahku/penilaian-api/pkg/errors"
)

type fakeDashboardRepo struct {
	summaryCalls   int
	countCalls     int
	lastFilter     models.DashboardFilter
	filterOptions  *models.FilterOptions
	lastOptionsFor string
}

func (f *fakeDashboardRepo) CountWaliKelas(ctx context.Context) (int, error) {
	f.countCalls++
	return 7, nil
}

func (f *fakeDashboardRepo) Summary(ctx context.Context, filter models.DashboardFilter) (*models.DashboardSummary, error) {
	f.summaryCalls++
	f.lastFilter = filter
	return &models.DashboardSummary{TotalSiswa: 30, TotalPenilaian: 60, AvgNilai: 82.5}, nil
}

func (f *fakeDashboardRepo) PrestasiDistribution(ctx context.Context, filter models.DashboardFilter) ([]models.PrestasiCount, error) {
	return []models.PrestasiCount{{Prestasi: "Baik", Count: 40}}, nil
}

func (f *fakeDashboardRepo) PrestasiPerSemester(ctx context.Context, filter models.DashboardFilter) ([]models.SemesterPrestasiCount, error) {
	return nil, nil
}

func (f *fakeDashboardRepo) AvgPerKelas(ctx context.Context, filter models.DashboardFilter) ([]models.KelasAverage, error) {
	return nil, nil
}

func (f *fakeDashboardRepo) TrendPerTahun(ctx context.Context, filter models.DashboardFilter) ([]models.TahunTrend, error) {
	return nil, nil
}

func (f *fakeDashboardRepo) FilterOptions(ctx context.Context, waliKelasID string) (*models.FilterOptions, error) {
	f.lastOptionsFor = waliKelasID
	return f.filterOptions, nil
}

type memCacheRepo struct {
	entries map[string][]byte
}

func (m *memCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if m.entries == nil {
		m.entries = map[string][]byte{}
	}
	m.entries[key] = raw
	return nil
}

func (m *memCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.entries = map[string][]byte{}
	return nil
}

func newDashboardSvc(repo *fakeDashboardRepo, cache *CacheService) *DashboardService {
	return NewDashboardService(DashboardServiceParams{
		Repo:     repo,
		Profiles: &fakeProfiles{byID: map[string]*models.WaliKelas{"wk-2": {ID: "wk-2"}}},
		Cache:    cache,
		Logger:   zap.NewNop(),
	})
}

func TestDashboardStatisticsOperatorCountsWaliKelas(t *testing.T) {
	repo := &fakeDashboardRepo{}
	svc := newDashboardSvc(repo, nil)

	stats, err := svc.Statistics(context.Background(), operatorClaims(), models.DashboardFilter{})
	require.NoError(t, err)
	assert.Equal(t, 7, stats.Ringkasan.TotalWaliKelas)
	assert.Equal(t, 1, repo.countCalls)
	assert.Empty(t, repo.lastFilter.WaliKelasID)
}

func TestDashboardStatisticsScopesWaliKelas(t *testing.T) {
	repo := &fakeDashboardRepo{}
	svc := newDashboardSvc(repo, nil)

	stats, err := svc.Statistics(context.Background(), waliKelasClaims("wk-1"), models.DashboardFilter{})
	require.NoError(t, err)
	assert.Equal(t, "wk-1", repo.lastFilter.WaliKelasID)
	assert.Equal(t, 1, stats.Ringkasan.TotalWaliKelas)
	assert.Equal(t, 0, repo.countCalls)
}

func TestDashboardStatisticsServedFromCache(t *testing.T) {
	repo := &fakeDashboardRepo{}
	cache := NewCacheService(&memCacheRepo{}, nil, time.Minute, zap.NewNop(), true)
	svc := newDashboardSvc(repo, cache)

	_, err := svc.Statistics(context.Background(), operatorClaims(), models.DashboardFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.summaryCalls)

	stats, err := svc.Statistics(context.Background(), operatorClaims(), models.DashboardFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.summaryCalls)
	assert.Equal(t, 30, stats.Ringkasan.TotalSiswa)
}

func TestWaliKelasStatisticsRequiresID(t *testing.T) {
	svc := newDashboardSvc(&fakeDashboardRepo{}, nil)

	_, err := svc.WaliKelasStatistics(context.Background(), "", models.DashboardFilter{})
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(t, err))

	repo := &fakeDashboardRepo{}
	svc = newDashboardSvc(repo, nil)
	_, err = svc.WaliKelasStatistics(context.Background(), "wk-2", models.DashboardFilter{})
	require.NoError(t, err)
	assert.Equal(t, "wk-2", repo.lastFilter.WaliKelasID)
}

func TestWaliKelasStatisticsUnknownID(t *testing.T) {
	repo := &fakeDashboardRepo{}
	svc := newDashboardSvc(repo, nil)

	_, err := svc.WaliKelasStatistics(context.Background(), "wk-hilang", models.DashboardFilter{})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, "wali kelas tidak ditemukan", appErr.Message)
	assert.Equal(t, 0, repo.summaryCalls)
}

func TestDashboardFiltersScoped(t *testing.T) {
	repo := &fakeDashboardRepo{filterOptions: &models.FilterOptions{Tahun: []int{2024}, Kelas: []string{"X IPA 1"}}}
	svc := newDashboardSvc(repo, nil)

	options, err := svc.Filters(context.Background(), waliKelasClaims("wk-1"))
	require.NoError(t, err)
	assert.Equal(t, "wk-1", repo.lastOptionsFor)
	assert.Equal(t, []int{2024}, options.Tahun)
}
