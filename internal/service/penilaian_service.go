package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/sekolahku/penilaian-api/internal/dto"
	"github.com/sekolahku/penilaian-api/internal/grading"
	"github.com/sekolahku/penilaian-api/internal/models"
	"github.com/sekolahku/penilaian-api/internal/prediction"
	appErrors "github.com/sekolahku/penilaian-api/pkg/errors"
)

type penilaianRepository interface {
	List(ctx context.Context, filter models.PenilaianFilter) ([]models.PenilaianDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.PenilaianDetail, error)
	FindBySiswaPeriod(ctx context.Context, siswaID, semester string, tahun int) (*models.Penilaian, error)
	ListBySiswa(ctx context.Context, siswaID string) ([]models.Penilaian, error)
	Create(ctx context.Context, p *models.Penilaian) error
	Update(ctx context.Context, p *models.Penilaian) error
	Delete(ctx context.Context, id string) error
}

type siswaReader interface {
	FindByID(ctx context.Context, id string) (*models.SiswaDetail, error)
}

type predictor interface {
	Predict(ctx context.Context, scores grading.Scores, semester string) json.RawMessage
}

// PenilaianServiceParams wires the grade service dependencies.
type PenilaianServiceParams struct {
	Repo      penilaianRepository
	Siswa     siswaReader
	Profiles  waliKelasReader
	Predictor predictor
	Cache     *CacheService
	Metrics   *MetricsService
	Logger    *zap.Logger
}

// PenilaianService provides grade record use cases: CRUD, statistics,
// per-student history, and forecast integration.
type PenilaianService struct {
	repo      penilaianRepository
	siswa     siswaReader
	profiles  waliKelasReader
	predictor predictor
	cache     *CacheService
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewPenilaianService constructs a PenilaianService instance.
func NewPenilaianService(params PenilaianServiceParams) *PenilaianService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PenilaianService{
		repo:      params.Repo,
		siswa:     params.Siswa,
		profiles:  params.Profiles,
		predictor: params.Predictor,
		cache:     params.Cache,
		metrics:   params.Metrics,
		logger:    logger,
	}
}

// Create records a semester's grades for a student, computing the average
// and achievement category and requesting a best-effort forecast.
func (s *PenilaianService) Create(ctx context.Context, claims *models.JWTClaims, req dto.CreatePenilaianRequest) (*dto.PenilaianResponse, error) {
	semester, ok := normalizeSemester(req.Semester)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "semester harus ganjil atau genap")
	}
	if !tahunInRange(req.Tahun) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "tahun harus antara 2000 dan 2100")
	}

	siswa, err := s.siswa.FindByID(ctx, req.SiswaID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch siswa")
	}
	if siswa == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "siswa tidak ditemukan")
	}

	existing, err := s.repo.FindBySiswaPeriod(ctx, req.SiswaID, semester, req.Tahun)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check duplicate penilaian")
	}
	if existing != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "penilaian untuk siswa pada periode tersebut sudah ada")
	}

	scores := grading.Scores{
		Matematika: req.Matematika,
		IPA:        req.IPA,
		IPS:        req.IPS,
		BIndonesia: req.BIndonesia,
		BInggris:   req.BInggris,
	}
	avg, kategori := grading.AverageAndCategory(scores)

	record := &models.Penilaian{
		SiswaID:    req.SiswaID,
		Semester:   semester,
		Tahun:      req.Tahun,
		Matematika: req.Matematika,
		IPA:        req.IPA,
		IPS:        req.IPS,
		BIndonesia: req.BIndonesia,
		BInggris:   req.BInggris,
		Kehadiran:  req.Kehadiran,
		RataRata:   avg,
		Prestasi:   string(kategori),
		Prediksi:   s.requestForecast(ctx, scores, semester),
	}
	if claims != nil {
		record.CreatedBy = claims.UserID
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create penilaian")
	}

	s.invalidateDashboard(ctx)
	s.logger.Info("penilaian created",
		zap.String("penilaian_id", record.ID),
		zap.String("siswa_id", record.SiswaID))
	return s.Get(ctx, record.ID)
}

// List returns grade records visible to the caller plus population
// statistics computed over the full filtered set.
func (s *PenilaianService) List(ctx context.Context, claims *models.JWTClaims, filter models.PenilaianFilter) (*dto.PenilaianListResponse, error) {
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
	page, pageSize := normalizePaging(filter.Page, filter.PageSize)

	// Statistics cover the whole filtered population, so fetch it
	// unpaginated and slice the page in memory.
	filter.Page, filter.PageSize = 0, 0
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list penilaian")
	}

	stats := buildStatistik(rows)

	start := (page - 1) * pageSize
	if start > len(rows) {
		start = len(rows)
	}
	end := start + pageSize
	if end > len(rows) {
		end = len(rows)
	}

	out := make([]dto.PenilaianResponse, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, newPenilaianResponse(&rows[i]))
	}
	return &dto.PenilaianListResponse{
		Penilaian:  out,
		Statistik:  stats,
		Pagination: models.NewPagination(page, pageSize, total),
	}, nil
}

// Get returns one grade record.
func (s *PenilaianService) Get(ctx context.Context, id string) (*dto.PenilaianResponse, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch penilaian")
	}
	if record == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "penilaian tidak ditemukan")
	}
	resp := newPenilaianResponse(record)
	return &resp, nil
}

// BySiswa returns a student's full grade history with the semester-over-
// semester trend.
func (s *PenilaianService) BySiswa(ctx context.Context, claims *models.JWTClaims, siswaID string) (*dto.PenilaianSiswaResponse, error) {
	siswa, err := s.siswa.FindByID(ctx, siswaID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch siswa")
	}
	if siswa == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "siswa tidak ditemukan")
	}

	records, err := s.repo.ListBySiswa(ctx, siswaID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list penilaian siswa")
	}

	out := make([]dto.PenilaianResponse, 0, len(records))
	perkembangan := make([]dto.PerkembanganEntry, 0)
	for i := range records {
		detail := models.PenilaianDetail{
			Penilaian:  records[i],
			SiswaName:  siswa.Name,
			SiswaKelas: siswa.Kelas,
		}
		out = append(out, newPenilaianResponse(&detail))

		if i == 0 {
			continue
		}
		diff := grading.Round2(records[i].RataRata - records[i-1].RataRata)
		tren := prediction.TrenStabil
		switch {
		case diff > 0:
			tren = prediction.TrenMeningkat
		case diff < 0:
			tren = prediction.TrenMenurun
		}
		perkembangan = append(perkembangan, dto.PerkembanganEntry{
			Semester: records[i].Semester,
			Tahun:    records[i].Tahun,
			RataRata: records[i].RataRata,
			Selisih:  diff,
			Tren:     tren,
		})
	}

	return &dto.PenilaianSiswaResponse{
		Siswa:        dto.NewSiswaResponse(siswa),
		Penilaian:    out,
		Perkembangan: perkembangan,
	}, nil
}

// Update applies partial grade changes. Changed scores recompute the
// average, category, and forecast; a changed period re-checks duplicates.
func (s *PenilaianService) Update(ctx context.Context, claims *models.JWTClaims, id string, req dto.UpdatePenilaianRequest) (*dto.PenilaianResponse, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch penilaian")
	}
	if existing == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "penilaian tidak ditemukan")
	}

	record := existing.Penilaian
	periodChanged := false
	if req.Semester != nil {
		semester, ok := normalizeSemester(*req.Semester)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, "semester harus ganjil atau genap")
		}
		periodChanged = periodChanged || semester != record.Semester
		record.Semester = semester
	}
	if req.Tahun != nil {
		if !tahunInRange(*req.Tahun) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "tahun harus antara 2000 dan 2100")
		}
		periodChanged = periodChanged || *req.Tahun != record.Tahun
		record.Tahun = *req.Tahun
	}

	scoresChanged := false
	applyScore := func(dst *float64, src *float64) {
		if src != nil {
			if *src != *dst {
				scoresChanged = true
			}
			*dst = *src
		}
	}
	applyScore(&record.Matematika, req.Matematika)
	applyScore(&record.IPA, req.IPA)
	applyScore(&record.IPS, req.IPS)
	applyScore(&record.BIndonesia, req.BIndonesia)
	applyScore(&record.BInggris, req.BInggris)
	if req.Kehadiran != nil {
		record.Kehadiran = *req.Kehadiran
	}

	if periodChanged {
		duplicate, err := s.repo.FindBySiswaPeriod(ctx, record.SiswaID, record.Semester, record.Tahun)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check duplicate penilaian")
		}
		if duplicate != nil && duplicate.ID != record.ID {
			return nil, appErrors.Clone(appErrors.ErrConflict, "penilaian untuk siswa pada periode tersebut sudah ada")
		}
	}

	scores := grading.Scores{
		Matematika: record.Matematika,
		IPA:        record.IPA,
		IPS:        record.IPS,
		BIndonesia: record.BIndonesia,
		BInggris:   record.BInggris,
	}
	avg, kategori := grading.AverageAndCategory(scores)
	record.RataRata = avg
	record.Prestasi = string(kategori)
	if scoresChanged || periodChanged {
		record.Prediksi = s.requestForecast(ctx, scores, record.Semester)
	}

	if err := s.repo.Update(ctx, &record); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "penilaian tidak ditemukan")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update penilaian")
	}

	s.invalidateDashboard(ctx)
	return s.Get(ctx, id)
}

// Delete removes a grade record.
func (s *PenilaianService) Delete(ctx context.Context, claims *models.JWTClaims, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "penilaian tidak ditemukan")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete penilaian")
	}
	s.invalidateDashboard(ctx)
	s.logger.Info("penilaian deleted", zap.String("penilaian_id", id))
	return nil
}

func (s *PenilaianService) requestForecast(ctx context.Context, scores grading.Scores, semester string) json.RawMessage {
	if s.predictor == nil {
		return nil
	}
	raw := s.predictor.Predict(ctx, scores, semester)
	if s.metrics != nil {
		outcome := "success"
		if raw == nil {
			outcome = "failure"
		}
		s.metrics.RecordPredictionCall(outcome)
	}
	return raw
}

func (s *PenilaianService) invalidateDashboard(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Invalidate(ctx, "dashboard:*")
}

// newPenilaianResponse maps a grade row onto its public view, deriving the
// attendance percentage and category and decoding the stored forecast.
func newPenilaianResponse(record *models.PenilaianDetail) dto.PenilaianResponse {
	pct := grading.Round2(grading.AttendancePercentage(record.Kehadiran))
	forecast := prediction.Parse(record.Prediksi, record.Semester, record.Tahun)
	return dto.PenilaianResponse{
		ID: record.ID,
		Siswa: dto.PenilaianSiswaInfo{
			ID:    record.SiswaID,
			Nama:  record.SiswaName,
			Kelas: record.SiswaKelas,
		},
		Semester:             record.Semester,
		Tahun:                record.Tahun,
		Matematika:           record.Matematika,
		IPA:                  record.IPA,
		IPS:                  record.IPS,
		BIndonesia:           record.BIndonesia,
		BInggris:             record.BInggris,
		Kehadiran:            record.Kehadiran,
		PersentaseKehadiran:  pct,
		KategoriKehadiran:    string(grading.AttendanceCategory(grading.AttendancePercentage(record.Kehadiran))),
		RataRata:             record.RataRata,
		Prestasi:             record.Prestasi,
		Prediksi:             forecast,
		PerbandinganPrediksi: prediction.Compare(forecast, record.RataRata),
	}
}

// buildStatistik summarises a filtered set of grade records.
func buildStatistik(rows []models.PenilaianDetail) *dto.PenilaianStatistik {
	stats := &dto.PenilaianStatistik{
		TotalPenilaian:     len(rows),
		DistribusiPrestasi: map[string]int{},
	}
	if len(rows) == 0 {
		return stats
	}

	sum := 0.0
	highest := rows[0].RataRata
	lowest := rows[0].RataRata
	for i := range rows {
		avg := rows[i].RataRata
		sum += avg
		if avg > highest {
			highest = avg
		}
		if avg < lowest {
			lowest = avg
		}
		stats.DistribusiPrestasi[rows[i].Prestasi]++
	}
	stats.RataRata = grading.Round2(sum / float64(len(rows)))
	stats.NilaiTertinggi = highest
	stats.NilaiTerendah = lowest
	return stats
}
