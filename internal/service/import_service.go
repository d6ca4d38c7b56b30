package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sekolahku/penilaian-api/internal/dto"
	"github.com/sekolahku/penilaian-api/internal/excel"
	"github.com/sekolahku/penilaian-api/internal/grading"
	"github.com/sekolahku/penilaian-api/internal/models"
	appErrors "github.com/sekolahku/penilaian-api/pkg/errors"
)

// Spreadsheet headers recognized by the bulk importers.
const (
	colNamaSiswa       = "Nama Siswa"
	colKehadiran       = "Kehadiran"
	colNilaiMatematika = "Nilai Matematika"
	colNilaiIPA        = "Nilai IPA"
	colNilaiBInggris   = "Nilai B.Inggris"
	colNilaiIPS        = "Nilai IPS"
	colNilaiBIndonesia = "Nilai B.Indonesia"
	colKelas           = "Kelas"
	colSemester        = "Semester"
	colTahun           = "Tahun"
)

// PenilaianImportColumns is the required header set for grade imports.
var PenilaianImportColumns = []string{
	colNamaSiswa, colKehadiran, colNilaiMatematika, colNilaiIPA,
	colNilaiBInggris, colNilaiIPS, colNilaiBIndonesia,
	colKelas, colSemester, colTahun,
}

// SiswaImportColumns is the required header set for student imports.
var SiswaImportColumns = []string{colNamaSiswa, colKelas, colSemester, colTahun}

type importSiswaStore interface {
	FindOrCreate(ctx context.Context, siswa *models.Siswa) (bool, error)
	FindDuplicate(ctx context.Context, name, kelas, semester string, tahun int, waliKelasID string) (*models.Siswa, error)
	Create(ctx context.Context, siswa *models.Siswa) error
}

type importPenilaianStore interface {
	FindBySiswaPeriod(ctx context.Context, siswaID, semester string, tahun int) (*models.Penilaian, error)
	Create(ctx context.Context, p *models.Penilaian) error
}

type sheetDecoder interface {
	Decode(data []byte) ([]excel.Row, []string, error)
}

// excelDecoder adapts the package-level codec to the decoder interface.
type excelDecoder struct{}

func (excelDecoder) Decode(data []byte) ([]excel.Row, []string, error) {
	return excel.Decode(data)
}

// NewExcelDecoder returns the xlsx-backed sheet decoder.
func NewExcelDecoder() sheetDecoder {
	return excelDecoder{}
}

// ImportServiceParams wires the import service dependencies.
type ImportServiceParams struct {
	Siswa     importSiswaStore
	Penilaian importPenilaianStore
	Profiles  waliKelasReader
	Predictor predictor
	Decoder   sheetDecoder
	Cache     *CacheService
	Metrics   *MetricsService
	Logger    *zap.Logger
	MaxErrors int
}

// ImportService runs the spreadsheet bulk-import pipelines. Rows are
// persisted independently: a failing row never rolls back its predecessors.
type ImportService struct {
	siswa     importSiswaStore
	penilaian importPenilaianStore
	profiles  waliKelasReader
	predictor predictor
	decoder   sheetDecoder
	cache     *CacheService
	metrics   *MetricsService
	logger    *zap.Logger
	maxErrors int
}

// NewImportService constructs an ImportService instance.
func NewImportService(params ImportServiceParams) *ImportService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	decoder := params.Decoder
	if decoder == nil {
		decoder = excelDecoder{}
	}
	maxErrors := params.MaxErrors
	if maxErrors <= 0 {
		maxErrors = 20
	}
	return &ImportService{
		siswa:     params.Siswa,
		penilaian: params.Penilaian,
		profiles:  params.Profiles,
		predictor: params.Predictor,
		decoder:   decoder,
		cache:     params.Cache,
		metrics:   params.Metrics,
		logger:    logger,
		maxErrors: maxErrors,
	}
}

// decodeSheet parses the workbook and verifies the required header set.
func (s *ImportService) decodeSheet(data []byte, required []string) ([]excel.Row, error) {
	rows, headers, err := s.decoder.Decode(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "file Excel tidak dapat dibaca")
	}
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file Excel kosong atau format tidak sesuai")
	}

	present := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		present[h] = struct{}{}
	}
	missing := []string{}
	for _, col := range required {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("kolom yang diperlukan tidak ditemukan: %s", strings.Join(missing, ", ")))
	}
	return rows, nil
}

// resolveOwner maps the caller onto the wali kelas who will own imported rows.
func (s *ImportService) resolveOwner(ctx context.Context, claims *models.JWTClaims) (string, error) {
	if claims == nil {
		return "", appErrors.Clone(appErrors.ErrUnauthorized, "")
	}
	if claims.WaliKelasID != nil && *claims.WaliKelasID != "" {
		return *claims.WaliKelasID, nil
	}
	profile, err := s.profiles.FindByUserID(ctx, claims.UserID)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve walikelas profile")
	}
	if profile == nil {
		return "", appErrors.Clone(appErrors.ErrNotFound, "data wali kelas tidak ditemukan untuk user ini")
	}
	return profile.ID, nil
}

// ImportPenilaian ingests a grade workbook. Each row finds or creates its
// student, skips duplicate periods, computes the grade aggregate, requests
// a best-effort forecast, and persists the record.
func (s *ImportService) ImportPenilaian(ctx context.Context, claims *models.JWTClaims, data []byte) (*dto.ImportReport, error) {
	owner, err := s.resolveOwner(ctx, claims)
	if err != nil {
		return nil, err
	}

	rows, err := s.decodeSheet(data, PenilaianImportColumns)
	if err != nil {
		return nil, err
	}

	report := &dto.ImportReport{Total: len(rows), Errors: []string{}}
	addError := func(rowNumber int, msg string) {
		report.Failed++
		if len(report.Errors) < s.maxErrors {
			report.Errors = append(report.Errors, fmt.Sprintf("Baris %d: %s", rowNumber, msg))
		}
		if s.metrics != nil {
			s.metrics.RecordImportRow("penilaian", "failed")
		}
	}

	for i, row := range rows {
		rowNumber := i + 2

		nama := strings.TrimSpace(row[colNamaSiswa])
		kelas := strings.TrimSpace(row[colKelas])
		if nama == "" || kelas == "" || row[colSemester] == "" || row[colTahun] == "" {
			addError(rowNumber, "Data siswa tidak lengkap (Nama, Kelas, Semester, Tahun wajib diisi)")
			continue
		}

		tahun, ok := parseTahun(row[colTahun])
		if !ok {
			addError(rowNumber, "Tahun harus berupa angka antara 2000-2100")
			continue
		}

		semester, ok := normalizeSemester(row[colSemester])
		if !ok {
			addError(rowNumber, "Semester harus 'ganjil' atau 'genap'")
			continue
		}

		scores := grading.Scores{}
		scoreColumns := []struct {
			label  string
			column string
			dest   *float64
		}{
			{"matematika", colNilaiMatematika, &scores.Matematika},
			{"ipa", colNilaiIPA, &scores.IPA},
			{"b_inggris", colNilaiBInggris, &scores.BInggris},
			{"ips", colNilaiIPS, &scores.IPS},
			{"b_indonesia", colNilaiBIndonesia, &scores.BIndonesia},
		}

		rowValid := true
		for _, sc := range scoreColumns {
			raw := row[sc.column]
			if raw == "" {
				addError(rowNumber, fmt.Sprintf("Nilai %s tidak boleh kosong", sc.label))
				rowValid = false
				break
			}
			value, ok := parseScore(raw)
			if !ok {
				addError(rowNumber, fmt.Sprintf("Nilai %s harus antara 0-100", sc.label))
				rowValid = false
				break
			}
			*sc.dest = value
		}
		if !rowValid {
			continue
		}

		kehadiran, ok := parseKehadiran(row[colKehadiran])
		if !ok {
			addError(rowNumber, "Kehadiran harus antara 0-365 hari")
			continue
		}

		siswa := &models.Siswa{
			Name:        nama,
			Kelas:       kelas,
			Tahun:       tahun,
			Semester:    semester,
			WaliKelasID: owner,
		}
		created, err := s.siswa.FindOrCreate(ctx, siswa)
		if err != nil {
			addError(rowNumber, err.Error())
			continue
		}
		if created {
			report.Details.SiswaDibuat++
		} else {
			report.Details.SiswaDigunakan++
		}

		duplicate, err := s.penilaian.FindBySiswaPeriod(ctx, siswa.ID, semester, tahun)
		if err != nil {
			addError(rowNumber, err.Error())
			continue
		}
		if duplicate != nil {
			addError(rowNumber, fmt.Sprintf("Penilaian untuk %s (%s %d) sudah ada", nama, semester, tahun))
			report.Details.PenilaianDuplikat++
			continue
		}

		avg, kategori := grading.AverageAndCategory(scores)
		record := &models.Penilaian{
			SiswaID:    siswa.ID,
			Semester:   semester,
			Tahun:      tahun,
			Matematika: scores.Matematika,
			IPA:        scores.IPA,
			IPS:        scores.IPS,
			BIndonesia: scores.BIndonesia,
			BInggris:   scores.BInggris,
			Kehadiran:  kehadiran,
			RataRata:   avg,
			Prestasi:   string(kategori),
			CreatedBy:  claims.UserID,
		}
		if s.predictor != nil {
			record.Prediksi = s.predictor.Predict(ctx, scores, semester)
		}

		if err := s.penilaian.Create(ctx, record); err != nil {
			addError(rowNumber, err.Error())
			continue
		}

		report.Success++
		report.Details.PenilaianDibuat++
		if s.metrics != nil {
			s.metrics.RecordImportRow("penilaian", "success")
		}
	}

	s.invalidateDashboard(ctx)
	s.logger.Info("penilaian import finished",
		zap.Int("total", report.Total),
		zap.Int("success", report.Success),
		zap.Int("failed", report.Failed))
	return report, nil
}

// ImportSiswa ingests a student-only workbook. Duplicate identity within
// the owner (name, class, period) counts as a failed row.
func (s *ImportService) ImportSiswa(ctx context.Context, claims *models.JWTClaims, data []byte) (*dto.SiswaImportReport, error) {
	owner, err := s.resolveOwner(ctx, claims)
	if err != nil {
		return nil, err
	}

	rows, err := s.decodeSheet(data, SiswaImportColumns)
	if err != nil {
		return nil, err
	}

	// Student imports surface fewer error lines than grade imports.
	maxErrors := s.maxErrors / 2
	if maxErrors < 1 {
		maxErrors = 1
	}

	report := &dto.SiswaImportReport{Total: len(rows), Errors: []string{}}
	addError := func(rowNumber int, msg string) {
		report.Failed++
		if len(report.Errors) < maxErrors {
			report.Errors = append(report.Errors, fmt.Sprintf("Baris %d: %s", rowNumber, msg))
		}
		if s.metrics != nil {
			s.metrics.RecordImportRow("siswa", "failed")
		}
	}

	for i, row := range rows {
		rowNumber := i + 2

		nama := strings.TrimSpace(row[colNamaSiswa])
		kelas := strings.TrimSpace(row[colKelas])
		if nama == "" || kelas == "" || row[colSemester] == "" || row[colTahun] == "" {
			addError(rowNumber, "Data required tidak lengkap")
			continue
		}

		tahun, ok := parseTahun(row[colTahun])
		if !ok {
			addError(rowNumber, "Tahun harus berupa angka antara 2000-2100")
			continue
		}

		semester, ok := normalizeSemester(row[colSemester])
		if !ok {
			addError(rowNumber, "Semester harus 'ganjil' atau 'genap'")
			continue
		}

		duplicate, err := s.siswa.FindDuplicate(ctx, nama, kelas, semester, tahun, owner)
		if err != nil {
			addError(rowNumber, err.Error())
			continue
		}
		if duplicate != nil {
			report.Duplikat++
			addError(rowNumber, "Data siswa sudah ada")
			continue
		}

		siswa := &models.Siswa{
			Name:        nama,
			Kelas:       kelas,
			Tahun:       tahun,
			Semester:    semester,
			WaliKelasID: owner,
		}
		if err := s.siswa.Create(ctx, siswa); err != nil {
			addError(rowNumber, err.Error())
			continue
		}

		report.Success++
		if s.metrics != nil {
			s.metrics.RecordImportRow("siswa", "success")
		}
	}

	s.invalidateDashboard(ctx)
	s.logger.Info("siswa import finished",
		zap.Int("total", report.Total),
		zap.Int("success", report.Success),
		zap.Int("failed", report.Failed))
	return report, nil
}

// Template generates the downloadable grade-import workbook with example rows.
func (s *ImportService) Template() ([]byte, error) {
	rows := []excel.Row{
		{
			colNamaSiswa: "Budi Santoso", colKehadiran: "350",
			colNilaiMatematika: "85", colNilaiIPA: "88", colNilaiBInggris: "82",
			colNilaiIPS: "80", colNilaiBIndonesia: "87",
			colKelas: "X IPA 1", colSemester: "ganjil", colTahun: "2024",
		},
		{
			colNamaSiswa: "Siti Aminah", colKehadiran: "360",
			colNilaiMatematika: "90", colNilaiIPA: "92", colNilaiBInggris: "88",
			colNilaiIPS: "85", colNilaiBIndonesia: "91",
			colKelas: "X IPA 1", colSemester: "ganjil", colTahun: "2024",
		},
	}
	payload, err := excel.Encode(PenilaianImportColumns, rows)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate template")
	}
	return payload, nil
}

func (s *ImportService) invalidateDashboard(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Invalidate(ctx, "dashboard:*")
}
