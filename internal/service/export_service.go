package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sekolahku/penilaian-api/internal/excel"
	"github.com/sekolahku/penilaian-api/internal/grading"
	"github.com/sekolahku/penilaian-api/internal/models"
	"github.com/sekolahku/penilaian-api/internal/prediction"
	appErrors "github.com/sekolahku/penilaian-api/pkg/errors"
	"github.com/sekolahku/penilaian-api/pkg/export"
)

// Export media types.
const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeCSV  = "text/csv"
	ContentTypePDF  = "application/pdf"
)

// ExportFormat selects the serialization of a tabular export.
type ExportFormat string

const (
	FormatXLSX ExportFormat = "xlsx"
	FormatCSV  ExportFormat = "csv"
)

// ExportServiceParams wires the export service dependencies.
type ExportServiceParams struct {
	Penilaian penilaianRepository
	Siswa     siswaReader
	Profiles  waliKelasReader
	CSV       *export.CSVExporter
	PDF       *export.PDFExporter
	Logger    *zap.Logger
}

// ExportService renders grade data as downloadable files.
type ExportService struct {
	penilaian penilaianRepository
	siswa     siswaReader
	profiles  waliKelasReader
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	logger    *zap.Logger
}

// NewExportService constructs an ExportService instance.
func NewExportService(params ExportServiceParams) *ExportService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	csvExporter := params.CSV
	if csvExporter == nil {
		csvExporter = export.NewCSVExporter()
	}
	pdfExporter := params.PDF
	if pdfExporter == nil {
		pdfExporter = export.NewPDFExporter()
	}
	return &ExportService{
		penilaian: params.Penilaian,
		siswa:     params.Siswa,
		profiles:  params.Profiles,
		csv:       csvExporter,
		pdf:       pdfExporter,
		logger:    logger,
	}
}

// ExportFile is a rendered download.
type ExportFile struct {
	Payload     []byte
	Filename    string
	ContentType string
}

var penilaianExportHeaders = []string{
	"Nama Siswa", "Kelas", "Wali Kelas",
	"Tahun Ajaran", "Semester",
	"Kehadiran (Hari)", "Persentase Kehadiran (%)", "Kategori Kehadiran",
	"Nilai Matematika", "Nilai IPA", "Nilai IPS",
	"Nilai Bahasa Indonesia", "Nilai Bahasa Inggris",
	"Rata-rata Nilai", "Kategori Prestasi",
	"Prediksi Matematika", "Prediksi IPA", "Prediksi IPS",
	"Prediksi Bahasa Indonesia", "Prediksi Bahasa Inggris", "Rata-rata Prediksi",
	"Tanggal Input", "Diupdate Pada",
}

var penilaianSimpleHeaders = []string{
	"Nama Siswa", "Kelas", "Tahun", "Semester", "Kehadiran",
	"Matematika", "IPA", "IPS", "Bahasa Indonesia", "Bahasa Inggris",
	"Rata-rata", "Kategori",
}

// ExportPenilaian renders the full grade export with prediction columns.
func (s *ExportService) ExportPenilaian(ctx context.Context, claims *models.JWTClaims, filter models.PenilaianFilter, format ExportFormat) (*ExportFile, error) {
	rows, err := s.fetchAll(ctx, claims, filter)
	if err != nil {
		return nil, err
	}

	records := make([]excel.Row, 0, len(rows))
	for i := range rows {
		records = append(records, fullExportRow(&rows[i]))
	}

	filename := exportFilename("data-penilaian", filter)
	return s.renderTable(penilaianExportHeaders, records, filename, format)
}

// ExportSimple renders the compact grade export.
func (s *ExportService) ExportSimple(ctx context.Context, claims *models.JWTClaims, filter models.PenilaianFilter, format ExportFormat) (*ExportFile, error) {
	rows, err := s.fetchAll(ctx, claims, filter)
	if err != nil {
		return nil, err
	}

	records := make([]excel.Row, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		records = append(records, excel.Row{
			"Nama Siswa":       r.SiswaName,
			"Kelas":            r.SiswaKelas,
			"Tahun":            strconv.Itoa(r.Tahun),
			"Semester":         r.Semester,
			"Kehadiran":        strconv.Itoa(r.Kehadiran),
			"Matematika":       formatScore(r.Matematika),
			"IPA":              formatScore(r.IPA),
			"IPS":              formatScore(r.IPS),
			"Bahasa Indonesia": formatScore(r.BIndonesia),
			"Bahasa Inggris":   formatScore(r.BInggris),
			"Rata-rata":        formatScore(r.RataRata),
			"Kategori":         r.Prestasi,
		})
	}

	filename := exportFilename("data-nilai-sederhana", filter)
	return s.renderTable(penilaianSimpleHeaders, records, filename, format)
}

// ReportCard renders one student's grade history as a PDF rapor.
func (s *ExportService) ReportCard(ctx context.Context, siswaID string) (*ExportFile, error) {
	siswa, err := s.siswa.FindByID(ctx, siswaID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch siswa")
	}
	if siswa == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "siswa tidak ditemukan")
	}

	records, err := s.penilaian.ListBySiswa(ctx, siswaID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list penilaian siswa")
	}

	headers := []string{"Periode", "Matematika", "IPA", "IPS", "B.Indonesia", "B.Inggris", "Kehadiran", "Rata-rata", "Prestasi"}
	dataset := export.Dataset{Headers: headers}
	for i := range records {
		r := &records[i]
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Periode":     fmt.Sprintf("%s %d", r.Semester, r.Tahun),
			"Matematika":  formatScore(r.Matematika),
			"IPA":         formatScore(r.IPA),
			"IPS":         formatScore(r.IPS),
			"B.Indonesia": formatScore(r.BIndonesia),
			"B.Inggris":   formatScore(r.BInggris),
			"Kehadiran":   fmt.Sprintf("%d hari", r.Kehadiran),
			"Rata-rata":   formatScore(r.RataRata),
			"Prestasi":    r.Prestasi,
		})
	}

	title := fmt.Sprintf("Rapor %s - Kelas %s", siswa.Name, siswa.Kelas)
	payload, err := s.pdf.Render(dataset, title)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render rapor")
	}

	filename := fmt.Sprintf("rapor-%s-%s.pdf", slugify(siswa.Name), exportTimestamp())
	return &ExportFile{Payload: payload, Filename: filename, ContentType: ContentTypePDF}, nil
}

// fetchAll loads the unpaginated, scope-filtered export population.
func (s *ExportService) fetchAll(ctx context.Context, claims *models.JWTClaims, filter models.PenilaianFilter) ([]models.PenilaianDetail, error) {
	scope, err := resolveScope(ctx, claims, s.profiles)
	if err != nil {
		return nil, err
	}
	if scope != "" {
		filter.WaliKelasID = scope
	}
	if filter.Semester != "" {
		semester, ok := normalizeSemester(filter.Semester)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, "semester harus ganjil atau genap")
		}
		filter.Semester = semester
	}
	filter.Page, filter.PageSize = 0, 0

	rows, _, err := s.penilaian.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load export data")
	}
	return rows, nil
}

func (s *ExportService) renderTable(headers []string, records []excel.Row, base string, format ExportFormat) (*ExportFile, error) {
	switch format {
	case FormatCSV:
		dataset := export.Dataset{Headers: headers}
		for _, record := range records {
			dataset.Rows = append(dataset.Rows, map[string]string(record))
		}
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportFile{Payload: payload, Filename: base + ".csv", ContentType: ContentTypeCSV}, nil
	default:
		payload, err := excel.Encode(headers, records)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render workbook")
		}
		return &ExportFile{Payload: payload, Filename: base + ".xlsx", ContentType: ContentTypeXLSX}, nil
	}
}

// fullExportRow flattens one grade record, including the decoded forecast,
// into spreadsheet cells. Missing forecasts render as dashes.
func fullExportRow(r *models.PenilaianDetail) excel.Row {
	pct := int(math.Round(grading.AttendancePercentage(r.Kehadiran)))
	row := excel.Row{
		"Nama Siswa":                r.SiswaName,
		"Kelas":                     r.SiswaKelas,
		"Wali Kelas":                stringOrDash(r.WaliKelasName),
		"Tahun Ajaran":              strconv.Itoa(r.Tahun),
		"Semester":                  r.Semester,
		"Kehadiran (Hari)":          strconv.Itoa(r.Kehadiran),
		"Persentase Kehadiran (%)":  strconv.Itoa(pct),
		"Kategori Kehadiran":        string(grading.AttendanceCategory(grading.AttendancePercentage(r.Kehadiran))),
		"Nilai Matematika":          formatScore(r.Matematika),
		"Nilai IPA":                 formatScore(r.IPA),
		"Nilai IPS":                 formatScore(r.IPS),
		"Nilai Bahasa Indonesia":    formatScore(r.BIndonesia),
		"Nilai Bahasa Inggris":      formatScore(r.BInggris),
		"Rata-rata Nilai":           formatScore(r.RataRata),
		"Kategori Prestasi":         r.Prestasi,
		"Prediksi Matematika":       "-",
		"Prediksi IPA":              "-",
		"Prediksi IPS":              "-",
		"Prediksi Bahasa Indonesia": "-",
		"Prediksi Bahasa Inggris":   "-",
		"Rata-rata Prediksi":        "-",
		"Tanggal Input":             r.CreatedAt.Format("02/01/2006"),
		"Diupdate Pada":             r.UpdatedAt.Format("02/01/2006"),
	}

	forecast := prediction.Parse(r.Prediksi, r.Semester, r.Tahun)
	if forecast != nil && forecast.Nilai != nil {
		row["Prediksi Matematika"] = formatScore(forecast.Nilai.Matematika)
		row["Prediksi IPA"] = formatScore(forecast.Nilai.IPA)
		row["Prediksi IPS"] = formatScore(forecast.Nilai.IPS)
		row["Prediksi Bahasa Indonesia"] = formatScore(forecast.Nilai.BIndonesia)
		row["Prediksi Bahasa Inggris"] = formatScore(forecast.Nilai.BInggris)
		row["Rata-rata Prediksi"] = formatScore(forecast.Nilai.RataRata)
	}
	return row
}

func exportFilename(base string, filter models.PenilaianFilter) string {
	name := base + "-" + exportTimestamp()
	if filter.Kelas != "" {
		name += "-kelas-" + slugify(filter.Kelas)
	}
	if filter.Semester != "" {
		name += "-semester-" + filter.Semester
	}
	if filter.Tahun != nil {
		name += fmt.Sprintf("-tahun-%d", *filter.Tahun)
	}
	return name
}

func exportTimestamp() string {
	return time.Now().Format("2006-01-02T15-04-05")
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func stringOrDash(v *string) string {
	if v == nil || *v == "" {
		return "-"
	}
	return *v
}

func slugify(v string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(v)), " ", "-")
}
