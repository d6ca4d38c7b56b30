package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sekolahku/penilaian-api/internal/dto"
	"github.com/sekolahku/penilaian-api/internal/models"
	"github.com/sekolahku/penilaian-api/internal/service"
	"github.com/sekolahku/penilaian-api/pkg/response"
)

type penilaianService interface {
	Create(ctx context.Context, claims *models.JWTClaims, req dto.CreatePenilaianRequest) (*dto.PenilaianResponse, error)
	List(ctx context.Context, claims *models.JWTClaims, filter models.PenilaianFilter) (*dto.PenilaianListResponse, error)
	Get(ctx context.Context, id string) (*dto.PenilaianResponse, error)
	BySiswa(ctx context.Context, claims *models.JWTClaims, siswaID string) (*dto.PenilaianSiswaResponse, error)
	Update(ctx context.Context, claims *models.JWTClaims, id string, req dto.UpdatePenilaianRequest) (*dto.PenilaianResponse, error)
	Delete(ctx context.Context, claims *models.JWTClaims, id string) error
}

type penilaianImporter interface {
	ImportPenilaian(ctx context.Context, claims *models.JWTClaims, data []byte) (*dto.ImportReport, error)
	Template() ([]byte, error)
}

type penilaianExporter interface {
	ExportPenilaian(ctx context.Context, claims *models.JWTClaims, filter models.PenilaianFilter, format service.ExportFormat) (*service.ExportFile, error)
	ExportSimple(ctx context.Context, claims *models.JWTClaims, filter models.PenilaianFilter, format service.ExportFormat) (*service.ExportFile, error)
	ReportCard(ctx context.Context, siswaID string) (*service.ExportFile, error)
}

// PenilaianHandler wires grade management to HTTP endpoints.
type PenilaianHandler struct {
	service     penilaianService
	importer    penilaianImporter
	exporter    penilaianExporter
	maxFileSize int64
}

// NewPenilaianHandler constructs the handler.
func NewPenilaianHandler(service penilaianService, importer penilaianImporter, exporter penilaianExporter, maxFileSize int64) *PenilaianHandler {
	return &PenilaianHandler{service: service, importer: importer, exporter: exporter, maxFileSize: maxFileSize}
}

func penilaianFilterFromQuery(c *gin.Context) models.PenilaianFilter {
	return models.PenilaianFilter{
		SiswaID:  c.Query("siswa_id"),
		Kelas:    c.Query("kelas"),
		Semester: c.Query("semester"),
		Tahun:    queryIntPtr(c, "tahun"),
		Search:   strings.TrimSpace(c.Query("search")),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "limit", 10),
	}
}

func exportFormatFromQuery(c *gin.Context) service.ExportFormat {
	if strings.EqualFold(c.Query("format"), "csv") {
		return service.FormatCSV
	}
	return service.FormatXLSX
}

// Create godoc
// @Summary Record a semester's grades
// @Tags Penilaian
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreatePenilaianRequest true "Grade data"
// @Success 201 {object} response.Envelope
// @Router /penilaian/create [post]
func (h *PenilaianHandler) Create(c *gin.Context) {
	var req dto.CreatePenilaianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	record, err := h.service.Create(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "penilaian berhasil dibuat", record)
}

// Import godoc
// @Summary Bulk import grades from xlsx
// @Tags Penilaian
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Workbook"
// @Success 200 {object} response.Envelope
// @Router /penilaian/import [post]
func (h *PenilaianHandler) Import(c *gin.Context) {
	payload, err := readUploadedFile(c, h.maxFileSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	report, err := h.importer.ImportPenilaian(c.Request.Context(), claimsFromContext(c), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, importMessage("Import nilai selesai", report.Success, report.Failed), report)
}

// Template godoc
// @Summary Download the grade import template
// @Tags Penilaian
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} binary
// @Router /penilaian/template [get]
func (h *PenilaianHandler) Template(c *gin.Context) {
	payload, err := h.importer.Template()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, "template-import-nilai.xlsx", service.ContentTypeXLSX, payload)
}

// List godoc
// @Summary List grade records with statistics
// @Tags Penilaian
// @Produce json
// @Security BearerAuth
// @Param siswa_id query string false "Student filter"
// @Param kelas query string false "Class filter"
// @Param semester query string false "Semester filter (ganjil/genap)"
// @Param tahun query int false "Year filter"
// @Param search query string false "Name search"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /penilaian/list [get]
func (h *PenilaianHandler) List(c *gin.Context) {
	result, err := h.service.List(c.Request.Context(), claimsFromContext(c), penilaianFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", result)
}

// Export godoc
// @Summary Export grade records with prediction columns
// @Tags Penilaian
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param format query string false "xlsx or csv"
// @Success 200 {file} binary
// @Router /penilaian/export [get]
func (h *PenilaianHandler) Export(c *gin.Context) {
	file, err := h.exporter.ExportPenilaian(c.Request.Context(), claimsFromContext(c), penilaianFilterFromQuery(c), exportFormatFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Payload)
}

// ExportSimple godoc
// @Summary Export grade records in the compact format
// @Tags Penilaian
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param format query string false "xlsx or csv"
// @Success 200 {file} binary
// @Router /penilaian/export/simple [get]
func (h *PenilaianHandler) ExportSimple(c *gin.Context) {
	file, err := h.exporter.ExportSimple(c.Request.Context(), claimsFromContext(c), penilaianFilterFromQuery(c), exportFormatFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Payload)
}

// ReportCard godoc
// @Summary Download one student's rapor as PDF
// @Tags Penilaian
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {file} binary
// @Router /penilaian/siswa/{id}/rapor [get]
func (h *PenilaianHandler) ReportCard(c *gin.Context) {
	file, err := h.exporter.ReportCard(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Payload)
}

// BySiswa godoc
// @Summary Grade history of one student
// @Tags Penilaian
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /penilaian/siswa/{id} [get]
func (h *PenilaianHandler) BySiswa(c *gin.Context) {
	result, err := h.service.BySiswa(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", result)
}

// Get godoc
// @Summary Get one grade record
// @Tags Penilaian
// @Produce json
// @Security BearerAuth
// @Param id path string true "Grade record ID"
// @Success 200 {object} response.Envelope
// @Router /penilaian/{id} [get]
func (h *PenilaianHandler) Get(c *gin.Context) {
	record, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", record)
}

// Update godoc
// @Summary Update a grade record
// @Tags Penilaian
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Grade record ID"
// @Param payload body dto.UpdatePenilaianRequest true "Changes"
// @Success 200 {object} response.Envelope
// @Router /penilaian/{id} [put]
func (h *PenilaianHandler) Update(c *gin.Context) {
	var req dto.UpdatePenilaianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	record, err := h.service.Update(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "penilaian berhasil diperbarui", record)
}

// Delete godoc
// @Summary Delete a grade record
// @Tags Penilaian
// @Produce json
// @Security BearerAuth
// @Param id path string true "Grade record ID"
// @Success 200 {object} response.Envelope
// @Router /penilaian/{id} [delete]
func (h *PenilaianHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), claimsFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "penilaian berhasil dihapus", nil)
}

func importMessage(prefix string, success, failed int) string {
	return fmt.Sprintf("%s. Berhasil: %d, Gagal: %d", prefix, success, failed)
}
