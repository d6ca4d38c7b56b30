package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sekolahku/penilaian-api/internal/dto"
	"github.com/sekolahku/penilaian-api/internal/models"
	"github.com/sekolahku/penilaian-api/pkg/response"
)

type siswaService interface {
	Create(ctx context.Context, claims *models.JWTClaims, req dto.CreateSiswaRequest) (*dto.SiswaResponse, error)
	List(ctx context.Context, claims *models.JWTClaims, filter models.SiswaFilter) (*dto.SiswaListResponse, error)
	Get(ctx context.Context, claims *models.JWTClaims, id string) (*dto.SiswaResponse, error)
	Update(ctx context.Context, claims *models.JWTClaims, id string, req dto.UpdateSiswaRequest) (*dto.SiswaResponse, error)
	Delete(ctx context.Context, claims *models.JWTClaims, id string) error
}

type siswaImporter interface {
	ImportSiswa(ctx context.Context, claims *models.JWTClaims, data []byte) (*dto.SiswaImportReport, error)
}

// SiswaHandler wires student management to HTTP endpoints.
type SiswaHandler struct {
	service     siswaService
	importer    siswaImporter
	maxFileSize int64
}

// NewSiswaHandler constructs the handler.
func NewSiswaHandler(service siswaService, importer siswaImporter, maxFileSize int64) *SiswaHandler {
	return &SiswaHandler{service: service, importer: importer, maxFileSize: maxFileSize}
}

// Create godoc
// @Summary Create a student
// @Tags Siswa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateSiswaRequest true "Student data"
// @Success 201 {object} response.Envelope
// @Router /siswa/create [post]
func (h *SiswaHandler) Create(c *gin.Context) {
	var req dto.CreateSiswaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	siswa, err := h.service.Create(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "siswa berhasil dibuat", siswa)
}

// Import godoc
// @Summary Bulk import students from xlsx
// @Tags Siswa
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Workbook"
// @Success 200 {object} response.Envelope
// @Router /siswa/import [post]
func (h *SiswaHandler) Import(c *gin.Context) {
	payload, err := readUploadedFile(c, h.maxFileSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	report, err := h.importer.ImportSiswa(c.Request.Context(), claimsFromContext(c), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, importMessage("Import selesai", report.Success, report.Failed), report)
}

// List godoc
// @Summary List students
// @Tags Siswa
// @Produce json
// @Security BearerAuth
// @Param kelas query string false "Class filter"
// @Param semester query string false "Semester filter (ganjil/genap)"
// @Param tahun query int false "Year filter"
// @Param search query string false "Name search (min 2 chars)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /siswa/list [get]
func (h *SiswaHandler) List(c *gin.Context) {
	filter := models.SiswaFilter{
		Kelas:    c.Query("kelas"),
		Semester: c.Query("semester"),
		Tahun:    queryIntPtr(c, "tahun"),
		Search:   strings.TrimSpace(c.Query("search")),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "limit", 10),
	}

	result, err := h.service.List(c.Request.Context(), claimsFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", result)
}

// Get godoc
// @Summary Get one student
// @Tags Siswa
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /siswa/{id} [get]
func (h *SiswaHandler) Get(c *gin.Context) {
	siswa, err := h.service.Get(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", siswa)
}

// Update godoc
// @Summary Update a student
// @Tags Siswa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param payload body dto.UpdateSiswaRequest true "Changes"
// @Success 200 {object} response.Envelope
// @Router /siswa/{id} [put]
func (h *SiswaHandler) Update(c *gin.Context) {
	var req dto.UpdateSiswaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	siswa, err := h.service.Update(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "siswa berhasil diperbarui", siswa)
}

// Delete godoc
// @Summary Delete a student
// @Tags Siswa
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /siswa/{id} [delete]
func (h *SiswaHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), claimsFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "siswa berhasil dihapus", nil)
}
