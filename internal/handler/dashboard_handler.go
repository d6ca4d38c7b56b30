package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/sekolahku/penilaian-api/internal/dto"
	"github.com/sekolahku/penilaian-api/internal/models"
	"github.com/sekolahku/penilaian-api/pkg/response"
)

type dashboardService interface {
	Statistics(ctx context.Context, claims *models.JWTClaims, filter models.DashboardFilter) (*dto.DashboardStatistics, error)
	WaliKelasStatistics(ctx context.Context, waliKelasID string, filter models.DashboardFilter) (*dto.DashboardStatistics, error)
	Filters(ctx context.Context, claims *models.JWTClaims) (*models.FilterOptions, error)
}

// DashboardHandler wires dashboard aggregations to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func dashboardFilterFromQuery(c *gin.Context) models.DashboardFilter {
	return models.DashboardFilter{
		Tahun:    queryIntPtr(c, "tahun"),
		Semester: c.Query("semester"),
	}
}

// Statistics godoc
// @Summary Dashboard statistics for the caller's scope
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param tahun query int false "Year filter"
// @Param semester query string false "Semester filter (ganjil/genap)"
// @Success 200 {object} response.Envelope
// @Router /dashboard/statistics [get]
func (h *DashboardHandler) Statistics(c *gin.Context) {
	stats, err := h.service.Statistics(c.Request.Context(), claimsFromContext(c), dashboardFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", stats)
}

// WaliKelas godoc
// @Summary Dashboard statistics for one wali kelas
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param id path string true "WaliKelas ID"
// @Param tahun query int false "Year filter"
// @Param semester query string false "Semester filter (ganjil/genap)"
// @Success 200 {object} response.Envelope
// @Router /dashboard/walikelas/{id} [get]
func (h *DashboardHandler) WaliKelas(c *gin.Context) {
	stats, err := h.service.WaliKelasStatistics(c.Request.Context(), c.Param("id"), dashboardFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", stats)
}

// Filters godoc
// @Summary Distinct filter values for the caller's scope
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /dashboard/filters [get]
func (h *DashboardHandler) Filters(c *gin.Context) {
	options, err := h.service.Filters(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", options)
}
