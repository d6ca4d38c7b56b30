package dto

import "github.com/sekolahku/penilaian-api/internal/models"

// DashboardStatistics is the aggregated dashboard payload.
type DashboardStatistics struct {
	Ringkasan           *models.DashboardSummary       `json:"ringkasan"`
	DistribusiPrestasi  []models.PrestasiCount         `json:"distribusi_prestasi"`
	PrestasiPerSemester []models.SemesterPrestasiCount `json:"prestasi_per_semester"`
	RataRataPerKelas    []models.KelasAverage          `json:"rata_rata_per_kelas"`
	TrenTahunan         []models.TahunTrend            `json:"tren_tahunan"`
}
