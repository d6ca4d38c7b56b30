package dto

import (
	"github.com/sekolahku/penilaian-api/internal/models"
	"github.com/sekolahku/penilaian-api/internal/prediction"
)

// CreatePenilaianRequest captures POST /penilaian payload. Kehadiran is a
// day count in [0, 365].
type CreatePenilaianRequest struct {
	SiswaID    string  `json:"siswa_id" binding:"required,uuid"`
	Semester   string  `json:"semester" binding:"required"`
	Tahun      int     `json:"tahun" binding:"required"`
	Matematika float64 `json:"matematika" binding:"min=0,max=100"`
	IPA        float64 `json:"ipa" binding:"min=0,max=100"`
	IPS        float64 `json:"ips" binding:"min=0,max=100"`
	BIndonesia float64 `json:"b_indonesia" binding:"min=0,max=100"`
	BInggris   float64 `json:"b_inggris" binding:"min=0,max=100"`
	Kehadiran  int     `json:"kehadiran" binding:"min=0,max=365"`
}

// UpdatePenilaianRequest captures PUT /penilaian/:id payload. Nil fields
// are left unchanged; any changed score triggers recomputation and a new
// forecast.
type UpdatePenilaianRequest struct {
	Semester   *string  `json:"semester"`
	Tahun      *int     `json:"tahun"`
	Matematika *float64 `json:"matematika" binding:"omitempty,min=0,max=100"`
	IPA        *float64 `json:"ipa" binding:"omitempty,min=0,max=100"`
	IPS        *float64 `json:"ips" binding:"omitempty,min=0,max=100"`
	BIndonesia *float64 `json:"b_indonesia" binding:"omitempty,min=0,max=100"`
	BInggris   *float64 `json:"b_inggris" binding:"omitempty,min=0,max=100"`
	Kehadiran  *int     `json:"kehadiran" binding:"omitempty,min=0,max=365"`
}

// PenilaianSiswaInfo is the embedded student view on grade responses.
type PenilaianSiswaInfo struct {
	ID    string `json:"id"`
	Nama  string `json:"nama"`
	Kelas string `json:"kelas"`
}

// PenilaianResponse is the public view of one grade record.
type PenilaianResponse struct {
	ID                   string                 `json:"id"`
	Siswa                PenilaianSiswaInfo     `json:"siswa"`
	Semester             string                 `json:"semester"`
	Tahun                int                    `json:"tahun"`
	Matematika           float64                `json:"matematika"`
	IPA                  float64                `json:"ipa"`
	IPS                  float64                `json:"ips"`
	BIndonesia           float64                `json:"b_indonesia"`
	BInggris             float64                `json:"b_inggris"`
	Kehadiran            int                    `json:"kehadiran"`
	PersentaseKehadiran  float64                `json:"persentase_kehadiran"`
	KategoriKehadiran    string                 `json:"kategori_kehadiran"`
	RataRata             float64                `json:"rata_rata"`
	Prestasi             string                 `json:"prestasi"`
	Prediksi             *prediction.Forecast   `json:"prediksi,omitempty"`
	PerbandinganPrediksi *prediction.Comparison `json:"perbandingan_prediksi,omitempty"`
}

// PenilaianStatistik summarises the filtered grade population.
type PenilaianStatistik struct {
	TotalPenilaian     int            `json:"total_penilaian"`
	RataRata           float64        `json:"rata_rata"`
	NilaiTertinggi     float64        `json:"nilai_tertinggi"`
	NilaiTerendah      float64        `json:"nilai_terendah"`
	DistribusiPrestasi map[string]int `json:"distribusi_prestasi"`
}

// PenilaianListResponse pairs grade rows with statistics and pagination.
type PenilaianListResponse struct {
	Penilaian  []PenilaianResponse `json:"penilaian"`
	Statistik  *PenilaianStatistik `json:"statistik"`
	Pagination *models.Pagination  `json:"pagination"`
}

// PerkembanganEntry is one step in a student's semester-over-semester trend.
type PerkembanganEntry struct {
	Semester string  `json:"semester"`
	Tahun    int     `json:"tahun"`
	RataRata float64 `json:"rata_rata"`
	Selisih  float64 `json:"selisih"`
	Tren     string  `json:"tren"`
}

// PenilaianSiswaResponse is the grade history of one student.
type PenilaianSiswaResponse struct {
	Siswa        SiswaResponse       `json:"siswa"`
	Penilaian    []PenilaianResponse `json:"penilaian"`
	Perkembangan []PerkembanganEntry `json:"perkembangan"`
}
