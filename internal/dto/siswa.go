package dto

import "github.com/sekolahku/penilaian-api/internal/models"

// CreateSiswaRequest captures POST /siswa payload.
type CreateSiswaRequest struct {
	Nama     string `json:"nama" binding:"required"`
	Kelas    string `json:"kelas" binding:"required"`
	Tahun    int    `json:"tahun" binding:"required"`
	Semester string `json:"semester" binding:"required"`
	// WaliKelasID lets an operator assign the owner; wali kelas callers
	// always own the students they create.
	WaliKelasID *string `json:"walikelas_id"`
}

// UpdateSiswaRequest captures PUT /siswa/:id payload. Nil fields are left
// unchanged.
type UpdateSiswaRequest struct {
	Nama     *string `json:"nama"`
	Kelas    *string `json:"kelas"`
	Tahun    *int    `json:"tahun"`
	Semester *string `json:"semester"`
}

// WaliKelasInfo is the embedded wali kelas view on student responses.
type WaliKelasInfo struct {
	ID      string  `json:"id"`
	Nama    string  `json:"nama"`
	Email   string  `json:"email"`
	Sekolah *string `json:"sekolah,omitempty"`
	Jurusan *string `json:"jurusan,omitempty"`
}

// SiswaResponse is the public view of a student.
type SiswaResponse struct {
	ID        string         `json:"id"`
	Nama      string         `json:"nama"`
	Kelas     string         `json:"kelas"`
	Tahun     int            `json:"tahun"`
	Semester  string         `json:"semester"`
	WaliKelas *WaliKelasInfo `json:"walikelas,omitempty"`
}

// SiswaListResponse pairs student rows with pagination metadata.
type SiswaListResponse struct {
	Siswa      []SiswaResponse    `json:"siswa"`
	Pagination *models.Pagination `json:"pagination"`
}

// NewSiswaResponse maps a student detail row onto its public view.
func NewSiswaResponse(s *models.SiswaDetail) SiswaResponse {
	resp := SiswaResponse{
		ID:       s.ID,
		Nama:     s.Name,
		Kelas:    s.Kelas,
		Tahun:    s.Tahun,
		Semester: s.Semester,
	}
	if s.WaliKelasName != nil {
		resp.WaliKelas = &WaliKelasInfo{
			ID:      s.WaliKelasID,
			Nama:    *s.WaliKelasName,
			Sekolah: s.WaliKelasSekolah,
			Jurusan: s.WaliKelasJurusan,
		}
		if s.WaliKelasEmail != nil {
			resp.WaliKelas.Email = *s.WaliKelasEmail
		}
	}
	return resp
}
