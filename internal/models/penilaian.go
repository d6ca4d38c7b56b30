package models

import (
	"encoding/json"
	"time"
)

// Valid semester values. Stored lowercase, compared case-insensitively on input.
const (
	SemesterGanjil = "ganjil"
	SemesterGenap  = "genap"
)

// Penilaian is one grade record for a student in a given semester and year.
// Kehadiran is stored as a day count in [0, 365].
type Penilaian struct {
	ID         string          `db:"id" json:"id"`
	SiswaID    string          `db:"siswa_id" json:"siswa_id"`
	Semester   string          `db:"semester" json:"semester"`
	Tahun      int             `db:"tahun" json:"tahun"`
	Matematika float64         `db:"matematika" json:"matematika"`
	IPA        float64         `db:"ipa" json:"ipa"`
	IPS        float64         `db:"ips" json:"ips"`
	BIndonesia float64         `db:"b_indonesia" json:"b_indonesia"`
	BInggris   float64         `db:"b_inggris" json:"b_inggris"`
	Kehadiran  int             `db:"kehadiran" json:"kehadiran"`
	RataRata   float64         `db:"rata_rata" json:"rata_rata"`
	Prestasi   string          `db:"prestasi" json:"prestasi"`
	Prediksi   json.RawMessage `db:"prediksi" json:"prediksi,omitempty"`
	CreatedBy  string          `db:"created_by" json:"created_by"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updatedAt"`
}

// PenilaianDetail joins the grade record with its student and wali kelas.
type PenilaianDetail struct {
	Penilaian
	SiswaName        string  `db:"siswa_name" json:"-"`
	SiswaKelas       string  `db:"siswa_kelas" json:"-"`
	WaliKelasID      *string `db:"walikelas_id" json:"-"`
	WaliKelasSekolah *string `db:"walikelas_sekolah" json:"-"`
	WaliKelasName    *string `db:"walikelas_name" json:"-"`
	WaliKelasEmail   *string `db:"walikelas_email" json:"-"`
}

// PenilaianFilter captures filtering criteria for listing grade records.
type PenilaianFilter struct {
	SiswaID     string
	Kelas       string
	Semester    string
	Tahun       *int
	Search      string
	WaliKelasID string
	Page        int
	PageSize    int
}
