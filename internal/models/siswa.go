package models

import "time"

// Siswa represents a student owned by a wali kelas.
type Siswa struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Kelas       string    `db:"kelas" json:"kelas"`
	Tahun       int       `db:"tahun" json:"tahun"`
	Semester    string    `db:"semester" json:"semester"`
	WaliKelasID string    `db:"walikelas_id" json:"walikelas_id"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// SiswaDetail joins the student with its wali kelas and user account.
type SiswaDetail struct {
	Siswa
	WaliKelasSekolah *string `db:"walikelas_sekolah" json:"-"`
	WaliKelasJurusan *string `db:"walikelas_jurusan" json:"-"`
	WaliKelasUserID  *string `db:"walikelas_user_id" json:"-"`
	WaliKelasName    *string `db:"walikelas_name" json:"-"`
	WaliKelasEmail   *string `db:"walikelas_email" json:"-"`
}

// SiswaFilter captures filtering criteria for listing students.
type SiswaFilter struct {
	Kelas       string
	Tahun       *int
	Semester    string
	Search      string
	WaliKelasID string
	Page        int
	PageSize    int
}
