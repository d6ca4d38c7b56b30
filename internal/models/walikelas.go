package models

import "time"

// WaliKelas is the homeroom-teacher profile linked to a user account.
// A wali kelas owns zero or more students.
type WaliKelas struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Sekolah   *string   `db:"sekolah" json:"sekolah"`
	Jurusan   *string   `db:"jurusan" json:"jurusan"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
