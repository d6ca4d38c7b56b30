package models

// DashboardFilter narrows dashboard aggregations by period and ownership.
type DashboardFilter struct {
	Tahun       *int
	Semester    string
	WaliKelasID string
}

// DashboardSummary holds the headline counters of the dashboard.
type DashboardSummary struct {
	TotalWaliKelas int     `db:"-" json:"total_walikelas"`
	TotalSiswa     int     `db:"total_siswa" json:"total_siswa"`
	TotalKelas     int     `db:"total_kelas" json:"total_kelas"`
	TotalPenilaian int     `db:"total_penilaian" json:"total_penilaian"`
	AvgNilai       float64 `db:"avg_nilai" json:"rata_rata_nilai"`
	AvgKehadiran   float64 `db:"avg_kehadiran" json:"rata_rata_kehadiran"`
}

// PrestasiCount is the number of grade records per achievement category.
type PrestasiCount struct {
	Prestasi string `db:"prestasi" json:"prestasi"`
	Count    int    `db:"count" json:"jumlah"`
}

// SemesterPrestasiCount breaks the category distribution down per semester.
type SemesterPrestasiCount struct {
	Semester string `db:"semester" json:"semester"`
	Prestasi string `db:"prestasi" json:"prestasi"`
	Count    int    `db:"count" json:"jumlah"`
}

// KelasAverage is the per-class aggregate of scores and attendance.
type KelasAverage struct {
	Kelas        string  `db:"kelas" json:"kelas"`
	TotalSiswa   int     `db:"total_siswa" json:"total_siswa"`
	AvgNilai     float64 `db:"avg_nilai" json:"rata_rata_nilai"`
	AvgKehadiran float64 `db:"avg_kehadiran" json:"rata_rata_kehadiran"`
}

// TahunTrend is the per-year aggregate used for trend charts.
type TahunTrend struct {
	Tahun        int     `db:"tahun" json:"tahun"`
	TotalSiswa   int     `db:"total_siswa" json:"total_siswa"`
	AvgNilai     float64 `db:"avg_nilai" json:"rata_rata_nilai"`
	AvgKehadiran float64 `db:"avg_kehadiran" json:"rata_rata_kehadiran"`
}

// FilterOptions lists the distinct values available for dashboard filters.
type FilterOptions struct {
	Tahun    []int    `json:"tahun"`
	Semester []string `json:"semester"`
	Kelas    []string `json:"kelas"`
}
