package dto

// ImportDetails counts the side effects of a grade import.
type ImportDetails struct {
	SiswaDibuat       int `json:"siswa_dibuat"`
	SiswaDigunakan    int `json:"siswa_digunakan"`
	PenilaianDibuat   int `json:"penilaian_dibuat"`
	PenilaianDuplikat int `json:"penilaian_duplikat"`
}

// ImportReport summarises a bulk grade import.
type ImportReport struct {
	Total   int           `json:"total"`
	Success int           `json:"success"`
	Failed  int           `json:"failed"`
	Errors  []string      `json:"errors"`
	Details ImportDetails `json:"details"`
}

// SiswaImportReport summarises a student-only bulk import.
type SiswaImportReport struct {
	Total    int      `json:"total"`
	Success  int      `json:"success"`
	Failed   int      `json:"failed"`
	Duplikat int      `json:"duplikat"`
	Errors   []string `json:"errors"`
}
