package prediction

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sekolahku/penilaian-api/internal/grading"
)

// KategoriParseError marks a forecast whose raw payload could not be decoded.
const KategoriParseError = "Error parsing"

// Tren labels for comparing a forecast against the recorded average.
const (
	TrenMeningkat = "Meningkat"
	TrenMenurun   = "Menurun"
	TrenStabil    = "Stabil"
)

// ForecastNilai holds the forecast subject scores and their average.
type ForecastNilai struct {
	Matematika float64 `json:"matematika"`
	IPA        float64 `json:"ipa"`
	IPS        float64 `json:"ips"`
	BIndonesia float64 `json:"b_indonesia"`
	BInggris   float64 `json:"b_inggris"`
	RataRata   float64 `json:"rata_rata"`
}

// Forecast is the normalized view of a stored prediction payload.
type Forecast struct {
	Nilai            *ForecastNilai `json:"nilai,omitempty"`
	KategoriPrestasi string         `json:"kategori_prestasi"`
	SemesterPrediksi string         `json:"semester_prediksi"`
}

// Comparison relates a forecast to the recorded semester average.
type Comparison struct {
	SelisihRataRata float64 `json:"selisih_rata_rata"`
	Tren            string  `json:"tren"`
}

// NextPeriod returns the semester and year the forecast refers to.
// Ganjil rolls over to genap within the same year; genap rolls over to
// ganjil of the following year.
func NextPeriod(semester string, tahun int) (string, int) {
	if strings.EqualFold(semester, "ganjil") {
		return "genap", tahun
	}
	return "ganjil", tahun + 1
}

// Parse normalizes a stored prediction payload. The upstream service has
// shipped three response shapes over time: scores nested under
// "prediksi_semester_berikutnya", a flat object with capitalized subject
// keys, and a flat object with snake_case keys. Unknown shapes decode as
// all-zero scores; a malformed payload yields a parse-error forecast so
// the record still renders. A nil or empty payload yields nil.
func Parse(raw json.RawMessage, semester string, tahun int) *Forecast {
	if len(raw) == 0 {
		return nil
	}

	nextSemester, nextTahun := NextPeriod(semester, tahun)
	label := fmt.Sprintf("Semester %s %d", nextSemester, nextTahun)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return &Forecast{
			KategoriPrestasi: KategoriParseError,
			SemesterPrediksi: label,
		}
	}

	scores := resolveScores(fields)
	avg, kategori := grading.AverageAndCategory(scores)
	return &Forecast{
		Nilai: &ForecastNilai{
			Matematika: grading.Round2(scores.Matematika),
			IPA:        grading.Round2(scores.IPA),
			IPS:        grading.Round2(scores.IPS),
			BIndonesia: grading.Round2(scores.BIndonesia),
			BInggris:   grading.Round2(scores.BInggris),
			RataRata:   avg,
		},
		KategoriPrestasi: string(kategori),
		SemesterPrediksi: label,
	}
}

func resolveScores(fields map[string]json.RawMessage) grading.Scores {
	if nested, ok := fields["prediksi_semester_berikutnya"]; ok {
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(nested, &inner); err == nil {
			fields = inner
		}
	}

	if _, ok := fields["Matematika"]; ok {
		return grading.Scores{
			Matematika: number(fields, "Matematika"),
			IPA:        number(fields, "IPA"),
			IPS:        number(fields, "IPS"),
			BIndonesia: number(fields, "B.Indonesia"),
			BInggris:   number(fields, "B.Inggris"),
		}
	}
	return grading.Scores{
		Matematika: number(fields, "matematika"),
		IPA:        number(fields, "ipa"),
		IPS:        number(fields, "ips"),
		BIndonesia: number(fields, "b_indonesia"),
		BInggris:   number(fields, "b_inggris"),
	}
}

func number(fields map[string]json.RawMessage, key string) float64 {
	raw, ok := fields[key]
	if !ok {
		return 0
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0
	}
	return v
}

// Compare measures the forecast against the recorded average. It returns
// nil when the forecast is missing or could not be parsed.
func Compare(f *Forecast, actualAvg float64) *Comparison {
	if f == nil || f.Nilai == nil {
		return nil
	}
	diff := grading.Round2(f.Nilai.RataRata - actualAvg)
	tren := TrenStabil
	switch {
	case diff > 0:
		tren = TrenMeningkat
	case diff < 0:
		tren = TrenMenurun
	}
	return &Comparison{SelisihRataRata: diff, Tren: tren}
}
