// Package grading implements the score averaging and achievement
// categorization rules shared by grade entry, bulk import, and predictions.
package grading

import "math"

// Category is an ordered achievement label.
type Category string

const (
	SangatBaik   Category = "Sangat Baik"
	Baik         Category = "Baik"
	Cukup        Category = "Cukup"
	Kurang       Category = "Kurang"
	KurangSekali Category = "Kurang Sekali"
)

// Rank orders categories from worst (0) to best (4). Unknown labels rank -1.
func (c Category) Rank() int {
	switch c {
	case KurangSekali:
		return 0
	case Kurang:
		return 1
	case Cukup:
		return 2
	case Baik:
		return 3
	case SangatBaik:
		return 4
	}
	return -1
}

// AttendanceDaysPerYear is the denominator for converting an attendance
// day count into a percentage.
const AttendanceDaysPerYear = 365

// Scores holds the five subject scores of one semester.
type Scores struct {
	Matematika float64
	IPA        float64
	IPS        float64
	BIndonesia float64
	BInggris   float64
}

// List returns the subject scores in canonical order.
func (s Scores) List() []float64 {
	return []float64{s.Matematika, s.IPA, s.IPS, s.BIndonesia, s.BInggris}
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Average returns the mean of the five subject scores rounded to two decimals.
func Average(s Scores) float64 {
	sum := 0.0
	for _, v := range s.List() {
		sum += v
	}
	return Round2(sum / 5)
}

// ScoreCategory maps an average score onto its achievement category.
func ScoreCategory(avg float64) Category {
	switch {
	case avg >= 90:
		return SangatBaik
	case avg >= 80:
		return Baik
	case avg >= 70:
		return Cukup
	case avg >= 60:
		return Kurang
	}
	return KurangSekali
}

// AverageAndCategory computes both the rounded average and its category.
func AverageAndCategory(s Scores) (float64, Category) {
	avg := Average(s)
	return avg, ScoreCategory(avg)
}

// AttendancePercentage converts an attendance day count into a percentage
// of the school year.
func AttendancePercentage(days int) float64 {
	return float64(days) / AttendanceDaysPerYear * 100
}

// AttendanceCategory maps an attendance percentage onto its category.
// Attendance uses stricter thresholds than scores.
func AttendanceCategory(pct float64) Category {
	switch {
	case pct >= 95:
		return SangatBaik
	case pct >= 85:
		return Baik
	case pct >= 75:
		return Cukup
	case pct >= 60:
		return Kurang
	}
	return KurangSekali
}
