package service

import (
	"strconv"
	"strings"
)

const (
	tahunMin = 2000
	tahunMax = 2100
)

// normalizeSemester lowercases the value and reports whether it is one of
// the two recognized semesters.
func normalizeSemester(raw string) (string, bool) {
	semester := strings.ToLower(strings.TrimSpace(raw))
	return semester, semester == "ganjil" || semester == "genap"
}

func tahunInRange(tahun int) bool {
	return tahun >= tahunMin && tahun <= tahunMax
}

// parseTahun strips every non-digit from a spreadsheet cell, so "2024"
// and " 2024 " parse while "2024/2025" overflows the valid range and is
// rejected.
func parseTahun(raw string) (int, bool) {
	digits := strings.Builder{}
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	tahun, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0, false
	}
	return tahun, tahunInRange(tahun)
}

// parseScore parses a subject score cell and validates the 0-100 range.
func parseScore(raw string) (float64, bool) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}
	return value, value >= 0 && value <= 100
}

// parseKehadiran parses an attendance day-count cell and validates the
// 0-365 range.
func parseKehadiran(raw string) (int, bool) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return value, value >= 0 && value <= 365
}
