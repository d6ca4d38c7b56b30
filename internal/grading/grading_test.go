package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAverageAndCategory(t *testing.T) {
	tests := []struct {
		name    string
		scores  Scores
		wantAvg float64
		wantCat Category
	}{
		{
			name:    "all nineties is sangat baik",
			scores:  Scores{Matematika: 90, IPA: 90, IPS: 90, BIndonesia: 90, BInggris: 90},
			wantAvg: 90,
			wantCat: SangatBaik,
		},
		{
			name:    "boundary 80 is baik",
			scores:  Scores{Matematika: 80, IPA: 80, IPS: 80, BIndonesia: 80, BInggris: 80},
			wantAvg: 80,
			wantCat: Baik,
		},
		{
			name:    "just below 80 is cukup",
			scores:  Scores{Matematika: 79, IPA: 80, IPS: 80, BIndonesia: 80, BInggris: 80},
			wantAvg: 79.8,
			wantCat: Cukup,
		},
		{
			name:    "boundary 60 is kurang",
			scores:  Scores{Matematika: 60, IPA: 60, IPS: 60, BIndonesia: 60, BInggris: 60},
			wantAvg: 60,
			wantCat: Kurang,
		},
		{
			name:    "below 60 is kurang sekali",
			scores:  Scores{Matematika: 50, IPA: 55, IPS: 52, BIndonesia: 58, BInggris: 40},
			wantAvg: 51,
			wantCat: KurangSekali,
		},
		{
			name:    "average rounds half away from zero",
			scores:  Scores{Matematika: 80, IPA: 80, IPS: 80, BIndonesia: 80, BInggris: 80.625},
			wantAvg: 80.13,
			wantCat: Baik,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			avg, cat := AverageAndCategory(tt.scores)
			assert.InDelta(t, tt.wantAvg, avg, 1e-9)
			assert.Equal(t, tt.wantCat, cat)
		})
	}
}

func TestScoreCategoryBoundaries(t *testing.T) {
	assert.Equal(t, SangatBaik, ScoreCategory(90))
	assert.Equal(t, Baik, ScoreCategory(89.99))
	assert.Equal(t, Baik, ScoreCategory(80))
	assert.Equal(t, Cukup, ScoreCategory(79.99))
	assert.Equal(t, Cukup, ScoreCategory(70))
	assert.Equal(t, Kurang, ScoreCategory(69.99))
	assert.Equal(t, Kurang, ScoreCategory(60))
	assert.Equal(t, KurangSekali, ScoreCategory(59.99))
	assert.Equal(t, KurangSekali, ScoreCategory(0))
}

func TestAttendanceCategoryUsesStricterThresholds(t *testing.T) {
	// 92% attendance is only "Baik" while a 92 score average is "Sangat Baik".
	assert.Equal(t, Baik, AttendanceCategory(92))
	assert.Equal(t, SangatBaik, ScoreCategory(92))

	assert.Equal(t, SangatBaik, AttendanceCategory(95))
	assert.Equal(t, Baik, AttendanceCategory(85))
	assert.Equal(t, Cukup, AttendanceCategory(75))
	assert.Equal(t, Kurang, AttendanceCategory(60))
	assert.Equal(t, KurangSekali, AttendanceCategory(59.9))
}

func TestAttendancePercentage(t *testing.T) {
	assert.InDelta(t, 100, AttendancePercentage(365), 1e-9)
	assert.InDelta(t, 0, AttendancePercentage(0), 1e-9)
	assert.InDelta(t, 50.136986, AttendancePercentage(183), 1e-5)
}

func TestCategoryRankIsMonotonic(t *testing.T) {
	ordered := []Category{KurangSekali, Kurang, Cukup, Baik, SangatBaik}
	for i := 1; i < len(ordered); i++ {
		assert.Greater(t, ordered[i].Rank(), ordered[i-1].Rank())
	}
	assert.Equal(t, -1, Category("Unknown").Rank())
}

func TestRound2HalfAwayFromZero(t *testing.T) {
	assert.InDelta(t, 0.13, Round2(0.125), 1e-9)
	assert.InDelta(t, -0.13, Round2(-0.125), 1e-9)
	assert.InDelta(t, 80.13, Round2(80.125), 1e-9)
}
