package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sekolahku/penilaian-api/internal/dto"
	"github.com/sekolahku/penilaian-api/internal/models"
	appErrors "github.com/sekolahku/penilaian-api/pkg/errors"
)

type fakeProfiles struct {
	profile *models.WaliKelas
	byID    map[string]*models.WaliKelas
	err     error
}

func (f *fakeProfiles) FindByUserID(ctx context.Context, userID string) (*models.WaliKelas, error) {
	return f.profile, f.err
}

func (f *fakeProfiles) FindByID(ctx context.Context, id string) (*models.WaliKelas, error) {
	return f.byID[id], f.err
}

func waliKelasClaims(waliKelasID string) *models.JWTClaims {
	return &models.JWTClaims{
		UserID:      "user-1",
		Role:        models.RoleWaliKelas,
		WaliKelasID: &waliKelasID,
	}
}

func operatorClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "op-1", Role: models.RoleOperator}
}

type fakeSiswaRepo struct {
	siswa      map[string]models.SiswaDetail
	duplicate  *models.Siswa
	created    []models.Siswa
	deleted    []string
	lastFilter models.SiswaFilter
	listRows   []models.SiswaDetail
	listTotal  int
}

func (f *fakeSiswaRepo) List(ctx context.Context, filter models.SiswaFilter) ([]models.SiswaDetail, int, error) {
	f.lastFilter = filter
	return f.listRows, f.listTotal, nil
}

func (f *fakeSiswaRepo) FindByID(ctx context.Context, id string) (*models.SiswaDetail, error) {
	if s, ok := f.siswa[id]; ok {
		return &s, nil
	}
	return nil, nil
}

func (f *fakeSiswaRepo) FindDuplicate(ctx context.Context, name, kelas, semester string, tahun int, waliKelasID string) (*models.Siswa, error) {
	return f.duplicate, nil
}

func (f *fakeSiswaRepo) Create(ctx context.Context, siswa *models.Siswa) error {
	if siswa.ID == "" {
		siswa.ID = "siswa-generated"
	}
	f.created = append(f.created, *siswa)
	if f.siswa == nil {
		f.siswa = map[string]models.SiswaDetail{}
	}
	f.siswa[siswa.ID] = models.SiswaDetail{Siswa: *siswa}
	return nil
}

func (f *fakeSiswaRepo) Update(ctx context.Context, siswa *models.Siswa) error {
	if _, ok := f.siswa[siswa.ID]; !ok {
		return sql.ErrNoRows
	}
	f.siswa[siswa.ID] = models.SiswaDetail{Siswa: *siswa}
	return nil
}

func (f *fakeSiswaRepo) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	delete(f.siswa, id)
	return nil
}

func errorCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	return appErrors.FromError(err).Code
}

func TestSiswaServiceCreateScopedToCaller(t *testing.T) {
	repo := &fakeSiswaRepo{}
	svc := NewSiswaService(SiswaServiceParams{Repo: repo, Profiles: &fakeProfiles{}, Logger: zap.NewNop()})

	resp, err := svc.Create(context.Background(), waliKelasClaims("wk-1"), dto.CreateSiswaRequest{
		Nama:     "  Budi Santoso ",
		Kelas:    "X IPA 1",
		Tahun:    2024,
		Semester: "Ganjil",
	})
	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "wk-1", repo.created[0].WaliKelasID)
	assert.Equal(t, "Budi Santoso", repo.created[0].Name)
	assert.Equal(t, models.SemesterGanjil, repo.created[0].Semester)
	assert.Equal(t, "Budi Santoso", resp.Nama)
}

func TestSiswaServiceCreateDuplicate(t *testing.T) {
	repo := &fakeSiswaRepo{duplicate: &models.Siswa{ID: "existing"}}
	svc := NewSiswaService(SiswaServiceParams{Repo: repo, Profiles: &fakeProfiles{}, Logger: zap.NewNop()})

	_, err := svc.Create(context.Background(), waliKelasClaims("wk-1"), dto.CreateSiswaRequest{
		Nama: "Budi", Kelas: "X", Tahun: 2024, Semester: "ganjil",
	})
	assert.Equal(t, appErrors.ErrConflict.Code, errorCode(t, err))
}

func TestSiswaServiceCreateOperatorRequiresOwner(t *testing.T) {
	svc := NewSiswaService(SiswaServiceParams{Repo: &fakeSiswaRepo{}, Profiles: &fakeProfiles{}, Logger: zap.NewNop()})

	_, err := svc.Create(context.Background(), operatorClaims(), dto.CreateSiswaRequest{
		Nama: "Budi", Kelas: "X", Tahun: 2024, Semester: "ganjil",
	})
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(t, err))

	owner := "wk-2"
	repo := &fakeSiswaRepo{}
	svc = NewSiswaService(SiswaServiceParams{Repo: repo, Profiles: &fakeProfiles{}, Logger: zap.NewNop()})
	_, err = svc.Create(context.Background(), operatorClaims(), dto.CreateSiswaRequest{
		Nama: "Budi", Kelas: "X", Tahun: 2024, Semester: "ganjil", WaliKelasID: &owner,
	})
	require.NoError(t, err)
	assert.Equal(t, "wk-2", repo.created[0].WaliKelasID)
}

func TestSiswaServiceCreateRejectsBadPeriod(t *testing.T) {
	svc := NewSiswaService(SiswaServiceParams{Repo: &fakeSiswaRepo{}, Profiles: &fakeProfiles{}, Logger: zap.NewNop()})

	_, err := svc.Create(context.Background(), waliKelasClaims("wk-1"), dto.CreateSiswaRequest{
		Nama: "Budi", Kelas: "X", Tahun: 2024, Semester: "pendek",
	})
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(t, err))

	_, err = svc.Create(context.Background(), waliKelasClaims("wk-1"), dto.CreateSiswaRequest{
		Nama: "Budi", Kelas: "X", Tahun: 1999, Semester: "ganjil",
	})
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(t, err))
}

func TestSiswaServiceListSearchMinLength(t *testing.T) {
	svc := NewSiswaService(SiswaServiceParams{Repo: &fakeSiswaRepo{}, Profiles: &fakeProfiles{}, Logger: zap.NewNop()})

	_, err := svc.List(context.Background(), operatorClaims(), models.SiswaFilter{Search: "a"})
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(t, err))
}

func TestSiswaServiceListScoping(t *testing.T) {
	repo := &fakeSiswaRepo{listTotal: 0}
	svc := NewSiswaService(SiswaServiceParams{Repo: repo, Profiles: &fakeProfiles{}, Logger: zap.NewNop()})

	_, err := svc.List(context.Background(), waliKelasClaims("wk-1"), models.SiswaFilter{})
	require.NoError(t, err)
	assert.Equal(t, "wk-1", repo.lastFilter.WaliKelasID)
	assert.Equal(t, 1, repo.lastFilter.Page)
	assert.Equal(t, defaultPageSize, repo.lastFilter.PageSize)

	_, err = svc.List(context.Background(), operatorClaims(), models.SiswaFilter{})
	require.NoError(t, err)
	assert.Empty(t, repo.lastFilter.WaliKelasID)
}

func TestSiswaServiceGetNotFound(t *testing.T) {
	svc := NewSiswaService(SiswaServiceParams{Repo: &fakeSiswaRepo{}, Profiles: &fakeProfiles{}, Logger: zap.NewNop()})

	_, err := svc.Get(context.Background(), operatorClaims(), "missing")
	assert.Equal(t, appErrors.ErrNotFound.Code, errorCode(t, err))
}

func TestSiswaServiceUpdatePartial(t *testing.T) {
	repo := &fakeSiswaRepo{siswa: map[string]models.SiswaDetail{
		"s-1": {Siswa: models.Siswa{ID: "s-1", Name: "Budi", Kelas: "X IPA 1", Tahun: 2024, Semester: "ganjil"}},
	}}
	svc := NewSiswaService(SiswaServiceParams{Repo: repo, Profiles: &fakeProfiles{}, Logger: zap.NewNop()})

	nama := "Budi Baru"
	resp, err := svc.Update(context.Background(), waliKelasClaims("wk-1"), "s-1", dto.UpdateSiswaRequest{Nama: &nama})
	require.NoError(t, err)
	assert.Equal(t, "Budi Baru", resp.Nama)
	assert.Equal(t, "X IPA 1", resp.Kelas)
	assert.Equal(t, 2024, resp.Tahun)
}

func TestSiswaServiceDelete(t *testing.T) {
	repo := &fakeSiswaRepo{siswa: map[string]models.SiswaDetail{
		"s-1": {Siswa: models.Siswa{ID: "s-1", Name: "Budi"}},
	}}
	svc := NewSiswaService(SiswaServiceParams{Repo: repo, Profiles: &fakeProfiles{}, Logger: zap.NewNop()})

	require.NoError(t, svc.Delete(context.Background(), waliKelasClaims("wk-1"), "s-1"))
	assert.Contains(t, repo.deleted, "s-1")

	err := svc.Delete(context.Background(), waliKelasClaims("wk-1"), "missing")
	assert.Equal(t, appErrors.ErrNotFound.Code, errorCode(t, err))
}
