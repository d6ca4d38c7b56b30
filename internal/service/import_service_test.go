package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sekolahku/penilaian-api/internal/excel"
	"github.com/sekolahku/penilaian-api/internal/models"
	appErrors "github.com/sekolahku/penilaian-api/pkg/errors"
)

type fakeDecoder struct {
	rows    []excel.Row
	headers []string
	err     error
}

func (f *fakeDecoder) Decode(data []byte) ([]excel.Row, []string, error) {
	return f.rows, f.headers, f.err
}

type fakeImportSiswaStore struct {
	existingByName map[string]models.Siswa
	duplicate      *models.Siswa
	created        []models.Siswa
}

func (f *fakeImportSiswaStore) FindOrCreate(ctx context.Context, siswa *models.Siswa) (bool, error) {
	if existing, ok := f.existingByName[siswa.Name]; ok {
		*siswa = existing
		return false, nil
	}
	siswa.ID = "siswa-" + siswa.Name
	f.created = append(f.created, *siswa)
	return true, nil
}

func (f *fakeImportSiswaStore) FindDuplicate(ctx context.Context, name, kelas, semester string, tahun int, waliKelasID string) (*models.Siswa, error) {
	return f.duplicate, nil
}

func (f *fakeImportSiswaStore) Create(ctx context.Context, siswa *models.Siswa) error {
	siswa.ID = "siswa-" + siswa.Name
	f.created = append(f.created, *siswa)
	return nil
}

type fakeImportPenilaianStore struct {
	byPeriod *models.Penilaian
	created  []models.Penilaian
}

func (f *fakeImportPenilaianStore) FindBySiswaPeriod(ctx context.Context, siswaID, semester string, tahun int) (*models.Penilaian, error) {
	return f.byPeriod, nil
}

func (f *fakeImportPenilaianStore) Create(ctx context.Context, p *models.Penilaian) error {
	p.ID = "penilaian-generated"
	f.created = append(f.created, *p)
	return nil
}

func goodGradeRow(nama string) excel.Row {
	return excel.Row{
		"Nama Siswa": nama, "Kelas": "X IPA 1", "Semester": "Ganjil", "Tahun": "2024",
		"Nilai Matematika": "85", "Nilai IPA": "88", "Nilai B.Inggris": "82",
		"Nilai IPS": "80", "Nilai B.Indonesia": "87", "Kehadiran": "350",
	}
}

func newImportSvc(siswa *fakeImportSiswaStore, penilaian *fakeImportPenilaianStore, decoder *fakeDecoder, maxErrors int) *ImportService {
	return NewImportService(ImportServiceParams{
		Siswa:     siswa,
		Penilaian: penilaian,
		Profiles:  &fakeProfiles{},
		Decoder:   decoder,
		Logger:    zap.NewNop(),
		MaxErrors: maxErrors,
	})
}

func TestImportPenilaianCreatesStudentAndRecord(t *testing.T) {
	siswaStore := &fakeImportSiswaStore{}
	penilaianStore := &fakeImportPenilaianStore{}
	decoder := &fakeDecoder{rows: []excel.Row{goodGradeRow("Budi Santoso")}, headers: PenilaianImportColumns}
	svc := newImportSvc(siswaStore, penilaianStore, decoder, 0)

	report, err := svc.ImportPenilaian(context.Background(), waliKelasClaims("wk-1"), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Total)
	assert.Equal(t, 1, report.Success)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, 1, report.Details.SiswaDibuat)
	assert.Equal(t, 1, report.Details.PenilaianDibuat)
	assert.Empty(t, report.Errors)

	require.Len(t, penilaianStore.created, 1)
	record := penilaianStore.created[0]
	assert.Equal(t, "siswa-Budi Santoso", record.SiswaID)
	assert.Equal(t, models.SemesterGanjil, record.Semester)
	assert.Equal(t, 84.4, record.RataRata)
	assert.Equal(t, 350, record.Kehadiran)
	assert.Equal(t, "user-1", record.CreatedBy)

	require.Len(t, siswaStore.created, 1)
	assert.Equal(t, "wk-1", siswaStore.created[0].WaliKelasID)
}

func TestImportPenilaianReusesExistingStudent(t *testing.T) {
	siswaStore := &fakeImportSiswaStore{existingByName: map[string]models.Siswa{
		"Budi Santoso": {ID: "s-1", Name: "Budi Santoso", Kelas: "X IPA 1", WaliKelasID: "wk-1"},
	}}
	decoder := &fakeDecoder{rows: []excel.Row{goodGradeRow("Budi Santoso")}, headers: PenilaianImportColumns}
	svc := newImportSvc(siswaStore, &fakeImportPenilaianStore{}, decoder, 0)

	report, err := svc.ImportPenilaian(context.Background(), waliKelasClaims("wk-1"), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Details.SiswaDigunakan)
	assert.Equal(t, 0, report.Details.SiswaDibuat)
}

func TestImportPenilaianRowValidation(t *testing.T) {
	incomplete := goodGradeRow("")
	badTahun := goodGradeRow("A")
	badTahun["Tahun"] = "2024/2025"
	badSemester := goodGradeRow("B")
	badSemester["Semester"] = "pendek"
	emptyScore := goodGradeRow("C")
	emptyScore["Nilai Matematika"] = ""
	rangeScore := goodGradeRow("D")
	rangeScore["Nilai IPS"] = "120"
	badKehadiran := goodGradeRow("E")
	badKehadiran["Kehadiran"] = "400"

	decoder := &fakeDecoder{
		rows:    []excel.Row{incomplete, badTahun, badSemester, emptyScore, rangeScore, badKehadiran},
		headers: PenilaianImportColumns,
	}
	svc := newImportSvc(&fakeImportSiswaStore{}, &fakeImportPenilaianStore{}, decoder, 0)

	report, err := svc.ImportPenilaian(context.Background(), waliKelasClaims("wk-1"), nil)
	require.NoError(t, err)
	assert.Equal(t, 6, report.Failed)
	assert.Equal(t, 0, report.Success)
	require.Len(t, report.Errors, 6)

	assert.Equal(t, "Baris 2: Data siswa tidak lengkap (Nama, Kelas, Semester, Tahun wajib diisi)", report.Errors[0])
	assert.Equal(t, "Baris 3: Tahun harus berupa angka antara 2000-2100", report.Errors[1])
	assert.Equal(t, "Baris 4: Semester harus 'ganjil' atau 'genap'", report.Errors[2])
	assert.Equal(t, "Baris 5: Nilai matematika tidak boleh kosong", report.Errors[3])
	assert.Equal(t, "Baris 6: Nilai ips harus antara 0-100", report.Errors[4])
	assert.Equal(t, "Baris 7: Kehadiran harus antara 0-365 hari", report.Errors[5])
}

func TestImportPenilaianDuplicatePeriod(t *testing.T) {
	penilaianStore := &fakeImportPenilaianStore{byPeriod: &models.Penilaian{ID: "existing"}}
	decoder := &fakeDecoder{rows: []excel.Row{goodGradeRow("Budi")}, headers: PenilaianImportColumns}
	svc := newImportSvc(&fakeImportSiswaStore{}, penilaianStore, decoder, 0)

	report, err := svc.ImportPenilaian(context.Background(), waliKelasClaims("wk-1"), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Details.PenilaianDuplikat)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "Baris 2: Penilaian untuk Budi (ganjil 2024) sudah ada", report.Errors[0])
}

func TestImportPenilaianErrorCap(t *testing.T) {
	rows := make([]excel.Row, 5)
	for i := range rows {
		rows[i] = goodGradeRow("")
	}
	decoder := &fakeDecoder{rows: rows, headers: PenilaianImportColumns}
	svc := newImportSvc(&fakeImportSiswaStore{}, &fakeImportPenilaianStore{}, decoder, 2)

	report, err := svc.ImportPenilaian(context.Background(), waliKelasClaims("wk-1"), nil)
	require.NoError(t, err)
	assert.Equal(t, 5, report.Failed)
	assert.Len(t, report.Errors, 2)
}

func TestImportMissingColumns(t *testing.T) {
	decoder := &fakeDecoder{
		rows:    []excel.Row{{"Nama Siswa": "Budi"}},
		headers: []string{"Nama Siswa", "Kelas"},
	}
	svc := newImportSvc(&fakeImportSiswaStore{}, &fakeImportPenilaianStore{}, decoder, 0)

	_, err := svc.ImportPenilaian(context.Background(), waliKelasClaims("wk-1"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kolom yang diperlukan tidak ditemukan")
}

func TestImportEmptySheet(t *testing.T) {
	decoder := &fakeDecoder{headers: PenilaianImportColumns}
	svc := newImportSvc(&fakeImportSiswaStore{}, &fakeImportPenilaianStore{}, decoder, 0)

	_, err := svc.ImportPenilaian(context.Background(), waliKelasClaims("wk-1"), nil)
	require.Error(t, err)
	assert.Equal(t, "file Excel kosong atau format tidak sesuai", appErrors.FromError(err).Message)
}

func TestImportResolvesOwnerFromProfile(t *testing.T) {
	siswaStore := &fakeImportSiswaStore{}
	decoder := &fakeDecoder{rows: []excel.Row{goodGradeRow("Budi")}, headers: PenilaianImportColumns}
	svc := NewImportService(ImportServiceParams{
		Siswa:     siswaStore,
		Penilaian: &fakeImportPenilaianStore{},
		Profiles:  &fakeProfiles{profile: &models.WaliKelas{ID: "wk-9", UserID: "user-1"}},
		Decoder:   decoder,
		Logger:    zap.NewNop(),
	})

	// Claims without the embedded profile id fall back to a lookup.
	claims := &models.JWTClaims{UserID: "user-1", Role: models.RoleWaliKelas}
	_, err := svc.ImportPenilaian(context.Background(), claims, nil)
	require.NoError(t, err)
	require.Len(t, siswaStore.created, 1)
	assert.Equal(t, "wk-9", siswaStore.created[0].WaliKelasID)
}

func TestImportOwnerProfileMissing(t *testing.T) {
	svc := NewImportService(ImportServiceParams{
		Siswa:     &fakeImportSiswaStore{},
		Penilaian: &fakeImportPenilaianStore{},
		Profiles:  &fakeProfiles{},
		Decoder:   &fakeDecoder{},
		Logger:    zap.NewNop(),
	})

	claims := &models.JWTClaims{UserID: "user-1", Role: models.RoleWaliKelas}
	_, err := svc.ImportPenilaian(context.Background(), claims, nil)
	assert.Equal(t, appErrors.ErrNotFound.Code, errorCode(t, err))
}

func TestImportSiswaReport(t *testing.T) {
	siswaStore := &fakeImportSiswaStore{}
	decoder := &fakeDecoder{
		rows: []excel.Row{
			{"Nama Siswa": "Budi", "Kelas": "X IPA 1", "Semester": "ganjil", "Tahun": "2024"},
			{"Nama Siswa": "", "Kelas": "X IPA 1", "Semester": "ganjil", "Tahun": "2024"},
		},
		headers: SiswaImportColumns,
	}
	svc := newImportSvc(siswaStore, &fakeImportPenilaianStore{}, decoder, 0)

	report, err := svc.ImportSiswa(context.Background(), waliKelasClaims("wk-1"), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Success)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "Baris 3: Data required tidak lengkap", report.Errors[0])
}

func TestImportSiswaDuplicate(t *testing.T) {
	siswaStore := &fakeImportSiswaStore{duplicate: &models.Siswa{ID: "existing"}}
	decoder := &fakeDecoder{
		rows:    []excel.Row{{"Nama Siswa": "Budi", "Kelas": "X IPA 1", "Semester": "ganjil", "Tahun": "2024"}},
		headers: SiswaImportColumns,
	}
	svc := newImportSvc(siswaStore, &fakeImportPenilaianStore{}, decoder, 0)

	report, err := svc.ImportSiswa(context.Background(), waliKelasClaims("wk-1"), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Duplikat)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "Baris 2: Data siswa sudah ada", report.Errors[0])
}

func TestImportSiswaErrorCapIsHalved(t *testing.T) {
	rows := make([]excel.Row, 4)
	for i := range rows {
		rows[i] = excel.Row{"Nama Siswa": "", "Kelas": "X", "Semester": "ganjil", "Tahun": "2024"}
	}
	decoder := &fakeDecoder{rows: rows, headers: SiswaImportColumns}
	svc := newImportSvc(&fakeImportSiswaStore{}, &fakeImportPenilaianStore{}, decoder, 4)

	report, err := svc.ImportSiswa(context.Background(), waliKelasClaims("wk-1"), nil)
	require.NoError(t, err)
	assert.Equal(t, 4, report.Failed)
	assert.Len(t, report.Errors, 2)
}

func TestImportTemplateRoundTrip(t *testing.T) {
	svc := newImportSvc(&fakeImportSiswaStore{}, &fakeImportPenilaianStore{}, &fakeDecoder{}, 0)

	payload, err := svc.Template()
	require.NoError(t, err)

	rows, headers, err := excel.Decode(payload)
	require.NoError(t, err)
	assert.ElementsMatch(t, PenilaianImportColumns, headers)
	require.Len(t, rows, 2)
	assert.Equal(t, "Budi Santoso", rows[0]["Nama Siswa"])
	assert.Equal(t, "ganjil", rows[0]["Semester"])
}

func TestImportPenilaianSucceedsWhenPredictionUnavailable(t *testing.T) {
	siswaStore := &fakeImportSiswaStore{}
	penilaianStore := &fakeImportPenilaianStore{}
	decoder := &fakeDecoder{
		rows:    []excel.Row{goodGradeRow("Budi Santoso"), goodGradeRow("Siti Aminah"), goodGradeRow("Andi Wijaya")},
		headers: PenilaianImportColumns,
	}
	// Empty payload: every Predict call comes back with nothing, as when
	// the forecast service is down.
	pred := &fakePredictor{}
	svc := NewImportService(ImportServiceParams{
		Siswa:     siswaStore,
		Penilaian: penilaianStore,
		Profiles:  &fakeProfiles{},
		Predictor: pred,
		Decoder:   decoder,
		Logger:    zap.NewNop(),
	})

	report, err := svc.ImportPenilaian(context.Background(), waliKelasClaims("wk-1"), nil)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 3, report.Success)
	assert.Equal(t, 0, report.Failed)
	assert.Empty(t, report.Errors)
	assert.Equal(t, 3, pred.calls)

	require.Len(t, penilaianStore.created, 3)
	for _, record := range penilaianStore.created {
		assert.Empty(t, record.Prediksi)
	}
}
