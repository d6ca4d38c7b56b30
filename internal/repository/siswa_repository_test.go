package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sekolahku/penilaian-api/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var siswaDetailRowColumns = []string{
	"id", "name", "kelas", "tahun", "semester", "walikelas_id", "created_at", "updated_at",
	"walikelas_sekolah", "walikelas_jurusan", "walikelas_user_id", "walikelas_name", "walikelas_email",
}

func siswaDetailRow() *sqlmock.Rows {
	return sqlmock.NewRows(siswaDetailRowColumns).
		AddRow("s-1", "Budi", "X IPA 1", 2024, "ganjil", "wk-1", time.Now(), time.Now(),
			"SMA 1", "IPA", "u-1", "Guru", "guru@sekolah.id")
}

func TestSiswaRepositoryList(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewSiswaRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\)(.|\n)+FROM siswa s`).
		WithArgs("wk-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`ORDER BY s.tahun DESC(.|\n)*LIMIT \$2 OFFSET \$3`).
		WithArgs("wk-1", 10, 0).
		WillReturnRows(siswaDetailRow())

	siswa, total, err := repo.List(context.Background(), models.SiswaFilter{
		WaliKelasID: "wk-1", Page: 1, PageSize: 10,
	})
	require.NoError(t, err)
	assert.Len(t, siswa, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Budi", siswa[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSiswaRepositoryFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewSiswaRepository(db)

	mock.ExpectQuery(`FROM siswa s`).WithArgs("missing").WillReturnError(sql.ErrNoRows)

	siswa, err := repo.FindByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, siswa)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSiswaRepositoryFindDuplicate(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewSiswaRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "kelas", "tahun", "semester", "walikelas_id", "created_at", "updated_at"}).
		AddRow("s-1", "Budi", "X IPA 1", 2024, "ganjil", "wk-1", time.Now(), time.Now())
	mock.ExpectQuery(`LOWER\(name\) = LOWER\(\$1\)`).
		WithArgs("budi", "X IPA 1", "ganjil", 2024, "wk-1").
		WillReturnRows(rows)

	siswa, err := repo.FindDuplicate(context.Background(), "budi", "X IPA 1", "ganjil", 2024, "wk-1")
	require.NoError(t, err)
	require.NotNil(t, siswa)
	assert.Equal(t, "s-1", siswa.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSiswaRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewSiswaRepository(db)

	mock.ExpectExec("INSERT INTO siswa").WillReturnResult(sqlmock.NewResult(0, 1))

	siswa := &models.Siswa{Name: "Budi", Kelas: "X IPA 1", Tahun: 2024, Semester: "ganjil", WaliKelasID: "wk-1"}
	require.NoError(t, repo.Create(context.Background(), siswa))
	assert.NotEmpty(t, siswa.ID)
	assert.False(t, siswa.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSiswaRepositoryFindOrCreate(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewSiswaRepository(db)

	existing := sqlmock.NewRows([]string{"id", "name", "kelas", "tahun", "semester", "walikelas_id", "created_at", "updated_at"}).
		AddRow("s-1", "Budi", "X IPA 1", 2023, "ganjil", "wk-1", time.Now(), time.Now())
	mock.ExpectQuery(`LOWER\(name\) = LOWER\(\$1\) AND kelas = \$2 AND walikelas_id = \$3`).
		WithArgs("Budi", "X IPA 1", "wk-1").
		WillReturnRows(existing)

	siswa := &models.Siswa{Name: "Budi", Kelas: "X IPA 1", Tahun: 2024, Semester: "genap", WaliKelasID: "wk-1"}
	created, err := repo.FindOrCreate(context.Background(), siswa)
	require.NoError(t, err)
	assert.False(t, created)
	// The existing row wins, including its original enrollment period.
	assert.Equal(t, "s-1", siswa.ID)
	assert.Equal(t, 2023, siswa.Tahun)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSiswaRepositoryUpdateMissing(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewSiswaRepository(db)

	mock.ExpectExec("UPDATE siswa").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Siswa{ID: "missing", Name: "Budi"})
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSiswaRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewSiswaRepository(db)

	mock.ExpectExec("DELETE FROM siswa").WithArgs("s-1").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "s-1"))

	mock.ExpectExec("DELETE FROM siswa").WithArgs("missing").WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.Delete(context.Background(), "missing")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}
