package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sekolahku/penilaian-api/internal/models"
)

var userDetailRowColumns = []string{
	"id", "name", "email", "password_hash", "phone", "role", "created_at", "updated_at",
	"walikelas_id", "sekolah", "jurusan",
}

func TestUserRepositoryFindByEmail(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows(userDetailRowColumns).
		AddRow("u-1", "Guru", "guru@sekolah.id", "hash", "0812", "walikelas", time.Now(), time.Now(),
			"wk-1", "SMA 1", "IPA")
	mock.ExpectQuery(`WHERE u.email = \$1`).WithArgs("guru@sekolah.id").WillReturnRows(rows)

	user, err := repo.FindByEmail(context.Background(), "guru@sekolah.id")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, models.RoleWaliKelas, user.Role)
	require.NotNil(t, user.WaliKelasID)
	assert.Equal(t, "wk-1", *user.WaliKelasID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFindByEmailMissing(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(`WHERE u.email = \$1`).WithArgs("lain@sekolah.id").WillReturnError(sql.ErrNoRows)

	user, err := repo.FindByEmail(context.Background(), "lain@sekolah.id")
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryCreateWithProfile(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO walikelas").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	user := &models.User{Name: "Guru", Email: "guru@sekolah.id", Role: models.RoleWaliKelas}
	profile := &models.WaliKelas{}
	require.NoError(t, repo.CreateWithProfile(context.Background(), user, profile))
	assert.NotEmpty(t, user.ID)
	assert.NotEmpty(t, profile.ID)
	assert.Equal(t, user.ID, profile.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryCreateWithoutProfile(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	user := &models.User{Name: "Admin", Email: "admin@sekolah.id", Role: models.RoleOperator}
	require.NoError(t, repo.CreateWithProfile(context.Background(), user, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryUpdateWithProfileRemoval(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM walikelas").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	user := &models.User{ID: "u-1", Name: "Guru", Email: "guru@sekolah.id", Role: models.RoleOperator}
	require.NoError(t, repo.UpdateWithProfile(context.Background(), user, nil, true))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryUpdatePasswordMissing(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("UPDATE users SET password_hash").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdatePassword(context.Background(), "missing", "hash")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}
