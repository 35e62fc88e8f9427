package database

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openride/rideshare-backend/internal/models"
)

func TestCreateUser(t *testing.T) {
	mockDB, mock := newMockDatabase(t)
	repo := NewUserRepository(mockDB)

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		user := &models.User{
			Name:         "Nimal Perera",
			Email:        "nimal@example.com",
			Phone:        "+94712345678",
			PasswordHash: "$2a$10$hash",
			Role:         models.RolePassenger,
		}

		mock.ExpectQuery(`INSERT INTO users`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
				AddRow(now, now))

		err := repo.Create(user)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, user.ID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO users`).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := repo.Create(&models.User{Email: "nimal@example.com"})
		assert.ErrorIs(t, err, models.ErrDuplicateEmail)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO users`).
			WillReturnError(fmt.Errorf("database error"))

		err := repo.Create(&models.User{Email: "x@example.com"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create user")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetUserByEmail(t *testing.T) {
	mockDB, mock := newMockDatabase(t)
	repo := NewUserRepository(mockDB)

	columns := []string{
		"id", "name", "email", "phone", "password_hash", "role", "is_available",
		"current_lat", "current_lng", "created_at", "updated_at", "last_seen_at",
	}

	t.Run("Success", func(t *testing.T) {
		userID := uuid.New()
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE email`).
			WithArgs("nimal@example.com").
			WillReturnRows(sqlmock.NewRows(columns).AddRow(
				userID, "Nimal Perera", "nimal@example.com", "+94712345678",
				"$2a$10$hash", "both", true,
				6.9271, 79.8612, now, now, now,
			))

		user, err := repo.GetByEmail("nimal@example.com")
		require.NoError(t, err)
		assert.Equal(t, userID, user.ID)
		assert.Equal(t, models.RoleBoth, user.Role)
		require.NotNil(t, user.CurrentLat)
		assert.Equal(t, 6.9271, *user.CurrentLat)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM users WHERE email`).
			WithArgs("ghost@example.com").
			WillReturnError(sql.ErrNoRows)

		user, err := repo.GetByEmail("ghost@example.com")
		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.Nil(t, user)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Null Location Fields", func(t *testing.T) {
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE email`).
			WithArgs("fresh@example.com").
			WillReturnRows(sqlmock.NewRows(columns).AddRow(
				uuid.New(), "Fresh User", "fresh@example.com", "+94770000000",
				"$2a$10$hash", "passenger", false,
				nil, nil, now, now, nil,
			))

		user, err := repo.GetByEmail("fresh@example.com")
		require.NoError(t, err)
		assert.Nil(t, user.CurrentLat)
		assert.Nil(t, user.CurrentLng)
		assert.Nil(t, user.LastSeenAt)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateProfile(t *testing.T) {
	mockDB, mock := newMockDatabase(t)
	repo := NewUserRepository(mockDB)

	userID := uuid.New()
	name := "New Name"

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE users`).
			WithArgs(userID, &name, nil).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateProfile(userID, &models.UpdateProfileRequest{Name: &name})
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown User", func(t *testing.T) {
		mock.ExpectExec(`UPDATE users`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateProfile(userID, &models.UpdateProfileRequest{Name: &name})
		assert.ErrorIs(t, err, models.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
