package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openride/rideshare-backend/internal/database"
	"github.com/openride/rideshare-backend/internal/models"
)

// mockDB adapts a sqlmock connection to the database.DB interface
type mockDB struct {
	db *sqlx.DB
}

func newMockDB(t *testing.T) (*mockDB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &mockDB{db: sqlx.NewDb(db, "sqlmock")}, mock
}

func (m *mockDB) Get(dest interface{}, query string, args ...interface{}) error {
	return m.db.Get(dest, query, args...)
}

func (m *mockDB) Select(dest interface{}, query string, args ...interface{}) error {
	return m.db.Select(dest, query, args...)
}

func (m *mockDB) Exec(query string, args ...interface{}) (sql.Result, error) {
	return m.db.Exec(query, args...)
}

func (m *mockDB) QueryRow(query string, args ...interface{}) *sql.Row {
	return m.db.QueryRow(query, args...)
}

func (m *mockDB) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return m.db.Query(query, args...)
}

func (m *mockDB) Beginx() (*sqlx.Tx, error) {
	return m.db.Beginx()
}

func (m *mockDB) Ping() error {
	return m.db.Ping()
}

func (m *mockDB) Close() error {
	return m.db.Close()
}

func testTime() time.Time {
	return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
}

func newRideServiceWithMock(t *testing.T) (*RideService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	return NewRideService(
		database.NewRideRepository(db),
		database.NewBookingRepository(db),
		database.NewDriverDocumentRepository(db),
		database.NewVehicleRepository(db),
		database.NewSafetyCheckRepository(db),
		nil,
		quietLogger(),
	), mock
}

func TestCreateRideDocumentGating(t *testing.T) {
	driverID := uuid.New()
	req := func() *models.CreateRideRequest {
		return &models.CreateRideRequest{
			Source:      "Colombo",
			Destination: "Kandy",
			Date:        "2026-09-15",
			Time:        "08:30",
			TotalSeats:  3,
			DistanceKm:  94,
		}
	}

	tests := []struct {
		name     string
		total    int
		approved int
		wantErr  error
	}{
		{"No documents on file", 0, 0, nil},
		{"Documents but none approved", 2, 0, models.ErrDocumentsUnverified},
		{"One approved among several", 3, 1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, mock := newRideServiceWithMock(t)

			mock.ExpectQuery(`SELECT COUNT\(\*\)`).
				WithArgs(driverID).
				WillReturnRows(sqlmock.NewRows([]string{"count", "count"}).
					AddRow(tt.total, tt.approved))

			if tt.wantErr == nil {
				mock.ExpectQuery(`INSERT INTO rides`).
					WillReturnRows(sqlmock.NewRows([]string{"status", "created_at", "updated_at"}).
						AddRow("scheduled", testTime(), testTime()))
			}

			ride, err := service.Create(driverID, req())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, ride)
			} else {
				require.NoError(t, err)
				assert.Equal(t, models.RideStatusScheduled, ride.Status)
				assert.Equal(t, 3, ride.AvailableSeats)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
