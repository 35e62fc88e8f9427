package database

import (
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openride/rideshare-backend/internal/models"
)

func TestCreateRide(t *testing.T) {
	mockDB, mock := newMockDatabase(t)
	repo := NewRideRepository(mockDB)

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		ride := &models.Ride{
			DriverID:    uuid.New(),
			Source:      "Colombo",
			Destination: "Kandy",
			RideDate:    now.AddDate(0, 0, 1),
			RideTime:    "08:30:00",
			TotalSeats:  4,
			DistanceKm:  115.5,
		}

		mock.ExpectQuery(`INSERT INTO rides`).
			WillReturnRows(sqlmock.NewRows([]string{"status", "created_at", "updated_at"}).
				AddRow("scheduled", now, now))

		err := repo.Create(ride)
		require.NoError(t, err)
		assert.Equal(t, models.RideStatusScheduled, ride.Status)
		assert.Equal(t, 4, ride.AvailableSeats)
		assert.Equal(t, models.FarePerKm, ride.FarePerKm)
		assert.NotEqual(t, uuid.Nil, ride.ID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO rides`).
			WillReturnError(fmt.Errorf("database error"))

		err := repo.Create(&models.Ride{DriverID: uuid.New(), TotalSeats: 2})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create ride")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSearchRides(t *testing.T) {
	mockDB, mock := newMockDatabase(t)
	repo := NewRideRepository(mockDB)

	columns := []string{
		"id", "driver_id", "vehicle_id", "source", "destination",
		"ride_date", "ride_time", "total_seats", "available_seats",
		"fare_per_km", "distance_km", "status", "created_at", "updated_at",
		"driver_name",
	}

	t.Run("Computes Fare Per Ride", func(t *testing.T) {
		now := time.Now()
		rideID := uuid.New()

		mock.ExpectQuery(`SELECT (.+) FROM rides r`).
			WithArgs("colombo", "kandy", nil).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(
				rideID, uuid.New(), nil, "Colombo", "Kandy",
				now, "08:30:00", 4, 2,
				10.0, 20.0, "scheduled", now, now,
				"Nimal",
			))

		results, err := repo.Search(models.SearchRidesParams{Source: "colombo", Destination: "kandy"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, rideID, results[0].ID)
		assert.Equal(t, "Nimal", results[0].DriverName)
		assert.Equal(t, 200.0, results[0].EstimatedFare)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty Result", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM rides r`).
			WillReturnRows(sqlmock.NewRows(columns))

		results, err := repo.Search(models.SearchRidesParams{Source: "nowhere"})
		require.NoError(t, err)
		assert.Empty(t, results)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateRide(t *testing.T) {
	mockDB, mock := newMockDatabase(t)
	repo := NewRideRepository(mockDB)

	baseRide := func() *models.Ride {
		return &models.Ride{
			ID:          uuid.New(),
			Source:      "Colombo",
			Destination: "Galle",
			RideDate:    time.Now().AddDate(0, 0, 2),
			RideTime:    "09:00:00",
			TotalSeats:  4,
			DistanceKm:  120,
			Status:      models.RideStatusScheduled,
		}
	}

	t.Run("Recomputes Available Seats", func(t *testing.T) {
		ride := baseRide()
		newTotal := 6

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT COALESCE`).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(2))
		mock.ExpectQuery(`UPDATE rides`).
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))
		mock.ExpectCommit()

		err := repo.Update(ride, &models.UpdateRideRequest{TotalSeats: &newTotal})
		require.NoError(t, err)
		assert.Equal(t, 6, ride.TotalSeats)
		assert.Equal(t, 4, ride.AvailableSeats)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rejects Seat Reduction Below Booked", func(t *testing.T) {
		ride := baseRide()
		newTotal := 1

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT COALESCE`).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(3))
		mock.ExpectRollback()

		err := repo.Update(ride, &models.UpdateRideRequest{TotalSeats: &newTotal})
		assert.ErrorIs(t, err, models.ErrSeatReduction)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCancelWithRefunds(t *testing.T) {
	mockDB, mock := newMockDatabase(t)
	repo := NewRideRepository(mockDB)

	rideID := uuid.New()
	bookingColumns := []string{"id", "passenger_id", "seats_booked", "amount", "status"}

	t.Run("Confirmed Wallet Booking Is Refunded", func(t *testing.T) {
		confirmedID := uuid.New()
		pendingID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE rides SET status = 'cancelled'`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT id, passenger_id, seats_booked, amount, status`).
			WillReturnRows(sqlmock.NewRows(bookingColumns).
				AddRow(confirmedID, uuid.New(), 2, 400.0, "confirmed").
				AddRow(pendingID, uuid.New(), 1, 200.0, "pending"))

		// Confirmed booking: cancel, restore seats, refund wallet
		mock.ExpectExec(`UPDATE bookings SET status = 'canceled_by_driver'`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE rides SET available_seats`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT EXISTS`).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectExec(`INSERT INTO wallets`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO wallet_transactions`).
			WillReturnResult(sqlmock.NewResult(1, 1))

		// Pending booking: cancel only, no seats held, no wallet payment
		mock.ExpectExec(`UPDATE bookings SET status = 'canceled_by_driver'`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT EXISTS`).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		mock.ExpectCommit()

		cancelled, err := repo.CancelWithRefunds(rideID)
		require.NoError(t, err)
		require.Len(t, cancelled, 2)

		assert.True(t, cancelled[0].WasConfirmed)
		assert.True(t, cancelled[0].Refunded)
		assert.Equal(t, confirmedID, cancelled[0].BookingID)

		assert.False(t, cancelled[1].WasConfirmed)
		assert.False(t, cancelled[1].Refunded)
		assert.Equal(t, pendingID, cancelled[1].BookingID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Terminal Ride Rejected", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE rides SET status = 'cancelled'`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		cancelled, err := repo.CancelWithRefunds(rideID)
		assert.ErrorIs(t, err, models.ErrInvalidTransition)
		assert.Nil(t, cancelled)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Mid Loop Failure Rolls Everything Back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE rides SET status = 'cancelled'`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT id, passenger_id, seats_booked, amount, status`).
			WillReturnRows(sqlmock.NewRows(bookingColumns).
				AddRow(uuid.New(), uuid.New(), 2, 400.0, "confirmed"))
		mock.ExpectExec(`UPDATE bookings SET status = 'canceled_by_driver'`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE rides SET available_seats`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT EXISTS`).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectExec(`INSERT INTO wallets`).
			WillReturnError(fmt.Errorf("connection reset"))
		mock.ExpectRollback()

		cancelled, err := repo.CancelWithRefunds(rideID)
		assert.Error(t, err)
		assert.Nil(t, cancelled)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
