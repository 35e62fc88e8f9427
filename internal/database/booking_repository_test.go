package database

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openride/rideshare-backend/internal/models"
)

func TestCreateBooking(t *testing.T) {
	mockDB, mock := newMockDatabase(t)
	repo := NewBookingRepository(mockDB)

	t.Run("Starts Pending", func(t *testing.T) {
		now := time.Now()
		booking := &models.Booking{
			RideID:      uuid.New(),
			PassengerID: uuid.New(),
			SeatsBooked: 2,
			Amount:      400,
		}

		mock.ExpectQuery(`INSERT INTO bookings`).
			WillReturnRows(sqlmock.NewRows([]string{"status", "created_at", "updated_at"}).
				AddRow("pending", now, now))

		err := repo.Create(booking)
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusPending, booking.Status)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestConfirmBooking(t *testing.T) {
	mockDB, mock := newMockDatabase(t)
	repo := NewBookingRepository(mockDB)

	bookingID := uuid.New()
	rideID := uuid.New()

	t.Run("Deducts Seats And Confirms", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE rides`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE bookings SET status = 'confirmed'`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Confirm(bookingID, rideID, 2)
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Enough Seats", func(t *testing.T) {
		// The conditional decrement touches no row when seats are short
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE rides`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.Confirm(bookingID, rideID, 5)
		assert.ErrorIs(t, err, models.ErrSeatsUnavailable)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Booking No Longer Pending", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE rides`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE bookings SET status = 'confirmed'`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.Confirm(bookingID, rideID, 2)
		assert.ErrorIs(t, err, models.ErrBookingNotPending)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCancelByPassenger(t *testing.T) {
	mockDB, mock := newMockDatabase(t)
	repo := NewBookingRepository(mockDB)

	bookingID := uuid.New()
	bookingColumns := []string{"ride_id", "passenger_id", "seats_booked", "amount", "status"}

	t.Run("Confirmed Wallet Paid Booking", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT ride_id, passenger_id`).
			WillReturnRows(sqlmock.NewRows(bookingColumns).
				AddRow(uuid.New(), uuid.New(), 2, 400.0, "confirmed"))
		mock.ExpectExec(`UPDATE bookings SET status = 'canceled_by_passenger'`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE rides SET available_seats`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT EXISTS`).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectExec(`INSERT INTO wallets`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO wallet_transactions`).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		refunded, err := repo.CancelByPassenger(bookingID)
		require.NoError(t, err)
		assert.True(t, refunded)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Pending Booking Restores No Seats", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT ride_id, passenger_id`).
			WillReturnRows(sqlmock.NewRows(bookingColumns).
				AddRow(uuid.New(), uuid.New(), 1, 200.0, "pending"))
		mock.ExpectExec(`UPDATE bookings SET status = 'canceled_by_passenger'`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		// No seat-restore update expected here
		mock.ExpectQuery(`SELECT EXISTS`).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectCommit()

		refunded, err := repo.CancelByPassenger(bookingID)
		require.NoError(t, err)
		assert.False(t, refunded)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Terminal Booking Rejected", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT ride_id, passenger_id`).
			WillReturnRows(sqlmock.NewRows(bookingColumns).
				AddRow(uuid.New(), uuid.New(), 1, 200.0, "completed"))
		mock.ExpectRollback()

		_, err := repo.CancelByPassenger(bookingID)
		assert.ErrorIs(t, err, models.ErrBookingFinal)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("In Progress Booking Rejected", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT ride_id, passenger_id`).
			WillReturnRows(sqlmock.NewRows(bookingColumns).
				AddRow(uuid.New(), uuid.New(), 1, 200.0, "in_progress"))
		mock.ExpectRollback()

		_, err := repo.CancelByPassenger(bookingID)
		assert.ErrorIs(t, err, models.ErrInvalidTransition)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Booking", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT ride_id, passenger_id`).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, err := repo.CancelByPassenger(bookingID)
		assert.ErrorIs(t, err, models.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateBookingStatus(t *testing.T) {
	mockDB, mock := newMockDatabase(t)
	repo := NewBookingRepository(mockDB)

	bookingID := uuid.New()

	t.Run("Confirmed To InProgress", func(t *testing.T) {
		mock.ExpectExec(`UPDATE bookings`).
			WithArgs(bookingID, models.BookingStatusInProgress, models.BookingStatusConfirmed).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatus(bookingID, models.BookingStatusInProgress)
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Skipping A Step Is Rejected", func(t *testing.T) {
		// completed requires the row to currently be in_progress
		mock.ExpectExec(`UPDATE bookings`).
			WithArgs(bookingID, models.BookingStatusCompleted, models.BookingStatusInProgress).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(bookingID, models.BookingStatusCompleted)
		assert.ErrorIs(t, err, models.ErrInvalidTransition)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Disallowed Target", func(t *testing.T) {
		err := repo.UpdateStatus(bookingID, models.BookingStatusPending)
		assert.ErrorIs(t, err, models.ErrInvalidTransition)
	})
}
