package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/openride/rideshare-backend/internal/models"
)

// PaymentRepository handles database operations for the payments table
type PaymentRepository struct {
	db DB
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create records a payment against a booking. Wallet payments debit the
// wallet in the same transaction and fail on insufficient balance. The
// conditional INSERT keeps a booking from ever carrying two completed
// payments, no matter how many requests race.
func (r *PaymentRepository) Create(payment *models.Payment) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}

	if payment.Method == models.PaymentMethodWallet {
		result, err := tx.Exec(`
			UPDATE wallets
			SET balance = balance - $2, updated_at = NOW()
			WHERE user_id = $1 AND balance >= $2
		`, payment.UserID, payment.Amount)
		if err != nil {
			return fmt.Errorf("failed to debit wallet: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return models.ErrInsufficientBalance
		}

		_, err = tx.Exec(`
			INSERT INTO wallet_transactions (id, user_id, amount, type, description)
			VALUES ($1, $2, $3, 'debit', $4)
		`, uuid.New(), payment.UserID, payment.Amount,
			fmt.Sprintf("Payment for booking %s", payment.BookingID))
		if err != nil {
			return fmt.Errorf("failed to record debit: %w", err)
		}
	}

	err = tx.QueryRowx(`
		INSERT INTO payments (id, booking_id, user_id, amount, method, status, transaction_ref)
		SELECT $1, $2, $3, $4, $5, 'completed', $6
		WHERE NOT EXISTS (
			SELECT 1 FROM payments WHERE booking_id = $2 AND status = 'completed'
		)
		RETURNING status, created_at, updated_at
	`, payment.ID, payment.BookingID, payment.UserID, payment.Amount, payment.Method, payment.TransactionRef).
		Scan(&payment.Status, &payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.ErrPaymentCompleted
		}
		if IsForeignKeyViolation(err) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to create payment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetByBooking retrieves the payment recorded against a booking
func (r *PaymentRepository) GetByBooking(bookingID uuid.UUID) (*models.Payment, error) {
	query := `
		SELECT id, booking_id, user_id, amount, method, status, transaction_ref, created_at, updated_at
		FROM payments
		WHERE booking_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	payment := &models.Payment{}
	err := r.db.QueryRow(query, bookingID).Scan(
		&payment.ID, &payment.BookingID, &payment.UserID,
		&payment.Amount, &payment.Method, &payment.Status,
		&payment.TransactionRef, &payment.CreatedAt, &payment.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch payment: %w", err)
	}

	return payment, nil
}

// ListByUser returns a user's payment history
func (r *PaymentRepository) ListByUser(userID uuid.UUID) ([]models.Payment, error) {
	query := `
		SELECT id, booking_id, user_id, amount, method, status, transaction_ref, created_at, updated_at
		FROM payments
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		var payment models.Payment
		err := rows.Scan(
			&payment.ID, &payment.BookingID, &payment.UserID,
			&payment.Amount, &payment.Method, &payment.Status,
			&payment.TransactionRef, &payment.CreatedAt, &payment.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}

	return payments, rows.Err()
}
