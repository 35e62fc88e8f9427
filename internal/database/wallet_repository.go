package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/openride/rideshare-backend/internal/models"
)

// WalletRepository handles database operations for wallets and their
// transaction ledger
type WalletRepository struct {
	db DB
}

// NewWalletRepository creates a new WalletRepository
func NewWalletRepository(db DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// GetOrCreate returns the user's wallet, creating an empty one on first use
func (r *WalletRepository) GetOrCreate(userID uuid.UUID) (*models.Wallet, error) {
	query := `
		INSERT INTO wallets (id, user_id, balance)
		VALUES ($1, $2, 0)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, user_id, balance, created_at, updated_at
	`

	wallet := &models.Wallet{}
	err := r.db.QueryRow(query, uuid.New(), userID).Scan(
		&wallet.ID, &wallet.UserID, &wallet.Balance,
		&wallet.CreatedAt, &wallet.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch wallet: %w", err)
	}

	return wallet, nil
}

// Credit tops up the wallet and records a credit ledger entry
func (r *WalletRepository) Credit(userID uuid.UUID, amount float64, description string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO wallets (id, user_id, balance)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id)
		DO UPDATE SET balance = wallets.balance + $3, updated_at = NOW()
	`, uuid.New(), userID, amount)
	if err != nil {
		return fmt.Errorf("failed to credit wallet: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO wallet_transactions (id, user_id, amount, type, description)
		VALUES ($1, $2, $3, 'credit', $4)
	`, uuid.New(), userID, amount, description)
	if err != nil {
		return fmt.Errorf("failed to record credit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListTransactions returns a page of the user's wallet ledger, newest first
func (r *WalletRepository) ListTransactions(userID uuid.UUID, page, limit int) ([]models.WalletTransaction, int, error) {
	var total int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM wallet_transactions WHERE user_id = $1`, userID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	offset := (page - 1) * limit
	rows, err := r.db.Query(`
		SELECT id, user_id, amount, type, description, created_at
		FROM wallet_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	transactions := []models.WalletTransaction{}
	for rows.Next() {
		var txn models.WalletTransaction
		err := rows.Scan(
			&txn.ID, &txn.UserID, &txn.Amount,
			&txn.Type, &txn.Description, &txn.CreatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		transactions = append(transactions, txn)
	}

	return transactions, total, rows.Err()
}
