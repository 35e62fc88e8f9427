package models

import (
	"time"

	"github.com/google/uuid"
)

// Wallet holds a per-user stored-value balance
type Wallet struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Balance   float64   `json:"balance" db:"balance"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// WalletTransactionType classifies a ledger entry
type WalletTransactionType string

const (
	WalletTransactionRefund WalletTransactionType = "refund"
	WalletTransactionCredit WalletTransactionType = "credit"
	WalletTransactionDebit  WalletTransactionType = "debit"
)

// WalletTransaction is an append-only ledger entry tied to a user
type WalletTransaction struct {
	ID          uuid.UUID             `json:"id" db:"id"`
	UserID      uuid.UUID             `json:"user_id" db:"user_id"`
	Amount      float64               `json:"amount" db:"amount"`
	Type        WalletTransactionType `json:"type" db:"type"`
	Description *string               `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time             `json:"created_at" db:"created_at"`
}
