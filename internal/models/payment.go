package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PaymentMethod represents how a booking was paid
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodUPI    PaymentMethod = "upi"
	PaymentMethodWallet PaymentMethod = "wallet"
)

// PaymentStatus represents the state of a payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
)

// Payment belongs to a booking
type Payment struct {
	ID             uuid.UUID     `json:"id" db:"id"`
	BookingID      uuid.UUID     `json:"booking_id" db:"booking_id"`
	UserID         uuid.UUID     `json:"user_id" db:"user_id"`
	Method         PaymentMethod `json:"method" db:"method"`
	Status         PaymentStatus `json:"status" db:"status"`
	Amount         float64       `json:"amount" db:"amount"`
	TransactionRef *string       `json:"transaction_ref,omitempty" db:"transaction_ref"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" db:"updated_at"`
}

// CreatePaymentRequest represents the payment payload
type CreatePaymentRequest struct {
	BookingID      uuid.UUID     `json:"booking_id" binding:"required"`
	Method         PaymentMethod `json:"method" binding:"required"`
	TransactionRef *string       `json:"transaction_ref,omitempty"`
}

// Validate validates the payment method
func (r *CreatePaymentRequest) Validate() error {
	switch r.Method {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodUPI, PaymentMethodWallet:
		return nil
	default:
		return fmt.Errorf("method must be one of: cash, card, upi, wallet")
	}
}
