package models

import "errors"

// Domain errors surfaced by repositories and services. Handlers translate
// these into HTTP status codes.
var (
	ErrNotFound            = errors.New("record not found")
	ErrNotOwner            = errors.New("resource belongs to another user")
	ErrSeatsUnavailable    = errors.New("not enough seats available")
	ErrSeatReduction       = errors.New("total seats cannot be reduced below booked seats")
	ErrInvalidTransition   = errors.New("invalid ride status transition")
	ErrRideNotEditable     = errors.New("ride can only be edited while scheduled")
	ErrDuplicateFeedback   = errors.New("feedback already submitted for this ride")
	ErrFeedbackNotEligible = errors.New("feedback requires a confirmed or completed booking on this ride")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrPaymentCompleted    = errors.New("booking already has a completed payment")
	ErrDocumentsUnverified = errors.New("driver has no approved documents")
	ErrDuplicateEmail      = errors.New("email is already registered")
	ErrBookingNotPending   = errors.New("booking is not pending")
	ErrBookingFinal        = errors.New("booking is already in a terminal state")
)
