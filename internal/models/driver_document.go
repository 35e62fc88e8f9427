package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// VerificationStatus is shared by driver documents and vehicles
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// DriverDocument belongs to a driver and is verified by an admin
type DriverDocument struct {
	ID              uuid.UUID          `json:"id" db:"id"`
	DriverID        uuid.UUID          `json:"driver_id" db:"driver_id"`
	DocumentType    string             `json:"document_type" db:"document_type"`
	FileURL         string             `json:"file_url" db:"file_url"`
	Status          VerificationStatus `json:"status" db:"status"`
	RejectionReason *string            `json:"rejection_reason,omitempty" db:"rejection_reason"`
	CreatedAt       time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" db:"updated_at"`
}

// UploadDocumentRequest represents the document upload payload
type UploadDocumentRequest struct {
	DocumentType string `json:"document_type" binding:"required"`
	FileURL      string `json:"file_url" binding:"required"`
}

// ReviewRequest is the admin approval/rejection payload for documents and
// vehicles.
type ReviewRequest struct {
	Status VerificationStatus `json:"status" binding:"required"`
	Reason *string            `json:"reason,omitempty"`
}

// Validate restricts the review outcome to approved/rejected
func (r *ReviewRequest) Validate() error {
	if r.Status != VerificationApproved && r.Status != VerificationRejected {
		return fmt.Errorf("status must be approved or rejected")
	}
	if r.Status == VerificationRejected && (r.Reason == nil || *r.Reason == "") {
		return fmt.Errorf("a reason is required when rejecting")
	}
	return nil
}
