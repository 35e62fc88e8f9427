package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/openride/rideshare-backend/internal/models"
)

// DriverDocumentRepository handles database operations for driver_documents
type DriverDocumentRepository struct {
	db DB
}

// NewDriverDocumentRepository creates a new DriverDocumentRepository
func NewDriverDocumentRepository(db DB) *DriverDocumentRepository {
	return &DriverDocumentRepository{db: db}
}

// Create inserts a new document with status pending
func (r *DriverDocumentRepository) Create(doc *models.DriverDocument) error {
	query := `
		INSERT INTO driver_documents (id, driver_id, document_type, file_url, status)
		VALUES ($1, $2, $3, $4, 'pending')
		RETURNING status, created_at, updated_at
	`

	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}

	err := r.db.QueryRow(query, doc.ID, doc.DriverID, doc.DocumentType, doc.FileURL).
		Scan(&doc.Status, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to create document: %w", err)
	}

	return nil
}

// GetByID retrieves a document by ID
func (r *DriverDocumentRepository) GetByID(documentID uuid.UUID) (*models.DriverDocument, error) {
	query := `
		SELECT id, driver_id, document_type, file_url, status, rejection_reason,
		       created_at, updated_at
		FROM driver_documents
		WHERE id = $1
	`

	doc := &models.DriverDocument{}
	var reason sql.NullString
	err := r.db.QueryRow(query, documentID).Scan(
		&doc.ID, &doc.DriverID, &doc.DocumentType, &doc.FileURL, &doc.Status,
		&reason, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch document: %w", err)
	}
	if reason.Valid {
		doc.RejectionReason = &reason.String
	}

	return doc, nil
}

// ListByDriver returns all documents uploaded by a driver
func (r *DriverDocumentRepository) ListByDriver(driverID uuid.UUID) ([]models.DriverDocument, error) {
	query := `
		SELECT id, driver_id, document_type, file_url, status, rejection_reason,
		       created_at, updated_at
		FROM driver_documents
		WHERE driver_id = $1
		ORDER BY created_at DESC
	`

	return r.list(query, driverID)
}

// ListPending returns all documents awaiting admin review
func (r *DriverDocumentRepository) ListPending() ([]models.DriverDocument, error) {
	query := `
		SELECT id, driver_id, document_type, file_url, status, rejection_reason,
		       created_at, updated_at
		FROM driver_documents
		WHERE status = 'pending'
		ORDER BY created_at
	`

	return r.list(query)
}

// CountByDriver returns total and approved document counts for a driver.
// Drivers with zero documents are allowed to create rides; drivers with
// documents need at least one approved.
func (r *DriverDocumentRepository) CountByDriver(driverID uuid.UUID) (total, approved int, err error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'approved')
		FROM driver_documents
		WHERE driver_id = $1
	`

	err = r.db.QueryRow(query, driverID).Scan(&total, &approved)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return total, approved, nil
}

// Review sets the verification outcome for a document
func (r *DriverDocumentRepository) Review(documentID uuid.UUID, status models.VerificationStatus, reason *string) error {
	query := `
		UPDATE driver_documents
		SET status = $2, rejection_reason = $3, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, documentID, status, reason)
	if err != nil {
		return fmt.Errorf("failed to review document: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (r *DriverDocumentRepository) list(query string, args ...interface{}) ([]models.DriverDocument, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	docs := []models.DriverDocument{}
	for rows.Next() {
		var doc models.DriverDocument
		var reason sql.NullString
		err := rows.Scan(
			&doc.ID, &doc.DriverID, &doc.DocumentType, &doc.FileURL, &doc.Status,
			&reason, &doc.CreatedAt, &doc.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if reason.Valid {
			doc.RejectionReason = &reason.String
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}
