package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/openride/rideshare-backend/internal/models"
)

// UserRepository handles database operations for the users table
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user
func (r *UserRepository) Create(user *models.User) error {
	query := `
		INSERT INTO users (id, name, email, phone, password_hash, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	err := r.db.QueryRow(
		query,
		user.ID, user.Name, user.Email, user.Phone, user.PasswordHash, user.Role,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if IsUniqueViolation(err) {
			return models.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(userID uuid.UUID) (*models.User, error) {
	query := `
		SELECT id, name, email, phone, password_hash, role, is_available,
		       current_lat, current_lng, created_at, updated_at, last_seen_at
		FROM users
		WHERE id = $1
	`

	return r.scanUser(r.db.QueryRow(query, userID))
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	query := `
		SELECT id, name, email, phone, password_hash, role, is_available,
		       current_lat, current_lng, created_at, updated_at, last_seen_at
		FROM users
		WHERE email = $1
	`

	return r.scanUser(r.db.QueryRow(query, email))
}

// UpdateProfile updates the mutable profile fields
func (r *UserRepository) UpdateProfile(userID uuid.UUID, req *models.UpdateProfileRequest) error {
	query := `
		UPDATE users
		SET name = COALESCE($2, name),
		    phone = COALESCE($3, phone),
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, userID, req.Name, req.Phone)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
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

// UpdateLocation updates a driver's availability and location
func (r *UserRepository) UpdateLocation(userID uuid.UUID, lat, lng float64, available bool) error {
	query := `
		UPDATE users
		SET current_lat = $2, current_lng = $3, is_available = $4,
		    last_seen_at = NOW(), updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, userID, lat, lng, available)
	if err != nil {
		return fmt.Errorf("failed to update location: %w", err)
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

// ListDrivers returns all users who can offer rides, for the admin console
func (r *UserRepository) ListDrivers() ([]models.User, error) {
	query := `
		SELECT id, name, email, phone, password_hash, role, is_available,
		       current_lat, current_lng, created_at, updated_at, last_seen_at
		FROM users
		WHERE role IN ('driver', 'both')
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list drivers: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := r.scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}

	return users, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func (r *UserRepository) scanUser(row scanner) (*models.User, error) {
	user, err := r.scanUserRow(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	return user, err
}

func (r *UserRepository) scanUserRow(row scanner) (*models.User, error) {
	user := &models.User{}
	var currentLat, currentLng sql.NullFloat64
	var lastSeenAt sql.NullTime

	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.Phone, &user.PasswordHash,
		&user.Role, &user.IsAvailable, &currentLat, &currentLng,
		&user.CreatedAt, &user.UpdatedAt, &lastSeenAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if currentLat.Valid {
		user.CurrentLat = &currentLat.Float64
	}
	if currentLng.Valid {
		user.CurrentLng = &currentLng.Float64
	}
	if lastSeenAt.Valid {
		user.LastSeenAt = &lastSeenAt.Time
	}

	return user, nil
}
