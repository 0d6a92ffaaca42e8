package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/nextstepguidance/nextstep/internal/db"
	"github.com/nextstepguidance/nextstep/internal/model"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists for user")
)

type ProfileRepository interface {
	ByUserID(userID string) (*model.Profile, error)
	ByID(id string) (*model.Profile, error)
	Create(profile *model.Profile) error
	UpdateRole(id string, role model.Role) error
	All() ([]*model.Profile, error)
}

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) ByUserID(userID string) (*model.Profile, error) {
	profile := &model.Profile{}
	query := `SELECT * FROM profiles WHERE user_id = $1`

	err := r.db.Get(profile, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}

	return profile, err
}

func (r *profileRepository) ByID(id string) (*model.Profile, error) {
	profile := &model.Profile{}
	query := `SELECT * FROM profiles WHERE id = $1`

	err := r.db.Get(profile, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}

	return profile, err
}

// Create relies on the UNIQUE user_id column; a concurrent duplicate
// surfaces as ErrProfileExists and is not retried.
func (r *profileRepository) Create(profile *model.Profile) error {
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	if profile.Role == "" {
		profile.Role = model.RoleUser
	}
	now := time.Now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = profile.CreatedAt

	query := `INSERT INTO profiles (id, user_id, full_name, role, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(query, profile.ID, profile.UserID, profile.FullName, profile.Role, profile.CreatedAt, profile.UpdatedAt)
	if db.IsUniqueViolation(err) {
		return ErrProfileExists
	}
	return err
}

func (r *profileRepository) UpdateRole(id string, role model.Role) error {
	query := `UPDATE profiles SET role = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.Exec(query, role, time.Now(), id)
	if err != nil {
		return err
	}
	return expectRow(result, ErrProfileNotFound)
}

func (r *profileRepository) All() ([]*model.Profile, error) {
	var profiles []*model.Profile
	query := `SELECT * FROM profiles ORDER BY created_at DESC`

	err := r.db.Select(&profiles, query)
	if err != nil {
		return nil, err
	}
	return profiles, nil
}
