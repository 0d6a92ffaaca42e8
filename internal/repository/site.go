package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/nextstepguidance/nextstep/internal/model"
)

var (
	ErrSiteConfigNotFound = errors.New("site config not found")
)

// SiteRepository covers the site_config singleton and the read-only marketing tables.
type SiteRepository interface {
	Config() (*model.SiteConfig, error)
	CreateConfig(cfg *model.SiteConfig) error
	UpdateConfig(cfg *model.SiteConfig) error
	ActiveFAQs() ([]*model.FAQ, error)
	FeaturedTestimonials(limit int) ([]*model.Testimonial, error)
}

type siteRepository struct {
	db *sqlx.DB
}

func NewSiteRepository(db *sqlx.DB) SiteRepository {
	return &siteRepository{db: db}
}

func (r *siteRepository) Config() (*model.SiteConfig, error) {
	cfg := &model.SiteConfig{}
	err := r.db.Get(cfg, `SELECT * FROM site_config ORDER BY created_at ASC LIMIT 1`)
	if err == sql.ErrNoRows {
		return nil, ErrSiteConfigNotFound
	}
	return cfg, err
}

func (r *siteRepository) CreateConfig(cfg *model.SiteConfig) error {
	if cfg.ID == "" {
		cfg.ID = uuid.New().String()
	}
	now := time.Now()
	cfg.CreatedAt = now
	cfg.UpdatedAt = now

	query := `INSERT INTO site_config (id, site_name, mobile_no, whatsapp_no, address, email, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(query, cfg.ID, cfg.SiteName, cfg.MobileNo, cfg.WhatsappNo, cfg.Address, cfg.Email, cfg.CreatedAt, cfg.UpdatedAt)
	return err
}

func (r *siteRepository) UpdateConfig(cfg *model.SiteConfig) error {
	cfg.UpdatedAt = time.Now()

	query := `UPDATE site_config
	          SET site_name = $1, mobile_no = $2, whatsapp_no = $3, address = $4, email = $5, updated_at = $6
	          WHERE id = $7`

	result, err := r.db.Exec(query, cfg.SiteName, cfg.MobileNo, cfg.WhatsappNo, cfg.Address, cfg.Email, cfg.UpdatedAt, cfg.ID)
	if err != nil {
		return err
	}
	return expectRow(result, ErrSiteConfigNotFound)
}

func (r *siteRepository) ActiveFAQs() ([]*model.FAQ, error) {
	var faqs []*model.FAQ
	err := r.db.Select(&faqs, `SELECT * FROM faqs WHERE is_active = $1 ORDER BY order_index ASC`, true)
	if err != nil {
		return nil, err
	}
	return faqs, nil
}

func (r *siteRepository) FeaturedTestimonials(limit int) ([]*model.Testimonial, error) {
	var testimonials []*model.Testimonial
	err := r.db.Select(&testimonials, `SELECT * FROM testimonials WHERE is_featured = $1 ORDER BY order_index ASC LIMIT $2`, true, limit)
	if err != nil {
		return nil, err
	}
	return testimonials, nil
}
