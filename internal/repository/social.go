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
	ErrSocialLinkNotFound = errors.New("social link not found")
)

type SocialLinkRepository interface {
	Create(link *model.SocialLink) error
	ByID(id string) (*model.SocialLink, error)
	All() ([]*model.SocialLink, error)
	Active() ([]*model.SocialLink, error)
	LastOrderIndex() (int, error)
	SetActive(id string, active bool) error
	Delete(id string) error
}

type socialLinkRepository struct {
	db *sqlx.DB
}

func NewSocialLinkRepository(db *sqlx.DB) SocialLinkRepository {
	return &socialLinkRepository{db: db}
}

func (r *socialLinkRepository) Create(link *model.SocialLink) error {
	if link.ID == "" {
		link.ID = uuid.New().String()
	}
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now()
	}

	query := `INSERT INTO social_media_links (id, platform, url, icon_name, is_active, order_index, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(query, link.ID, link.Platform, link.URL, link.IconName, link.IsActive, link.OrderIndex, link.CreatedAt)
	return err
}

func (r *socialLinkRepository) ByID(id string) (*model.SocialLink, error) {
	link := &model.SocialLink{}
	err := r.db.Get(link, `SELECT * FROM social_media_links WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrSocialLinkNotFound
	}
	return link, err
}

func (r *socialLinkRepository) All() ([]*model.SocialLink, error) {
	var links []*model.SocialLink
	err := r.db.Select(&links, `SELECT * FROM social_media_links ORDER BY order_index ASC`)
	if err != nil {
		return nil, err
	}
	return links, nil
}

func (r *socialLinkRepository) Active() ([]*model.SocialLink, error) {
	var links []*model.SocialLink
	err := r.db.Select(&links, `SELECT * FROM social_media_links WHERE is_active = $1 ORDER BY order_index ASC`, true)
	if err != nil {
		return nil, err
	}
	return links, nil
}

func (r *socialLinkRepository) LastOrderIndex() (int, error) {
	return lastOrderIndex(r.db, `SELECT MAX(order_index) FROM social_media_links`)
}

func (r *socialLinkRepository) SetActive(id string, active bool) error {
	result, err := r.db.Exec(`UPDATE social_media_links SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return err
	}
	return expectRow(result, ErrSocialLinkNotFound)
}

func (r *socialLinkRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM social_media_links WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectRow(result, ErrSocialLinkNotFound)
}
