package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/nextstepguidance/nextstep/internal/model"
)

var (
	ErrNoticeNotFound = errors.New("notice not found")
)

type NoticeRepository interface {
	Create(notice *model.Notice) error
	Recent(profileID string, limit int) ([]*model.Notice, error)
	MarkRead(profileID, noticeID string) error
}

type noticeRepository struct {
	db *sqlx.DB
}

func NewNoticeRepository(db *sqlx.DB) NoticeRepository {
	return &noticeRepository{db: db}
}

func (r *noticeRepository) Create(n *model.Notice) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	query := `INSERT INTO notices (id, user_id, admin_id, title, message, is_read, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(query, n.ID, n.UserID, n.AdminID, n.Title, n.Message, n.IsRead, n.CreatedAt)
	return err
}

func (r *noticeRepository) Recent(profileID string, limit int) ([]*model.Notice, error) {
	var notices []*model.Notice
	query := `SELECT * FROM notices WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`

	err := r.db.Select(&notices, query, profileID, limit)
	if err != nil {
		return nil, err
	}
	return notices, nil
}

// MarkRead only matches notices addressed to profileID; there is no way back to unread.
func (r *noticeRepository) MarkRead(profileID, noticeID string) error {
	query := `UPDATE notices SET is_read = $1 WHERE id = $2 AND user_id = $3`

	result, err := r.db.Exec(query, true, noticeID, profileID)
	if err != nil {
		return err
	}
	return expectRow(result, ErrNoticeNotFound)
}
