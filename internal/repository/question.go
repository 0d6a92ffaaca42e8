package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/nextstepguidance/nextstep/internal/model"
)

type QuestionRepository interface {
	Create(question *model.IntakeQuestion) error
	Active() ([]*model.IntakeQuestion, error)
	All() ([]*model.IntakeQuestion, error)
	LastOrderIndex() (int, error)
}

type questionRepository struct {
	db *sqlx.DB
}

func NewQuestionRepository(db *sqlx.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(q *model.IntakeQuestion) error {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now()
	}

	query := `INSERT INTO intake_questions (id, question_text, helper_text, is_active, order_index, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(query, q.ID, q.QuestionText, q.HelperText, q.IsActive, q.OrderIndex, q.CreatedAt)
	return err
}

func (r *questionRepository) Active() ([]*model.IntakeQuestion, error) {
	var questions []*model.IntakeQuestion
	query := `SELECT * FROM intake_questions WHERE is_active = $1 ORDER BY order_index ASC`

	err := r.db.Select(&questions, query, true)
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) All() ([]*model.IntakeQuestion, error) {
	var questions []*model.IntakeQuestion
	query := `SELECT * FROM intake_questions ORDER BY order_index ASC`

	err := r.db.Select(&questions, query)
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) LastOrderIndex() (int, error) {
	return lastOrderIndex(r.db, `SELECT MAX(order_index) FROM intake_questions`)
}
