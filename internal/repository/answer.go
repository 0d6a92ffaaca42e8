package repository

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/nextstepguidance/nextstep/internal/model"
)

type AnswerRepository interface {
	ByUser(profileID string) ([]*model.Answer, error)
	ReplaceForUser(profileID string, answers []*model.Answer) error
	AllWithQuestions() ([]*model.AnsweredQuestion, error)
}

type answerRepository struct {
	db *sqlx.DB
}

func NewAnswerRepository(db *sqlx.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) ByUser(profileID string) ([]*model.Answer, error) {
	var answers []*model.Answer
	query := `SELECT * FROM user_question_answers WHERE user_id = $1`

	err := r.db.Select(&answers, query, profileID)
	if err != nil {
		return nil, err
	}
	return answers, nil
}

// ReplaceForUser deletes every answer of the profile and inserts the new set
// in one transaction, so a failed insert keeps the previous answers.
func (r *answerRepository) ReplaceForUser(profileID string, answers []*model.Answer) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`DELETE FROM user_question_answers WHERE user_id = $1`, profileID)
	if err != nil {
		return fmt.Errorf("failed to delete answers: %w", err)
	}

	now := time.Now()
	insert := `INSERT INTO user_question_answers (id, user_id, question_id, answer_text, created_at) VALUES ($1, $2, $3, $4, $5)`
	for _, a := range answers {
		if a.ID == "" {
			a.ID = uuid.New().String()
		}
		a.UserID = profileID
		a.CreatedAt = now

		_, err = tx.Exec(insert, a.ID, a.UserID, a.QuestionID, a.AnswerText, a.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert answer: %w", err)
		}
	}

	return tx.Commit()
}

// AllWithQuestions joins every answer with its question text. Answers whose
// question no longer exists come back with an empty QuestionText.
func (r *answerRepository) AllWithQuestions() ([]*model.AnsweredQuestion, error) {
	var rows []*model.AnsweredQuestion
	query := `
		SELECT a.user_id, a.question_id, COALESCE(q.question_text, '') AS question_text, a.answer_text
		FROM user_question_answers a
		LEFT JOIN intake_questions q ON q.id = a.question_id
		ORDER BY a.user_id, q.order_index
	`

	err := r.db.Select(&rows, query)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
