package model

import (
	"sort"
	"strings"
	"time"
)

type IntakeQuestion struct {
	ID           string    `db:"id"`
	QuestionText string    `db:"question_text"`
	HelperText   *string   `db:"helper_text"`
	IsActive     bool      `db:"is_active"`
	OrderIndex   int       `db:"order_index"`
	CreatedAt    time.Time `db:"created_at"`
}

type Answer struct {
	ID         string    `db:"id"`
	UserID     string    `db:"user_id"`
	QuestionID string    `db:"question_id"`
	AnswerText string    `db:"answer_text"`
	CreatedAt  time.Time `db:"created_at"`
}

// AnsweredQuestion is an answer joined with its question text for the admin view.
type AnsweredQuestion struct {
	UserID       string `db:"user_id"`
	QuestionID   string `db:"question_id"`
	QuestionText string `db:"question_text"`
	AnswerText   string `db:"answer_text"`
}

// AnswerSet filters a question_id -> text map down to the answers worth
// storing: trimmed and non-empty, ordered by question id for stable inserts.
func AnswerSet(userID string, answers map[string]string) []*Answer {
	ids := make([]string, 0, len(answers))
	for id := range answers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	set := make([]*Answer, 0, len(ids))
	for _, id := range ids {
		text := strings.TrimSpace(answers[id])
		if text == "" || strings.TrimSpace(id) == "" {
			continue
		}
		set = append(set, &Answer{
			UserID:     userID,
			QuestionID: id,
			AnswerText: text,
		})
	}
	return set
}
