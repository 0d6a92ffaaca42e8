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
	ErrStepNotFound = errors.New("step not found")
)

type StepRepository interface {
	Create(step *model.Step) error
	ByID(stepID string) (*model.Step, error)
	Steps(goalID string) ([]*model.Step, error)
	LastOrderIndex(goalID string) (int, error)
	UpdateStatus(step *model.Step) error
}

type stepRepository struct {
	db *sqlx.DB
}

func NewStepRepository(db *sqlx.DB) StepRepository {
	return &stepRepository{db: db}
}

func (r *stepRepository) Create(step *model.Step) error {
	if step.ID == "" {
		step.ID = uuid.New().String()
	}
	if step.Status == "" {
		step.Status = model.StepPending
	}
	if step.CreatedAt.IsZero() {
		step.CreatedAt = time.Now()
	}

	query := `INSERT INTO goal_steps (id, goal_id, title, description, due_date, status, order_index, completed_at, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(query,
		step.ID,
		step.GoalID,
		step.Title,
		step.Description,
		step.DueDate,
		step.Status,
		step.OrderIndex,
		step.CompletedAt,
		step.CreatedAt,
	)
	return err
}

func (r *stepRepository) ByID(stepID string) (*model.Step, error) {
	step := &model.Step{}
	query := `SELECT * FROM goal_steps WHERE id = $1`

	err := r.db.Get(step, query, stepID)
	if err == sql.ErrNoRows {
		return nil, ErrStepNotFound
	}

	return step, err
}

func (r *stepRepository) Steps(goalID string) ([]*model.Step, error) {
	var steps []*model.Step
	query := `SELECT * FROM goal_steps WHERE goal_id = $1 ORDER BY order_index ASC, created_at ASC`

	err := r.db.Select(&steps, query, goalID)
	if err != nil {
		return nil, err
	}
	return steps, nil
}

// LastOrderIndex returns the highest order_index of the goal's steps, -1 when it has none.
func (r *stepRepository) LastOrderIndex(goalID string) (int, error) {
	return lastOrderIndex(r.db, `SELECT MAX(order_index) FROM goal_steps WHERE goal_id = $1`, goalID)
}

func (r *stepRepository) UpdateStatus(step *model.Step) error {
	query := `UPDATE goal_steps SET status = $1, completed_at = $2 WHERE id = $3`

	result, err := r.db.Exec(query, step.Status, step.CompletedAt, step.ID)
	if err != nil {
		return err
	}
	return expectRow(result, ErrStepNotFound)
}

func lastOrderIndex(db *sqlx.DB, query string, args ...any) (int, error) {
	var last sql.NullInt64
	err := db.QueryRow(query, args...).Scan(&last)
	if err != nil {
		return 0, err
	}
	if !last.Valid {
		return -1, nil
	}
	return int(last.Int64), nil
}
