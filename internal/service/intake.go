package service

import (
	"fmt"

	"github.com/nextstepguidance/nextstep/internal/model"
	"github.com/nextstepguidance/nextstep/internal/repository"
	"github.com/nextstepguidance/nextstep/internal/validation"
)

const unknownQuestion = "Unknown question"

type IntakeService struct {
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
}

func NewIntakeService(questionRepo repository.QuestionRepository, answerRepo repository.AnswerRepository) *IntakeService {
	return &IntakeService{
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
	}
}

func (s *IntakeService) ActiveQuestions() ([]*model.IntakeQuestion, error) {
	return s.questionRepo.Active()
}

func (s *IntakeService) Questions(actor *model.Profile) ([]*model.IntakeQuestion, error) {
	err := requireAdmin(actor)
	if err != nil {
		return nil, err
	}
	return s.questionRepo.All()
}

func (s *IntakeService) CreateQuestion(actor *model.Profile, text, helper string) (*model.IntakeQuestion, error) {
	err := requireAdmin(actor)
	if err != nil {
		return nil, err
	}

	text, err = validation.Required("Question", text, 500)
	if err != nil {
		return nil, err
	}

	last, err := s.questionRepo.LastOrderIndex()
	if err != nil {
		return nil, fmt.Errorf("failed to read question order: %w", err)
	}

	q := &model.IntakeQuestion{
		QuestionText: text,
		HelperText:   validation.Optional(helper),
		IsActive:     true,
		OrderIndex:   model.NextOrderIndex(last),
	}

	err = s.questionRepo.Create(q)
	if err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}
	return q, nil
}

// Answers returns the profile's answers keyed by question id.
func (s *IntakeService) Answers(profileID string) (map[string]string, error) {
	answers, err := s.answerRepo.ByUser(profileID)
	if err != nil {
		return nil, err
	}

	byQuestion := make(map[string]string, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a.AnswerText
	}
	return byQuestion, nil
}

// SubmitAnswers replaces the profile's whole answer set with the non-blank
// entries of answers. An all-blank submission is rejected before storage is touched.
func (s *IntakeService) SubmitAnswers(profileID string, answers map[string]string) (int, error) {
	set := model.AnswerSet(profileID, answers)
	if len(set) == 0 {
		return 0, ErrNoAnswers
	}

	err := s.answerRepo.ReplaceForUser(profileID, set)
	if err != nil {
		return 0, fmt.Errorf("failed to save answers: %w", err)
	}
	return len(set), nil
}

// AnswersByProfile groups every submitted answer by profile id for the admin view.
func (s *IntakeService) AnswersByProfile(actor *model.Profile) (map[string][]*model.AnsweredQuestion, error) {
	err := requireAdmin(actor)
	if err != nil {
		return nil, err
	}

	rows, err := s.answerRepo.AllWithQuestions()
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]*model.AnsweredQuestion)
	for _, row := range rows {
		if row.QuestionText == "" {
			row.QuestionText = unknownQuestion
		}
		grouped[row.UserID] = append(grouped[row.UserID], row)
	}
	return grouped, nil
}
