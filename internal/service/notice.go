package service

import (
	"fmt"
	"log/slog"

	"github.com/nextstepguidance/nextstep/internal/model"
	"github.com/nextstepguidance/nextstep/internal/repository"
	"github.com/nextstepguidance/nextstep/internal/validation"
)

type NoticeService struct {
	noticeRepo   repository.NoticeRepository
	profileRepo  repository.ProfileRepository
	userRepo     repository.UserRepository
	emailService *EmailService
}

func NewNoticeService(
	noticeRepo repository.NoticeRepository,
	profileRepo repository.ProfileRepository,
	userRepo repository.UserRepository,
	emailService *EmailService,
) *NoticeService {
	return &NoticeService{
		noticeRepo:   noticeRepo,
		profileRepo:  profileRepo,
		userRepo:     userRepo,
		emailService: emailService,
	}
}

// Send stores an unread notice for the recipient and mails them a pointer to it.
// Mail failures are logged only.
func (s *NoticeService) Send(actor *model.Profile, recipientProfileID, title, message string) (*model.Notice, error) {
	err := requireAdmin(actor)
	if err != nil {
		return nil, err
	}

	title, err = validation.Required("Title", title, 200)
	if err != nil {
		return nil, err
	}
	message, err = validation.Required("Message", message, 5000)
	if err != nil {
		return nil, err
	}

	recipient, err := s.profileRepo.ByID(recipientProfileID)
	if err != nil {
		return nil, err
	}

	notice := &model.Notice{
		UserID:  recipient.ID,
		AdminID: actor.ID,
		Title:   title,
		Message: message,
		IsRead:  false,
	}
	err = s.noticeRepo.Create(notice)
	if err != nil {
		return nil, fmt.Errorf("failed to create notice: %w", err)
	}

	s.notify(recipient, title)
	return notice, nil
}

func (s *NoticeService) notify(recipient *model.Profile, title string) {
	if s.emailService == nil {
		return
	}

	user, err := s.userRepo.ByID(recipient.UserID)
	if err != nil {
		slog.Warn("failed to load notice recipient", "error", err, "profile_id", recipient.ID)
		return
	}

	err = s.emailService.SendNoticeEmail(user.Email, recipient.DisplayName(), title)
	if err != nil {
		slog.Warn("failed to send notice email", "error", err, "profile_id", recipient.ID)
	}
}

func (s *NoticeService) Feed(profileID string) (*model.NoticeFeed, error) {
	notices, err := s.noticeRepo.Recent(profileID, model.NoticeFeedLimit)
	if err != nil {
		return nil, err
	}
	return model.NewNoticeFeed(notices), nil
}

// MarkRead persists the flip and returns the recipient's feed patched to
// match, so the unread tally moves by at most one.
func (s *NoticeService) MarkRead(profileID, noticeID string) (*model.NoticeFeed, error) {
	feed, err := s.Feed(profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to load notices: %w", err)
	}

	err = s.noticeRepo.MarkRead(profileID, noticeID)
	if err != nil {
		return nil, err
	}

	feed.MarkRead(noticeID)
	return feed, nil
}
