package handler

import (
	"errors"

	"github.com/nextstepguidance/nextstep/internal/repository"
	"github.com/nextstepguidance/nextstep/internal/service"
	"github.com/nextstepguidance/nextstep/internal/validation"
)

var userMessages = []struct {
	err error
	msg string
}{
	{service.ErrForbidden, "You do not have admin permissions."},
	{service.ErrSelfRoleChange, "You cannot change your own role."},
	{service.ErrNoAnswers, "Please answer at least one question."},
	{service.ErrInvalidDate, "Please enter dates as YYYY-MM-DD."},
	{service.ErrInvalidEmail, "Please provide a valid email address."},
	{repository.ErrGoalNotFound, "That goal no longer exists."},
	{repository.ErrStepNotFound, "That step no longer exists."},
	{repository.ErrProfileNotFound, "That user no longer exists."},
	{repository.ErrNoticeNotFound, "That notice no longer exists."},
	{repository.ErrSocialLinkNotFound, "That link no longer exists."},
}

// userMessage turns an expected failure into text for a toast. ok is false
// for anything unexpected; the caller logs those and shows a generic message.
func userMessage(err error) (msg string, ok bool) {
	var fieldErr *validation.FieldError
	if errors.As(err, &fieldErr) {
		return fieldErr.Error(), true
	}
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.msg, true
		}
	}
	return "", false
}
