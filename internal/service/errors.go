package service

import (
	"errors"

	"github.com/nextstepguidance/nextstep/internal/model"
)

var (
	// ErrForbidden is returned by every admin-only operation for a non-admin actor.
	ErrForbidden      = errors.New("you do not have admin permissions")
	ErrSelfRoleChange = errors.New("you cannot change your own role")
	ErrNoAnswers      = errors.New("please answer at least one question")
	ErrInvalidEmail   = errors.New("invalid email address")
	ErrInvalidDate    = errors.New("invalid date, expected YYYY-MM-DD")
)

const dateLayout = "2006-01-02"

func requireAdmin(actor *model.Profile) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	return nil
}
