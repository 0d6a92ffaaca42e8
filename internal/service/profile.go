package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nextstepguidance/nextstep/internal/model"
	"github.com/nextstepguidance/nextstep/internal/repository"
)

type ProfileService struct {
	profileRepo repository.ProfileRepository
	userRepo    repository.UserRepository
}

func NewProfileService(profileRepo repository.ProfileRepository, userRepo repository.UserRepository) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		userRepo:    userRepo,
	}
}

// Resolve returns the profile of an identity, creating it on first use with
// the display name (or email) as full name and the default role.
// There is no guard against two concurrent first visits; the loser gets an error.
func (s *ProfileService) Resolve(user *model.User) (*model.Profile, error) {
	profile, err := s.profileRepo.ByUserID(user.ID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, repository.ErrProfileNotFound) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	profile = &model.Profile{
		UserID:   user.ID,
		FullName: user.ProfileName(),
		Role:     model.RoleUser,
	}
	err = s.profileRepo.Create(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	slog.Info("profile created", "profile_id", profile.ID, "user_id", user.ID)
	return profile, nil
}

func (s *ProfileService) ByID(id string) (*model.Profile, error) {
	return s.profileRepo.ByID(id)
}

func (s *ProfileService) Profiles(actor *model.Profile) ([]*model.Profile, error) {
	err := requireAdmin(actor)
	if err != nil {
		return nil, err
	}
	return s.profileRepo.All()
}

// ToggleRole flips the target between user and admin. Acting on one's own
// profile is refused whatever the actor's role. Nothing stops the last admin
// from being demoted by another admin.
func (s *ProfileService) ToggleRole(actor *model.Profile, actorUserID, targetProfileID string) (*model.Profile, error) {
	if actor != nil && actor.ID == targetProfileID {
		return nil, ErrSelfRoleChange
	}

	err := requireAdmin(actor)
	if err != nil {
		return nil, err
	}

	target, err := s.profileRepo.ByID(targetProfileID)
	if err != nil {
		return nil, err
	}

	if target.UserID == actorUserID {
		return nil, ErrSelfRoleChange
	}

	newRole := target.Role.Toggled()
	err = s.profileRepo.UpdateRole(target.ID, newRole)
	if err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	target.Role = newRole

	slog.Info("profile role changed", "profile_id", target.ID, "role", newRole, "admin_id", actor.ID)
	return target, nil
}

// Promote makes the identity with email an admin. It is the operator's way to
// seed the first admin and bypasses the actor checks of ToggleRole.
func (s *ProfileService) Promote(email string) (*model.Profile, error) {
	user, err := s.userRepo.ByEmail(strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return nil, err
	}

	profile, err := s.Resolve(user)
	if err != nil {
		return nil, err
	}

	if profile.IsAdmin() {
		return profile, nil
	}

	err = s.profileRepo.UpdateRole(profile.ID, model.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to promote: %w", err)
	}
	profile.Role = model.RoleAdmin
	return profile, nil
}
