package services

import (
	"errors"
	"fmt"
	"log/slog"

	apperrors "mailvault/errors"
	"mailvault/repositories"
)

type IProfileService interface {
	GetProfile(email string) (repositories.Profile, error)
	UpdateProfile(email, displayName string) (repositories.Profile, error)
	ListProfiles(caller AuthenticatedUser) ([]repositories.Profile, error)
}

type ProfileService struct {
	profiles   repositories.IProfileRepository
	activity   repositories.IActivityRepository
	adminEmail string
	log        *slog.Logger
}

func NewProfileService(
	profiles repositories.IProfileRepository,
	activity repositories.IActivityRepository,
	adminEmail string,
	log *slog.Logger,
) IProfileService {
	return &ProfileService{profiles: profiles, activity: activity, adminEmail: adminEmail, log: log}
}

func (s *ProfileService) GetProfile(email string) (repositories.Profile, error) {
	profile, err := s.profiles.GetProfileByEmail(email)
	if err != nil {
		return repositories.Profile{}, err
	}
	s.trackActivity(email, "profile_read")
	return profile, nil
}

// UpdateProfile changes the mutable fields of the caller's own row.
func (s *ProfileService) UpdateProfile(email, displayName string) (repositories.Profile, error) {
	profile, err := s.profiles.GetProfileByEmail(email)
	if err != nil {
		return repositories.Profile{}, err
	}

	profile.DisplayName = displayName
	updated, err := s.profiles.UpdateProfile(profile)
	if err != nil {
		return repositories.Profile{}, err
	}
	s.trackActivity(email, "profile_update")
	return updated, nil
}

// ListProfiles is admin-only, keyed on the configured admin address.
func (s *ProfileService) ListProfiles(caller AuthenticatedUser) ([]repositories.Profile, error) {
	if !s.isAdmin(caller) {
		return nil, apperrors.ErrForbidden
	}
	return s.profiles.ListProfiles()
}

func (s *ProfileService) isAdmin(caller AuthenticatedUser) bool {
	return s.adminEmail != "" && caller.Email == s.adminEmail
}

// trackActivity is best-effort: a disabled relation is a debug-level
// note, anything else a warning, and neither fails the request.
func (s *ProfileService) trackActivity(email, action string) {
	err := s.activity.RecordActivity(email, action)
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrRelationMissing):
		s.log.Debug("activity tracking disabled, skipping", "action", action)
	default:
		s.log.Warn(fmt.Sprintf("activity tracking failed: %v", err), "action", action)
	}
}
