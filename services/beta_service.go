package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"mailvault/errors"
	"mailvault/repositories"
	"mailvault/validation"
)

type IBetaService interface {
	Redeem(caller AuthenticatedUser, req validation.BetaRedeemRequest) error
	GenerateCodes(caller AuthenticatedUser, count int) ([]string, error)
	ListCodes(caller AuthenticatedUser) ([]repositories.BetaCode, error)
}

type BetaService struct {
	codes      repositories.IBetaCodeRepository
	profiles   repositories.IProfileRepository
	adminEmail string
}

func NewBetaService(
	codes repositories.IBetaCodeRepository,
	profiles repositories.IProfileRepository,
	adminEmail string,
) IBetaService {
	return &BetaService{codes: codes, profiles: profiles, adminEmail: adminEmail}
}

// Redeem burns a single-use code and flags the caller's profile with
// beta access. A code that is unknown or already used fails the whole
// operation; the profile is only touched after the code is burned.
func (s *BetaService) Redeem(caller AuthenticatedUser, req validation.BetaRedeemRequest) error {
	if violations := validation.Check(req); violations != nil {
		return violations
	}

	if err := s.codes.MarkRedeemed(req.Code, caller.Email); err != nil {
		return err
	}

	profile, err := s.profiles.GetProfileByEmail(caller.Email)
	if err != nil {
		return err
	}
	profile.BetaAccess = true
	if _, err := s.profiles.UpdateProfile(profile); err != nil {
		return err
	}
	return nil
}

// GenerateCodes mints a batch of random codes; admin only.
func (s *BetaService) GenerateCodes(caller AuthenticatedUser, count int) ([]string, error) {
	if !s.isAdmin(caller) {
		return nil, errors.ErrForbidden
	}
	if count < 1 || count > 100 {
		return nil, fmt.Errorf("code batch size must be between 1 and 100, got %d", count)
	}

	codes := make([]string, count)
	for i := range codes {
		buf := make([]byte, 6)
		if _, err := rand.Read(buf); err != nil {
			return nil, err
		}
		codes[i] = fmt.Sprintf("BETA-%s", hex.EncodeToString(buf))
	}

	if err := s.codes.CreateCodes(codes); err != nil {
		return nil, err
	}
	return codes, nil
}

func (s *BetaService) ListCodes(caller AuthenticatedUser) ([]repositories.BetaCode, error) {
	if !s.isAdmin(caller) {
		return nil, errors.ErrForbidden
	}
	return s.codes.ListCodes()
}

func (s *BetaService) isAdmin(caller AuthenticatedUser) bool {
	return s.adminEmail != "" && caller.Email == s.adminEmail
}
