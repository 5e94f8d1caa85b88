package services

import (
	"fmt"
	"strings"

	"mailvault/auth"
	"mailvault/errors"
	"mailvault/repositories"
	"mailvault/validation"
)

type IAuthService interface {
	Register(req validation.SignupRequest) (Token, error)
	Login(req validation.LoginRequest) (Token, error)
	UserFromToken(bearer string) (AuthenticatedUser, error)
}

type Token string

// AuthenticatedUser is the identity middleware injects downstream.
type AuthenticatedUser struct {
	ID    string
	Email string
	Roles []string
}

func (u AuthenticatedUser) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type AuthService struct {
	profiles repositories.IProfileRepository
	issuer   auth.TokenIssuer
}

func NewAuthService(profiles repositories.IProfileRepository, issuer auth.TokenIssuer) IAuthService {
	return &AuthService{profiles: profiles, issuer: issuer}
}

// Register validates the signup payload, hashes the password and
// persists the profile before issuing the first session token.
func (s *AuthService) Register(req validation.SignupRequest) (Token, error) {
	// Structural validation runs before any expensive cryptographic
	// operation.
	if violations := validation.Check(req); violations != nil {
		return "", violations
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return "", fmt.Errorf("hashing failed: %w", err)
	}

	profile, err := s.profiles.CreateProfile(req.Email, req.Username, hashedPassword)
	if err != nil {
		return "", err // Propagates ErrUserAlreadyExists when the address is taken
	}

	token, err := s.issuer.Generate(profile.ID.String(), profile.Email, []string{"user"})
	if err != nil {
		return "", errors.ErrTokenGeneration
	}
	return Token(token), nil
}

// Login checks credentials and issues a session token. Failures are
// collapsed into one generic error to prevent user enumeration.
func (s *AuthService) Login(req validation.LoginRequest) (Token, error) {
	if violations := validation.Check(req); violations != nil {
		return "", violations
	}

	profile, err := s.profiles.GetProfileByEmail(req.Email)
	if err != nil {
		return "", errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(req.Password, profile.PasswordHash)
	if err != nil || !match {
		return "", errors.ErrInvalidCredentials
	}

	roles := []string{"user"}
	token, err := s.issuer.Generate(profile.ID.String(), profile.Email, roles)
	if err != nil {
		return "", errors.ErrTokenGeneration
	}
	return Token(token), nil
}

// UserFromToken resolves a bearer token to an identity. Any parse or
// signature failure fails closed as ErrUnauthenticated.
func (s *AuthService) UserFromToken(bearer string) (AuthenticatedUser, error) {
	tokenStr := strings.TrimSpace(strings.TrimPrefix(bearer, "Bearer "))
	if tokenStr == "" {
		return AuthenticatedUser{}, errors.ErrUnauthenticated
	}

	claims, err := s.issuer.Validate(tokenStr)
	if err != nil {
		return AuthenticatedUser{}, errors.ErrUnauthenticated
	}

	return AuthenticatedUser{ID: claims.UserID, Email: claims.Email, Roles: claims.Roles}, nil
}
