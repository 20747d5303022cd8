package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ai4local/ai4local/internal/domain"
	"github.com/ai4local/ai4local/internal/model"
)

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *UserService) Login(ctx context.Context, input LoginInput) (*AuthOutput, error) {
	input.Email = NormalizeEmail(input.Email)
	if input.Email == "" || input.Password == "" {
		return nil, domain.NewValidationError("email", "email and password are required")
	}

	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	verified, err := s.passwordHasher.Verify(input.Password, user.PasswordHash)
	if err != nil || !verified {
		return nil, domain.ErrInvalidCredentials
	}

	org, err := s.orgRepo.FindByID(ctx, user.OrgID)
	if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, domain.ErrAccountDisabled
	}

	now := time.Now().UTC()
	user.LastLogin = &now
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("recording last login: %w", err)
	}

	token, err := s.tokenManager.Generate(user.ID, user.OrgID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	return &AuthOutput{
		User:  newUserView(user, org),
		Token: token,
	}, nil
}

// Me returns the user behind a validated token
func (s *UserService) Me(ctx context.Context, userID uint) (*UserView, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	org, err := s.orgRepo.FindByID(ctx, user.OrgID)
	if err != nil && !errors.Is(err, domain.ErrOrganizationNotFound) {
		return nil, err
	}

	return newUserView(user, org), nil
}

// Refresh issues a new token for a correctly signed one, expired or not
func (s *UserService) Refresh(ctx context.Context, tokenString string) (string, error) {
	claims, err := s.tokenManager.ParseIgnoringExpiry(tokenString)
	if err != nil {
		return "", err
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", err
	}

	token, err := s.tokenManager.Generate(user.ID, user.OrgID, string(user.Role))
	if err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}

	return token, nil
}

// Organization returns the organization with the given id
func (s *UserService) Organization(ctx context.Context, orgID uint) (*model.Organization, error) {
	return s.orgRepo.FindByID(ctx, orgID)
}

// Members lists the users of an organization
func (s *UserService) Members(ctx context.Context, orgID uint) ([]model.User, error) {
	return s.repo.FindByOrganization(ctx, orgID)
}

// Member returns a user of the organization, hiding users of other orgs
func (s *UserService) Member(ctx context.Context, orgID, userID uint) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.OrgID != orgID {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}
