// internal/service/user.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/ai4local/ai4local/internal/auth"
	"github.com/ai4local/ai4local/internal/config"
	"github.com/ai4local/ai4local/internal/domain"
	"github.com/ai4local/ai4local/internal/email"
	"github.com/ai4local/ai4local/internal/email/mailer"
	"github.com/ai4local/ai4local/internal/model"
	"github.com/ai4local/ai4local/internal/repository"
)

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type UserService struct {
	repo           repository.UserRepositoryIface
	orgRepo        repository.OrganizationRepositoryIface
	tx             repository.Transactor
	passwordHasher *auth.PasswordHasher
	tokenManager   *auth.TokenManager
	emailService   *email.Service
	config         *config.Config
}

func NewUserService(
	repo repository.UserRepositoryIface,
	orgRepo repository.OrganizationRepositoryIface,
	tx repository.Transactor,
	passwordHasher *auth.PasswordHasher,
	tokenManager *auth.TokenManager,
	emailService *email.Service,
	config *config.Config,
) *UserService {
	return &UserService{
		repo:           repo,
		orgRepo:        orgRepo,
		tx:             tx,
		passwordHasher: passwordHasher,
		tokenManager:   tokenManager,
		emailService:   emailService,
		config:         config,
	}
}

type SignupInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required"`
	OrgName  string `json:"org_name" validate:"required"`
}

// UserView is the user representation returned by the auth routes.
type UserView struct {
	ID      uint       `json:"id"`
	Email   string     `json:"email"`
	Name    string     `json:"name"`
	Role    model.Role `json:"role"`
	OrgID   uint       `json:"org_id"`
	OrgName *string    `json:"org_name"`
}

func newUserView(user *model.User, org *model.Organization) *UserView {
	v := &UserView{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
		OrgID: user.OrgID,
	}
	if org != nil {
		name := org.Name
		v.OrgName = &name
	}
	return v
}

type AuthOutput struct {
	User  *UserView `json:"user"`
	Token string    `json:"token"`
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// ValidEmail reports whether address looks like an email address.
func ValidEmail(address string) bool {
	return emailPattern.MatchString(address)
}

// Signup creates an organization and its owner in one transaction
func (s *UserService) Signup(ctx context.Context, input SignupInput) (*AuthOutput, error) {
	input.Email = NormalizeEmail(input.Email)
	input.Name = strings.TrimSpace(input.Name)
	input.OrgName = strings.TrimSpace(input.OrgName)

	if err := validateInput(input); err != nil {
		return nil, err
	}

	if !ValidEmail(input.Email) {
		return nil, domain.ErrInvalidEmail
	}

	if len(input.Password) < minPasswordLength {
		return nil, domain.ErrPasswordTooWeak
	}

	existingUser, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	if existingUser != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hashedPassword, err := s.passwordHasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	org := &model.Organization{
		Name: input.OrgName,
		Plan: model.PlanFree,
	}
	user := &model.User{
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: hashedPassword,
		Role:         model.RoleOwner,
		IsActive:     true,
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.orgRepo.Create(ctx, org); err != nil {
			return fmt.Errorf("creating organization: %w", err)
		}

		user.OrgID = org.ID
		if err := s.repo.Create(ctx, user); err != nil {
			return fmt.Errorf("creating user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokenManager.Generate(user.ID, org.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	if s.emailService.Enabled() {
		if err := mailer.SendWelcomeEmail(ctx, s.emailService, user.Email, user.Name, org.Name, s.config.BaseURL); err != nil {
			slog.WarnContext(ctx, "Failed to send welcome email", "user_id", user.ID, "error", err)
		}
	}

	return &AuthOutput{
		User:  newUserView(user, org),
		Token: token,
	}, nil
}
