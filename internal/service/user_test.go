package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ai4local/ai4local/internal/auth"
	"github.com/ai4local/ai4local/internal/config"
	"github.com/ai4local/ai4local/internal/domain"
	"github.com/ai4local/ai4local/internal/mocks"
	"github.com/ai4local/ai4local/internal/model"
	"github.com/ai4local/ai4local/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testSecret = "test-secret"

var fastHasher = auth.NewPasswordHasherWithConfig(auth.PasswordConfig{
	Time:    1,
	Memory:  1024,
	Threads: 1,
	KeyLen:  32,
})

type userFixture struct {
	users   *mocks.MockUserRepositoryIface
	orgs    *mocks.MockOrganizationRepositoryIface
	tx      *mocks.MockTransactor
	tokens  *auth.TokenManager
	service *service.UserService
}

func newUserFixture(t *testing.T) *userFixture {
	ctrl := gomock.NewController(t)

	f := &userFixture{
		users:  mocks.NewMockUserRepositoryIface(ctrl),
		orgs:   mocks.NewMockOrganizationRepositoryIface(ctrl),
		tx:     mocks.NewMockTransactor(ctrl),
		tokens: auth.NewTokenManager(testSecret, time.Hour),
	}
	f.tx.EXPECT().
		WithinTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		}).
		AnyTimes()

	f.service = service.NewUserService(f.users, f.orgs, f.tx, fastHasher, f.tokens, nil, &config.Config{})
	return f
}

func TestSignup(t *testing.T) {
	t.Run("creates organization and owner", func(t *testing.T) {
		f := newUserFixture(t)

		gomock.InOrder(
			f.users.EXPECT().
				FindByEmail(gomock.Any(), "jean@shop.mg").
				Return(nil, domain.ErrUserNotFound),
			f.orgs.EXPECT().
				Create(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, org *model.Organization) error {
					assert.Equal(t, "Shop", org.Name)
					assert.Equal(t, model.PlanFree, org.Plan)
					org.ID = 7
					return nil
				}),
			f.users.EXPECT().
				Create(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, user *model.User) error {
					assert.Equal(t, uint(7), user.OrgID)
					assert.Equal(t, model.RoleOwner, user.Role)
					assert.True(t, user.IsActive)
					assert.NotEqual(t, "secret1", user.PasswordHash)
					user.ID = 3
					return nil
				}),
		)

		out, err := f.service.Signup(context.Background(), service.SignupInput{
			Email:    "  Jean@Shop.MG ",
			Password: "secret1",
			Name:     "Jean",
			OrgName:  "Shop",
		})
		require.NoError(t, err)

		assert.Equal(t, uint(3), out.User.ID)
		assert.Equal(t, "jean@shop.mg", out.User.Email)
		require.NotNil(t, out.User.OrgName)
		assert.Equal(t, "Shop", *out.User.OrgName)

		claims, err := f.tokens.Validate(out.Token)
		require.NoError(t, err)
		assert.Equal(t, uint(3), claims.UserID)
		assert.Equal(t, uint(7), claims.OrgID)
		assert.Equal(t, "OWNER", claims.Role)
	})

	t.Run("rejects invalid input before touching storage", func(t *testing.T) {
		f := newUserFixture(t)

		tests := []struct {
			name  string
			input service.SignupInput
			want  error
			field string
		}{
			{"missing org name", service.SignupInput{Email: "a@b.mg", Password: "secret1", Name: "A"}, domain.ErrInvalidInput, "org_name"},
			{"missing email", service.SignupInput{Password: "secret1", Name: "A", OrgName: "O"}, domain.ErrInvalidInput, "email"},
			{"bad email", service.SignupInput{Email: "nope", Password: "secret1", Name: "A", OrgName: "O"}, domain.ErrInvalidEmail, ""},
			{"short password", service.SignupInput{Email: "a@b.mg", Password: "12345", Name: "A", OrgName: "O"}, domain.ErrPasswordTooWeak, ""},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := f.service.Signup(context.Background(), tt.input)
				assert.ErrorIs(t, err, tt.want)

				if tt.field != "" {
					var verr *domain.ValidationError
					require.True(t, errors.As(err, &verr))
					assert.Equal(t, tt.field, verr.Field)
					assert.Equal(t, tt.field+" is required", verr.Message)
				}
			})
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newUserFixture(t)
		f.users.EXPECT().
			FindByEmail(gomock.Any(), "a@b.mg").
			Return(&model.User{ID: 1, Email: "a@b.mg"}, nil)

		_, err := f.service.Signup(context.Background(), service.SignupInput{
			Email: "a@b.mg", Password: "secret1", Name: "A", OrgName: "O",
		})
		assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	})

	t.Run("email taken between check and insert", func(t *testing.T) {
		f := newUserFixture(t)
		f.users.EXPECT().
			FindByEmail(gomock.Any(), "a@b.mg").
			Return(nil, domain.ErrUserNotFound)
		f.orgs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		f.users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(domain.ErrEmailAlreadyExists)

		_, err := f.service.Signup(context.Background(), service.SignupInput{
			Email: "a@b.mg", Password: "secret1", Name: "A", OrgName: "O",
		})
		assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	})
}

func TestLogin(t *testing.T) {
	hash, err := fastHasher.Hash("correct_password")
	require.NoError(t, err)

	active := func() *model.User {
		return &model.User{
			ID:           5,
			Email:        "test@example.com",
			Name:         "Test",
			PasswordHash: hash,
			Role:         model.RoleOwner,
			OrgID:        2,
			IsActive:     true,
		}
	}

	t.Run("successful login records last login", func(t *testing.T) {
		f := newUserFixture(t)

		gomock.InOrder(
			f.users.EXPECT().FindByEmail(gomock.Any(), "test@example.com").Return(active(), nil),
			f.orgs.EXPECT().FindByID(gomock.Any(), uint(2)).Return(&model.Organization{ID: 2, Name: "Org"}, nil),
			f.users.EXPECT().
				Update(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, u *model.User) error {
					assert.NotNil(t, u.LastLogin)
					return nil
				}),
		)

		out, err := f.service.Login(context.Background(), service.LoginInput{
			Email:    "TEST@example.com",
			Password: "correct_password",
		})
		require.NoError(t, err)
		assert.Equal(t, uint(5), out.User.ID)
		assert.NotEmpty(t, out.Token)
	})

	t.Run("missing fields", func(t *testing.T) {
		f := newUserFixture(t)
		_, err := f.service.Login(context.Background(), service.LoginInput{Email: "test@example.com"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unknown email", func(t *testing.T) {
		f := newUserFixture(t)
		f.users.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(nil, domain.ErrUserNotFound)

		_, err := f.service.Login(context.Background(), service.LoginInput{Email: "x@example.com", Password: "p"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newUserFixture(t)
		f.users.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(active(), nil)

		_, err := f.service.Login(context.Background(), service.LoginInput{Email: "test@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("missing organization", func(t *testing.T) {
		f := newUserFixture(t)
		f.users.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(active(), nil)
		f.orgs.EXPECT().FindByID(gomock.Any(), uint(2)).Return(nil, domain.ErrOrganizationNotFound)

		_, err := f.service.Login(context.Background(), service.LoginInput{Email: "test@example.com", Password: "correct_password"})
		assert.ErrorIs(t, err, domain.ErrOrganizationNotFound)
	})

	t.Run("disabled account", func(t *testing.T) {
		f := newUserFixture(t)
		user := active()
		user.IsActive = false
		f.users.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(user, nil)
		f.orgs.EXPECT().FindByID(gomock.Any(), uint(2)).Return(&model.Organization{ID: 2}, nil)

		_, err := f.service.Login(context.Background(), service.LoginInput{Email: "test@example.com", Password: "correct_password"})
		assert.ErrorIs(t, err, domain.ErrAccountDisabled)
	})
}

func TestMe(t *testing.T) {
	t.Run("organization name is null when the organization is gone", func(t *testing.T) {
		f := newUserFixture(t)
		f.users.EXPECT().FindByID(gomock.Any(), uint(5)).Return(&model.User{ID: 5, OrgID: 9}, nil)
		f.orgs.EXPECT().FindByID(gomock.Any(), uint(9)).Return(nil, domain.ErrOrganizationNotFound)

		view, err := f.service.Me(context.Background(), 5)
		require.NoError(t, err)
		assert.Nil(t, view.OrgName)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newUserFixture(t)
		f.users.EXPECT().FindByID(gomock.Any(), uint(5)).Return(nil, domain.ErrUserNotFound)

		_, err := f.service.Me(context.Background(), 5)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestRefresh(t *testing.T) {
	expired, err := auth.NewTokenManager(testSecret, -time.Hour).Generate(5, 2, "OWNER")
	require.NoError(t, err)

	t.Run("accepts an expired token", func(t *testing.T) {
		f := newUserFixture(t)
		f.users.EXPECT().FindByID(gomock.Any(), uint(5)).Return(&model.User{ID: 5, OrgID: 2, Role: model.RoleOwner}, nil)

		token, err := f.service.Refresh(context.Background(), expired)
		require.NoError(t, err)

		claims, err := f.tokens.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, uint(5), claims.UserID)
	})

	t.Run("rejects a foreign signature", func(t *testing.T) {
		f := newUserFixture(t)
		foreign, err := auth.NewTokenManager("other", time.Hour).Generate(5, 2, "OWNER")
		require.NoError(t, err)

		_, err = f.service.Refresh(context.Background(), foreign)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("user deleted since", func(t *testing.T) {
		f := newUserFixture(t)
		f.users.EXPECT().FindByID(gomock.Any(), uint(5)).Return(nil, domain.ErrUserNotFound)

		_, err := f.service.Refresh(context.Background(), expired)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestMember(t *testing.T) {
	f := newUserFixture(t)
	f.users.EXPECT().FindByID(gomock.Any(), uint(8)).Return(&model.User{ID: 8, OrgID: 3}, nil)

	_, err := f.service.Member(context.Background(), 2, 8)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
