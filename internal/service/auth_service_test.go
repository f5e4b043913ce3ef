package service

import (
	"context"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn    func(context.Context, uint) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
	createFn     func(context.Context, *models.User) error
	countFn      func(context.Context) (int64, error)
	listFn       func(context.Context) ([]models.User, error)
	setAdminFn   func(context.Context, uint, bool) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}
func (s *userRepoStub) List(ctx context.Context) ([]models.User, error) {
	return s.listFn(ctx)
}
func (s *userRepoStub) SetAdmin(ctx context.Context, id uint, admin bool) error {
	return s.setAdminFn(ctx, id, admin)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:    func(_ context.Context, _ uint) (*models.User, error) { return &models.User{}, nil },
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:     func(_ context.Context, _ *models.User) error { return nil },
		countFn:      func(_ context.Context) (int64, error) { return 1, nil },
		listFn:       func(_ context.Context) ([]models.User, error) { return nil, nil },
		setAdminFn:   func(_ context.Context, _ uint, _ bool) error { return nil },
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	t.Parallel()

	svc := NewAuthService(noopUserRepo())
	ctx := context.Background()

	t.Run("missing fields", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "password123"})
		assertValidationError(t, err)
	})

	t.Run("bad email", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "not-an-email", Password: "password123"})
		assertValidationError(t, err)
	})

	t.Run("short password", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@b.com", Password: "short"})
		assertValidationError(t, err)
	})
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	repo.getByEmailFn = func(_ context.Context, email string) (*models.User, error) {
		return &models.User{ID: 1, Email: email}, nil
	}

	svc := NewAuthService(repo)
	_, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@b.com", Password: "password123"})
	assert.ErrorIs(t, err, models.ErrDuplicateEmail)
}

func TestAuthService_Register_Success(t *testing.T) {
	t.Parallel()

	var created *models.User
	repo := noopUserRepo()
	repo.createFn = func(_ context.Context, u *models.User) error {
		u.ID = 5
		created = u
		return nil
	}

	svc := NewAuthService(repo)
	user, err := svc.Register(context.Background(), RegisterInput{
		Name:     "  Alice  ",
		Email:    "Alice@Example.COM",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(5), user.ID)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.False(t, user.IsAdmin)

	// Plaintext never reaches the repository.
	assert.NotEqual(t, "password123", created.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("password123")))
}

func TestAuthService_Register_FirstUserIsAdmin(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	repo.countFn = func(_ context.Context) (int64, error) { return 0, nil }

	svc := NewAuthService(repo)
	user, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@b.com", Password: "password123"})
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	withAccount := func() *userRepoStub {
		repo := noopUserRepo()
		repo.getByEmailFn = func(_ context.Context, email string) (*models.User, error) {
			if email == "alice@example.com" {
				return &models.User{ID: 1, Email: email, Password: string(hashed)}, nil
			}
			return nil, nil
		}
		return repo
	}

	t.Run("unknown email", func(t *testing.T) {
		t.Parallel()
		svc := NewAuthService(withAccount())
		_, err := svc.Login(context.Background(), "nobody@example.com", "password123")
		assert.ErrorIs(t, err, models.ErrUnknownEmail)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		svc := NewAuthService(withAccount())
		_, err := svc.Login(context.Background(), "alice@example.com", "wrong")
		assert.ErrorIs(t, err, models.ErrWrongPassword)
	})

	t.Run("success is case-insensitive on email", func(t *testing.T) {
		t.Parallel()
		svc := NewAuthService(withAccount())
		user, err := svc.Login(context.Background(), " ALICE@example.com ", "password123")
		require.NoError(t, err)
		assert.Equal(t, uint(1), user.ID)
	})
}
