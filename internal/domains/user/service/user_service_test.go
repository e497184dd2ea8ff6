package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"greencart-backend/internal/domains/user/model"
	"greencart-backend/internal/shared"
	"greencart-backend/pkg/database"
	"greencart-backend/pkg/jwt"
)

// ========================================
// MOCKS
// ========================================

type mockUserRepo struct {
	usersByID    map[uuid.UUID]*model.User
	usersByEmail map[string]*model.User
	usersByToken map[string]*model.User
	addresses    map[uuid.UUID]*model.ShippingAddress

	created  []*model.User
	verified []uuid.UUID

	createErr error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:    map[uuid.UUID]*model.User{},
		usersByEmail: map[string]*model.User{},
		usersByToken: map[string]*model.User{},
		addresses:    map[uuid.UUID]*model.ShippingAddress{},
	}
}

func (m *mockUserRepo) addUser(u *model.User) {
	m.usersByID[u.ID] = u
	m.usersByEmail[u.Email] = u
	if u.VerifyToken != nil {
		m.usersByToken[*u.VerifyToken] = u
	}
}

func (m *mockUserRepo) Create(_ context.Context, u *model.User) (uuid.UUID, error) {
	if m.createErr != nil {
		return uuid.Nil, m.createErr
	}
	u.ID = uuid.New()
	m.created = append(m.created, u)
	m.addUser(u)
	return u.ID, nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	if u, ok := m.usersByID[id]; ok {
		return u, nil
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	if u, ok := m.usersByEmail[email]; ok {
		return u, nil
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepo) FindByVerifyToken(_ context.Context, token string) (*model.User, error) {
	if u, ok := m.usersByToken[token]; ok {
		return u, nil
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepo) MarkEmailVerified(_ context.Context, id uuid.UUID) error {
	u, ok := m.usersByID[id]
	if !ok {
		return model.ErrUserNotFound
	}
	u.EmailVerified = true
	m.verified = append(m.verified, id)
	return nil
}

func (m *mockUserRepo) GetProfile(_ context.Context, userID uuid.UUID) (*model.Profile, error) {
	return &model.Profile{UserID: userID}, nil
}

func (m *mockUserRepo) UpsertProfile(_ context.Context, _ *model.Profile) error { return nil }

func (m *mockUserRepo) UpdateName(_ context.Context, userID uuid.UUID, firstName, lastName *string) error {
	u, ok := m.usersByID[userID]
	if !ok {
		return model.ErrUserNotFound
	}
	if firstName != nil {
		u.FirstName = *firstName
	}
	if lastName != nil {
		u.LastName = *lastName
	}
	return nil
}

func (m *mockUserRepo) CreateAddress(_ context.Context, a *model.ShippingAddress) (uuid.UUID, error) {
	a.ID = uuid.New()
	m.addresses[a.ID] = a
	return a.ID, nil
}

func (m *mockUserRepo) ListAddresses(_ context.Context, userID uuid.UUID) ([]*model.ShippingAddress, error) {
	var out []*model.ShippingAddress
	for _, a := range m.addresses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockUserRepo) FindAddressByID(_ context.Context, id uuid.UUID) (*model.ShippingAddress, error) {
	if a, ok := m.addresses[id]; ok {
		return a, nil
	}
	return nil, model.ErrAddressNotFound
}

func (m *mockUserRepo) UpdateAddress(_ context.Context, a *model.ShippingAddress) error {
	if _, ok := m.addresses[a.ID]; !ok {
		return model.ErrAddressNotFound
	}
	m.addresses[a.ID] = a
	return nil
}

func (m *mockUserRepo) DeleteAddress(_ context.Context, id uuid.UUID) error {
	if _, ok := m.addresses[id]; !ok {
		return model.ErrAddressNotFound
	}
	delete(m.addresses, id)
	return nil
}

func (m *mockUserRepo) ClearDefaultAddresses(_ context.Context, _ pgx.Tx, userID uuid.UUID) error {
	for _, a := range m.addresses {
		if a.UserID == userID {
			a.IsDefault = false
		}
	}
	return nil
}

func (m *mockUserRepo) SetDefaultAddress(_ context.Context, _ pgx.Tx, userID, addressID uuid.UUID) error {
	a, ok := m.addresses[addressID]
	if !ok || a.UserID != userID {
		return model.ErrAddressNotFound
	}
	a.IsDefault = true
	return nil
}

// fakeTxRunner runs the callback with a nil transaction, good enough for
// mocks that ignore the tx argument.
type fakeTxRunner struct{}

func (fakeTxRunner) WithinTx(_ context.Context, fn database.TxFunc) error { return fn(nil) }

type capturingEnqueuer struct {
	tasks []*asynq.Task
}

func (e *capturingEnqueuer) Enqueue(task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	e.tasks = append(e.tasks, task)
	return &asynq.TaskInfo{}, nil
}

func newTestService(repo *mockUserRepo) (Service, *capturingEnqueuer) {
	enq := &capturingEnqueuer{}
	mgr := jwt.NewManager("test-secret", 15*time.Minute, 7*24*time.Hour)
	return NewUserService(repo, mgr, enq, fakeTxRunner{}), enq
}

// ========================================
// TESTS
// ========================================

func TestRegister(t *testing.T) {
	t.Run("creates account and enqueues both emails", func(t *testing.T) {
		repo := newMockUserRepo()
		svc, enq := newTestService(repo)

		auth, err := svc.Register(context.Background(), model.RegisterRequest{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
			Password:  "s3cret-password",
		})
		require.NoError(t, err)
		require.NotNil(t, auth)

		assert.NotEmpty(t, auth.AccessToken)
		assert.NotEmpty(t, auth.RefreshToken)
		assert.Equal(t, "ada@example.com", auth.User.Email)
		assert.False(t, auth.User.EmailVerified)

		require.Len(t, repo.created, 1)
		created := repo.created[0]
		assert.NotEqual(t, "s3cret-password", created.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("s3cret-password")))
		require.NotNil(t, created.VerifyToken)

		require.Len(t, enq.tasks, 2)
		assert.Equal(t, shared.TypeSendWelcomeEmail, enq.tasks[0].Type())
		assert.Equal(t, shared.TypeSendVerificationEmail, enq.tasks[1].Type())
	})

	t.Run("rejects short password", func(t *testing.T) {
		repo := newMockUserRepo()
		svc, _ := newTestService(repo)

		_, err := svc.Register(context.Background(), model.RegisterRequest{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
			Password:  "short",
		})
		require.Error(t, err)
		assert.Empty(t, repo.created)
	})

	t.Run("propagates duplicate email", func(t *testing.T) {
		repo := newMockUserRepo()
		repo.createErr = model.ErrEmailTaken
		svc, enq := newTestService(repo)

		_, err := svc.Register(context.Background(), model.RegisterRequest{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
			Password:  "s3cret-password",
		})
		require.ErrorIs(t, err, model.ErrEmailTaken)
		assert.Empty(t, enq.tasks)
	})
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	require.NoError(t, err)

	makeUser := func(active bool) *model.User {
		return &model.User{
			ID:           uuid.New(),
			FirstName:    "Ada",
			LastName:     "Lovelace",
			Email:        "ada@example.com",
			PasswordHash: string(hash),
			IsActive:     active,
		}
	}

	tests := []struct {
		name     string
		seed     *model.User
		email    string
		password string
		wantErr  error
	}{
		{
			name:     "success",
			seed:     makeUser(true),
			email:    "ada@example.com",
			password: "correct-password",
		},
		{
			name:     "wrong password",
			seed:     makeUser(true),
			email:    "ada@example.com",
			password: "wrong-password",
			wantErr:  model.ErrInvalidCredentials,
		},
		{
			name:     "unknown email maps to invalid credentials",
			seed:     makeUser(true),
			email:    "nobody@example.com",
			password: "correct-password",
			wantErr:  model.ErrInvalidCredentials,
		},
		{
			name:     "disabled account",
			seed:     makeUser(false),
			email:    "ada@example.com",
			password: "correct-password",
			wantErr:  model.ErrAccountDisabled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockUserRepo()
			repo.addUser(tt.seed)
			svc, _ := newTestService(repo)

			auth, err := svc.Login(context.Background(), model.LoginRequest{
				Email:    tt.email,
				Password: tt.password,
			})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, auth.AccessToken)
			assert.Equal(t, tt.seed.ID, auth.User.ID)
		})
	}
}

func TestRefreshToken(t *testing.T) {
	repo := newMockUserRepo()
	u := &model.User{ID: uuid.New(), Email: "ada@example.com", IsActive: true}
	repo.addUser(u)
	svc, _ := newTestService(repo)

	mgr := jwt.NewManager("test-secret", 15*time.Minute, 7*24*time.Hour)
	refresh, err := mgr.GenerateRefreshToken(u.ID.String())
	require.NoError(t, err)

	t.Run("issues fresh pair", func(t *testing.T) {
		auth, err := svc.RefreshToken(context.Background(), refresh)
		require.NoError(t, err)
		assert.NotEmpty(t, auth.AccessToken)
		assert.Equal(t, u.ID, auth.User.ID)
	})

	t.Run("rejects garbage token", func(t *testing.T) {
		_, err := svc.RefreshToken(context.Background(), "not-a-jwt")
		require.ErrorIs(t, err, model.ErrUnauthorized)
	})

	t.Run("rejects access token used as refresh", func(t *testing.T) {
		access, err := mgr.GenerateAccessToken(u.ID.String(), u.Email, false)
		require.NoError(t, err)
		_, err = svc.RefreshToken(context.Background(), access)
		require.ErrorIs(t, err, model.ErrUnauthorized)
	})

	t.Run("rejects disabled account", func(t *testing.T) {
		u.IsActive = false
		defer func() { u.IsActive = true }()
		_, err := svc.RefreshToken(context.Background(), refresh)
		require.ErrorIs(t, err, model.ErrAccountDisabled)
	})
}

func TestVerifyEmail(t *testing.T) {
	token := "abc123"
	future := time.Now().UTC().Add(time.Hour)
	past := time.Now().UTC().Add(-time.Hour)

	tests := []struct {
		name    string
		user    *model.User
		token   string
		wantErr error
	}{
		{
			name:  "success",
			user:  &model.User{ID: uuid.New(), Email: "a@b.c", VerifyToken: &token, VerifyExpires: &future},
			token: token,
		},
		{
			name:    "unknown token",
			user:    &model.User{ID: uuid.New(), Email: "a@b.c", VerifyToken: &token, VerifyExpires: &future},
			token:   "nope",
			wantErr: model.ErrInvalidVerifyToken,
		},
		{
			name:    "expired token",
			user:    &model.User{ID: uuid.New(), Email: "a@b.c", VerifyToken: &token, VerifyExpires: &past},
			token:   token,
			wantErr: model.ErrInvalidVerifyToken,
		},
		{
			name:    "already verified",
			user:    &model.User{ID: uuid.New(), Email: "a@b.c", EmailVerified: true, VerifyToken: &token, VerifyExpires: &future},
			token:   token,
			wantErr: model.ErrAlreadyVerified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockUserRepo()
			repo.addUser(tt.user)
			svc, _ := newTestService(repo)

			err := svc.VerifyEmail(context.Background(), tt.token)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, repo.verified)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []uuid.UUID{tt.user.ID}, repo.verified)
		})
	}
}

func TestAddresses(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()

	validReq := model.AddressRequest{
		AddressType: model.AddressTypeHome,
		FullName:    "Ada Lovelace",
		PhoneNumber: "+1 555 0100",
		StreetLine1: "1 Analytical Way",
		City:        "London",
		State:       "LDN",
		PostalCode:  "E1 6AN",
		Country:     "UK",
	}

	t.Run("create then list", func(t *testing.T) {
		repo := newMockUserRepo()
		svc, _ := newTestService(repo)

		created, err := svc.CreateAddress(context.Background(), owner, validReq)
		require.NoError(t, err)
		assert.Equal(t, owner, created.UserID)

		list, err := svc.ListAddresses(context.Background(), owner)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("new default demotes the previous one", func(t *testing.T) {
		repo := newMockUserRepo()
		svc, _ := newTestService(repo)

		first := validReq
		first.IsDefault = true
		a1, err := svc.CreateAddress(context.Background(), owner, first)
		require.NoError(t, err)
		require.True(t, a1.IsDefault)

		second := validReq
		second.IsDefault = true
		a2, err := svc.CreateAddress(context.Background(), owner, second)
		require.NoError(t, err)

		assert.True(t, repo.addresses[a2.ID].IsDefault)
		assert.False(t, repo.addresses[a1.ID].IsDefault)
	})

	t.Run("cannot touch another user's address", func(t *testing.T) {
		repo := newMockUserRepo()
		svc, _ := newTestService(repo)

		a, err := svc.CreateAddress(context.Background(), owner, validReq)
		require.NoError(t, err)

		_, err = svc.UpdateAddress(context.Background(), stranger, a.ID, validReq)
		require.ErrorIs(t, err, model.ErrAddressNotOwned)

		err = svc.DeleteAddress(context.Background(), stranger, a.ID)
		require.ErrorIs(t, err, model.ErrAddressNotOwned)

		err = svc.SetDefaultAddress(context.Background(), stranger, a.ID)
		require.ErrorIs(t, err, model.ErrAddressNotOwned)
	})

	t.Run("set default flips flags atomically", func(t *testing.T) {
		repo := newMockUserRepo()
		svc, _ := newTestService(repo)

		first := validReq
		first.IsDefault = true
		a1, err := svc.CreateAddress(context.Background(), owner, first)
		require.NoError(t, err)

		a2, err := svc.CreateAddress(context.Background(), owner, validReq)
		require.NoError(t, err)

		require.NoError(t, svc.SetDefaultAddress(context.Background(), owner, a2.ID))
		assert.False(t, repo.addresses[a1.ID].IsDefault)
		assert.True(t, repo.addresses[a2.ID].IsDefault)
	})
}
