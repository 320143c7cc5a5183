package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashback-api/cashback-system/internal/core/domain"
	"github.com/cashback-api/cashback-system/internal/core/ports"
)

type stubUserRepo struct {
	users   map[string]domain.UserInDB
	findErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]domain.UserInDB)}
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (domain.UserInDB, error) {
	if r.findErr != nil {
		return domain.UserInDB{}, r.findErr
	}
	u, ok := r.users[username]
	if !ok {
		return domain.UserInDB{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *stubUserRepo) Create(_ context.Context, user domain.UserInDB) error {
	if _, exists := r.users[user.Username]; exists {
		return domain.ErrUserExists
	}
	r.users[user.Username] = user
	return nil
}

// stubHasher treats "hashed:<password>" as the hash of <password>.
type stubHasher struct {
	hashErr error
}

func (h stubHasher) Hash(password string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + password, nil
}

func (stubHasher) Verify(hashedPassword, password string) bool {
	return hashedPassword == "hashed:"+password
}

// stubSigner encodes the subject in the token so Owner can read it back.
type stubSigner struct {
	signed  []*domain.JWTPayload
	signErr error
}

func (s *stubSigner) Sign(p *domain.JWTPayload) (string, error) {
	if s.signErr != nil {
		return "", s.signErr
	}
	s.signed = append(s.signed, p)
	return "token-for:" + p.Sub, nil
}

func (s *stubSigner) Owner(accessToken string) (domain.TokenOwner, error) {
	sub, ok := strings.CutPrefix(accessToken, "token-for:")
	if !ok {
		return domain.TokenOwner{}, errors.New("malformed token")
	}
	if sub == "" {
		return domain.NewTokenOwner(domain.None[string]()), nil
	}
	return domain.NewTokenOwner(domain.Some(sub)), nil
}

func seedUser(t *testing.T, repo *stubUserRepo, username, password string, disabled domain.Optional[bool]) {
	t.Helper()
	u, err := domain.NewUser(username, domain.None[string](), domain.None[string](), disabled)
	require.NoError(t, err)
	stored, err := domain.NewUserInDB(u, "hashed:"+password)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), stored))
}

func newAuthSvc(repo *stubUserRepo, signer *stubSigner, ttl time.Duration) *AuthService {
	return NewAuthService(repo, stubHasher{}, signer, ttl, zerolog.Nop())
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "alice", "s3cret", domain.None[bool]())
	signer := &stubSigner{}
	svc := newAuthSvc(repo, signer, time.Hour)

	before := time.Now().UTC()
	token, err := svc.Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "token-for:alice", token.AccessToken())
	assert.Equal(t, domain.TokenTypeBearer, token.TokenType())

	require.Len(t, signer.signed, 1)
	exp, ok := signer.signed[0].Exp.Get()
	require.True(t, ok, "expiration must be set before signing")
	assert.WithinDuration(t, before.Add(time.Hour), exp, 2*time.Second)
}

func TestAuthService_Login_DefaultLifetime(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "alice", "s3cret", domain.None[bool]())
	signer := &stubSigner{}
	svc := newAuthSvc(repo, signer, 0)

	_, err := svc.Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)

	exp := signer.signed[0].Exp.OrElse(time.Time{})
	assert.WithinDuration(t, time.Now().Add(domain.DefaultTokenLifetime), exp, 2*time.Second)
}

func TestAuthService_Login_Rejections(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "dave", "goodpass", domain.None[bool]())
	seedUser(t, repo, "erin", "pass", domain.Some(true))

	tests := []struct {
		name     string
		username string
		password string
		want     error
	}{
		{"wrong_password", "dave", "badpass", domain.ErrInvalidCredentials},
		{"unknown_user", "ghost", "pass", domain.ErrInvalidCredentials},
		{"empty_username", "", "pass", domain.ErrInvalidCredentials},
		{"empty_password", "dave", "", domain.ErrInvalidCredentials},
		{"disabled_user", "erin", "pass", domain.ErrUserDisabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signer := &stubSigner{}
			svc := newAuthSvc(repo, signer, time.Hour)

			_, err := svc.Login(context.Background(), tt.username, tt.password)
			assert.Equal(t, tt.want, err)
			assert.Empty(t, signer.signed, "no token may be signed")
		})
	}
}

func TestAuthService_Login_RepoAndSignerErrorsAreWrapped(t *testing.T) {
	repo := newStubUserRepo()
	repo.findErr = errors.New("mongo unavailable")
	svc := newAuthSvc(repo, &stubSigner{}, time.Hour)

	_, err := svc.Login(context.Background(), "alice", "pass")
	assert.ErrorIs(t, err, repo.findErr)

	repo = newStubUserRepo()
	seedUser(t, repo, "alice", "pass", domain.None[bool]())
	signer := &stubSigner{signErr: errors.New("no key")}
	svc = newAuthSvc(repo, signer, time.Hour)

	_, err = svc.Login(context.Background(), "alice", "pass")
	assert.ErrorIs(t, err, signer.signErr)
}

func TestAuthService_CurrentUser(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "alice", "pass", domain.Some(false))
	seedUser(t, repo, "erin", "pass", domain.Some(true))
	svc := newAuthSvc(repo, &stubSigner{}, time.Hour)
	ctx := context.Background()

	user, err := svc.CurrentUser(ctx, "token-for:alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"disabled_owner", "token-for:erin", domain.ErrUserDisabled},
		{"missing_owner", "token-for:", domain.ErrInvalidCredentials},
		{"unknown_owner", "token-for:ghost", domain.ErrInvalidCredentials},
		{"bad_token", "garbage", domain.ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CurrentUser(ctx, tt.token)
			assert.Equal(t, tt.want, err)
		})
	}
}

func TestAuthService_Register_ThenLogin(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo, &stubSigner{}, time.Hour)

	user, err := svc.Register(context.Background(), ports.NewUserInput{
		Username: "frank",
		Password: "pass123",
		Email:    domain.Some("frank@example.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, "frank", user.Username)
	assert.True(t, user.Active())
	assert.Equal(t, "hashed:pass123", repo.users["frank"].HashedPassword, "password must be hashed before storing")

	_, err = svc.Login(context.Background(), "frank", "pass123")
	require.NoError(t, err)
}

func TestAuthService_Register_Errors(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "taken", "pass", domain.None[bool]())
	svc := newAuthSvc(repo, &stubSigner{}, time.Hour)
	ctx := context.Background()

	_, err := svc.Register(ctx, ports.NewUserInput{Username: "taken", Password: "x"})
	assert.Equal(t, domain.ErrUserExists, err)

	_, err = svc.Register(ctx, ports.NewUserInput{Username: "", Password: "x"})
	assert.Equal(t, domain.ErrInvalidCredentials, err)

	hashErr := errors.New("cost too high")
	svc = NewAuthService(repo, stubHasher{hashErr: hashErr}, &stubSigner{}, time.Hour, zerolog.Nop())
	_, err = svc.Register(ctx, ports.NewUserInput{Username: "new", Password: "x"})
	assert.ErrorIs(t, err, hashErr)
}
