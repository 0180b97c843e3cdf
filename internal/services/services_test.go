package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"candle-backend/internal/media"
	"candle-backend/internal/models"
	"candle-backend/internal/notify"
	"candle-backend/internal/repository"
	"candle-backend/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeGenerator struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (g *fakeGenerator) Generate(_ context.Context, _, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	return g.reply, g.err
}

func (g *fakeGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

type fakeMedia struct {
	mu         sync.Mutex
	uploads    map[string]string
	presignErr error
}

func (m *fakeMedia) Upload(_ context.Context, key, contentType string, _ []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.uploads == nil {
		m.uploads = map[string]string{}
	}
	m.uploads[key] = contentType
	return "https://cdn.test/" + key, nil
}

func (m *fakeMedia) PresignUpload(_ context.Context, key, _ string) (*media.PresignedUpload, error) {
	if m.presignErr != nil {
		return nil, m.presignErr
	}
	return &media.PresignedUpload{UploadURL: "https://upload.test/" + key, URL: "https://cdn.test/" + key, ExpiresIn: 300}, nil
}

type sentPush struct {
	userID string
	msg    notify.Message
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentPush
}

func (n *recordingNotifier) Notify(_ context.Context, user *models.User, msg notify.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentPush{userID: user.ID, msg: msg})
}

type testEnv struct {
	svc      *Services
	repos    *repository.Repositories
	gen      *fakeGenerator
	media    *fakeMedia
	notifier *recordingNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		repos:    memory.New(),
		gen:      &fakeGenerator{err: errors.New("offline")},
		media:    &fakeMedia{},
		notifier: &recordingNotifier{},
	}
	env.svc = New(Deps{
		Repos:     env.repos,
		Generator: env.gen,
		Media:     env.media,
		Notifier:  env.notifier,
		JWTSecret: "test-secret",
		JWTExpiry: time.Hour,
	})
	env.svc.Users.bcryptCost = bcrypt.MinCost
	return env
}

func (e *testEnv) register(t *testing.T, email, name string) *models.User {
	t.Helper()
	resp, err := e.svc.Users.Register(context.Background(), RegisterRequest{Email: email, Password: "secret123", Name: name})
	require.NoError(t, err)
	return resp.User
}

func (e *testEnv) reload(t *testing.T, u *models.User) *models.User {
	t.Helper()
	fresh, err := e.repos.Users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	return fresh
}

// couple registers two users and pairs them
func (e *testEnv) couple(t *testing.T) (*models.User, *models.User) {
	t.Helper()
	ctx := context.Background()
	alex := e.register(t, "alex@example.com", "Alex")
	sam := e.register(t, "sam@example.com", "Sam")

	code, err := e.svc.Pairs.GenerateCode(ctx, alex)
	require.NoError(t, err)
	_, err = e.svc.Pairs.Connect(ctx, sam, code.Code)
	require.NoError(t, err)
	return e.reload(t, alex), e.reload(t, sam)
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.svc.Users.Register(ctx, RegisterRequest{Email: " Alex@Example.com ", Password: "secret123", Name: "Alex"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, "alex@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.AccessToken)

	streak, err := env.repos.Streaks.Get(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, streak.CurrentStreak)

	_, err = env.svc.Users.Register(ctx, RegisterRequest{Email: "alex@example.com", Password: "other123", Name: "Imposter"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = env.svc.Users.Login(ctx, LoginRequest{Email: "alex@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.svc.Users.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	login, err := env.svc.Users.Login(ctx, LoginRequest{Email: "ALEX@example.com", Password: "secret123"})
	require.NoError(t, err)

	user, err := env.svc.Users.Authenticate(ctx, login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, user.ID)
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.register(t, "alex@example.com", "Alex")

	_, err := env.svc.Users.Authenticate(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	env.svc.Users.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := env.svc.Users.GenerateJWT(user.ID)
	require.NoError(t, err)
	env.svc.Users.now = time.Now
	_, err = env.svc.Users.Authenticate(ctx, expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewUserService(env.repos.Users, env.repos.Streaks, "other-secret", time.Hour)
	forged, err := other.GenerateJWT(user.ID)
	require.NoError(t, err)
	_, err = env.svc.Users.Authenticate(ctx, forged)
	assert.ErrorIs(t, err, ErrInvalidToken)

	ghost, err := env.svc.Users.GenerateJWT("missing-user")
	require.NoError(t, err)
	_, err = env.svc.Users.Authenticate(ctx, ghost)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestPushRegistration(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.register(t, "alex@example.com", "Alex")

	updated, err := env.svc.Users.UpdatePushToken(ctx, user, "device-token")
	require.NoError(t, err)
	require.NotNil(t, updated.PushToken)
	assert.Equal(t, "device-token", *updated.PushToken)

	updated, err = env.svc.Users.UpdatePushToken(ctx, user, "")
	require.NoError(t, err)
	assert.Nil(t, updated.PushToken)

	req := WebPushRequest{Endpoint: "https://push.test/abc"}
	req.Keys.P256dh = "key"
	req.Keys.Auth = "auth"
	require.NoError(t, env.svc.Users.UpdateWebPush(ctx, user, req))
	updated = env.reload(t, user)
	require.NotNil(t, updated.WebPush)
	assert.Equal(t, "https://push.test/abc", updated.WebPush.Endpoint)
}

func TestPairing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alex := env.register(t, "alex@example.com", "Alex")
	sam := env.register(t, "sam@example.com", "Sam")
	jo := env.register(t, "jo@example.com", "Jo")

	code, err := env.svc.Pairs.GenerateCode(ctx, alex)
	require.NoError(t, err)
	assert.Len(t, code.Code, codeLength)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), code.ExpiresAt, time.Minute)

	_, err = env.svc.Pairs.Connect(ctx, alex, code.Code)
	assert.ErrorIs(t, err, ErrSelfPairing)

	_, err = env.svc.Pairs.Connect(ctx, sam, "ZZZZZZ")
	assert.ErrorIs(t, err, ErrInvalidCode)

	paired, err := env.svc.Pairs.Connect(ctx, sam, " "+strings.ToLower(code.Code)+" ")
	require.NoError(t, err)
	assert.Equal(t, alex.ID, paired.PartnerIDValue())
	assert.Equal(t, "Alex", paired.PartnerNameValue())

	alex = env.reload(t, alex)
	assert.Equal(t, sam.ID, alex.PartnerIDValue())
	assert.Equal(t, models.PairKey(alex.ID, sam.ID), alex.PairKey())

	_, err = env.repos.PairingCodes.GetByCode(ctx, code.Code)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = env.svc.Pairs.GenerateCode(ctx, alex)
	assert.ErrorIs(t, err, ErrAlreadyPaired)
	_, err = env.svc.Pairs.Connect(ctx, env.reload(t, sam), "ABCDEF")
	assert.ErrorIs(t, err, ErrAlreadyPaired)

	// Jo's code cannot pull in someone who got paired meanwhile
	joCode, err := env.svc.Pairs.GenerateCode(ctx, jo)
	require.NoError(t, err)
	require.NoError(t, env.repos.Users.SetPartner(ctx, jo.ID, &sam.ID, &sam.Name))
	carol := env.register(t, "carol@example.com", "Carol")
	_, err = env.svc.Pairs.Connect(ctx, carol, joCode.Code)
	assert.ErrorIs(t, err, ErrPartnerTaken)

	unpaired, err := env.svc.Pairs.Disconnect(ctx, alex)
	require.NoError(t, err)
	assert.False(t, unpaired.HasPartner())
	assert.False(t, env.reload(t, sam).HasPartner())

	_, err = env.svc.Pairs.Disconnect(ctx, unpaired)
	assert.ErrorIs(t, err, ErrNotPaired)
}

func TestPairingCodeExpiry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alex := env.register(t, "alex@example.com", "Alex")
	sam := env.register(t, "sam@example.com", "Sam")

	first, err := env.svc.Pairs.GenerateCode(ctx, alex)
	require.NoError(t, err)
	second, err := env.svc.Pairs.GenerateCode(ctx, alex)
	require.NoError(t, err)

	_, err = env.repos.PairingCodes.GetByCode(ctx, first.Code)
	assert.ErrorIs(t, err, repository.ErrNotFound, "a new code replaces the previous one")

	env.svc.Pairs.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	_, err = env.svc.Pairs.Connect(ctx, sam, second.Code)
	assert.ErrorIs(t, err, ErrCodeExpired)

	_, err = env.repos.PairingCodes.GetByCode(ctx, second.Code)
	assert.ErrorIs(t, err, repository.ErrNotFound, "expired codes are deleted")
}

func TestErrorKinds(t *testing.T) {
	var svcErr *Error
	require.True(t, errors.As(ErrNotPaired, &svcErr))
	assert.Equal(t, KindInvalid, svcErr.Kind)
	assert.Equal(t, "You need to pair with a partner first", svcErr.Error())

	assert.Equal(t, KindNotFound, ErrInvalidCode.Kind)
	assert.Equal(t, KindUnauthorized, ErrInvalidCredentials.Kind)
	assert.False(t, errors.As(ErrCodeGeneration, &svcErr))
}
