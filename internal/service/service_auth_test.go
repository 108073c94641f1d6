package service

import (
	"context"
	"encoding/hex"
	"testing"
	"time"

	"github.com/ashmelev/cardvault/internal/config"
	"github.com/ashmelev/cardvault/internal/logger"
	"github.com/ashmelev/cardvault/internal/mock"
	"github.com/ashmelev/cardvault/internal/session"
	"github.com/ashmelev/cardvault/internal/store"
	"github.com/ashmelev/cardvault/internal/workers"
	"github.com/ashmelev/cardvault/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testAppConfig = config.App{
	TokenSignKey:  "test-sign-key",
	TokenIssuer:   "cardvault-test",
	TokenDuration: time.Hour,
}

// authTestDeps bundles every mock behind an authService under test.
type authTestDeps struct {
	users    *mock.MockUserRepository
	cards    *mock.MockCardRepository
	wallets  *mock.MockWalletRepository
	blobs    *mock.MockBlobStorage
	keyChain *mock.MockKeyChain
	keys     *session.KeyStore
}

// newTestAuthSvc builds an authService over mocks, with a real vault
// service in between so the credential-change path is exercised end to end.
func newTestAuthSvc(t *testing.T, ctrl *gomock.Controller) (AuthService, *authTestDeps) {
	t.Helper()

	deps := &authTestDeps{
		users:    mock.NewMockUserRepository(ctrl),
		cards:    mock.NewMockCardRepository(ctrl),
		wallets:  mock.NewMockWalletRepository(ctrl),
		blobs:    mock.NewMockBlobStorage(ctrl),
		keyChain: mock.NewMockKeyChain(ctrl),
		keys:     session.NewKeyStore(),
	}

	vault := NewVaultService(deps.cards, deps.wallets, deps.blobs, deps.keyChain, workers.NewPool(2), logger.Nop())
	svc := NewAuthService(deps.users, vault, deps.keyChain, deps.keys, testAppConfig, logger.Nop())

	return svc, deps
}

// ── Register ────────────────────────────────────────────────────────────────

func TestAuthService_Register_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, deps := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	salt := []byte("0123456789abcdef")
	key := []byte("derived-key-32-bytes-placeholder")

	deps.keyChain.EXPECT().GenerateSalt().Return(salt, nil)
	deps.keyChain.EXPECT().HashCredential("hunter2-but-longer").Return("$2a$10$hash", nil)
	deps.users.EXPECT().CreateUser(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, u models.User) (models.User, error) {
			assert.Equal(t, "alice", u.Username)
			assert.Equal(t, "$2a$10$hash", u.CredentialHash)
			assert.Equal(t, hex.EncodeToString(salt), u.Salt)
			u.UserID = 42
			return u, nil
		},
	)
	deps.keyChain.EXPECT().DeriveKey("hunter2-but-longer", salt).Return(key, nil)

	user, token, err := svc.Register(ctx, "alice", "hunter2-but-longer")
	require.NoError(t, err)

	assert.Equal(t, int64(42), user.UserID)
	require.NotEmpty(t, token.SessionID)
	require.NotEmpty(t, token.SignedString)

	installed, ok := deps.keys.Get(token.SessionID)
	require.True(t, ok, "registration must install the session key")
	assert.Equal(t, key, installed)
}

func TestAuthService_Register_EmptyInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _ := newTestAuthSvc(t, ctrl)

	for _, tc := range []struct{ username, credential string }{
		{"", "secret"},
		{"alice", ""},
		{"", ""},
	} {
		_, _, err := svc.Register(context.Background(), tc.username, tc.credential)
		assert.ErrorIs(t, err, ErrInvalidDataProvided)
	}
}

func TestAuthService_Register_UsernameTaken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, deps := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	deps.keyChain.EXPECT().GenerateSalt().Return([]byte("0123456789abcdef"), nil)
	deps.keyChain.EXPECT().HashCredential(gomock.Any()).Return("$2a$10$hash", nil)
	deps.users.EXPECT().CreateUser(ctx, gomock.Any()).Return(models.User{}, store.ErrUsernameTaken)

	_, _, err := svc.Register(ctx, "alice", "secret")
	assert.ErrorIs(t, err, store.ErrUsernameTaken)
	assert.Zero(t, deps.keys.Len(), "no session key on failed registration")
}

// ── Login ───────────────────────────────────────────────────────────────────

func storedUser() models.User {
	return models.User{
		UserID:         42,
		Username:       "alice",
		CredentialHash: "$2a$10$hash",
		Salt:           hex.EncodeToString([]byte("0123456789abcdef")),
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, deps := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	key := []byte("derived-key-32-bytes-placeholder")

	deps.users.EXPECT().FindUserByUsername(ctx, "alice").Return(storedUser(), nil)
	deps.keyChain.EXPECT().VerifyCredential("secret", "$2a$10$hash").Return(true)
	deps.keyChain.EXPECT().DeriveKey("secret", []byte("0123456789abcdef")).Return(key, nil)

	user, token, err := svc.Login(ctx, "alice", "secret")
	require.NoError(t, err)

	assert.Equal(t, int64(42), user.UserID)

	installed, ok := deps.keys.Get(token.SessionID)
	require.True(t, ok)
	assert.Equal(t, key, installed)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, deps := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	deps.users.EXPECT().FindUserByUsername(ctx, "ghost").Return(models.User{}, store.ErrNoUserWasFound)

	_, _, err := svc.Login(ctx, "ghost", "secret")
	assert.ErrorIs(t, err, store.ErrNoUserWasFound)
}

func TestAuthService_Login_WrongCredential(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, deps := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	deps.users.EXPECT().FindUserByUsername(ctx, "alice").Return(storedUser(), nil)
	deps.keyChain.EXPECT().VerifyCredential("wrong", "$2a$10$hash").Return(false)

	_, _, err := svc.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredential)
	assert.Zero(t, deps.keys.Len(), "no session key on failed login")
}

func TestAuthService_Login_BannedAfterVerification(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, deps := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	banned := storedUser()
	banned.IsBanned = true

	// The credential must be verified before the ban is reported.
	gomock.InOrder(
		deps.users.EXPECT().FindUserByUsername(ctx, "alice").Return(banned, nil),
		deps.keyChain.EXPECT().VerifyCredential("secret", "$2a$10$hash").Return(true),
	)

	_, _, err := svc.Login(ctx, "alice", "secret")
	assert.ErrorIs(t, err, ErrAccountBanned)
	assert.Zero(t, deps.keys.Len())
}

func TestAuthService_Login_BannedWithWrongCredential(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, deps := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	banned := storedUser()
	banned.IsBanned = true

	deps.users.EXPECT().FindUserByUsername(ctx, "alice").Return(banned, nil)
	deps.keyChain.EXPECT().VerifyCredential("wrong", "$2a$10$hash").Return(false)

	// A wrong credential on a banned account must not reveal the ban.
	_, _, err := svc.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

// ── Logout ──────────────────────────────────────────────────────────────────

func TestAuthService_Logout_ErasesKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, deps := newTestAuthSvc(t, ctrl)

	deps.keys.Install("session-1", []byte("key-bytes"))

	svc.Logout(context.Background(), "session-1")

	_, ok := deps.keys.Get("session-1")
	assert.False(t, ok, "logout must erase the session key synchronously")
}

// ── ChangeCredential ────────────────────────────────────────────────────────

func TestAuthService_ChangeCredential_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, deps := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	oldKey := []byte("old-key-32-bytes-placeholder..!!")
	newKey := []byte("new-key-32-bytes-placeholder..!!")
	salt := []byte("0123456789abcdef")

	deps.keys.Install("session-1", oldKey)

	deps.users.EXPECT().FindUserByID(ctx, int64(42)).Return(storedUser(), nil)
	deps.keyChain.EXPECT().VerifyCredential("old-secret", "$2a$10$hash").Return(true)
	deps.keyChain.EXPECT().DeriveKey("old-secret", salt).Return(oldKey, nil)
	deps.keyChain.EXPECT().DeriveKey("new-secret", salt).Return(newKey, nil)

	// Empty vault: the pass itself is covered by the vault service tests.
	deps.cards.EXPECT().ListCards(ctx, int64(42), "").Return(nil, nil)
	deps.wallets.EXPECT().ListWallets(ctx, int64(42), false).Return(nil, nil)
	deps.wallets.EXPECT().ListWallets(ctx, int64(42), true).Return(nil, nil)

	deps.keyChain.EXPECT().HashCredential("new-secret").Return("$2a$10$newhash", nil)
	deps.users.EXPECT().UpdateCredentialHash(ctx, int64(42), "$2a$10$newhash").Return(nil)

	report, err := svc.ChangeCredential(ctx, 42, "session-1", "old-secret", "new-secret")
	require.NoError(t, err)
	assert.Zero(t, report.Total)

	installed, ok := deps.keys.Get("session-1")
	require.True(t, ok)
	assert.Equal(t, newKey, installed, "session key must be swapped to the new derivation")
}

func TestAuthService_ChangeCredential_WrongOldCredential(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, deps := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	deps.keys.Install("session-1", []byte("old-key"))

	deps.users.EXPECT().FindUserByID(ctx, int64(42)).Return(storedUser(), nil)
	deps.keyChain.EXPECT().VerifyCredential("wrong", "$2a$10$hash").Return(false)

	_, err := svc.ChangeCredential(ctx, 42, "session-1", "wrong", "new-secret")
	assert.ErrorIs(t, err, ErrInvalidCredential)

	installed, _ := deps.keys.Get("session-1")
	assert.Equal(t, []byte("old-key"), installed, "session key must be untouched")
}

func TestAuthService_ChangeCredential_EmptyInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _ := newTestAuthSvc(t, ctrl)

	_, err := svc.ChangeCredential(context.Background(), 42, "session-1", "", "new")
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	_, err = svc.ChangeCredential(context.Background(), 42, "session-1", "old", "")
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

// ── DeleteAccount ───────────────────────────────────────────────────────────

func TestAuthService_DeleteAccount_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, deps := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	deps.keys.Install("session-1", []byte("key"))

	deps.users.EXPECT().FindUserByID(ctx, int64(42)).Return(storedUser(), nil)
	deps.keyChain.EXPECT().VerifyCredential("secret", "$2a$10$hash").Return(true)
	deps.cards.EXPECT().ListCards(ctx, int64(42), "").Return([]models.Card{
		{CardID: 1, UserID: 42, FileName: "blob-a"},
	}, nil)
	deps.blobs.EXPECT().Remove(ctx, "blob-a").Return(nil)
	deps.users.EXPECT().DeleteUser(ctx, int64(42)).Return(nil)

	require.NoError(t, svc.DeleteAccount(ctx, 42, "session-1", "secret"))

	_, ok := deps.keys.Get("session-1")
	assert.False(t, ok)
}

func TestAuthService_DeleteAccount_WrongCredential(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, deps := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	deps.users.EXPECT().FindUserByID(ctx, int64(42)).Return(storedUser(), nil)
	deps.keyChain.EXPECT().VerifyCredential("wrong", "$2a$10$hash").Return(false)

	err := svc.DeleteAccount(ctx, 42, "session-1", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

// ── SetUserBan ──────────────────────────────────────────────────────────────

func adminUser() models.User {
	u := storedUser()
	u.IsAdmin = true
	return u
}

func TestAuthService_SetUserBan_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, deps := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	deps.users.EXPECT().FindUserByID(ctx, int64(42)).Return(adminUser(), nil)
	deps.keyChain.EXPECT().VerifyCredential("secret", "$2a$10$hash").Return(true)
	deps.users.EXPECT().SetBanned(ctx, int64(7), true).Return(nil)

	require.NoError(t, svc.SetUserBan(ctx, 42, "secret", 7, true))
}

func TestAuthService_SetUserBan_NotAdmin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, deps := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	deps.users.EXPECT().FindUserByID(ctx, int64(42)).Return(storedUser(), nil)

	err := svc.SetUserBan(ctx, 42, "secret", 7, true)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestAuthService_SetUserBan_SelfBan(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, deps := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	deps.users.EXPECT().FindUserByID(ctx, int64(42)).Return(adminUser(), nil)
	deps.keyChain.EXPECT().VerifyCredential("secret", "$2a$10$hash").Return(true)

	err := svc.SetUserBan(ctx, 42, "secret", 42, true)
	assert.ErrorIs(t, err, ErrSelfBan)
}

func TestAuthService_SetUserBan_WrongAdminCredential(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, deps := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	deps.users.EXPECT().FindUserByID(ctx, int64(42)).Return(adminUser(), nil)
	deps.keyChain.EXPECT().VerifyCredential("wrong", "$2a$10$hash").Return(false)

	err := svc.SetUserBan(ctx, 42, "wrong", 7, true)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

// ── Tokens ──────────────────────────────────────────────────────────────────

func TestAuthService_TokenRoundTrip(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	token, err := svc.CreateToken(ctx, models.User{UserID: 42})
	require.NoError(t, err)
	require.NotEmpty(t, token.SessionID)

	parsed, err := svc.ParseToken(ctx, token.SignedString)
	require.NoError(t, err)
	assert.Equal(t, int64(42), parsed.UserID)
	assert.Equal(t, token.SessionID, parsed.SessionID, "jti must survive the round trip")
}

func TestAuthService_ParseToken_Invalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _ := newTestAuthSvc(t, ctrl)

	for _, raw := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.ParseToken(context.Background(), raw)
		assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
	}
}

func TestAuthService_ParseToken_WrongSignKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, deps := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	otherCfg := testAppConfig
	otherCfg.TokenSignKey = "different-key"
	vault := NewVaultService(deps.cards, deps.wallets, deps.blobs, deps.keyChain, workers.NewPool(1), logger.Nop())
	other := NewAuthService(deps.users, vault, deps.keyChain, session.NewKeyStore(), otherCfg, logger.Nop())

	token, err := other.CreateToken(ctx, models.User{UserID: 42})
	require.NoError(t, err)

	_, err = svc.ParseToken(ctx, token.SignedString)
	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}
