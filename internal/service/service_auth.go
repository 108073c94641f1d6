package service

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/ashmelev/cardvault/internal/config"
	"github.com/ashmelev/cardvault/internal/crypto"
	"github.com/ashmelev/cardvault/internal/logger"
	"github.com/ashmelev/cardvault/internal/session"
	"github.com/ashmelev/cardvault/internal/store"
	"github.com/ashmelev/cardvault/internal/utils"
	"github.com/ashmelev/cardvault/models"
)

// authService is the concrete implementation of AuthService.
// It owns the only two moments a plaintext credential exists server-side —
// registration and login — and turns each into a bcrypt hash for the
// database plus a derived key for the in-memory session store. The key
// never persists; a restart ends every session and login re-derives it.
type authService struct {
	userRepository store.UserRepository

	// vault performs the bulk re-encryption a credential change triggers
	// and the blob purge an account deletion triggers.
	vault VaultService

	keyChain crypto.KeyChain

	// keys maps JWT "jti" session identifiers to derived encryption keys.
	keys *session.KeyStore

	// uuid generates session identifiers for the "jti" claim.
	uuid *utils.UUIDGenerator

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	logger *logger.Logger
}

// NewAuthService constructs an AuthService wired to the given dependencies
// and populated with token parameters from cfg.
//
// The returned service is safe for concurrent use; all state besides the
// session key store is read-only after construction.
func NewAuthService(
	userRepository store.UserRepository,
	vault VaultService,
	keyChain crypto.KeyChain,
	keys *session.KeyStore,
	cfg config.App,
	logger *logger.Logger,
) AuthService {
	return &authService{
		userRepository: userRepository,
		vault:          vault,
		keyChain:       keyChain,
		keys:           keys,
		uuid:           utils.NewUUIDGenerator(),
		tokenSignKey:   cfg.TokenSignKey,
		tokenIssuer:    cfg.TokenIssuer,
		tokenDuration:  cfg.TokenDuration,
		logger:         logger,
	}
}

// Register creates a new account and opens its first session.
//
// A fresh random salt and the bcrypt hash are persisted; the encryption
// key is derived from the live credential and installed under the new
// session id. The credential itself is never stored in any form that can
// reproduce the key without it.
//
// Returns the persisted user and a signed token, or:
//   - ErrInvalidDataProvided if username or credential is empty.
//   - A wrapped store.ErrUsernameTaken if the username is already in use.
func (a *authService) Register(ctx context.Context, username, credential string) (models.User, models.Token, error) {
	log := logger.FromContext(ctx)

	if username == "" || credential == "" {
		log.Error().Str("username", username).Msg("invalid registration data provided")
		return models.User{}, models.Token{}, ErrInvalidDataProvided
	}

	salt, err := a.keyChain.GenerateSalt()
	if err != nil {
		log.Err(err).Msg("salt generation failed")
		return models.User{}, models.Token{}, fmt.Errorf("salt generation failed: %w", err)
	}

	credentialHash, err := a.keyChain.HashCredential(credential)
	if err != nil {
		log.Err(err).Msg("credential hashing failed")
		return models.User{}, models.Token{}, fmt.Errorf("credential hashing failed: %w", err)
	}

	user := models.User{
		Username:       username,
		CredentialHash: credentialHash,
		Salt:           hex.EncodeToString(salt),
	}

	registeredUser, err := a.userRepository.CreateUser(ctx, user)
	if err != nil {
		log.Err(err).Str("username", username).Msg("user creation ended with error")
		return models.User{}, models.Token{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	token, err := a.openSession(ctx, registeredUser, credential, salt)
	if err != nil {
		return models.User{}, models.Token{}, err
	}

	return registeredUser, token, nil
}

// Login authenticates an existing user and opens a session.
//
// The ban flag is checked only after the credential verifies, so a banned
// response never leaks whether a guessed credential was right.
//
// Returns the user and a signed token, or:
//   - ErrInvalidDataProvided if username or credential is empty.
//   - A wrapped store.ErrNoUserWasFound if the account does not exist.
//   - ErrInvalidCredential if the credential does not match.
//   - ErrAccountBanned if the account is administratively disabled.
func (a *authService) Login(ctx context.Context, username, credential string) (models.User, models.Token, error) {
	log := logger.FromContext(ctx)

	if username == "" || credential == "" {
		log.Error().Str("username", username).Msg("invalid login data provided")
		return models.User{}, models.Token{}, ErrInvalidDataProvided
	}

	foundUser, err := a.userRepository.FindUserByUsername(ctx, username)
	if err != nil {
		log.Err(err).Str("username", username).Msg("user search by username failed")
		return models.User{}, models.Token{}, fmt.Errorf("user search by username failed: %w", err)
	}

	if !a.keyChain.VerifyCredential(credential, foundUser.CredentialHash) {
		log.Warn().Int64("id", foundUser.UserID).Str("username", username).Msg("wrong credential")
		return models.User{}, models.Token{}, ErrInvalidCredential
	}

	if foundUser.IsBanned {
		log.Warn().Int64("id", foundUser.UserID).Str("username", username).Msg("banned account refused a session")
		return models.User{}, models.Token{}, ErrAccountBanned
	}

	salt, err := hex.DecodeString(foundUser.Salt)
	if err != nil {
		log.Err(err).Int64("id", foundUser.UserID).Msg("stored salt is not valid hex")
		return models.User{}, models.Token{}, fmt.Errorf("stored salt is corrupt: %w", err)
	}

	token, err := a.openSession(ctx, foundUser, credential, salt)
	if err != nil {
		return models.User{}, models.Token{}, err
	}

	return foundUser, token, nil
}

// openSession derives the encryption key from the live credential, issues
// a token whose "jti" claim is the new session id, and installs the key
// under that id. The key exists nowhere else.
func (a *authService) openSession(ctx context.Context, user models.User, credential string, salt []byte) (models.Token, error) {
	log := logger.FromContext(ctx)

	key, err := a.keyChain.DeriveKey(credential, salt)
	if err != nil {
		log.Err(err).Int64("id", user.UserID).Msg("key derivation failed")
		return models.Token{}, fmt.Errorf("key derivation failed: %w", err)
	}

	token, err := a.CreateToken(ctx, user)
	if err != nil {
		return models.Token{}, err
	}

	a.keys.Install(token.SessionID, key)
	return token, nil
}

// Logout erases the session's encryption key synchronously. When it
// returns, no blob operation can run under that session: the capability is
// gone even though the JWT may formally still be valid.
func (a *authService) Logout(ctx context.Context, sessionID string) {
	a.keys.Erase(sessionID)
}

// ChangeCredential rotates a user's credential and re-encrypts their vault.
//
// The old credential is re-verified against the stored hash — possession
// of a session is not proof of the credential. The salt is kept: it is not
// a secret and rotating it would buy nothing while invalidating nothing.
// Blob re-encryption runs first and is best-effort per blob; the bcrypt
// hash is swapped and the session key replaced only after the pass, so a
// failed pass leaves login working under the old credential.
//
// Returns the re-encryption report, or:
//   - ErrInvalidDataProvided if either credential is empty.
//   - ErrInvalidCredential if oldCredential does not match the stored hash.
func (a *authService) ChangeCredential(ctx context.Context, userID int64, sessionID, oldCredential, newCredential string) (ReencryptReport, error) {
	log := logger.FromContext(ctx)

	if oldCredential == "" || newCredential == "" {
		return ReencryptReport{}, ErrInvalidDataProvided
	}

	user, err := a.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		log.Err(err).Int64("id", userID).Msg("user search by id failed")
		return ReencryptReport{}, fmt.Errorf("user search by id failed: %w", err)
	}

	if !a.keyChain.VerifyCredential(oldCredential, user.CredentialHash) {
		log.Warn().Int64("id", userID).Msg("credential change refused: wrong old credential")
		return ReencryptReport{}, ErrInvalidCredential
	}

	salt, err := hex.DecodeString(user.Salt)
	if err != nil {
		log.Err(err).Int64("id", userID).Msg("stored salt is not valid hex")
		return ReencryptReport{}, fmt.Errorf("stored salt is corrupt: %w", err)
	}

	oldKey, err := a.keyChain.DeriveKey(oldCredential, salt)
	if err != nil {
		return ReencryptReport{}, fmt.Errorf("key derivation failed: %w", err)
	}
	newKey, err := a.keyChain.DeriveKey(newCredential, salt)
	if err != nil {
		return ReencryptReport{}, fmt.Errorf("key derivation failed: %w", err)
	}

	report, err := a.vault.ReencryptUserVault(ctx, userID, oldKey, newKey)
	if err != nil {
		return ReencryptReport{}, fmt.Errorf("vault re-encryption failed: %w", err)
	}

	newHash, err := a.keyChain.HashCredential(newCredential)
	if err != nil {
		return report, fmt.Errorf("credential hashing failed: %w", err)
	}

	if err := a.userRepository.UpdateCredentialHash(ctx, userID, newHash); err != nil {
		log.Err(err).Int64("id", userID).Msg("credential hash update failed")
		return report, fmt.Errorf("credential hash update failed: %w", err)
	}

	a.keys.Install(sessionID, newKey)

	log.Info().Int64("id", userID).Int("failed", report.Failed).Msg("credential changed")
	return report, nil
}

// DeleteAccount removes a user and everything they own after re-verifying
// the credential. Stored card blobs are purged best-effort before the rows
// cascade away; the session key is erased last.
//
// Returns ErrInvalidCredential if the credential does not match.
func (a *authService) DeleteAccount(ctx context.Context, userID int64, sessionID, credential string) error {
	log := logger.FromContext(ctx)

	if credential == "" {
		return ErrInvalidDataProvided
	}

	user, err := a.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		log.Err(err).Int64("id", userID).Msg("user search by id failed")
		return fmt.Errorf("user search by id failed: %w", err)
	}

	if !a.keyChain.VerifyCredential(credential, user.CredentialHash) {
		log.Warn().Int64("id", userID).Msg("account deletion refused: wrong credential")
		return ErrInvalidCredential
	}

	if err := a.vault.PurgeUserBlobs(ctx, userID); err != nil {
		log.Warn().Err(err).Int64("id", userID).Msg("blob purge failed during account deletion")
	}

	if err := a.userRepository.DeleteUser(ctx, userID); err != nil {
		log.Err(err).Int64("id", userID).Msg("user deletion failed")
		return fmt.Errorf("user deletion failed: %w", err)
	}

	a.keys.Erase(sessionID)

	log.Info().Int64("id", userID).Msg("account deleted")
	return nil
}

// SetUserBan flips the ban flag on a target account. The caller must be an
// admin, must re-verify their own credential, and can never ban themselves.
//
// Returns:
//   - ErrPermissionDenied if the caller is not an admin.
//   - ErrInvalidCredential if the admin credential does not match.
//   - ErrSelfBan if adminID equals targetID.
//   - A wrapped store.ErrNoUserWasFound if the target does not exist.
func (a *authService) SetUserBan(ctx context.Context, adminID int64, adminCredential string, targetID int64, banned bool) error {
	log := logger.FromContext(ctx)

	admin, err := a.userRepository.FindUserByID(ctx, adminID)
	if err != nil {
		log.Err(err).Int64("id", adminID).Msg("admin search by id failed")
		return fmt.Errorf("admin search by id failed: %w", err)
	}

	if !admin.IsAdmin {
		log.Warn().Int64("id", adminID).Msg("ban refused: caller is not an admin")
		return ErrPermissionDenied
	}

	if !a.keyChain.VerifyCredential(adminCredential, admin.CredentialHash) {
		log.Warn().Int64("id", adminID).Msg("ban refused: wrong admin credential")
		return ErrInvalidCredential
	}

	if adminID == targetID {
		return ErrSelfBan
	}

	if err := a.userRepository.SetBanned(ctx, targetID, banned); err != nil {
		log.Err(err).Int64("target", targetID).Msg("ban flag update failed")
		return fmt.Errorf("ban flag update failed: %w", err)
	}

	log.Info().Int64("admin", adminID).Int64("target", targetID).Bool("banned", banned).Msg("ban flag updated")
	return nil
}

// TouchLastActive records activity on the account.
func (a *authService) TouchLastActive(ctx context.Context, userID int64) error {
	if err := a.userRepository.TouchLastActive(ctx, userID); err != nil {
		return fmt.Errorf("last active update failed: %w", err)
	}

	return nil
}

// CreateToken issues a signed JWT for the given user with a fresh session
// id in the "jti" claim.
//
// Returns the token model on success or a wrapped error if JWT generation fails.
func (a *authService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	token, err := utils.GenerateJWTToken(a.tokenIssuer, user.UserID, a.uuid.Generate(), a.tokenDuration, a.tokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken validates and parses a raw JWT string.
//
// It delegates to utils.ValidateAndParseJWTToken, verifying the signature
// and the issuer claim. Any validation failure (expired, wrong issuer,
// malformed) is normalised to ErrTokenIsExpiredOrInvalid so that callers
// do not need to inspect low-level JWT errors.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}
