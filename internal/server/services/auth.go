// Package services contains server-side business logic. AuthService runs the
// registration and login flows.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
	"github.com/dmitrijs2005/gophauth/internal/server/validation"
)

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult carries the transport-encrypted session token. The plain
// token and its signing secret never leave the service.
type LoginResult struct {
	EncryptedToken string
	ExpiresAt      time.Time
}

// TokenSigner signs a session token for account with the derived secret.
type TokenSigner interface {
	Issue(account *models.Account, secret string) (auth.IssuedToken, error)
}

// AuthService registers accounts and logs them in.
type AuthService struct {
	users     users.Repository
	validator *validation.Validator
	passwords auth.PasswordHasher
	deriver   *auth.SecretDeriver
	tokens    TokenSigner
	verifiers *auth.VerifierHasher
	transport *auth.TransportEncryptor
	log       logging.Logger

	// dummyHash is compared against when the username is unknown so the
	// response time does not reveal whether an account exists.
	dummyHash string
}

func NewAuthService(
	repo users.Repository,
	validator *validation.Validator,
	passwords auth.PasswordHasher,
	deriver *auth.SecretDeriver,
	tokens TokenSigner,
	verifiers *auth.VerifierHasher,
	transport *auth.TransportEncryptor,
	log logging.Logger,
) (*AuthService, error) {
	filler, err := common.MakeRandHexString(16)
	if err != nil {
		return nil, err
	}
	dummy, err := passwords.Hash(filler)
	if err != nil {
		return nil, err
	}

	return &AuthService{
		users:     repo,
		validator: validator,
		passwords: passwords,
		deriver:   deriver,
		tokens:    tokens,
		verifiers: verifiers,
		transport: transport,
		log:       log.With("module", "auth_service"),
		dummyHash: dummy,
	}, nil
}

// Register validates in, checks that username and email are free, hashes the
// password and stores the account.
//
// The availability check and the insert are separate store calls. Two
// concurrent registrations can both pass the check; the store's uniqueness
// constraint then rejects the second insert, which is reported as
// KindDuplicateAccount as well.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.PublicAccount, error) {
	if res := s.validator.ValidateRegistration(in); !res.OK {
		return nil, s.reject(ctx, "register", fail(KindValidationFailed).With("detail", res.Message).Errorf("validation: %s", res.Message))
	}

	if err := s.checkAvailable(ctx, in.Username, in.Email); err != nil {
		return nil, s.reject(ctx, "register", err)
	}

	digest, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, s.reject(ctx, "register", fail(KindHashingFailed).Wrap(err))
	}

	created, err := s.users.Create(ctx, &models.Account{
		Username:     in.Username,
		Handle:       common.HandlePrefix + in.Username,
		Email:        in.Email,
		PasswordHash: digest,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, s.reject(ctx, "register", fail(KindDuplicateAccount).With("username", in.Username).Wrap(err))
		}
		return nil, s.reject(ctx, "register", fail(KindPersistenceFailed).With("detail", "could not store account").Wrap(err))
	}

	s.log.Info(ctx, "registered", "username", created.Username, "account_id", created.ID)
	return created.Public(), nil
}

func (s *AuthService) checkAvailable(ctx context.Context, username, email string) error {
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return fail(KindDuplicateAccount).With("username", username).Errorf("username taken")
	} else if !errors.Is(err, common.ErrorNotFound) {
		return fail(KindStoreError).Wrap(err)
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return fail(KindDuplicateAccount).With("username", username).Errorf("email taken")
	} else if !errors.Is(err, common.ErrorNotFound) {
		return fail(KindStoreError).Wrap(err)
	}

	return nil
}

// Login checks the credentials, derives the per-login signing secret, signs
// a session token with it, records a verifier of the secret and returns the
// token encrypted for transport. Any failure after the password check aborts
// before a token is handed out.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if res := s.validator.ValidateLogin(in); !res.OK {
		return nil, s.reject(ctx, "login", fail(KindValidationFailed).With("detail", res.Message).Errorf("validation: %s", res.Message))
	}

	account, err := s.authenticate(ctx, in)
	if err != nil {
		return nil, s.reject(ctx, "login", err)
	}

	variant := s.deriver.VariantFor(account.Email)
	secret, err := s.deriver.Derive(account.Identity(), variant)
	if err != nil {
		return nil, s.reject(ctx, "login", fail(KindSecretDerivationFailed).With("variant", variant.String()).Wrap(err))
	}

	issued, err := s.tokens.Issue(account, secret)
	if err != nil {
		return nil, s.reject(ctx, "login", fail(KindSigningFailed).Wrap(err))
	}

	verifier, err := s.verifiers.Hash(secret, issued.IssuedAt)
	if err != nil {
		return nil, s.reject(ctx, "login", fail(KindVerifierPersistFailed).Wrap(err))
	}
	if err := s.users.UpdateSecretVerifier(ctx, account.ID, verifier); err != nil {
		return nil, s.reject(ctx, "login", fail(KindVerifierPersistFailed).With("account_id", account.ID).Wrap(err))
	}

	encrypted, err := s.transport.Encrypt(issued.Token)
	if err != nil {
		return nil, s.reject(ctx, "login", fail(KindTransportEncryptFailed).Wrap(err))
	}

	s.log.Info(ctx, "logged in", "username", account.Username, "variant", variant.String())
	return &LoginResult{EncryptedToken: encrypted, ExpiresAt: issued.ExpiresAt}, nil
}

// authenticate returns the account only when the password matches. Unknown
// users and wrong passwords produce the same error.
func (s *AuthService) authenticate(ctx context.Context, in LoginInput) (*models.Account, error) {
	account, err := s.users.FindByUsername(ctx, in.Username)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, fail(KindStoreError).Wrap(err)
	}

	digest := s.dummyHash
	if account != nil {
		digest = account.PasswordHash
	}

	ok, verr := s.passwords.Verify(in.Password, digest)
	if account == nil {
		return nil, fail(KindInvalidCredentials).With("reason", "unknown user").Errorf("invalid credentials")
	}
	if verr != nil {
		return nil, fail(KindInvalidCredentials).With("reason", "unreadable hash").Wrap(verr)
	}
	if !ok {
		return nil, fail(KindInvalidCredentials).With("reason", "wrong password").Errorf("invalid credentials")
	}
	return account, nil
}

// reject logs a flow failure and returns err unchanged. Client mistakes are
// logged at warn level, server faults at error level.
func (s *AuthService) reject(ctx context.Context, op string, err error) error {
	args := append([]any{"op", op}, logging.ErrorAttrs(err)...)
	switch KindOf(err) {
	case KindValidationFailed, KindDuplicateAccount, KindInvalidCredentials:
		s.log.Warn(ctx, "request rejected", args...)
	default:
		s.log.Error(ctx, "request failed", args...)
	}
	return err
}
