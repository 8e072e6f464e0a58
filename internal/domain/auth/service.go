package auth

import (
	"context"

	"blog-server-go/internal/domain/model"
	"blog-server-go/internal/domain/user"
	"blog-server-go/internal/platform/errors"
	"blog-server-go/internal/platform/logging"
)

// Service sequences the hasher, token issuer, credential store and
// assertion verifier into complete authentication flows.
type Service struct {
	accounts *user.Repository
	hasher   *Hasher
	tokens   *Issuer
	google   AssertionVerifier
	logger   *logging.Logger
}

type Options struct {
	Accounts *user.Repository
	Hasher   *Hasher
	Tokens   *Issuer
	Google   AssertionVerifier
	Logger   *logging.Logger
}

func NewService(opts Options) (*Service, error) {
	if opts.Accounts == nil {
		return nil, errors.New(errors.KindBootstrap, "auth_service",
			"auth service requires an account repository")
	}
	if opts.Hasher == nil || opts.Tokens == nil {
		return nil, errors.New(errors.KindBootstrap, "auth_service",
			"auth service requires a hasher and a token issuer")
	}
	if opts.Logger == nil {
		return nil, errors.New(errors.KindBootstrap, "auth_service",
			"auth service requires a logger")
	}
	return &Service{
		accounts: opts.Accounts,
		hasher:   opts.Hasher,
		tokens:   opts.Tokens,
		google:   opts.Google,
		logger:   opts.Logger,
	}, nil
}

// Tokens exposes the issuer for middleware wiring.
func (s *Service) Tokens() *Issuer {
	return s.tokens
}

type RegisterInput struct {
	Username string
	Password string
	FullName string
	Avatar   string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*model.Account, TokenPair, error) {
	if in.Username == "" || in.Password == "" || in.FullName == "" {
		return nil, TokenPair{}, errors.New(errors.KindValidation, "register",
			"username, password, and full name are required")
	}

	existing, err := s.accounts.FindByUsername(ctx, in.Username)
	if err != nil {
		return nil, TokenPair{}, err
	}
	if existing != nil {
		return nil, TokenPair{}, errors.New(errors.KindConflict, "register",
			"user with the given username already exists")
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, TokenPair{}, errors.Wrap(errors.KindUnknown, "register",
			"failed to hash password", err)
	}

	account := &model.Account{
		Username: in.Username,
		Password: digest,
		FullName: in.FullName,
		Avatar:   in.Avatar,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, TokenPair{}, err
	}

	pair, err := s.tokens.IssuePair(account.ID)
	if err != nil {
		return nil, TokenPair{}, errors.Wrap(errors.KindUnknown, "register",
			"failed to issue tokens", err)
	}
	s.logger.InfoWith("user registered", map[string]any{
		"userId":   account.ID,
		"username": account.Username,
	})
	return account, pair, nil
}

func (s *Service) Login(ctx context.Context, username, password string) (*model.Account, TokenPair, error) {
	if username == "" || password == "" {
		return nil, TokenPair{}, errors.New(errors.KindValidation, "login",
			"username and password are required")
	}

	account, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		return nil, TokenPair{}, err
	}
	if account == nil {
		return nil, TokenPair{}, errors.New(errors.KindNotFound, "login",
			"invalid username")
	}
	if account.Password == "" {
		// Federated-only account: a generic "invalid password" would send
		// the user in circles.
		return nil, TokenPair{}, errors.New(errors.KindValidation, "login",
			"this account uses google sign-in; log in with google instead")
	}
	if !s.hasher.Verify(password, account.Password) {
		return nil, TokenPair{}, errors.New(errors.KindValidation, "login",
			"invalid password")
	}

	pair, err := s.tokens.IssuePair(account.ID)
	if err != nil {
		return nil, TokenPair{}, errors.Wrap(errors.KindUnknown, "login",
			"failed to issue tokens", err)
	}
	s.logger.InfoWith("user logged in", map[string]any{"userId": account.ID})
	return account, pair, nil
}

// GoogleLogin verifies the provider assertion and reconciles it to a local
// account: link an existing account by subject or email, or auto-provision
// a new federated account.
func (s *Service) GoogleLogin(ctx context.Context, credential string) (*model.Account, TokenPair, error) {
	if credential == "" {
		return nil, TokenPair{}, errors.New(errors.KindValidation, "google_login",
			"google credential is required")
	}
	if s.google == nil {
		return nil, TokenPair{}, errors.New(errors.KindConfig, "google_login",
			"google login is not configured")
	}

	profile, err := s.google.VerifyAssertion(ctx, credential)
	if err != nil {
		s.logger.WarnWith("google credential rejected", map[string]any{"cause": err.Error()})
		return nil, TokenPair{}, errors.New(errors.KindValidation, "google_login",
			"invalid google credential")
	}

	account, err := s.accounts.FindByEmailOrGoogleID(ctx, profile.Email, profile.Subject)
	if err != nil {
		return nil, TokenPair{}, err
	}

	switch {
	case account == nil:
		account = &model.Account{
			Username:     profile.Email,
			FullName:     profile.Name,
			Avatar:       profile.Picture,
			Email:        &profile.Email,
			GoogleID:     &profile.Subject,
			IsGoogleUser: true,
		}
		if err := s.accounts.Create(ctx, account); err != nil {
			return nil, TokenPair{}, err
		}
		s.logger.InfoWith("federated account provisioned", map[string]any{
			"userId": account.ID,
		})
	case account.GoogleID == nil:
		// Upgrade: attach the provider identity to the password account.
		// The existing password stays valid.
		account.GoogleID = &profile.Subject
		account.IsGoogleUser = true
		if account.Email == nil {
			account.Email = &profile.Email
		}
		if account.Avatar == "" {
			account.Avatar = profile.Picture
		}
		if err := s.accounts.Update(ctx, account); err != nil {
			return nil, TokenPair{}, err
		}
		s.logger.InfoWith("account linked to google identity", map[string]any{
			"userId": account.ID,
		})
	}

	pair, err := s.tokens.IssuePair(account.ID)
	if err != nil {
		return nil, TokenPair{}, errors.Wrap(errors.KindUnknown, "google_login",
			"failed to issue tokens", err)
	}
	return account, pair, nil
}

// Refresh exchanges a valid refresh token for a new access/refresh pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*model.Account, TokenPair, error) {
	accountID, err := s.tokens.Verify(refreshToken, KindRefresh)
	if err != nil {
		return nil, TokenPair{}, err
	}

	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, TokenPair{}, err
	}
	if account == nil {
		return nil, TokenPair{}, errors.New(errors.KindNotFound, "refresh",
			"user not found")
	}

	pair, err := s.tokens.IssuePair(account.ID)
	if err != nil {
		return nil, TokenPair{}, errors.Wrap(errors.KindUnknown, "refresh",
			"failed to issue tokens", err)
	}
	return account, pair, nil
}
