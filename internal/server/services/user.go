// Package services contains server-side business logic. This file implements
// UserService, which handles signup, login, logout, session resolution for
// the gate, password changes and profile photos.
package services

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/dsalog/internal/common"
	"github.com/dmitrijs2005/dsalog/internal/dbx"
	"github.com/dmitrijs2005/dsalog/internal/logging"
	"github.com/dmitrijs2005/dsalog/internal/server/auth"
	"github.com/dmitrijs2005/dsalog/internal/server/config"
	"github.com/dmitrijs2005/dsalog/internal/server/models"
	"github.com/dmitrijs2005/dsalog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/dsalog/internal/server/repositories/revocations"
	"github.com/dmitrijs2005/dsalog/internal/server/storage"
	"github.com/dmitrijs2005/dsalog/internal/server/validate"
)

// PasswordHasher hashes and checks passwords. Burn spends the same effort
// as a failed Verify without a stored hash.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
	Burn(plaintext string)
}

// TokenIssuer signs and checks session tokens.
type TokenIssuer interface {
	Issue(userID string, ttl time.Duration) (string, auth.Claims, error)
	Verify(token string) (auth.Claims, error)
}

// Session is the result of a successful login: the identity and the token
// to hand to the client.
type Session struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

// UserServiceDeps are the collaborators of UserService. Revocations and
// Photos are optional; nil disables token revocation and photo uploads.
type UserServiceDeps struct {
	Hasher      PasswordHasher
	Tokens      TokenIssuer
	Revocations revocations.Store
	Photos      storage.Presigner
	Logger      logging.Logger
}

// UserService provides authentication-related operations.
type UserService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	hasher       PasswordHasher
	tokens       TokenIssuer
	revocations  revocations.Store
	photos       storage.Presigner
	logger       logging.Logger
	tokenTTL     time.Duration
	defaultPhoto string
	now          func() time.Time
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, deps UserServiceDeps) *UserService {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Nop{}
	}
	defaultPhoto := cfg.DefaultPhotoURL
	if defaultPhoto == "" {
		defaultPhoto = common.DefaultPhotoURL
	}
	return &UserService{
		db:           db,
		repomanager:  m,
		hasher:       deps.Hasher,
		tokens:       deps.Tokens,
		revocations:  deps.Revocations,
		photos:       deps.Photos,
		logger:       logger.With("module", "users"),
		tokenTTL:     cfg.TokenTTL,
		defaultPhoto: defaultPhoto,
		now:          time.Now,
	}
}

// TokenTTL is the lifetime of issued session tokens.
func (s *UserService) TokenTTL() time.Duration { return s.tokenTTL }

// RevocationEnabled reports whether logout revokes tokens server side.
func (s *UserService) RevocationEnabled() bool { return s.revocations != nil }

// Signup validates and normalises in, hashes the password and stores the
// new identity. The hash is computed before anything is written.
func (s *UserService) Signup(ctx context.Context, in models.SignupInput) (*models.User, error) {
	if err := validate.Signup(&in); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err)
		return nil, common.ErrorInternal
	}

	user := &models.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
		Photo:        s.defaultPhoto,
	}

	created, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		s.logger.Error(ctx, "create user failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user signed up", "user_id", created.ID)
	return created, nil
}

// Login checks the credentials and issues a session token. Unknown emails
// and wrong passwords both yield common.ErrorInvalidCredentials after a
// comparable amount of hashing work.
func (s *UserService) Login(ctx context.Context, in models.LoginInput) (*Session, error) {
	if err := validate.Login(&in); err != nil {
		return nil, err
	}

	email, err := validate.NormalizeEmail(in.Email)
	if err != nil {
		s.hasher.Burn(in.Password)
		return nil, common.ErrorInvalidCredentials
	}

	user, err := s.repomanager.Users(s.db).FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Burn(in.Password)
			return nil, common.ErrorInvalidCredentials
		}
		s.logger.Error(ctx, "find user failed", "error", err)
		return nil, common.ErrorInternal
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		return nil, common.ErrorInvalidCredentials
	}

	return s.issue(ctx, user)
}

func (s *UserService) issue(ctx context.Context, user *models.User) (*Session, error) {
	token, claims, err := s.tokens.Issue(user.ID, s.tokenTTL)
	if err != nil {
		s.logger.Error(ctx, "token issue failed", "error", err)
		return nil, common.ErrorInternal
	}
	return &Session{User: user, Token: token, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Logout revokes token when a revocation store is configured. Missing or
// invalid tokens have nothing to revoke and succeed.
func (s *UserService) Logout(ctx context.Context, token string) error {
	if s.revocations == nil || token == "" {
		return nil
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil
	}

	if err := s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		s.logger.Error(ctx, "token revocation failed", "error", err)
		return common.ErrorInternal
	}
	return nil
}

// Authenticate resolves a session token to its user. It returns
// common.ErrorUnauthorized for missing, invalid, revoked or stale tokens
// and for tokens whose user no longer exists, and common.ErrorInternal
// when a store cannot be consulted.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, common.ErrorUnauthorized
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	if s.revocations != nil {
		revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			s.logger.Error(ctx, "revocation lookup failed", "error", err)
			return nil, common.ErrorInternal
		}
		if revoked {
			return nil, common.ErrorUnauthorized
		}
	}

	user, err := s.repomanager.Users(s.db).FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "find user failed", "error", err)
		return nil, common.ErrorInternal
	}

	// Token timestamps have second precision.
	if !user.PasswordChangedAt.IsZero() && claims.IssuedAt != nil &&
		claims.IssuedAt.Time.Before(user.PasswordChangedAt.Truncate(time.Second)) {
		return nil, common.ErrorUnauthorized
	}

	return user, nil
}

// ChangePassword replaces the password of userID after checking the
// current one, and returns a fresh session: every token issued before the
// change stops being accepted.
func (s *UserService) ChangePassword(ctx context.Context, userID string, in models.ChangePasswordInput) (*Session, error) {
	if err := validate.ChangePassword(&in); err != nil {
		return nil, err
	}

	var user *models.User
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		u, err := repo.LockByID(ctx, userID)
		if err != nil {
			return err
		}
		if !s.hasher.Verify(in.CurrentPassword, u.PasswordHash) {
			return common.ErrorInvalidCredentials
		}

		hash, err := s.hasher.Hash(in.NewPassword)
		if err != nil {
			return err
		}

		changedAt := s.now().UTC()
		if err := repo.UpdatePassword(ctx, userID, hash, changedAt); err != nil {
			return err
		}
		u.PasswordHash = hash
		u.PasswordChangedAt = changedAt
		user = u
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorInvalidCredentials):
			return nil, common.ErrorInvalidCredentials
		case errors.Is(err, common.ErrorNotFound):
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "password change failed", "user_id", userID, "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "password changed", "user_id", userID)
	return s.issue(ctx, user)
}

// PhotoUploadURL returns a presigned upload slot for the user's photo.
func (s *UserService) PhotoUploadURL(ctx context.Context, userID string) (*models.PhotoUpload, error) {
	if s.photos == nil {
		return nil, common.ErrorNotConfigured
	}
	up, err := s.photos.PresignPhotoUpload(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "presign photo upload failed", "error", err)
		return nil, common.ErrorInternal
	}
	return up, nil
}

// SetPhoto points the user's photo at photo, which must be an absolute
// http(s) URL or an object key under the user's upload prefix.
func (s *UserService) SetPhoto(ctx context.Context, userID, photo string) (*models.User, error) {
	photo = strings.TrimSpace(photo)

	var ref string
	switch {
	case strings.HasPrefix(photo, storage.PhotoKeyPrefix(userID)) && s.photos != nil:
		ref = s.photos.PublicURL(photo)
	case isHTTPURL(photo):
		ref = photo
	default:
		return nil, common.NewValidationError("photo", "Photo must be an http(s) URL or an uploaded photo key")
	}

	repo := s.repomanager.Users(s.db)
	if err := repo.UpdatePhoto(ctx, userID, ref); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "update photo failed", "error", err)
		return nil, common.ErrorInternal
	}

	user, err := repo.FindByID(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "reload user failed", "error", err)
		return nil, common.ErrorInternal
	}
	return user, nil
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
