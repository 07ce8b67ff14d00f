package auth

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/minhvt/corporate-portal/internal"
)

// Service validates credentials against the users table.
type Service struct {
	repo            RepositoryAPI
	logger          *slog.Logger
	bcryptCost      int
	legacyPlaintext bool
}

func NewService(repo RepositoryAPI, logger *slog.Logger, bcryptCost int, legacyPlaintext bool) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:            repo,
		logger:          logger,
		bcryptCost:      bcryptCost,
		legacyPlaintext: legacyPlaintext,
	}
}

// Login looks up exactly one user by exact-match username and verifies the
// password. Lookup failure and password mismatch are indistinguishable to
// the caller. On success the user's last_login is updated, exactly one write.
func (s *Service) Login(dto LoginDTO) (*Identity, *UserView, error) {
	if err := dto.Validate(); err != nil {
		return nil, nil, err
	}

	u, err := s.repo.GetByUsername(dto.Username)
	if err != nil {
		// Only an absent row is a credential failure; a database error
		// must surface as a 500, never masquerade as a 401.
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		s.logger.Error("user lookup failed", "error", err)
		return nil, nil, err
	}

	if !u.IsActive {
		return nil, nil, ErrUserInactive
	}

	if !s.verifyPassword(u.ID, u.PasswordHash, dto.Password) {
		return nil, nil, ErrInvalidCredentials
	}

	if err := s.repo.UpdateLastLogin(u.ID); err != nil {
		s.logger.Error("failed to update last_login", "user_id", u.ID, "error", err)
		return nil, nil, err
	}

	roleName, err := s.repo.RoleName(u)
	if err != nil {
		s.logger.Error("failed to resolve role", "user_id", u.ID, "error", err)
		return nil, nil, err
	}

	return BuildIdentity(u, roleName), ViewOf(u, roleName), nil
}

// IdentityForUserID rebuilds an identity from a bare user id, used by the
// legacy cookie decode path.
func (s *Service) IdentityForUserID(id int64) (*Identity, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, ErrMalformedSession
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrMalformedSession
	}
	roleName, err := s.repo.RoleName(u)
	if err != nil {
		return nil, err
	}
	return BuildIdentity(u, roleName), nil
}

// verifyPassword compares against a bcrypt hash, or against a stored
// plaintext credential when the legacy migration mode is enabled. A
// successful plaintext match re-hashes the credential in place, so each
// legacy user is upgraded on their first login.
func (s *Service) verifyPassword(userID int64, stored, supplied string) bool {
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
	}

	if !s.legacyPlaintext {
		return false
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) != 1 {
		return false
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(supplied), s.bcryptCost)
	if err == nil {
		if err := s.repo.UpdatePasswordHash(userID, string(hash)); err != nil {
			s.logger.Warn("failed to upgrade legacy password", "user_id", userID, "error", err)
		}
	}
	return true
}

func isBcryptHash(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") ||
		strings.HasPrefix(stored, "$2b$") ||
		strings.HasPrefix(stored, "$2y$")
}

// HashPassword creates a bcrypt hash of the password.
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
