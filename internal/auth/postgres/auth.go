package postgres

import (
	"errors"
	"time"

	"github.com/minhvt/corporate-portal/internal"
	"github.com/minhvt/corporate-portal/internal/auth"
	userDatamodel "github.com/minhvt/corporate-portal/internal/core/datamodel/user"
	"gorm.io/gorm"
)

// Repository implements auth.RepositoryAPI using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) auth.RepositoryAPI {
	return &Repository{db: db}
}

// GetByUsername looks up exactly one user row by exact-match username.
func (r *Repository) GetByUsername(username string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("username = ?", username).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repository) GetByID(id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// RoleName resolves a user's effective role: the authoritative role_id wins
// when set, falling back to the denormalized users.role string.
func (r *Repository) RoleName(u *userDatamodel.User) (string, error) {
	if u.RoleID != nil {
		var role userDatamodel.Role
		err := r.db.Where("id = ? AND is_active = ?", *u.RoleID, true).First(&role).Error
		if err == nil {
			return role.Name, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", err
		}
	}
	return u.Role, nil
}

func (r *Repository) UpdateLastLogin(id int64) error {
	now := time.Now()
	return r.db.Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_login": now,
			"updated_at": now,
		}).Error
}

func (r *Repository) UpdatePasswordHash(id int64, hash string) error {
	return r.db.Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password_hash": hash,
			"updated_at":    time.Now(),
		}).Error
}
