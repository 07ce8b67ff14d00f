package auth

import (
	"context"

	"github.com/minhvt/corporate-portal/internal"
	userDatamodel "github.com/minhvt/corporate-portal/internal/core/datamodel/user"
)

// Cookie names are part of the wire contract shared with the three portal
// front-ends and must stay stable.
const (
	CookieAuth     = "auth"
	CookieInternal = "internal_auth"
	CookieAdmin    = "admin_auth"
)

type ctxKey string

const ContextIdentityKey ctxKey = "identity"

// PermissionFlags are the coarse access flags frozen into the session token
// at login time.
type PermissionFlags struct {
	AdminAccess  bool `json:"admin_access"`
	PortalAccess bool `json:"portal_access"`
}

// Identity is the decoded session payload. Downstream code consumes only
// this struct, never the raw cookie value.
type Identity struct {
	ID          int64           `json:"id"`
	Username    string          `json:"username"`
	Role        string          `json:"role"`
	EmployeeID  *int64          `json:"employee_id,omitempty"`
	Permissions PermissionFlags `json:"permissions"`
}

// IsAdmin honors both legacy patterns: the denormalized role string and the
// admin_access flag grant the same outcome.
func (i *Identity) IsAdmin() bool {
	return i.Role == userDatamodel.RoleAdmin || i.Permissions.AdminAccess
}

func (i *Identity) HasPortalAccess() bool {
	return i.Permissions.PortalAccess
}

func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(ContextIdentityKey).(*Identity)
	return id, ok
}

func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ContextIdentityKey, id)
}

// UserView is the user row returned to clients, minus the credential.
type UserView struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	EmployeeID *int64 `json:"employee_id,omitempty"`
	IsActive   bool   `json:"is_active"`
}

type RepositoryAPI interface {
	GetByUsername(username string) (*userDatamodel.User, error)
	GetByID(id int64) (*userDatamodel.User, error)
	RoleName(u *userDatamodel.User) (string, error)
	UpdateLastLogin(id int64) error
	UpdatePasswordHash(id int64, hash string) error
}

type ServiceAPI interface {
	Login(dto LoginDTO) (*Identity, *UserView, error)
	IdentityForUserID(id int64) (*Identity, error)
}

type SessionCodecAPI interface {
	Encode(id *Identity) (string, error)
	Decode(raw string) (*Identity, error)
}

// Auth failures share the application-wide AppError sentinels so every
// layer maps them to the same status codes and wire shape.
var (
	ErrInvalidCredentials = internal.ErrInvalidCredentials
	ErrUserInactive       = internal.ErrUserInactive
	ErrNoSession          = internal.ErrNoSession
	ErrMalformedSession   = internal.ErrMalformedSession
)

// BuildIdentity freezes a user's effective role and access flags into a
// session payload. Editors and employees get portal access; admins get both.
func BuildIdentity(u *userDatamodel.User, roleName string) *Identity {
	if roleName == "" {
		roleName = userDatamodel.RoleUser
	}
	flags := PermissionFlags{
		AdminAccess: roleName == userDatamodel.RoleAdmin,
		PortalAccess: roleName == userDatamodel.RoleAdmin ||
			roleName == userDatamodel.RoleEditor ||
			roleName == userDatamodel.RoleEmployee,
	}
	return &Identity{
		ID:          u.ID,
		Username:    u.Username,
		Role:        roleName,
		EmployeeID:  u.EmployeeID,
		Permissions: flags,
	}
}

func ViewOf(u *userDatamodel.User, roleName string) *UserView {
	if roleName == "" {
		roleName = u.Role
	}
	return &UserView{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Role:       roleName,
		EmployeeID: u.EmployeeID,
		IsActive:   u.IsActive,
	}
}
