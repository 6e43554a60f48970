package domain

import "context"

// User is an authenticated caller resolved by the upstream auth service.
// The ledger only consumes the identity and role; it never issues tokens.
type User struct {
	ID   string
	Name string
	Role Role
}

// Role is a caller's access level. The role names match the legacy
// back-office system verbatim.
type Role string

const (
	// RoleAdmin has full access to all operations.
	RoleAdmin Role = "ADMIN"

	// RoleGerencia manages obligations and may void liquidations.
	RoleGerencia Role = "GERENCIA"

	// RoleOperarios records movements and creates liquidations, but cannot
	// void them.
	RoleOperarios Role = "OPERARIOS"

	// RoleAuditores has read-only access.
	RoleAuditores Role = "AUDITORES"
)

var validUserRoles = map[Role]bool{
	RoleAdmin:     true,
	RoleGerencia:  true,
	RoleOperarios: true,
	RoleAuditores: true,
}

// IsValid checks if the role is a known role.
func (r Role) IsValid() bool {
	return validUserRoles[r]
}

// CanWrite checks if the role can create obligations, movements and
// liquidations.
func (r Role) CanWrite() bool {
	return r == RoleAdmin || r == RoleGerencia || r == RoleOperarios
}

// CanVoid checks if the role can void movements and liquidations.
func (r Role) CanVoid() bool {
	return r == RoleAdmin || r == RoleGerencia
}

type userContextKey struct{}

// ContextWithUser attaches the authenticated user to a context.
func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, u)
}

// UserFromContext extracts the authenticated user from a context.
func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(userContextKey{}).(*User)
	return u, ok
}
