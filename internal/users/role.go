package users

import "fmt"

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleGerente  UserRole = "gerente"
	RoleVendedor UserRole = "vendedor"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleGerente, RoleVendedor:
		return true
	default:
		return false
	}
}

// RequiresLoja reports whether the role must be bound to a store.
func (r UserRole) RequiresLoja() bool {
	return r == RoleGerente || r == RoleVendedor
}

// CanSell reports whether the role may be assigned as an obra's seller.
func (r UserRole) CanSell() bool {
	return r == RoleGerente || r == RoleVendedor
}

func ParseUserRole(s string) (UserRole, error) {
	r := UserRole(s)
	if !r.Valid() {
		return "", fmt.Errorf("invalid role: %q", s)
	}
	return r, nil
}
