package model

// Principal is the authenticated admin identity attached to a request.
type Principal struct {
	AdminID uint
	Email   string
	Role    AdminRole
}

func (p Principal) IsAdmin() bool {
	return p.Role == AdminRoleAdmin
}
