package domain

// Identity is the verified caller of a protected request, as carried by its
// bearer token. It is not re-checked against the store.
type Identity struct {
	UserID string
	Email  string
	Role   Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
