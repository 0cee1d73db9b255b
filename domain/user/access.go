package user

// IsAdmin reports whether u is an administrator. A nil user is not.
func IsAdmin(u *User) bool {
	return u != nil && u.Role == RoleAdmin
}

// CanAccess decides whether u may use the functionality behind key.
// Administrators bypass every check and the home key is open to any
// authenticated user; everyone else needs the key in their stored set.
func CanAccess(u *User, key Permission) bool {
	if u == nil {
		return false
	}
	if u.Role == RoleAdmin {
		return true
	}
	if key == PermHome {
		return true
	}
	return u.HasPermission(key)
}
