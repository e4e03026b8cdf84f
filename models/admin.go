// File: models/admin.go
package models

// Admin is the single privileged operator account.
type Admin struct {
	ID           int64
	Username     string
	PasswordHash string
}

// Identity is the authenticated admin carried through a request.
type Identity struct {
	AdminID  int64
	Username string
	// SessionVersion changes whenever the password does; sessions minted
	// under an older version are refused.
	SessionVersion string
}
