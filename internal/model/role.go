package model

import (
	"fmt"
	"strings"
)

// Role is the closed set of account types. Anything outside the three
// constants below is rejected at the parsing boundary, so the rest of
// the code can switch on Role without a default arm for garbage input.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleSeller Role = "seller"
	RoleUser   Role = "user"
)

// ParseRole validates and normalizes a raw usertype string.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleSeller:
		return RoleSeller, nil
	case RoleUser:
		return RoleUser, nil
	}
	return "", fmt.Errorf("unknown usertype %q", s)
}

func (r Role) IsAdmin() bool { return r == RoleAdmin }

func (r Role) String() string { return string(r) }
