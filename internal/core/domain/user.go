package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Role is the permission level assigned to a user by the backend.
type Role string

const (
	RoleCitizen Role = "CITIZEN"
	RoleStaff   Role = "STAFF"
	RoleAdmin   Role = "ADMIN"
)

// Roles lists every role in display order.
var Roles = []Role{RoleCitizen, RoleStaff, RoleAdmin}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// ValueString is a string the backend serializes either as a JSON string or
// as an object of the form {"value": "..."}. It always encodes as a string.
type ValueString string

func (v *ValueString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '{' {
		var wrapped struct {
			Value string `json:"value"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return err
		}
		*v = ValueString(wrapped.Value)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*v = ValueString(s)
	return nil
}

func (v ValueString) String() string { return string(v) }

// User is the account record returned by the backend at login.
type User struct {
	ID    ValueString `json:"id"`
	Email ValueString `json:"email"`
	Role  Role        `json:"role"`
}

// Initials returns the first two letters of the email local part, upper-cased,
// or "U" when no email is known.
func (u *User) Initials() string {
	if u == nil || u.Email == "" {
		return "U"
	}
	local, _, _ := strings.Cut(string(u.Email), "@")
	r := []rune(local)
	if len(r) > 2 {
		r = r[:2]
	}
	if len(r) == 0 {
		return "U"
	}
	return strings.ToUpper(string(r))
}

// DisplayName returns the email local part, falling back to "User".
func (u *User) DisplayName() string {
	if u == nil {
		return "User"
	}
	local, _, _ := strings.Cut(string(u.Email), "@")
	if local == "" {
		return "User"
	}
	return local
}
