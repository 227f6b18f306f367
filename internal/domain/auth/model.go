// Package auth provides login and token issuance for the whitelisted
// operators of the ledger.
package auth

import (
	"strings"
	"time"
)

// Role of an authenticated user.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleSeller Role = "seller"
)

// User is one whitelisted operator.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TokenPair is the issued credential.
type TokenPair struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	User        *User     `json:"user"`
}

// ParseWhitelist parses "email:role,email:role" into a role map.
// Entries without a role default to seller. Emails are lowercased.
func ParseWhitelist(raw string) map[string]Role {
	out := make(map[string]Role)
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		email, role, found := strings.Cut(entry, ":")
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" {
			continue
		}
		if !found || strings.TrimSpace(role) == "" {
			out[email] = RoleSeller
			continue
		}
		out[email] = Role(strings.TrimSpace(role))
	}
	return out
}
