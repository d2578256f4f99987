package model

import "time"

type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

// RoleFor derives the token role from the admin flag at issuance time.
func RoleFor(isAdmin bool) Role {
	if isAdmin {
		return RoleAdmin
	}
	return RoleUser
}

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is the stored identity record. PasswordHash is never serialized.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Claims is the verified content of a session token.
type Claims struct {
	Subject   int64     `json:"sub"`
	Role      Role      `json:"role"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

func (c Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// Session is what the authorization gate establishes for a request.
type Session struct {
	Claims Claims
	User   User
}

type LoginResult struct {
	Token string `json:"jwt"`
	User  User   `json:"user"`
}
