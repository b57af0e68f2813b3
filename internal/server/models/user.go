// Package models defines server-side data models persisted in the database
// and the request inputs the services accept.
package models

import "time"

// User is a registered identity as stored by the credential store.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Photo        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	// PasswordChangedAt is zero until the password is changed for the
	// first time. Tokens issued before it are no longer accepted.
	PasswordChangedAt time.Time
}

// PublicUser is the projection of User that may leave the server.
type PublicUser struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Photo     string    `json:"photo"`
	CreatedAt time.Time `json:"createdAt"`
}

// Public returns the projection of u without the password hash.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Photo:     u.Photo,
		CreatedAt: u.CreatedAt,
	}
}
