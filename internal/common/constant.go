// Package common contains shared constants and sentinel errors used across
// dsalog server components.
package common

// SessionCookieName is the cookie that carries the session token between the
// browser and the server.
const SessionCookieName = "token"

// DefaultPhotoURL is assigned to identities that never uploaded a photo.
const DefaultPhotoURL = "https://res.cloudinary.com/dz1qj3v2h/image/upload/v1735681234/default_user_photo.png"
