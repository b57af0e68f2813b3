// Package users implements the credential store: durable user identities
// keyed by a unique normalised email.
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/dsalog/internal/server/models"
)

// Repository persists user identities.
//
// Lookups return common.ErrorNotFound when no row matches. Create returns
// common.ErrorAlreadyExists when the email is already registered.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	// LockByID is FindByID that also locks the row until the surrounding
	// transaction ends.
	LockByID(ctx context.Context, id string) (*models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string, changedAt time.Time) error
	UpdatePhoto(ctx context.Context, id, photo string) error
}
