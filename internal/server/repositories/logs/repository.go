package logs

import (
	"context"

	"github.com/dmitrijs2005/dsalog/internal/server/models"
)

// Repository persists log entries. Every operation is scoped to the owning
// user; an entry belonging to someone else behaves as if it did not exist.
//
// Create and Update return common.ErrorAlreadyExists when the user already
// logged the same problem link. Update and Delete return
// common.ErrorNotFound for unknown or foreign entries.
type Repository interface {
	Create(ctx context.Context, entry *models.LogEntry) (*models.LogEntry, error)
	ListByUser(ctx context.Context, userID string) ([]*models.LogEntry, error)
	Update(ctx context.Context, entry *models.LogEntry) (*models.LogEntry, error)
	Delete(ctx context.Context, userID, id string) error
}
