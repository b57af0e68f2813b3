package logs

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/dsalog/internal/common"
	"github.com/dmitrijs2005/dsalog/internal/server/models"
)

// MemoryRepository keeps log entries in process memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries map[string]*models.LogEntry
	now     func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		entries: make(map[string]*models.LogEntry),
		now:     time.Now,
	}
}

// linkTaken reports whether userID already has an entry other than exceptID
// with the given non-empty link. Caller holds the lock.
func (r *MemoryRepository) linkTaken(userID, link, exceptID string) bool {
	if link == "" {
		return false
	}
	for id, e := range r.entries {
		if id != exceptID && e.UserID == userID && e.ProblemLink == link {
			return true
		}
	}
	return false
}

func clone(e *models.LogEntry) *models.LogEntry {
	c := *e
	c.Topics = slices.Clone(e.Topics)
	return &c
}

func (r *MemoryRepository) Create(_ context.Context, entry *models.LogEntry) (*models.LogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.linkTaken(entry.UserID, entry.ProblemLink, "") {
		return nil, common.ErrorAlreadyExists
	}

	now := r.now().UTC()
	entry.ID = uuid.NewString()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	r.entries[entry.ID] = clone(entry)

	return entry, nil
}

func (r *MemoryRepository) ListByUser(_ context.Context, userID string) ([]*models.LogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.LogEntry
	for _, e := range r.entries {
		if e.UserID == userID {
			result = append(result, clone(e))
		}
	}
	slices.SortFunc(result, func(a, b *models.LogEntry) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return result, nil
}

func (r *MemoryRepository) Update(_ context.Context, entry *models.LogEntry) (*models.LogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.entries[entry.ID]
	if !ok || stored.UserID != entry.UserID {
		return nil, common.ErrorNotFound
	}
	if r.linkTaken(entry.UserID, entry.ProblemLink, entry.ID) {
		return nil, common.ErrorAlreadyExists
	}

	entry.CreatedAt = stored.CreatedAt
	entry.UpdatedAt = r.now().UTC()
	r.entries[entry.ID] = clone(entry)

	return entry, nil
}

func (r *MemoryRepository) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.entries[id]
	if !ok || stored.UserID != userID {
		return common.ErrorNotFound
	}
	delete(r.entries, id)
	return nil
}
