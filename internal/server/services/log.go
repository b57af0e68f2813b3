package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/dsalog/internal/common"
	"github.com/dmitrijs2005/dsalog/internal/logging"
	"github.com/dmitrijs2005/dsalog/internal/server/models"
	"github.com/dmitrijs2005/dsalog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/dsalog/internal/server/validate"
)

// LogService manages the practice log of an authenticated user.
type LogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewLogService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *LogService {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &LogService{db: db, repomanager: m, logger: logger.With("module", "logs")}
}

// Add records a new problem for userID. Logging the same link twice yields
// common.ErrorAlreadyExists.
func (s *LogService) Add(ctx context.Context, userID string, in models.LogInput) (*models.LogEntry, error) {
	if err := validate.Log(&in); err != nil {
		return nil, err
	}

	entry := fromInput(in)
	entry.UserID = userID

	created, err := s.repomanager.Logs(s.db).Create(ctx, entry)
	if err != nil {
		return nil, s.mapErr(ctx, "create log", err)
	}
	return created, nil
}

// List returns the user's entries newest first, or common.ErrorNotFound
// when there are none.
func (s *LogService) List(ctx context.Context, userID string) ([]*models.LogEntry, error) {
	entries, err := s.repomanager.Logs(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, s.mapErr(ctx, "list logs", err)
	}
	if len(entries) == 0 {
		return nil, common.ErrorNotFound
	}
	return entries, nil
}

// Update replaces the editable fields of one of the user's entries.
func (s *LogService) Update(ctx context.Context, userID, id string, in models.LogInput) (*models.LogEntry, error) {
	if err := validate.Log(&in); err != nil {
		return nil, err
	}
	if uuid.Validate(id) != nil {
		return nil, common.ErrorNotFound
	}

	entry := fromInput(in)
	entry.ID = id
	entry.UserID = userID

	updated, err := s.repomanager.Logs(s.db).Update(ctx, entry)
	if err != nil {
		return nil, s.mapErr(ctx, "update log", err)
	}
	return updated, nil
}

// Delete removes one of the user's entries.
func (s *LogService) Delete(ctx context.Context, userID, id string) error {
	if uuid.Validate(id) != nil {
		return common.ErrorNotFound
	}
	if err := s.repomanager.Logs(s.db).Delete(ctx, userID, id); err != nil {
		return s.mapErr(ctx, "delete log", err)
	}
	return nil
}

// mapErr passes the sentinels callers act on through and collapses
// everything else to common.ErrorInternal after logging it.
func (s *LogService) mapErr(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return common.ErrorNotFound
	case errors.Is(err, common.ErrorAlreadyExists):
		return common.ErrorAlreadyExists
	}
	s.logger.Error(ctx, op+" failed", "error", err)
	return common.ErrorInternal
}

func fromInput(in models.LogInput) *models.LogEntry {
	return &models.LogEntry{
		ProblemName: in.ProblemName,
		ProblemLink: in.ProblemLink,
		Topics:      in.Topics,
		Difficulty:  in.Difficulty,
		Status:      in.Status,
		Notes:       in.Notes,
	}
}
