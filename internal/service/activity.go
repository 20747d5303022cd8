package service

import (
	"context"
	"time"

	"github.com/ai4local/ai4local/internal/audit"
	"github.com/ai4local/ai4local/internal/model"
	"github.com/ai4local/ai4local/internal/repository"
	"github.com/go-chi/chi/v5/middleware"
)

// Ensure ActivityService implements the audit.Logger interface
var _ audit.Logger = (*ActivityService)(nil)

// ActivityService records and lists tenant activity
type ActivityService struct {
	repo *repository.ActivityLogRepository
}

// NewActivityService creates a new ActivityService
func NewActivityService(repo *repository.ActivityLogRepository) *ActivityService {
	return &ActivityService{
		repo: repo,
	}
}

// LogAction stores an entry. Actor and request id are read from ctx.
func (s *ActivityService) LogAction(ctx context.Context, entry audit.Entry) error {
	log := &model.ActivityLog{
		OrgID:      entry.OrgID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Details:    model.JSONMap(entry.Details),
		RequestID:  middleware.GetReqID(ctx),
		CreatedAt:  time.Now().UTC(),
	}

	if actor, ok := audit.ActorFromContext(ctx); ok {
		log.UserID = actor.UserID
		log.ClientIP = actor.ClientIP
	}

	return s.repo.Create(ctx, log)
}

type ActivityQuery struct {
	EntityType string
	Action     string
	PageRequest
}

type ActivityPage struct {
	Activity   []model.ActivityLog `json:"activity"`
	Pagination Pagination          `json:"pagination"`
}

// List returns the organization's activity, newest first
func (s *ActivityService) List(ctx context.Context, orgID uint, query ActivityQuery) (*ActivityPage, error) {
	page := query.PageRequest.normalize()

	logs, total, err := s.repo.Query(ctx, repository.ActivityQuery{
		OrgID:      orgID,
		EntityType: query.EntityType,
		Action:     query.Action,
		Page:       page.window(),
	})
	if err != nil {
		return nil, err
	}

	return &ActivityPage{Activity: logs, Pagination: newPagination(page, total)}, nil
}
