package comment

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/newwestevents/events-backend/internal/apperror"
	"github.com/newwestevents/events-backend/internal/auditlog"
	"github.com/newwestevents/events-backend/internal/auth"
	"github.com/newwestevents/events-backend/internal/event"
	"github.com/newwestevents/events-backend/internal/sanitize"
)

type Service interface {
	Add(ctx context.Context, eventID uint, actor auth.Actor, text string, ip string) (*Comment, error)
	ListForEvent(ctx context.Context, eventID uint) ([]Comment, error)
}

type service struct {
	repo     Repository
	events   event.Repository
	auditSvc auditlog.Service
}

func NewService(repo Repository, events event.Repository, auditSvc auditlog.Service) Service {
	return &service{repo: repo, events: events, auditSvc: auditSvc}
}

func (s *service) Add(ctx context.Context, eventID uint, actor auth.Actor, text string, ip string) (*Comment, error) {
	if actor.UserID == 0 {
		return nil, apperror.Forbidden("sign in to comment")
	}

	// Whitespace-only text is rejected before the store is touched.
	if strings.TrimSpace(text) == "" {
		return nil, apperror.Validation([]string{"comment text is required"})
	}

	e, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("event")
		}
		return nil, apperror.StoreUnavailable(err)
	}
	if e.Status != event.StatusApproved {
		return nil, apperror.NotFound("event")
	}

	c := &Comment{
		EventID:    eventID,
		AuthorID:   actor.UserID,
		AuthorName: actor.Name,
		Text:       sanitize.Clean(text),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, apperror.StoreUnavailable(err)
	}

	uid := actor.UserID
	s.auditSvc.LogAction(ctx, &uid, &eventID, auditlog.ActionCommentAdded, nil, ip, "success")

	return c, nil
}

func (s *service) ListForEvent(ctx context.Context, eventID uint) ([]Comment, error) {
	comments, err := s.repo.ListForEvent(ctx, eventID)
	if err != nil {
		return nil, apperror.StoreUnavailable(err)
	}
	return comments, nil
}
