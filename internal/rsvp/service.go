package rsvp

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/newwestevents/events-backend/internal/apperror"
	"github.com/newwestevents/events-backend/internal/auditlog"
	"github.com/newwestevents/events-backend/internal/auth"
	"github.com/newwestevents/events-backend/internal/event"
)

type Service interface {
	// Toggle upserts the caller's RSVP and returns it with the fresh
	// per-event aggregate.
	Toggle(ctx context.Context, eventID uint, actor auth.Actor, status string, ip string) (*ToggleResponse, error)
	CountsForEvent(ctx context.Context, eventID uint) (Counts, error)
	GetForUser(ctx context.Context, eventID uint, actor auth.Actor) (*RSVP, error)
}

type service struct {
	repo     Repository
	events   event.Repository
	auditSvc auditlog.Service
}

func NewService(repo Repository, events event.Repository, auditSvc auditlog.Service) Service {
	return &service{repo: repo, events: events, auditSvc: auditSvc}
}

func (s *service) Toggle(ctx context.Context, eventID uint, actor auth.Actor, status string, ip string) (*ToggleResponse, error) {
	if actor.UserID == 0 {
		return nil, apperror.Forbidden("sign in to RSVP")
	}
	if !ValidStatus(status) {
		return nil, apperror.Validation([]string{"status must be attending, not_attending or maybe"})
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

	row := &RSVP{
		EventID:   eventID,
		UserID:    actor.UserID,
		UserEmail: actor.Email,
		Status:    status,
	}
	if err := s.repo.Upsert(ctx, row); err != nil {
		return nil, apperror.StoreUnavailable(err)
	}

	stored, err := s.repo.GetForUser(ctx, eventID, actor.UserID)
	if err != nil {
		return nil, apperror.StoreUnavailable(err)
	}
	counts, err := s.repo.CountsForEvent(ctx, eventID)
	if err != nil {
		return nil, apperror.StoreUnavailable(err)
	}

	uid := actor.UserID
	s.auditSvc.LogAction(ctx, &uid, &eventID, auditlog.ActionRSVPUpdated,
		map[string]interface{}{"status": status}, ip, "success")

	return &ToggleResponse{RSVP: *stored, Counts: counts}, nil
}

func (s *service) CountsForEvent(ctx context.Context, eventID uint) (Counts, error) {
	counts, err := s.repo.CountsForEvent(ctx, eventID)
	if err != nil {
		return Counts{}, apperror.StoreUnavailable(err)
	}
	return counts, nil
}

func (s *service) GetForUser(ctx context.Context, eventID uint, actor auth.Actor) (*RSVP, error) {
	if actor.UserID == 0 {
		return nil, apperror.Forbidden("sign in to see your RSVP")
	}
	row, err := s.repo.GetForUser(ctx, eventID, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("rsvp")
		}
		return nil, apperror.StoreUnavailable(err)
	}
	return row, nil
}
