package event

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/newwestevents/events-backend/internal/apperror"
	"github.com/newwestevents/events-backend/internal/auditlog"
	"github.com/newwestevents/events-backend/internal/auth"
	"github.com/newwestevents/events-backend/internal/notification"
	"github.com/newwestevents/events-backend/internal/ratelimit"
	"github.com/newwestevents/events-backend/internal/sanitize"
	"github.com/newwestevents/events-backend/utils"
)

// Service orchestrates the event lifecycle: validate, sanitize, rate-limit,
// persist, transition. Every mutation is audited and announced as a typed
// change event.
type Service interface {
	Submit(ctx context.Context, req CreateEventRequest, actor auth.Actor, ip string) (*Event, error)
	Approve(ctx context.Context, id uint, actor auth.Actor, ip string) (*Event, error)
	Reject(ctx context.Context, id uint, actor auth.Actor, ip string) (*Event, error)
	Edit(ctx context.Context, id uint, req UpdateEventRequest, actor auth.Actor, ip string) (*Event, error)
	Delete(ctx context.Context, id uint, actor auth.Actor, ip string) error
	ImportExternal(ctx context.Context, items []ExternalEvent, actor auth.Actor, ip string) (*ImportResult, error)

	ListApproved(ctx context.Context, f Filter) ([]Event, error)
	ListPending(ctx context.Context, actor auth.Actor) ([]Event, error)
	ListByUser(ctx context.Context, userID uint) ([]Event, error)
	GetVisible(ctx context.Context, id uint, actor auth.Actor) (*Event, error)
	Upcoming(ctx context.Context, limit int) ([]Event, error)
	GetStats(ctx context.Context) (*Stats, error)
}

type service struct {
	repo     Repository
	users    auth.Repository
	auditSvc auditlog.Service
	notifSvc notification.Service
	limiter  *ratelimit.Limiter
}

// NewService wires the lifecycle with its collaborators. The limiter is
// injected, not a package singleton, so its lifetime is the server's and
// tests can build their own.
func NewService(repo Repository, users auth.Repository, auditSvc auditlog.Service, notifSvc notification.Service, limiter *ratelimit.Limiter) Service {
	return &service{
		repo:     repo,
		users:    users,
		auditSvc: auditSvc,
		notifSvc: notifSvc,
		limiter:  limiter,
	}
}

// storeErr maps persistence failures onto the error taxonomy.
func storeErr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(what)
	}
	return apperror.StoreUnavailable(err)
}

// ===========================
// Submit
func (s *service) Submit(ctx context.Context, req CreateEventRequest, actor auth.Actor, ip string) (*Event, error) {
	if !s.limiter.Allow(actor.Key()) {
		retryAfter := s.limiter.RemainingTime(actor.Key())
		s.auditSvc.LogAction(ctx, actorID(actor), nil, auditlog.ActionEventSubmitted,
			map[string]interface{}{"title": req.Title, "error": "rate limited"}, ip, "failure")
		return nil, apperror.RateLimited(retryAfter)
	}

	if errs := Validate(Candidate{
		Title:       req.Title,
		Date:        req.EventDate,
		Time:        req.EventTime,
		Location:    req.Location,
		Description: req.Description,
		Link:        req.Link,
		Category:    req.Category,
	}); len(errs) > 0 {
		s.auditSvc.LogAction(ctx, actorID(actor), nil, auditlog.ActionEventSubmitted,
			map[string]interface{}{"title": req.Title, "errors": errs}, ip, "failure")
		return nil, apperror.Validation(errs)
	}

	eventDate, err := time.Parse("2006-01-02", req.EventDate)
	if err != nil {
		return nil, apperror.Validation([]string{"date must be a valid calendar date"})
	}

	// Admin submissions are trusted and go live immediately.
	status := StatusPending
	if actor.IsAdmin {
		status = StatusApproved
	}

	e := &Event{
		UID:          uuid.NewString(),
		Title:        sanitize.Clean(req.Title),
		EventDate:    eventDate,
		EventTime:    req.EventTime,
		Location:     sanitize.Clean(req.Location),
		Description:  sanitize.Clean(req.Description),
		Link:         req.Link,
		Category:     req.Category,
		IsFree:       req.IsFree,
		IsAccessible: req.IsAccessible,
		SubmittedBy:  actorID(actor),
		Status:       status,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		s.auditSvc.LogAction(ctx, actorID(actor), nil, auditlog.ActionEventSubmitted,
			map[string]interface{}{"title": e.Title, "error": err.Error()}, ip, "failure")
		return nil, apperror.StoreUnavailable(err)
	}

	s.auditSvc.LogAction(ctx, actorID(actor), &e.ID, auditlog.ActionEventSubmitted,
		map[string]interface{}{"title": e.Title, "status": e.Status}, ip, "success")
	s.publishChange(ctx, notification.ChangeInserted, e.ID, e.Status)

	return e, nil
}

// ===========================
// Moderation
func (s *service) Approve(ctx context.Context, id uint, actor auth.Actor, ip string) (*Event, error) {
	return s.setStatus(ctx, id, StatusApproved, actor, ip, auditlog.ActionEventApproved)
}

func (s *service) Reject(ctx context.Context, id uint, actor auth.Actor, ip string) (*Event, error) {
	return s.setStatus(ctx, id, StatusRejected, actor, ip, auditlog.ActionEventRejected)
}

// setStatus is the admin override: it transitions from any current status,
// including flipping approved and rejected directly.
func (s *service) setStatus(ctx context.Context, id uint, status string, actor auth.Actor, ip string, action string) (*Event, error) {
	if !actor.IsAdmin {
		return nil, apperror.Forbidden("only admins can moderate events")
	}

	e, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, storeErr(err, "event")
	}
	e.Status = status

	s.auditSvc.LogAction(ctx, actorID(actor), &e.ID, action,
		map[string]interface{}{"title": e.Title, "status": status}, ip, "success")
	s.publishChange(ctx, notification.ChangeUpdated, e.ID, status)
	s.emailSubmitter(ctx, e, status)

	return e, nil
}

// emailSubmitter sends the moderation outcome to the submitter, best-effort.
func (s *service) emailSubmitter(ctx context.Context, e *Event, status string) {
	if e.SubmittedBy == nil {
		return
	}
	user, err := s.users.FindByID(*e.SubmittedBy)
	if err != nil {
		utils.Log.WithField("event_id", e.ID).Debugf("submitter lookup failed, skipping email: %v", err)
		return
	}
	switch status {
	case StatusApproved:
		utils.SendEventApprovalEmail(user.Email, user.Name, e.Title, e.EventDate.Format("2006-01-02"))
	case StatusRejected:
		utils.SendEventRejectionEmail(user.Email, user.Name, e.Title)
	}
}

// ===========================
// Edit
func (s *service) Edit(ctx context.Context, id uint, req UpdateEventRequest, actor auth.Actor, ip string) (*Event, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "event")
	}
	if !canModify(actor, e) {
		return nil, apperror.Forbidden("only admins or the submitter can edit an event")
	}

	// Merge the requested changes over the stored values, then validate the
	// merged result as a whole.
	merged := Candidate{
		Title:       e.Title,
		Date:        e.EventDate.Format("2006-01-02"),
		Time:        e.EventTime,
		Location:    e.Location,
		Description: e.Description,
		Link:        e.Link,
		Category:    e.Category,
	}
	if req.Title != nil {
		merged.Title = *req.Title
	}
	if req.EventDate != nil {
		merged.Date = *req.EventDate
	}
	if req.EventTime != nil {
		merged.Time = *req.EventTime
	}
	if req.Location != nil {
		merged.Location = *req.Location
	}
	if req.Description != nil {
		merged.Description = *req.Description
	}
	if req.Link != nil {
		merged.Link = *req.Link
	}
	if req.Category != nil {
		merged.Category = *req.Category
	}

	if errs := Validate(merged); len(errs) > 0 {
		return nil, apperror.Validation(errs)
	}

	eventDate, err := time.Parse("2006-01-02", merged.Date)
	if err != nil {
		return nil, apperror.Validation([]string{"date must be a valid calendar date"})
	}

	e.Title = sanitize.Clean(merged.Title)
	e.EventDate = eventDate
	e.EventTime = merged.Time
	e.Location = sanitize.Clean(merged.Location)
	e.Description = sanitize.Clean(merged.Description)
	e.Link = merged.Link
	e.Category = merged.Category
	if req.IsFree != nil {
		e.IsFree = *req.IsFree
	}
	if req.IsAccessible != nil {
		e.IsAccessible = *req.IsAccessible
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, apperror.StoreUnavailable(err)
	}

	s.auditSvc.LogAction(ctx, actorID(actor), &e.ID, auditlog.ActionEventUpdated,
		map[string]interface{}{"title": e.Title}, ip, "success")
	s.publishChange(ctx, notification.ChangeUpdated, e.ID, e.Status)

	return e, nil
}

// ===========================
// Delete
func (s *service) Delete(ctx context.Context, id uint, actor auth.Actor, ip string) error {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return storeErr(err, "event")
	}
	if !canModify(actor, e) {
		return apperror.Forbidden("only admins or the submitter can delete an event")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return apperror.StoreUnavailable(err)
	}

	s.auditSvc.LogAction(ctx, actorID(actor), &id, auditlog.ActionEventDeleted,
		map[string]interface{}{"title": e.Title}, ip, "success")
	s.publishChange(ctx, notification.ChangeDeleted, id, e.Status)

	return nil
}

// ===========================
// Bulk import of external feeds (admin only). Rows are validated and
// sanitized individually; invalid rows are skipped and reported, never
// aborting the batch.
func (s *service) ImportExternal(ctx context.Context, items []ExternalEvent, actor auth.Actor, ip string) (*ImportResult, error) {
	if !actor.IsAdmin {
		return nil, apperror.Forbidden("only admins can import events")
	}

	result := &ImportResult{Errors: make(map[string][]string)}

	for i, item := range items {
		// Dedupe against the source feed's stable id: rows already stored
		// are skipped, so re-importing a feed is safe.
		uid := strings.TrimSpace(item.UID)
		if uid != "" {
			exists, err := s.repo.ExistsByUID(ctx, uid)
			if err != nil {
				return nil, apperror.StoreUnavailable(err)
			}
			if exists {
				result.Skipped++
				continue
			}
		} else {
			uid = uuid.NewString()
		}

		errs := Validate(Candidate{
			Title:       item.Title,
			Date:        item.EventDate,
			Time:        item.EventTime,
			Location:    item.Location,
			Description: item.Description,
			Link:        item.Link,
			Category:    item.Category,
		})
		if len(errs) > 0 {
			result.Skipped++
			key := item.Title
			if key == "" {
				key = fmt.Sprintf("row %d", i+1)
			}
			result.Errors[key] = errs
			continue
		}

		eventDate, _ := time.Parse("2006-01-02", item.EventDate)
		e := &Event{
			UID:          uid,
			Title:        sanitize.Clean(item.Title),
			EventDate:    eventDate,
			EventTime:    item.EventTime,
			Location:     sanitize.Clean(item.Location),
			Description:  sanitize.Clean(item.Description),
			Link:         item.Link,
			Category:     item.Category,
			IsFree:       item.IsFree,
			IsAccessible: item.IsAccessible,
			SubmittedBy:  nil, // system-imported
			Status:       StatusApproved,
		}

		if err := s.repo.Create(ctx, e); err != nil {
			return nil, apperror.StoreUnavailable(err)
		}
		result.Imported++
		s.publishChange(ctx, notification.ChangeInserted, e.ID, e.Status)
	}

	if len(result.Errors) == 0 {
		result.Errors = nil
	}

	s.auditSvc.LogAction(ctx, actorID(actor), nil, auditlog.ActionEventsImported,
		map[string]interface{}{"imported": result.Imported, "skipped": result.Skipped}, ip, "success")

	return result, nil
}

// ===========================
// Read views
func (s *service) ListApproved(ctx context.Context, f Filter) ([]Event, error) {
	events, err := s.repo.ListApproved(ctx, f)
	if err != nil {
		return nil, apperror.StoreUnavailable(err)
	}
	return events, nil
}

func (s *service) ListPending(ctx context.Context, actor auth.Actor) ([]Event, error) {
	if !actor.IsAdmin {
		return nil, apperror.Forbidden("only admins can view pending events")
	}
	events, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, apperror.StoreUnavailable(err)
	}
	return events, nil
}

func (s *service) ListByUser(ctx context.Context, userID uint) ([]Event, error) {
	events, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.StoreUnavailable(err)
	}
	return events, nil
}

// GetVisible returns the event when the caller may see it: approved events
// are public, anything else is visible only to admins and the submitter.
func (s *service) GetVisible(ctx context.Context, id uint, actor auth.Actor) (*Event, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "event")
	}
	if e.Status != StatusApproved && !canModify(actor, e) {
		return nil, apperror.NotFound("event")
	}
	return e, nil
}

func (s *service) Upcoming(ctx context.Context, limit int) ([]Event, error) {
	today := startOfDay(time.Now())
	events, err := s.repo.ListUpcoming(ctx, today, limit)
	if err != nil {
		return nil, apperror.StoreUnavailable(err)
	}
	return events, nil
}

func (s *service) GetStats(ctx context.Context) (*Stats, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, apperror.StoreUnavailable(err)
	}
	upcoming, err := s.repo.CountUpcoming(ctx, startOfDay(time.Now()))
	if err != nil {
		return nil, apperror.StoreUnavailable(err)
	}
	byCategory, err := s.repo.CountByCategory(ctx)
	if err != nil {
		return nil, apperror.StoreUnavailable(err)
	}
	totalRSVPs, err := s.repo.CountRSVPs(ctx)
	if err != nil {
		return nil, apperror.StoreUnavailable(err)
	}

	stats := &Stats{
		Pending:    counts[StatusPending],
		Approved:   counts[StatusApproved],
		Rejected:   counts[StatusRejected],
		Upcoming:   upcoming,
		TotalRSVPs: totalRSVPs,
		ByCategory: byCategory,
	}
	stats.Total = stats.Pending + stats.Approved + stats.Rejected
	return stats, nil
}

// ===========================
// helpers

func canModify(actor auth.Actor, e *Event) bool {
	if actor.IsAdmin {
		return true
	}
	return e.SubmittedBy != nil && actor.UserID != 0 && *e.SubmittedBy == actor.UserID
}

func actorID(actor auth.Actor) *uint {
	if actor.UserID == 0 {
		return nil
	}
	id := actor.UserID
	return &id
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (s *service) publishChange(ctx context.Context, changeType string, eventID uint, status string) {
	change := notification.ChangeEvent{Type: changeType, EventID: eventID, Status: status}
	if err := s.notifSvc.Publish(ctx, change); err != nil {
		utils.Log.WithField("event_id", eventID).Warnf("change publish failed: %v", err)
	}
}
