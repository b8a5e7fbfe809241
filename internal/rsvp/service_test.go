package rsvp

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/newwestevents/events-backend/internal/apperror"
	"github.com/newwestevents/events-backend/internal/auditlog"
	"github.com/newwestevents/events-backend/internal/auth"
	"github.com/newwestevents/events-backend/internal/event"
)

// ===========================
// fakes

type fakeRepo struct {
	rows map[string]*RSVP
}

func key(eventID, userID uint) string { return fmt.Sprintf("%d|%d", eventID, userID) }

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: make(map[string]*RSVP)}
}

func (r *fakeRepo) Upsert(_ context.Context, row *RSVP) error {
	cp := *row
	r.rows[key(row.EventID, row.UserID)] = &cp
	return nil
}

func (r *fakeRepo) GetForUser(_ context.Context, eventID, userID uint) (*RSVP, error) {
	row, ok := r.rows[key(eventID, userID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *row
	return &cp, nil
}

func (r *fakeRepo) ListForEvent(_ context.Context, eventID uint) ([]RSVP, error) {
	var out []RSVP
	for _, row := range r.rows {
		if row.EventID == eventID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (r *fakeRepo) CountsForEvent(_ context.Context, eventID uint) (Counts, error) {
	var counts Counts
	for _, row := range r.rows {
		if row.EventID != eventID {
			continue
		}
		switch row.Status {
		case StatusAttending:
			counts.Attending++
		case StatusNotAttending:
			counts.NotAttending++
		case StatusMaybe:
			counts.Maybe++
		}
	}
	return counts, nil
}

type fakeEvents struct {
	events map[uint]*event.Event
}

func (f *fakeEvents) Create(context.Context, *event.Event) error { return nil }
func (f *fakeEvents) Update(context.Context, *event.Event) error { return nil }
func (f *fakeEvents) UpdateStatus(context.Context, uint, string) (*event.Event, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeEvents) GetByID(_ context.Context, id uint) (*event.Event, error) {
	if e, ok := f.events[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeEvents) ExistsByUID(context.Context, string) (bool, error) { return false, nil }
func (f *fakeEvents) ListApproved(context.Context, event.Filter) ([]event.Event, error) {
	return nil, nil
}
func (f *fakeEvents) ListPending(context.Context) ([]event.Event, error)     { return nil, nil }
func (f *fakeEvents) ListByUser(context.Context, uint) ([]event.Event, error) { return nil, nil }
func (f *fakeEvents) ListUpcoming(context.Context, time.Time, int) ([]event.Event, error) {
	return nil, nil
}
func (f *fakeEvents) Delete(context.Context, uint) error { return nil }
func (f *fakeEvents) CountByStatus(context.Context) (map[string]int64, error) {
	return nil, nil
}
func (f *fakeEvents) CountUpcoming(context.Context, time.Time) (int64, error) { return 0, nil }
func (f *fakeEvents) CountByCategory(context.Context) (map[string]int64, error) { return nil, nil }
func (f *fakeEvents) CountRSVPs(context.Context) (int64, error)                 { return 0, nil }

type auditRecorder struct{ actions []string }

func (a *auditRecorder) LogAction(_ context.Context, _ *uint, _ *uint, action string, _ map[string]interface{}, _ string, _ string) {
	a.actions = append(a.actions, action)
}

func (a *auditRecorder) GetAuditLogs(context.Context, auditlog.AuditLogFilter) (*auditlog.PaginatedAuditLogs, error) {
	return nil, nil
}

func (a *auditRecorder) GetAuditLogByID(context.Context, uint) (*auditlog.AuditLog, error) {
	return nil, nil
}

// ===========================
// tests

func newService(events map[uint]*event.Event) (Service, *fakeRepo) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeEvents{events: events}, &auditRecorder{})
	return svc, repo
}

func approvedEvent(id uint) *event.Event {
	return &event.Event{ID: id, Title: "Fun Run", Status: event.StatusApproved}
}

var alice = auth.Actor{UserID: 3, Email: "alice@example.org", Name: "Alice"}

func TestToggle_UpsertKeepsOneRowPerUser(t *testing.T) {
	svc, repo := newService(map[uint]*event.Event{1: approvedEvent(1)})
	ctx := context.Background()

	resp, err := svc.Toggle(ctx, 1, alice, StatusAttending, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, StatusAttending, resp.RSVP.Status)
	assert.Equal(t, Counts{Attending: 1}, resp.Counts)

	// Second toggle by the same user replaces the row, never adds one.
	resp, err = svc.Toggle(ctx, 1, alice, StatusMaybe, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, StatusMaybe, resp.RSVP.Status)
	assert.Equal(t, Counts{Maybe: 1}, resp.Counts)
	assert.Len(t, repo.rows, 1)
}

func TestToggle_CountsSumDistinctUsers(t *testing.T) {
	svc, _ := newService(map[uint]*event.Event{1: approvedEvent(1)})
	ctx := context.Background()

	bob := auth.Actor{UserID: 4, Email: "bob@example.org"}
	carol := auth.Actor{UserID: 5, Email: "carol@example.org"}

	_, err := svc.Toggle(ctx, 1, alice, StatusAttending, "127.0.0.1")
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, 1, bob, StatusAttending, "127.0.0.1")
	require.NoError(t, err)
	resp, err := svc.Toggle(ctx, 1, carol, StatusNotAttending, "127.0.0.1")
	require.NoError(t, err)

	assert.Equal(t, Counts{Attending: 2, NotAttending: 1}, resp.Counts)
}

func TestToggle_RequiresAuthenticatedActor(t *testing.T) {
	svc, _ := newService(map[uint]*event.Event{1: approvedEvent(1)})

	_, err := svc.Toggle(context.Background(), 1, auth.Actor{}, StatusAttending, "127.0.0.1")
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
}

func TestToggle_RejectsUnknownStatus(t *testing.T) {
	svc, _ := newService(map[uint]*event.Event{1: approvedEvent(1)})

	_, err := svc.Toggle(context.Background(), 1, alice, "going", "127.0.0.1")
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestToggle_UnapprovedEventHidden(t *testing.T) {
	pending := &event.Event{ID: 2, Title: "Secret", Status: event.StatusPending}
	svc, _ := newService(map[uint]*event.Event{2: pending})

	_, err := svc.Toggle(context.Background(), 2, alice, StatusAttending, "127.0.0.1")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	_, err = svc.Toggle(context.Background(), 99, alice, StatusAttending, "127.0.0.1")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestGetForUser(t *testing.T) {
	svc, _ := newService(map[uint]*event.Event{1: approvedEvent(1)})
	ctx := context.Background()

	_, err := svc.GetForUser(ctx, 1, alice)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	_, err = svc.Toggle(ctx, 1, alice, StatusAttending, "127.0.0.1")
	require.NoError(t, err)

	row, err := svc.GetForUser(ctx, 1, alice)
	require.NoError(t, err)
	assert.Equal(t, StatusAttending, row.Status)
}
