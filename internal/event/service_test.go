package event

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/newwestevents/events-backend/internal/apperror"
	"github.com/newwestevents/events-backend/internal/auditlog"
	"github.com/newwestevents/events-backend/internal/auth"
	"github.com/newwestevents/events-backend/internal/notification"
	"github.com/newwestevents/events-backend/internal/ratelimit"
)

// ===========================
// fakes

type fakeRepo struct {
	nextID uint
	events map[uint]*Event
	rsvps  int64
	fail   error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{events: make(map[uint]*Event)}
}

func (r *fakeRepo) Create(_ context.Context, e *Event) error {
	if r.fail != nil {
		return r.fail
	}
	r.nextID++
	e.ID = r.nextID
	cp := *e
	r.events[e.ID] = &cp
	return nil
}

func (r *fakeRepo) Update(_ context.Context, e *Event) error {
	if r.fail != nil {
		return r.fail
	}
	cp := *e
	r.events[e.ID] = &cp
	return nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id uint, status string) (*Event, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	e.Status = status
	cp := *e
	return &cp, nil
}

func (r *fakeRepo) GetByID(_ context.Context, id uint) (*Event, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeRepo) ExistsByUID(_ context.Context, uid string) (bool, error) {
	for _, e := range r.events {
		if e.UID == uid {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) ListApproved(_ context.Context, _ Filter) ([]Event, error) {
	var out []Event
	for _, e := range r.events {
		if e.Status == StatusApproved {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListPending(_ context.Context) ([]Event, error) {
	var out []Event
	for _, e := range r.events {
		if e.Status == StatusPending {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListByUser(_ context.Context, userID uint) ([]Event, error) {
	var out []Event
	for _, e := range r.events {
		if e.SubmittedBy != nil && *e.SubmittedBy == userID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListUpcoming(_ context.Context, from time.Time, _ int) ([]Event, error) {
	var out []Event
	for _, e := range r.events {
		if e.Status == StatusApproved && !e.EventDate.Before(from) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.events[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *fakeRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, e := range r.events {
		counts[e.Status]++
	}
	return counts, nil
}

func (r *fakeRepo) CountByCategory(_ context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, e := range r.events {
		if e.Status == StatusApproved {
			counts[e.Category]++
		}
	}
	return counts, nil
}

func (r *fakeRepo) CountRSVPs(_ context.Context) (int64, error) {
	return r.rsvps, nil
}

func (r *fakeRepo) CountUpcoming(_ context.Context, from time.Time) (int64, error) {
	var n int64
	for _, e := range r.events {
		if e.Status == StatusApproved && !e.EventDate.Before(from) {
			n++
		}
	}
	return n, nil
}

type fakeNotif struct {
	changes []notification.ChangeEvent
}

func (n *fakeNotif) Publish(_ context.Context, c notification.ChangeEvent) error {
	n.changes = append(n.changes, c)
	return nil
}

func (n *fakeNotif) HandleChange(context.Context, notification.ChangeEvent) error { return nil }
func (n *fakeNotif) ListForUser(context.Context, uint, bool) ([]notification.InAppNotification, error) {
	return nil, nil
}
func (n *fakeNotif) MarkRead(context.Context, uint, uint) error { return nil }

type fakeUsers struct {
	users map[uint]auth.User
}

func (u *fakeUsers) Create(*auth.User) error                 { return nil }
func (u *fakeUsers) FindByEmail(string) (*auth.User, error)  { return nil, gorm.ErrRecordNotFound }
func (u *fakeUsers) Update(*auth.User) error                 { return nil }
func (u *fakeUsers) FindByID(id uint) (auth.User, error) {
	if user, ok := u.users[id]; ok {
		return user, nil
	}
	return auth.User{}, gorm.ErrRecordNotFound
}

// ===========================
// harness

type harness struct {
	svc   Service
	repo  *fakeRepo
	notif *fakeNotif
	audit *auditRecorder
}

// auditRecorder satisfies auditlog.Service.
type auditRecorder struct {
	actions []string
}

func (a *auditRecorder) LogAction(_ context.Context, _ *uint, _ *uint, action string, _ map[string]interface{}, _ string, _ string) {
	a.actions = append(a.actions, action)
}

func (a *auditRecorder) GetAuditLogs(context.Context, auditlog.AuditLogFilter) (*auditlog.PaginatedAuditLogs, error) {
	return nil, nil
}

func (a *auditRecorder) GetAuditLogByID(context.Context, uint) (*auditlog.AuditLog, error) {
	return nil, nil
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	repo := newFakeRepo()
	notif := &fakeNotif{}
	audit := &auditRecorder{}
	users := &fakeUsers{users: map[uint]auth.User{}}
	svc := NewService(repo, users, audit, notif, ratelimit.New(5, time.Minute))
	return &harness{svc: svc, repo: repo, notif: notif, audit: audit}
}

var (
	member = auth.Actor{UserID: 7, Email: "resident@example.org", Name: "Pat"}
	admin  = auth.Actor{UserID: 1, Email: "clerk@example.org", Name: "Clerk", IsAdmin: true}
)

func validRequest() CreateEventRequest {
	return CreateEventRequest{
		Title:     "Farmers Market",
		EventDate: time.Now().AddDate(0, 1, 0).Format("2006-01-02"),
		EventTime: "09:00",
		Location:  "Queens Park",
		Category:  "Community",
		IsFree:    true,
	}
}

// ===========================
// tests

func TestSubmit_NonAdminStartsPending(t *testing.T) {
	h := newHarness(t)

	e, err := h.svc.Submit(context.Background(), validRequest(), member, "127.0.0.1")
	require.NoError(t, err)

	assert.Equal(t, StatusPending, e.Status)
	require.NotNil(t, e.SubmittedBy)
	assert.Equal(t, member.UserID, *e.SubmittedBy)
	assert.NotEmpty(t, e.UID)

	require.Len(t, h.notif.changes, 1)
	assert.Equal(t, notification.ChangeInserted, h.notif.changes[0].Type)
	assert.Equal(t, StatusPending, h.notif.changes[0].Status)
}

func TestSubmit_AdminStartsApproved(t *testing.T) {
	h := newHarness(t)

	e, err := h.svc.Submit(context.Background(), validRequest(), admin, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, e.Status)
}

func TestSubmit_ValidationFailureCollectsErrors(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.Submit(context.Background(), CreateEventRequest{}, member, "127.0.0.1")
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	var ae *apperror.Error
	require.ErrorAs(t, err, &ae)
	assert.Len(t, ae.Errors, 3)
	assert.Empty(t, h.repo.events, "invalid submission must not reach the store")
}

func TestSubmit_SanitizesFreeText(t *testing.T) {
	h := newHarness(t)

	req := validRequest()
	req.Title = "<script>alert(1)</script>Garage Sale"
	req.Description = "  All welcome  "

	e, err := h.svc.Submit(context.Background(), req, member, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "Garage Sale", e.Title)
	assert.Equal(t, "All welcome", e.Description)
}

func TestSubmit_RateLimited(t *testing.T) {
	h := newHarness(t)

	for i := 0; i < 5; i++ {
		_, err := h.svc.Submit(context.Background(), validRequest(), member, "127.0.0.1")
		require.NoError(t, err)
	}

	_, err := h.svc.Submit(context.Background(), validRequest(), member, "127.0.0.1")
	require.Error(t, err)
	assert.Equal(t, apperror.KindRateLimited, apperror.KindOf(err))

	var ae *apperror.Error
	require.ErrorAs(t, err, &ae)
	assert.Greater(t, ae.RetryAfter, time.Duration(0))

	// A different identifier is unaffected.
	other := auth.Actor{UserID: 8, Email: "other@example.org"}
	_, err = h.svc.Submit(context.Background(), validRequest(), other, "127.0.0.1")
	assert.NoError(t, err)
}

func TestModeration_AdminOverridesFromAnyState(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	e, err := h.svc.Submit(ctx, validRequest(), member, "127.0.0.1")
	require.NoError(t, err)

	approved, err := h.svc.Approve(ctx, e.ID, admin, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)

	// Admin override: approved flips straight to rejected.
	rejected, err := h.svc.Reject(ctx, e.ID, admin, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, rejected.Status)

	back, err := h.svc.Approve(ctx, e.ID, admin, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, back.Status)
}

func TestModeration_NonAdminForbidden(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	e, err := h.svc.Submit(ctx, validRequest(), member, "127.0.0.1")
	require.NoError(t, err)

	_, err = h.svc.Approve(ctx, e.ID, member, "127.0.0.1")
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	_, err = h.svc.Reject(ctx, e.ID, member, "127.0.0.1")
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
}

func TestModeration_UnknownEventNotFound(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.Approve(context.Background(), 999, admin, "127.0.0.1")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestEdit_OwnerCanEditAndResultIsRevalidated(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	e, err := h.svc.Submit(ctx, validRequest(), member, "127.0.0.1")
	require.NoError(t, err)

	newTitle := "Night Market"
	updated, err := h.svc.Edit(ctx, e.ID, UpdateEventRequest{Title: &newTitle}, member, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "Night Market", updated.Title)
	assert.Equal(t, "09:00", updated.EventTime, "unchanged fields keep stored values")

	badDate := "1999-01-01"
	_, err = h.svc.Edit(ctx, e.ID, UpdateEventRequest{EventDate: &badDate}, member, "127.0.0.1")
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestEdit_StrangerForbidden(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	e, err := h.svc.Submit(ctx, validRequest(), member, "127.0.0.1")
	require.NoError(t, err)

	stranger := auth.Actor{UserID: 42, Email: "stranger@example.org"}
	newTitle := "Hijacked"
	_, err = h.svc.Edit(ctx, e.ID, UpdateEventRequest{Title: &newTitle}, stranger, "127.0.0.1")
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
}

func TestDelete_OwnerAndAdminOnly(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	e, err := h.svc.Submit(ctx, validRequest(), member, "127.0.0.1")
	require.NoError(t, err)

	stranger := auth.Actor{UserID: 42, Email: "stranger@example.org"}
	err = h.svc.Delete(ctx, e.ID, stranger, "127.0.0.1")
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	err = h.svc.Delete(ctx, e.ID, member, "127.0.0.1")
	require.NoError(t, err)
	assert.Empty(t, h.repo.events)

	require.NotEmpty(t, h.notif.changes)
	last := h.notif.changes[len(h.notif.changes)-1]
	assert.Equal(t, notification.ChangeDeleted, last.Type)
}

func TestGetVisible_HidesUnapprovedFromPublic(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	e, err := h.svc.Submit(ctx, validRequest(), member, "127.0.0.1")
	require.NoError(t, err)

	_, err = h.svc.GetVisible(ctx, e.ID, auth.Actor{})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	got, err := h.svc.GetVisible(ctx, e.ID, member)
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)

	_, err = h.svc.Approve(ctx, e.ID, admin, "127.0.0.1")
	require.NoError(t, err)

	got, err = h.svc.GetVisible(ctx, e.ID, auth.Actor{})
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, got.Status)
}

func TestListPending_AdminOnly(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.Submit(ctx, validRequest(), member, "127.0.0.1")
	require.NoError(t, err)

	_, err = h.svc.ListPending(ctx, member)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	pending, err := h.svc.ListPending(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestImportExternal_SkipsInvalidRows(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	future := time.Now().AddDate(0, 2, 0).Format("2006-01-02")
	items := []ExternalEvent{
		{Title: "Canada Day", EventDate: future, EventTime: "11:00", Location: "Pier Park"},
		{Title: "", EventDate: "bogus", EventTime: ""},
	}

	_, err := h.svc.ImportExternal(ctx, items, member, "127.0.0.1")
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	result, err := h.svc.ImportExternal(ctx, items, admin, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Skipped)
	require.Contains(t, result.Errors, "row 2")

	// Imported events are system-owned and live immediately.
	for _, e := range h.repo.events {
		assert.Nil(t, e.SubmittedBy)
		assert.Equal(t, StatusApproved, e.Status)
	}
}

func TestImportExternal_SkipsAlreadyImportedUIDs(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	future := time.Now().AddDate(0, 2, 0).Format("2006-01-02")
	feed := []ExternalEvent{
		{UID: "civic-101", Title: "Canada Day", EventDate: future, EventTime: "11:00", Location: "Pier Park"},
		{UID: "civic-102", Title: "Fireworks", EventDate: future, EventTime: "22:00", Location: "Quayside"},
	}

	first, err := h.svc.ImportExternal(ctx, feed, admin, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 2, first.Imported)

	// The same feed again must not duplicate anything.
	second, err := h.svc.ImportExternal(ctx, feed, admin, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 0, second.Imported)
	assert.Equal(t, 2, second.Skipped)
	assert.Len(t, h.repo.events, 2)

	uids := map[string]int{}
	for _, e := range h.repo.events {
		uids[e.UID]++
	}
	assert.Equal(t, map[string]int{"civic-101": 1, "civic-102": 1}, uids)
}

func TestStats_CountsByStatus(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.Submit(ctx, validRequest(), member, "127.0.0.1")
	require.NoError(t, err)
	e2, err := h.svc.Submit(ctx, validRequest(), admin, "127.0.0.1")
	require.NoError(t, err)
	_, err = h.svc.Reject(ctx, e2.ID, admin, "127.0.0.1")
	require.NoError(t, err)

	e3, err := h.svc.Submit(ctx, validRequest(), admin, "127.0.0.1")
	require.NoError(t, err)
	require.Equal(t, StatusApproved, e3.Status)
	h.repo.rsvps = 4

	stats, err := h.svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(1), stats.Pending)
	assert.Equal(t, int64(1), stats.Rejected)
	assert.Equal(t, int64(1), stats.Approved)
	assert.Equal(t, int64(4), stats.TotalRSVPs)
	assert.Equal(t, map[string]int64{"Community": 1}, stats.ByCategory)
}
