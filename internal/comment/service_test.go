package comment

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
	"github.com/newwestevents/events-backend/internal/event"
)

type fakeRepo struct {
	created []Comment
	nextID  uint
}

func (r *fakeRepo) Create(_ context.Context, c *Comment) error {
	r.nextID++
	c.ID = r.nextID
	r.created = append(r.created, *c)
	return nil
}

func (r *fakeRepo) ListForEvent(_ context.Context, eventID uint) ([]Comment, error) {
	var out []Comment
	for _, c := range r.created {
		if c.EventID == eventID {
			out = append(out, c)
		}
	}
	return out, nil
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
func (f *fakeEvents) ListPending(context.Context) ([]event.Event, error)      { return nil, nil }
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

var commenter = auth.Actor{UserID: 9, Email: "sam@example.org", Name: "Sam"}

func newService() (Service, *fakeRepo) {
	repo := &fakeRepo{}
	approved := &event.Event{ID: 1, Title: "Art Walk", Status: event.StatusApproved}
	svc := NewService(repo, &fakeEvents{events: map[uint]*event.Event{1: approved}}, &auditRecorder{})
	return svc, repo
}

func TestAdd_AppendsSanitizedComment(t *testing.T) {
	svc, repo := newService()

	c, err := svc.Add(context.Background(), 1, commenter, "<script>x</script>Lovely event!", "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "Lovely event!", c.Text)
	assert.Equal(t, "Sam", c.AuthorName)
	assert.Len(t, repo.created, 1)
}

func TestAdd_WhitespaceOnlyRejectedBeforeStore(t *testing.T) {
	svc, repo := newService()

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := svc.Add(context.Background(), 1, commenter, text, "127.0.0.1")
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	}
	assert.Empty(t, repo.created, "rejected comments must never reach the store")
}

func TestAdd_RequiresAuthentication(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Add(context.Background(), 1, auth.Actor{}, "hi", "127.0.0.1")
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
}

func TestAdd_UnknownEventNotFound(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Add(context.Background(), 42, commenter, "hi", "127.0.0.1")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestList_OldestFirstOrderPreserved(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.Add(ctx, 1, commenter, "first", "127.0.0.1")
	require.NoError(t, err)
	_, err = svc.Add(ctx, 1, commenter, "second", "127.0.0.1")
	require.NoError(t, err)

	comments, err := svc.ListForEvent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Text)
	assert.Equal(t, "second", comments[1].Text)
}
