package notification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRepo struct {
	created  []InAppNotification
	adminIDs []uint
}

func (r *fakeRepo) AdminIDs(_ context.Context) ([]uint, error) {
	return r.adminIDs, nil
}

func (r *fakeRepo) Create(_ context.Context, n *InAppNotification) error {
	r.created = append(r.created, *n)
	return nil
}

func (r *fakeRepo) ListForUser(_ context.Context, userID uint, unreadOnly bool) ([]InAppNotification, error) {
	var out []InAppNotification
	for _, n := range r.created {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *fakeRepo) MarkRead(_ context.Context, id, userID uint) error {
	for i := range r.created {
		if r.created[i].ID == id && r.created[i].UserID == userID {
			r.created[i].IsRead = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func lookupFor(info map[uint]*EventInfo) EventLookup {
	return func(_ context.Context, eventID uint) (*EventInfo, error) {
		return info[eventID], nil
	}
}

func TestChangeEvent_Validate(t *testing.T) {
	assert.NoError(t, ChangeEvent{Type: ChangeInserted, EventID: 1}.Validate())
	assert.NoError(t, ChangeEvent{Type: ChangeUpdated, EventID: 1, Status: "approved"}.Validate())
	assert.NoError(t, ChangeEvent{Type: ChangeDeleted, EventID: 1}.Validate())

	assert.Error(t, ChangeEvent{Type: "upserted", EventID: 1}.Validate(), "unknown type rejected")
	assert.Error(t, ChangeEvent{Type: ChangeInserted}.Validate(), "missing event id rejected")
}

func TestHandleChange_NotifiesSubmitterOnModeration(t *testing.T) {
	repo := &fakeRepo{}
	submitter := uint(7)
	svc := NewService(repo, lookupFor(map[uint]*EventInfo{
		1: {Title: "Fun Run", Status: "approved", SubmittedBy: &submitter},
	}))

	err := svc.HandleChange(context.Background(), ChangeEvent{Type: ChangeUpdated, EventID: 1, Status: "approved"})
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	assert.Equal(t, submitter, repo.created[0].UserID)
	assert.Contains(t, repo.created[0].Title, "approved")
}

func TestHandleChange_SkipsSystemEventsAndDeletes(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, lookupFor(map[uint]*EventInfo{
		1: {Title: "Imported", Status: "approved", SubmittedBy: nil},
	}))
	ctx := context.Background()

	require.NoError(t, svc.HandleChange(ctx, ChangeEvent{Type: ChangeUpdated, EventID: 1, Status: "approved"}))
	require.NoError(t, svc.HandleChange(ctx, ChangeEvent{Type: ChangeDeleted, EventID: 1}))
	assert.Empty(t, repo.created)
}

func TestHandleChange_NotifiesAdminsOfPendingSubmission(t *testing.T) {
	repo := &fakeRepo{adminIDs: []uint{1, 2}}
	submitter := uint(7)
	svc := NewService(repo, lookupFor(map[uint]*EventInfo{
		3: {Title: "Garage Sale", Status: "pending", SubmittedBy: &submitter},
	}))

	err := svc.HandleChange(context.Background(), ChangeEvent{Type: ChangeInserted, EventID: 3, Status: "pending"})
	require.NoError(t, err)
	require.Len(t, repo.created, 3)

	byUser := map[uint]string{}
	for _, n := range repo.created {
		byUser[n.UserID] = n.Title
	}
	assert.Equal(t, "Submission received", byUser[submitter])
	assert.Equal(t, "New event awaiting review", byUser[1])
	assert.Equal(t, "New event awaiting review", byUser[2])
}

func TestHandleChange_AdminSubmitterNotDoubleNotified(t *testing.T) {
	repo := &fakeRepo{adminIDs: []uint{1}}
	submitter := uint(1)
	svc := NewService(repo, lookupFor(map[uint]*EventInfo{
		4: {Title: "Town Hall", Status: "pending", SubmittedBy: &submitter},
	}))

	err := svc.HandleChange(context.Background(), ChangeEvent{Type: ChangeInserted, EventID: 4, Status: "pending"})
	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "Submission received", repo.created[0].Title)
}

func TestPublish_DispatchesInProcessWithoutKafka(t *testing.T) {
	repo := &fakeRepo{}
	submitter := uint(7)
	svc := NewService(repo, lookupFor(map[uint]*EventInfo{
		2: {Title: "Garage Sale", Status: "pending", SubmittedBy: &submitter},
	}))

	// Kafka is not initialized in tests, so Publish must fall through to
	// the in-process handler.
	err := svc.Publish(context.Background(), ChangeEvent{Type: ChangeInserted, EventID: 2, Status: "pending"})
	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "Submission received", repo.created[0].Title)
}

func TestMarkRead(t *testing.T) {
	repo := &fakeRepo{}
	repo.created = append(repo.created, InAppNotification{ID: 1, UserID: 7, Title: "x"})
	svc := NewService(repo, lookupFor(nil))
	ctx := context.Background()

	require.NoError(t, svc.MarkRead(ctx, 1, 7))
	assert.Error(t, svc.MarkRead(ctx, 1, 8), "cannot mark another user's notification")

	items, err := svc.ListForUser(ctx, 7, true)
	require.NoError(t, err)
	assert.Empty(t, items, "read notifications excluded from unread view")
}
