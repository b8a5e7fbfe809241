package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/newwestevents/events-backend/utils"
)

// EventInfo is the minimal event detail the service needs to compose a
// notification. Looked up through a function injected at wiring time, which
// keeps this package independent of the event package.
type EventInfo struct {
	Title       string
	Status      string
	SubmittedBy *uint
}

// EventLookup resolves an event id to the info above. Returns nil, nil when
// the event no longer exists.
type EventLookup func(ctx context.Context, eventID uint) (*EventInfo, error)

type Service interface {
	// Publish announces a change. With Kafka configured the change rides the
	// broker and comes back through the consumer; otherwise it is handled
	// in-process so behavior degrades explicitly, not silently.
	Publish(ctx context.Context, change ChangeEvent) error

	// HandleChange turns a validated change event into in-app notifications.
	HandleChange(ctx context.Context, change ChangeEvent) error

	ListForUser(ctx context.Context, userID uint, unreadOnly bool) ([]InAppNotification, error)
	MarkRead(ctx context.Context, id, userID uint) error
}

type service struct {
	repo   Repository
	lookup EventLookup
}

func NewService(repo Repository, lookup EventLookup) Service {
	return &service{repo: repo, lookup: lookup}
}

func (s *service) Publish(ctx context.Context, change ChangeEvent) error {
	if err := change.Validate(); err != nil {
		return err
	}

	if !utils.KafkaEnabled() {
		return s.HandleChange(ctx, change)
	}

	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}
	key := strconv.FormatUint(uint64(change.EventID), 10)
	if err := utils.PublishMessage(ctx, key, payload); err != nil {
		// The broker being down must not fail the mutation that already
		// happened; fall back to in-process dispatch and say so.
		utils.Log.WithField("event_id", change.EventID).Warnf("kafka publish failed, dispatching in-process: %v", err)
		return s.HandleChange(ctx, change)
	}
	return nil
}

func (s *service) HandleChange(ctx context.Context, change ChangeEvent) error {
	if err := change.Validate(); err != nil {
		return err
	}

	// Deleted events have nothing left to look up and nobody to notify.
	if change.Type == ChangeDeleted {
		return nil
	}

	info, err := s.lookup(ctx, change.EventID)
	if err != nil {
		return fmt.Errorf("lookup event %d: %w", change.EventID, err)
	}
	if info == nil {
		return nil
	}

	// A new pending submission has two audiences: the submitter gets an
	// acknowledgement, every admin gets a moderation-queue notice.
	if change.Type == ChangeInserted && info.Status == "pending" {
		if info.SubmittedBy != nil {
			err := s.repo.Create(ctx, &InAppNotification{
				UserID: *info.SubmittedBy,
				Title:  "Submission received",
				Body:   fmt.Sprintf("%q is waiting for review.", info.Title),
			})
			if err != nil {
				return err
			}
		}

		adminIDs, err := s.repo.AdminIDs(ctx)
		if err != nil {
			return fmt.Errorf("list admins: %w", err)
		}
		for _, adminID := range adminIDs {
			if info.SubmittedBy != nil && *info.SubmittedBy == adminID {
				continue
			}
			err := s.repo.Create(ctx, &InAppNotification{
				UserID: adminID,
				Title:  "New event awaiting review",
				Body:   fmt.Sprintf("%q was submitted and needs moderation.", info.Title),
			})
			if err != nil {
				return err
			}
		}
		return nil
	}

	if info.SubmittedBy == nil {
		return nil
	}

	var title, body string
	switch {
	case change.Type == ChangeUpdated && info.Status == "approved":
		title = "Your event was approved"
		body = fmt.Sprintf("%q is now listed on the community calendar.", info.Title)
	case change.Type == ChangeUpdated && info.Status == "rejected":
		title = "Your event was not approved"
		body = fmt.Sprintf("%q was reviewed and not approved for listing.", info.Title)
	default:
		return nil
	}

	return s.repo.Create(ctx, &InAppNotification{
		UserID: *info.SubmittedBy,
		Title:  title,
		Body:   body,
	})
}

func (s *service) ListForUser(ctx context.Context, userID uint, unreadOnly bool) ([]InAppNotification, error) {
	return s.repo.ListForUser(ctx, userID, unreadOnly)
}

func (s *service) MarkRead(ctx context.Context, id, userID uint) error {
	return s.repo.MarkRead(ctx, id, userID)
}
