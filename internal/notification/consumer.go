package notification

import (
	"context"
	"encoding/json"

	"github.com/newwestevents/events-backend/config"
	"github.com/newwestevents/events-backend/utils"
)

// StartKafkaConsumer drains the change-event topic into in-app
// notifications. No-op when Kafka is not configured (Publish then dispatches
// in-process instead). Runs until ctx is canceled.
func StartKafkaConsumer(ctx context.Context, cfg *config.Config, svc Service) {
	reader := utils.NewKafkaReader(cfg, "notifications")
	if reader == nil {
		return
	}

	go func() {
		defer reader.Close()
		utils.Log.WithField("topic", cfg.KafkaTopic).Info("change-event consumer started")

		for {
			msg, err := reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				utils.Log.Warnf("change-event read failed: %v", err)
				continue
			}

			var change ChangeEvent
			if err := json.Unmarshal(msg.Value, &change); err != nil {
				utils.Log.Warnf("dropping malformed change event: %v", err)
				continue
			}
			if err := change.Validate(); err != nil {
				utils.Log.Warnf("dropping invalid change event: %v", err)
				continue
			}

			if err := svc.HandleChange(ctx, change); err != nil {
				utils.Log.WithField("event_id", change.EventID).Warnf("change event handling failed: %v", err)
			}
		}
	}()
}
