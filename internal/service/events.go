package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/inventory/pkg/logging"
)

const publishTimeout = 5 * time.Second

// publish never fails the caller: the write already happened, so a broker
// outage is only logged.
func publish(ctx context.Context, p EventPublisher, topic, key string, event map[string]any) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("event_publish_failed", "topic", topic, "type", event["type"], "error", err)
	}
}

func userEvent(kind, id string) map[string]any {
	return map[string]any{"type": kind, "userID": id}
}

func productEvent(kind, id, title string) map[string]any {
	return map[string]any{"type": kind, "productID": id, "title": title}
}

