package services

import "go.uber.org/zap"

// Routing keys of the domain events published after successful writes.
const (
	EventUserRegistered  = "user.registered"
	EventTourCreated     = "tour.created"
	EventVenueCreated    = "venue.created"
	EventEventCreated    = "event.created"
	EventCartItemAdded   = "cart.item_added"
	EventCartItemUpdated = "cart.item_updated"
)

// Publisher publishes domain events. *rabbitmq.Client satisfies it.
type Publisher interface {
	Publish(routingKey string, payload interface{}) error
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(string, interface{}) error { return nil }

// notifier publishes best effort: the write is already committed, so a broker failure
// is logged and never reported to the caller.
type notifier struct {
	pub Publisher
	log *zap.Logger
}

func newNotifier(pub Publisher, log *zap.Logger) notifier {
	if pub == nil {
		pub = NopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return notifier{pub: pub, log: log}
}

func (n notifier) publish(key string, payload interface{}) {
	if err := n.pub.Publish(key, payload); err != nil {
		n.log.Warn("failed to publish domain event", zap.String("routing_key", key), zap.Error(err))
	}
}
