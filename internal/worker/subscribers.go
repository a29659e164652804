package worker

// Subscriber is anything that wires its event handlers into the dispatcher.
type Subscriber interface {
	RegisterHandlers()
}

// StartSubscribers registers handlers in the given order. Order matters:
// handlers for the same event run in registration order.
func StartSubscribers(subscribers ...Subscriber) {
	for _, s := range subscribers {
		if s == nil {
			continue
		}
		s.RegisterHandlers()
	}
}
