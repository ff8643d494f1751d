package notifier

// Kind labels for outbound messages
const (
	KindUrgent    = "urgent"
	KindScheduled = "scheduled"
)

// Notifier represents a service for delivering operator notifications.
// Delivery is best effort; callers must never pass an empty body.
type Notifier interface {
	// Notify delivers a message body to the configured destination
	Notify(kind string, body string) error

	// Close closes the notifier connection
	Close() error
}
