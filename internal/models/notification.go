// internal/models/notification.go
package models

// Notification categories driving dispatch.
const (
	NotificationWelcome     = "WELCOME"
	NotificationWelcomeBack = "WELCOME_BACK"
	NotificationNewsDigest  = "NEWS_DIGEST"
	NotificationPriceChange = "PRICE_CHANGE"
)

// Notification is an ephemeral dispatch payload. Its only durable trace
// is the recipient's incremented badge count and the push provider's
// invalid-token feedback.
type Notification struct {
	ID       string            `json:"id"`
	Category string            `json:"category"`
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Data     map[string]string `json:"data,omitempty"`
	Badge    int               `json:"badge,omitempty"`
}
