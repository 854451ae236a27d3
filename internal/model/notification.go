package model

// Notification types carried in the push payload's data map.
const (
	NotificationTypeLike    = "POST_LIKED"
	NotificationTypeComment = "POST_COMMENTED"
	NotificationTypeFollow  = "USER_FOLLOWED"
	NotificationTypeTest    = "TEST"
)

// PushNotification is a provider-agnostic push message: a visible
// title/body pair plus a data map the client app routes on.
type PushNotification struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}
