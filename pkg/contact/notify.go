package contact

// Kind tells the presentation layer how to style a notification.
type Kind int

// Notification kinds.
const (
	KindSuccess Kind = iota
	KindError
)

// Notification is a toast-style message for the user.
type Notification struct {
	Kind        Kind
	Title       string
	Description string
}

// Notifier is the presentation layer's notification sink.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notification)

// Notify calls fn(n).
func (fn NotifierFunc) Notify(n Notification) {
	fn(n)
}
