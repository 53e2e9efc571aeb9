package authflow

// Notifier surfaces user-facing messages emitted by auth operations.
// Implementations render toasts, banners, or log lines as the consumer
// sees fit.
type Notifier interface {
	Success(msg string)
	Error(msg string)
	Warning(msg string)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Error(string)   {}
func (NopNotifier) Warning(string) {}
