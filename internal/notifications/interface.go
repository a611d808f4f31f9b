package notifications

// Notifier pushes signal opportunities and critical risk alerts to an
// external channel. Implementations must be safe for concurrent use:
// the risk manager fires alerts from its evaluation cycle while the
// scan loop pushes opportunities.
type Notifier interface {
	// SendAlert sends a message at the given level (info, warning, error).
	SendAlert(level, message string) error
}
