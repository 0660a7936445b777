package notify

import "log/slog"

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityError   Severity = "error"
)

// Notifier is the user-facing toast presenter. The core only guarantees
// it is invoked; rendering is somebody else's problem.
type Notifier interface {
	Notify(message string, severity Severity)
}

// Slog routes notifications to the structured log. Default presenter for
// headless runs.
type Slog struct {
	Log *slog.Logger
}

func (n Slog) Notify(message string, severity Severity) {
	n.Log.Info("notification", "message", message, "severity", string(severity))
}

// Nop drops notifications.
type Nop struct{}

func (Nop) Notify(string, Severity) {}
