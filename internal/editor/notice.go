package editor

import "log/slog"

// NoticeInvalidJSON is the message shown when a loaded document cannot be
// decoded.
const NoticeInvalidJSON = "Invalid JSON data"

// NoticeLevel grades a user-visible notice.
type NoticeLevel string

const (
	NoticeInfo  NoticeLevel = "info"
	NoticeError NoticeLevel = "error"
)

// Notice is a message the control surface shows to the user.
type Notice struct {
	Level   NoticeLevel
	Message string
	// Err is the underlying failure, if any.
	Err error
}

// Notifier receives user-visible notices.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notice) {
	f(n)
}

// logNotifier is used when no Notifier is configured.
type logNotifier struct {
	logger *slog.Logger
}

func (l logNotifier) Notify(n Notice) {
	attrs := []any{"level", string(n.Level)}
	if n.Err != nil {
		attrs = append(attrs, "error", n.Err)
	}
	l.logger.Warn(n.Message, attrs...)
}
