package app

import (
	"sync"
	"time"

	"github.com/MGTheTrain/record-vault/internal/pkg/logger"
)

// Variant grades a notification
type Variant string

const (
	VariantSuccess Variant = "success"
	VariantError   Variant = "error"
	VariantWarning Variant = "warning"
	VariantInfo    Variant = "info"
)

// Notification titles reported for user actions
const (
	MsgAddCompanySuccess    = "Success add company"
	MsgAddCompanyFailed     = "Failed add company"
	MsgRemoveCompanySuccess = "Success remove company"
	MsgRemoveCompanyFailed  = "Failed remove company"
	MsgCompanyNotFound      = "Company is not found"
	MsgAddUserSuccess       = "Success add user"
	MsgAddUserFailed        = "Failed add user"
	MsgRemoveUserSuccess    = "Success remove user"
	MsgRemoveUserFailed     = "Failed remove user"
	MsgUserNotFound         = "User is not found"
	MsgImportSuccess        = "Import DB Successfully"
	MsgResetSuccess         = "Reset DB Successfully"
	MsgSomethingWentWrong   = "Something went wrong"
)

// Notification is a user-visible outcome of an action
type Notification struct {
	Variant Variant   `json:"variant" yaml:"variant"`
	Title   string    `json:"title" yaml:"title"`
	Message string    `json:"message,omitempty" yaml:"message,omitempty"`
	At      time.Time `json:"at" yaml:"at"`
}

// Notifier is the user notification surface
type Notifier interface {
	Notify(n Notification)
}

func notify(n Notifier, variant Variant, title, message string) {
	n.Notify(Notification{Variant: variant, Title: title, Message: message, At: time.Now().UTC()})
}

type logNotifier struct {
	logger logger.Logger
}

// NewLogNotifier reports notifications through the logger
func NewLogNotifier(logger logger.Logger) Notifier {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) Notify(notification Notification) {
	switch notification.Variant {
	case VariantError:
		n.logger.Error(notification.Title, ": ", notification.Message)
	case VariantWarning:
		n.logger.Warn(notification.Title, ": ", notification.Message)
	default:
		n.logger.Info(notification.Title, ": ", notification.Message)
	}
}

// NotificationLog keeps the most recent notifications and forwards them to next
type NotificationLog struct {
	mu      sync.Mutex
	entries []Notification
	limit   int
	next    Notifier
}

// NewNotificationLog keeps up to limit notifications; next may be nil
func NewNotificationLog(limit int, next Notifier) *NotificationLog {
	return &NotificationLog{limit: limit, next: next}
}

func (l *NotificationLog) Notify(n Notification) {
	l.mu.Lock()
	l.entries = append(l.entries, n)
	if len(l.entries) > l.limit {
		l.entries = l.entries[len(l.entries)-l.limit:]
	}
	l.mu.Unlock()

	if l.next != nil {
		l.next.Notify(n)
	}
}

// Recent returns the kept notifications, oldest first
func (l *NotificationLog) Recent() []Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Notification(nil), l.entries...)
}
